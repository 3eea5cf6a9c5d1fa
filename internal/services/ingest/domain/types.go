// Package domain defines per post pipeline outcomes and their tally
package domain

import (
	"context"

	"shoof/internal/adapters/ingest/channel"
)

// Outcome is what the pipeline did with one post
type Outcome uint8

const (
	// Failed means the store refused or could not be reached
	Failed Outcome = iota
	// Imported means a new part was stored
	Imported
	// Duplicate means the post was stored before
	Duplicate
	// Miss means no classification rule matched
	Miss
)

func (o Outcome) String() string {
	switch o {
	case Imported:
		return "imported"
	case Duplicate:
		return "duplicate"
	case Miss:
		return "miss"
	default:
		return "failed"
	}
}

// ProcessorPort handles one post end to end and never fails the caller
type ProcessorPort interface {
	Process(ctx context.Context, p channel.Post) Outcome
}

// Tally counts outcomes over a run
type Tally struct {
	Fetched    int `json:"fetched"`
	Imported   int `json:"imported"`
	Duplicates int `json:"duplicates"`
	Misses     int `json:"misses"`
	Failures   int `json:"failures"`
}

// Add counts one outcome
func (t *Tally) Add(o Outcome) {
	switch o {
	case Imported:
		t.Imported++
	case Duplicate:
		t.Duplicates++
	case Miss:
		t.Misses++
	default:
		t.Failures++
	}
}

// Skipped is every post that did not end up in the catalog for a reason other than a duplicate
func (t Tally) Skipped() int { return t.Misses + t.Failures }
