// Package domain defines the types and ports of the catalog write side
package domain

import (
	"shoof/internal/core/classify"
)

type (
	// Candidate is a classified post ready to be stored
	Candidate = classify.Candidate

	// Kind is series or movie
	Kind = classify.Kind
)

// Outcome reports what an upsert did
type Outcome uint8

const (
	// OutcomeFailed means nothing was written; the paired error says why
	OutcomeFailed Outcome = iota
	// OutcomeInserted means a new part was stored
	OutcomeInserted
	// OutcomeDuplicateIgnored means the external message id was already stored
	OutcomeDuplicateIgnored
)

func (o Outcome) String() string {
	switch o {
	case OutcomeInserted:
		return "inserted"
	case OutcomeDuplicateIgnored:
		return "duplicate"
	default:
		return "failed"
	}
}
