// Package domain holds DTOs for stats http and service contracts
package domain

import (
	"time"

	auditdom "shoof/internal/services/audit/domain"
)

// Recent list bounds
const (
	DefaultRecent = 10
	MaxRecent     = 50
	SampleTitles  = 5
)

// SummaryInput sizes the latest parts list
type SummaryInput struct {
	Recent int `query:"recent" json:"recent,omitempty" validate:"min=0,max=50" example:"10"`
}

// KindCounts counts titles per kind
type KindCounts struct {
	Series int `json:"series" example:"41"`
	Movies int `json:"movies" example:"12"`
	Total  int `json:"total" example:"53"`
}

// RecentPart is one of the latest stored parts
type RecentPart struct {
	ID        int64     `json:"id" example:"301"`
	TitleName string    `json:"title_name" example:"المحافظ"`
	Kind      string    `json:"kind" example:"series"`
	Season    int       `json:"season" example:"2"`
	Number    int       `json:"number" example:"7"`
	Link      string    `json:"link,omitempty" example:"https://t.me/ShoofFilm/1534"`
	AddedAt   time.Time `json:"added_at"`
}

// Summary is a debug view of the catalog
type Summary struct {
	Titles  KindCounts   `json:"titles"`
	Parts   int          `json:"parts" example:"812"`
	Samples []string     `json:"samples"`
	Recent  []RecentPart `json:"recent"`
}

// IngestInput sizes the audit window
type IngestInput struct {
	Hours int `query:"hours" json:"hours,omitempty" validate:"min=0,max=720" example:"24"`
}

// Run is one import run from the ledger
type Run struct {
	ID         string     `json:"id"`
	ChannelRef string     `json:"channel_ref" example:"ShoofFilm"`
	Mode       string     `json:"mode" example:"backfill"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Fetched    int        `json:"fetched"`
	Imported   int        `json:"imported"`
	Duplicates int        `json:"duplicates"`
	Skipped    int        `json:"skipped"`
	Error      string     `json:"error,omitempty"`
}

// IngestStats joins audit outcome counts with the latest runs
type IngestStats struct {
	Since    time.Time               `json:"since"`
	Outcomes []auditdom.OutcomeCount `json:"outcomes"`
	Runs     []Run                   `json:"runs"`
}
