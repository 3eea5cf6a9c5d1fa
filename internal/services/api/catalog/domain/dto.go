// Package domain holds DTOs and helpers for the catalog query api
package domain

import (
	"strconv"
	"strings"
	"time"

	"shoof/internal/core/classify"
)

// Sort orders a title listing
type Sort string

const (
	// SortInsertion lists titles in the order they were first catalogued
	SortInsertion Sort = "insertion"
	// SortAlphabetical lists titles by case folded name
	SortAlphabetical Sort = "alphabetical"
	// SortRecent lists titles by their newest part, newest first
	SortRecent Sort = "recent"
)

// Valid reports whether s is a known sort
func (s Sort) Valid() bool {
	switch s {
	case SortInsertion, SortAlphabetical, SortRecent:
		return true
	}
	return false
}

// Kind is the catalog kind
type Kind = classify.Kind

// Listing bounds
const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// ListTitlesInput filters and pages a title listing
type ListTitlesInput struct {
	Sort   string `query:"sort" json:"sort,omitempty" validate:"omitempty,oneof=insertion alphabetical recent" example:"recent"`
	Kind   string `query:"kind" json:"kind,omitempty" validate:"omitempty,oneof=series movie" example:"series"`
	Limit  int    `query:"limit" json:"limit,omitempty" validate:"min=0,max=1000" example:"100"`
	Offset int    `query:"offset" json:"offset,omitempty" validate:"min=0" example:"0"`
}

// TitleSummary is one title with its part count
type TitleSummary struct {
	ID        int64     `json:"id" example:"12"`
	Name      string    `json:"name" example:"المحافظ"`
	Kind      Kind      `json:"kind" example:"series"`
	PartCount int       `json:"part_count" example:"24"`
	CreatedAt time.Time `json:"created_at"`
}

// TitlePage is a window of titles plus the total matching the filter
type TitlePage struct {
	Items  []TitleSummary
	Total  int
	Limit  int
	Offset int
}

// PartItem is one part inside a title listing
type PartItem struct {
	ID                int64     `json:"id" example:"301"`
	Season            int       `json:"season" example:"2"`
	Number            int       `json:"number" example:"7"`
	ExternalMessageID int64     `json:"external_message_id" example:"1534"`
	Link              string    `json:"link,omitempty" example:"https://t.me/ShoofFilm/1534"`
	AddedAt           time.Time `json:"added_at"`
}

// SeasonGroup holds the parts of one season ordered by number
// Grid is filled by transports that render fixed width rows
type SeasonGroup struct {
	Season int          `json:"season" example:"1"`
	Parts  []PartItem   `json:"parts"`
	Grid   [][]PartItem `json:"rows,omitempty"`
}

// Rows splits the season's parts into rows of size
func (g SeasonGroup) Rows(size int) [][]PartItem { return Chunk(g.Parts, size) }

// TitleParts is a title with its parts grouped by season
type TitleParts struct {
	Title   TitleSummary  `json:"title"`
	Seasons []SeasonGroup `json:"seasons"`
}

// PartsInput controls how a title's parts render
type PartsInput struct {
	RowSize int `query:"row_size" validate:"min=0,max=50" example:"5"`
}

// PartView is one part with its title and deep link
type PartView struct {
	ID                int64      `json:"id" example:"301"`
	TitleID           int64      `json:"title_id" example:"12"`
	TitleName         string     `json:"title_name" example:"المحافظ"`
	Kind              Kind       `json:"kind" example:"series"`
	Season            int        `json:"season" example:"2"`
	PartNumber        int        `json:"part_number" example:"7"`
	ExternalMessageID int64      `json:"external_message_id" example:"1534"`
	ChannelRef        string     `json:"channel_ref" example:"ShoofFilm"`
	PostedAt          *time.Time `json:"posted_at,omitempty"`
	AddedAt           time.Time  `json:"added_at"`
	Link              string     `json:"link,omitempty" example:"https://t.me/ShoofFilm/1534"`
}

// ClassifyInput is free text to run through the classifier
type ClassifyInput struct {
	Text string `json:"text" validate:"required,max=4096" example:"المحافظ الموسم 2 الحلقة 7"`
}

// ClassifyOutput explains what the ingest pipeline would do with a post
type ClassifyOutput struct {
	Recognized bool                `json:"recognized" example:"true"`
	Rule       string              `json:"rule,omitempty" example:"series-season-episode"`
	Candidate  *classify.Candidate `json:"candidate,omitempty"`
	Normalized string              `json:"normalized,omitempty"`
}

// Chunk splits items into consecutive groups of size keeping their order
// the last group holds the remainder; size <= 0 yields one group
func Chunk[T any](items []T, size int) [][]T {
	if len(items) == 0 {
		return nil
	}
	if size <= 0 || size >= len(items) {
		return [][]T{items}
	}
	out := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		out = append(out, items[start:min(start+size, len(items))])
	}
	return out
}

// DeepLink joins base and the message id with one slash; empty for a zero id or base
func DeepLink(base string, externalMessageID int64) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if externalMessageID == 0 || base == "" {
		return ""
	}
	return base + "/" + strconv.FormatInt(externalMessageID, 10)
}
