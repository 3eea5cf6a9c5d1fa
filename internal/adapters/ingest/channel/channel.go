// Package channel defines the contract every ingestion source satisfies
package channel

import (
	"cmp"
	"context"
	"slices"
	"time"

	perr "shoof/internal/platform/errors"
)

// Post is one message read from the broadcast channel
type Post struct {
	ID       int64     `json:"id"`
	Text     string    `json:"text"`
	PostedAt time.Time `json:"posted_at"`
	Channel  string    `json:"channel"`
}

// Window bounds a history read; BeforeID 0 means from the newest post
type Window struct {
	Limit    int
	BeforeID int64
}

// HistorySource reads past posts; order of the returned slice is not guaranteed
type HistorySource interface {
	History(ctx context.Context, w Window) ([]Post, error)
}

// Handler consumes one streamed post; an error stops the stream and is returned by Stream
type Handler func(ctx context.Context, p Post) error

// Streamer delivers posts newer than afterID in ascending id order
// Stream returns nil once ctx is done and an error when the transport drops
type Streamer interface {
	Stream(ctx context.Context, afterID int64, fn Handler) error
}

// Source is a channel that can be both backfilled and followed
type Source interface {
	HistorySource
	Streamer
	// Ref names the channel, e.g. ShoofFilm
	Ref() string
}

// Disconnected wraps a transport failure as an Unavailable error
func Disconnected(err error, format string, a ...any) error {
	if err == nil {
		return nil
	}
	return perr.Wrapf(err, perr.ErrorCodeUnavailable, format, a...)
}

// Ascending sorts posts oldest first and drops zero and repeated ids
// the input slice is reordered in place
func Ascending(posts []Post) []Post {
	slices.SortStableFunc(posts, func(a, b Post) int { return cmp.Compare(a.ID, b.ID) })
	out := posts[:0]
	var last int64
	for _, p := range posts {
		if p.ID <= 0 || p.ID == last {
			continue
		}
		out = append(out, p)
		last = p.ID
	}
	return out
}
