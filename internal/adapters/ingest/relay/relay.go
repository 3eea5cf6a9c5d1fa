// Package relay reads channel posts from a redis stream filled by an external relay
//
// Entries use the id "<message_id>-0" so stream order is message order,
// with fields text, posted_at (RFC3339) and channel
package relay

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"shoof/internal/adapters/ingest/channel"
	perr "shoof/internal/platform/errors"
	pstrings "shoof/internal/platform/strings"
	ptime "shoof/internal/platform/time"

	"github.com/redis/go-redis/v9"
)

const (
	fieldText     = "text"
	fieldPostedAt = "posted_at"
	fieldChannel  = "channel"
)

// Options tunes the stream reader
type Options struct {
	// Stream is the redis key; defaults to shoof:posts:<channel>
	Stream string
	// Block is how long one XREAD waits before the loop checks ctx again
	Block time.Duration
	// Batch caps entries per XREAD
	Batch int64
}

// Relay is a channel.Source over a redis stream
type Relay struct {
	rdb     redis.UniversalClient
	channel string
	opts    Options
}

var _ channel.Source = (*Relay)(nil)

// New builds a relay source for channelName
func New(rdb redis.UniversalClient, channelName string, o Options) *Relay {
	if rdb == nil {
		panic("relay.New requires a redis client")
	}
	channelName = pstrings.ChannelRef(channelName)
	if o.Stream == "" {
		o.Stream = "shoof:posts:" + channelName
	}
	if o.Block <= 0 {
		o.Block = 5 * time.Second
	}
	if o.Batch <= 0 {
		o.Batch = 100
	}
	return &Relay{rdb: rdb, channel: channelName, opts: o}
}

// Ref implements channel.Source
func (r *Relay) Ref() string { return r.channel }

// Key returns the redis stream key read by r
func (r *Relay) Key() string { return r.opts.Stream }

// Publish appends p; an id at or below the stream top is a Conflict
func (r *Relay) Publish(ctx context.Context, p channel.Post) error {
	if p.ID <= 0 {
		return perr.WithField(perr.Validationf("post id must be positive"), "id")
	}
	if p.Channel == "" {
		p.Channel = r.channel
	}
	vals := map[string]any{fieldText: p.Text, fieldChannel: p.Channel}
	if !p.PostedAt.IsZero() {
		vals[fieldPostedAt] = p.PostedAt.UTC().Format(time.RFC3339)
	}
	err := r.rdb.XAdd(ctx, &redis.XAddArgs{Stream: r.opts.Stream, ID: entryID(p.ID), Values: vals}).Err()
	if err != nil {
		if strings.Contains(err.Error(), "equal or smaller") {
			return perr.Wrapf(err, perr.ErrorCodeConflict, "post %d is not newer than the stream top", p.ID)
		}
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "relay publish")
	}
	return nil
}

// History reads up to w.Limit entries below w.BeforeID, newest first
func (r *Relay) History(ctx context.Context, w channel.Window) ([]channel.Post, error) {
	top := "+"
	if w.BeforeID > 0 {
		if w.BeforeID == 1 {
			return nil, nil
		}
		top = strconv.FormatInt(w.BeforeID-1, 10)
	}
	var (
		msgs []redis.XMessage
		err  error
	)
	if w.Limit > 0 {
		msgs, err = r.rdb.XRevRangeN(ctx, r.opts.Stream, top, "-", int64(w.Limit)).Result()
	} else {
		msgs, err = r.rdb.XRevRange(ctx, r.opts.Stream, top, "-").Result()
	}
	if err != nil {
		return nil, channel.Disconnected(err, "relay history of %s", r.opts.Stream)
	}
	return r.decodeAll(msgs), nil
}

// Stream follows the stream with XREAD BLOCK from afterID
func (r *Relay) Stream(ctx context.Context, afterID int64, fn channel.Handler) error {
	last := entryID(max(afterID, 0))
	for {
		if ctx.Err() != nil {
			return nil
		}
		res, err := r.rdb.XRead(ctx, &redis.XReadArgs{
			Streams: []string{r.opts.Stream, last},
			Count:   r.opts.Batch,
			Block:   r.opts.Block,
		}).Result()
		if ctx.Err() != nil {
			return nil
		}
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return channel.Disconnected(err, "relay stream of %s", r.opts.Stream)
		}
		for _, s := range res {
			for _, m := range s.Messages {
				last = m.ID
				p, ok := r.decode(m)
				if !ok || p.ID <= afterID {
					continue
				}
				if err := fn(ctx, p); err != nil {
					return err
				}
				afterID = p.ID
			}
		}
	}
}

func (r *Relay) decodeAll(msgs []redis.XMessage) []channel.Post {
	out := make([]channel.Post, 0, len(msgs))
	for _, m := range msgs {
		if p, ok := r.decode(m); ok {
			out = append(out, p)
		}
	}
	return out
}

// decode maps one entry; entries whose id is not "<n>-0" are skipped
func (r *Relay) decode(m redis.XMessage) (channel.Post, bool) {
	id, ok := messageID(m.ID)
	if !ok {
		return channel.Post{}, false
	}
	p := channel.Post{ID: id, Text: str(m.Values[fieldText]), Channel: str(m.Values[fieldChannel])}
	if p.Channel == "" {
		p.Channel = r.channel
	}
	if ts := str(m.Values[fieldPostedAt]); ts != "" {
		if t, err := ptime.ParseUTC(ts); err == nil {
			p.PostedAt = t
		}
	}
	return p, true
}

func entryID(id int64) string { return fmt.Sprintf("%d-0", id) }

func messageID(s string) (int64, bool) {
	ms, seq, ok := strings.Cut(s, "-")
	if !ok || seq != "0" {
		return 0, false
	}
	id, err := strconv.ParseInt(ms, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func str(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}
