package telegram

import (
	"cmp"
	"context"
	"net/url"
	"slices"
	"strconv"
	"time"

	"shoof/internal/adapters/ingest/channel"
	pstrings "shoof/internal/platform/strings"
)

// pageSize is how many posts the preview serves per page
const pageSize = 20

// Source is a channel.Source over the web preview of one public channel
type Source struct {
	c       *Client
	channel string
	poll    time.Duration
	sleep   func(context.Context, time.Duration) error
}

var _ channel.Source = (*Source)(nil)

// NewSource reads channelName (any form ChannelRef accepts) polling every poll for live posts
func NewSource(c *Client, channelName string, poll time.Duration) *Source {
	if poll <= 0 {
		poll = 30 * time.Second
	}
	return &Source{
		c:       c,
		channel: pstrings.ChannelRef(channelName),
		poll:    poll,
		sleep:   sleepCtx,
	}
}

// Ref implements channel.Source
func (s *Source) Ref() string { return s.channel }

// History pages backwards with ?before= until w.Limit posts are read or the channel start is reached
// posts come back newest first
func (s *Source) History(ctx context.Context, w channel.Window) ([]channel.Post, error) {
	before := w.BeforeID
	var out []channel.Post
	for w.Limit <= 0 || len(out) < w.Limit {
		q := url.Values{}
		if before > 0 {
			q.Set("before", strconv.FormatInt(before, 10))
		}
		page, err := s.page(ctx, q)
		if err != nil {
			return nil, err
		}
		page = slices.DeleteFunc(page, func(p channel.Post) bool { return before > 0 && p.ID >= before })
		if len(page) == 0 {
			break
		}
		slices.SortFunc(page, func(a, b channel.Post) int { return cmp.Compare(b.ID, a.ID) })
		for _, p := range page {
			if w.Limit > 0 && len(out) == w.Limit {
				break
			}
			out = append(out, p)
		}
		before = page[len(page)-1].ID
		if before <= 1 {
			break
		}
	}
	return out, nil
}

// Stream polls ?after= and hands posts to fn oldest first
// a full page is followed up at once; otherwise it waits the poll interval
func (s *Source) Stream(ctx context.Context, afterID int64, fn channel.Handler) error {
	for {
		q := url.Values{}
		if afterID > 0 {
			q.Set("after", strconv.FormatInt(afterID, 10))
		}
		page, err := s.page(ctx, q)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			return channel.Disconnected(err, "telegram stream of %s", s.channel)
		}

		fresh := 0
		for _, p := range channel.Ascending(page) {
			if p.ID <= afterID {
				continue
			}
			if err := fn(ctx, p); err != nil {
				return err
			}
			afterID = p.ID
			fresh++
		}
		if fresh >= pageSize {
			continue
		}
		if s.sleep(ctx, s.poll) != nil {
			return nil
		}
	}
}

func (s *Source) page(ctx context.Context, q url.Values) ([]channel.Post, error) {
	body, err := s.c.Fetch(ctx, s.channel, q)
	if err != nil {
		return nil, err
	}
	posts, err := Parse(body)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		posts[i].Channel = s.channel
	}
	return posts, nil
}
