// Package channeltest provides an in memory channel source for tests
package channeltest

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"shoof/internal/adapters/ingest/channel"
)

// Session scripts one Stream call: deliver Posts then fail with Err
// a nil Err blocks until ctx is done
type Session struct {
	Posts []channel.Post
	Err   error
}

// Source is a scripted channel.Source
type Source struct {
	Name string

	mu         sync.Mutex
	history    []channel.Post
	historyErr []error
	sessions   []Session
	afterIDs   []int64
	windows    []channel.Window
}

var _ channel.Source = (*Source)(nil)

// New returns a source holding history posts
func New(name string, history ...channel.Post) *Source {
	return &Source{Name: name, history: history}
}

// FailHistory makes the next len(errs) History calls return errs in order
func (s *Source) FailHistory(errs ...error) *Source {
	s.mu.Lock()
	s.historyErr = append(s.historyErr, errs...)
	s.mu.Unlock()
	return s
}

// Script queues Stream sessions; once exhausted Stream blocks until ctx is done
func (s *Source) Script(sessions ...Session) *Source {
	s.mu.Lock()
	s.sessions = append(s.sessions, sessions...)
	s.mu.Unlock()
	return s
}

// Ref implements channel.Source
func (s *Source) Ref() string { return s.Name }

// History returns up to w.Limit posts below w.BeforeID, newest first
func (s *Source) History(_ context.Context, w channel.Window) ([]channel.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.windows = append(s.windows, w)
	if len(s.historyErr) > 0 {
		err := s.historyErr[0]
		s.historyErr = s.historyErr[1:]
		return nil, err
	}

	sorted := slices.Clone(s.history)
	slices.SortFunc(sorted, func(a, b channel.Post) int { return cmp.Compare(b.ID, a.ID) })
	var out []channel.Post
	for _, p := range sorted {
		if w.BeforeID > 0 && p.ID >= w.BeforeID {
			continue
		}
		if w.Limit > 0 && len(out) == w.Limit {
			break
		}
		out = append(out, p)
	}
	return out, nil
}

// Stream plays the next scripted session
func (s *Source) Stream(ctx context.Context, afterID int64, fn channel.Handler) error {
	s.mu.Lock()
	s.afterIDs = append(s.afterIDs, afterID)
	var sess *Session
	if len(s.sessions) > 0 {
		sess = &s.sessions[0]
		s.sessions = s.sessions[1:]
	}
	s.mu.Unlock()

	if sess == nil {
		<-ctx.Done()
		return nil
	}
	for _, p := range sess.Posts {
		if p.ID <= afterID {
			continue
		}
		if err := fn(ctx, p); err != nil {
			return err
		}
	}
	if sess.Err != nil {
		return sess.Err
	}
	<-ctx.Done()
	return nil
}

// AfterIDs returns the afterID of every Stream call so far
func (s *Source) AfterIDs() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.afterIDs)
}

// Windows returns the window of every History call so far
func (s *Source) Windows() []channel.Window {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.windows)
}
