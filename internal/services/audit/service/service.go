// Package service records ingest decisions to clickhouse when it is configured
package service

import (
	"context"
	"time"

	"shoof/internal/modkit"
	perr "shoof/internal/platform/errors"
	"shoof/internal/services/audit/domain"
	"shoof/internal/services/audit/repo"
)

// Svc is the audit sink and reader; without clickhouse every call is a no-op
type Svc struct {
	repo *repo.CH
}

var (
	_ domain.SinkPort   = (*Svc)(nil)
	_ domain.ReaderPort = (*Svc)(nil)
)

// New builds the audit service from deps; a nil CH yields a disabled sink
func New(deps modkit.Deps) *Svc {
	if deps.CH == nil {
		return &Svc{}
	}
	return &Svc{repo: repo.NewCH(deps.CH)}
}

// Enabled reports whether events reach clickhouse
func (s *Svc) Enabled() bool { return s != nil && s.repo != nil }

// EnsureSchema creates the events table; a disabled sink does nothing
func (s *Svc) EnsureSchema(ctx context.Context) error {
	if !s.Enabled() {
		return nil
	}
	if err := s.repo.EnsureSchema(ctx); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "audit schema")
	}
	return nil
}

// Record implements domain.SinkPort
func (s *Svc) Record(ctx context.Context, events ...domain.Event) error {
	if !s.Enabled() || len(events) == 0 {
		return nil
	}
	if err := s.repo.Insert(ctx, events); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "audit insert %d events", len(events))
	}
	return nil
}

// OutcomeCounts implements domain.ReaderPort; a disabled sink answers Unavailable
func (s *Svc) OutcomeCounts(ctx context.Context, since time.Time) ([]domain.OutcomeCount, error) {
	if !s.Enabled() {
		return nil, perr.Unavailablef("ingest audit is disabled")
	}
	out, err := s.repo.OutcomeCounts(ctx, since)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "audit outcome counts")
	}
	return out, nil
}
