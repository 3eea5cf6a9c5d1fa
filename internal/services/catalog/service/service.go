// Package service implements the idempotent catalog writer
package service

import (
	"context"
	"errors"
	"time"

	"shoof/internal/modkit"
	"shoof/internal/modkit/repokit"
	perr "shoof/internal/platform/errors"
	"shoof/internal/services/catalog/domain"
	"shoof/internal/services/catalog/repo"
)

// Config carries runtime knobs for the writer
type Config struct {
	// StatementTimeout bounds each statement of an upsert transaction, 0 keeps the server default
	StatementTimeout time.Duration
}

// Svc implements domain.WriterPort
type Svc struct {
	binder repokit.Binder[repo.Storage]
	db     repokit.TxRunner
	deps   modkit.Deps
	cfg    Config
}

var _ domain.WriterPort = (*Svc)(nil)

// errOrphanTitle unwinds a transaction that created a title but stored no part
var errOrphanTitle = errors.New("catalog: title created without part")

// New constructs the catalog writer
func New(deps modkit.Deps, cfg Config) *Svc {
	return NewWithBinder(deps, cfg, repo.NewPG())
}

// NewWithBinder is New with an explicit repo binder
func NewWithBinder(deps modkit.Deps, cfg Config, b repokit.Binder[repo.Storage]) *Svc {
	if deps.PG == nil {
		panic("catalog.Service requires a non nil TxRunner")
	}
	if b == nil {
		panic("catalog.Service requires a non nil binder")
	}
	return &Svc{
		binder: b,
		db:     repokit.WithBeginHooks(deps.PG, repokit.StatementTimeout(cfg.StatementTimeout)),
		deps:   deps,
		cfg:    cfg,
	}
}

// Upsert implements domain.WriterPort
// title and part are written in one transaction; a duplicate external id leaves no trace
func (s *Svc) Upsert(
	ctx context.Context,
	c domain.Candidate,
	externalMessageID int64,
	channelRef string,
	postedAt time.Time,
) (domain.Outcome, error) {
	if err := Validate(c, externalMessageID); err != nil {
		return domain.OutcomeFailed, err
	}

	outcome := domain.OutcomeInserted
	err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		r := s.binder.Bind(q)

		titleID, created, err := r.UpsertTitle(ctx, c.Name, c.Kind)
		if err != nil {
			return err
		}
		inserted, err := r.InsertPart(ctx, repo.PartRow{
			TitleID:           titleID,
			Season:            c.Season,
			Number:            c.Number,
			ExternalMessageID: externalMessageID,
			ChannelRef:        channelRef,
			PostedAt:          postedAt,
		})
		if err != nil {
			return err
		}
		if !inserted {
			outcome = domain.OutcomeDuplicateIgnored
			if created {
				return errOrphanTitle
			}
		}
		return nil
	})

	switch {
	case errors.Is(err, errOrphanTitle):
		return domain.OutcomeDuplicateIgnored, nil
	case err != nil:
		return domain.OutcomeFailed, perr.WithOp(perr.FromPostgresf(err, "catalog upsert message %d", externalMessageID), "catalog.upsert")
	}
	return outcome, nil
}

// LastMessageID implements domain.WriterPort
func (s *Svc) LastMessageID(ctx context.Context, channelRef string) (int64, error) {
	id, err := s.binder.Bind(s.deps.PG).LastMessageID(ctx, channelRef)
	if err != nil {
		return 0, perr.FromPostgres(err, "catalog last message id")
	}
	return id, nil
}

// Validate rejects candidates the schema would refuse
func Validate(c domain.Candidate, externalMessageID int64) error {
	switch {
	case c.Name == "":
		return perr.WithField(perr.Validationf("candidate name is empty"), "name")
	case !c.Kind.Valid():
		return perr.WithField(perr.Validationf("unknown kind %q", c.Kind), "kind")
	case c.Season < 1:
		return perr.WithField(perr.Validationf("season must be >= 1, got %d", c.Season), "season")
	case c.Number < 1:
		return perr.WithField(perr.Validationf("number must be >= 1, got %d", c.Number), "number")
	case externalMessageID < 1:
		return perr.WithField(perr.Validationf("external message id must be >= 1, got %d", externalMessageID), "external_message_id")
	}
	return nil
}
