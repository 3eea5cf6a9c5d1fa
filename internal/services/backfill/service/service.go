// Package service provides the channel history importer
package service

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"shoof/internal/adapters/ingest/channel"
	"shoof/internal/modkit/repokit"
	perr "shoof/internal/platform/errors"
	"shoof/internal/platform/logger"
	"shoof/internal/services/backfill/domain"
	"shoof/internal/services/backfill/guardrails"
	ingestdom "shoof/internal/services/ingest/domain"

	"github.com/google/uuid"
)

// Source is the history side of a channel
type Source interface {
	channel.HistorySource
	Ref() string
}

// Config holds configuration options for the importer
type Config struct {
	// History fetch retry
	MaxRetries int           // attempts per import; <=0 -> 1
	RetryBase  time.Duration // base backoff between attempts; <=0 -> 500ms

	// Timeouts applied via guardrails
	FetchTimeout time.Duration
	RunTimeout   time.Duration

	// Per channel lease so two imports never interleave
	EnableLeases bool
	LeaseTTL     time.Duration
}

// Service implements domain.RunnerPort
type Service struct {
	DB     repokit.TxRunner
	Binder repokit.Binder[domain.StorageRepo]
	Source Source
	Proc   ingestdom.ProcessorPort
	Cfg    Config

	// Lease(ctx, channel, holder, do) holds the channel lease while do runs
	Lease guardrails.LeaseFunc

	now   func() time.Time
	sleep func(context.Context, time.Duration) error
}

var _ domain.RunnerPort = (*Service)(nil)

// New constructs the importer
func New(
	db repokit.TxRunner,
	binder repokit.Binder[domain.StorageRepo],
	src Source,
	proc ingestdom.ProcessorPort,
	cfg Config,
) *Service {
	if db == nil {
		panic("backfill.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("backfill.Service requires a non nil Repo binder")
	}
	if src == nil || proc == nil {
		panic("backfill.Service requires a source and a processor")
	}
	lease := guardrails.LeaseFunc(guardrails.NoLease)
	if cfg.EnableLeases {
		lease = guardrails.MakeLease(db, binder, cfg.LeaseTTL)
	}
	return &Service{
		DB: db, Binder: binder,
		Source: src, Proc: proc,
		Cfg:   cfg,
		Lease: lease,
		now:   time.Now,
		sleep: sleepCtx,
	}
}

// Validate checks a window before any work starts
func Validate(w domain.Window) error {
	if w.Limit < 1 || w.Limit > domain.MaxLimit {
		return perr.WithField(perr.Validationf("limit must be within 1..%d, got %d", domain.MaxLimit, w.Limit), "limit")
	}
	if w.BeforeID < 0 {
		return perr.WithField(perr.Validationf("before id must not be negative"), "before_id")
	}
	return nil
}

// Import reads a window of channel history and runs every post through the pipeline oldest first
// per post failures are counted, never fatal; a history fetch that keeps failing aborts the run
func (s *Service) Import(ctx context.Context, w domain.Window) (domain.Report, error) {
	if err := Validate(w); err != nil {
		return domain.Report{}, err
	}

	ref := s.Source.Ref()
	rep := domain.Report{RunID: uuid.NewString(), Channel: ref, StartedAt: s.now().UTC()}
	ctx = logger.WithIngest(ctx, ref, rep.RunID)
	log := logger.C(ctx)

	ctx, cancel := guardrails.WithRun(ctx, guardrails.Timeouts{Run: s.Cfg.RunTimeout})
	defer cancel()

	err := s.Lease(ctx, ref, rep.RunID, func(ctx context.Context) error {
		if err := repokit.MustBind(s.Binder, s.DB).StartRun(ctx, rep.RunID, ref, rep.StartedAt); err != nil {
			return perr.FromPostgres(err, "backfill start run")
		}
		runErr := s.run(ctx, w, &rep)
		s.finish(ctx, &rep, runErr)
		return runErr
	})
	if errors.Is(err, guardrails.ErrLeaseHeld) {
		return rep, perr.Wrapf(err, perr.ErrorCodeConflict, "backfill already running for %s", ref)
	}
	rep.Skipped = rep.Tally.Skipped()
	if err != nil {
		log.Error().Err(err).Int("fetched", rep.Fetched).Int("imported", rep.Imported).Msg("backfill: import failed")
		return rep, err
	}
	log.Info().
		Int("fetched", rep.Fetched).
		Int("imported", rep.Imported).
		Int("duplicates", rep.Duplicates).
		Int("skipped", rep.Skipped).
		Dur("elapsed", rep.FinishedAt.Sub(rep.StartedAt)).
		Msg("backfill: import done")
	return rep, nil
}

func (s *Service) run(ctx context.Context, w domain.Window, rep *domain.Report) error {
	posts, err := s.fetchWithRetry(ctx, w)
	if err != nil {
		return err
	}
	posts = channel.Ascending(posts)
	rep.Fetched = len(posts)

	for _, p := range posts {
		if err := ctx.Err(); err != nil {
			return err
		}
		if p.Channel == "" {
			p.Channel = rep.Channel
		}
		rep.Add(s.Proc.Process(ctx, p))
	}
	return nil
}

// finish writes the ledger row on a context that outlives cancellation
func (s *Service) finish(ctx context.Context, rep *domain.Report, runErr error) {
	rep.FinishedAt = s.now().UTC()
	fin := domain.RunFinish{FinishedAt: rep.FinishedAt, Tally: rep.Tally}
	if runErr != nil {
		fin.ErrText = runErr.Error()
	}
	fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.Binder.Bind(s.DB).FinishRun(fctx, rep.RunID, fin); err != nil {
		logger.C(ctx).Warn().Err(err).Msg("backfill: finish run failed")
	}
}

func (s *Service) fetchWithRetry(ctx context.Context, w domain.Window) ([]channel.Post, error) {
	attempts := max(s.Cfg.MaxRetries, 1)
	base := s.Cfg.RetryBase
	if base <= 0 {
		base = 500 * time.Millisecond
	}

	var last error
	for i := range attempts {
		fctx, cancel := guardrails.ForFetch(ctx, guardrails.Timeouts{Fetch: s.Cfg.FetchTimeout})
		posts, err := s.Source.History(fctx, w)
		cancel()
		if err == nil {
			return posts, nil
		}
		last = err
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		// stop early on errors a retry cannot fix
		if !perr.Retryable(err) && perr.CodeOf(err) != perr.ErrorCodeUnknown {
			return nil, err
		}
		if i == attempts-1 {
			break
		}

		// exponential backoff with jitter, capped at 30s
		d := min(base<<i, 30*time.Second)
		j := d/2 + rand.N(d/2+1)
		logger.C(ctx).Warn().Err(err).Int("attempt", i+1).Dur("retry_in", j).Msg("backfill: history fetch failed")
		if se := s.sleep(ctx, j); se != nil {
			return nil, se
		}
	}
	if perr.IsUnavailable(last) {
		return nil, last
	}
	return nil, channel.Disconnected(last, "history fetch failed after %d attempts", attempts)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
