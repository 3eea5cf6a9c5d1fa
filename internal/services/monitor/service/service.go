// Package service follows a channel live and feeds new posts to the ingest pipeline
package service

import (
	"context"
	"math/rand/v2"
	"time"

	"shoof/internal/adapters/ingest/channel"
	"shoof/internal/modkit/repokit"
	perr "shoof/internal/platform/errors"
	"shoof/internal/platform/logger"
	ingestdom "shoof/internal/services/ingest/domain"
	"shoof/internal/services/monitor/domain"

	"github.com/google/uuid"
)

// Config carries the reconnect policy
type Config struct {
	BackoffBase   time.Duration // first wait after a failed session; <=0 -> 1s
	BackoffMax    time.Duration // cap on any single wait; <=0 -> 60s
	MaxReconnects int           // consecutive failed sessions before Run gives up; <=0 -> 10
}

// Svc implements domain.WorkerPort
type Svc struct {
	db      repokit.TxRunner
	cursors repokit.Binder[domain.CursorRepo]
	src     domain.Source
	proc    ingestdom.ProcessorPort
	resume  domain.ResumePort
	cfg     Config

	sleep func(context.Context, time.Duration) error
}

var _ domain.WorkerPort = (*Svc)(nil)

// New builds the monitor; resume may be nil
func New(
	db repokit.TxRunner,
	cursors repokit.Binder[domain.CursorRepo],
	src domain.Source,
	proc ingestdom.ProcessorPort,
	resume domain.ResumePort,
	cfg Config,
) *Svc {
	if db == nil || cursors == nil {
		panic("monitor.Svc requires a TxRunner and a cursor binder")
	}
	if src == nil || proc == nil {
		panic("monitor.Svc requires a source and a processor")
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = time.Second
	}
	if cfg.BackoffMax <= 0 {
		cfg.BackoffMax = time.Minute
	}
	if cfg.MaxReconnects <= 0 {
		cfg.MaxReconnects = 10
	}
	return &Svc{
		db: db, cursors: cursors,
		src: src, proc: proc,
		resume: resume,
		cfg:    cfg,
		sleep:  sleepCtx,
	}
}

// Run streams the channel one post at a time, reconnecting with backoff
// a post the store fails to take ends the session without moving the cursor, so it counts as a failed session
// cancellation returns nil; exhausting MaxReconnects returns an Unavailable error
func (s *Svc) Run(ctx context.Context) error {
	ref := s.src.Ref()
	ctx = logger.WithIngest(ctx, ref, uuid.NewString())
	log := logger.C(ctx)

	after, err := s.resumePoint(ctx, ref)
	if err != nil {
		return err
	}
	log.Info().Int64("after_id", after).Msg("monitor: following channel")

	failures := 0
	for {
		delivered := 0
		err := s.src.Stream(ctx, after, func(ctx context.Context, p channel.Post) error {
			if p.ID <= after {
				return nil
			}
			if p.Channel == "" {
				p.Channel = ref
			}
			if s.proc.Process(ctx, p) == ingestdom.Failed {
				// the cursor stays put so the next session replays this post
				return perr.Unavailablef("store rejected message %d of %s", p.ID, ref)
			}
			after = p.ID
			delivered++
			s.advance(ctx, ref, p.ID)
			return nil
		})
		if ctx.Err() != nil {
			log.Info().Int64("after_id", after).Msg("monitor: stopped")
			return nil
		}
		if err == nil {
			err = perr.Unavailablef("stream for %s ended", ref)
		}
		if delivered > 0 {
			failures = 0
		}
		failures++
		if failures >= s.cfg.MaxReconnects {
			log.Error().Err(err).Int("failures", failures).Msg("monitor: giving up")
			return perr.Wrapf(err, perr.ErrorCodeUnavailable, "monitor: %d consecutive stream failures", failures)
		}

		wait := s.backoff(failures)
		log.Warn().Err(err).Int("failures", failures).Dur("retry_in", wait).Msg("monitor: stream disconnected")
		if s.sleep(ctx, wait) != nil {
			log.Info().Int64("after_id", after).Msg("monitor: stopped")
			return nil
		}
	}
}

// resumePoint is the stored cursor, else the newest catalogued message, else 0
func (s *Svc) resumePoint(ctx context.Context, ref string) (int64, error) {
	id, ok, err := repokit.MustBind(s.cursors, s.db).Get(ctx, ref)
	if err != nil {
		return 0, perr.FromPostgres(err, "monitor cursor")
	}
	if ok {
		return id, nil
	}
	if s.resume == nil {
		return 0, nil
	}
	id, err = s.resume.LastMessageID(ctx, ref)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// advance persists the cursor; failures only cost a replay on restart
func (s *Svc) advance(ctx context.Context, ref string, id int64) {
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.cursors.Bind(s.db).Advance(cctx, ref, id); err != nil {
		logger.C(ctx).Warn().Err(err).Int64("message_id", id).Msg("monitor: cursor advance failed")
	}
}

// backoff doubles from BackoffBase per consecutive failure, capped at BackoffMax, with up to 50% jitter
func (s *Svc) backoff(failures int) time.Duration {
	d := s.cfg.BackoffMax
	if shift := failures - 1; shift < 20 {
		d = min(s.cfg.BackoffBase<<shift, s.cfg.BackoffMax)
	}
	if d <= 0 {
		d = s.cfg.BackoffMax
	}
	return d/2 + rand.N(d/2+1)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
