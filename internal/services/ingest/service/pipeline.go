// Package service runs one channel post through classify, upsert and audit
package service

import (
	"context"
	"time"

	"shoof/internal/adapters/ingest/channel"
	"shoof/internal/core/classify"
	"shoof/internal/platform/logger"
	pstrings "shoof/internal/platform/strings"
	auditdom "shoof/internal/services/audit/domain"
	catalogdom "shoof/internal/services/catalog/domain"
	"shoof/internal/services/ingest/domain"
)

// Config carries runtime knobs for the pipeline
type Config struct {
	// WriteTimeout bounds the store and audit writes of one post
	// writes run detached from the caller's cancellation so an in flight upsert completes
	WriteTimeout time.Duration
}

// Pipeline implements domain.ProcessorPort
type Pipeline struct {
	classifier *classify.Classifier
	writer     catalogdom.WriterPort
	sink       auditdom.SinkPort
	cfg        Config
	now        func() time.Time
}

var _ domain.ProcessorPort = (*Pipeline)(nil)

// New builds a pipeline; sink may be nil
func New(writer catalogdom.WriterPort, sink auditdom.SinkPort, cfg Config) *Pipeline {
	if writer == nil {
		panic("ingest.Pipeline requires a non nil catalog writer")
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	return &Pipeline{
		classifier: classify.New(),
		writer:     writer,
		sink:       sink,
		cfg:        cfg,
		now:        time.Now,
	}
}

// Process classifies p, upserts the result and records the decision
// failures are logged and reported as an outcome, never returned
func (pl *Pipeline) Process(ctx context.Context, p channel.Post) domain.Outcome {
	log := logger.C(ctx).With().Int64("message_id", p.ID).Logger()

	res := pl.classifier.Classify(p.Text)
	ev := auditdom.Event{At: pl.now(), ChannelRef: p.Channel, MessageID: p.ID, Rule: res.Matched()}

	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), pl.cfg.WriteTimeout)
	defer cancel()

	c, ok := res.Candidate()
	if !ok {
		ev.Outcome = domain.Miss.String()
		log.Info().Str("text", pstrings.Excerpt(p.Text, 120)).Msg("post not recognized")
		pl.record(wctx, ev)
		return domain.Miss
	}
	ev.Kind, ev.Title, ev.Season, ev.Number = string(c.Kind), c.Name, c.Season, c.Number

	var out domain.Outcome
	got, err := pl.writer.Upsert(wctx, c, p.ID, p.Channel, p.PostedAt)
	switch got {
	case catalogdom.OutcomeInserted:
		out = domain.Imported
		log.Info().Str("rule", res.Matched()).Str("title", c.Name).Str("kind", string(c.Kind)).
			Int("season", c.Season).Int("number", c.Number).Msg("part imported")
	case catalogdom.OutcomeDuplicateIgnored:
		out = domain.Duplicate
		log.Debug().Str("title", c.Name).Msg("part already stored")
	default:
		out = domain.Failed
		ev.Error = errString(err)
		log.Warn().Err(err).Str("title", c.Name).Msg("part upsert failed")
	}
	ev.Outcome = out.String()
	pl.record(wctx, ev)
	return out
}

func (pl *Pipeline) record(ctx context.Context, ev auditdom.Event) {
	if pl.sink == nil {
		return
	}
	if err := pl.sink.Record(ctx, ev); err != nil {
		logger.C(ctx).Warn().Err(err).Int64("message_id", ev.MessageID).Msg("audit record failed")
	}
}

func errString(err error) string {
	if err == nil {
		return "unknown failure"
	}
	return err.Error()
}
