package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"shoof/internal/adapters/ingest/source"
	"shoof/internal/core/version"
	"shoof/internal/modkit"
	"shoof/internal/modkit/module"
	"shoof/internal/modkit/repokit"
	"shoof/internal/platform/config"
	perr "shoof/internal/platform/errors"
	"shoof/internal/platform/logger"
	"shoof/internal/platform/store"
	"shoof/internal/platform/store/migrate"

	backfillmod "shoof/internal/services/backfill/module"
	ingestmod "shoof/internal/services/ingest/module"
	monitormod "shoof/internal/services/monitor/module"
)

func main() {
	version.SetService("shoof-ingest")
	var (
		fNoBackfill = flag.Bool("no-backfill", false, "skip the startup import even when CORE_BACKFILL_ENABLED is set")
		fOnce       = flag.Bool("once", false, "run the startup import and exit without following the channel")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, config.New(), !*fNoBackfill, *fOnce); err != nil {
		logger.Get().Error().Err(err).Str("code", perr.CodeOf(err).String()).Msg("ingest stopped")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, root config.Conf, backfill, once bool) error {
	l := logger.Get()

	st, err := store.Open(ctx, store.ConfigFromEnv(root, "shoof-ingest"), store.WithLogger(*l))
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	if err := repokit.Guard(ctx, "shoof-ingest", st); err != nil {
		return err
	}

	applied, err := migrate.Up(ctx, st.PG)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeDB, "migrate")
	}
	l.Info().Strs("applied", applied).Msg("schema up to date")

	deps := modkit.DepsFrom(st, root)
	monOpts := monitormod.FromConfig(root)

	// pipeline: classify, upsert, audit
	ing := ingestmod.New(deps, ingestmod.Options{WriteTimeout: monOpts.WriteTimeout})
	if err := ing.Prepare(ctx); err != nil {
		l.Warn().Err(err).Msg("audit schema unavailable, decisions will not be recorded")
	}
	ports := module.MustPortsOf[ingestmod.Ports](ing)
	module.Register(ing.Name(), ports)

	src, err := source.Open(source.FromConfig(root), st.RDS, monOpts.PollInterval)
	if err != nil {
		return err
	}
	log := l.With().Str("channel", src.Ref()).Logger()

	bf := backfillmod.New(deps, src, ports.Processor)
	if backfill && bf.Options().Enabled {
		rep, err := module.MustPortsOf[backfillmod.Ports](bf).Runner.Import(ctx, bf.Options().Window)
		switch {
		case perr.IsCode(err, perr.ErrorCodeConflict):
			log.Warn().Err(err).Msg("another import holds the lease, skipping startup backfill")
		case err != nil && ctx.Err() != nil:
			return nil
		case err != nil:
			// the monitor still resumes from the newest stored message
			log.Error().Err(err).Int("imported", rep.Imported).Msg("startup backfill failed")
		default:
			log.Info().Int("fetched", rep.Fetched).Int("imported", rep.Imported).Int("duplicates", rep.Duplicates).Msg("startup backfill done")
		}
	}
	if once {
		return nil
	}

	mon := monitormod.New(deps, src, ports.Processor, ports.Writer)
	module.Register(mon.Name(), mon.Ports())
	log.Info().Strs("modules", module.Names()).Msg("ingest wired")
	return module.MustPortsOf[monitormod.Ports](mon).Worker.Run(ctx)
}
