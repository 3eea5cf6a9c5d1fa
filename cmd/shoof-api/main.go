// @title         Shoof API
// @version       0.1.0
// @description   Read only catalog of titles and parts posted to a Telegram channel
// @BasePath      /api/v1

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"shoof/internal/core/version"
	"shoof/internal/platform/config"
	"shoof/internal/platform/logger"
	phttp "shoof/internal/platform/net/http"
	"shoof/internal/platform/store"

	"shoof/internal/services/api"
)

func main() {
	version.SetService("shoof-api")
	root := config.New()
	apiCfg := root.Prefix("SERVICE_API_")

	// bring up logging early
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// open the platform store; the api never migrates
	st, err := store.Open(ctx, store.ConfigFromEnv(root, "shoof-api"), store.WithLogger(*l))
	if err != nil {
		l.Fatal().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// http server (reads SERVICE_API_ADDR)
	srv := phttp.NewServer(apiCfg.MayString("ADDR", ":4000"))

	opts := api.OptionsFromConfig(root)
	opts.Store = st
	opts.Logger = l
	api.Mount(srv.Router(), opts)

	if err := srv.Run(ctx); err != nil {
		l.Error().Err(err).Msg("http server stopped")
		os.Exit(1)
	}
}
