package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/doeshing/wxq/internal/backend"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()

	cfg, err := backend.LoadConfig(".env")
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if cfg.LogFormat == "json" {
		log = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	catalog, err := backend.LoadCatalog(cfg.Catalog)
	if err != nil {
		log.Fatal().Err(err).Msg("load catalog")
	}

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      backend.NewRouter(catalog, log),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr).Int("cities", catalog.Len()).Msg("weather API listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
}
