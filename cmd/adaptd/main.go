package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"time"

	"message-adapter/application/http/semantic"
	"message-adapter/internal/config"
	"message-adapter/internal/logging"
	"message-adapter/internal/server"
	"message-adapter/internal/store"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

var (
	configFlag string
	listenFlag string
)

func init() {
	flag.StringVar(&configFlag, "config", "", "YAML config file")
	flag.StringVar(&listenFlag, "listen", "", "Address to listen on (overrides config)")
}

func main() {
	flag.Parse()

	if err := run(); err != nil {
		logger := bootLogger()
		logger.Fatal().Err(err).Msg("Exiting")
	}
}

// run serves until interrupted. Every resource it opens is released before it
// returns.
func run() error {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return errors.Wrap(err, "loading config")
	}
	if listenFlag != "" {
		cfg.Listen = listenFlag
	}

	logger, err := logging.New(os.Stdout, cfg.LogLevel, cfg.Console)
	if err != nil {
		return errors.Wrap(err, "creating logger")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	clk := clock.New()
	st, err := store.Open(ctx, cfg.Database, clk)
	if err != nil {
		return errors.Wrapf(err, "opening store %s", cfg.Database)
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Warn().Err(err).Msg("Cannot close store")
		}
	}()

	handler := server.New(st, logger, semantic.Options{
		TrustForwardedFor: cfg.TrustForwardedFor,
		ServerAgent:       cfg.Agent,
		Clock:             clk,
	})
	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdown := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		shutdown <- srv.Shutdown(shutdownCtx)
	}()

	logger.Info().Str("listen", cfg.Listen).Str("database", cfg.Database).Msg("Serving")
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		stop()
		<-shutdown
		return errors.Wrap(err, "serving")
	}

	return errors.Wrap(<-shutdown, "shutting down")
}

func bootLogger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}
