package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	httpapi "github.com/voiestad/f1-backend/internal/interfaces/http"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the read-only HTTP API",
		Long:  "Serves leaderboards, snapshots, medals and cutoff times over HTTP. The API never mutates state.",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	b, err := openBackend(ctx, cmd)
	if err != nil {
		return err
	}
	defer b.close()

	handlers := httpapi.NewHandlers(b.board, b.gate, b.repos.Cutoffs, b.repos.Seasons)
	server, err := httpapi.NewServer(httpapi.ServerConfig{
		Host:         b.cfg.Server.Host,
		Port:         b.cfg.Server.Port,
		ReadTimeout:  b.cfg.Server.ReadTimeout,
		WriteTimeout: b.cfg.Server.WriteTimeout,
		IdleTimeout:  b.cfg.Server.IdleTimeout,
		RatePerSec:   b.cfg.Server.RatePerSec,
		RateBurst:    b.cfg.Server.RateBurst,
	}, handlers, log.Logger)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
