package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"intentd/internal/config"
	"intentd/internal/httpapi"
)

const shutdownTimeout = 5 * time.Second

// serve runs the HTTP server until ctx is canceled, then shuts down gracefully.
func serve(ctx context.Context, cfg config.Config, logger zerolog.Logger) error {
	app, err := Build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn().Err(err).Msg("close providers")
		}
	}()

	// Shutdown cancels in-flight pipeline calls as well.
	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()
	httpapi.SetBaseContext(baseCtx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", cfg.Addr).
			Str("llm", cfg.LLM.Provider).
			Str("classifier", cfg.Classifier.BaseURL).
			Msg("intentd listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	cancelBase()
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown")
		return err
	}
	return nil
}
