package cli

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"intentd/internal/common/fsutil"
	"intentd/internal/config"
	"intentd/internal/dialogue"
	"intentd/internal/entity"
	"intentd/internal/httpapi"
	"intentd/internal/intent"
	"intentd/internal/llm"
	"intentd/internal/manager"
	"intentd/internal/registry"
)

// App is a fully wired service.
type App struct {
	Config  config.Config
	Manager *manager.Manager
	Handler http.Handler
	closers []func() error
}

// Close releases provider clients.
func (a *App) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func newClassifier(cfg config.Config) (*intent.Classifier, registry.Registry, error) {
	reg, err := registry.Load(cfg.Classifier)
	if err != nil {
		return nil, registry.Registry{}, fmt.Errorf("classifier endpoints: %w", err)
	}
	client := intent.NewHTTPClient(time.Duration(cfg.Classifier.ConnectTimeoutSeconds) * time.Second)
	return intent.NewClassifier(reg.Endpoints, client), reg, nil
}

// Build wires classifier, generator, extractor, dialogue and manager from cfg
// and applies the HTTP layer settings.
func Build(ctx context.Context, cfg config.Config, logger zerolog.Logger) (*App, error) {
	clf, reg, err := newClassifier(cfg)
	if err != nil {
		return nil, err
	}
	staticDir := ""
	if cfg.StaticDir != "" {
		if staticDir, err = fsutil.ResolveDir(cfg.StaticDir); err != nil {
			return nil, fmt.Errorf("static_dir: %w", err)
		}
	}
	temp := config.DefaultTemperature
	if cfg.LLM.Temperature != nil {
		temp = *cfg.LLM.Temperature
	}
	gen, err := llm.New(ctx, llm.Options{
		Provider:    cfg.LLM.Provider,
		Model:       cfg.LLM.Model,
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Temperature: temp,
	})
	if err != nil {
		return nil, fmt.Errorf("llm %s: %w", cfg.LLM.Provider, err)
	}
	app := &App{Config: cfg}
	if c, ok := gen.(interface{ Close() error }); ok {
		app.closers = append(app.closers, c.Close)
	}

	dm := dialogue.NewManager(gen, dialogue.NewStore(), cfg.MaxHistory)
	app.Manager = manager.NewWithConfig(manager.ManagerConfig{
		Classifier:   clf,
		Extractor:    entity.NewExtractor(gen),
		Dialogue:     dm,
		Backends:     reg.Backends,
		Generator:    gen.Name() + "/" + gen.Model(),
		StageTimeout: time.Duration(cfg.StageTimeoutSeconds) * time.Second,
		Publisher:    logPublisher{log: logger.With().Str("component", "events").Logger()},
		Logger:       &logger,
	})

	httpapi.SetLogger(logger.With().Str("component", "http").Logger())
	httpapi.SetDefaultLogLevel(cfg.LogLevel)
	httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
	httpapi.SetRequestTimeoutSeconds(cfg.RequestTimeoutSeconds)
	httpapi.SetCORSOptions(cfg.CORS.Enabled, cfg.CORS.Origins, cfg.CORS.Methods, cfg.CORS.Headers)
	httpapi.SetStaticDir(staticDir)
	app.Handler = httpapi.NewMux(app.Manager)

	if rep := app.Manager.SanityCheck(); rep.Error != "" {
		logger.Warn().Str("problems", rep.Error).Msg("sanity check")
	}
	return app, nil
}
