package manager

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"intentd/internal/entity"
	"intentd/internal/intent"
	"intentd/pkg/types"
)

// Classifier is the classification adapter used by the Manager.
type Classifier interface {
	Classify(ctx context.Context, text, backend string) (intent.Result, error)
	PredictRaw(ctx context.Context, text string, b intent.Backend) ([]types.LabelScore, error)
	ZeroShot(ctx context.Context, text string, labels []string) ([]types.LabelScore, error)
}

// Extractor is the entity extraction adapter.
type Extractor interface {
	Extract(ctx context.Context, text string) (entity.Entities, error)
}

// Dialogue generates replies and owns the transcripts.
type Dialogue interface {
	Respond(ctx context.Context, session, intent string, entities entity.Entities, userInput string) (string, error)
	Reset(session string)
	History(session string) []types.Exchange
}

// ManagerConfig encapsulates all collaborators and tunables for Manager construction.
type ManagerConfig struct {
	Classifier Classifier
	Extractor  Extractor
	Dialogue   Dialogue
	// Backends describes the configured classification endpoints for /backends.
	Backends []types.BackendInfo
	// Generator identifies the text-generation model, e.g. "openai/gpt-4o-mini".
	Generator string
	// StageTimeout bounds each external call; zero means no timeout.
	StageTimeout time.Duration
	Publisher    EventPublisher
	Logger       *zerolog.Logger
}

// NewWithConfig constructs a Manager from ManagerConfig.
func NewWithConfig(cfg ManagerConfig) *Manager {
	m := &Manager{
		classifier:   cfg.Classifier,
		extractor:    cfg.Extractor,
		dialogue:     cfg.Dialogue,
		backends:     append([]types.BackendInfo(nil), cfg.Backends...),
		generator:    cfg.Generator,
		stageTimeout: cfg.StageTimeout,
		pub:          cfg.Publisher,
		log:          zerolog.Nop(),
		startTime:    time.Now(),
	}
	if m.pub == nil {
		m.pub = noopPublisher{}
	}
	if cfg.Logger != nil {
		m.log = cfg.Logger.With().Str("component", "manager").Logger()
	}
	if m.stageTimeout < 0 {
		m.stageTimeout = 0
	}
	return m
}
