package manager

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"intentd/internal/dialogue"
	"intentd/pkg/types"
)

type Manager struct {
	classifier   Classifier
	extractor    Extractor
	dialogue     Dialogue
	backends     []types.BackendInfo
	generator    string
	stageTimeout time.Duration
	pub          EventPublisher
	log          zerolog.Logger
	startTime    time.Time
}

func New(c Classifier, x Extractor, d Dialogue) *Manager {
	// Delegate to NewWithConfig to centralize defaults
	return NewWithConfig(ManagerConfig{Classifier: c, Extractor: x, Dialogue: d})
}

// Ready reports whether every collaborator needed by /chat is wired.
func (m *Manager) Ready() bool { return m.SanityCheck().Error == "" }

// Backends returns the configured classification endpoints.
func (m *Manager) Backends() []types.BackendInfo {
	out := make([]types.BackendInfo, len(m.backends))
	copy(out, m.backends)
	return out
}

// Uptime reports how long the manager has existed.
func (m *Manager) Uptime() time.Duration { return time.Since(m.startTime) }

// Reset clears the transcript of session.
func (m *Manager) Reset(session string) types.MessageResponse {
	m.dialogue.Reset(session)
	m.pub.Publish(Event{Name: "reset", Fields: map[string]any{"session": dialogue.SessionKey(session)}})
	return types.MessageResponse{Message: "Conversation history cleared."}
}

// History returns the transcript of session.
func (m *Manager) History(session string) types.HistoryResponse {
	return types.HistoryResponse{
		Session:   dialogue.SessionKey(session),
		Exchanges: m.dialogue.History(session),
	}
}

// stageContext applies the configured per-stage timeout.
func (m *Manager) stageContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if m.stageTimeout > 0 {
		return context.WithTimeout(ctx, m.stageTimeout)
	}
	return ctx, func() {}
}

// observe records metrics, publishes the stage end event and logs at debug.
func (m *Manager) observe(stage Stage, backend string, start time.Time, err error) {
	outcome := outcomeOK
	if err != nil {
		outcome = outcomeError
	}
	dur := time.Since(start)
	stageCalls.WithLabelValues(string(stage), backend, outcome).Inc()
	stageDuration.WithLabelValues(string(stage)).Observe(dur.Seconds())
	fields := map[string]any{"backend": backend, "outcome": outcome, "dur_ms": dur.Milliseconds()}
	if err != nil {
		fields["error"] = err.Error()
	}
	m.pub.Publish(Event{Name: "stage_end", Stage: stage, Fields: fields})
	var ev *zerolog.Event
	if err != nil {
		ev = m.log.Warn().Err(err)
	} else {
		ev = m.log.Debug()
	}
	ev.Str("stage", string(stage)).Str("backend", backend).Dur("dur", dur).Msg("stage end")
}
