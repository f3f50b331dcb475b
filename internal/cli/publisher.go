package cli

import (
	"github.com/rs/zerolog"

	"intentd/internal/manager"
)

// logPublisher writes pipeline events to the debug log.
type logPublisher struct {
	log zerolog.Logger
}

func (p logPublisher) Publish(ev manager.Event) {
	e := p.log.Debug().Str("event", ev.Name)
	if ev.Stage != "" {
		e = e.Str("stage", string(ev.Stage))
	}
	e.Fields(ev.Fields).Msg("pipeline event")
}
