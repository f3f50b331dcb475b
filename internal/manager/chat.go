package manager

import (
	"context"
	"time"

	"intentd/internal/dialogue"
	"intentd/internal/entity"
	"intentd/internal/intent"
	"intentd/pkg/types"
)

// Chat runs classify -> extract -> respond for one user message. Each stage
// either succeeds or returns a *StageError; nothing is retried and no partial
// response is produced. The transcript is only touched by a successful respond.
func (m *Manager) Chat(ctx context.Context, session string, req types.ChatRequest) (types.ChatResponse, error) {
	// Reject unknown backends before any model is invoked.
	backend, err := intent.ParseBackend(req.Model)
	if err != nil {
		return types.ChatResponse{}, err
	}
	session = dialogue.SessionKey(session)
	m.pub.Publish(Event{Name: "chat_start", Fields: map[string]any{"session": session, "model": backend.String()}})

	res, err := m.classify(ctx, req.Text, backend.String())
	if err != nil {
		return types.ChatResponse{}, err
	}
	ents, err := m.extract(ctx, req.Text)
	if err != nil {
		return types.ChatResponse{}, err
	}
	reply, err := m.respond(ctx, session, res.TopIntent, ents, req.Text)
	if err != nil {
		return types.ChatResponse{}, err
	}
	m.pub.Publish(Event{Name: "chat_end", Fields: map[string]any{"session": session, "intent": res.TopIntent}})
	return types.ChatResponse{
		Intent:     res.TopIntent,
		Confidence: res.Confidence,
		Response:   reply,
	}, nil
}

func (m *Manager) classify(ctx context.Context, text, backend string) (intent.Result, error) {
	ctx, cancel := m.stageContext(ctx)
	defer cancel()
	start := time.Now()
	res, err := m.classifier.Classify(ctx, text, backend)
	m.observe(StageClassify, backend, start, err)
	if err != nil {
		if intent.IsUnsupportedBackend(err) {
			return intent.Result{}, err
		}
		return intent.Result{}, stageErr(StageClassify, err)
	}
	return res, nil
}

func (m *Manager) extract(ctx context.Context, text string) (entity.Entities, error) {
	ctx, cancel := m.stageContext(ctx)
	defer cancel()
	start := time.Now()
	ents, err := m.extractor.Extract(ctx, text)
	m.observe(StageExtract, m.generator, start, err)
	if err != nil {
		return "", stageErr(StageExtract, err)
	}
	// Logged only; the blob is forwarded unchanged either way.
	if _, perr := ents.Parse(); perr != nil {
		entitiesMalformed.Inc()
		m.log.Debug().Err(perr).Msg("entities are not valid JSON")
	}
	return ents, nil
}

func (m *Manager) respond(ctx context.Context, session, topIntent string, ents entity.Entities, text string) (string, error) {
	ctx, cancel := m.stageContext(ctx)
	defer cancel()
	start := time.Now()
	reply, err := m.dialogue.Respond(ctx, session, topIntent, ents, text)
	m.observe(StageRespond, m.generator, start, err)
	if err != nil {
		return "", stageErr(StageRespond, err)
	}
	return reply, nil
}
