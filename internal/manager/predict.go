package manager

import (
	"context"
	"strings"
	"time"

	"intentd/internal/intent"
	"intentd/pkg/types"
)

// Predict returns the raw top-3 predictions of a fixed-label backend.
func (m *Manager) Predict(ctx context.Context, backend, text string) (types.PredictResponse, error) {
	b, err := intent.ParseBackend(backend)
	if err != nil {
		return types.PredictResponse{}, err
	}
	if !b.FixedLabel() {
		return types.PredictResponse{}, ErrInvalidArgument("use the zero-shot endpoint for " + b.String())
	}
	ctx, cancel := m.stageContext(ctx)
	defer cancel()
	start := time.Now()
	preds, err := m.classifier.PredictRaw(ctx, text, b)
	m.observe(StagePredict, b.String(), start, err)
	if err != nil {
		return types.PredictResponse{}, stageErr(StagePredict, err)
	}
	return types.PredictResponse{Model: b.String(), Input: text, Predictions: preds}, nil
}

// PredictZeroShot scores text against the caller's label set.
func (m *Manager) PredictZeroShot(ctx context.Context, req types.ZeroShotRequest) (types.PredictResponse, error) {
	labels := make([]string, 0, len(req.CandidateLabels))
	for _, l := range req.CandidateLabels {
		if l = strings.TrimSpace(l); l != "" {
			labels = append(labels, l)
		}
	}
	if len(labels) == 0 {
		return types.PredictResponse{}, ErrInvalidArgument("candidate_labels must contain at least one label")
	}
	ctx, cancel := m.stageContext(ctx)
	defer cancel()
	start := time.Now()
	preds, err := m.classifier.ZeroShot(ctx, req.Text, labels)
	m.observe(StagePredict, intent.ZeroShot.String(), start, err)
	if err != nil {
		return types.PredictResponse{}, stageErr(StagePredict, err)
	}
	return types.PredictResponse{Model: intent.ZeroShot.String(), Input: req.Text, Predictions: preds}, nil
}
