// Package intent adapts the classification backends to one call shape.
//
// The fixed-label backends (distilbert, roberta) and the zero-shot backend
// are remote inference endpoints speaking the Hugging Face Inference API
// wire format. Classify normalizes every backend's reply into a Result.
package intent

import (
	"context"
	"encoding/json"
	"net/http"

	"intentd/pkg/types"
)

// Classifier routes text to the configured backend endpoints.
type Classifier struct {
	endpoints map[Backend]Endpoint
	client    *http.Client
}

// NewClassifier constructs a Classifier. A nil client gets NewHTTPClient defaults.
func NewClassifier(endpoints map[Backend]Endpoint, client *http.Client) *Classifier {
	if client == nil {
		client = NewHTTPClient(0)
	}
	eps := make(map[Backend]Endpoint, len(endpoints))
	for b, ep := range endpoints {
		eps[b] = ep
	}
	return &Classifier{endpoints: eps, client: client}
}

// Endpoint returns the endpoint configured for b.
func (c *Classifier) Endpoint(b Backend) (Endpoint, bool) {
	ep, ok := c.endpoints[b]
	return ep, ok && ep.URL != ""
}

// Classify predicts the intent of text with the named backend.
func (c *Classifier) Classify(ctx context.Context, text, backend string) (Result, error) {
	b, err := ParseBackend(backend)
	if err != nil {
		return Result{}, err
	}
	var preds []types.LabelScore
	if b.FixedLabel() {
		preds, err = c.PredictRaw(ctx, text, b)
	} else {
		preds, err = c.ZeroShot(ctx, text, DefaultIntents)
	}
	if err != nil {
		return Result{}, err
	}
	if len(preds) == 0 {
		return Result{}, upstreamError{backend: b.String(), msg: "empty prediction list"}
	}
	return newResult(preds), nil
}

// PredictRaw returns the top-3 labels of a fixed-label backend as the backend
// ordered them.
func (c *Classifier) PredictRaw(ctx context.Context, text string, b Backend) ([]types.LabelScore, error) {
	if !b.FixedLabel() {
		return nil, ErrUnsupportedBackend(b.String())
	}
	ep, ok := c.Endpoint(b)
	if !ok {
		return nil, upstreamError{backend: b.String(), msg: "endpoint not configured"}
	}
	raw, err := post(ctx, c.client, b, ep, inferenceRequest{
		Inputs:     text,
		Parameters: map[string]any{"top_k": topK},
	})
	if err != nil {
		return nil, err
	}
	preds, ok := decodeLabelScores(raw)
	if !ok {
		return nil, upstreamError{backend: b.String(), msg: "unexpected reply shape"}
	}
	if len(preds) == 0 {
		return nil, upstreamError{backend: b.String(), msg: "empty prediction list"}
	}
	return preds, nil
}

// ZeroShot scores text against a caller-supplied label set in single-label
// mode and returns label-score pairs sorted by score.
func (c *Classifier) ZeroShot(ctx context.Context, text string, labels []string) ([]types.LabelScore, error) {
	ep, ok := c.Endpoint(ZeroShot)
	if !ok {
		return nil, upstreamError{backend: ZeroShot.String(), msg: "endpoint not configured"}
	}
	raw, err := post(ctx, c.client, ZeroShot, ep, inferenceRequest{
		Inputs: text,
		Parameters: map[string]any{
			"candidate_labels": labels,
			"multi_label":      false,
		},
	})
	if err != nil {
		return nil, err
	}
	var reply zeroShotReply
	if err := json.Unmarshal(raw, &reply); err == nil && reply.Labels != nil {
		preds, err := pairs(reply.Labels, reply.Scores)
		if err != nil {
			return nil, upstreamError{backend: ZeroShot.String(), msg: err.Error()}
		}
		return sortDesc(preds), nil
	}
	// Newer inference routers answer zero-shot with a plain label/score list.
	if preds, ok := decodeLabelScores(raw); ok {
		return sortDesc(preds), nil
	}
	return nil, upstreamError{backend: ZeroShot.String(), msg: "unexpected reply shape"}
}
