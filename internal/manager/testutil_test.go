package manager

import (
	"context"
	"sync"

	"intentd/internal/dialogue"
	"intentd/internal/entity"
	"intentd/internal/intent"
	"intentd/pkg/types"
)

// fakeClassifier returns fixed predictions and counts calls.
type fakeClassifier struct {
	mu    sync.Mutex
	preds []types.LabelScore
	err   error
	calls int
	last  []string
}

func (f *fakeClassifier) Classify(_ context.Context, _ string, backend string) (intent.Result, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if _, err := intent.ParseBackend(backend); err != nil {
		return intent.Result{}, err
	}
	if f.err != nil {
		return intent.Result{}, f.err
	}
	top := f.preds[0]
	for _, p := range f.preds[1:] {
		if p.Score > top.Score {
			top = p
		}
	}
	return intent.Result{TopIntent: top.Label, Confidence: top.Score, AllIntents: f.preds}, nil
}

func (f *fakeClassifier) PredictRaw(_ context.Context, _ string, _ intent.Backend) ([]types.LabelScore, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.preds, f.err
}

func (f *fakeClassifier) ZeroShot(_ context.Context, _ string, labels []string) ([]types.LabelScore, error) {
	f.mu.Lock()
	f.calls++
	f.last = labels
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]types.LabelScore, len(labels))
	for i, l := range labels {
		out[i] = types.LabelScore{Label: l, Score: 1 / float64(len(labels))}
	}
	return out, nil
}

type fakeExtractor struct {
	out   entity.Entities
	err   error
	calls int
}

func (f *fakeExtractor) Extract(_ context.Context, _ string) (entity.Entities, error) {
	f.calls++
	return f.out, f.err
}

// fakeGen answers every prompt with a fixed reply.
type fakeGen struct {
	reply   string
	err     error
	prompts []string
}

func (g *fakeGen) Generate(_ context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	return g.reply, g.err
}
func (g *fakeGen) Name() string  { return "fake" }
func (g *fakeGen) Model() string { return "fake-1" }

type fixture struct {
	mgr   *Manager
	cls   *fakeClassifier
	ext   *fakeExtractor
	gen   *fakeGen
	store *dialogue.Store
	pub   *MemoryPublisher
}

func newFixture() *fixture {
	f := &fixture{
		cls: &fakeClassifier{preds: []types.LabelScore{
			{Label: "weather", Score: 0.1},
			{Label: "book_flight", Score: 0.85},
			{Label: "greeting", Score: 0.05},
		}},
		ext:   &fakeExtractor{out: `{"destination":"Paris"}`},
		gen:   &fakeGen{reply: "Booking your flight to Paris."},
		store: dialogue.NewStore(),
		pub:   NewMemoryPublisher(),
	}
	f.mgr = NewWithConfig(ManagerConfig{
		Classifier: f.cls,
		Extractor:  f.ext,
		Dialogue:   dialogue.NewManager(f.gen, f.store, 0),
		Backends: []types.BackendInfo{
			{Name: "distilbert", Task: intent.TaskTextClassification, URL: "http://cls/distilbert"},
			{Name: "roberta", Task: intent.TaskTextClassification, URL: "http://cls/roberta"},
			{Name: "zero_shot", Task: intent.TaskZeroShotClassification, URL: "http://cls/zero"},
		},
		Generator: "fake/fake-1",
		Publisher: f.pub,
	})
	return f
}
