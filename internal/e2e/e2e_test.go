package e2e

import (
	"encoding/json"
	"math"
	"net/http"
	"strings"
	"testing"

	"intentd/internal/config"
	"intentd/pkg/types"
)

func TestE2E_ChatFlow(t *testing.T) {
	u := newUpstreams(t)
	srv := newServer(t, u, nil)

	resp, body := httpPostJSON(t, srv.URL+"/chat", []byte(`{"text":"I want to fly to Paris next Friday","model":"distilbert"}`))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/chat %d %s", resp.StatusCode, body)
	}
	var chat types.ChatResponse
	if err := json.Unmarshal(body, &chat); err != nil {
		t.Fatalf("json: %v body=%s", err, body)
	}
	if chat.Intent != "book_flight" || chat.Confidence != 0.9 || chat.Response != "reply 1" {
		t.Fatalf("unexpected chat response: %+v", chat)
	}
	u.mu.Lock()
	extractPrompt := u.prompts[0]
	u.mu.Unlock()
	if !strings.HasPrefix(extractPrompt, "\n") || !strings.Contains(extractPrompt, "Extract useful entities") {
		t.Fatalf("unexpected extraction prompt: %q", extractPrompt)
	}
	prompt := u.lastPrompt()
	for _, want := range []string{"User intent: book_flight", `"destination":"Paris"`, "User: I want to fly to Paris next Friday"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("reply prompt missing %q:\n%s", want, prompt)
		}
	}

	resp, body = httpPostJSON(t, srv.URL+"/chat", []byte(`{"text":"what about the weather","model":"roberta"}`))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/chat %d %s", resp.StatusCode, body)
	}
	if !strings.Contains(u.lastPrompt(), "Human: I want to fly to Paris next Friday\nAI: reply 1") {
		t.Fatalf("history missing from prompt:\n%s", u.lastPrompt())
	}

	resp, body = httpGet(t, srv.URL+"/history")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/history %d", resp.StatusCode)
	}
	var hist types.HistoryResponse
	if err := json.Unmarshal(body, &hist); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(hist.Exchanges) != 2 || hist.Exchanges[1].AssistantResponse != "reply 2" {
		t.Fatalf("unexpected history: %+v", hist)
	}

	resp, body = httpPostJSON(t, srv.URL+"/reset", nil)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "Conversation history cleared.") {
		t.Fatalf("/reset %d %s", resp.StatusCode, body)
	}
	_, body = httpGet(t, srv.URL+"/history")
	hist = types.HistoryResponse{}
	_ = json.Unmarshal(body, &hist)
	if len(hist.Exchanges) != 0 {
		t.Fatalf("history after reset: %+v", hist)
	}
}

func TestE2E_ChatZeroShotUsesDefaultIntents(t *testing.T) {
	u := newUpstreams(t)
	srv := newServer(t, u, nil)
	resp, body := httpPostJSON(t, srv.URL+"/chat", []byte(`{"text":"book me a seat","model":"zero_shot"}`))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/chat %d %s", resp.StatusCode, body)
	}
	var chat types.ChatResponse
	_ = json.Unmarshal(body, &chat)
	if chat.Intent != "book_flight" || chat.Confidence != 0.75 {
		t.Fatalf("unexpected chat response: %+v", chat)
	}
}

func TestE2E_UnsupportedModel400(t *testing.T) {
	u := newUpstreams(t)
	srv := newServer(t, u, nil)
	resp, body := httpPostJSON(t, srv.URL+"/chat", []byte(`{"text":"hello","model":"bert-large"}`))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d %s", resp.StatusCode, body)
	}
	if !strings.Contains(string(body), "bert-large") {
		t.Fatalf("error does not name the model: %s", body)
	}
	if u.classifierCalls() != 0 {
		t.Fatal("classifier was called for an unsupported model")
	}
}

func TestE2E_ClassifierFailure502LeavesTranscript(t *testing.T) {
	u := newUpstreams(t)
	srv := newServer(t, u, nil)
	if resp, body := httpPostJSON(t, srv.URL+"/chat", []byte(`{"text":"hi","model":"distilbert"}`)); resp.StatusCode != http.StatusOK {
		t.Fatalf("/chat %d %s", resp.StatusCode, body)
	}
	u.set(func(u *upstreams) { u.failHF = true })
	resp, body := httpPostJSON(t, srv.URL+"/chat", []byte(`{"text":"again","model":"distilbert"}`))
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d %s", resp.StatusCode, body)
	}
	_, body = httpGet(t, srv.URL+"/history")
	var hist types.HistoryResponse
	_ = json.Unmarshal(body, &hist)
	if len(hist.Exchanges) != 1 {
		t.Fatalf("transcript changed on failure: %+v", hist)
	}
}

func TestE2E_GeneratorFailure502(t *testing.T) {
	u := newUpstreams(t)
	srv := newServer(t, u, nil)
	u.set(func(u *upstreams) { u.failLLM = true })
	resp, body := httpPostJSON(t, srv.URL+"/chat", []byte(`{"text":"hi","model":"roberta"}`))
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d %s", resp.StatusCode, body)
	}
	_, body = httpGet(t, srv.URL+"/history")
	var hist types.HistoryResponse
	_ = json.Unmarshal(body, &hist)
	if len(hist.Exchanges) != 0 {
		t.Fatalf("transcript changed on failure: %+v", hist)
	}
}

func TestE2E_MalformedEntitiesPassThrough(t *testing.T) {
	u := newUpstreams(t)
	u.entityReply = "Location: Paris (not json)"
	srv := newServer(t, u, nil)
	resp, body := httpPostJSON(t, srv.URL+"/chat", []byte(`{"text":"Paris","model":"distilbert"}`))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/chat %d %s", resp.StatusCode, body)
	}
	if !strings.Contains(u.lastPrompt(), "Entities: Location: Paris (not json)") {
		t.Fatalf("entities not forwarded verbatim:\n%s", u.lastPrompt())
	}
}

func TestE2E_SessionsAreIsolated(t *testing.T) {
	u := newUpstreams(t)
	srv := newServer(t, u, nil)
	httpPostJSON(t, srv.URL+"/chat", []byte(`{"text":"alice here","model":"distilbert"}`), "X-Session-ID", "alice")
	httpPostJSON(t, srv.URL+"/chat", []byte(`{"text":"shared","model":"distilbert"}`))

	_, body := httpGet(t, srv.URL+"/history", "X-Session-ID", "alice")
	var hist types.HistoryResponse
	_ = json.Unmarshal(body, &hist)
	if hist.Session != "alice" || len(hist.Exchanges) != 1 || hist.Exchanges[0].UserInput != "alice here" {
		t.Fatalf("alice history: %+v", hist)
	}
	httpPostJSON(t, srv.URL+"/reset", nil, "X-Session-ID", "alice")
	_, body = httpGet(t, srv.URL+"/history")
	hist = types.HistoryResponse{}
	_ = json.Unmarshal(body, &hist)
	if len(hist.Exchanges) != 1 {
		t.Fatalf("default session affected by alice reset: %+v", hist)
	}
}

func TestE2E_MaxHistoryTrimsPrompt(t *testing.T) {
	u := newUpstreams(t)
	srv := newServer(t, u, func(c *config.Config) { c.MaxHistory = 1 })
	for _, text := range []string{"first", "second", "third"} {
		if resp, body := httpPostJSON(t, srv.URL+"/chat", []byte(`{"text":"`+text+`","model":"distilbert"}`)); resp.StatusCode != http.StatusOK {
			t.Fatalf("/chat %d %s", resp.StatusCode, body)
		}
	}
	p := u.lastPrompt()
	if strings.Contains(p, "Human: first") || !strings.Contains(p, "Human: second") {
		t.Fatalf("prompt history not trimmed:\n%s", p)
	}
	_, body := httpGet(t, srv.URL+"/history")
	var hist types.HistoryResponse
	_ = json.Unmarshal(body, &hist)
	if len(hist.Exchanges) != 3 {
		t.Fatalf("transcript trimmed: %d", len(hist.Exchanges))
	}
}

func TestE2E_PredictFixed(t *testing.T) {
	u := newUpstreams(t)
	srv := newServer(t, u, nil)
	resp, body := httpPostJSON(t, srv.URL+"/predict/roberta", []byte(`{"text":"cancel it"}`))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/predict/roberta %d %s", resp.StatusCode, body)
	}
	var pr types.PredictResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		t.Fatalf("json: %v", err)
	}
	// raw order, not re-sorted
	if pr.Model != "roberta" || len(pr.Predictions) != 3 || pr.Predictions[0].Label != "weather" {
		t.Fatalf("unexpected predictions: %+v", pr)
	}
}

func TestE2E_PredictZeroShotScoresSumToOne(t *testing.T) {
	u := newUpstreams(t)
	srv := newServer(t, u, nil)
	resp, body := httpPostJSON(t, srv.URL+"/predict/zero_shot", []byte(`{"text":"book a flight to Paris","candidate_labels":["weather","book_flight"]}`))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/predict/zero_shot %d %s", resp.StatusCode, body)
	}
	var pr types.PredictResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(pr.Predictions) != 2 {
		t.Fatalf("predictions=%+v", pr.Predictions)
	}
	sum := pr.Predictions[0].Score + pr.Predictions[1].Score
	if math.Abs(sum-1) > 1e-6 {
		t.Fatalf("scores sum to %v", sum)
	}
	if pr.Predictions[0].Score < pr.Predictions[1].Score {
		t.Fatalf("not sorted: %+v", pr.Predictions)
	}
}

func TestE2E_PredictEmptyText400(t *testing.T) {
	u := newUpstreams(t)
	srv := newServer(t, u, nil)
	resp, _ := httpPostJSON(t, srv.URL+"/predict/distilbert", []byte(`{"text":""}`))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if u.classifierCalls() != 0 {
		t.Fatal("classifier was called")
	}
}

func TestE2E_IndexAndMetrics(t *testing.T) {
	u := newUpstreams(t)
	srv := newServer(t, u, nil)
	resp, body := httpGet(t, srv.URL+"/")
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "<html") {
		t.Fatalf("/ %d", resp.StatusCode)
	}
	httpPostJSON(t, srv.URL+"/chat", []byte(`{"text":"hi","model":"distilbert"}`))
	resp, body = httpGet(t, srv.URL+"/metrics")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/metrics %d", resp.StatusCode)
	}
	for _, want := range []string{"intentd_http_requests_total", "intentd_pipeline_stage_calls_total"} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("metrics missing %s", want)
		}
	}
}
