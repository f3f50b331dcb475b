package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"intentd/internal/cli"
	"intentd/internal/config"
)

// upstreams fakes the classification endpoints and the chat-completion API.
type upstreams struct {
	mu          sync.Mutex
	hf          *httptest.Server
	openai      *httptest.Server
	failHF      bool
	failLLM     bool
	prompts     []string
	replyCount  int
	hfRequests  int
	entityReply string
}

func newUpstreams(t *testing.T) *upstreams {
	t.Helper()
	u := &upstreams{entityReply: `{"destination":"Paris","date":"next Friday"}`}
	u.hf = httptest.NewServer(http.HandlerFunc(u.serveHF))
	u.openai = httptest.NewServer(http.HandlerFunc(u.serveOpenAI))
	t.Cleanup(u.hf.Close)
	t.Cleanup(u.openai.Close)
	return u
}

func (u *upstreams) serveHF(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	u.hfRequests++
	fail := u.failHF
	u.mu.Unlock()
	if fail {
		http.Error(w, "model is loading", http.StatusServiceUnavailable)
		return
	}
	var req struct {
		Inputs     string         `json:"inputs"`
		Parameters map[string]any `json:"parameters"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/models/zero":
		labels, _ := req.Parameters["candidate_labels"].([]any)
		// first label wins; scores sum to 1
		out := struct {
			Sequence string    `json:"sequence"`
			Labels   []string  `json:"labels"`
			Scores   []float64 `json:"scores"`
		}{Sequence: req.Inputs}
		rest := 0.0
		if len(labels) > 1 {
			rest = 0.25 / float64(len(labels)-1)
		}
		for i, l := range labels {
			out.Labels = append(out.Labels, fmt.Sprint(l))
			if i == 0 {
				s := 0.75
				if len(labels) == 1 {
					s = 1
				}
				out.Scores = append(out.Scores, s)
				continue
			}
			out.Scores = append(out.Scores, rest)
		}
		_ = json.NewEncoder(w).Encode(out)
	case "/models/distilbert":
		_, _ = io.WriteString(w, `[[{"label":"greeting","score":0.05},{"label":"book_flight","score":0.9},{"label":"weather","score":0.05}]]`)
	case "/models/roberta":
		_, _ = io.WriteString(w, `[{"label":"weather","score":0.1},{"label":"book_flight","score":0.8},{"label":"greeting","score":0.1}]`)
	default:
		http.NotFound(w, r)
	}
}

func (u *upstreams) serveOpenAI(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Messages []struct {
			Content string `json:"content"`
		} `json:"messages"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	prompt := ""
	if len(req.Messages) > 0 {
		prompt = req.Messages[0].Content
	}
	u.mu.Lock()
	fail := u.failLLM
	u.prompts = append(u.prompts, prompt)
	content := u.entityReply
	if !strings.HasPrefix(strings.TrimSpace(prompt), "Extract useful entities") {
		u.replyCount++
		content = fmt.Sprintf("reply %d", u.replyCount)
	}
	u.mu.Unlock()
	if fail {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":{"message":"upstream exploded","type":"server_error"}}`)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":     "chatcmpl-1",
		"object": "chat.completion",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]string{"role": "assistant", "content": content},
			"finish_reason": "stop",
		}},
	})
}

func (u *upstreams) lastPrompt() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	if len(u.prompts) == 0 {
		return ""
	}
	return u.prompts[len(u.prompts)-1]
}

func (u *upstreams) set(f func(u *upstreams)) {
	u.mu.Lock()
	defer u.mu.Unlock()
	f(u)
}

func (u *upstreams) classifierCalls() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.hfRequests
}

// newServer wires the real service against the fakes.
func newServer(t *testing.T, u *upstreams, tweak func(*config.Config)) *httptest.Server {
	t.Helper()
	env := map[string]string{
		"INTENTD_CLASSIFIER_URL": u.hf.URL + "/models",
		"INTENTD_LLM_BASE_URL":   u.openai.URL + "/v1",
		"OPENAI_API_KEY":         "sk-test",
	}
	cfg, err := config.Resolve("", func(k string) string { return env[k] })
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	cfg.Classifier.ZeroShot = "zero"
	if tweak != nil {
		tweak(&cfg)
	}
	app, err := cli.Build(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	srv := httptest.NewServer(app.Handler)
	t.Cleanup(srv.Close)
	t.Cleanup(func() { _ = app.Close() })
	return srv
}

func httpGet(t *testing.T, url string, header ...string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}

func httpPostJSON(t *testing.T, url string, payload []byte, header ...string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}
