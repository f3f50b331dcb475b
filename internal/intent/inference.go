package intent

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"intentd/pkg/types"
)

// Endpoint locates one inference endpoint.
type Endpoint struct {
	URL   string
	Token string
}

// NewHTTPClient builds the client shared by all classification endpoints.
// Timeout is left at zero: requests carry their deadlines via context.
func NewHTTPClient(connectTimeout time.Duration) *http.Client {
	if connectTimeout <= 0 {
		connectTimeout = 10 * time.Second
	}
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   connectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &http.Client{Transport: tr, Timeout: 0}
}

// inferenceRequest is the Hugging Face Inference API request body.
type inferenceRequest struct {
	Inputs     string         `json:"inputs"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

// zeroShotReply is the parallel-array zero-shot reply.
type zeroShotReply struct {
	Sequence string    `json:"sequence"`
	Labels   []string  `json:"labels"`
	Scores   []float64 `json:"scores"`
}

func post(ctx context.Context, cli *http.Client, backend Backend, ep Endpoint, payload inferenceRequest) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ep.URL, bytes.NewReader(body))
	if err != nil {
		return nil, upstreamError{backend: backend.String(), msg: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	if ep.Token != "" {
		req.Header.Set("Authorization", "Bearer "+ep.Token)
	}
	resp, err := cli.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, upstreamError{backend: backend.String(), msg: err.Error()}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, upstreamError{backend: backend.String(), status: resp.StatusCode, msg: strings.TrimSpace(string(b))}
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, upstreamError{backend: backend.String(), msg: "read body: " + err.Error()}
	}
	return b, nil
}

// decodeLabelScores accepts both `[{label,score}]` and `[[{label,score}]]`.
func decodeLabelScores(b []byte) ([]types.LabelScore, bool) {
	var nested [][]types.LabelScore
	if err := json.Unmarshal(b, &nested); err == nil {
		if len(nested) == 0 {
			return nil, true
		}
		return nested[0], true
	}
	var flat []types.LabelScore
	if err := json.Unmarshal(b, &flat); err == nil {
		return flat, true
	}
	return nil, false
}
