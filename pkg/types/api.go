package types

import "time"

// ChatRequest is the payload for POST /chat.
type ChatRequest struct {
	// User message to classify and answer.
	// example: I want to fly to Paris next Friday
	Text string `json:"text" example:"I want to fly to Paris next Friday"`
	// Classification backend: distilbert, roberta or zero_shot.
	// example: distilbert
	Model string `json:"model" example:"distilbert"`
}

// ChatResponse is returned by POST /chat.
type ChatResponse struct {
	// Top predicted intent label.
	// example: book_flight
	Intent string `json:"intent" example:"book_flight"`
	// Score of the top intent in [0,1].
	// example: 0.93
	Confidence float64 `json:"confidence" example:"0.93"`
	// Assistant reply generated from intent, entities and history.
	Response string `json:"response"`
}

// PredictRequest is the payload for POST /predict/distilbert and /predict/roberta.
type PredictRequest struct {
	// example: cancel my flight
	Text string `json:"text" example:"cancel my flight"`
}

// ZeroShotRequest is the payload for POST /predict/zero_shot.
type ZeroShotRequest struct {
	// example: book a flight to Paris
	Text string `json:"text" example:"book a flight to Paris"`
	// Caller-supplied label set; at least one label.
	// example: ["book_flight","weather"]
	CandidateLabels []string `json:"candidate_labels" example:"book_flight,weather"`
}

// LabelScore is one scored label.
type LabelScore struct {
	// example: book_flight
	Label string `json:"label" example:"book_flight"`
	// example: 0.97
	Score float64 `json:"score" example:"0.97"`
}

// PredictResponse is returned by the /predict/* endpoints.
type PredictResponse struct {
	// Backend that produced the predictions.
	// example: zero_shot
	Model string `json:"model" example:"zero_shot"`
	// Echo of the input text.
	Input string `json:"input"`
	// Predictions as returned by the backend (zero_shot: reshaped into pairs).
	Predictions []LabelScore `json:"predictions"`
}

// MessageResponse is a fixed acknowledgement.
type MessageResponse struct {
	// example: Conversation history cleared.
	Message string `json:"message" example:"Conversation history cleared."`
}

// Exchange is one user/assistant pair in a transcript.
type Exchange struct {
	ID                string    `json:"id"`
	UserInput         string    `json:"user_input"`
	AssistantResponse string    `json:"assistant_response"`
	CreatedAt         time.Time `json:"created_at"`
}

// HistoryResponse is returned by GET /history.
type HistoryResponse struct {
	// example: default
	Session   string     `json:"session" example:"default"`
	Exchanges []Exchange `json:"exchanges"`
}

// BackendInfo describes a configured classification backend.
type BackendInfo struct {
	// example: distilbert
	Name string `json:"name" example:"distilbert"`
	// Task served by the endpoint: text-classification or zero-shot-classification.
	// example: text-classification
	Task string `json:"task" example:"text-classification"`
	// example: http://localhost:8081/models/distilbert
	URL string `json:"url" example:"http://localhost:8081/models/distilbert"`
}

// BackendsResponse wraps GET /backends.
type BackendsResponse struct {
	Backends []BackendInfo `json:"backends"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}
