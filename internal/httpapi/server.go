package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"intentd/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Chat(ctx context.Context, session string, req types.ChatRequest) (types.ChatResponse, error)
	Reset(session string) types.MessageResponse
	History(session string) types.HistoryResponse
	Predict(ctx context.Context, backend, text string) (types.PredictResponse, error)
	PredictZeroShot(ctx context.Context, req types.ZeroShotRequest) (types.PredictResponse, error)
	Backends() []types.BackendInfo
	Ready() bool
}

// SessionHeader selects the transcript a request reads and writes.
// Requests without it share the default session.
const SessionHeader = "X-Session-ID"

func sessionID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(SessionHeader))
}

// NewMux wires the chat UI, the JSON API and the operational endpoints.
func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger)
	r.Use(MetricsMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   corsAllowedOrigins,
			AllowedMethods:   corsAllowedMethods,
			AllowedHeaders:   corsAllowedHeaders,
			ExposedHeaders:   []string{"X-Request-Id"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	h := &handlers{svc: svc}

	r.Get("/", serveIndex)
	r.Handle("/static/*", staticHandler())

	r.Post("/chat", h.chat)
	r.Post("/reset", h.reset)
	r.Get("/history", h.history)
	r.Get("/backends", h.backends)

	r.Post("/predict/distilbert", h.predict("distilbert"))
	r.Post("/predict/roberta", h.predict("roberta"))
	r.Post("/predict/zero_shot", h.predictZeroShot)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("not ready"))
	})

	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)

	return r
}

type handlers struct {
	svc Service
}

// fail writes err with its mapped status unless the client has gone away.
func (h *handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	if r.Context().Err() != nil {
		return
	}
	status := statusFor(err)
	logError(r, status, err)
	writeJSONError(w, status, err.Error())
}

// chat godoc
// @Summary      Chat with the assistant
// @Description  Classifies the message, extracts entities and generates a reply. The exchange is appended to the session transcript.
// @Tags         chat
// @Accept       json
// @Produce      json
// @Param        X-Session-ID  header  string             false  "Conversation session"
// @Param        request       body    types.ChatRequest  true   "Message and classification backend"
// @Success      200  {object}  types.ChatResponse
// @Failure      400  {object}  types.ErrorResponse
// @Failure      415  {object}  types.ErrorResponse
// @Failure      502  {object}  types.ErrorResponse
// @Failure      504  {object}  types.ErrorResponse
// @Router       /chat [post]
func (h *handlers) chat(w http.ResponseWriter, r *http.Request) {
	var req types.ChatRequest
	if !decodeBody(w, r, chatSchema, &req) {
		return
	}
	ctx, cancel := handlerContext(r.Context())
	defer cancel()
	resp, err := h.svc.Chat(ctx, sessionID(r), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// reset godoc
// @Summary      Clear the conversation
// @Tags         chat
// @Produce      json
// @Param        X-Session-ID  header  string  false  "Conversation session"
// @Success      200  {object}  types.MessageResponse
// @Router       /reset [post]
func (h *handlers) reset(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Reset(sessionID(r)))
}

// history godoc
// @Summary      Session transcript
// @Tags         chat
// @Produce      json
// @Param        X-Session-ID  header  string  false  "Conversation session"
// @Success      200  {object}  types.HistoryResponse
// @Router       /history [get]
func (h *handlers) history(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.History(sessionID(r)))
}

// backends godoc
// @Summary      Configured classification backends
// @Tags         predict
// @Produce      json
// @Success      200  {object}  types.BackendsResponse
// @Router       /backends [get]
func (h *handlers) backends(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, types.BackendsResponse{Backends: h.svc.Backends()})
}

// predict godoc
// @Summary      Raw classifier output
// @Description  Returns the fixed-label backend's predictions in the order the backend produced them.
// @Tags         predict
// @Accept       json
// @Produce      json
// @Param        request  body  types.PredictRequest  true  "Text to classify"
// @Success      200  {object}  types.PredictResponse
// @Failure      400  {object}  types.ErrorResponse
// @Failure      502  {object}  types.ErrorResponse
// @Router       /predict/distilbert [post]
// @Router       /predict/roberta [post]
func (h *handlers) predict(backend string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.PredictRequest
		if !decodeBody(w, r, predictSchema, &req) {
			return
		}
		ctx, cancel := handlerContext(r.Context())
		defer cancel()
		resp, err := h.svc.Predict(ctx, backend, req.Text)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// predictZeroShot godoc
// @Summary      Zero-shot classification
// @Description  Scores the text against caller-supplied labels, highest first.
// @Tags         predict
// @Accept       json
// @Produce      json
// @Param        request  body  types.ZeroShotRequest  true  "Text and candidate labels"
// @Success      200  {object}  types.PredictResponse
// @Failure      400  {object}  types.ErrorResponse
// @Failure      502  {object}  types.ErrorResponse
// @Router       /predict/zero_shot [post]
func (h *handlers) predictZeroShot(w http.ResponseWriter, r *http.Request) {
	var req types.ZeroShotRequest
	if !decodeBody(w, r, zeroShotSchema, &req) {
		return
	}
	ctx, cancel := handlerContext(r.Context())
	defer cancel()
	resp, err := h.svc.PredictZeroShot(ctx, req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
