package httpapi

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// zlog is an optional structured logger. If unset, falls back to log.Printf.
var zlog *zerolog.Logger

// SetLogger installs a structured logger used by the HTTP layer.
func SetLogger(l zerolog.Logger) { zlog = &l }

// LogLevel controls per-request logging behavior.
type LogLevel int

const (
	LevelOff LogLevel = iota
	LevelError
	LevelInfo
	LevelDebug
)

func parseLevel(s string) LogLevel {
	switch s {
	case "off", "":
		return LevelOff
	case "error", "warn":
		return LevelError
	case "info":
		return LevelInfo
	case "debug", "trace":
		return LevelDebug
	default:
		return LevelInfo
	}
}

// global default, read once from the environment; SetDefaultLogLevel overrides it.
var defaultLogLevel = parseLevel(os.Getenv("INTENTD_LOG_LEVEL"))

// SetDefaultLogLevel sets the request log level used when a request carries no override.
func SetDefaultLogLevel(s string) { defaultLogLevel = parseLevel(s) }

func requestLogLevel(r *http.Request) LogLevel {
	// Per-request overrides
	if v := r.URL.Query().Get("log"); v != "" {
		if v == "1" {
			return LevelDebug
		}
		return parseLevel(v)
	}
	if v := r.Header.Get("X-Log-Level"); v != "" {
		return parseLevel(v)
	}
	return defaultLogLevel
}

// RequestLogger logs one line per request at the request's log level.
// Server errors are logged whenever the level is at least LevelError.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lvl := requestLogLevel(r)
		if lvl == LevelOff {
			next.ServeHTTP(w, r)
			return
		}
		sr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		if lvl >= LevelDebug {
			logEvent(r, "request start", 0, 0, nil)
		}
		next.ServeHTTP(sr, r)
		if lvl >= LevelInfo || sr.status >= http.StatusInternalServerError {
			logEvent(r, "request end", sr.status, time.Since(start), nil)
		}
	})
}

// logError records a handler failure when the request's level allows it.
func logError(r *http.Request, status int, err error) {
	if requestLogLevel(r) < LevelError {
		return
	}
	logEvent(r, "request failed", status, 0, err)
}

func logEvent(r *http.Request, msg string, status int, dur time.Duration, err error) {
	rid := middleware.GetReqID(r.Context())
	if zlog != nil {
		z := zlog.Info()
		if err != nil {
			z = zlog.Error().Err(err)
		}
		z = z.Str("method", r.Method).Str("path", r.URL.Path)
		if status != 0 {
			z = z.Int("status", status)
		}
		if dur != 0 {
			z = z.Dur("dur", dur)
		}
		if rid != "" {
			z = z.Str("request_id", rid)
		}
		z.Msg(msg)
		return
	}
	log.Printf("%s method=%s path=%s status=%d dur=%s request_id=%s err=%v", msg, r.Method, r.URL.Path, status, dur, rid, err)
}
