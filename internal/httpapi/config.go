package httpapi

import (
	"io/fs"
	"os"
)

// maxBodyBytes controls the maximum allowed request body size for JSON endpoints.
// Default is 1 MiB.
var maxBodyBytes int64 = 1 << 20

// SetMaxBodyBytes allows configuring the maximum request body size.
func SetMaxBodyBytes(n int64) {
	if n <= 0 {
		maxBodyBytes = 1 << 20
		return
	}
	maxBodyBytes = n
}

// requestTimeout bounds a whole request; zero means no timeout.
var requestTimeout = int64(0) // seconds

// SetRequestTimeoutSeconds sets the request timeout in seconds (0 disables).
func SetRequestTimeoutSeconds(sec int64) {
	if sec < 0 {
		sec = 0
	}
	requestTimeout = sec
}

// CORS configuration (opt-in). If disabled, no CORS middleware is added.
var (
	corsEnabled        bool
	corsAllowedOrigins []string
	corsAllowedMethods []string
	corsAllowedHeaders []string
)

// SetCORSOptions configures CORS behavior for the HTTP server.
func SetCORSOptions(enabled bool, origins, methods, headers []string) {
	corsEnabled = enabled
	corsAllowedOrigins = append([]string(nil), origins...)
	corsAllowedMethods = append([]string(nil), methods...)
	corsAllowedHeaders = append([]string(nil), headers...)
}

// staticFS overrides the embedded chat UI when set.
var staticFS fs.FS

// SetStaticDir serves the chat UI from dir instead of the embedded copy.
// An empty dir restores the embedded assets.
func SetStaticDir(dir string) {
	if dir == "" {
		staticFS = nil
		return
	}
	staticFS = os.DirFS(dir)
}
