package httpapi

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var embedded embed.FS

func assets() fs.FS {
	if staticFS != nil {
		return staticFS
	}
	sub, err := fs.Sub(embedded, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// serveIndex writes chat.html unmodified.
func serveIndex(w http.ResponseWriter, r *http.Request) {
	b, err := fs.ReadFile(assets(), "chat.html")
	if err != nil {
		writeJSONError(w, http.StatusNotFound, "chat UI not found")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(b)
}

func staticHandler() http.Handler {
	return http.StripPrefix("/static/", http.FileServer(http.FS(assets())))
}
