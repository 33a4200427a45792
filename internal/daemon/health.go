package daemon

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
)

// NewHealthHandler returns the daemon's localhost HTTP surface. It
// exists so the CLI can tell a live daemon from a stale PID file.
func NewHealthHandler(version string) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"status":  "ok",
			"pid":     os.Getpid(),
			"version": version,
		})
	})

	return r
}
