// Package api exposes the profile and resume assistance endpoints over HTTP
// and the same operations as MCP tools.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kalambet/resumed/internal/assist"
	"github.com/kalambet/resumed/internal/profile"
)

const maxRequestBodySize = 1 << 20 // 1MB

// Assistant runs the model-backed resume operations. Implemented by
// *assist.Assistant.
type Assistant interface {
	Suggest(ctx context.Context, text string) assist.Result
	Tailor(ctx context.Context, jobDescription, baseResume string) assist.Result
}

// Deps holds the collaborators the HTTP handler needs.
type Deps struct {
	Profile   profile.Store
	Assistant Assistant
	Static    http.Handler // optional; serves the frontend for non-API paths
	Logger    *slog.Logger // optional; defaults to slog.Default()
}

// NewHandler returns the application router.
func NewHandler(deps Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Get("/health", handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/profile", handleGetProfile(deps.Profile, logger))
		r.Post("/profile", handleSaveProfile(deps.Profile, logger))
		r.Post("/suggest", handleSuggest(deps.Assistant))
		r.Post("/generate-resume", handleGenerateResume(deps.Assistant))
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			writeError(w, http.StatusNotFound, "Not found")
		})
	})

	if deps.Static != nil {
		r.Get("/*", deps.Static.ServeHTTP)
		r.Head("/*", deps.Static.ServeHTTP)
	}

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
