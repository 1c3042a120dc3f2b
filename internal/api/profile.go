package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/kalambet/resumed/internal/profile"
)

func handleGetProfile(store profile.Store, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := store.Get()
		if err != nil {
			logger.Error("reading profile", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to read profile")
			return
		}
		writeJSON(w, http.StatusOK, doc)
	}
}

func handleSaveProfile(store profile.Store, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		doc, err := profile.Decode(r.Body)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeError(w, http.StatusRequestEntityTooLarge, "Profile exceeds 1 MiB")
				return
			}
			logger.Debug("rejecting profile body", "error", err)
			writeError(w, http.StatusBadRequest, "Profile must be a JSON object")
			return
		}

		if err := store.Save(doc); err != nil {
			logger.Error("saving profile", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to save profile")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Profile saved successfully"})
	}
}
