package api

import (
	"encoding/json"
	"net/http"

	"github.com/kalambet/resumed/internal/assist"
)

type suggestRequest struct {
	Text string `json:"text"`
}

type generateResumeRequest struct {
	JobDescription string `json:"jobDescription"`
	BaseResume     string `json:"baseResume"`
}

func handleSuggest(a Assistant) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := decodeLenient[suggestRequest](w, r)

		res := a.Suggest(r.Context(), req.Text)
		if !res.OK() {
			writeError(w, statusFor(res.Kind), res.Detail)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"suggestion": res.Text})
	}
}

func handleGenerateResume(a Assistant) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := decodeLenient[generateResumeRequest](w, r)

		res := a.Tailor(r.Context(), req.JobDescription, req.BaseResume)
		if !res.OK() {
			writeError(w, statusFor(res.Kind), res.Detail)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"generatedResume": res.Text})
	}
}

// decodeLenient reads a T from the request body. A body that does not
// decode yields the zero T so the operation reports missing fields.
func decodeLenient[T any](w http.ResponseWriter, r *http.Request) T {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var v T
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		var zero T
		return zero
	}
	return v
}

func statusFor(k assist.Kind) int {
	if k == assist.KindValidation {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
