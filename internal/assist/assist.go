// Package assist turns resume text into model prompts and relays the
// answers from a local Ollama server.
package assist

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/kalambet/resumed/internal/ollama"
)

// Caller-facing failure messages. Transport failures in Tailor echo the
// underlying error text instead of a fixed message.
const (
	MsgTextRequired     = "Text is required"
	MsgSuggestUpstream  = "Ollama request failed"
	MsgSuggestTransport = "Internal server error"
	MsgTailorRequired   = "Job description and resume text are required"
	MsgTailorUpstream   = "Failed to get response from AI model"
)

// Generator produces a completion for a single prompt. Implemented by
// *ollama.Client.
type Generator interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// Assistant issues one generate call per operation. It keeps no state
// between calls and never retries.
type Assistant struct {
	gen    Generator
	model  string
	logger *slog.Logger
}

// New creates an Assistant that sends every prompt to model.
func New(gen Generator, model string) *Assistant {
	return &Assistant{
		gen:    gen,
		model:  model,
		logger: slog.Default(),
	}
}

// Model returns the model identifier prompts are sent to.
func (a *Assistant) Model() string {
	return a.model
}

// Suggest asks the model to improve a single resume bullet point.
func (a *Assistant) Suggest(ctx context.Context, text string) Result {
	if text == "" {
		return fail(KindValidation, MsgTextRequired, nil)
	}

	out, err := a.gen.Generate(ctx, a.model, SuggestPrompt(text))
	if err != nil {
		kind := classify(err)
		if kind == KindUpstream {
			a.logger.Warn("suggest: ollama returned an error", "model", a.model, "error", err)
			return fail(kind, MsgSuggestUpstream, err)
		}
		a.logger.Error("suggest: ollama call failed", "model", a.model, "error", err)
		return fail(kind, MsgSuggestTransport, err)
	}
	return ok(strings.TrimSpace(out))
}

// Tailor asks the model to rewrite baseResume for jobDescription.
func (a *Assistant) Tailor(ctx context.Context, jobDescription, baseResume string) Result {
	if jobDescription == "" || baseResume == "" {
		return fail(KindValidation, MsgTailorRequired, nil)
	}

	out, err := a.gen.Generate(ctx, a.model, TailorPrompt(jobDescription, baseResume))
	if err != nil {
		kind := classify(err)
		if kind == KindUpstream {
			a.logger.Warn("tailor: ollama returned an error", "model", a.model, "error", err)
			return fail(kind, MsgTailorUpstream, err)
		}
		a.logger.Error("tailor: ollama call failed", "model", a.model, "error", err)
		return fail(kind, err.Error(), err)
	}
	a.logger.Debug("tailor: ollama response", "model", a.model, "chars", len(out))
	return ok(strings.TrimSpace(out))
}

func classify(err error) Kind {
	var se *ollama.StatusError
	if errors.As(err, &se) {
		return KindUpstream
	}
	return KindTransport
}
