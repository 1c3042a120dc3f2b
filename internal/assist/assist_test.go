package assist

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kalambet/resumed/internal/ollama"
)

type fakeGenerator struct {
	response string
	err      error

	calls   int
	model   string
	prompts []string
}

func (f *fakeGenerator) Generate(_ context.Context, model, prompt string) (string, error) {
	f.calls++
	f.model = model
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func TestSuggest_TrimsResponse(t *testing.T) {
	gen := &fakeGenerator{response: "  Foo bar  \n"}
	a := New(gen, "qwen2:1.5b")

	res := a.Suggest(context.Background(), "did stuff")
	if !res.OK() {
		t.Fatalf("result = %+v, want OK", res)
	}
	if res.Text != "Foo bar" {
		t.Errorf("Text = %q, want %q", res.Text, "Foo bar")
	}
	if gen.model != "qwen2:1.5b" {
		t.Errorf("model = %q", gen.model)
	}
	if want := `Improve this resume bullet point: "did stuff"`; gen.prompts[0] != want {
		t.Errorf("prompt = %q, want %q", gen.prompts[0], want)
	}
}

func TestSuggest_EmptyTextSkipsModel(t *testing.T) {
	gen := &fakeGenerator{response: "unused"}
	res := New(gen, "m").Suggest(context.Background(), "")

	if res.Kind != KindValidation {
		t.Errorf("Kind = %v, want validation", res.Kind)
	}
	if res.Detail != MsgTextRequired {
		t.Errorf("Detail = %q", res.Detail)
	}
	if gen.calls != 0 {
		t.Errorf("generator called %d times, want 0", gen.calls)
	}
}

func TestSuggest_Failures(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		kind   Kind
		detail string
	}{
		{"upstream", &ollama.StatusError{Op: "generate", Code: 500}, KindUpstream, MsgSuggestUpstream},
		{"wrapped upstream", fmt.Errorf("outer: %w", &ollama.StatusError{Op: "generate", Code: 404}), KindUpstream, MsgSuggestUpstream},
		{"transport", errors.New("dial tcp: connection refused"), KindTransport, MsgSuggestTransport},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := New(&fakeGenerator{err: tt.err}, "m").Suggest(context.Background(), "x")
			if res.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", res.Kind, tt.kind)
			}
			if res.Detail != tt.detail {
				t.Errorf("Detail = %q, want %q", res.Detail, tt.detail)
			}
			if !errors.Is(res.Err, tt.err) {
				t.Errorf("Err = %v, want %v", res.Err, tt.err)
			}
		})
	}
}

func TestTailor_PromptOrderAndTrim(t *testing.T) {
	gen := &fakeGenerator{response: "\n\nTailored resume\n"}
	res := New(gen, "m").Tailor(context.Background(), "Go developer", "Jane Doe, Python")

	if !res.OK() || res.Text != "Tailored resume" {
		t.Fatalf("result = %+v", res)
	}
	want := "Based on the job description:\nGo developer\n\nTailor the following resume:\nJane Doe, Python"
	if gen.prompts[0] != want {
		t.Errorf("prompt = %q, want %q", gen.prompts[0], want)
	}
}

func TestTailor_MissingFieldsSkipModel(t *testing.T) {
	cases := [][2]string{{"", "resume"}, {"job", ""}, {"", ""}}
	for _, c := range cases {
		gen := &fakeGenerator{}
		res := New(gen, "m").Tailor(context.Background(), c[0], c[1])
		if res.Kind != KindValidation || res.Detail != MsgTailorRequired {
			t.Errorf("Tailor(%q, %q) = %+v", c[0], c[1], res)
		}
		if gen.calls != 0 {
			t.Errorf("Tailor(%q, %q) called generator", c[0], c[1])
		}
	}
}

func TestTailor_TransportEchoesError(t *testing.T) {
	cause := errors.New("generate request: connection refused")
	res := New(&fakeGenerator{err: cause}, "m").Tailor(context.Background(), "job", "resume")

	if res.Kind != KindTransport {
		t.Errorf("Kind = %v, want transport", res.Kind)
	}
	if res.Detail != cause.Error() {
		t.Errorf("Detail = %q, want %q", res.Detail, cause.Error())
	}
}

func TestTailor_Upstream(t *testing.T) {
	res := New(&fakeGenerator{err: &ollama.StatusError{Op: "generate", Code: 503}}, "m").Tailor(context.Background(), "job", "resume")
	if res.Kind != KindUpstream || res.Detail != MsgTailorUpstream {
		t.Errorf("result = %+v", res)
	}
}

// TestAgainstOllamaClient wires the real client to a fake server to check
// status codes and decode failures are classified end to end.
func TestAgainstOllamaClient(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		kind    Kind
	}{
		{"ok", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`{"response":"  Foo bar  "}`)) }, KindOK},
		{"500", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusInternalServerError) }, KindUpstream},
		{"garbage", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`<html>`)) }, KindTransport},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			res := New(ollama.New(srv.URL, 0), "m").Suggest(context.Background(), "x")
			if res.Kind != tt.kind {
				t.Fatalf("Kind = %v, want %v (err %v)", res.Kind, tt.kind, res.Err)
			}
			if tt.kind == KindOK && res.Text != "Foo bar" {
				t.Errorf("Text = %q", res.Text)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	for k, want := range map[Kind]string{KindOK: "ok", KindValidation: "validation", KindUpstream: "upstream", KindTransport: "transport", Kind(42): "unknown"} {
		if got := k.String(); !strings.EqualFold(got, want) {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}
