package assist

// Kind classifies the outcome of an assist operation.
type Kind int

const (
	KindOK Kind = iota
	// KindValidation means required input was missing; the model was not called.
	KindValidation
	// KindUpstream means Ollama answered with a non-success status.
	KindUpstream
	// KindTransport means the call itself failed: refused connection,
	// timeout, or a response body that could not be decoded.
	KindTransport
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindValidation:
		return "validation"
	case KindUpstream:
		return "upstream"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// Result is the outcome of Suggest or Tailor. On success Kind is KindOK and
// Text holds the trimmed model output. Otherwise Detail carries a message
// fit for the caller and Err the underlying cause, if any.
type Result struct {
	Text   string
	Kind   Kind
	Detail string
	Err    error
}

// OK reports whether the operation succeeded.
func (r Result) OK() bool {
	return r.Kind == KindOK
}

func ok(text string) Result {
	return Result{Kind: KindOK, Text: text}
}

func fail(kind Kind, detail string, err error) Result {
	return Result{Kind: kind, Detail: detail, Err: err}
}
