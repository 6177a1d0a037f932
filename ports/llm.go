package ports

import (
	"context"
	"encoding/json"
)

// LLMClient is the gateway to the generative-text provider. Implementations
// issue one HTTP POST per call with a bounded timeout and surface transport
// and status faults as errors. Callers must branch on the error before using
// the content, and must be able to continue without the LLM.
//
// There is no automatic retry. Wrapping a client with a backoff decorator is
// the place to add one if transient faults turn out to matter.
type LLMClient interface {
	// Analyze sends a free-form analysis prompt and returns the model's
	// text reply verbatim.
	Analyze(ctx context.Context, prompt string) (string, error)

	// Transform asks the model for structured JSON output describing a
	// user-requested transformation of the given data. When the reply
	// cannot be parsed as JSON the error is a *ParseError carrying the raw
	// text for caller inspection.
	Transform(ctx context.Context, data, instruction string) (json.RawMessage, error)
}

// ParseError reports a model reply that was required to be JSON but was not.
// Raw holds the unparsed text so callers can inspect or surface it.
type ParseError struct {
	Raw   string
	Cause error
}

func (e *ParseError) Error() string {
	return "failed to parse LLM response: " + e.Cause.Error()
}

func (e *ParseError) Unwrap() error { return e.Cause }
