package extraction

import "fmt"

// Kind classifies why an extraction failed. Every kind is terminal for the request.
type Kind string

const (
	// KindMalformedReply means the model reply was not a JSON object.
	KindMalformedReply Kind = "malformed_reply"
	// KindInvariantViolation means the reply parsed but failed document validation.
	KindInvariantViolation Kind = "invariant_violation"
	// KindUpstreamFailure means the model could not be called or returned nothing.
	KindUpstreamFailure Kind = "upstream_failure"
	// KindTextTooShort means the sanitized text was below MinTextLength. The model was not called.
	KindTextTooShort Kind = "text_too_short"
)

// Error is returned by Extract for every failure.
// Its message is the message of the underlying error, so validation rules stay readable.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}
