package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	cause := errors.New("model unavailable")
	err := Wrap(ErrUpstream, cause)

	assert.Equal(t, ErrUpstream.Code, err.Code)
	assert.Equal(t, ErrUpstream.Message, err.Message)
	assert.Equal(t, http.StatusInternalServerError, err.StatusCode)
	assert.ErrorIs(t, err, cause)
	assert.Nil(t, ErrUpstream.Internal, "sentinel must not be mutated")
}

func TestWithMessage(t *testing.T) {
	err := WithMessage(ErrInvalidRequest, "raw_text must be at least 10 characters")

	assert.Equal(t, "raw_text must be at least 10 characters", err.Error())
	assert.Equal(t, http.StatusUnprocessableEntity, err.StatusCode)
	assert.Equal(t, "Invalid request", ErrInvalidRequest.Message)
}

func TestNew(t *testing.T) {
	cause := errors.New("boom")
	err := New(ErrInvalidTextData, "Invalid text data or processing error: boom", cause)

	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "Invalid text data or processing error: boom", err.Message)
	assert.Same(t, cause, errors.Unwrap(err))
}

func TestIs_MatchesByCode(t *testing.T) {
	err := fmt.Errorf("request failed: %w", WithMessage(ErrProcessing, "Failed to process text with LLM: bad reply"))

	assert.True(t, errors.Is(err, ErrProcessing))
	assert.False(t, errors.Is(err, ErrUpstream))
}

func TestFrom(t *testing.T) {
	assert.Nil(t, From(nil))

	appErr := WithMessage(ErrNotFound, "Not Found")
	assert.Same(t, appErr, From(fmt.Errorf("wrapped: %w", appErr)))

	plain := errors.New("unexpected")
	got := From(plain)
	require.NotNil(t, got)
	assert.Equal(t, ErrInternal.Code, got.Code)
	assert.Equal(t, http.StatusInternalServerError, got.StatusCode)
	assert.ErrorIs(t, got, plain)
}
