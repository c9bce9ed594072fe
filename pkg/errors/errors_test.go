package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestXpubError_Error(t *testing.T) {
	err := &XpubError{Code: "TEST", Message: "something broke"}
	assert.Equal(t, "something broke", err.Error())
}

func TestXpubError_ErrorWithDetails(t *testing.T) {
	err := &XpubError{
		Code:    "TEST",
		Message: "something broke",
		Details: map[string]string{"b": "2", "a": "1"},
	}
	// Details are sorted for deterministic output.
	assert.Equal(t, "something broke (a: 1) (b: 2)", err.Error())
}

func TestXpubError_ErrorWithCause(t *testing.T) {
	cause := stderrors.New("root cause")
	err := &XpubError{Code: "TEST", Message: "wrapper", Cause: cause}
	assert.Equal(t, "wrapper: root cause", err.Error())
	assert.Equal(t, cause, stderrors.Unwrap(err))
}

func TestIs_MatchesByCode(t *testing.T) {
	derived := WithDetails(ErrMalformedKey, map[string]string{"reason": "truncated"})
	assert.True(t, Is(derived, ErrMalformedKey))
	assert.False(t, Is(derived, ErrUnknownPrefix))
}

func TestWrap(t *testing.T) {
	wrapped := Wrap(ErrEncodingFailure, "encoding %s address", "P2PKH")
	require.Error(t, wrapped)

	var xe *XpubError
	require.True(t, As(wrapped, &xe))
	assert.Equal(t, "ENCODING_FAILURE", xe.Code)
	assert.Contains(t, xe.Message, "encoding P2PKH address")
	assert.True(t, Is(wrapped, ErrEncodingFailure))
}

func TestWrap_PlainError(t *testing.T) {
	wrapped := Wrap(stderrors.New("io failure"), "reading input")
	var xe *XpubError
	require.True(t, As(wrapped, &xe))
	assert.Equal(t, "GENERAL_ERROR", xe.Code)
	assert.Equal(t, ExitGeneral, xe.ExitCode)
}

func TestWrap_Nil(t *testing.T) {
	assert.NoError(t, Wrap(nil, "ignored"))
	assert.NoError(t, WithDetails(nil, nil))
	assert.NoError(t, WithSuggestion(nil, "ignored"))
}

func TestWithDetails_PreservesSentinel(t *testing.T) {
	err := WithDetails(ErrUnknownPrefix, map[string]string{"prefix": "qpub"})

	var xe *XpubError
	require.True(t, As(err, &xe))
	assert.Equal(t, "UNKNOWN_PREFIX", xe.Code)
	assert.Equal(t, "qpub", xe.Details["prefix"])
	// The sentinel's suggestion survives.
	assert.Equal(t, ErrUnknownPrefix.Suggestion, xe.Suggestion)
	// The sentinel itself is untouched.
	assert.Empty(t, ErrUnknownPrefix.Details)
}

func TestWithSuggestion(t *testing.T) {
	err := WithSuggestion(ErrInvalidDerivationPath, "use an index below 2^31")

	var xe *XpubError
	require.True(t, As(err, &xe))
	assert.Equal(t, "use an index below 2^31", xe.Suggestion)
	assert.Equal(t, ErrInvalidDerivationPath.Code, xe.Code)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, ExitCode(nil))
	assert.Equal(t, ExitInput, ExitCode(ErrMalformedKey))
	assert.Equal(t, ExitInput, ExitCode(fmt.Errorf("wrapped: %w", ErrUnknownPrefix)))
	assert.Equal(t, ExitGeneral, ExitCode(stderrors.New("plain")))
	assert.Equal(t, ExitNotFound, ExitCode(ErrConfigNotFound))
}

func TestCode(t *testing.T) {
	assert.Equal(t, "MALFORMED_KEY", Code(ErrMalformedKey))
	assert.Equal(t, "GENERAL_ERROR", Code(stderrors.New("plain")))
}

func TestNew(t *testing.T) {
	err := New("CUSTOM", "custom failure")
	assert.Equal(t, "CUSTOM", err.Code)
	assert.Equal(t, ExitGeneral, err.ExitCode)
	assert.Equal(t, "custom failure", err.Error())
}
