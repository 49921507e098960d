package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorFormatting(t *testing.T) {
	err := New(ErrConnect, "Failed to connect to server1", "Check the host is reachable")

	msg := err.Error()
	assert.Contains(t, msg, "✗ Failed to connect to server1")
	assert.Contains(t, msg, "Check the host is reachable")
}

func TestErrorFormattingWithCause(t *testing.T) {
	cause := stderrors.New("dial tcp: connection refused")
	err := WrapWithCode(cause, ErrConnect, "Failed to connect", "Check the port")

	msg := err.Error()
	assert.Contains(t, msg, "✗ Failed to connect")
	assert.Contains(t, msg, "dial tcp: connection refused")
	assert.Contains(t, msg, "Check the port")
}

func TestErrorWithoutSuggestion(t *testing.T) {
	err := New(ErrCache, "Cache write failed", "")
	assert.Equal(t, "✗ Cache write failed\n", err.Error())
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("underlying")
	err := Wrap(cause, "wrapped")

	assert.ErrorIs(t, err, cause)
}

func TestWrapDefaultsToConnect(t *testing.T) {
	err := Wrap(stderrors.New("boom"), "failed")
	assert.Equal(t, ErrConnect, err.Code)
}

func TestIsCode(t *testing.T) {
	authErr := New(ErrAuth, "Authentication failed", "Check credentials")

	assert.True(t, IsCode(authErr, ErrAuth))
	assert.False(t, IsCode(authErr, ErrConnect))
	assert.False(t, IsCode(nil, ErrAuth))
	assert.False(t, IsCode(stderrors.New("plain"), ErrAuth))
}

func TestIsCodeThroughWrapping(t *testing.T) {
	inner := New(ErrChannel, "Command produced no output", "")
	outer := fmt.Errorf("snapshot failed: %w", inner)

	require.True(t, IsCode(outer, ErrChannel))
	assert.False(t, IsCode(outer, ErrAuth))
}
