package errors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransportError(t *testing.T) {
	tests := []struct {
		name string
		err  *TransportError
		want string
	}{
		{"status", &TransportError{Status: 502, Reason: "Bad Gateway"}, "[502] Bad Gateway"},
		{"cause", &TransportError{Cause: context.DeadlineExceeded}, "transport: context deadline exceeded"},
		{"reason only", &TransportError{Reason: "no body"}, "transport: no body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
			assert.True(t, Is(tt.err, ErrTransport))
		})
	}
}

func TestTransportErrorUnwrapsCause(t *testing.T) {
	err := error(&TransportError{Cause: context.Canceled})
	assert.True(t, Is(err, context.Canceled))
}

func TestErrorWrapperReachesTypedErrors(t *testing.T) {
	wrapped := NewError("netspo.Login", "login request failed", &AuthenticationError{Reason: "bad password"})

	var authErr *AuthenticationError
	require.True(t, As(wrapped, &authErr))
	assert.Equal(t, "bad password", authErr.Reason)
	assert.True(t, Is(wrapped, ErrAuthFailed))
	assert.Equal(t, "netspo.Login: login request failed: authentication failed: bad password", wrapped.Error())
}

func TestSentinels(t *testing.T) {
	assert.True(t, Is(&ForbiddenError{Role: "student"}, ErrForbidden))
	assert.True(t, Is(&ValidationError{Field: "semester", Reason: "requires course"}, ErrInvalidInput))
	assert.False(t, Is(&ValidationError{}, ErrForbidden))
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, "nothing"))
	err := Wrap(ErrNoSession, "resume")
	assert.True(t, Is(err, ErrNoSession))
	assert.Equal(t, "resume: no saved session", err.Error())
}
