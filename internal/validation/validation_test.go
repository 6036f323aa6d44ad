package validation

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestURL(t *testing.T) {
	valid := []string{"", "http://example.com", "https://loop.microsoft.com/p/abc?x=1"}
	for _, v := range valid {
		require.NoError(t, URL("loopLink", v), v)
	}

	tests := []struct {
		value string
		want  string
	}{
		{"example.com", "must include a scheme"},
		{"ftp://example.com", "scheme must be http or https"},
		{"https://", "must include a host"},
		{"ht!tp://example.com", "invalid URL format"},
	}
	for _, tt := range tests {
		err := URL("loopLink", tt.value)
		require.Error(t, err, tt.value)
		require.Contains(t, err.Error(), tt.want)
	}
}

func TestPhone(t *testing.T) {
	require.NoError(t, Phone("phone", "+3545550101"))
	require.NoError(t, Phone("phone", NormalizePhone(" +354 854-2824 ")))

	err := Phone("phone", "8542824")
	require.Error(t, err)
	require.Contains(t, err.Error(), "must start with +")

	require.Error(t, Phone("phone", "+0123"))
	require.Error(t, Phone("phone", "+354abc1234"))
}

func TestOneOf(t *testing.T) {
	type kind string
	require.NoError(t, OneOf("kind", kind("a"), "a", "b"))

	err := OneOf("kind", kind("c"), "a", "b")
	require.EqualError(t, err, "kind: must be one of a, b")
}

func TestIsValidationError(t *testing.T) {
	require.True(t, IsValidationError(fmt.Errorf("wrapped: %w", Error{Field: "x", Message: "bad"})))
	require.False(t, IsValidationError(errors.New("plain")))
	require.NoError(t, Required("title", "x"))
	require.Error(t, Required("title", "  "))
	require.Error(t, NonNegative("budget", -1))
}
