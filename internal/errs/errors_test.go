package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorFormatting(t *testing.T) {
	plain := New(ErrKindUnknownShip, "no such ship")
	assert.Equal(t, "[unknown_ship] no such ship", plain.Error())

	cause := errors.New("dial tcp: connection refused")
	wrapped := Wrap(ErrKindConnectionFailed, "archive unreachable", cause)
	assert.Equal(t, "[connection_failed] archive unreachable: dial tcp: connection refused", wrapped.Error())
}

func TestUnwrapPreservesCause(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(ErrKindQueryFailed, "stat failed", cause)

	require.ErrorIs(t, err, cause)

	// Wrapping again with fmt should still expose the kind.
	outer := fmt.Errorf("fetching artifact: %w", err)
	assert.True(t, IsQueryFailed(outer))
	assert.ErrorIs(t, outer, cause)
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		name string
		err  error
		pred func(error) bool
	}{
		{"unknown ship", New(ErrKindUnknownShip, ""), IsUnknownShip},
		{"invalid echosounder", New(ErrKindInvalidEchosounder, ""), IsInvalidEchosounder},
		{"invalid identity", New(ErrKindInvalidIdentity, ""), IsInvalidIdentity},
		{"not found", New(ErrKindNotFound, ""), IsNotFound},
		{"already exists", New(ErrKindAlreadyExists, ""), IsAlreadyExists},
		{"conversion failed", New(ErrKindConversionFailed, ""), IsConversionFailed},
		{"timeout", New(ErrKindTimeout, ""), IsTimeout},
		{"read only", New(ErrKindReadOnly, ""), IsReadOnly},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.pred(tt.err))
			assert.False(t, tt.pred(errors.New("unrelated")))
		})
	}
}

func TestKindOfForeignError(t *testing.T) {
	assert.Equal(t, ErrKindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, ErrKindUnknown, KindOf(nil))
}
