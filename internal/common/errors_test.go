package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSentinelWrapping(t *testing.T) {
	err := fmt.Errorf("message m1: %w", ErrNotFound)
	require.True(t, IsNotFound(err))
	require.False(t, IsNotFound(ErrPermission))
}

func TestPersistenceError(t *testing.T) {
	inner := errors.New("connection reset")
	err := NewPersistenceError("PutGroup", inner)

	require.True(t, IsPersistence(err))
	require.True(t, IsPersistence(fmt.Errorf("saving: %w", err)))
	require.ErrorIs(t, err, inner)
	require.Contains(t, err.Error(), "PutGroup")

	require.False(t, IsPersistence(inner))
}

func TestPartialConsistencyError(t *testing.T) {
	inner := errors.New("write timeout")
	err := &PartialConsistencyError{Applied: "a@example.com", Failed: "b@example.com", Err: inner}

	require.ErrorIs(t, err, inner)
	require.Contains(t, err.Error(), "a@example.com")
	require.Contains(t, err.Error(), "b@example.com")
}
