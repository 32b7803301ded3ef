package saga

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baxirbajja/Formajoy-api/internal/apperr"
)

func TestRunAllStepsSucceed(t *testing.T) {
	var order []string
	err := Run("op", []Step{
		{Name: "a", Run: func() error { order = append(order, "a"); return nil }},
		{Name: "b", Run: func() error { order = append(order, "b"); return nil }},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, order)
}

func TestRunCompensatesInReverseOnFailure(t *testing.T) {
	var order []string
	cause := errors.New("boom")
	err := Run("op", []Step{
		{
			Name:       "a",
			Run:        func() error { order = append(order, "a"); return nil },
			Compensate: func() error { order = append(order, "undo-a"); return nil },
		},
		{
			Name:       "b",
			Run:        func() error { order = append(order, "b"); return nil },
			Compensate: func() error { order = append(order, "undo-b"); return nil },
		},
		{Name: "c", Run: func() error { return cause }},
	})
	// Full rollback: the original error comes back untouched.
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, []string{"a", "b", "undo-b", "undo-a"}, order)
}

func TestRunPartialFailureWhenCompensationFails(t *testing.T) {
	cause := errors.New("boom")
	err := Run("op", []Step{
		{
			Name:       "a",
			Run:        func() error { return nil },
			Compensate: func() error { return errors.New("undo failed") },
		},
		{Name: "b", Run: func() error { return cause }},
	})
	require.Error(t, err)
	assert.Equal(t, apperr.PartialFailure, apperr.KindOf(err))
	// The cause stays reachable for logging.
	assert.ErrorIs(t, err, cause)
}

func TestRunNilCompensationSkipped(t *testing.T) {
	err := Run("op", []Step{
		{Name: "a", Run: func() error { return nil }},
		{Name: "b", Run: func() error { return errors.New("boom") }},
	})
	require.Error(t, err)
	assert.NotEqual(t, apperr.PartialFailure, apperr.KindOf(err))
}
