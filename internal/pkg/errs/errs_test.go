package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"tracking/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type state string

func (s state) String() string { return string(s) }

func TestObjectNotFoundError(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("orderId", "42")

		assert.Equal(t, "orderId", err.ParamName)
		assert.Equal(t, "42", err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: 42", err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("with cause", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := errs.NewObjectNotFoundErrorWithCause("userId", "7", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t, "object not found: param is: userId, ID is: 7 (cause: connection reset)", err.Error())
	})
}

func TestValidationErrors(t *testing.T) {
	t.Run("invalid", func(t *testing.T) {
		err := errs.NewValueIsInvalidErrorWithCause("email", errors.New("missing @"))
		assert.Equal(t, "value is invalid: email (cause: missing @)", err.Error())
		assert.True(t, errs.IsValidation(err))
	})

	t.Run("out of range", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("latitude", 91.5, -90, 90)
		assert.Equal(t, "value is invalid: 91.5 is latitude, min value is -90, max value is 90", err.Error())
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		assert.True(t, errs.IsValidation(err))
	})

	t.Run("out of range strips newlines from the value", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("note", "a\nb", 0, 1)
		assert.Contains(t, err.Error(), "a b")
		assert.NotContains(t, err.Error(), "\n")
	})

	t.Run("required", func(t *testing.T) {
		err := errs.NewValueIsRequiredError("deliveryAddress")
		assert.Equal(t, "value is required: deliveryAddress", err.Error())
		assert.True(t, errs.IsValidation(err))
	})

	t.Run("other kinds are not validation", func(t *testing.T) {
		assert.False(t, errs.IsValidation(errs.NewConflictError("order", "1")))
		assert.False(t, errs.IsValidation(errs.NewNotAuthorizedError("assign")))
		assert.False(t, errs.IsValidation(errors.New("plain")))
	})
}

func TestNotAuthorizedError(t *testing.T) {
	err := errs.NewNotAuthorizedError("create order")
	assert.Equal(t, "not authorized: create order", err.Error())
	require.ErrorIs(t, err, errs.ErrNotAuthorized)

	withCause := errs.NewNotAuthorizedErrorWithCause("report location", errors.New("not assigned"))
	assert.Equal(t, "not authorized: report location (cause: not assigned)", withCause.Error())
}

func TestInvalidTransitionError(t *testing.T) {
	err := errs.NewInvalidTransitionError(state("pending"), state("delivered"))

	assert.Equal(t, "pending", err.From)
	assert.Equal(t, "delivered", err.To)
	assert.Equal(t, "invalid transition: from pending to delivered", err.Error())
	require.ErrorIs(t, err, errs.ErrInvalidTransition)
}

func TestConflictError(t *testing.T) {
	err := errs.NewConflictError("order", "abc")
	assert.Equal(t, "conflict: order abc", err.Error())
	require.ErrorIs(t, err, errs.ErrConflict)

	wrapped := fmt.Errorf("assign: %w", errs.NewConflictErrorWithCause("user", "u1", errors.New("busy")))
	require.ErrorIs(t, wrapped, errs.ErrConflict)

	var target *errs.ConflictError
	require.ErrorAs(t, wrapped, &target)
	assert.Equal(t, "user", target.Entity)
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want errs.Kind
	}{
		{errs.NewValueIsRequiredError("orderId"), errs.KindValidation},
		{errs.NewValueIsOutOfRangeError("latitude", 91, -90, 90), errs.KindValidation},
		{fmt.Errorf("wrapped: %w", errs.NewNotAuthorizedError("assign")), errs.KindNotAuthorized},
		{errs.NewObjectNotFoundError("orderId", "x"), errs.KindNotFound},
		{errs.NewConflictError("order", "x"), errs.KindConflict},
		{errors.New("boom"), errs.KindInternal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, errs.KindOf(tt.err), tt.err.Error())
	}
}
