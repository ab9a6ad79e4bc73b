package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		err  *Error
		want int
	}{
		{Validation("bad input"), fiber.StatusBadRequest},
		{InvalidState("too late"), fiber.StatusBadRequest},
		{Forbidden("not yours"), fiber.StatusForbidden},
		{NotFound("gone"), fiber.StatusNotFound},
		{Conflict("stale"), fiber.StatusConflict},
		{Internal("boom", errors.New("db down")), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.Status(), tt.err.Message)
	}
}

func TestErrorsIsMatchesByKind(t *testing.T) {
	assert.True(t, errors.Is(NotFound("order not found"), ErrNotFound))
	assert.True(t, errors.Is(InvalidState("already shipped"), ErrInvalidState))
	assert.False(t, errors.Is(NotFound("order not found"), ErrForbidden))

	wrapped := fmt.Errorf("loading order: %w", Conflict("stale write"))
	assert.True(t, errors.Is(wrapped, ErrConflict))
}

func TestInternalWrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal("failed to save order", cause)

	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "connection refused")
	assert.Contains(t, err.Error(), "failed to save order")
}
