package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", NotFound("slot %s not found", "abc"), http.StatusNotFound},
		{"conflict", Conflict("slot is full"), http.StatusConflict},
		{"invalid", Invalid("bad window"), http.StatusBadRequest},
		{"wrapped conflict", fmt.Errorf("book: %w", Conflict("slot is full")), http.StatusConflict},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Status(tt.err))
		})
	}
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "slot abc not found", Message(NotFound("slot %s not found", "abc")))
	assert.Equal(t, "slot is full", Message(fmt.Errorf("wrap: %w", Conflict("slot is full"))))
	assert.Equal(t, "internal server error", Message(errors.New("pq: connection refused")))
}

func TestKinds(t *testing.T) {
	err := fmt.Errorf("outer: %w", NotFound("trip not found"))
	assert.True(t, IsNotFound(err))
	assert.False(t, IsConflict(err))
	assert.True(t, errors.Is(Conflict("x"), ErrConflict))
}
