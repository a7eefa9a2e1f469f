package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(NotFound("x")))
	assert.Equal(t, KindInvalidInput, KindOf(InvalidInput("x")))
	assert.Equal(t, KindConflict, KindOf(Conflict("x")))
	assert.Equal(t, KindForbidden, KindOf(Forbidden("x")))
	assert.Equal(t, KindUnauthenticated, KindOf(Unauthenticated("x")))
	assert.Equal(t, KindInternal, KindOf(Internal(errors.New("boom"))))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))

	wrapped := fmt.Errorf("outer: %w", Conflict("inner"))
	assert.Equal(t, KindConflict, KindOf(wrapped))
}

func TestInternal_HidesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal(cause)

	assert.Equal(t, "internal server error", err.Error())
	assert.ErrorIs(t, err, cause)
}
