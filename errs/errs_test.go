package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAndCode(t *testing.T) {
	err := New(CodeNotFound, "kingdom not found")
	assert.Equal(t, "kingdom not found", err.Msg())
	assert.Equal(t, CodeNotFound, CodeOf(err))
	assert.Contains(t, err.Error(), "kingdom not found")
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(CodeStorage, "state not persisted", cause)

	assert.Equal(t, CodeStorage, CodeOf(err))
	assert.ErrorIs(t, err, cause)
}

func TestCodeOfWrappedChain(t *testing.T) {
	inner := New(CodeInsufficient, "not enough gold")
	outer := fmt.Errorf("train: %w", inner)

	assert.Equal(t, CodeInsufficient, CodeOf(outer))
}

func TestCodeOfPlainError(t *testing.T) {
	assert.Equal(t, Code(""), CodeOf(errors.New("plain")))
	assert.Equal(t, Code(""), CodeOf(nil))
}

func TestIsMatchesByCode(t *testing.T) {
	a := New(CodeConflict, "username already taken")
	b := New(CodeConflict, "alliance name already taken")
	assert.ErrorIs(t, a, b)

	c := New(CodeNotFound, "user not found")
	assert.NotErrorIs(t, a, c)
}
