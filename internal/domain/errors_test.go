package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslate(t *testing.T) {
	assert.Nil(t, Translate(nil))
	assert.Same(t, ErrNoStock, Translate(ErrNoStock))

	err := Translate(errors.New("connection reset"))
	assert.ErrorIs(t, err, ErrWrite)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap("Move", 1, nil))

	err := Wrap("Move", 12, ErrNotFound)
	var ae *ActionError
	assert.ErrorAs(t, err, &ae)
	assert.Equal(t, "Move", ae.Action)
	assert.Equal(t, int64(12), ae.InventoryID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "Move inventario 12: recurso no encontrado", err.Error())

	// no se envuelve dos veces
	assert.Same(t, err, Wrap("Otra", 99, err))

	assert.ErrorIs(t, Wrap("Receive", 0, errors.New("tcp")), ErrWrite)
}

func TestCode(t *testing.T) {
	missing := fmt.Errorf("%w: %w: Rejected", ErrNotFound, ErrStatusMissing)
	assert.Equal(t, "STATUS_MISSING", Code(missing))
	assert.Equal(t, "NOT_FOUND", Code(Wrap("Get", 1, ErrNotFound)))
	assert.Equal(t, "INTERNAL_ERROR", Code(errors.New("x")))

	for _, c := range codes {
		assert.Same(t, c.err, FromCode(Code(c.err)))
	}
	assert.Nil(t, FromCode("UNKNOWN"))
}
