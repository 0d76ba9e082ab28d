package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPageRequest(t *testing.T) {
	cases := []struct {
		name          string
		limit, offset int
		want          PageRequest
	}{
		{"sin parámetros", 0, 0, PageRequest{Limit: DefaultLimit}},
		{"dentro del rango", 50, 10, PageRequest{Limit: 50, Offset: 10}},
		{"limit excedido", 500, 0, PageRequest{Limit: MaxLimit}},
		{"negativos", -3, -1, PageRequest{Limit: DefaultLimit}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NewPageRequest(tc.limit, tc.offset))
		})
	}
}
