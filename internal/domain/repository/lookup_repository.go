package repository

import (
	"context"

	"github.com/jhoicas/field-inventory/internal/domain/entity"
)

// LookupRepository carga la instantánea de tablas de referencia.
type LookupRepository interface {
	Snapshot(ctx context.Context) (*entity.Lookups, error)
}
