package repository

import (
	"context"

	"github.com/jhoicas/field-inventory/internal/domain/entity"
)

// InventoryRecordRepository define el puerto de persistencia para registros de inventario.
// Las implementaciones no garantizan atomicidad entre llamadas; para eso se usa un TxRunner.
type InventoryRecordRepository interface {
	// GetByID devuelve nil, nil si el registro no existe.
	GetByID(ctx context.Context, id int64) (*entity.InventoryRecord, error)
	// GetForUpdate igual que GetByID pero bloquea la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id int64) (*entity.InventoryRecord, error)
	// ListBySignature devuelve las filas a granel con la firma dada, ordenadas por id y bloqueadas.
	ListBySignature(ctx context.Context, sig entity.Signature) ([]*entity.InventoryRecord, error)
	// LockSignature serializa escritores concurrentes sobre una misma firma dentro de la transacción.
	LockSignature(ctx context.Context, key string) error
	// ListBulk devuelve todas las filas sin número de serie (chequeo de integridad).
	ListBulk(ctx context.Context) ([]*entity.InventoryRecord, error)
	List(ctx context.Context, filter entity.InventoryFilter) ([]*entity.InventoryRecord, error)
	Create(ctx context.Context, record *entity.InventoryRecord) error
	Update(ctx context.Context, record *entity.InventoryRecord) error
	Delete(ctx context.Context, id int64) error
}
