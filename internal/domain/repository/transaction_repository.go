package repository

import (
	"context"

	"github.com/jhoicas/field-inventory/internal/domain/entity"
)

// TransactionRepository puerto del log de auditoría. Solo anexar: no hay Update ni Delete.
type TransactionRepository interface {
	Create(ctx context.Context, tx *entity.TransactionRecord) error
	ListByInventory(ctx context.Context, inventoryID int64, limit, offset int) ([]*entity.TransactionRecord, error)
}
