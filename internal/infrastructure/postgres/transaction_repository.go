package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/field-inventory/internal/domain/entity"
	"github.com/jhoicas/field-inventory/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo log de auditoría append-only sobre PostgreSQL.
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

// Create inserta la fila de auditoría y asigna el ID.
func (r *TransactionRepo) Create(ctx context.Context, t *entity.TransactionRecord) error {
	query := `
		INSERT INTO transactions (
			inventory_id, transaction_type, action, client_name, market_name, sloc_name,
			item_type_name, category_name, location_name, old_location_name,
			status_name, old_status_name, crew_name, old_crew_name, area_name, old_area_name,
			mfgr_serial_number, tilson_serial_number, quantity, old_quantity,
			before_state, after_state, user_id, user_email, session_id, date_time, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
			$17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		t.InventoryID, t.TransactionType, t.Action, t.ClientName, t.MarketName, t.SlocName,
		t.ItemTypeName, t.CategoryName, t.LocationName, t.OldLocationName,
		t.StatusName, t.OldStatusName, t.CrewName, t.OldCrewName, t.AreaName, t.OldAreaName,
		nullableText(t.MfgrSerialNumber), nullableText(t.TilsonSerialNumber), t.Quantity, t.OldQuantity,
		jsonOrNil(t.BeforeState), jsonOrNil(t.AfterState), t.UserID, t.UserEmail, t.SessionID,
		t.DateTime, nullableText(t.Notes), t.CreatedAt,
	).Scan(&t.ID)
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

// ListByInventory historial de un registro, más reciente primero.
func (r *TransactionRepo) ListByInventory(ctx context.Context, inventoryID int64, limit, offset int) ([]*entity.TransactionRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, inventory_id, transaction_type, action, client_name, market_name, sloc_name,
			item_type_name, category_name, location_name, old_location_name,
			status_name, old_status_name, crew_name, old_crew_name, area_name, old_area_name,
			mfgr_serial_number, tilson_serial_number, quantity, old_quantity,
			before_state, after_state, user_id, user_email, session_id, date_time, notes, created_at
		FROM transactions
		WHERE inventory_id = $1
		ORDER BY id DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, inventoryID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var list []*entity.TransactionRecord
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func scanTransaction(row pgx.Row) (*entity.TransactionRecord, error) {
	var t entity.TransactionRecord
	var mfgr, tilson, notes *string
	err := row.Scan(
		&t.ID, &t.InventoryID, &t.TransactionType, &t.Action, &t.ClientName, &t.MarketName, &t.SlocName,
		&t.ItemTypeName, &t.CategoryName, &t.LocationName, &t.OldLocationName,
		&t.StatusName, &t.OldStatusName, &t.CrewName, &t.OldCrewName, &t.AreaName, &t.OldAreaName,
		&mfgr, &tilson, &t.Quantity, &t.OldQuantity,
		&t.BeforeState, &t.AfterState, &t.UserID, &t.UserEmail, &t.SessionID, &t.DateTime, &notes, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.MfgrSerialNumber = textValue(mfgr)
	t.TilsonSerialNumber = textValue(tilson)
	t.Notes = textValue(notes)
	return &t, nil
}

// jsonOrNil guarda NULL en lugar de un JSONB vacío.
func jsonOrNil(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
