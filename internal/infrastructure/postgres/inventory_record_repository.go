package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/field-inventory/internal/domain"
	"github.com/jhoicas/field-inventory/internal/domain/entity"
	"github.com/jhoicas/field-inventory/internal/domain/repository"
)

var _ repository.InventoryRecordRepository = (*InventoryRecordRepo)(nil)

const inventoryColumns = `id, location_id, item_type_id, status_id, sloc_id, assigned_crew_id, area_id,
	quantity, mfgr_serial_number, tilson_serial_number, notes, created_at, updated_at`

// Filas a granel: ningún serial con contenido.
const bulkPredicate = `COALESCE(TRIM(mfgr_serial_number), '') = '' AND COALESCE(TRIM(tilson_serial_number), '') = ''`

// InventoryRecordRepo implementación sobre PostgreSQL (usable con pool o tx).
type InventoryRecordRepo struct {
	q Querier
}

// NewInventoryRecordRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryRecordRepository(q Querier) *InventoryRecordRepo {
	return &InventoryRecordRepo{q: q}
}

func scanRecord(row pgx.Row) (*entity.InventoryRecord, error) {
	var r entity.InventoryRecord
	var mfgr, tilson, notes *string
	err := row.Scan(
		&r.ID, &r.LocationID, &r.ItemTypeID, &r.StatusID, &r.SlocID, &r.AssignedCrewID, &r.AreaID,
		&r.Quantity, &mfgr, &tilson, &notes, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	r.MfgrSerialNumber = textValue(mfgr)
	r.TilsonSerialNumber = textValue(tilson)
	r.Notes = textValue(notes)
	return &r, nil
}

func collectRecords(rows pgx.Rows) ([]*entity.InventoryRecord, error) {
	defer rows.Close()
	var list []*entity.InventoryRecord
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, r)
	}
	return list, rows.Err()
}

func (r *InventoryRecordRepo) getOne(ctx context.Context, query string, id int64) (*entity.InventoryRecord, error) {
	rec, err := scanRecord(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

// GetByID obtiene un registro por ID. Devuelve nil, nil si no existe.
func (r *InventoryRecordRepo) GetByID(ctx context.Context, id int64) (*entity.InventoryRecord, error) {
	rec, err := r.getOne(ctx, `SELECT `+inventoryColumns+` FROM inventory WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("get inventory record: %w", err)
	}
	return rec, nil
}

// GetForUpdate obtiene el registro y bloquea la fila (SELECT FOR UPDATE).
func (r *InventoryRecordRepo) GetForUpdate(ctx context.Context, id int64) (*entity.InventoryRecord, error) {
	rec, err := r.getOne(ctx, `SELECT `+inventoryColumns+` FROM inventory WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		return nil, fmt.Errorf("get inventory record for update: %w", err)
	}
	return rec, nil
}

// ListBySignature devuelve las filas a granel con la firma dada, ordenadas por id y bloqueadas.
// Los ids opcionales se comparan con IS NOT DISTINCT FROM: NULL solo coincide con NULL.
func (r *InventoryRecordRepo) ListBySignature(ctx context.Context, sig entity.Signature) ([]*entity.InventoryRecord, error) {
	query := `
		SELECT ` + inventoryColumns + `
		FROM inventory
		WHERE location_id = $1 AND item_type_id = $2 AND status_id = $3 AND sloc_id = $4
		  AND assigned_crew_id IS NOT DISTINCT FROM $5
		  AND area_id IS NOT DISTINCT FROM $6
		  AND ` + bulkPredicate + `
		ORDER BY id
		FOR UPDATE`
	rows, err := r.q.Query(ctx, query,
		sig.LocationID, sig.ItemTypeID, sig.StatusID, sig.SlocID, sig.AssignedCrewID, sig.AreaID)
	if err != nil {
		return nil, fmt.Errorf("list by signature: %w", err)
	}
	list, err := collectRecords(rows)
	if err != nil {
		return nil, fmt.Errorf("scan by signature: %w", err)
	}
	return list, nil
}

// LockSignature toma un advisory lock de transacción sobre la firma. Cierra la ventana en la que
// dos escritores concurrentes no ven fila existente y ambos la crean.
func (r *InventoryRecordRepo) LockSignature(ctx context.Context, key string) error {
	if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key); err != nil {
		return fmt.Errorf("advisory lock: %w", err)
	}
	return nil
}

// ListBulk lista todas las filas a granel ordenadas por id (chequeo de integridad).
func (r *InventoryRecordRepo) ListBulk(ctx context.Context) ([]*entity.InventoryRecord, error) {
	rows, err := r.q.Query(ctx, `SELECT `+inventoryColumns+` FROM inventory WHERE `+bulkPredicate+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list bulk: %w", err)
	}
	list, err := collectRecords(rows)
	if err != nil {
		return nil, fmt.Errorf("scan bulk: %w", err)
	}
	return list, nil
}

// List lista registros con filtros de igualdad y paginación.
func (r *InventoryRecordRepo) List(ctx context.Context, f entity.InventoryFilter) ([]*entity.InventoryRecord, error) {
	var (
		where []string
		args  []any
	)
	add := func(col string, v *int64) {
		if v == nil {
			return
		}
		args = append(args, *v)
		where = append(where, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	add("sloc_id", f.SlocID)
	add("location_id", f.LocationID)
	add("item_type_id", f.ItemTypeID)
	add("status_id", f.StatusID)

	query := `SELECT ` + inventoryColumns + ` FROM inventory`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY id`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	list, err := collectRecords(rows)
	if err != nil {
		return nil, fmt.Errorf("scan inventory: %w", err)
	}
	return list, nil
}

// Create inserta el registro y asigna el ID generado por la BD.
func (r *InventoryRecordRepo) Create(ctx context.Context, rec *entity.InventoryRecord) error {
	query := `
		INSERT INTO inventory (location_id, item_type_id, status_id, sloc_id, assigned_crew_id, area_id,
			quantity, mfgr_serial_number, tilson_serial_number, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		rec.LocationID, rec.ItemTypeID, rec.StatusID, rec.SlocID, rec.AssignedCrewID, rec.AreaID,
		rec.Quantity, nullableText(rec.MfgrSerialNumber), nullableText(rec.TilsonSerialNumber),
		nullableText(rec.Notes), rec.CreatedAt, rec.UpdatedAt,
	).Scan(&rec.ID)
	if err != nil {
		return mapWriteError("create inventory record", err)
	}
	return nil
}

// Update reescribe todos los campos del registro.
func (r *InventoryRecordRepo) Update(ctx context.Context, rec *entity.InventoryRecord) error {
	query := `
		UPDATE inventory SET location_id = $2, item_type_id = $3, status_id = $4, sloc_id = $5,
			assigned_crew_id = $6, area_id = $7, quantity = $8, mfgr_serial_number = $9,
			tilson_serial_number = $10, notes = $11, updated_at = $12
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		rec.ID, rec.LocationID, rec.ItemTypeID, rec.StatusID, rec.SlocID, rec.AssignedCrewID, rec.AreaID,
		rec.Quantity, nullableText(rec.MfgrSerialNumber), nullableText(rec.TilsonSerialNumber),
		nullableText(rec.Notes), rec.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("update inventory record", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update inventory record %d: %w", rec.ID, domain.ErrNotFound)
	}
	return nil
}

// Delete elimina el registro.
func (r *InventoryRecordRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM inventory WHERE id = $1`, id); err != nil {
		return mapWriteError("delete inventory record", err)
	}
	return nil
}

// mapWriteError traduce violaciones de constraints a errores de dominio.
func mapWriteError(op string, err error) error {
	switch {
	case isUniqueViolation(err):
		return fmt.Errorf("%s: %w: número de serie duplicado", op, domain.ErrInvalidInput)
	case isForeignKeyViolation(err):
		return fmt.Errorf("%s: %w: referencia inexistente", op, domain.ErrNotFound)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
