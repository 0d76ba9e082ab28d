package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/field-inventory/internal/domain/entity"
	"github.com/jhoicas/field-inventory/internal/domain/repository"
)

var _ repository.LookupRepository = (*LookupRepo)(nil)

// LookupRepo carga las tablas de referencia completas (son pequeñas y casi estáticas).
type LookupRepo struct {
	q Querier
}

// NewLookupRepository construye el adaptador.
func NewLookupRepository(q Querier) *LookupRepo {
	return &LookupRepo{q: q}
}

// loadAll ejecuta query y escanea cada fila con scan.
func loadAll[T any](ctx context.Context, q Querier, table, query string, scan func(pgx.Row, *T) error) ([]T, error) {
	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", table, err)
	}
	defer rows.Close()
	var out []T
	for rows.Next() {
		var v T
		if err := scan(rows, &v); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load %s: %w", table, err)
	}
	return out, nil
}

// Snapshot lee todas las tablas de referencia en una instantánea.
func (r *LookupRepo) Snapshot(ctx context.Context) (*entity.Lookups, error) {
	var (
		l   entity.Lookups
		err error
	)
	if l.Clients, err = loadAll(ctx, r.q, "clients", `SELECT id, name FROM clients ORDER BY id`,
		func(row pgx.Row, v *entity.Client) error { return row.Scan(&v.ID, &v.Name) }); err != nil {
		return nil, err
	}
	if l.Markets, err = loadAll(ctx, r.q, "markets", `SELECT id, client_id, name FROM markets ORDER BY id`,
		func(row pgx.Row, v *entity.Market) error { return row.Scan(&v.ID, &v.ClientID, &v.Name) }); err != nil {
		return nil, err
	}
	if l.Slocs, err = loadAll(ctx, r.q, "slocs", `SELECT id, market_id, name FROM slocs ORDER BY id`,
		func(row pgx.Row, v *entity.Sloc) error { return row.Scan(&v.ID, &v.MarketID, &v.Name) }); err != nil {
		return nil, err
	}
	if l.Crews, err = loadAll(ctx, r.q, "crews", `SELECT id, sloc_id, name FROM crews ORDER BY id`,
		func(row pgx.Row, v *entity.Crew) error { return row.Scan(&v.ID, &v.SlocID, &v.Name) }); err != nil {
		return nil, err
	}
	if l.Areas, err = loadAll(ctx, r.q, "areas", `SELECT id, sloc_id, name FROM areas ORDER BY id`,
		func(row pgx.Row, v *entity.Area) error { return row.Scan(&v.ID, &v.SlocID, &v.Name) }); err != nil {
		return nil, err
	}
	if l.Statuses, err = loadAll(ctx, r.q, "statuses", `SELECT id, name FROM statuses ORDER BY id`,
		func(row pgx.Row, v *entity.Status) error { return row.Scan(&v.ID, &v.Name) }); err != nil {
		return nil, err
	}
	if l.LocationTypes, err = loadAll(ctx, r.q, "location_types", `SELECT id, name FROM location_types ORDER BY id`,
		func(row pgx.Row, v *entity.LocationType) error { return row.Scan(&v.ID, &v.Name) }); err != nil {
		return nil, err
	}
	if l.Locations, err = loadAll(ctx, r.q, "locations", `SELECT id, name, location_type_id FROM locations ORDER BY id`,
		func(row pgx.Row, v *entity.Location) error { return row.Scan(&v.ID, &v.Name, &v.LocationTypeID) }); err != nil {
		return nil, err
	}
	if l.ItemTypes, err = loadAll(ctx, r.q, "item_types", `
		SELECT id, name, COALESCE(manufacturer, ''), COALESCE(part_number, ''), units_per_package,
			category_id, unit_of_measure_id, provider_id, inventory_type_id, low_quantity_threshold
		FROM item_types ORDER BY id`, scanItemType); err != nil {
		return nil, err
	}
	if l.Categories, err = loadAll(ctx, r.q, "categories", `SELECT id, name FROM categories ORDER BY id`,
		func(row pgx.Row, v *entity.Category) error { return row.Scan(&v.ID, &v.Name) }); err != nil {
		return nil, err
	}
	if l.UnitsOfMeasure, err = loadAll(ctx, r.q, "units_of_measure", `SELECT id, name FROM units_of_measure ORDER BY id`,
		func(row pgx.Row, v *entity.UnitOfMeasure) error { return row.Scan(&v.ID, &v.Name) }); err != nil {
		return nil, err
	}
	if l.Providers, err = loadAll(ctx, r.q, "providers", `SELECT id, name FROM providers ORDER BY id`,
		func(row pgx.Row, v *entity.Provider) error { return row.Scan(&v.ID, &v.Name) }); err != nil {
		return nil, err
	}
	if l.InventoryTypes, err = loadAll(ctx, r.q, "inventory_types", `SELECT id, name FROM inventory_types ORDER BY id`,
		func(row pgx.Row, v *entity.InventoryType) error { return row.Scan(&v.ID, &v.Name) }); err != nil {
		return nil, err
	}
	if l.ActionTypes, err = loadAll(ctx, r.q, "inv_action_types", `
		SELECT id, name, COALESCE(description, ''), COALESCE(button_class, ''), allows_signature
		FROM inv_action_types ORDER BY id`,
		func(row pgx.Row, v *entity.ActionType) error {
			return row.Scan(&v.ID, &v.Name, &v.Description, &v.ButtonClass, &v.AllowsSignature)
		}); err != nil {
		return nil, err
	}
	if l.ActionStatuses, err = loadAll(ctx, r.q, "inv_action_statuses", `
		SELECT action_id, status_id FROM inv_action_statuses ORDER BY action_id, status_id`,
		func(row pgx.Row, v *entity.ActionStatus) error { return row.Scan(&v.ActionID, &v.StatusID) }); err != nil {
		return nil, err
	}
	return &l, nil
}

func scanItemType(row pgx.Row, v *entity.ItemType) error {
	var units, threshold *decimal.Decimal
	var category, uom, provider, invType *int64
	if err := row.Scan(&v.ID, &v.Name, &v.Manufacturer, &v.PartNumber, &units,
		&category, &uom, &provider, &invType, &threshold); err != nil {
		return err
	}
	if units != nil {
		v.UnitsPerPackage = *units
	}
	if threshold != nil {
		v.LowQuantityThreshold = *threshold
	}
	v.CategoryID = deref(category)
	v.UnitOfMeasureID = deref(uom)
	v.ProviderID = deref(provider)
	v.InventoryTypeID = deref(invType)
	return nil
}

func deref(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}
