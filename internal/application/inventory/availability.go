package inventory

import (
	"context"

	"github.com/jhoicas/field-inventory/internal/domain"
	"github.com/jhoicas/field-inventory/internal/domain/entity"
	domaininv "github.com/jhoicas/field-inventory/internal/domain/inventory"
)

// AvailableActions devuelve las acciones que se pueden ofrecer para el estado actual del registro.
// El motor vuelve a validar sus precondiciones al ejecutar (la UI puede estar desactualizada).
func (e *Engine) AvailableActions(ctx context.Context, id int64) ([]entity.ActionType, error) {
	rec, err := e.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	lookups, err := e.lookups.Snapshot(ctx)
	if err != nil {
		return nil, domain.Wrap("AvailableActions", id, err)
	}
	return domaininv.AvailableActions(rec.StatusID, lookups.ActionStatuses, lookups.ActionTypes), nil
}
