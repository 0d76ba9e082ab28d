package inventory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/field-inventory/internal/domain"
	"github.com/jhoicas/field-inventory/internal/domain/entity"
	domaininv "github.com/jhoicas/field-inventory/internal/domain/inventory"
	"github.com/jhoicas/field-inventory/internal/domain/repository"
)

// missing construye el error de configuración faltante: es a la vez ErrNotFound y el tipo concreto
// (ErrStatusMissing / ErrLocationTypeMissing).
func missing(kind error, what string) error {
	return fmt.Errorf("%w: %w: %s", domain.ErrNotFound, kind, what)
}

// patchBuilder calcula el parche de una transición a partir del estado actual.
type patchBuilder func(current *entity.InventoryRecord, snap domaininv.Snapshot) (entity.InventoryPatch, error)

// transition ejecuta una transición que solo cambia campos (pasa por el chequeo de consolidación).
func (e *Engine) transition(ctx context.Context, action, txType string, id int64, build patchBuilder) (*ActionResult, error) {
	return e.execute(ctx, action, id, nil, func(ctx context.Context, repo repository.InventoryRecordRepository, lookups *entity.Lookups) (*ActionResult, *Mutation, error) {
		current, err := loadForUpdate(ctx, repo, id)
		if err != nil {
			return nil, nil, err
		}
		patch, err := build(current, domaininv.NewSnapshot(lookups))
		if err != nil {
			return nil, nil, err
		}
		out, err := e.updateTx(ctx, repo, current, patch, e.now())
		if err != nil {
			return nil, nil, err
		}
		res, mut := out.toResult(action, txType)
		return res, mut, nil
	})
}

// deleteRecord elimina el registro (Remove, Return Material).
func (e *Engine) deleteRecord(ctx context.Context, action string, id int64, notes string) (*ActionResult, error) {
	return e.execute(ctx, action, id, nil, func(ctx context.Context, repo repository.InventoryRecordRepository, _ *entity.Lookups) (*ActionResult, *Mutation, error) {
		current, err := loadForUpdate(ctx, repo, id)
		if err != nil {
			return nil, nil, err
		}
		if err := repo.Delete(ctx, id); err != nil {
			return nil, nil, err
		}
		oldQty := current.Quantity
		res := &ActionResult{Outcome: OutcomeDeleted, Before: current, DeletedIDs: []int64{id}}
		mut := &Mutation{
			Action:          action,
			TransactionType: entity.TransactionTypeInventory,
			InventoryID:     entity.ID(id),
			Before:          current,
			Quantity:        decimal.Zero,
			OldQuantity:     &oldQty,
			Notes:           notes,
		}
		return res, mut, nil
	})
}

// Adjust fija la cantidad de un registro. La cantidad no puede ser negativa.
func (e *Engine) Adjust(ctx context.Context, id int64, quantity decimal.Decimal) (*ActionResult, error) {
	if quantity.IsNegative() {
		return nil, domain.Wrap(entity.ActionAdjust, id, domain.ErrInvalidQuantity)
	}
	if e.remote != nil {
		out, err := e.remote.Adjust(ctx, id, quantity)
		if handled, err := e.tryRemote(entity.ActionAdjust, id, err); handled {
			if err != nil {
				return nil, err
			}
			return e.remoteResult(ctx, entity.ActionAdjust, out), nil
		}
	}
	return e.execute(ctx, entity.ActionAdjust, id, nil, func(ctx context.Context, repo repository.InventoryRecordRepository, _ *entity.Lookups) (*ActionResult, *Mutation, error) {
		current, err := loadForUpdate(ctx, repo, id)
		if err != nil {
			return nil, nil, err
		}
		updated := current.Clone()
		updated.Quantity = quantity
		updated.UpdatedAt = e.now()
		if err := repo.Update(ctx, updated); err != nil {
			return nil, nil, err
		}
		oldQty := current.Quantity
		res := &ActionResult{Outcome: OutcomeUpdated, Record: updated, Before: current}
		mut := &Mutation{
			Action:          entity.ActionAdjust,
			TransactionType: entity.TransactionTypeQuantity,
			InventoryID:     entity.ID(id),
			Before:          current,
			After:           updated,
			Quantity:        quantity,
			OldQuantity:     &oldQty,
		}
		return res, mut, nil
	})
}

// Remove elimina el registro por completo.
func (e *Engine) Remove(ctx context.Context, id int64) (*ActionResult, error) {
	return e.deleteRecord(ctx, entity.ActionRemove, id, "")
}

// ReturnMaterial devuelve el material fuera del sistema (el registro se elimina).
func (e *Engine) ReturnMaterial(ctx context.Context, id int64) (*ActionResult, error) {
	return e.deleteRecord(ctx, entity.ActionReturnMaterial, id, "material devuelto")
}

// Issue entrega el material a una cuadrilla: ubicación "With Crew" y assigned_crew_id.
// Si crewID es nil se usa la cuadrilla ya asignada.
func (e *Engine) Issue(ctx context.Context, id int64, crewID *int64) (*ActionResult, error) {
	if e.remote != nil {
		out, err := e.remote.Issue(ctx, id, crewID)
		if handled, err := e.tryRemote(entity.ActionIssue, id, err); handled {
			if err != nil {
				return nil, err
			}
			return e.remoteResult(ctx, entity.ActionIssue, out), nil
		}
	}
	return e.transition(ctx, entity.ActionIssue, entity.TransactionTypeStateChange, id,
		func(current *entity.InventoryRecord, snap domaininv.Snapshot) (entity.InventoryPatch, error) {
			crew := current.AssignedCrewID
			if crewID != nil {
				if _, ok := snap.Crew(*crewID); !ok {
					return entity.InventoryPatch{}, fmt.Errorf("%w: cuadrilla %d", domain.ErrNotFound, *crewID)
				}
				crew = crewID
			}
			if crew == nil {
				return entity.InventoryPatch{}, domain.ErrNoCrewAssigned
			}
			loc, ok := snap.LocationOfType(entity.LocationTypeWithCrew)
			if !ok {
				loc, ok = snap.LocationByName(entity.LocationWithCrew)
			}
			if !ok {
				return entity.InventoryPatch{}, domain.ErrLocationTypeMissing
			}
			return entity.InventoryPatch{
				LocationID:     entity.ID(loc.ID),
				AssignedCrewID: entity.SetID(*crew),
			}, nil
		})
}

// ReturnAsReserved devuelve el material a un SLOC conservando la cuadrilla asignada (reservado).
func (e *Engine) ReturnAsReserved(ctx context.Context, id, slocID int64) (*ActionResult, error) {
	return e.transition(ctx, entity.ActionReturnAsReserved, entity.TransactionTypeStateChange, id,
		func(_ *entity.InventoryRecord, snap domaininv.Snapshot) (entity.InventoryPatch, error) {
			if _, ok := snap.Sloc(slocID); !ok {
				return entity.InventoryPatch{}, fmt.Errorf("%w: sloc %d", domain.ErrNotFound, slocID)
			}
			loc, ok := snap.LocationOfType(entity.LocationTypeSLOC)
			if !ok {
				return entity.InventoryPatch{}, missing(domain.ErrLocationTypeMissing, entity.LocationTypeSLOC)
			}
			return entity.InventoryPatch{
				LocationID: entity.ID(loc.ID),
				SlocID:     entity.ID(slocID),
			}, nil
		})
}

// AssignArea asigna el registro a un área.
func (e *Engine) AssignArea(ctx context.Context, id, areaID int64) (*ActionResult, error) {
	return e.transition(ctx, entity.ActionAssignArea, entity.TransactionTypeStateChange, id,
		func(_ *entity.InventoryRecord, snap domaininv.Snapshot) (entity.InventoryPatch, error) {
			if _, ok := snap.Area(areaID); !ok {
				return entity.InventoryPatch{}, fmt.Errorf("%w: área %d", domain.ErrNotFound, areaID)
			}
			return entity.InventoryPatch{AreaID: entity.SetID(areaID)}, nil
		})
}

// Inspect pasa un registro de "Received" a "Available". Cualquier otro estado es inválido.
func (e *Engine) Inspect(ctx context.Context, id int64) (*ActionResult, error) {
	return e.transition(ctx, entity.ActionInspect, entity.TransactionTypeStateChange, id,
		func(current *entity.InventoryRecord, snap domaininv.Snapshot) (entity.InventoryPatch, error) {
			received, ok := snap.StatusByName(entity.StatusReceived)
			if !ok {
				return entity.InventoryPatch{}, missing(domain.ErrStatusMissing, entity.StatusReceived)
			}
			if current.StatusID != received.ID {
				return entity.InventoryPatch{}, domain.ErrInvalidStatusTransition
			}
			available, ok := snap.StatusByName(entity.StatusAvailable)
			if !ok {
				return entity.InventoryPatch{}, missing(domain.ErrStatusMissing, entity.StatusAvailable)
			}
			return entity.InventoryPatch{StatusID: entity.ID(available.ID)}, nil
		})
}

// Reserve reserva el material para una cuadrilla sin moverlo.
func (e *Engine) Reserve(ctx context.Context, id, crewID int64) (*ActionResult, error) {
	return e.transition(ctx, entity.ActionReserve, entity.TransactionTypeStateChange, id,
		func(_ *entity.InventoryRecord, snap domaininv.Snapshot) (entity.InventoryPatch, error) {
			if _, ok := snap.Crew(crewID); !ok {
				return entity.InventoryPatch{}, fmt.Errorf("%w: cuadrilla %d", domain.ErrNotFound, crewID)
			}
			return entity.InventoryPatch{AssignedCrewID: entity.SetID(crewID)}, nil
		})
}

// Unreserve limpia la cuadrilla asignada.
func (e *Engine) Unreserve(ctx context.Context, id int64) (*ActionResult, error) {
	return e.transition(ctx, entity.ActionUnreserve, entity.TransactionTypeStateChange, id,
		func(_ *entity.InventoryRecord, _ domaininv.Snapshot) (entity.InventoryPatch, error) {
			return entity.InventoryPatch{AssignedCrewID: entity.ClearID()}, nil
		})
}

// FieldInstall marca el material como instalado en campo.
// El estado pasa a "Installed" solo si ese estado existe.
func (e *Engine) FieldInstall(ctx context.Context, id int64) (*ActionResult, error) {
	return e.transition(ctx, entity.ActionFieldInstall, entity.TransactionTypeStateChange, id,
		func(_ *entity.InventoryRecord, snap domaininv.Snapshot) (entity.InventoryPatch, error) {
			loc, ok := snap.LocationOfType(entity.LocationTypeInstalled)
			if !ok {
				loc, ok = snap.LocationByName(entity.LocationInstalled)
			}
			if !ok {
				return entity.InventoryPatch{}, missing(domain.ErrLocationTypeMissing, entity.LocationInstalled)
			}
			patch := entity.InventoryPatch{LocationID: entity.ID(loc.ID)}
			if st, ok := snap.StatusByName(entity.StatusInstalled); ok {
				patch.StatusID = entity.ID(st.ID)
			}
			return patch, nil
		})
}

// Move mueve el registro a otra ubicación.
func (e *Engine) Move(ctx context.Context, id, locationID int64) (*ActionResult, error) {
	return e.transition(ctx, entity.ActionMove, entity.TransactionTypeStateChange, id,
		func(_ *entity.InventoryRecord, snap domaininv.Snapshot) (entity.InventoryPatch, error) {
			if _, ok := snap.Location(locationID); !ok {
				return entity.InventoryPatch{}, fmt.Errorf("%w: ubicación %d", domain.ErrNotFound, locationID)
			}
			return entity.InventoryPatch{LocationID: entity.ID(locationID)}, nil
		})
}

// Reject marca el material como rechazado.
func (e *Engine) Reject(ctx context.Context, id int64) (*ActionResult, error) {
	return e.transition(ctx, entity.ActionReject, entity.TransactionTypeStateChange, id,
		func(_ *entity.InventoryRecord, snap domaininv.Snapshot) (entity.InventoryPatch, error) {
			st, ok := snap.StatusByName(entity.StatusRejected)
			if !ok {
				return entity.InventoryPatch{}, missing(domain.ErrStatusMissing, entity.StatusRejected)
			}
			return entity.InventoryPatch{StatusID: entity.ID(st.ID)}, nil
		})
}
