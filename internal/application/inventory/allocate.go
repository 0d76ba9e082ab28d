package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/field-inventory/internal/domain"
	"github.com/jhoicas/field-inventory/internal/domain/entity"
	domaininv "github.com/jhoicas/field-inventory/internal/domain/inventory"
	"github.com/jhoicas/field-inventory/internal/domain/repository"
)

// AreaAllocation cantidad a asignar a un área.
type AreaAllocation struct {
	AreaID   int64
	Quantity decimal.Decimal
}

// Allocate divide un registro a granel entre áreas: una fila por área con su cantidad (o se suma a
// la fila equivalente si ya existe) y el origen se reduce en el total; si queda en cero se elimina.
// Todo ocurre en una sola transacción: si la suma excede la cantidad no se escribe nada.
func (e *Engine) Allocate(ctx context.Context, id int64, allocations []AreaAllocation) (*ActionResult, error) {
	if len(allocations) == 0 {
		return nil, domain.Wrap(entity.ActionAllocate, id, domain.ErrInvalidInput)
	}
	for _, a := range allocations {
		if !a.Quantity.IsPositive() {
			return nil, domain.Wrap(entity.ActionAllocate, id, domain.ErrInvalidQuantity)
		}
	}
	allocations = mergeAllocations(allocations)

	return e.execute(ctx, entity.ActionAllocate, id, nil, func(ctx context.Context, repo repository.InventoryRecordRepository, lookups *entity.Lookups) (*ActionResult, *Mutation, error) {
		snap := domaininv.NewSnapshot(lookups)
		current, err := loadForUpdate(ctx, repo, id)
		if err != nil {
			return nil, nil, err
		}
		if current.IsSerialized() {
			return nil, nil, fmt.Errorf("%w: un registro serializado no se divide, use Assign Area", domain.ErrInvalidInput)
		}

		total := decimal.Zero
		for _, a := range allocations {
			if _, ok := snap.Area(a.AreaID); !ok {
				return nil, nil, fmt.Errorf("%w: área %d", domain.ErrNotFound, a.AreaID)
			}
			total = total.Add(a.Quantity)
		}
		if total.GreaterThan(current.Quantity) {
			return nil, nil, domain.ErrOverAllocation
		}

		now := e.now()
		before := current.Clone()
		res := &ActionResult{Before: before}
		moved := decimal.Zero
		var summary []string

		for _, a := range allocations {
			// Asignar al área que el registro ya tiene no mueve stock.
			if current.AreaID != nil && *current.AreaID == a.AreaID {
				summary = append(summary, fmt.Sprintf("área %d: %s (sin mover)", a.AreaID, a.Quantity))
				continue
			}
			slice := current.Clone()
			slice.AreaID = entity.ID(a.AreaID)
			out, err := e.applyDeltaTx(ctx, repo, slice, a.Quantity, OperationAdd, now, current.ID)
			if err != nil {
				return nil, nil, err
			}
			res.Created = append(res.Created, out.record)
			moved = moved.Add(a.Quantity)
			summary = append(summary, fmt.Sprintf("área %d: %s → registro %d", a.AreaID, a.Quantity, out.record.ID))
		}

		remaining := current.Quantity.Sub(moved)
		if remaining.IsZero() {
			if err := repo.Delete(ctx, current.ID); err != nil {
				return nil, nil, err
			}
			res.Outcome = OutcomeDeleted
			res.DeletedIDs = []int64{current.ID}
		} else {
			updated := current.Clone()
			updated.Quantity = remaining
			updated.UpdatedAt = now
			if err := repo.Update(ctx, updated); err != nil {
				return nil, nil, err
			}
			res.Outcome = OutcomeUpdated
			res.Record = updated
		}

		oldQty := before.Quantity
		mut := &Mutation{
			Action:          entity.ActionAllocate,
			TransactionType: entity.TransactionTypeInventory,
			InventoryID:     entity.ID(current.ID),
			Before:          before,
			After:           res.Record,
			Quantity:        total,
			OldQuantity:     &oldQty,
			Notes:           strings.Join(summary, "; "),
		}
		return res, mut, nil
	})
}

// mergeAllocations suma las entradas repetidas de una misma área, conservando el orden de aparición.
func mergeAllocations(allocations []AreaAllocation) []AreaAllocation {
	index := make(map[int64]int, len(allocations))
	merged := make([]AreaAllocation, 0, len(allocations))
	for _, a := range allocations {
		if i, ok := index[a.AreaID]; ok {
			merged[i].Quantity = merged[i].Quantity.Add(a.Quantity)
			continue
		}
		index[a.AreaID] = len(merged)
		merged = append(merged, a)
	}
	return merged
}
