package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/field-inventory/internal/domain"
	"github.com/jhoicas/field-inventory/internal/domain/entity"
	domaininv "github.com/jhoicas/field-inventory/internal/domain/inventory"
	"github.com/jhoicas/field-inventory/internal/domain/repository"
)

// Operation sentido de un delta de cantidad.
type Operation string

const (
	OperationAdd      Operation = "add"
	OperationSubtract Operation = "subtract"
)

// deltaOutcome resultado interno de applyDeltaTx.
type deltaOutcome struct {
	record    *entity.InventoryRecord
	previous  *entity.InventoryRecord
	created   bool
	ambiguous bool
}

// applyDeltaTx resuelve el registro equivalente y aplica el delta. excludeID evita que una
// división (Allocate) se consolide contra su propio origen.
func (e *Engine) applyDeltaTx(
	ctx context.Context,
	repo repository.InventoryRecordRepository,
	candidate *entity.InventoryRecord,
	delta decimal.Decimal,
	op Operation,
	now time.Time,
	excludeID int64,
) (*deltaOutcome, error) {
	if delta.IsNegative() {
		return nil, domain.ErrNegativeQuantity
	}

	if !candidate.IsSerialized() {
		sig := candidate.Signature()
		if err := repo.LockSignature(ctx, sig.Key()); err != nil {
			return nil, err
		}
		existing, err := repo.ListBySignature(ctx, sig)
		if err != nil {
			return nil, err
		}
		match := domaininv.FindEquivalent(sig, existing, excludeID)
		if match.Found() {
			if match.Ambiguous() {
				e.log.Warn().Err(domain.ErrConsolidationAmbiguity).
					Str("signature", sig.Key()).
					Int64("target_id", match.Target.ID).
					Int("duplicates", len(match.Excess)).
					Msg("firma duplicada, se usa el registro de menor id")
			}
			previous := match.Target.Clone()
			var newQty decimal.Decimal
			if op == OperationAdd {
				newQty = previous.Quantity.Add(delta)
			} else {
				newQty = previous.Quantity.Sub(delta)
			}
			if newQty.IsNegative() {
				return nil, domain.ErrNegativeQuantity
			}
			updated := previous.Clone()
			updated.Quantity = newQty
			updated.UpdatedAt = now
			if err := repo.Update(ctx, updated); err != nil {
				return nil, err
			}
			return &deltaOutcome{record: updated, previous: previous, ambiguous: match.Ambiguous()}, nil
		}
	}

	if op == OperationSubtract {
		return nil, domain.ErrNoStock
	}
	rec := candidate.Clone()
	rec.ID = 0
	rec.Quantity = delta
	rec.CreatedAt = now
	rec.UpdatedAt = now
	if err := repo.Create(ctx, rec); err != nil {
		return nil, err
	}
	return &deltaOutcome{record: rec, created: true}, nil
}

// ApplyDelta suma o resta una cantidad sobre el registro equivalente al candidato.
// Si no existe: "add" lo crea con la cantidad del delta y "subtract" falla con ErrNoStock.
// Restar hasta cero deja la fila con cantidad 0; nunca la elimina.
func (e *Engine) ApplyDelta(ctx context.Context, candidate entity.InventoryRecord, delta decimal.Decimal, op Operation) (*ActionResult, error) {
	action := entity.ActionReceive
	switch op {
	case OperationAdd:
	case OperationSubtract:
		action = entity.ActionSubtract
	default:
		return nil, domain.Wrap(string(op), 0, domain.ErrInvalidInput)
	}
	if delta.IsNegative() {
		return nil, domain.Wrap(action, 0, domain.ErrNegativeQuantity)
	}

	if op == OperationAdd && e.remote != nil {
		out, err := e.remote.Receive(ctx, candidate, delta)
		if handled, err := e.tryRemote(action, 0, err); handled {
			if err != nil {
				return nil, err
			}
			return e.remoteResult(ctx, action, out), nil
		}
	}

	var lockKeys []string
	if !candidate.IsSerialized() {
		lockKeys = []string{candidate.Signature().Key()}
	}
	return e.execute(ctx, action, 0, lockKeys, func(ctx context.Context, repo repository.InventoryRecordRepository, _ *entity.Lookups) (*ActionResult, *Mutation, error) {
		out, err := e.applyDeltaTx(ctx, repo, &candidate, delta, op, e.now(), 0)
		if err != nil {
			return nil, nil, err
		}
		res := &ActionResult{Record: out.record, Before: out.previous, Ambiguous: out.ambiguous, Outcome: OutcomeUpdated}
		if out.created {
			res.Outcome = OutcomeCreated
			res.Created = []*entity.InventoryRecord{out.record}
		}
		mut := &Mutation{
			Action:          action,
			TransactionType: entity.TransactionTypeQuantity,
			InventoryID:     entity.ID(out.record.ID),
			Before:          out.previous,
			After:           out.record,
			Quantity:        delta,
		}
		if out.previous != nil {
			q := out.previous.Quantity
			mut.OldQuantity = &q
		}
		return res, mut, nil
	})
}

// updateOutcome resultado interno de updateTx.
type updateOutcome struct {
	record           *entity.InventoryRecord
	before           *entity.InventoryRecord
	consolidatedFrom *int64
	ambiguous        bool
}

// updateTx aplica un parche a current verificando si la nueva firma ya existe en otra fila.
// Si existe, la cantidad se suma a esa fila (la de menor id si hay duplicados) y current se elimina.
func (e *Engine) updateTx(
	ctx context.Context,
	repo repository.InventoryRecordRepository,
	current *entity.InventoryRecord,
	patch entity.InventoryPatch,
	now time.Time,
) (*updateOutcome, error) {
	if patch.Quantity != nil && patch.Quantity.IsNegative() {
		return nil, domain.ErrInvalidQuantity
	}
	before := current.Clone()
	proposed := patch.Apply(current)
	proposed.UpdatedAt = now

	// Quitar el serial convierte la fila en granel: cuenta como cambio de firma.
	becomesBulk := current.IsSerialized() && !proposed.IsSerialized()
	if proposed.IsSerialized() || (!becomesBulk && !patch.TouchesSignature()) {
		if err := repo.Update(ctx, proposed); err != nil {
			return nil, err
		}
		return &updateOutcome{record: proposed, before: before}, nil
	}

	sig := proposed.Signature()
	if err := repo.LockSignature(ctx, sig.Key()); err != nil {
		return nil, err
	}
	existing, err := repo.ListBySignature(ctx, sig)
	if err != nil {
		return nil, err
	}
	match := domaininv.FindEquivalent(sig, existing, current.ID)
	if !match.Found() {
		if err := repo.Update(ctx, proposed); err != nil {
			return nil, err
		}
		return &updateOutcome{record: proposed, before: before}, nil
	}

	if match.Ambiguous() {
		e.log.Warn().Err(domain.ErrConsolidationAmbiguity).
			Str("signature", sig.Key()).
			Int64("source_id", current.ID).
			Int64("target_id", match.Target.ID).
			Int("duplicates", len(match.Excess)).
			Msg("consolidación ambigua, se usa el registro de menor id")
	}
	target := match.Target.Clone()
	target.Quantity = target.Quantity.Add(proposed.Quantity)
	target.UpdatedAt = now
	if err := repo.Update(ctx, target); err != nil {
		return nil, err
	}
	if err := repo.Delete(ctx, current.ID); err != nil {
		return nil, err
	}
	return &updateOutcome{
		record:           target,
		before:           before,
		consolidatedFrom: entity.ID(current.ID),
		ambiguous:        match.Ambiguous(),
	}, nil
}

// toResult convierte el resultado de updateTx en ActionResult + Mutation.
func (u *updateOutcome) toResult(action, txType string) (*ActionResult, *Mutation) {
	res := &ActionResult{
		Outcome:          OutcomeUpdated,
		Record:           u.record,
		Before:           u.before,
		ConsolidatedFrom: u.consolidatedFrom,
		Ambiguous:        u.ambiguous,
	}
	oldQty := u.before.Quantity
	mut := &Mutation{
		Action:          action,
		TransactionType: txType,
		InventoryID:     entity.ID(u.record.ID),
		Before:          u.before,
		After:           u.record,
		Quantity:        u.record.Quantity,
		OldQuantity:     &oldQty,
	}
	if u.consolidatedFrom != nil {
		res.Outcome = OutcomeConsolidated
		res.DeletedIDs = []int64{*u.consolidatedFrom}
		mut.Notes = fmt.Sprintf("consolidado desde el registro %d en el registro %d", *u.consolidatedFrom, u.record.ID)
	}
	return res, mut
}

// UpdateWithConsolidationCheck actualiza campos de un registro manteniendo la invariante de una
// sola fila por firma. Devuelve Outcome "updated" o "consolidated" (con ConsolidatedFrom).
func (e *Engine) UpdateWithConsolidationCheck(ctx context.Context, id int64, patch entity.InventoryPatch) (*ActionResult, error) {
	if patch.IsEmpty() {
		return nil, domain.Wrap(entity.ActionUpdate, id, domain.ErrInvalidInput)
	}
	return e.execute(ctx, entity.ActionUpdate, id, nil, func(ctx context.Context, repo repository.InventoryRecordRepository, _ *entity.Lookups) (*ActionResult, *Mutation, error) {
		current, err := loadForUpdate(ctx, repo, id)
		if err != nil {
			return nil, nil, err
		}
		out, err := e.updateTx(ctx, repo, current, patch, e.now())
		if err != nil {
			return nil, nil, err
		}
		res, mut := out.toResult(entity.ActionUpdate, entity.TransactionTypeInventory)
		return res, mut, nil
	})
}

func loadForUpdate(ctx context.Context, repo repository.InventoryRecordRepository, id int64) (*entity.InventoryRecord, error) {
	rec, err := repo.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrNotFound
	}
	return rec, nil
}
