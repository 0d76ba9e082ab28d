package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appinv "github.com/jhoicas/field-inventory/internal/application/inventory"
	"github.com/jhoicas/field-inventory/internal/domain"
	"github.com/jhoicas/field-inventory/internal/domain/entity"
	"github.com/jhoicas/field-inventory/internal/infrastructure/memory"
)

func TestAllocate_SumaExactaEliminaOrigen(t *testing.T) {
	h := newHarness(t)
	rec := h.seed(t, bodegaRecord(statusAvailable))

	res, err := h.engine.Allocate(context.Background(), rec.ID, []appinv.AreaAllocation{
		{AreaID: area7, Quantity: qty(4)},
		{AreaID: area8, Quantity: qty(6)},
	})
	require.NoError(t, err)
	assert.Equal(t, appinv.OutcomeDeleted, res.Outcome)
	assert.Equal(t, []int64{rec.ID}, res.DeletedIDs)
	require.Len(t, res.Created, 2)

	assert.Nil(t, h.get(t, rec.ID))
	records := h.store.Records()
	require.Len(t, records, 2)
	assert.Equal(t, area7, *records[0].AreaID)
	requireQty(t, 4, records[0].Quantity)
	assert.Equal(t, area8, *records[1].AreaID)
	requireQty(t, 6, records[1].Quantity)
	assert.Len(t, h.store.Transactions(), 1)
}

func TestAllocate_AreaRepetidaSeAgrupa(t *testing.T) {
	h := newHarness(t)
	rec := h.seed(t, bodegaRecord(statusAvailable))

	res, err := h.engine.Allocate(context.Background(), rec.ID, []appinv.AreaAllocation{
		{AreaID: area7, Quantity: qty(2)},
		{AreaID: area8, Quantity: qty(1)},
		{AreaID: area7, Quantity: qty(3)},
	})
	require.NoError(t, err)
	require.Len(t, res.Created, 2, "una entrada por área")
	assert.Equal(t, area7, *res.Created[0].AreaID)
	requireQty(t, 5, res.Created[0].Quantity)
	assert.Equal(t, area8, *res.Created[1].AreaID)
	requireQty(t, 1, res.Created[1].Quantity)

	requireQty(t, 4, h.get(t, rec.ID).Quantity)
	assert.Len(t, h.store.Records(), 3)
}

func TestAllocate_ParcialReduceOrigen(t *testing.T) {
	h := newHarness(t)
	rec := h.seed(t, bodegaRecord(statusAvailable))

	res, err := h.engine.Allocate(context.Background(), rec.ID, []appinv.AreaAllocation{{AreaID: area7, Quantity: qty(3)}})
	require.NoError(t, err)
	assert.Equal(t, appinv.OutcomeUpdated, res.Outcome)
	requireQty(t, 7, h.get(t, rec.ID).Quantity)
	assert.Nil(t, h.get(t, rec.ID).AreaID)
	requireQty(t, 3, h.get(t, res.Created[0].ID).Quantity)
}

func TestAllocate_SeSumaAFilaExistenteDelArea(t *testing.T) {
	h := newHarness(t)
	existing := bodegaRecord(statusAvailable)
	existing.AreaID = entity.ID(area7)
	existing.Quantity = qty(2)
	inArea := h.seed(t, existing)
	rec := h.seed(t, bodegaRecord(statusAvailable))

	_, err := h.engine.Allocate(context.Background(), rec.ID, []appinv.AreaAllocation{{AreaID: area7, Quantity: qty(5)}})
	require.NoError(t, err)
	requireQty(t, 7, h.get(t, inArea.ID).Quantity)
	requireQty(t, 5, h.get(t, rec.ID).Quantity)
	assert.Len(t, h.store.Records(), 2)
}

func TestAllocate_ExcesoNoCambiaNada(t *testing.T) {
	h := newHarness(t)
	rec := h.seed(t, bodegaRecord(statusAvailable))

	_, err := h.engine.Allocate(context.Background(), rec.ID, []appinv.AreaAllocation{
		{AreaID: area7, Quantity: qty(6)},
		{AreaID: area8, Quantity: qty(5)},
	})
	assert.ErrorIs(t, err, domain.ErrOverAllocation)
	assert.Len(t, h.store.Records(), 1)
	requireQty(t, 10, h.get(t, rec.ID).Quantity)
	assert.Empty(t, h.store.Transactions())
}

func TestAllocate_EntradasInvalidas(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	rec := h.seed(t, bodegaRecord(statusAvailable))

	_, err := h.engine.Allocate(ctx, rec.ID, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = h.engine.Allocate(ctx, rec.ID, []appinv.AreaAllocation{{AreaID: area7, Quantity: qty(0)}})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = h.engine.Allocate(ctx, rec.ID, []appinv.AreaAllocation{{AreaID: 999, Quantity: qty(1)}})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	serial := bodegaRecord(statusAvailable)
	serial.Quantity = qty(1)
	serial.MfgrSerialNumber = "MF-1"
	s := h.seed(t, serial)
	_, err = h.engine.Allocate(ctx, s.ID, []appinv.AreaAllocation{{AreaID: area7, Quantity: qty(1)}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAllocate_FalloAMitadRevierteTodo(t *testing.T) {
	h := newHarness(t)
	rec := h.seed(t, bodegaRecord(statusAvailable))
	h.store.FailOn(memory.OpDelete, assert.AnError)

	_, err := h.engine.Allocate(context.Background(), rec.ID, []appinv.AreaAllocation{
		{AreaID: area7, Quantity: qty(4)},
		{AreaID: area8, Quantity: qty(6)},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrWrite)

	records := h.store.Records()
	require.Len(t, records, 1, "las filas por área creadas antes del fallo se revierten")
	assert.Equal(t, rec.ID, records[0].ID)
	requireQty(t, 10, records[0].Quantity)
	assert.Zero(t, h.notifier.count())
}
