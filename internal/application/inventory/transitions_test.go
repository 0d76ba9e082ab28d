package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appinv "github.com/jhoicas/field-inventory/internal/application/inventory"
	"github.com/jhoicas/field-inventory/internal/domain"
	"github.com/jhoicas/field-inventory/internal/domain/entity"
)

func bodegaRecord(status int64) entity.InventoryRecord {
	return entity.InventoryRecord{ItemTypeID: itemCable, LocationID: locBodega, StatusID: status, SlocID: slocNorte, Quantity: qty(10)}
}

func TestInspect(t *testing.T) {
	t.Run("Received pasa a Available", func(t *testing.T) {
		h := newHarness(t)
		rec := h.seed(t, bodegaRecord(statusReceived))

		res, err := h.engine.Inspect(context.Background(), rec.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.ActionInspect, res.Action)
		assert.Equal(t, statusAvailable, res.Record.StatusID)
		assert.Equal(t, statusAvailable, h.get(t, rec.ID).StatusID)
	})

	t.Run("otro estado es transición inválida", func(t *testing.T) {
		h := newHarness(t)
		rec := h.seed(t, bodegaRecord(statusAvailable))

		_, err := h.engine.Inspect(context.Background(), rec.ID)
		assert.ErrorIs(t, err, domain.ErrInvalidStatusTransition)
		assert.Equal(t, statusAvailable, h.get(t, rec.ID).StatusID)
		assert.Empty(t, h.store.Transactions())
		assert.Zero(t, h.notifier.count())
	})

	t.Run("registro inexistente", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.engine.Inspect(context.Background(), 404)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestIssue(t *testing.T) {
	ctx := context.Background()

	t.Run("con cuadrilla explícita", func(t *testing.T) {
		h := newHarness(t)
		rec := h.seed(t, bodegaRecord(statusAvailable))

		res, err := h.engine.Issue(ctx, rec.ID, entity.ID(crewA))
		require.NoError(t, err)
		assert.Equal(t, appinv.PathLocal, res.Path)
		stored := h.get(t, rec.ID)
		assert.Equal(t, locWithCrew, stored.LocationID)
		require.NotNil(t, stored.AssignedCrewID)
		assert.Equal(t, crewA, *stored.AssignedCrewID)
	})

	t.Run("usa la cuadrilla ya asignada", func(t *testing.T) {
		h := newHarness(t)
		seed := bodegaRecord(statusAvailable)
		seed.AssignedCrewID = entity.ID(crewB)
		rec := h.seed(t, seed)

		_, err := h.engine.Issue(ctx, rec.ID, nil)
		require.NoError(t, err)
		assert.Equal(t, crewB, *h.get(t, rec.ID).AssignedCrewID)
	})

	t.Run("sin cuadrilla", func(t *testing.T) {
		h := newHarness(t)
		rec := h.seed(t, bodegaRecord(statusAvailable))

		_, err := h.engine.Issue(ctx, rec.ID, nil)
		assert.ErrorIs(t, err, domain.ErrNoCrewAssigned)
		assert.Equal(t, locBodega, h.get(t, rec.ID).LocationID)
	})

	t.Run("sin ubicación With Crew configurada", func(t *testing.T) {
		h := newHarness(t)
		l := testLookups()
		l.LocationTypes = l.LocationTypes[:1]
		l.Locations = []entity.Location{l.Locations[0]}
		h.store.SetLookups(l)
		rec := h.seed(t, bodegaRecord(statusAvailable))

		_, err := h.engine.Issue(ctx, rec.ID, entity.ID(crewA))
		assert.ErrorIs(t, err, domain.ErrLocationTypeMissing)
		assert.Nil(t, h.get(t, rec.ID).AssignedCrewID)
	})

	t.Run("cuadrilla inexistente", func(t *testing.T) {
		h := newHarness(t)
		rec := h.seed(t, bodegaRecord(statusAvailable))
		_, err := h.engine.Issue(ctx, rec.ID, entity.ID(999))
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("consolida con lo ya entregado a la cuadrilla", func(t *testing.T) {
		h := newHarness(t)
		issued := entity.InventoryRecord{ItemTypeID: itemCable, LocationID: locWithCrew, StatusID: statusAvailable, SlocID: slocNorte, AssignedCrewID: entity.ID(crewA), Quantity: qty(4)}
		target := h.seed(t, issued)
		rec := h.seed(t, bodegaRecord(statusAvailable))

		res, err := h.engine.Issue(ctx, rec.ID, entity.ID(crewA))
		require.NoError(t, err)
		assert.Equal(t, appinv.OutcomeConsolidated, res.Outcome)
		requireQty(t, 14, h.get(t, target.ID).Quantity)
		assert.Nil(t, h.get(t, rec.ID))
	})
}

func TestReturnAsReserved(t *testing.T) {
	h := newHarness(t)
	rec := h.seed(t, entity.InventoryRecord{ItemTypeID: itemCable, LocationID: locWithCrew, StatusID: statusAvailable, SlocID: slocNorte, AssignedCrewID: entity.ID(crewA), Quantity: qty(3)})

	_, err := h.engine.ReturnAsReserved(context.Background(), rec.ID, slocSur)
	require.NoError(t, err)

	stored := h.get(t, rec.ID)
	assert.Equal(t, locBodega, stored.LocationID)
	assert.Equal(t, slocSur, stored.SlocID)
	require.NotNil(t, stored.AssignedCrewID)
	assert.Equal(t, crewA, *stored.AssignedCrewID, "la reserva conserva la cuadrilla")

	_, err = h.engine.ReturnAsReserved(context.Background(), rec.ID, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAssignArea(t *testing.T) {
	h := newHarness(t)
	rec := h.seed(t, bodegaRecord(statusAvailable))

	_, err := h.engine.AssignArea(context.Background(), rec.ID, area7)
	require.NoError(t, err)
	assert.Equal(t, area7, *h.get(t, rec.ID).AreaID)

	_, err = h.engine.AssignArea(context.Background(), rec.ID, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, area7, *h.get(t, rec.ID).AreaID)
}

func TestReserveUnreserve(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	rec := h.seed(t, bodegaRecord(statusAvailable))

	_, err := h.engine.Reserve(ctx, rec.ID, crewB)
	require.NoError(t, err)
	stored := h.get(t, rec.ID)
	assert.Equal(t, crewB, *stored.AssignedCrewID)
	assert.Equal(t, locBodega, stored.LocationID)

	_, err = h.engine.Unreserve(ctx, rec.ID)
	require.NoError(t, err)
	assert.Nil(t, h.get(t, rec.ID).AssignedCrewID)

	_, err = h.engine.Reserve(ctx, rec.ID, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFieldInstall(t *testing.T) {
	h := newHarness(t)
	rec := h.seed(t, entity.InventoryRecord{ItemTypeID: itemCable, LocationID: locWithCrew, StatusID: statusIssued, SlocID: slocNorte, AssignedCrewID: entity.ID(crewA), Quantity: qty(2)})

	_, err := h.engine.FieldInstall(context.Background(), rec.ID)
	require.NoError(t, err)
	stored := h.get(t, rec.ID)
	assert.Equal(t, locInstalled, stored.LocationID)
	assert.Equal(t, statusInstalled, stored.StatusID)
}

func TestFieldInstall_SinEstadoInstalledSoloMueve(t *testing.T) {
	h := newHarness(t)
	l := testLookups()
	l.Statuses = l.Statuses[:3]
	h.store.SetLookups(l)
	rec := h.seed(t, bodegaRecord(statusIssued))

	_, err := h.engine.FieldInstall(context.Background(), rec.ID)
	require.NoError(t, err)
	stored := h.get(t, rec.ID)
	assert.Equal(t, locInstalled, stored.LocationID)
	assert.Equal(t, statusIssued, stored.StatusID)
}

func TestMove(t *testing.T) {
	h := newHarness(t)
	rec := h.seed(t, bodegaRecord(statusAvailable))

	_, err := h.engine.Move(context.Background(), rec.ID, locOutgoing)
	require.NoError(t, err)
	assert.Equal(t, locOutgoing, h.get(t, rec.ID).LocationID)

	_, err = h.engine.Move(context.Background(), rec.ID, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReject(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		h := newHarness(t)
		rec := h.seed(t, bodegaRecord(statusReceived))
		_, err := h.engine.Reject(context.Background(), rec.ID)
		require.NoError(t, err)
		assert.Equal(t, statusRejected, h.get(t, rec.ID).StatusID)
	})

	t.Run("estado Rejected no configurado", func(t *testing.T) {
		h := newHarness(t)
		l := testLookups()
		l.Statuses = l.Statuses[:4]
		h.store.SetLookups(l)
		rec := h.seed(t, bodegaRecord(statusReceived))

		_, err := h.engine.Reject(context.Background(), rec.ID)
		assert.ErrorIs(t, err, domain.ErrStatusMissing)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Equal(t, statusReceived, h.get(t, rec.ID).StatusID)
	})
}

func TestRemoveAndReturnMaterial(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	a := h.seed(t, bodegaRecord(statusAvailable))
	b := h.seed(t, entity.InventoryRecord{ItemTypeID: itemCable, LocationID: locOutgoing, StatusID: statusAvailable, SlocID: slocNorte, Quantity: qty(1)})

	res, err := h.engine.Remove(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, appinv.OutcomeDeleted, res.Outcome)
	assert.Nil(t, res.Record)
	assert.Nil(t, h.get(t, a.ID))

	_, err = h.engine.ReturnMaterial(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, h.store.Records())

	_, err = h.engine.Remove(ctx, a.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	txs := h.store.Transactions()
	require.Len(t, txs, 2)
	assert.NotEmpty(t, txs[0].BeforeState)
	assert.Empty(t, txs[0].AfterState)
}

func TestAdjust(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	rec := h.seed(t, bodegaRecord(statusAvailable))

	res, err := h.engine.Adjust(ctx, rec.ID, qty(4))
	require.NoError(t, err)
	requireQty(t, 4, res.Record.Quantity)
	requireQty(t, 10, res.Before.Quantity)

	_, err = h.engine.Adjust(ctx, rec.ID, qty(-1))
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	requireQty(t, 4, h.get(t, rec.ID).Quantity)

	_, err = h.engine.Adjust(ctx, 999, qty(1))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTransitions_UnaTransaccionPorAccion(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	rec := h.seed(t, bodegaRecord(statusReceived))

	steps := []func() (*appinv.ActionResult, error){
		func() (*appinv.ActionResult, error) { return h.engine.Inspect(ctx, rec.ID) },
		func() (*appinv.ActionResult, error) { return h.engine.Reserve(ctx, rec.ID, crewA) },
		func() (*appinv.ActionResult, error) { return h.engine.Issue(ctx, rec.ID, nil) },
		func() (*appinv.ActionResult, error) { return h.engine.FieldInstall(ctx, rec.ID) },
	}
	for i, step := range steps {
		res, err := step()
		require.NoError(t, err, "paso %d", i)
		require.NotNil(t, res.TransactionID, "paso %d", i)
	}

	txs := h.store.Transactions()
	require.Len(t, txs, len(steps))
	for _, tx := range txs {
		assert.NotEmpty(t, tx.BeforeState)
		assert.NotEmpty(t, tx.AfterState)
		require.NotNil(t, tx.InventoryID)
		assert.Equal(t, rec.ID, *tx.InventoryID)
	}
	assert.Equal(t, entity.ActionInspect, txs[0].Action)
	assert.Equal(t, "Received", txs[0].OldStatusName)
	assert.Equal(t, "Available", txs[0].StatusName)
	assert.Equal(t, "Cuadrilla A", txs[2].CrewName)
	assert.Equal(t, "Installed", txs[3].LocationName)
	assert.Equal(t, len(steps), h.notifier.count())
}
