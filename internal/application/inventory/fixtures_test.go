package inventory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	appinv "github.com/jhoicas/field-inventory/internal/application/inventory"
	"github.com/jhoicas/field-inventory/internal/domain/entity"
	"github.com/jhoicas/field-inventory/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Datos de referencia compartidos por los tests
// ──────────────────────────────────────────────────────────────────────────────

const (
	statusReceived  int64 = 1
	statusAvailable int64 = 2
	statusIssued    int64 = 3
	statusInstalled int64 = 4
	statusRejected  int64 = 5

	locBodega    int64 = 10
	locWithCrew  int64 = 20
	locInstalled int64 = 30
	locOutgoing  int64 = 40

	slocNorte int64 = 4
	slocSur   int64 = 44

	crewA int64 = 5
	crewB int64 = 6

	area7 int64 = 7
	area8 int64 = 8

	itemCable int64 = 1
)

func testLookups() *entity.Lookups {
	return &entity.Lookups{
		Clients: []entity.Client{{ID: 1, Name: "Acme Fiber"}},
		Markets: []entity.Market{{ID: 2, ClientID: 1, Name: "Norte"}},
		Slocs:   []entity.Sloc{{ID: slocNorte, MarketID: 2, Name: "SLOC Norte"}, {ID: slocSur, MarketID: 2, Name: "SLOC Sur"}},
		Crews:   []entity.Crew{{ID: crewA, SlocID: slocNorte, Name: "Cuadrilla A"}, {ID: crewB, SlocID: slocNorte, Name: "Cuadrilla B"}},
		Areas:   []entity.Area{{ID: area7, SlocID: slocNorte, Name: "Zona 7"}, {ID: area8, SlocID: slocNorte, Name: "Zona 8"}},
		Statuses: []entity.Status{
			{ID: statusReceived, Name: "Received"},
			{ID: statusAvailable, Name: "Available"},
			{ID: statusIssued, Name: "Issued"},
			{ID: statusInstalled, Name: "Installed"},
			{ID: statusRejected, Name: "Rejected"},
		},
		LocationTypes: []entity.LocationType{
			{ID: 1, Name: "SLOC"}, {ID: 2, Name: "With Crew"}, {ID: 3, Name: "Installed"}, {ID: 4, Name: "Outgoing"},
		},
		Locations: []entity.Location{
			{ID: locBodega, Name: "Bodega", LocationTypeID: 1},
			{ID: locWithCrew, Name: "With Crew", LocationTypeID: 2},
			{ID: locInstalled, Name: "Installed", LocationTypeID: 3},
			{ID: locOutgoing, Name: "Outgoing", LocationTypeID: 4},
		},
		ItemTypes:  []entity.ItemType{{ID: itemCable, Name: "Cable 144F", CategoryID: 9}},
		Categories: []entity.Category{{ID: 9, Name: "Cable"}},
		ActionTypes: []entity.ActionType{
			{ID: 1, Name: entity.ActionInspect},
			{ID: 2, Name: entity.ActionReject},
			{ID: 3, Name: entity.ActionIssue, AllowsSignature: true},
		},
		ActionStatuses: []entity.ActionStatus{
			{ActionID: 1, StatusID: statusReceived},
			{ActionID: 2, StatusID: statusReceived},
			{ActionID: 3, StatusID: statusAvailable},
		},
	}
}

// recordingNotifier captura los avisos de refresco.
type recordingNotifier struct {
	mu     sync.Mutex
	events []appinv.ChangeEvent
}

func (n *recordingNotifier) InventoryChanged(_ context.Context, ev appinv.ChangeEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.events)
}

type harness struct {
	engine   *appinv.Engine
	store    *memory.Store
	notifier *recordingNotifier
}

type harnessOption func(*appinv.EngineDeps, *bool)

func withStrictAudit() harnessOption {
	return func(_ *appinv.EngineDeps, strict *bool) { *strict = true }
}

func withRemote(r appinv.RemoteFunctions) harnessOption {
	return func(d *appinv.EngineDeps, _ *bool) { d.Remote = r }
}

func newHarness(t *testing.T, opts ...harnessOption) *harness {
	t.Helper()
	store := memory.NewStore(testLookups())
	notifier := &recordingNotifier{}
	deps := appinv.EngineDeps{
		TxRunner: store,
		Lookups:  store,
		Notifier: notifier,
		Logger:   zerolog.Nop(),
	}
	strict := false
	for _, o := range opts {
		o(&deps, &strict)
	}
	deps.Recorder = appinv.NewRecorder(store.TransactionLog(), zerolog.Nop(), strict)
	return &harness{engine: appinv.NewEngine(deps), store: store, notifier: notifier}
}

func qty(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// candidate firma base de los escenarios: item 1, ubicación 2, estado 3, sloc 4.
func candidate() entity.InventoryRecord {
	return entity.InventoryRecord{ItemTypeID: 1, LocationID: 2, StatusID: 3, SlocID: 4}
}

func (h *harness) seed(t *testing.T, rec entity.InventoryRecord) *entity.InventoryRecord {
	t.Helper()
	return h.store.Seed(&rec)
}

func (h *harness) get(t *testing.T, id int64) *entity.InventoryRecord {
	t.Helper()
	for _, r := range h.store.Records() {
		if r.ID == id {
			return r
		}
	}
	return nil
}

func requireQty(t *testing.T, expected int64, actual decimal.Decimal) {
	t.Helper()
	require.True(t, actual.Equal(qty(expected)), "cantidad esperada %d, obtenida %s", expected, actual)
}
