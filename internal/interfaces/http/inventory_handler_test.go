package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/field-inventory/internal/application/dto"
	"github.com/jhoicas/field-inventory/internal/application/inventory"
	"github.com/jhoicas/field-inventory/internal/domain/entity"
	"github.com/jhoicas/field-inventory/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/field-inventory/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	stReceived  int64 = 1
	stAvailable int64 = 2
	locBodega   int64 = 10
	slocNorte   int64 = 4
	areaSiete   int64 = 7
)

func handlerLookups() *entity.Lookups {
	return &entity.Lookups{
		Slocs:    []entity.Sloc{{ID: slocNorte, Name: "SLOC Norte"}},
		Crews:    []entity.Crew{{ID: 5, SlocID: slocNorte, Name: "Cuadrilla A"}},
		Areas:    []entity.Area{{ID: areaSiete, SlocID: slocNorte, Name: "Zona 7"}},
		Statuses: []entity.Status{{ID: stReceived, Name: "Received"}, {ID: stAvailable, Name: "Available"}},
		LocationTypes: []entity.LocationType{
			{ID: 1, Name: "SLOC"},
		},
		Locations: []entity.Location{{ID: locBodega, Name: "Bodega", LocationTypeID: 1}},
		ItemTypes: []entity.ItemType{{ID: 1, Name: "Cable 144F"}},
		ActionTypes: []entity.ActionType{
			{ID: 1, Name: entity.ActionInspect},
		},
		ActionStatuses: []entity.ActionStatus{{ActionID: 1, StatusID: stReceived}},
	}
}

type apiHarness struct {
	app   *fiber.App
	store *memory.Store
	token string
}

func newAPIHarness(t *testing.T) *apiHarness {
	t.Helper()
	store := memory.NewStore(handlerLookups())
	engine := inventory.NewEngine(inventory.EngineDeps{
		TxRunner: store,
		Lookups:  store,
		Recorder: inventory.NewRecorder(store.TransactionLog(), zerolog.Nop(), false),
		Logger:   zerolog.Nop(),
	})
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Engine:    engine,
		Lookups:   store,
		JWTSecret: testJWTSecret,
		Logger:    zerolog.Nop(),
	})
	return &apiHarness{app: app, store: store, token: bearer(t)}
}

func (h *apiHarness) seed(status int64, q int64) *entity.InventoryRecord {
	return h.store.Seed(&entity.InventoryRecord{
		ItemTypeID: 1, LocationID: locBodega, StatusID: status, SlocID: slocNorte,
		Quantity: decimal.NewFromInt(q),
	})
}

func (h *apiHarness) do(t *testing.T, method, path string, body interface{}) *http.Response {
	t.Helper()
	var req *http.Request
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("Authorization", h.token)
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Rutas públicas y autenticación
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_Health(t *testing.T) {
	h := newAPIHarness(t)
	resp, err := h.app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_SinToken_Retorna401(t *testing.T) {
	h := newAPIHarness(t)
	resp, err := h.app.Test(httptest.NewRequest(http.MethodGet, "/api/inventory/records", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Lecturas
// ──────────────────────────────────────────────────────────────────────────────

func TestInventoryHandler_GetRecord(t *testing.T) {
	h := newAPIHarness(t)
	rec := h.seed(stReceived, 10)

	resp := h.do(t, http.MethodGet, "/api/inventory/records/1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[dto.InventoryRecordDTO](t, resp)
	assert.Equal(t, rec.ID, got.ID)
	assert.True(t, got.Quantity.Equal(decimal.NewFromInt(10)))
}

func TestInventoryHandler_GetRecord_NoExiste_Retorna404(t *testing.T) {
	h := newAPIHarness(t)

	resp := h.do(t, http.MethodGet, "/api/inventory/records/99", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "NOT_FOUND", body.Code)
}

func TestInventoryHandler_GetRecord_IDInvalido_Retorna400(t *testing.T) {
	h := newAPIHarness(t)

	resp := h.do(t, http.MethodGet, "/api/inventory/records/abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestInventoryHandler_ListRecords_FiltraPorEstado(t *testing.T) {
	h := newAPIHarness(t)
	h.seed(stReceived, 10)
	h.store.Seed(&entity.InventoryRecord{ItemTypeID: 1, LocationID: locBodega, StatusID: stAvailable, SlocID: slocNorte, Quantity: decimal.NewFromInt(3)})

	resp := h.do(t, http.MethodGet, "/api/inventory/records?status_id=2", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[struct {
		Items []dto.InventoryRecordDTO `json:"items"`
		Page  dto.PageResponse         `json:"page"`
	}](t, resp)
	require.Len(t, body.Items, 1)
	assert.Equal(t, stAvailable, body.Items[0].StatusID)
	assert.Equal(t, 20, body.Page.Limit)
}

func TestInventoryHandler_AvailableActions(t *testing.T) {
	h := newAPIHarness(t)
	h.seed(stReceived, 10)

	resp := h.do(t, http.MethodGet, "/api/inventory/records/1/actions", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	actions := decode[[]entity.ActionType](t, resp)
	require.Len(t, actions, 1)
	assert.Equal(t, entity.ActionInspect, actions[0].Name)
}

func TestLookupHandler_GetYRefresh(t *testing.T) {
	h := newAPIHarness(t)

	resp := h.do(t, http.MethodGet, "/api/inventory/lookups", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	l := decode[entity.Lookups](t, resp)
	assert.Len(t, l.Statuses, 2)

	resp = h.do(t, http.MethodPost, "/api/inventory/lookups/refresh", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Acciones
// ──────────────────────────────────────────────────────────────────────────────

func TestInventoryHandler_Inspect_OK_RegistraTransaccion(t *testing.T) {
	h := newAPIHarness(t)
	h.seed(stReceived, 10)

	resp := h.do(t, http.MethodPost, "/api/inventory/records/1/inspect", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[dto.ActionResponse](t, resp)
	assert.Equal(t, entity.ActionInspect, out.Action)
	assert.Equal(t, inventory.OutcomeUpdated, out.Outcome)
	assert.Equal(t, inventory.PathLocal, out.Path)
	require.NotNil(t, out.Record)
	assert.Equal(t, stAvailable, out.Record.StatusID)
	require.NotNil(t, out.TransactionID)

	resp = h.do(t, http.MethodGet, "/api/inventory/records/1/transactions", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	txs := decode[[]dto.TransactionDTO](t, resp)
	require.Len(t, txs, 1)
	assert.Equal(t, "Available", txs[0].StatusName)
	assert.Equal(t, "Received", txs[0].OldStatusName)
	assert.Equal(t, testUserID, txs[0].UserID, "el actor del token queda en la auditoría")
}

func TestInventoryHandler_Inspect_TransicionInvalida_Retorna409(t *testing.T) {
	h := newAPIHarness(t)
	h.seed(stAvailable, 10)

	resp := h.do(t, http.MethodPost, "/api/inventory/records/1/inspect", nil)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "INVALID_STATUS_TRANSITION", body.Code)
}

func TestInventoryHandler_Reject_EstadoNoConfigurado_Retorna422(t *testing.T) {
	h := newAPIHarness(t)
	h.seed(stReceived, 10)

	resp := h.do(t, http.MethodPost, "/api/inventory/records/1/reject", nil)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "STATUS_MISSING", body.Code)
}

func TestInventoryHandler_ApplyDelta_CreaYConsolida(t *testing.T) {
	h := newAPIHarness(t)
	req := dto.DeltaRequest{
		LocationID: locBodega, ItemTypeID: 1, StatusID: stReceived, SlocID: slocNorte,
		Quantity: decimal.NewFromInt(4), Operation: "add",
	}

	resp := h.do(t, http.MethodPost, "/api/inventory/records/delta", req)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	first := decode[dto.ActionResponse](t, resp)
	assert.Equal(t, inventory.OutcomeCreated, first.Outcome)

	resp = h.do(t, http.MethodPost, "/api/inventory/records/delta", req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	second := decode[dto.ActionResponse](t, resp)
	require.NotNil(t, second.Record)
	assert.Equal(t, first.Record.ID, second.Record.ID, "la misma firma se suma a la misma fila")
	assert.True(t, second.Record.Quantity.Equal(decimal.NewFromInt(8)))
	assert.Len(t, h.store.Records(), 1)
}

func TestInventoryHandler_ApplyDelta_SinStock_Retorna409(t *testing.T) {
	h := newAPIHarness(t)

	resp := h.do(t, http.MethodPost, "/api/inventory/records/delta", dto.DeltaRequest{
		LocationID: locBodega, ItemTypeID: 1, StatusID: stReceived, SlocID: slocNorte,
		Quantity: decimal.NewFromInt(1), Operation: "subtract",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "NO_STOCK", body.Code)
}

func TestInventoryHandler_ApplyDelta_FaltanCampos_Retorna400(t *testing.T) {
	h := newAPIHarness(t)

	resp := h.do(t, http.MethodPost, "/api/inventory/records/delta", dto.DeltaRequest{
		Quantity: decimal.NewFromInt(1), Operation: "add",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestInventoryHandler_Adjust_CantidadNegativa_Retorna400(t *testing.T) {
	h := newAPIHarness(t)
	h.seed(stReceived, 10)

	resp := h.do(t, http.MethodPost, "/api/inventory/records/1/adjust", dto.AdjustRequest{Quantity: decimal.NewFromInt(-1)})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "INVALID_QUANTITY", body.Code)
}

func TestInventoryHandler_Allocate_ExcedeCantidad_Retorna409(t *testing.T) {
	h := newAPIHarness(t)
	h.seed(stAvailable, 5)

	resp := h.do(t, http.MethodPost, "/api/inventory/records/1/allocate", dto.AllocateRequest{
		Allocations: []dto.AllocationItem{{AreaID: areaSiete, Quantity: decimal.NewFromInt(6)}},
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "OVER_ALLOCATION", body.Code)
	requireStoreQty(t, h.store, 1, 5)
}

func TestInventoryHandler_Reserve_SinCrew_Retorna400(t *testing.T) {
	h := newAPIHarness(t)
	h.seed(stAvailable, 5)

	resp := h.do(t, http.MethodPost, "/api/inventory/records/1/reserve", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestInventoryHandler_Remove(t *testing.T) {
	h := newAPIHarness(t)
	h.seed(stAvailable, 5)

	resp := h.do(t, http.MethodPost, "/api/inventory/records/1/remove", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[dto.ActionResponse](t, resp)
	assert.Equal(t, inventory.OutcomeDeleted, out.Outcome)
	assert.Equal(t, []int64{1}, out.DeletedIDs)
	assert.Empty(t, h.store.Records())
}

func TestInventoryHandler_Integrity_DetectaYRepara(t *testing.T) {
	h := newAPIHarness(t)
	h.seed(stAvailable, 5)
	h.seed(stAvailable, 3)

	resp := h.do(t, http.MethodGet, "/api/inventory/integrity/duplicates", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	report := decode[dto.IntegrityReportDTO](t, resp)
	require.Len(t, report.Duplicates, 1)
	assert.Equal(t, []int64{1, 2}, report.Duplicates[0].RecordIDs)

	resp = h.do(t, http.MethodPost, "/api/inventory/integrity/repair", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	repaired := decode[dto.IntegrityReportDTO](t, resp)
	require.Len(t, repaired.Repaired, 1)
	assert.Equal(t, int64(1), repaired.Repaired[0].TargetID)
	requireStoreQty(t, h.store, 1, 8)
}

func requireStoreQty(t *testing.T, store *memory.Store, id, expected int64) {
	t.Helper()
	for _, r := range store.Records() {
		if r.ID == id {
			assert.True(t, r.Quantity.Equal(decimal.NewFromInt(expected)), "cantidad esperada %d, obtenida %s", expected, r.Quantity)
			return
		}
	}
	t.Fatalf("registro %d no encontrado", id)
}
