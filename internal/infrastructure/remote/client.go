// Package remote implementa la ruta de funciones del servidor (Issue, Adjust, Receive) sobre HTTP.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appinv "github.com/jhoicas/field-inventory/internal/application/inventory"
	"github.com/jhoicas/field-inventory/internal/domain"
	"github.com/jhoicas/field-inventory/internal/domain/entity"
	"github.com/jhoicas/field-inventory/pkg/config"
)

// Verificar en tiempo de compilación que Client implementa RemoteFunctions.
var _ appinv.RemoteFunctions = (*Client)(nil)

// Nombres de las funciones remotas.
const (
	fnIssue   = "inventory-issue"
	fnAdjust  = "inventory-adjust"
	fnReceive = "inventory-receive"
)

// Client llama a las funciones del servidor. Los errores de negocio llegan como código de la
// taxonomía y se devuelven como error de dominio; cualquier otro fallo se reporta como
// appinv.ErrRemoteUnavailable para que el motor use la ruta local.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient construye el cliente.
func NewClient(cfg config.RemoteConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    cfg.URL,
		apiKey:     cfg.Key,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ── Protocolo ────────────────────────────────────────────────────────────────

type wireRecord struct {
	ID                 int64           `json:"id"`
	LocationID         int64           `json:"location_id"`
	ItemTypeID         int64           `json:"item_type_id"`
	StatusID           int64           `json:"status_id"`
	SlocID             int64           `json:"sloc_id"`
	AssignedCrewID     *int64          `json:"assigned_crew_id"`
	AreaID             *int64          `json:"area_id"`
	Quantity           decimal.Decimal `json:"quantity"`
	MfgrSerialNumber   string          `json:"mfgr_serial_number,omitempty"`
	TilsonSerialNumber string          `json:"tilson_serial_number,omitempty"`
	Notes              string          `json:"notes,omitempty"`
}

func toWire(r entity.InventoryRecord) wireRecord {
	return wireRecord{
		ID: r.ID, LocationID: r.LocationID, ItemTypeID: r.ItemTypeID, StatusID: r.StatusID, SlocID: r.SlocID,
		AssignedCrewID: r.AssignedCrewID, AreaID: r.AreaID, Quantity: r.Quantity,
		MfgrSerialNumber: r.MfgrSerialNumber, TilsonSerialNumber: r.TilsonSerialNumber, Notes: r.Notes,
	}
}

func (w wireRecord) entity() *entity.InventoryRecord {
	return &entity.InventoryRecord{
		ID: w.ID, LocationID: w.LocationID, ItemTypeID: w.ItemTypeID, StatusID: w.StatusID, SlocID: w.SlocID,
		AssignedCrewID: w.AssignedCrewID, AreaID: w.AreaID, Quantity: w.Quantity,
		MfgrSerialNumber: w.MfgrSerialNumber, TilsonSerialNumber: w.TilsonSerialNumber, Notes: w.Notes,
	}
}

type issueRequest struct {
	InventoryID int64  `json:"inventory_id"`
	CrewID      *int64 `json:"crew_id,omitempty"`
}

type adjustRequest struct {
	InventoryID int64           `json:"inventory_id"`
	Quantity    decimal.Decimal `json:"quantity"`
}

type receiveRequest struct {
	Candidate wireRecord      `json:"candidate"`
	Quantity  decimal.Decimal `json:"quantity"`
}

type response struct {
	Record        *wireRecord `json:"record"`
	Outcome       string      `json:"outcome,omitempty"`
	TransactionID *int64      `json:"transaction_id,omitempty"`
	Error         *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ── Implementación del puerto ────────────────────────────────────────────────

// Issue ejecuta la entrega a cuadrilla en el servidor.
func (c *Client) Issue(ctx context.Context, inventoryID int64, crewID *int64) (*appinv.RemoteResult, error) {
	return c.call(ctx, fnIssue, issueRequest{InventoryID: inventoryID, CrewID: crewID})
}

// Adjust fija la cantidad en el servidor.
func (c *Client) Adjust(ctx context.Context, inventoryID int64, quantity decimal.Decimal) (*appinv.RemoteResult, error) {
	return c.call(ctx, fnAdjust, adjustRequest{InventoryID: inventoryID, Quantity: quantity})
}

// Receive suma stock en el servidor (consolidando si corresponde).
func (c *Client) Receive(ctx context.Context, candidate entity.InventoryRecord, quantity decimal.Decimal) (*appinv.RemoteResult, error) {
	return c.call(ctx, fnReceive, receiveRequest{Candidate: toWire(candidate), Quantity: quantity})
}

func (c *Client) call(ctx context.Context, fn string, payload any) (*appinv.RemoteResult, error) {
	if c.baseURL == "" {
		return nil, appinv.ErrRemoteUnavailable
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("remote %s: serializar request: %w", fn, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+fn, bytes.NewReader(body))
	if err != nil {
		return nil, unavailable(fn, err)
	}
	req.Header.Set("content-type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	actor := appinv.ActorFromContext(ctx)
	req.Header.Set("X-User-ID", actor.UserID)
	if actor.SessionID != "" {
		req.Header.Set("X-Session-ID", actor.SessionID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, unavailable(fn, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 256*1024))
	if err != nil {
		return nil, unavailable(fn, err)
	}
	var out response
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, unavailable(fn, fmt.Errorf("HTTP %d: respuesta no es JSON", resp.StatusCode))
	}
	if out.Error != nil {
		if sentinel := domain.FromCode(out.Error.Code); sentinel != nil {
			return nil, fmt.Errorf("%w: %s", sentinel, out.Error.Message)
		}
		return nil, unavailable(fn, fmt.Errorf("HTTP %d: %s %s", resp.StatusCode, out.Error.Code, out.Error.Message))
	}
	if resp.StatusCode >= http.StatusMultipleChoices || out.Record == nil {
		return nil, unavailable(fn, fmt.Errorf("HTTP %d sin registro", resp.StatusCode))
	}
	switch out.Outcome {
	case "", appinv.OutcomeCreated, appinv.OutcomeUpdated, appinv.OutcomeConsolidated, appinv.OutcomeDeleted:
	default:
		return nil, unavailable(fn, fmt.Errorf("resultado desconocido %q", out.Outcome))
	}
	return &appinv.RemoteResult{Record: out.Record.entity(), Outcome: out.Outcome, TransactionID: out.TransactionID}, nil
}

func unavailable(fn string, cause error) error {
	return fmt.Errorf("remote %s: %w", fn, errors.Join(appinv.ErrRemoteUnavailable, cause))
}
