package inventory

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/field-inventory/internal/domain"
	"github.com/jhoicas/field-inventory/internal/domain/entity"
	domaininv "github.com/jhoicas/field-inventory/internal/domain/inventory"
	"github.com/jhoicas/field-inventory/internal/domain/repository"
)

// Mutation describe lo que cambió para que el Recorder arme la fila de auditoría.
// Before nil = creación; After nil = eliminación.
type Mutation struct {
	Action          string
	TransactionType string
	InventoryID     *int64
	Before          *entity.InventoryRecord
	After           *entity.InventoryRecord
	Quantity        decimal.Decimal
	OldQuantity     *decimal.Decimal
	Notes           string
}

// Recorder construye y anexa registros de auditoría desnormalizados.
//
// En modo por defecto la escritura ocurre después del commit y un fallo solo se registra en el log:
// la operación de negocio no se revierte. Con strict=true se escribe dentro de la transacción
// de negocio y un fallo la aborta.
type Recorder struct {
	repo      repository.TransactionRepository
	log       zerolog.Logger
	strict    bool
	sessionID string
	now       func() time.Time
}

// NewRecorder construye el recorder. repo es el repositorio fuera de transacción (pool).
func NewRecorder(repo repository.TransactionRepository, log zerolog.Logger, strict bool) *Recorder {
	return &Recorder{
		repo:      repo,
		log:       log,
		strict:    strict,
		sessionID: uuid.NewString(),
		now:       time.Now,
	}
}

// Strict indica si la auditoría es obligatoria (dentro de la transacción).
func (r *Recorder) Strict() bool { return r.strict }

// stateSnapshot forma serializada de before_state / after_state.
type stateSnapshot struct {
	ID                 int64           `json:"id"`
	ItemTypeID         int64           `json:"item_type_id"`
	ItemType           string          `json:"item_type,omitempty"`
	LocationID         int64           `json:"location_id"`
	Location           string          `json:"location,omitempty"`
	StatusID           int64           `json:"status_id"`
	Status             string          `json:"status,omitempty"`
	SlocID             int64           `json:"sloc_id"`
	Sloc               string          `json:"sloc,omitempty"`
	AssignedCrewID     *int64          `json:"assigned_crew_id"`
	Crew               string          `json:"crew,omitempty"`
	AreaID             *int64          `json:"area_id"`
	Area               string          `json:"area,omitempty"`
	Quantity           decimal.Decimal `json:"quantity"`
	MfgrSerialNumber   string          `json:"mfgr_serial_number,omitempty"`
	TilsonSerialNumber string          `json:"tilson_serial_number,omitempty"`
}

func marshalState(snap domaininv.Snapshot, rec *entity.InventoryRecord) []byte {
	if rec == nil {
		return nil
	}
	n := snap.NamesFor(rec)
	b, err := json.Marshal(stateSnapshot{
		ID:                 rec.ID,
		ItemTypeID:         rec.ItemTypeID,
		ItemType:           n.ItemType,
		LocationID:         rec.LocationID,
		Location:           n.Location,
		StatusID:           rec.StatusID,
		Status:             n.Status,
		SlocID:             rec.SlocID,
		Sloc:               n.Sloc,
		AssignedCrewID:     rec.AssignedCrewID,
		Crew:               n.Crew,
		AreaID:             rec.AreaID,
		Area:               n.Area,
		Quantity:           rec.Quantity,
		MfgrSerialNumber:   rec.MfgrSerialNumber,
		TilsonSerialNumber: rec.TilsonSerialNumber,
	})
	if err != nil {
		return nil
	}
	return b
}

// Build arma la fila de auditoría sin persistirla.
func (r *Recorder) Build(ctx context.Context, lookups *entity.Lookups, m Mutation) *entity.TransactionRecord {
	snap := domaininv.NewSnapshot(lookups)
	actor := ActorFromContext(ctx)
	sessionID := actor.SessionID
	if sessionID == "" {
		sessionID = r.sessionID
	}
	now := r.now()

	// Los nombres "actuales" salen del estado posterior; si se eliminó, del anterior.
	current := m.After
	if current == nil {
		current = m.Before
	}
	cur := snap.NamesFor(current)
	old := snap.NamesFor(m.Before)

	tx := &entity.TransactionRecord{
		InventoryID:     entity.CloneID(m.InventoryID),
		TransactionType: m.TransactionType,
		Action:          m.Action,
		ClientName:      cur.Client,
		MarketName:      cur.Market,
		SlocName:        cur.Sloc,
		ItemTypeName:    cur.ItemType,
		CategoryName:    cur.Category,
		LocationName:    cur.Location,
		OldLocationName: old.Location,
		StatusName:      cur.Status,
		OldStatusName:   old.Status,
		CrewName:        cur.Crew,
		OldCrewName:     old.Crew,
		AreaName:        cur.Area,
		OldAreaName:     old.Area,
		Quantity:        m.Quantity,
		OldQuantity:     m.OldQuantity,
		BeforeState:     marshalState(snap, m.Before),
		AfterState:      marshalState(snap, m.After),
		UserID:          actor.UserID,
		UserEmail:       actor.Email,
		SessionID:       sessionID,
		DateTime:        now.Local().Format("2006-01-02 15:04:05"),
		Notes:           m.Notes,
		CreatedAt:       now,
	}
	if current != nil {
		tx.MfgrSerialNumber = current.MfgrSerialNumber
		tx.TilsonSerialNumber = current.TilsonSerialNumber
	}
	return tx
}

// Record construye y anexa la fila usando repo (nil = repositorio propio del recorder).
// Devuelve el id asignado.
func (r *Recorder) Record(ctx context.Context, repo repository.TransactionRepository, lookups *entity.Lookups, m Mutation) (int64, error) {
	if repo == nil {
		repo = r.repo
	}
	tx := r.Build(ctx, lookups, m)
	if err := repo.Create(ctx, tx); err != nil {
		return 0, domain.Translate(err)
	}
	return tx.ID, nil
}

// RecordBestEffort escribe fuera de la transacción de negocio; un fallo se registra y se ignora.
func (r *Recorder) RecordBestEffort(ctx context.Context, lookups *entity.Lookups, m Mutation) *int64 {
	id, err := r.Record(ctx, nil, lookups, m)
	if err != nil {
		ev := r.log.Error().Err(err).Str("action", m.Action)
		if m.InventoryID != nil {
			ev = ev.Int64("inventory_id", *m.InventoryID)
		}
		ev.Msg("no se pudo registrar la transacción de auditoría")
		return nil
	}
	return &id
}
