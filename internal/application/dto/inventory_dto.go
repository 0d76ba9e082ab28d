package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryRecordDTO registro de inventario en respuestas.
type InventoryRecordDTO struct {
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
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// ActionResponse resultado de cualquier acción sobre inventario.
type ActionResponse struct {
	Action           string                `json:"action"`
	Outcome          string                `json:"outcome"` // created | updated | consolidated | deleted
	Path             string                `json:"path"`    // local | remote
	Record           *InventoryRecordDTO   `json:"record,omitempty"`
	Created          []*InventoryRecordDTO `json:"created,omitempty"`
	DeletedIDs       []int64               `json:"deleted_ids,omitempty"`
	ConsolidatedFrom *int64                `json:"consolidated_from,omitempty"`
	Ambiguous        bool                  `json:"ambiguous,omitempty"`
	TransactionID    *int64                `json:"transaction_id,omitempty"`
}

// DeltaRequest body para POST /api/inventory/records/delta (recepción o descuento de stock).
type DeltaRequest struct {
	LocationID         int64           `json:"location_id"`
	ItemTypeID         int64           `json:"item_type_id"`
	StatusID           int64           `json:"status_id"`
	SlocID             int64           `json:"sloc_id"`
	AssignedCrewID     *int64          `json:"assigned_crew_id,omitempty"`
	AreaID             *int64          `json:"area_id,omitempty"`
	MfgrSerialNumber   string          `json:"mfgr_serial_number,omitempty"`
	TilsonSerialNumber string          `json:"tilson_serial_number,omitempty"`
	Notes              string          `json:"notes,omitempty"`
	Quantity           decimal.Decimal `json:"quantity"`
	Operation          string          `json:"operation"` // add | subtract
}

// PatchRecordRequest body para PATCH /api/inventory/records/:id. Los campos omitidos no cambian;
// clear_assigned_crew / clear_area limpian el campo opcional.
type PatchRecordRequest struct {
	LocationID         *int64           `json:"location_id,omitempty"`
	ItemTypeID         *int64           `json:"item_type_id,omitempty"`
	StatusID           *int64           `json:"status_id,omitempty"`
	SlocID             *int64           `json:"sloc_id,omitempty"`
	AssignedCrewID     *int64           `json:"assigned_crew_id,omitempty"`
	ClearAssignedCrew  bool             `json:"clear_assigned_crew,omitempty"`
	AreaID             *int64           `json:"area_id,omitempty"`
	ClearArea          bool             `json:"clear_area,omitempty"`
	Quantity           *decimal.Decimal `json:"quantity,omitempty"`
	MfgrSerialNumber   *string          `json:"mfgr_serial_number,omitempty"`
	TilsonSerialNumber *string          `json:"tilson_serial_number,omitempty"`
	Notes              *string          `json:"notes,omitempty"`
}

// AdjustRequest body de Adjust.
type AdjustRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
}

// CrewRequest body de Issue (crew_id opcional) y Reserve (obligatorio).
type CrewRequest struct {
	CrewID *int64 `json:"crew_id,omitempty"`
}

// SlocRequest body de Return Material As Reserved.
type SlocRequest struct {
	SlocID int64 `json:"sloc_id"`
}

// AreaRequest body de Assign Area.
type AreaRequest struct {
	AreaID int64 `json:"area_id"`
}

// LocationRequest body de Move.
type LocationRequest struct {
	LocationID int64 `json:"location_id"`
}

// AllocationItem cantidad para un área.
type AllocationItem struct {
	AreaID   int64           `json:"area_id"`
	Quantity decimal.Decimal `json:"quantity"`
}

// AllocateRequest body de Allocate.
type AllocateRequest struct {
	Allocations []AllocationItem `json:"allocations"`
}

// TransactionDTO fila de auditoría en respuestas (solo lectura).
type TransactionDTO struct {
	ID              int64            `json:"id"`
	InventoryID     *int64           `json:"inventory_id"`
	TransactionType string           `json:"transaction_type"`
	Action          string           `json:"action"`
	ClientName      string           `json:"client,omitempty"`
	MarketName      string           `json:"market,omitempty"`
	SlocName        string           `json:"sloc,omitempty"`
	ItemTypeName    string           `json:"item_type,omitempty"`
	CategoryName    string           `json:"category,omitempty"`
	LocationName    string           `json:"location,omitempty"`
	OldLocationName string           `json:"old_location,omitempty"`
	StatusName      string           `json:"status,omitempty"`
	OldStatusName   string           `json:"old_status,omitempty"`
	CrewName        string           `json:"crew,omitempty"`
	OldCrewName     string           `json:"old_crew,omitempty"`
	AreaName        string           `json:"area,omitempty"`
	OldAreaName     string           `json:"old_area,omitempty"`
	Quantity        decimal.Decimal  `json:"quantity"`
	OldQuantity     *decimal.Decimal `json:"old_quantity,omitempty"`
	UserEmail       string           `json:"user_email,omitempty"`
	UserID          string           `json:"user_id"`
	DateTime        string           `json:"date_time"`
	Notes           string           `json:"notes,omitempty"`
}

// DuplicateGroupDTO firma con más de una fila a granel.
type DuplicateGroupDTO struct {
	Signature string  `json:"signature"`
	RecordIDs []int64 `json:"record_ids"`
}

// RepairedGroupDTO firma fusionada en su registro de menor id.
type RepairedGroupDTO struct {
	Signature     string  `json:"signature"`
	TargetID      int64   `json:"target_id"`
	MergedIDs     []int64 `json:"merged_ids"`
	TransactionID *int64  `json:"transaction_id,omitempty"`
}

// IntegrityReportDTO respuesta de los endpoints de integridad.
type IntegrityReportDTO struct {
	Duplicates []DuplicateGroupDTO `json:"duplicates"`
	Repaired   []RepairedGroupDTO  `json:"repaired,omitempty"`
}
