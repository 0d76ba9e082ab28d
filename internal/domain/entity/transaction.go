package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de transacción del log de auditoría.
const (
	TransactionTypeInventory   = "Inventory"
	TransactionTypeStateChange = "State Change"
	TransactionTypeQuantity    = "Quantity"
	TransactionTypeMaintenance = "Maintenance"
)

// TransactionRecord fila de auditoría de solo-anexar. Los nombres se desnormalizan al momento
// de la mutación para que el historial siga siendo legible si la entidad se renombra o borra.
type TransactionRecord struct {
	ID                 int64
	InventoryID        *int64
	TransactionType    string
	Action             string
	ClientName         string
	MarketName         string
	SlocName           string
	ItemTypeName       string
	CategoryName       string
	LocationName       string
	OldLocationName    string
	StatusName         string
	OldStatusName      string
	CrewName           string
	OldCrewName        string
	AreaName           string
	OldAreaName        string
	MfgrSerialNumber   string
	TilsonSerialNumber string
	Quantity           decimal.Decimal
	OldQuantity        *decimal.Decimal
	BeforeState        []byte
	AfterState         []byte
	UserID             string
	UserEmail          string
	SessionID          string
	DateTime           string
	Notes              string
	CreatedAt          time.Time
}
