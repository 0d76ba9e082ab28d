package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// InventoryRecord representa una cantidad de un tipo de ítem en un lugar y condición.
// Los registros a granel (sin serial) con la misma firma se consolidan en una sola fila.
type InventoryRecord struct {
	ID                 int64
	LocationID         int64
	ItemTypeID         int64
	StatusID           int64
	SlocID             int64
	AssignedCrewID     *int64
	AreaID             *int64
	Quantity           decimal.Decimal
	MfgrSerialNumber   string
	TilsonSerialNumber string
	Notes              string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsSerialized indica si el registro lleva número de serie (nunca se consolida).
func (r *InventoryRecord) IsSerialized() bool {
	return strings.TrimSpace(r.MfgrSerialNumber) != "" || strings.TrimSpace(r.TilsonSerialNumber) != ""
}

// Signature devuelve la firma de equivalencia del registro.
func (r *InventoryRecord) Signature() Signature {
	return Signature{
		LocationID:     r.LocationID,
		ItemTypeID:     r.ItemTypeID,
		StatusID:       r.StatusID,
		SlocID:         r.SlocID,
		AssignedCrewID: CloneID(r.AssignedCrewID),
		AreaID:         CloneID(r.AreaID),
	}
}

// Clone copia profunda (los punteros opcionales no se comparten).
func (r *InventoryRecord) Clone() *InventoryRecord {
	if r == nil {
		return nil
	}
	c := *r
	c.AssignedCrewID = CloneID(r.AssignedCrewID)
	c.AreaID = CloneID(r.AreaID)
	return &c
}

// Signature agrupa los campos que definen "el mismo stock".
// AssignedCrewID y AreaID son opcionales: nil solo coincide con nil.
type Signature struct {
	LocationID     int64
	ItemTypeID     int64
	StatusID       int64
	SlocID         int64
	AssignedCrewID *int64
	AreaID         *int64
}

// Key devuelve una representación estable de la firma (locks, logs).
func (s Signature) Key() string {
	return fmt.Sprintf("loc=%d|item=%d|status=%d|sloc=%d|crew=%s|area=%s",
		s.LocationID, s.ItemTypeID, s.StatusID, s.SlocID, idKey(s.AssignedCrewID), idKey(s.AreaID))
}

func idKey(id *int64) string {
	if id == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *id)
}

// ID devuelve un puntero a v (atajo para campos opcionales).
func ID(v int64) *int64 { return &v }

// CloneID copia un id opcional.
func CloneID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

// SameID compara ids opcionales: nil solo es igual a nil.
func SameID(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// OptionalID describe la actualización de un id opcional: Set indica que el campo se toca;
// Value nil con Set=true lo limpia.
type OptionalID struct {
	Set   bool
	Value *int64
}

// SetID marca el campo para asignar v.
func SetID(v int64) OptionalID { return OptionalID{Set: true, Value: &v} }

// ClearID marca el campo para limpiarlo.
func ClearID() OptionalID { return OptionalID{Set: true} }

// InventoryPatch cambios de campos sobre un registro existente (nil = sin cambio).
type InventoryPatch struct {
	LocationID         *int64
	ItemTypeID         *int64
	StatusID           *int64
	SlocID             *int64
	AssignedCrewID     OptionalID
	AreaID             OptionalID
	Quantity           *decimal.Decimal
	MfgrSerialNumber   *string
	TilsonSerialNumber *string
	Notes              *string
}

// TouchesSignature indica si el parche modifica alguno de los campos de equivalencia.
func (p InventoryPatch) TouchesSignature() bool {
	return p.LocationID != nil || p.ItemTypeID != nil || p.StatusID != nil || p.SlocID != nil ||
		p.AssignedCrewID.Set || p.AreaID.Set
}

// IsEmpty indica que el parche no cambia nada.
func (p InventoryPatch) IsEmpty() bool {
	return !p.TouchesSignature() && p.Quantity == nil && p.MfgrSerialNumber == nil &&
		p.TilsonSerialNumber == nil && p.Notes == nil
}

// Apply devuelve una copia de r con el parche aplicado (no persiste nada).
func (p InventoryPatch) Apply(r *InventoryRecord) *InventoryRecord {
	out := r.Clone()
	if p.LocationID != nil {
		out.LocationID = *p.LocationID
	}
	if p.ItemTypeID != nil {
		out.ItemTypeID = *p.ItemTypeID
	}
	if p.StatusID != nil {
		out.StatusID = *p.StatusID
	}
	if p.SlocID != nil {
		out.SlocID = *p.SlocID
	}
	if p.AssignedCrewID.Set {
		out.AssignedCrewID = CloneID(p.AssignedCrewID.Value)
	}
	if p.AreaID.Set {
		out.AreaID = CloneID(p.AreaID.Value)
	}
	if p.Quantity != nil {
		out.Quantity = *p.Quantity
	}
	if p.MfgrSerialNumber != nil {
		out.MfgrSerialNumber = *p.MfgrSerialNumber
	}
	if p.TilsonSerialNumber != nil {
		out.TilsonSerialNumber = *p.TilsonSerialNumber
	}
	if p.Notes != nil {
		out.Notes = *p.Notes
	}
	return out
}

// InventoryFilter filtros de igualdad para listados (nil = sin filtro).
type InventoryFilter struct {
	SlocID     *int64
	LocationID *int64
	ItemTypeID *int64
	StatusID   *int64
	Limit      int
	Offset     int
}
