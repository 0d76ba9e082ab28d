package entity

import "github.com/shopspring/decimal"

// Nombres de estados, ubicaciones y tipos de ubicación que el motor necesita.
const (
	StatusReceived  = "Received"
	StatusAvailable = "Available"
	StatusIssued    = "Issued"
	StatusInstalled = "Installed"
	StatusRejected  = "Rejected"
	StatusRemoved   = "Removed"

	LocationTypeSLOC      = "SLOC"
	LocationTypeWithCrew  = "With Crew"
	LocationTypeInstalled = "Installed"

	LocationWithCrew  = "With Crew"
	LocationInstalled = "Installed"
)

// Client cliente (raíz de la jerarquía cliente → mercado → SLOC → área/cuadrilla).
type Client struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Market mercado de un cliente.
type Market struct {
	ID       int64  `json:"id"`
	ClientID int64  `json:"client_id"`
	Name     string `json:"name"`
}

// Sloc ubicación de almacenamiento (bodega) de un mercado.
type Sloc struct {
	ID       int64  `json:"id"`
	MarketID int64  `json:"market_id"`
	Name     string `json:"name"`
}

// Crew cuadrilla de campo.
type Crew struct {
	ID     int64  `json:"id"`
	SlocID int64  `json:"sloc_id"`
	Name   string `json:"name"`
}

// Area área de trabajo dentro de un SLOC.
type Area struct {
	ID     int64  `json:"id"`
	SlocID int64  `json:"sloc_id"`
	Name   string `json:"name"`
}

// Status estado del inventario (enumeración cerrada, se busca por nombre).
type Status struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// LocationType clasifica ubicaciones (SLOC, With Crew, Installed, Outgoing, Field...).
type LocationType struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Location lugar donde puede residir un registro de inventario.
type Location struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	LocationTypeID int64  `json:"location_type_id"`
}

// ItemType definición de catálogo (solo lectura para el motor).
type ItemType struct {
	ID                   int64           `json:"id"`
	Name                 string          `json:"name"`
	Manufacturer         string          `json:"manufacturer"`
	PartNumber           string          `json:"part_number"`
	UnitsPerPackage      decimal.Decimal `json:"units_per_package"`
	CategoryID           int64           `json:"category_id"`
	UnitOfMeasureID      int64           `json:"unit_of_measure_id"`
	ProviderID           int64           `json:"provider_id"`
	InventoryTypeID      int64           `json:"inventory_type_id"`
	LowQuantityThreshold decimal.Decimal `json:"low_quantity_threshold"`
}

// Category categoría de ítem.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// UnitOfMeasure unidad de medida.
type UnitOfMeasure struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Provider proveedor.
type Provider struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// InventoryType tipo de inventario (serializado, a granel...).
type InventoryType struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Lookups instantánea de solo lectura de las tablas de referencia.
// Se obtiene una vez por operación y nunca se modifica dentro del motor.
type Lookups struct {
	Clients        []Client        `json:"clients"`
	Markets        []Market        `json:"markets"`
	Slocs          []Sloc          `json:"slocs"`
	Crews          []Crew          `json:"crews"`
	Areas          []Area          `json:"areas"`
	Statuses       []Status        `json:"statuses"`
	LocationTypes  []LocationType  `json:"location_types"`
	Locations      []Location      `json:"locations"`
	ItemTypes      []ItemType      `json:"item_types"`
	Categories     []Category      `json:"categories"`
	UnitsOfMeasure []UnitOfMeasure `json:"units_of_measure"`
	Providers      []Provider      `json:"providers"`
	InventoryTypes []InventoryType `json:"inventory_types"`
	ActionTypes    []ActionType    `json:"action_types"`
	ActionStatuses []ActionStatus  `json:"action_statuses"`
}
