package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound                = errors.New("recurso no encontrado")
	ErrInvalidInput            = errors.New("entrada inválida")
	ErrUnauthorized            = errors.New("no autorizado")
	ErrInvalidStatusTransition = errors.New("transición de estado inválida")
	ErrNegativeQuantity        = errors.New("la cantidad resultante sería negativa")
	ErrInvalidQuantity         = errors.New("cantidad inválida")
	ErrNoStock                 = errors.New("no existe stock para descontar")
	ErrNoCrewAssigned          = errors.New("no hay cuadrilla asignada")
	ErrLocationTypeMissing     = errors.New("ubicación o tipo de ubicación requerido no configurado")
	ErrStatusMissing           = errors.New("estado requerido no configurado")
	ErrOverAllocation          = errors.New("la asignación excede la cantidad disponible")
	ErrConsolidationAmbiguity  = errors.New("más de un registro equivalente para consolidar")
	ErrWrite                   = errors.New("error de escritura en el backend")
)

// taxonomy son los errores que se propagan tal cual; cualquier otro se traduce a ErrWrite.
var taxonomy = []error{
	ErrNotFound, ErrInvalidInput, ErrUnauthorized, ErrInvalidStatusTransition,
	ErrNegativeQuantity, ErrInvalidQuantity, ErrNoStock, ErrNoCrewAssigned,
	ErrLocationTypeMissing, ErrStatusMissing, ErrOverAllocation,
	ErrConsolidationAmbiguity, ErrWrite,
}

// IsDomainError indica si err pertenece a la taxonomía de dominio.
func IsDomainError(err error) bool {
	for _, t := range taxonomy {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// Translate devuelve err si es de dominio; si no, lo envuelve como ErrWrite.
// El detalle del backend queda en la cadena pero la capa HTTP nunca lo expone.
func Translate(err error) error {
	if err == nil || IsDomainError(err) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrWrite, err)
}

// ActionError agrega contexto (acción y registro) a un error de la taxonomía.
type ActionError struct {
	Action      string
	InventoryID int64
	Err         error
}

func (e *ActionError) Error() string {
	if e.InventoryID == 0 {
		return fmt.Sprintf("%s: %v", e.Action, e.Err)
	}
	return fmt.Sprintf("%s inventario %d: %v", e.Action, e.InventoryID, e.Err)
}

func (e *ActionError) Unwrap() error { return e.Err }

// Wrap construye un ActionError traduciendo errores de infraestructura. nil queda nil.
func Wrap(action string, inventoryID int64, err error) error {
	if err == nil {
		return nil
	}
	var ae *ActionError
	if errors.As(err, &ae) {
		return err
	}
	return &ActionError{Action: action, InventoryID: inventoryID, Err: Translate(err)}
}

// codes código estable de cada error de la taxonomía (respuestas HTTP y funciones remotas).
var codes = []struct {
	err  error
	code string
}{
	{ErrStatusMissing, "STATUS_MISSING"},
	{ErrLocationTypeMissing, "LOCATION_TYPE_MISSING"},
	{ErrNotFound, "NOT_FOUND"},
	{ErrInvalidInput, "INVALID_INPUT"},
	{ErrUnauthorized, "UNAUTHORIZED"},
	{ErrInvalidStatusTransition, "INVALID_STATUS_TRANSITION"},
	{ErrNegativeQuantity, "NEGATIVE_QUANTITY"},
	{ErrInvalidQuantity, "INVALID_QUANTITY"},
	{ErrNoStock, "NO_STOCK"},
	{ErrNoCrewAssigned, "NO_CREW_ASSIGNED"},
	{ErrOverAllocation, "OVER_ALLOCATION"},
	{ErrConsolidationAmbiguity, "CONSOLIDATION_AMBIGUITY"},
	{ErrWrite, "WRITE_FAILED"},
}

// Code devuelve el código estable del error. Los errores de configuración faltante se revisan
// antes que ErrNotFound porque envuelven ambos.
func Code(err error) string {
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return "INTERNAL_ERROR"
}

// FromCode devuelve el sentinel asociado a code, o nil si el código no es de la taxonomía.
func FromCode(code string) error {
	for _, c := range codes {
		if c.code == code {
			return c.err
		}
	}
	return nil
}
