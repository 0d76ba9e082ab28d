package dto

// Límites de paginación de los listados del inventario.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// PageRequest ventana de un listado (registros o historial de auditoría).
type PageRequest struct {
	Limit  int
	Offset int
}

// NewPageRequest normaliza limit/offset recibidos por query: limit fuera de (0, MaxLimit] usa el
// default o el máximo, offset negativo vale cero.
func NewPageRequest(limit, offset int) PageRequest {
	switch {
	case limit <= 0:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return PageRequest{Limit: limit, Offset: offset}
}

// PageResponse ventana aplicada, devuelta junto a los items.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ErrorResponse cuerpo de error HTTP; Code es el código de la taxonomía de errores (ej. OVER_ALLOCATION).
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
