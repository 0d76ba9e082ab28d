package entity

// Nombres de acciones del motor de transiciones.
const (
	ActionAdjust           = "Adjust"
	ActionRemove           = "Remove"
	ActionIssue            = "Issue"
	ActionReturnAsReserved = "Return Material As Reserved"
	ActionAssignArea       = "Assign Area"
	ActionInspect          = "Inspect"
	ActionReserve          = "Reserve"
	ActionUnreserve        = "Unreserve"
	ActionFieldInstall     = "Field Install"
	ActionAllocate         = "Allocate"
	ActionMove             = "Move"
	ActionReject           = "Reject"
	ActionReturnMaterial   = "Return Material"

	ActionReceive     = "Receive"
	ActionSubtract    = "Subtract"
	ActionUpdate      = "Update"
	ActionConsolidate = "Consolidate"
)

// ActionType definición de una acción ofrecible sobre un registro.
type ActionType struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	ButtonClass     string `json:"button_class"`
	AllowsSignature bool   `json:"allows_signature"`
}

// ActionStatus fila de la tabla de adyacencia estado → acción.
type ActionStatus struct {
	ActionID int64 `json:"action_id"`
	StatusID int64 `json:"status_id"`
}

// Actor identidad que ejecuta una mutación (para auditoría).
type Actor struct {
	UserID    string
	Email     string
	SessionID string
}

// SystemActor se usa cuando no hay usuario autenticado.
var SystemActor = Actor{UserID: "system", Email: "system"}
