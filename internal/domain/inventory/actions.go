package inventory

import "github.com/jhoicas/field-inventory/internal/domain/entity"

// AvailableActions filtra la tabla estado → acción y devuelve las definiciones de las acciones
// cuyo estado disparador es statusID, en el orden de actionTypes y sin duplicados.
func AvailableActions(statusID int64, actionStatuses []entity.ActionStatus, actionTypes []entity.ActionType) []entity.ActionType {
	allowed := make(map[int64]struct{})
	for _, as := range actionStatuses {
		if as.StatusID == statusID {
			allowed[as.ActionID] = struct{}{}
		}
	}
	out := make([]entity.ActionType, 0, len(allowed))
	if len(allowed) == 0 {
		return out
	}
	seen := make(map[int64]struct{}, len(allowed))
	for _, at := range actionTypes {
		if _, ok := allowed[at.ID]; !ok {
			continue
		}
		if _, dup := seen[at.ID]; dup {
			continue
		}
		seen[at.ID] = struct{}{}
		out = append(out, at)
	}
	return out
}
