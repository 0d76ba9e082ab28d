package inventory

import (
	"sort"

	"github.com/jhoicas/field-inventory/internal/domain/entity"
)

// Equivalent indica si dos firmas representan "el mismo stock".
// Los cuatro ids obligatorios deben coincidir; cuadrilla y área se comparan como valores
// opcionales, de modo que un área presente nunca coincide con un área ausente.
func Equivalent(a, b entity.Signature) bool {
	return a.LocationID == b.LocationID &&
		a.ItemTypeID == b.ItemTypeID &&
		a.StatusID == b.StatusID &&
		a.SlocID == b.SlocID &&
		entity.SameID(a.AssignedCrewID, b.AssignedCrewID) &&
		entity.SameID(a.AreaID, b.AreaID)
}

// MatchResult resultado de buscar registros equivalentes.
// Target es el de menor id; Excess contiene el resto cuando hay duplicados previos.
type MatchResult struct {
	Target  *entity.InventoryRecord
	Matches []*entity.InventoryRecord
	Excess  []*entity.InventoryRecord
}

// Found indica si hubo al menos una coincidencia.
func (m MatchResult) Found() bool { return m.Target != nil }

// Ambiguous indica que existían duplicados (anomalía de datos).
func (m MatchResult) Ambiguous() bool { return len(m.Excess) > 0 }

// FindEquivalent busca en existing los registros a granel equivalentes a la firma candidata.
// Los registros serializados nunca participan. excludeID (0 = ninguno) omite al propio registro
// cuando se busca para una actualización.
func FindEquivalent(candidate entity.Signature, existing []*entity.InventoryRecord, excludeID int64) MatchResult {
	var matches []*entity.InventoryRecord
	for _, r := range existing {
		if r == nil || r.IsSerialized() {
			continue
		}
		if excludeID != 0 && r.ID == excludeID {
			continue
		}
		if Equivalent(candidate, r.Signature()) {
			matches = append(matches, r)
		}
	}
	if len(matches) == 0 {
		return MatchResult{}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })
	return MatchResult{
		Target:  matches[0],
		Matches: matches,
		Excess:  matches[1:],
	}
}

// DuplicateGroup conjunto de filas a granel que comparten firma.
type DuplicateGroup struct {
	Key     string
	Records []*entity.InventoryRecord
}

// FindDuplicates agrupa las filas a granel por firma y devuelve los grupos con más de una fila,
// ordenados por el menor id de cada grupo.
func FindDuplicates(records []*entity.InventoryRecord) []DuplicateGroup {
	byKey := make(map[string][]*entity.InventoryRecord)
	var keys []string
	for _, r := range records {
		if r == nil || r.IsSerialized() {
			continue
		}
		k := r.Signature().Key()
		if _, ok := byKey[k]; !ok {
			keys = append(keys, k)
		}
		byKey[k] = append(byKey[k], r)
	}
	var groups []DuplicateGroup
	for _, k := range keys {
		rs := byKey[k]
		if len(rs) < 2 {
			continue
		}
		sort.SliceStable(rs, func(i, j int) bool { return rs[i].ID < rs[j].ID })
		groups = append(groups, DuplicateGroup{Key: k, Records: rs})
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Records[0].ID < groups[j].Records[0].ID })
	return groups
}
