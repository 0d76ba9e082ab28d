package inventory

import (
	"strings"

	"github.com/jhoicas/field-inventory/internal/domain/entity"
	"golang.org/x/text/cases"
)

var fold = cases.Fold()

func sameName(a, b string) bool {
	return fold.String(strings.TrimSpace(a)) == fold.String(strings.TrimSpace(b))
}

// Snapshot envuelve una instantánea de Lookups con búsquedas por id y por nombre.
type Snapshot struct {
	*entity.Lookups
}

// NewSnapshot construye el envoltorio; nil se trata como instantánea vacía.
func NewSnapshot(l *entity.Lookups) Snapshot {
	if l == nil {
		l = &entity.Lookups{}
	}
	return Snapshot{Lookups: l}
}

// StatusByName busca un estado sin distinguir mayúsculas.
func (s Snapshot) StatusByName(name string) (entity.Status, bool) {
	for _, st := range s.Statuses {
		if sameName(st.Name, name) {
			return st, true
		}
	}
	return entity.Status{}, false
}

// Status busca un estado por id.
func (s Snapshot) Status(id int64) (entity.Status, bool) {
	for _, st := range s.Statuses {
		if st.ID == id {
			return st, true
		}
	}
	return entity.Status{}, false
}

// Location busca una ubicación por id.
func (s Snapshot) Location(id int64) (entity.Location, bool) {
	for _, l := range s.Locations {
		if l.ID == id {
			return l, true
		}
	}
	return entity.Location{}, false
}

// LocationTypeByName busca un tipo de ubicación por nombre.
func (s Snapshot) LocationTypeByName(name string) (entity.LocationType, bool) {
	for _, lt := range s.LocationTypes {
		if sameName(lt.Name, name) {
			return lt, true
		}
	}
	return entity.LocationType{}, false
}

// LocationOfType devuelve la primera ubicación (menor id) cuyo tipo se llama typeName.
func (s Snapshot) LocationOfType(typeName string) (entity.Location, bool) {
	lt, ok := s.LocationTypeByName(typeName)
	if !ok {
		return entity.Location{}, false
	}
	var best entity.Location
	found := false
	for _, l := range s.Locations {
		if l.LocationTypeID == lt.ID && (!found || l.ID < best.ID) {
			best, found = l, true
		}
	}
	return best, found
}

// LocationByName busca una ubicación por nombre.
func (s Snapshot) LocationByName(name string) (entity.Location, bool) {
	for _, l := range s.Locations {
		if sameName(l.Name, name) {
			return l, true
		}
	}
	return entity.Location{}, false
}

// Crew busca una cuadrilla por id.
func (s Snapshot) Crew(id int64) (entity.Crew, bool) {
	for _, c := range s.Crews {
		if c.ID == id {
			return c, true
		}
	}
	return entity.Crew{}, false
}

// Area busca un área por id.
func (s Snapshot) Area(id int64) (entity.Area, bool) {
	for _, a := range s.Areas {
		if a.ID == id {
			return a, true
		}
	}
	return entity.Area{}, false
}

// Sloc busca un SLOC por id.
func (s Snapshot) Sloc(id int64) (entity.Sloc, bool) {
	for _, sl := range s.Slocs {
		if sl.ID == id {
			return sl, true
		}
	}
	return entity.Sloc{}, false
}

// Market busca un mercado por id.
func (s Snapshot) Market(id int64) (entity.Market, bool) {
	for _, m := range s.Markets {
		if m.ID == id {
			return m, true
		}
	}
	return entity.Market{}, false
}

// Client busca un cliente por id.
func (s Snapshot) Client(id int64) (entity.Client, bool) {
	for _, c := range s.Clients {
		if c.ID == id {
			return c, true
		}
	}
	return entity.Client{}, false
}

// ItemType busca un tipo de ítem por id.
func (s Snapshot) ItemType(id int64) (entity.ItemType, bool) {
	for _, it := range s.ItemTypes {
		if it.ID == id {
			return it, true
		}
	}
	return entity.ItemType{}, false
}

// Category busca una categoría por id.
func (s Snapshot) Category(id int64) (entity.Category, bool) {
	for _, c := range s.Categories {
		if c.ID == id {
			return c, true
		}
	}
	return entity.Category{}, false
}

// Names nombres legibles para los ids de un registro (vacío si no se encuentra).
type Names struct {
	Client   string
	Market   string
	Sloc     string
	ItemType string
	Category string
	Location string
	Status   string
	Crew     string
	Area     string
}

// NamesFor resuelve los nombres de un registro contra la instantánea. nil devuelve Names vacío.
func (s Snapshot) NamesFor(r *entity.InventoryRecord) Names {
	var n Names
	if r == nil {
		return n
	}
	if sl, ok := s.Sloc(r.SlocID); ok {
		n.Sloc = sl.Name
		if m, ok := s.Market(sl.MarketID); ok {
			n.Market = m.Name
			if c, ok := s.Client(m.ClientID); ok {
				n.Client = c.Name
			}
		}
	}
	if it, ok := s.ItemType(r.ItemTypeID); ok {
		n.ItemType = it.Name
		if c, ok := s.Category(it.CategoryID); ok {
			n.Category = c.Name
		}
	}
	if l, ok := s.Location(r.LocationID); ok {
		n.Location = l.Name
	}
	if st, ok := s.Status(r.StatusID); ok {
		n.Status = st.Name
	}
	if r.AssignedCrewID != nil {
		if c, ok := s.Crew(*r.AssignedCrewID); ok {
			n.Crew = c.Name
		}
	}
	if r.AreaID != nil {
		if a, ok := s.Area(*r.AreaID); ok {
			n.Area = a.Name
		}
	}
	return n
}
