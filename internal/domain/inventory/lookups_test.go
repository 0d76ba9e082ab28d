package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/field-inventory/internal/domain/entity"
	"github.com/jhoicas/field-inventory/internal/domain/inventory"
)

func testLookups() *entity.Lookups {
	return &entity.Lookups{
		Clients:       []entity.Client{{ID: 1, Name: "Acme Fiber"}},
		Markets:       []entity.Market{{ID: 2, ClientID: 1, Name: "Norte"}},
		Slocs:         []entity.Sloc{{ID: 4, MarketID: 2, Name: "SLOC-4"}},
		Crews:         []entity.Crew{{ID: 5, SlocID: 4, Name: "Cuadrilla A"}},
		Areas:         []entity.Area{{ID: 7, SlocID: 4, Name: "Zona 7"}},
		Statuses:      []entity.Status{{ID: 3, Name: "Available"}, {ID: 9, Name: "received"}},
		LocationTypes: []entity.LocationType{{ID: 1, Name: "SLOC"}, {ID: 2, Name: "With Crew"}},
		Locations: []entity.Location{
			{ID: 12, Name: "Bodega 2", LocationTypeID: 1},
			{ID: 11, Name: "Bodega 1", LocationTypeID: 1},
			{ID: 20, Name: "With Crew", LocationTypeID: 2},
		},
		ItemTypes:  []entity.ItemType{{ID: 1, Name: "Cable 144F", CategoryID: 6}},
		Categories: []entity.Category{{ID: 6, Name: "Cable"}},
	}
}

func TestSnapshot_BusquedaPorNombreSinMayusculas(t *testing.T) {
	s := inventory.NewSnapshot(testLookups())

	st, ok := s.StatusByName(entity.StatusReceived)
	require.True(t, ok)
	assert.Equal(t, int64(9), st.ID)

	_, ok = s.StatusByName("Installed")
	assert.False(t, ok)
}

func TestSnapshot_LocationOfTypeEligeMenorID(t *testing.T) {
	s := inventory.NewSnapshot(testLookups())
	loc, ok := s.LocationOfType(entity.LocationTypeSLOC)
	require.True(t, ok)
	assert.Equal(t, int64(11), loc.ID)

	_, ok = s.LocationOfType(entity.LocationTypeInstalled)
	assert.False(t, ok)
}

func TestSnapshot_NamesFor(t *testing.T) {
	s := inventory.NewSnapshot(testLookups())
	r := &entity.InventoryRecord{
		LocationID: 20, ItemTypeID: 1, StatusID: 3, SlocID: 4,
		AssignedCrewID: entity.ID(5), AreaID: entity.ID(7),
	}
	n := s.NamesFor(r)
	assert.Equal(t, "Acme Fiber", n.Client)
	assert.Equal(t, "Norte", n.Market)
	assert.Equal(t, "SLOC-4", n.Sloc)
	assert.Equal(t, "Cable 144F", n.ItemType)
	assert.Equal(t, "Cable", n.Category)
	assert.Equal(t, "With Crew", n.Location)
	assert.Equal(t, "Available", n.Status)
	assert.Equal(t, "Cuadrilla A", n.Crew)
	assert.Equal(t, "Zona 7", n.Area)

	assert.Equal(t, inventory.Names{}, s.NamesFor(nil))
}
