package memory_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/field-inventory/internal/infrastructure/memory"
)

func TestLoadLookups_RutaVacia(t *testing.T) {
	l, err := memory.LoadLookups("")
	require.NoError(t, err)
	assert.Empty(t, l.Statuses)
}

func TestLoadLookups_DesdeArchivo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lookups.json")
	body := `{
		"statuses": [{"id": 1, "name": "Received"}, {"id": 2, "name": "Available"}],
		"location_types": [{"id": 1, "name": "SLOC"}],
		"locations": [{"id": 10, "name": "Bodega", "location_type_id": 1}]
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	l, err := memory.LoadLookups(path)
	require.NoError(t, err)
	require.Len(t, l.Statuses, 2)
	assert.Equal(t, "Available", l.Statuses[1].Name)
	require.Len(t, l.Locations, 1)
	assert.Equal(t, int64(1), l.Locations[0].LocationTypeID)

	store := memory.NewStore(l)
	snap, err := store.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap.LocationTypes, 1)
}

func TestLoadLookups_JSONInvalido(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lookups.json")
	require.NoError(t, os.WriteFile(path, []byte("{no-json"), 0o600))

	_, err := memory.LoadLookups(path)
	assert.Error(t, err)
}
