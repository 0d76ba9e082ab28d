package memory

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jhoicas/field-inventory/internal/domain/entity"
)

// LoadLookups lee una instantánea de tablas de referencia desde un archivo JSON con la misma forma
// que GET /api/inventory/lookups. Ruta vacía = instantánea vacía.
func LoadLookups(path string) (*entity.Lookups, error) {
	if path == "" {
		return &entity.Lookups{}, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("leer tablas de referencia: %w", err)
	}
	var l entity.Lookups
	if err := json.Unmarshal(b, &l); err != nil {
		return nil, fmt.Errorf("tablas de referencia inválidas en %s: %w", path, err)
	}
	return &l, nil
}
