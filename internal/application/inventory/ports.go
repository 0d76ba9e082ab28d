package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/field-inventory/internal/domain/entity"
	"github.com/jhoicas/field-inventory/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza que las acciones de varios pasos (Allocate, consolidación) no queden aplicadas a medias.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		recordRepo repository.InventoryRecordRepository,
		txRepo repository.TransactionRepository,
	) error) error
}

// LookupProvider entrega la instantánea actual de tablas de referencia.
type LookupProvider interface {
	Snapshot(ctx context.Context) (*entity.Lookups, error)
}

// ChangeEvent describe una mutación exitosa para refrescar listados.
type ChangeEvent struct {
	Action       string    `json:"action"`
	InventoryIDs []int64   `json:"inventory_ids"`
	At           time.Time `json:"at"`
}

// RefreshNotifier recibe un aviso tras cada mutación exitosa (push, no valor de retorno).
type RefreshNotifier interface {
	InventoryChanged(ctx context.Context, ev ChangeEvent)
}

// ErrRemoteUnavailable indica que la ruta remota no está disponible; el motor usa la ruta local.
var ErrRemoteUnavailable = errors.New("funciones remotas no disponibles")

// RemoteFunctions ruta alternativa: funciones del servidor que ejecutan la misma lógica.
// Deben devolver errores de dominio para fallos de negocio; cualquier otro error provoca
// el uso del algoritmo local.
type RemoteFunctions interface {
	Issue(ctx context.Context, inventoryID int64, crewID *int64) (*RemoteResult, error)
	Adjust(ctx context.Context, inventoryID int64, quantity decimal.Decimal) (*RemoteResult, error)
	Receive(ctx context.Context, candidate entity.InventoryRecord, quantity decimal.Decimal) (*RemoteResult, error)
}

// RemoteResult respuesta de una función remota. Outcome vacío equivale a OutcomeUpdated.
type RemoteResult struct {
	Record        *entity.InventoryRecord
	Outcome       string
	TransactionID *int64
}

// Rutas de ejecución reportadas en los resultados.
const (
	PathLocal  = "local"
	PathRemote = "remote"
)
