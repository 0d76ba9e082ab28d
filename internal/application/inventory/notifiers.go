package inventory

import (
	"context"

	"github.com/rs/zerolog"
)

// LogNotifier registra cada mutación en el log (debug). Se usa cuando no hay Redis.
type LogNotifier struct {
	log zerolog.Logger
}

// NewLogNotifier construye el notificador de log.
func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// InventoryChanged implementa RefreshNotifier.
func (n *LogNotifier) InventoryChanged(_ context.Context, ev ChangeEvent) {
	n.log.Debug().Str("action", ev.Action).Ints64("inventory_ids", ev.InventoryIDs).Msg("inventario actualizado")
}

// Notifiers reparte el aviso entre varios notificadores en orden.
type Notifiers []RefreshNotifier

// InventoryChanged implementa RefreshNotifier.
func (ns Notifiers) InventoryChanged(ctx context.Context, ev ChangeEvent) {
	for _, n := range ns {
		if n != nil {
			n.InventoryChanged(ctx, ev)
		}
	}
}
