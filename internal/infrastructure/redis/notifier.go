package redis

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	appinv "github.com/jhoicas/field-inventory/internal/application/inventory"
)

// RefreshChannel canal pub/sub donde se publica cada mutación exitosa.
const RefreshChannel = "inventory:refresh"

var _ appinv.RefreshNotifier = (*Notifier)(nil)

// Notifier publica ChangeEvent en RefreshChannel para que los listados se recarguen.
type Notifier struct {
	client *redis.Client
	log    zerolog.Logger
}

// NewNotifier construye el notificador.
func NewNotifier(client *redis.Client, log zerolog.Logger) *Notifier {
	return &Notifier{client: client, log: log}
}

// InventoryChanged publica el evento. Un fallo de publicación solo se registra.
func (n *Notifier) InventoryChanged(ctx context.Context, ev appinv.ChangeEvent) {
	payload, err := json.Marshal(ev)
	if err != nil {
		n.log.Error().Err(err).Msg("serializar evento de refresco")
		return
	}
	if err := n.client.Publish(ctx, RefreshChannel, payload).Err(); err != nil {
		n.log.Warn().Err(err).Str("action", ev.Action).Msg("no se pudo publicar el refresco")
	}
}

// Subscribe entrega los eventos recibidos en RefreshChannel hasta que ctx se cancele.
func (n *Notifier) Subscribe(ctx context.Context, handle func(appinv.ChangeEvent)) error {
	sub := n.client.Subscribe(ctx, RefreshChannel)
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		return err
	}
	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var ev appinv.ChangeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				n.log.Warn().Err(err).Msg("evento de refresco inválido")
				continue
			}
			handle(ev)
		}
	}
}
