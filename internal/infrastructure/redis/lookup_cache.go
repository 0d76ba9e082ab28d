package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	appinv "github.com/jhoicas/field-inventory/internal/application/inventory"
	"github.com/jhoicas/field-inventory/internal/domain/entity"
	"github.com/jhoicas/field-inventory/internal/domain/repository"
)

// LookupsKey clave de la instantánea serializada.
const LookupsKey = "inventory:lookups"

var _ appinv.LookupProvider = (*LookupCache)(nil)

// LookupCache cache-aside de la instantánea de tablas de referencia. Si Redis falla se lee
// directamente de la fuente: la caché nunca hace fallar una operación.
type LookupCache struct {
	client *redis.Client
	source repository.LookupRepository
	ttl    time.Duration
	log    zerolog.Logger
}

// NewLookupCache construye la caché sobre source.
func NewLookupCache(client *redis.Client, source repository.LookupRepository, ttl time.Duration, log zerolog.Logger) *LookupCache {
	return &LookupCache{client: client, source: source, ttl: ttl, log: log}
}

// Snapshot devuelve la instantánea desde Redis o, si no está, desde la fuente (y la guarda).
func (c *LookupCache) Snapshot(ctx context.Context) (*entity.Lookups, error) {
	val, err := c.client.Get(ctx, LookupsKey).Bytes()
	switch {
	case err == nil:
		var l entity.Lookups
		uerr := json.Unmarshal(val, &l)
		if uerr == nil {
			return &l, nil
		}
		c.log.Warn().Err(uerr).Msg("instantánea en caché corrupta, se recarga")
	case !errors.Is(err, redis.Nil):
		c.log.Warn().Err(err).Msg("redis no disponible, se leen tablas de referencia de la BD")
		return c.source.Snapshot(ctx)
	}

	l, err := c.source.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(l); err == nil {
		if err := c.client.Set(ctx, LookupsKey, b, c.ttl).Err(); err != nil {
			c.log.Warn().Err(err).Msg("no se pudo guardar la instantánea en caché")
		}
	}
	return l, nil
}

// Invalidate descarta la instantánea; la próxima lectura va a la fuente.
func (c *LookupCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, LookupsKey).Err()
}
