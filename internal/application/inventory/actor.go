package inventory

import (
	"context"

	"github.com/jhoicas/field-inventory/internal/domain/entity"
)

type actorKey struct{}

// WithActor adjunta el actor autenticado al contexto.
func WithActor(ctx context.Context, a entity.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// ActorFromContext devuelve el actor del contexto o entity.SystemActor.
func ActorFromContext(ctx context.Context) entity.Actor {
	if a, ok := ctx.Value(actorKey{}).(entity.Actor); ok && a.UserID != "" {
		return a
	}
	return entity.SystemActor
}
