package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/field-inventory/internal/application/inventory"
)

// lookupInvalidator lo implementa la caché de Redis; sin caché el refresco no hace nada.
type lookupInvalidator interface {
	Invalidate(ctx context.Context) error
}

// LookupHandler expone la instantánea de tablas de referencia.
type LookupHandler struct {
	lookups inventory.LookupProvider
	cache   lookupInvalidator
	log     zerolog.Logger
}

// NewLookupHandler construye el handler. cache puede ser nil.
func NewLookupHandler(lookups inventory.LookupProvider, cache lookupInvalidator, log zerolog.Logger) *LookupHandler {
	return &LookupHandler{lookups: lookups, cache: cache, log: log}
}

// Get godoc
// @Summary      Instantánea de tablas de referencia
// @Tags         lookups
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  entity.Lookups
// @Router       /api/inventory/lookups [get]
func (h *LookupHandler) Get(c *fiber.Ctx) error {
	l, err := h.lookups.Snapshot(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(l)
}

// Refresh godoc
// @Summary      Descartar la instantánea en caché
// @Tags         lookups
// @Security     Bearer
// @Success      204
// @Router       /api/inventory/lookups/refresh [post]
func (h *LookupHandler) Refresh(c *fiber.Ctx) error {
	if h.cache != nil {
		if err := h.cache.Invalidate(c.UserContext()); err != nil {
			return writeError(c, h.log, err)
		}
	}
	return c.SendStatus(fiber.StatusNoContent)
}
