package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/field-inventory/internal/application/inventory"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Engine      *inventory.Engine
	Lookups     inventory.LookupProvider
	LookupCache lookupInvalidator // opcional
	JWTSecret   string
	Logger      zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	inv := protected.Group("/inventory")

	lookupHandler := NewLookupHandler(deps.Lookups, deps.LookupCache, deps.Logger)
	inv.Get("/lookups", lookupHandler.Get)
	inv.Post("/lookups/refresh", lookupHandler.Refresh)

	h := NewInventoryHandler(deps.Engine, deps.Logger)
	records := inv.Group("/records")
	records.Get("/", h.ListRecords)
	records.Post("/delta", h.ApplyDelta)
	records.Get("/:id", h.GetRecord)
	records.Patch("/:id", h.UpdateRecord)
	records.Get("/:id/transactions", h.ListTransactions)
	records.Get("/:id/actions", h.AvailableActions)

	// Acciones
	records.Post("/:id/adjust", h.Adjust)
	records.Post("/:id/remove", h.Remove)
	records.Post("/:id/issue", h.Issue)
	records.Post("/:id/return-reserved", h.ReturnAsReserved)
	records.Post("/:id/assign-area", h.AssignArea)
	records.Post("/:id/inspect", h.Inspect)
	records.Post("/:id/reserve", h.Reserve)
	records.Post("/:id/unreserve", h.Unreserve)
	records.Post("/:id/field-install", h.FieldInstall)
	records.Post("/:id/allocate", h.Allocate)
	records.Post("/:id/move", h.Move)
	records.Post("/:id/reject", h.Reject)
	records.Post("/:id/return-material", h.ReturnMaterial)

	// Mantenimiento
	integrity := inv.Group("/integrity")
	integrity.Get("/duplicates", h.FindDuplicates)
	integrity.Post("/repair", h.RepairDuplicates)
}
