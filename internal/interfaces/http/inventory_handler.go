package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/field-inventory/internal/application/dto"
	"github.com/jhoicas/field-inventory/internal/application/inventory"
	"github.com/jhoicas/field-inventory/internal/domain/entity"
)

// InventoryHandler maneja las lecturas y acciones sobre registros de inventario (protegido).
type InventoryHandler struct {
	engine *inventory.Engine
	log    zerolog.Logger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(engine *inventory.Engine, log zerolog.Logger) *InventoryHandler {
	return &InventoryHandler{engine: engine, log: log}
}

func paramID(c *fiber.Ctx) (int64, bool) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, false
	}
	return int64(id), true
}

func queryID(c *fiber.Ctx, key string) *int64 {
	v := c.QueryInt(key, 0)
	if v <= 0 {
		return nil
	}
	return entity.ID(int64(v))
}

// respond serializa el resultado de una acción o el error mapeado.
func (h *InventoryHandler) respond(c *fiber.Ctx, res *inventory.ActionResult, err error) error {
	if err != nil {
		return writeError(c, h.log, err)
	}
	status := fiber.StatusOK
	if res.Outcome == inventory.OutcomeCreated {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(toActionResponse(res))
}

// withID ejecuta fn con el id de la ruta ya validado.
func (h *InventoryHandler) withID(c *fiber.Ctx, fn func(ctx context.Context, id int64) (*inventory.ActionResult, error)) error {
	id, ok := paramID(c)
	if !ok {
		return badRequest(c, "INVALID_ID", "id inválido")
	}
	res, err := fn(c.UserContext(), id)
	return h.respond(c, res, err)
}

// withBody parsea el body en T y luego ejecuta fn.
func withBody[T any](h *InventoryHandler, c *fiber.Ctx, fn func(ctx context.Context, id int64, in T) (*inventory.ActionResult, error)) error {
	var in T
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	return h.withID(c, func(ctx context.Context, id int64) (*inventory.ActionResult, error) {
		return fn(ctx, id, in)
	})
}

// GetRecord godoc
// @Summary      Obtener registro de inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path      int  true  "ID del registro"
// @Success      200  {object}  dto.InventoryRecordDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/records/{id} [get]
func (h *InventoryHandler) GetRecord(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badRequest(c, "INVALID_ID", "id inválido")
	}
	rec, err := h.engine.Get(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(toRecordDTO(rec))
}

// ListRecords godoc
// @Summary      Listar registros de inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        sloc_id       query  int  false  "Filtrar por SLOC"
// @Param        location_id   query  int  false  "Filtrar por ubicación"
// @Param        item_type_id  query  int  false  "Filtrar por tipo de ítem"
// @Param        status_id     query  int  false  "Filtrar por estado"
// @Param        limit         query  int  false  "Máximo (default 20, máx 100)"
// @Param        offset        query  int  false  "Desplazamiento"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/inventory/records [get]
func (h *InventoryHandler) ListRecords(c *fiber.Ctx) error {
	page := dto.NewPageRequest(c.QueryInt("limit", 0), c.QueryInt("offset", 0))
	list, err := h.engine.List(c.UserContext(), entity.InventoryFilter{
		SlocID:     queryID(c, "sloc_id"),
		LocationID: queryID(c, "location_id"),
		ItemTypeID: queryID(c, "item_type_id"),
		StatusID:   queryID(c, "status_id"),
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	items := make([]*dto.InventoryRecordDTO, 0, len(list))
	for _, r := range list {
		items = append(items, toRecordDTO(r))
	}
	return c.JSON(fiber.Map{
		"items": items,
		"page":  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

// ListTransactions godoc
// @Summary      Historial de auditoría de un registro
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id      path   int  true   "ID del registro"
// @Param        limit   query  int  false  "Máximo (default 20, máx 100)"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {array}   dto.TransactionDTO
// @Router       /api/inventory/records/{id}/transactions [get]
func (h *InventoryHandler) ListTransactions(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badRequest(c, "INVALID_ID", "id inválido")
	}
	page := dto.NewPageRequest(c.QueryInt("limit", 0), c.QueryInt("offset", 0))
	list, err := h.engine.History(c.UserContext(), id, page.Limit, page.Offset)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out := make([]dto.TransactionDTO, 0, len(list))
	for _, t := range list {
		out = append(out, toTransactionDTO(t))
	}
	return c.JSON(out)
}

// AvailableActions godoc
// @Summary      Acciones disponibles para el estado actual del registro
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path      int  true  "ID del registro"
// @Success      200  {array}   entity.ActionType
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/records/{id}/actions [get]
func (h *InventoryHandler) AvailableActions(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badRequest(c, "INVALID_ID", "id inválido")
	}
	actions, err := h.engine.AvailableActions(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(actions)
}

// ApplyDelta godoc
// @Summary      Recibir o descontar stock (consolidando en el registro equivalente)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.DeltaRequest  true  "firma, quantity, operation (add|subtract)"
// @Success      200   {object}  dto.ActionResponse
// @Success      201   {object}  dto.ActionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/records/delta [post]
func (h *InventoryHandler) ApplyDelta(c *fiber.Ctx) error {
	var in dto.DeltaRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	if in.LocationID <= 0 || in.ItemTypeID <= 0 || in.StatusID <= 0 || in.SlocID <= 0 {
		return badRequest(c, "VALIDATION", "location_id, item_type_id, status_id y sloc_id son obligatorios")
	}
	candidate := entity.InventoryRecord{
		LocationID:         in.LocationID,
		ItemTypeID:         in.ItemTypeID,
		StatusID:           in.StatusID,
		SlocID:             in.SlocID,
		AssignedCrewID:     in.AssignedCrewID,
		AreaID:             in.AreaID,
		MfgrSerialNumber:   in.MfgrSerialNumber,
		TilsonSerialNumber: in.TilsonSerialNumber,
		Notes:              in.Notes,
	}
	res, err := h.engine.ApplyDelta(c.UserContext(), candidate, in.Quantity, inventory.Operation(in.Operation))
	return h.respond(c, res, err)
}

// UpdateRecord godoc
// @Summary      Actualizar campos de un registro (consolida si la nueva firma ya existe)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      int                     true  "ID del registro"
// @Param        body  body      dto.PatchRecordRequest  true  "campos a cambiar"
// @Success      200   {object}  dto.ActionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/records/{id} [patch]
func (h *InventoryHandler) UpdateRecord(c *fiber.Ctx) error {
	return withBody(h, c, func(ctx context.Context, id int64, in dto.PatchRecordRequest) (*inventory.ActionResult, error) {
		return h.engine.UpdateWithConsolidationCheck(ctx, id, toPatch(in))
	})
}

// Adjust godoc
// @Summary      Fijar la cantidad de un registro
// @Tags         inventory-actions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      int                true  "ID del registro"
// @Param        body  body      dto.AdjustRequest  true  "quantity >= 0"
// @Success      200   {object}  dto.ActionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/records/{id}/adjust [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	return withBody(h, c, func(ctx context.Context, id int64, in dto.AdjustRequest) (*inventory.ActionResult, error) {
		return h.engine.Adjust(ctx, id, in.Quantity)
	})
}

// Remove godoc
// @Summary      Eliminar un registro
// @Tags         inventory-actions
// @Security     Bearer
// @Produce      json
// @Param        id   path      int  true  "ID del registro"
// @Success      200  {object}  dto.ActionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/records/{id}/remove [post]
func (h *InventoryHandler) Remove(c *fiber.Ctx) error {
	return h.withID(c, h.engine.Remove)
}

// ReturnMaterial godoc
// @Summary      Devolver material (el registro sale del inventario)
// @Tags         inventory-actions
// @Security     Bearer
// @Produce      json
// @Param        id   path      int  true  "ID del registro"
// @Success      200  {object}  dto.ActionResponse
// @Router       /api/inventory/records/{id}/return-material [post]
func (h *InventoryHandler) ReturnMaterial(c *fiber.Ctx) error {
	return h.withID(c, h.engine.ReturnMaterial)
}

// Issue godoc
// @Summary      Entregar material a una cuadrilla
// @Tags         inventory-actions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      int              true   "ID del registro"
// @Param        body  body      dto.CrewRequest  false  "crew_id (opcional: usa la cuadrilla asignada)"
// @Success      200   {object}  dto.ActionResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/inventory/records/{id}/issue [post]
func (h *InventoryHandler) Issue(c *fiber.Ctx) error {
	var in dto.CrewRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badRequest(c, "INVALID_BODY", "cuerpo inválido")
		}
	}
	return h.withID(c, func(ctx context.Context, id int64) (*inventory.ActionResult, error) {
		return h.engine.Issue(ctx, id, in.CrewID)
	})
}

// ReturnAsReserved godoc
// @Summary      Devolver material a un SLOC como reservado
// @Tags         inventory-actions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      int              true  "ID del registro"
// @Param        body  body      dto.SlocRequest  true  "sloc_id destino"
// @Success      200   {object}  dto.ActionResponse
// @Router       /api/inventory/records/{id}/return-reserved [post]
func (h *InventoryHandler) ReturnAsReserved(c *fiber.Ctx) error {
	return withBody(h, c, func(ctx context.Context, id int64, in dto.SlocRequest) (*inventory.ActionResult, error) {
		return h.engine.ReturnAsReserved(ctx, id, in.SlocID)
	})
}

// AssignArea godoc
// @Summary      Asignar un área
// @Tags         inventory-actions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      int              true  "ID del registro"
// @Param        body  body      dto.AreaRequest  true  "area_id"
// @Success      200   {object}  dto.ActionResponse
// @Router       /api/inventory/records/{id}/assign-area [post]
func (h *InventoryHandler) AssignArea(c *fiber.Ctx) error {
	return withBody(h, c, func(ctx context.Context, id int64, in dto.AreaRequest) (*inventory.ActionResult, error) {
		return h.engine.AssignArea(ctx, id, in.AreaID)
	})
}

// Inspect godoc
// @Summary      Inspeccionar (Received → Available)
// @Tags         inventory-actions
// @Security     Bearer
// @Produce      json
// @Param        id   path      int  true  "ID del registro"
// @Success      200  {object}  dto.ActionResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/records/{id}/inspect [post]
func (h *InventoryHandler) Inspect(c *fiber.Ctx) error {
	return h.withID(c, h.engine.Inspect)
}

// Reserve godoc
// @Summary      Reservar para una cuadrilla
// @Tags         inventory-actions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      int              true  "ID del registro"
// @Param        body  body      dto.CrewRequest  true  "crew_id"
// @Success      200   {object}  dto.ActionResponse
// @Router       /api/inventory/records/{id}/reserve [post]
func (h *InventoryHandler) Reserve(c *fiber.Ctx) error {
	var in dto.CrewRequest
	if err := c.BodyParser(&in); err != nil || in.CrewID == nil {
		return badRequest(c, "INVALID_BODY", "crew_id es obligatorio")
	}
	return h.withID(c, func(ctx context.Context, id int64) (*inventory.ActionResult, error) {
		return h.engine.Reserve(ctx, id, *in.CrewID)
	})
}

// Unreserve godoc
// @Summary      Quitar la reserva de cuadrilla
// @Tags         inventory-actions
// @Security     Bearer
// @Produce      json
// @Param        id   path      int  true  "ID del registro"
// @Success      200  {object}  dto.ActionResponse
// @Router       /api/inventory/records/{id}/unreserve [post]
func (h *InventoryHandler) Unreserve(c *fiber.Ctx) error {
	return h.withID(c, h.engine.Unreserve)
}

// FieldInstall godoc
// @Summary      Marcar como instalado en campo
// @Tags         inventory-actions
// @Security     Bearer
// @Produce      json
// @Param        id   path      int  true  "ID del registro"
// @Success      200  {object}  dto.ActionResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/inventory/records/{id}/field-install [post]
func (h *InventoryHandler) FieldInstall(c *fiber.Ctx) error {
	return h.withID(c, h.engine.FieldInstall)
}

// Allocate godoc
// @Summary      Dividir un registro a granel entre áreas
// @Tags         inventory-actions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      int                  true  "ID del registro"
// @Param        body  body      dto.AllocateRequest  true  "allocations [{area_id, quantity}]"
// @Success      200   {object}  dto.ActionResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/records/{id}/allocate [post]
func (h *InventoryHandler) Allocate(c *fiber.Ctx) error {
	return withBody(h, c, func(ctx context.Context, id int64, in dto.AllocateRequest) (*inventory.ActionResult, error) {
		allocations := make([]inventory.AreaAllocation, 0, len(in.Allocations))
		for _, a := range in.Allocations {
			allocations = append(allocations, inventory.AreaAllocation{AreaID: a.AreaID, Quantity: a.Quantity})
		}
		return h.engine.Allocate(ctx, id, allocations)
	})
}

// Move godoc
// @Summary      Mover a otra ubicación
// @Tags         inventory-actions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      int                  true  "ID del registro"
// @Param        body  body      dto.LocationRequest  true  "location_id"
// @Success      200   {object}  dto.ActionResponse
// @Router       /api/inventory/records/{id}/move [post]
func (h *InventoryHandler) Move(c *fiber.Ctx) error {
	return withBody(h, c, func(ctx context.Context, id int64, in dto.LocationRequest) (*inventory.ActionResult, error) {
		return h.engine.Move(ctx, id, in.LocationID)
	})
}

// Reject godoc
// @Summary      Rechazar material
// @Tags         inventory-actions
// @Security     Bearer
// @Produce      json
// @Param        id   path      int  true  "ID del registro"
// @Success      200  {object}  dto.ActionResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/inventory/records/{id}/reject [post]
func (h *InventoryHandler) Reject(c *fiber.Ctx) error {
	return h.withID(c, h.engine.Reject)
}

// FindDuplicates godoc
// @Summary      Firmas a granel duplicadas
// @Tags         inventory-maintenance
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.IntegrityReportDTO
// @Router       /api/inventory/integrity/duplicates [get]
func (h *InventoryHandler) FindDuplicates(c *fiber.Ctx) error {
	report, err := h.engine.FindDuplicates(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(toIntegrityDTO(report))
}

// RepairDuplicates godoc
// @Summary      Fusionar firmas duplicadas en su registro de menor id
// @Tags         inventory-maintenance
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.IntegrityReportDTO
// @Router       /api/inventory/integrity/repair [post]
func (h *InventoryHandler) RepairDuplicates(c *fiber.Ctx) error {
	report, err := h.engine.RepairDuplicates(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(toIntegrityDTO(report))
}
