package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/field-inventory/internal/application/dto"
	"github.com/jhoicas/field-inventory/internal/domain"
)

// statusByCode código HTTP de cada error de la taxonomía.
var statusByCode = map[string]int{
	"INVALID_INPUT":             fiber.StatusBadRequest,
	"INVALID_QUANTITY":          fiber.StatusBadRequest,
	"UNAUTHORIZED":              fiber.StatusUnauthorized,
	"NOT_FOUND":                 fiber.StatusNotFound,
	"INVALID_STATUS_TRANSITION": fiber.StatusConflict,
	"NEGATIVE_QUANTITY":         fiber.StatusConflict,
	"NO_STOCK":                  fiber.StatusConflict,
	"NO_CREW_ASSIGNED":          fiber.StatusConflict,
	"OVER_ALLOCATION":           fiber.StatusConflict,
	"CONSOLIDATION_AMBIGUITY":   fiber.StatusConflict,
	"STATUS_MISSING":            fiber.StatusUnprocessableEntity,
	"LOCATION_TYPE_MISSING":     fiber.StatusUnprocessableEntity,
	"WRITE_FAILED":              fiber.StatusInternalServerError,
}

// writeError responde con el código de la taxonomía. El mensaje es el del sentinel: el detalle del
// backend solo va al log.
func writeError(c *fiber.Ctx, log zerolog.Logger, err error) error {
	code := domain.Code(err)
	status, ok := statusByCode[code]
	if !ok {
		status = fiber.StatusInternalServerError
	}
	msg := "error interno"
	if sentinel := domain.FromCode(code); sentinel != nil {
		msg = sentinel.Error()
	}
	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Str("code", code).Msg("error en acción de inventario")
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

func badRequest(c *fiber.Ctx, code, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: msg})
}
