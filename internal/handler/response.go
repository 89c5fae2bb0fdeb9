package handler

import (
	"errors"

	"go-color-catalog/internal/excel"
	"go-color-catalog/internal/service"
	"go-color-catalog/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// respondError maps service and import errors onto HTTP status codes.
func respondError(c *fiber.Ctx, err error) error {
	var verr *service.ValidationError
	var rowErr *service.RowError

	switch {
	case errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrColorNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})

	case errors.Is(err, service.ErrProductNameTaken):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})

	case errors.As(err, &verr),
		errors.Is(err, excel.ErrInvalidFormat),
		errors.Is(err, excel.ErrParse),
		errors.Is(err, excel.ErrMissingColumns):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})

	case errors.As(err, &rowErr):
		logger.Error().Err(err).Str("path", c.Path()).Msg("import failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Import failed, no changes were saved",
			"row":   rowErr.Line,
		})
	}

	logger.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("request failed")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"})
}

// paramID reads a positive integer path parameter.
func paramID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}

// ErrorHandler renders framework errors (unknown route, body too large) in
// the same shape as handler errors.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		logger.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
		return c.Status(code).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
