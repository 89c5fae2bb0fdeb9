package handler

import (
	"go-color-catalog/internal/model"
	"go-color-catalog/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ColorHandler struct {
	service service.CatalogService
}

func NewColorHandler(s service.CatalogService) *ColorHandler {
	return &ColorHandler{service: s}
}

func (h *ColorHandler) GetColors(c *fiber.Ctx) error {
	colors, err := h.service.ListColors(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}

	resp := make([]model.ColorResponse, 0, len(colors))
	for i := range colors {
		resp = append(resp, colors[i].ToResponse())
	}
	return c.JSON(resp)
}

func (h *ColorHandler) CreateColor(c *fiber.Ctx) error {
	var req service.CreateColorRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	color, err := h.service.CreateColor(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Color added!", "id": color.ID})
}

func (h *ColorHandler) UpdateColor(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid color ID"})
	}

	var req service.UpdateColorRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if _, err := h.service.UpdateColor(c.UserContext(), id, req); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Color updated!"})
}

func (h *ColorHandler) DeleteColor(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid color ID"})
	}

	if err := h.service.DeleteColor(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Color deleted!"})
}
