package handler

import (
	"bytes"

	"go-color-catalog/internal/excel"
	"go-color-catalog/internal/service"

	"github.com/gofiber/fiber/v2"
)

const templateFilename = "catalog-import-template.xlsx"

type ImportHandler struct {
	service service.ImportService
}

func NewImportHandler(s service.ImportService) *ImportHandler {
	return &ImportHandler{service: s}
}

// UploadExcel imports the multipart "file" field.
func (h *ImportHandler) UploadExcel(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "No file uploaded"})
	}
	if err := excel.CheckExtension(fh.Filename); err != nil {
		return respondError(c, err)
	}

	file, err := fh.Open()
	if err != nil {
		return respondError(c, err)
	}
	defer file.Close()

	sheet, err := excel.Parse(file)
	if err != nil {
		return respondError(c, err)
	}

	summary, err := h.service.Import(c.UserContext(), service.RowsFromSheet(sheet))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Excel uploaded successfully!", "summary": summary})
}

// Template serves an empty workbook with the expected header row.
func (h *ImportHandler) Template(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := excel.WriteTemplate(&buf); err != nil {
		return respondError(c, err)
	}

	c.Attachment(templateFilename)
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	return c.Send(buf.Bytes())
}
