package api

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/bujo/internal/services"
)

func (handler *Handler) ExportCSV(c *fiber.Ctx) error {
	viewer, ok := currentViewer(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	from, to, err := services.ParseDateRange(c.Query("from"), c.Query("to"))
	if err != nil {
		return serviceError(c, err)
	}

	rows, err := handler.exports.BuildCSVRows(viewer.Subject.UserID, from, to)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to fetch answers")
	}

	var output bytes.Buffer
	writer := csv.NewWriter(&output)
	if err := writer.Write(services.ExportCSVHeaders); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build export")
	}
	for _, row := range rows {
		if err := writer.Write(row.Columns()); err != nil {
			return apiError(c, fiber.StatusInternalServerError, "failed to build export")
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build export")
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", services.ExportFilename(handler.now())))
	return c.Send(output.Bytes())
}

func (handler *Handler) ExportSummary(c *fiber.Ctx) error {
	viewer, ok := currentViewer(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	from, to, err := services.ParseDateRange(c.Query("from"), c.Query("to"))
	if err != nil {
		return serviceError(c, err)
	}

	summary, err := handler.exports.BuildSummary(viewer.Subject.UserID, from, to)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to fetch answers")
	}
	return c.JSON(summary)
}
