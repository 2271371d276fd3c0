package handler

import (
	"errors"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/internal/service"
)

type BackupHandler struct {
	service *service.BackupService
}

func NewBackupHandler(svc *service.BackupService) *BackupHandler {
	return &BackupHandler{service: svc}
}

// Export downloads the whole dataset as one JSON document
// GET /api/v1/export
func (h *BackupHandler) Export(c *fiber.Ctx) error {
	doc, err := h.service.ExportAll()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	filename := "sppg_backup_" + time.Now().Format("2006-01-02") + ".json"
	c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Set("Content-Type", "application/json")
	return c.Send(doc)
}

// Import replaces local tables from an uploaded backup document. Nothing is
// written unless the whole document validates.
// POST /api/v1/import
func (h *BackupHandler) Import(c *fiber.Ctx) error {
	body := c.Body()
	if fh, err := c.FormFile("file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		defer f.Close()
		buf, err := io.ReadAll(f)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		body = buf
	}

	if err := h.service.ImportAll(body); err != nil {
		if errors.Is(err, service.ErrInvalidImport) {
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Data berhasil diimpor"})
}

// Reset wipes every local table
// POST /api/v1/reset
func (h *BackupHandler) Reset(c *fiber.Ctx) error {
	if err := h.service.ResetAll(); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Semua data lokal dihapus"})
}
