package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/internal/cloud"
	"github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/internal/model"
	syncengine "github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/internal/sync"
)

type SyncHandler struct {
	engine *syncengine.Engine
}

func NewSyncHandler(engine *syncengine.Engine) *SyncHandler {
	return &SyncHandler{engine: engine}
}

// FullSync pulls every table from the cloud, overwriting local copies
// POST /api/v1/sync/full
func (h *SyncHandler) FullSync(c *fiber.Ctx) error {
	results := h.engine.FullSync(c.Context())
	ok := true
	for _, r := range results {
		if !r.Success {
			ok = false
		}
	}
	return c.JSON(fiber.Map{"success": ok, "tables": results})
}

// PushTable uploads the whole local table to the cloud
// POST /api/v1/sync/tables/:table/push
func (h *SyncHandler) PushTable(c *fiber.Ctx) error {
	table := c.Params("table")
	if !validTable(table) {
		return c.Status(404).JSON(fiber.Map{"error": "Tabel tidak dikenal"})
	}
	if err := h.engine.PushTable(c.Context(), table); err != nil {
		if errors.Is(err, cloud.ErrNotConfigured) {
			return c.Status(503).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(502).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Tabel terkirim", "table": table})
}

// GetStatus reports the engine state for the connection indicator
// GET /api/v1/sync/status
func (h *SyncHandler) GetStatus(c *fiber.Ctx) error {
	return c.JSON(h.engine.Snapshot())
}

// Ping tests the cloud endpoint
// GET /api/v1/sync/ping
func (h *SyncHandler) Ping(c *fiber.Ctx) error {
	if err := h.engine.Ping(c.Context()); err != nil {
		if errors.Is(err, cloud.ErrNotConfigured) {
			return c.Status(503).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(502).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Koneksi OK"})
}

func validTable(name string) bool {
	for _, t := range model.Tables() {
		if t == name {
			return true
		}
	}
	return false
}
