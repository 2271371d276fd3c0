package handler

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/internal/model"
	"github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/internal/repository"
	"github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/pkg/validator"
)

type LogistikHandler struct {
	repo *repository.Repository
}

func NewLogistikHandler(repo *repository.Repository) *LogistikHandler {
	return &LogistikHandler{repo: repo}
}

// GetLogistik lists incoming-goods records, optionally date-scoped
// GET /api/v1/logistik?date=YYYY-MM-DD
func (h *LogistikHandler) GetLogistik(c *fiber.Ctx) error {
	if date := c.Query("date"); date != "" {
		return c.JSON(h.repo.Logistik.ByDate(date))
	}
	return c.JSON(h.repo.Logistik.All())
}

// GetLogistikByID fetches one record
// GET /api/v1/logistik/:id
func (h *LogistikHandler) GetLogistikByID(c *fiber.Ctx) error {
	rec, ok := h.repo.Logistik.ByID(c.Params("id"))
	if !ok {
		return c.Status(404).JSON(fiber.Map{"error": "Data logistik tidak ditemukan"})
	}
	return c.JSON(rec)
}

// CreateLogistik registers received goods. QC defaults to review so every
// delivery gets looked at.
// POST /api/v1/logistik
func (h *LogistikHandler) CreateLogistik(c *fiber.Ctx) error {
	var req model.Logistik
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		return c.Status(400).JSON(fiber.Map{
			"error": fmt.Sprintf("Validation failed: Field '%s' failed on tag '%s'", errs[0].FailedField, errs[0].Tag),
		})
	}
	if req.QCStatus == "" {
		req.QCStatus = model.QCReview
	} else if !model.ValidQCStatus(req.QCStatus) {
		return c.Status(400).JSON(fiber.Map{"error": "Status QC tidak dikenal"})
	}
	return c.Status(201).JSON(h.repo.Logistik.Add(&req))
}

// UpdateLogistik patches a record
// PUT /api/v1/logistik/:id
func (h *LogistikHandler) UpdateLogistik(c *fiber.Ctx) error {
	var patch map[string]any
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	rec, err := h.repo.Logistik.Update(c.Params("id"), patch)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Data logistik tidak ditemukan"})
		}
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(rec)
}

// SetQC records the quality-control verdict for a delivery
// PUT /api/v1/logistik/:id/qc
func (h *LogistikHandler) SetQC(c *fiber.Ctx) error {
	var req struct {
		QCStatus string `json:"qcStatus"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if !model.ValidQCStatus(req.QCStatus) {
		return c.Status(400).JSON(fiber.Map{"error": "Status QC tidak dikenal"})
	}
	rec, err := h.repo.Logistik.Update(c.Params("id"), map[string]any{"qcStatus": req.QCStatus})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Data logistik tidak ditemukan"})
		}
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(rec)
}

// DeleteLogistik removes a record
// DELETE /api/v1/logistik/:id
func (h *LogistikHandler) DeleteLogistik(c *fiber.Ctx) error {
	if err := h.repo.Logistik.Delete(c.Params("id")); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Data dihapus"})
}
