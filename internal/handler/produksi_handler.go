package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/internal/foto"
	"github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/internal/middleware"
	"github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/internal/model"
	"github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/internal/repository"
	"github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/internal/service"
)

type ProduksiHandler struct {
	repo    *repository.Repository
	service *service.ProduksiService
}

func NewProduksiHandler(repo *repository.Repository, svc *service.ProduksiService) *ProduksiHandler {
	return &ProduksiHandler{repo: repo, service: svc}
}

// GetProduksi lists production records, optionally date-scoped
// GET /api/v1/produksi?date=YYYY-MM-DD
func (h *ProduksiHandler) GetProduksi(c *fiber.Ctx) error {
	if date := c.Query("date"); date != "" {
		return c.JSON(h.repo.Produksi.ByDate(date))
	}
	return c.JSON(h.repo.Produksi.All())
}

// GetChecklist returns today's checklist with completion state merged in
// GET /api/v1/produksi/checklist?date=YYYY-MM-DD
func (h *ProduksiHandler) GetChecklist(c *fiber.Ctx) error {
	date := c.Query("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	return c.JSON(fiber.Map{
		"timeline":  model.DailyTimeline,
		"checklist": h.service.Checklist(date),
	})
}

// CompleteStep marks a checklist step done, with the step photo when the
// SOP requires one (field name "foto" in the multipart form)
// POST /api/v1/produksi/steps/:step
func (h *ProduksiHandler) CompleteStep(c *fiber.Ctx) error {
	operator := middleware.OperatorName(c)

	reader, closeFn, _ := formPhoto(c, "foto")
	if closeFn != nil {
		defer closeFn()
	}

	rec, err := h.service.CompleteStep(c.Context(), c.Params("step"), operator, reader)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownStep):
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, service.ErrStepSelesai), errors.Is(err, service.ErrFotoRequired):
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, foto.ErrNoFile), errors.Is(err, foto.ErrImageDecode):
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(rec)
}

// DeleteProduksi removes a record
// DELETE /api/v1/produksi/:id
func (h *ProduksiHandler) DeleteProduksi(c *fiber.Ctx) error {
	if err := h.repo.Produksi.Delete(c.Params("id")); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Data dihapus"})
}
