package handler

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/internal/foto"
	"github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/internal/middleware"
	"github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/internal/model"
	"github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/internal/repository"
	"github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/internal/service"
	"github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/pkg/validator"
)

type DistribusiHandler struct {
	repo    *repository.Repository
	service *service.DistribusiService
}

func NewDistribusiHandler(repo *repository.Repository, svc *service.DistribusiService) *DistribusiHandler {
	return &DistribusiHandler{repo: repo, service: svc}
}

// GetDistribusi lists deliveries, optionally date-scoped
// GET /api/v1/distribusi?date=YYYY-MM-DD
func (h *DistribusiHandler) GetDistribusi(c *fiber.Ctx) error {
	if date := c.Query("date"); date != "" {
		return c.JSON(h.repo.Distribusi.ByDate(date))
	}
	return c.JSON(h.repo.Distribusi.All())
}

// GetDistribusiByID fetches a single delivery
// GET /api/v1/distribusi/:id
func (h *DistribusiHandler) GetDistribusiByID(c *fiber.Ctx) error {
	rec, ok := h.repo.Distribusi.ByID(c.Params("id"))
	if !ok {
		return c.Status(404).JSON(fiber.Map{"error": "Data distribusi tidak ditemukan"})
	}
	return c.JSON(rec)
}

// CreateDistribusi registers a new delivery, status pending
// POST /api/v1/distribusi
func (h *DistribusiHandler) CreateDistribusi(c *fiber.Ctx) error {
	var req model.Distribusi
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		return c.Status(400).JSON(fiber.Map{
			"error": fmt.Sprintf("Validation failed: Field '%s' failed on tag '%s'", errs[0].FailedField, errs[0].Tag),
		})
	}
	if req.Status == "" {
		req.Status = model.StatusPending
	}
	return c.Status(201).JSON(h.repo.Distribusi.Add(&req))
}

// UpdateDistribusi patches a delivery. Status changes go through the
// dedicated transition endpoints, not here.
// PUT /api/v1/distribusi/:id
func (h *DistribusiHandler) UpdateDistribusi(c *fiber.Ctx) error {
	var patch map[string]any
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	delete(patch, "status")
	rec, err := h.repo.Distribusi.Update(c.Params("id"), patch)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Data distribusi tidak ditemukan"})
		}
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(rec)
}

// Berangkat marks a delivery as departed
// POST /api/v1/distribusi/:id/berangkat
func (h *DistribusiHandler) Berangkat(c *fiber.Ctx) error {
	rec, err := h.service.Advance(c.Params("id"), model.StatusBerangkat)
	if err != nil {
		return transitionError(c, err)
	}
	return c.JSON(rec)
}

// Tiba completes a delivery with the arrival photo (multipart field "foto").
// The status only moves to selesai when the watermark pipeline succeeds.
// POST /api/v1/distribusi/:id/tiba
func (h *DistribusiHandler) Tiba(c *fiber.Ctx) error {
	reader, closeFn, err := formPhoto(c, "foto")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	if reader == nil {
		return c.Status(400).JSON(fiber.Map{"error": "foto kedatangan wajib dilampirkan"})
	}
	defer closeFn()

	rec, err := h.service.CompleteWithFoto(c.Context(), c.Params("id"), reader, middleware.OperatorName(c))
	if err != nil {
		switch {
		case errors.Is(err, foto.ErrNoFile), errors.Is(err, foto.ErrImageDecode):
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		return transitionError(c, err)
	}
	return c.JSON(rec)
}

// GetKloters rolls today's deliveries up per wave
// GET /api/v1/distribusi/kloter?date=YYYY-MM-DD
func (h *DistribusiHandler) GetKloters(c *fiber.Ctx) error {
	date := c.Query("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	return c.JSON(h.service.KloterSummary(date))
}

// DeleteDistribusi removes a delivery
// DELETE /api/v1/distribusi/:id
func (h *DistribusiHandler) DeleteDistribusi(c *fiber.Ctx) error {
	if err := h.repo.Distribusi.Delete(c.Params("id")); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Data dihapus"})
}

func transitionError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.Status(404).JSON(fiber.Map{"error": "Data distribusi tidak ditemukan"})
	case errors.Is(err, service.ErrStatusMundur):
		return c.Status(409).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(500).JSON(fiber.Map{"error": err.Error()})
}
