package handler

import (
	"encoding/base64"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/internal/foto"
	"github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/internal/middleware"
)

type FotoHandler struct {
	pipeline *foto.Pipeline
	logger   *zap.Logger
}

func NewFotoHandler(pipeline *foto.Pipeline, logger *zap.Logger) *FotoHandler {
	return &FotoHandler{pipeline: pipeline, logger: logger}
}

// Capture watermarks one uploaded photo and returns the JPEG. Optional
// fields: "context" (what the photo documents) and "output" = json for a
// base64 payload instead of raw bytes.
// POST /api/v1/foto
func (h *FotoHandler) Capture(c *fiber.Ctx) error {
	reader, closeFn, err := formPhoto(c, "foto")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	if reader == nil {
		return c.Status(400).JSON(fiber.Map{"error": foto.ErrNoFile.Error()})
	}
	defer closeFn()

	operator := middleware.OperatorName(c)
	data, err := h.pipeline.Capture(c.Context(), reader, operator)
	if err != nil {
		if errors.Is(err, foto.ErrImageDecode) {
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}

	ctxName := c.FormValue("context", "Dokumentasi")
	filename := foto.Filename("SPPG_MBG", ctxName, operator, time.Now())

	if c.FormValue("output") == "json" {
		return c.JSON(fiber.Map{
			"filename": filename,
			"foto":     "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data),
		})
	}
	c.Set("Content-Type", "image/jpeg")
	c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

// CaptureBatch watermarks every file in the "foto" field. Files that fail
// to decode are skipped, the rest come back as base64 payloads.
// POST /api/v1/foto/batch
func (h *FotoHandler) CaptureBatch(c *fiber.Ctx) error {
	headers, err := formPhotos(c, "foto")
	if err != nil || len(headers) == 0 {
		return c.Status(400).JSON(fiber.Map{"error": foto.ErrNoFile.Error()})
	}

	files := make([]foto.File, 0, len(headers))
	var closers []func()
	defer func() {
		for _, end := range closers {
			end()
		}
	}()
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			h.logger.Warn("file batch tidak bisa dibuka", zap.String("name", fh.Filename), zap.Error(err))
			continue
		}
		closers = append(closers, func() { f.Close() })
		files = append(files, foto.File{Name: fh.Filename, R: f})
	}

	tag := c.FormValue("context", "Dokumentasi")
	results := h.pipeline.CaptureBatch(c.Context(), files, middleware.OperatorName(c), tag, nil)

	out := make([]fiber.Map, 0, len(results))
	for _, r := range results {
		out = append(out, fiber.Map{
			"original": r.Original,
			"filename": r.Filename,
			"foto":     "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(r.Data),
		})
	}
	return c.JSON(fiber.Map{
		"total":     len(files),
		"processed": len(results),
		"results":   out,
	})
}
