package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/internal/repository"
)

type AuditHandler struct {
	repo *repository.Repository
}

func NewAuditHandler(repo *repository.Repository) *AuditHandler {
	return &AuditHandler{repo: repo}
}

// GetAudit lists the audit trail, optionally date-scoped
// GET /api/v1/audit?date=YYYY-MM-DD
func (h *AuditHandler) GetAudit(c *fiber.Ctx) error {
	if date := c.Query("date"); date != "" {
		return c.JSON(h.repo.Audit.ByDate(date))
	}
	return c.JSON(h.repo.Audit.All())
}
