package handler

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/internal/model"
	"github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/internal/repository"
	"github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/pkg/validator"
)

type UserHandler struct {
	repo *repository.Repository
}

func NewUserHandler(repo *repository.Repository) *UserHandler {
	return &UserHandler{repo: repo}
}

// GetUsers lists all users
// GET /api/v1/users
func (h *UserHandler) GetUsers(c *fiber.Ctx) error {
	return c.JSON(h.repo.Users.All())
}

// GetUser fetches one user by ID
// GET /api/v1/users/:id
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	user, ok := h.repo.Users.ByID(c.Params("id"))
	if !ok {
		return c.Status(404).JSON(fiber.Map{"error": "User tidak ditemukan"})
	}
	return c.JSON(user)
}

// CreateUser registers a user. A duplicate phone silently returns the
// existing record, so re-imports never fork accounts.
// POST /api/v1/users
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var req model.User
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		return c.Status(400).JSON(fiber.Map{
			"error": fmt.Sprintf("Validation failed: Field '%s' failed on tag '%s'", errs[0].FailedField, errs[0].Tag),
		})
	}
	if req.Status == "" {
		req.Status = model.StatusActive
	}
	return c.Status(201).JSON(h.repo.Users.Add(&req))
}

// UpdateUser patches a user
// PUT /api/v1/users/:id
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	var patch map[string]any
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	user, err := h.repo.Users.Update(c.Params("id"), patch)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "User tidak ditemukan"})
		}
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(user)
}

// DeleteUser removes a user
// DELETE /api/v1/users/:id
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	if err := h.repo.Users.Delete(c.Params("id")); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "User dihapus"})
}

// GetRoles lists the role vocabulary with friendly labels
// GET /api/v1/roles
func (h *UserHandler) GetRoles(c *fiber.Ctx) error {
	roles := []string{"admin", "editor", "viewer", "koordinator", "staff", "aslab", "relawan"}
	out := make([]fiber.Map, 0, len(roles))
	for _, r := range roles {
		out = append(out, fiber.Map{
			"role":    r,
			"label":   model.RoleLabel(r),
			"canEdit": model.CanEdit(r),
		})
	}
	return c.JSON(out)
}
