package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/internal/service"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Phone string `json:"phone"`
	Pin   string `json:"pin"`
}

// Login handles phone + PIN authentication
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if req.Phone == "" || req.Pin == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Nomor HP dan PIN wajib diisi"})
	}

	response, err := h.authService.Login(req.Phone, req.Pin)
	if err != nil {
		if errors.Is(err, service.ErrNotRegistered) ||
			errors.Is(err, service.ErrInactive) ||
			errors.Is(err, service.ErrWrongPin) {
			return c.Status(401).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(response)
}

// Logout clears the session slot
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.authService.Logout(); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Gagal logout"})
	}
	return c.JSON(fiber.Map{"message": "Logout berhasil"})
}

// Me returns the persisted session user
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, ok := h.authService.CurrentUser()
	if !ok {
		return c.Status(401).JSON(fiber.Map{"error": "Belum login"})
	}
	return c.JSON(user)
}
