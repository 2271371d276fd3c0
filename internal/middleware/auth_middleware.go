package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/internal/service"
	"github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/pkg/jwt"
)

// RequireAuth validates the bearer token and checks it against the
// persisted session slot, then sets user info in context.
func RequireAuth(auth service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{"error": "Missing authorization token"})
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}

		claims, err := jwt.ValidateToken(parts[1])
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		// Single session per node: the token must match the current slot
		if !auth.SessionValid(claims.TokenVersion) {
			return c.Status(401).JSON(fiber.Map{"error": "Sesi berakhir, silakan login ulang"})
		}

		c.Locals("user_id", claims.UserID)
		c.Locals("user_name", claims.Nama)
		c.Locals("user_role", claims.Role)
		c.Locals("can_edit", claims.CanEdit)

		return c.Next()
	}
}

// RequireEdit gates mutating routes on the edit capability. Every mutating
// entry point carries this redundantly; there is no central check.
func RequireEdit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		canEdit, ok := c.Locals("can_edit").(bool)
		if !ok || !canEdit {
			return c.Status(403).JSON(fiber.Map{"error": "Anda tidak punya akses untuk edit"})
		}
		return c.Next()
	}
}

// RequireAdmin gates user management and destructive operations.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("user_role").(string)
		if strings.ToLower(role) != "admin" {
			return c.Status(403).JSON(fiber.Map{"error": "Hanya admin yang boleh melakukan ini"})
		}
		return c.Next()
	}
}

// OperatorName resolves the acting user's display name from context.
func OperatorName(c *fiber.Ctx) string {
	if name, ok := c.Locals("user_name").(string); ok && name != "" {
		return name
	}
	return "User"
}
