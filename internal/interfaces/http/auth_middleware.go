package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/invorya/stock-core/internal/application/dto"
	"github.com/invorya/stock-core/pkg/jwt"
)

// Locals keys para la identidad del usuario en Fiber.
const (
	LocalUserID   = "user_id"
	LocalUserName = "user_name"
)

// AuthMiddleware valida el Bearer Token JWT (emitido por el servicio de
// autenticación del panel) y extrae UserID y UserName a c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		userID, userName, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalUserID, userID)
		c.Locals(LocalUserName, userName)
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	v := c.Locals(LocalUserID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetUserName devuelve el UserName del contexto (después del middleware de auth).
func GetUserName(c *fiber.Ctx) string {
	v := c.Locals(LocalUserName)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
