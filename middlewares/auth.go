package middlewares

import (
	"strings"

	"telemed.link/models"
	"telemed.link/services"

	"github.com/gofiber/fiber/v2"
)

// Locals anahtarları
const (
	LocalAddress = "caller_address"
	LocalRoles   = "caller_roles"
)

// RequireAuth Authorization başlığındaki Bearer tokenı doğrular ve çağıran
// adresi ile yetkilerini isteğe iliştirir.
func RequireAuth(authService services.IAuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			return fiber.NewError(fiber.StatusUnauthorized, "erişim tokenı gerekli")
		}
		claims, err := authService.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}
		c.Locals(LocalAddress, claims.Address)
		c.Locals(LocalRoles, claims.Roles)
		return c.Next()
	}
}

// RequireRole çağıranın tokenında ilgili yetki bayrağını arar. Yetkiler
// ayrıktır; admin olmak doktor uçlarına erişim vermez.
func RequireRole(role models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		roles, _ := c.Locals(LocalRoles).([]models.Role)
		for _, r := range roles {
			if r == role {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "bu işlem için yetkiniz yok")
	}
}

// CallerAddress isteğe iliştirilmiş çağıran adresini döndürür.
func CallerAddress(c *fiber.Ctx) string {
	address, _ := c.Locals(LocalAddress).(string)
	return address
}
