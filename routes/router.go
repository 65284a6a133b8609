package routes

import (
	"telemed.link/middlewares"
	"telemed.link/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	recoverMiddleware "github.com/gofiber/fiber/v2/middleware/recover"
)

// SetupRoutes tüm uygulama rotalarını ve genel middleware'leri ayarlar.
func SetupRoutes(app *fiber.App) {
	app.Use(recoverMiddleware.New()) // Panic yakalama
	app.Use(logger.New())            // İstek loglama

	authService := services.NewAuthService()
	authRequired := middlewares.RequireAuth(authService)

	registerAuthRoutes(app)                  // /auth rotaları (açık)
	registerPatientRoutes(app, authRequired) // /patient rotaları
	registerDoctorRoutes(app, authRequired)  // /doctor rotaları
	registerAdminRoutes(app, authRequired)   // /admin rotaları

	// Eşleşmeyen tüm rotalar
	app.Use(notFoundHandler)
}

func notFoundHandler(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "kaynak bulunamadı"})
}
