package routes

import (
	"telemed.link/handlers"
	"telemed.link/middlewares"
	"telemed.link/models"

	"github.com/gofiber/fiber/v2"
)

func registerAdminRoutes(app *fiber.App, authRequired fiber.Handler) {
	adminHandler := handlers.NewAdminHandler()

	group := app.Group("/admin")
	group.Use(authRequired)
	group.Use(middlewares.RequireRole(models.RoleAdmin))

	group.Post("/timelock", adminHandler.QueueAction)
	group.Get("/verifications/:id/fingerprint", adminHandler.VerificationFingerprint)
	group.Post("/verifications/:id/process", adminHandler.ProcessVerification)

	group.Get("/system", adminHandler.SystemState)
	group.Put("/system/pause", adminHandler.SetPaused)
	group.Put("/system/emergency-premium", adminHandler.SetEmergencyPremium)

	group.Post("/roles/grant", adminHandler.GrantRole)
	group.Post("/roles/revoke", adminHandler.RevokeRole)

	group.Get("/events", adminHandler.ListEvents)
}
