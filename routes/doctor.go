package routes

import (
	"telemed.link/handlers"
	"telemed.link/middlewares"
	"telemed.link/models"

	"github.com/gofiber/fiber/v2"
)

func registerDoctorRoutes(app *fiber.App, authRequired fiber.Handler) {
	doctorHandler := handlers.NewDoctorHandler()
	appointmentHandler := handlers.NewAppointmentHandler()

	group := app.Group("/doctor")
	group.Use(authRequired)

	// Doğrulama başvurusu henüz doktor yetkisi olmayan adresten gelir.
	group.Post("/verification", doctorHandler.RequestVerification)

	verified := group.Group("")
	verified.Use(middlewares.RequireRole(models.RoleDoctor))

	verified.Put("/availability", doctorHandler.SetAvailability)
	verified.Get("/appointments", appointmentHandler.ListForDoctor)
	verified.Get("/appointments/:id", appointmentHandler.Get)
	verified.Post("/appointments/:id/confirm", appointmentHandler.Confirm)
	verified.Post("/appointments/:id/diagnosis", appointmentHandler.AttachAIResult)
	verified.Post("/appointments/:id/complete", appointmentHandler.Complete)
	verified.Post("/escrow/emergency-withdraw", doctorHandler.EmergencyWithdraw)
}
