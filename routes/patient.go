package routes

import (
	"telemed.link/handlers"
	"telemed.link/middlewares"
	"telemed.link/models"

	"github.com/gofiber/fiber/v2"
)

func registerPatientRoutes(app *fiber.App, authRequired fiber.Handler) {
	patientHandler := handlers.NewPatientHandler()
	appointmentHandler := handlers.NewAppointmentHandler()
	doctorHandler := handlers.NewDoctorHandler()

	group := app.Group("/patient")
	group.Use(authRequired)
	group.Use(middlewares.RequireRole(models.RolePatient))

	group.Get("/me", patientHandler.Me)
	group.Put("/consent", patientHandler.SetMonetizationConsent)

	group.Post("/wallet/deposit", patientHandler.Deposit)
	group.Get("/wallet", patientHandler.WalletBalance)

	group.Get("/loyalty", patientHandler.LoyaltyState)
	group.Post("/loyalty/check-in", patientHandler.DailyCheckIn)
	group.Put("/loyalty/leaderboard", patientHandler.SetLeaderboardOptIn)

	group.Get("/doctors/:address/slots", doctorHandler.ListAvailability)

	group.Post("/appointments", appointmentHandler.Book)
	group.Post("/appointments/emergency", appointmentHandler.BookEmergency)
	group.Get("/appointments", appointmentHandler.ListMine)
	group.Get("/appointments/:id", appointmentHandler.Get)
	group.Post("/appointments/:id/cancel", appointmentHandler.Cancel)
	group.Post("/appointments/:id/rate", appointmentHandler.Rate)
}
