package handlers

import (
	"time"

	"telemed.link/middlewares"
	"telemed.link/services"

	"github.com/gofiber/fiber/v2"
)

// DoctorHandler doktor tarafı uçları: doğrulama başvurusu, takvim, emanet.
type DoctorHandler struct {
	verification services.IVerificationService
	calendar     services.ICalendarService
	payments     services.IPaymentService
}

// NewDoctorHandler yeni bir DoctorHandler örneği oluşturur.
func NewDoctorHandler() *DoctorHandler {
	return &DoctorHandler{
		verification: services.NewVerificationService(),
		calendar:     services.NewCalendarService(),
		payments:     services.NewPaymentService(),
	}
}

type verificationRequestBody struct {
	License     string `json:"license"`
	DocumentRef string `json:"document_ref"`
}

// RequestVerification doktor doğrulama başvurusu yapar.
func (h *DoctorHandler) RequestVerification(c *fiber.Ctx) error {
	var req verificationRequestBody
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "geçersiz istek gövdesi")
	}
	request, err := h.verification.Request(c.UserContext(), middlewares.CallerAddress(c), req.License, req.DocumentRef)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"request_id":   request.ID,
		"requested_at": request.RequestedAt,
	})
}

type slotBatchRequest struct {
	Timestamps []time.Time `json:"timestamps"`
	Available  []bool      `json:"available"`
}

// SetAvailability doktorun takvim slotlarını toplu günceller.
func (h *DoctorHandler) SetAvailability(c *fiber.Ctx) error {
	var req slotBatchRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "geçersiz istek gövdesi")
	}
	if err := h.calendar.SetBatch(c.UserContext(), middlewares.CallerAddress(c), req.Timestamps, req.Available); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListAvailability bir doktorun açık slotlarını listeler. Kimliği doğrulanmış
// herkes okuyabilir; hasta rezervasyon öncesi buradan seçer.
func (h *DoctorHandler) ListAvailability(c *fiber.Ctx) error {
	address := c.Params("address")
	if address == "" {
		return fiber.NewError(fiber.StatusBadRequest, "geçersiz adres")
	}
	slots, err := h.calendar.ListSlots(c.UserContext(), address)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"slots": slots})
}

// EmergencyWithdraw doktor sistem duraklatılmışken emanet bakiyesini çeker.
func (h *DoctorHandler) EmergencyWithdraw(c *fiber.Ctx) error {
	amount, err := h.payments.EmergencyWithdraw(c.UserContext(), middlewares.CallerAddress(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"withdrawn": amount})
}
