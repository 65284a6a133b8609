package handlers

import (
	"telemed.link/middlewares"
	"telemed.link/services"

	"github.com/gofiber/fiber/v2"
)

// PatientHandler hasta tarafı uçları: profil, cüzdan, sadakat.
type PatientHandler struct {
	patients services.IPatientService
	payments services.IPaymentService
	loyalty  services.ILoyaltyService
}

// NewPatientHandler yeni bir PatientHandler örneği oluşturur.
func NewPatientHandler() *PatientHandler {
	return &PatientHandler{
		patients: services.NewPatientService(),
		payments: services.NewPaymentService(),
		loyalty:  services.NewLoyaltyService(),
	}
}

// Me çağıran hastanın profilini döndürür.
func (h *PatientHandler) Me(c *fiber.Ctx) error {
	patient, err := h.patients.GetByAddress(c.UserContext(), middlewares.CallerAddress(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(patient)
}

type consentRequest struct {
	Consent bool `json:"consent"`
}

// SetMonetizationConsent anonimleştirilmiş veri paylaşım iznini günceller.
func (h *PatientHandler) SetMonetizationConsent(c *fiber.Ctx) error {
	var req consentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "geçersiz istek gövdesi")
	}
	if err := h.patients.SetMonetizationConsent(c.UserContext(), middlewares.CallerAddress(c), req.Consent); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type depositRequest struct {
	Amount int64 `json:"amount"`
}

// Deposit itibari para geçidinden cüzdana bakiye yükler.
func (h *PatientHandler) Deposit(c *fiber.Ctx) error {
	var req depositRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "geçersiz istek gövdesi")
	}
	balance, err := h.payments.Deposit(c.UserContext(), middlewares.CallerAddress(c), req.Amount)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"balance": balance})
}

// WalletBalance cüzdan bakiyesini döndürür.
func (h *PatientHandler) WalletBalance(c *fiber.Ctx) error {
	balance, err := h.payments.WalletBalance(c.UserContext(), middlewares.CallerAddress(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"balance": balance})
}

// LoyaltyState hastanın sadakat durumunu ve güncel indirim yüzdesini döndürür.
func (h *PatientHandler) LoyaltyState(c *fiber.Ctx) error {
	state, discount, err := h.loyalty.GetState(c.UserContext(), middlewares.CallerAddress(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"points":           state.Points,
		"level":            state.Level,
		"level_expires_at": state.LevelExpiresAt,
		"discount_pct":     discount,
	})
}

// DailyCheckIn günlük giriş puanı verir.
func (h *PatientHandler) DailyCheckIn(c *fiber.Ctx) error {
	points, err := h.loyalty.DailyCheckIn(c.UserContext(), middlewares.CallerAddress(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"points": points})
}

type optInRequest struct {
	OptIn bool `json:"opt_in"`
}

// SetLeaderboardOptIn skor tablosu görünürlüğünü günceller.
func (h *PatientHandler) SetLeaderboardOptIn(c *fiber.Ctx) error {
	var req optInRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "geçersiz istek gövdesi")
	}
	if err := h.loyalty.SetLeaderboardOptIn(c.UserContext(), middlewares.CallerAddress(c), req.OptIn); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
