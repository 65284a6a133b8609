package handlers

import (
	"telemed.link/services"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler oturum açma ve hasta kaydı uçları.
type AuthHandler struct {
	auth     services.IAuthService
	patients services.IPatientService
}

// NewAuthHandler yeni bir AuthHandler örneği oluşturur.
func NewAuthHandler() *AuthHandler {
	return &AuthHandler{
		auth:     services.NewAuthService(),
		patients: services.NewPatientService(),
	}
}

type registerRequest struct {
	Address             string `json:"address"`
	Secret              string `json:"secret"`
	MedicalHistoryHash  string `json:"medical_history_hash"`
	EncryptedKey        string `json:"encrypted_key"`
	InsuranceProvider   string `json:"insurance_provider"`
	DIDFingerprint      string `json:"did_fingerprint"`
	NotifyPrefs         string `json:"notify_prefs"`
	MonetizationConsent bool   `json:"monetization_consent"`
}

// Register yeni hasta hesabı oluşturur.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "geçersiz istek gövdesi")
	}
	patient, err := h.patients.Register(c.UserContext(), services.RegisterPatientInput{
		Address:             req.Address,
		Secret:              req.Secret,
		MedicalHistoryHash:  req.MedicalHistoryHash,
		EncryptedKey:        req.EncryptedKey,
		InsuranceProvider:   req.InsuranceProvider,
		DIDFingerprint:      req.DIDFingerprint,
		NotifyPrefs:         req.NotifyPrefs,
		MonetizationConsent: req.MonetizationConsent,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"address": patient.Address})
}

type loginRequest struct {
	Address string `json:"address"`
	Secret  string `json:"secret"`
}

// Login adres ve gizli anahtar ile erişim tokenı verir.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "geçersiz istek gövdesi")
	}
	token, err := h.auth.Login(c.UserContext(), req.Address, req.Secret)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"token": token})
}
