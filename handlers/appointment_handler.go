package handlers

import (
	"time"

	"telemed.link/middlewares"
	"telemed.link/models"
	"telemed.link/services"

	"github.com/gofiber/fiber/v2"
)

// AppointmentHandler randevu yaşam döngüsü uçları.
type AppointmentHandler struct {
	service services.IAppointmentService
}

// NewAppointmentHandler yeni bir AppointmentHandler örneği oluşturur.
func NewAppointmentHandler() *AppointmentHandler {
	return &AppointmentHandler{
		service: services.NewAppointmentService(),
	}
}

type bookRequest struct {
	DoctorAddress  string    `json:"doctor_address"`
	ScheduledAt    time.Time `json:"scheduled_at"`
	Asset          uint8     `json:"asset"`
	AmountSupplied int64     `json:"amount_supplied"`
	UseInsurance   bool      `json:"use_insurance"`
	Referrer       string    `json:"referrer"`
	EncryptedKey   string    `json:"encrypted_key"`
}

func (r bookRequest) toInput(patientAddress string) services.BookingInput {
	return services.BookingInput{
		PatientAddress: patientAddress,
		DoctorAddress:  r.DoctorAddress,
		ScheduledAt:    r.ScheduledAt,
		Asset:          models.AssetKind(r.Asset),
		AmountSupplied: r.AmountSupplied,
		UseInsurance:   r.UseInsurance,
		Referrer:       r.Referrer,
		EncryptedKey:   r.EncryptedKey,
	}
}

// Book sıradan randevu oluşturur.
func (h *AppointmentHandler) Book(c *fiber.Ctx) error {
	var req bookRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "geçersiz istek gövdesi")
	}
	appointment, err := h.service.Book(c.UserContext(), req.toInput(middlewares.CallerAddress(c)))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(appointment)
}

// BookEmergency acil randevu oluşturur; randevu saati sunucu tarafından atanır.
func (h *AppointmentHandler) BookEmergency(c *fiber.Ctx) error {
	var req bookRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "geçersiz istek gövdesi")
	}
	appointment, err := h.service.BookEmergency(c.UserContext(), req.toInput(middlewares.CallerAddress(c)))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(appointment)
}

// Confirm atanmış doktor bekleyen randevuyu onaylar.
func (h *AppointmentHandler) Confirm(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.service.Confirm(c.UserContext(), middlewares.CallerAddress(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"status": models.StatusConfirmed.String()})
}

type diagnosisRequest struct {
	DiagnosisHash string `json:"diagnosis_hash"`
	EncryptedKey  string `json:"encrypted_key"`
}

// AttachAIResult randevuya tanı parmak izini iliştirir.
func (h *AppointmentHandler) AttachAIResult(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req diagnosisRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "geçersiz istek gövdesi")
	}
	if err := h.service.AttachAIResult(c.UserContext(), middlewares.CallerAddress(c), id, req.DiagnosisHash, req.EncryptedKey); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Cancel hasta randevusunu iptal eder; ücret iade edilir.
func (h *AppointmentHandler) Cancel(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.service.Cancel(c.UserContext(), middlewares.CallerAddress(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"status": models.StatusCancelled.String()})
}

// Complete atanmış doktor randevuyu tamamlar.
func (h *AppointmentHandler) Complete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.service.Complete(c.UserContext(), middlewares.CallerAddress(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"status": models.StatusCompleted.String()})
}

type rateRequest struct {
	Rating int `json:"rating"`
}

// Rate hasta tamamlanan randevuyu puanlar.
func (h *AppointmentHandler) Rate(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req rateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "geçersiz istek gövdesi")
	}
	if err := h.service.Rate(c.UserContext(), middlewares.CallerAddress(c), id, req.Rating); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Get tek randevuyu getirir; yalnızca taraflar ve admin.
func (h *AppointmentHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	appointment, err := h.service.GetByID(c.UserContext(), middlewares.CallerAddress(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(appointment)
}

// ListMine çağıranın hasta randevularını listeler.
func (h *AppointmentHandler) ListMine(c *fiber.Ctx) error {
	result, err := h.service.ListForPatient(c.UserContext(), middlewares.CallerAddress(c), parseListParams(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// ListForDoctor çağıran doktorun randevularını listeler.
func (h *AppointmentHandler) ListForDoctor(c *fiber.Ctx) error {
	result, err := h.service.ListForDoctor(c.UserContext(), middlewares.CallerAddress(c), parseListParams(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}
