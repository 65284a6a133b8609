package handlers

import (
	"strconv"

	"telemed.link/middlewares"
	"telemed.link/models"
	"telemed.link/services"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler yönetim uçları: zaman kilidi, doğrulama kararı, duraklatma,
// yetki yönetimi ve olay günlüğü.
type AdminHandler struct {
	timelock     services.ITimelockService
	verification services.IVerificationService
	system       services.ISystemService
	roles        services.IRoleService
	events       services.IEventService
}

// NewAdminHandler yeni bir AdminHandler örneği oluşturur.
func NewAdminHandler() *AdminHandler {
	return &AdminHandler{
		timelock:     services.NewTimelockService(),
		verification: services.NewVerificationService(),
		system:       services.NewSystemService(),
		roles:        services.NewRoleService(),
		events:       services.NewEventService(),
	}
}

type queueRequest struct {
	Fingerprint string `json:"fingerprint"`
}

// QueueAction bir yönetim aksiyonunu zaman kilidine alır.
func (h *AdminHandler) QueueAction(c *fiber.Ctx) error {
	var req queueRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "geçersiz istek gövdesi")
	}
	unlockAt, err := h.timelock.Queue(c.UserContext(), middlewares.CallerAddress(c), req.Fingerprint)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"unlock_at": unlockAt})
}

// VerificationFingerprint doğrulama kararının zaman kilidi parmak izini
// hesaplayıp döndürür; admin önce bunu kuyruğa alır.
func (h *AdminHandler) VerificationFingerprint(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	approved := c.QueryBool("approved")
	fingerprint := services.ActionFingerprint("verification", strconv.FormatUint(uint64(id), 10), strconv.FormatBool(approved))
	return c.JSON(fiber.Map{"fingerprint": fingerprint})
}

type processRequest struct {
	Approved  bool   `json:"approved"`
	Fee       int64  `json:"fee"`
	PublicKey string `json:"public_key"`
	Specialty string `json:"specialty"`
}

// ProcessVerification kuyruğa alınmış doğrulama kararını uygular.
func (h *AdminHandler) ProcessVerification(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req processRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "geçersiz istek gövdesi")
	}
	fingerprint := services.ActionFingerprint("verification", strconv.FormatUint(uint64(id), 10), strconv.FormatBool(req.Approved))
	if err := h.verification.Process(c.UserContext(), middlewares.CallerAddress(c), id, req.Approved, req.Fee, req.PublicKey, req.Specialty, fingerprint); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type pauseRequest struct {
	Paused bool `json:"paused"`
}

// SetPaused sistemi duraklatır veya devam ettirir.
func (h *AdminHandler) SetPaused(c *fiber.Ctx) error {
	var req pauseRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "geçersiz istek gövdesi")
	}
	if err := h.system.SetPaused(c.UserContext(), middlewares.CallerAddress(c), req.Paused); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type premiumRequest struct {
	PremiumPct int `json:"premium_pct"`
}

// SetEmergencyPremium acil ücret çarpanını günceller.
func (h *AdminHandler) SetEmergencyPremium(c *fiber.Ctx) error {
	var req premiumRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "geçersiz istek gövdesi")
	}
	if err := h.system.SetEmergencyPremium(c.UserContext(), middlewares.CallerAddress(c), req.PremiumPct); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SystemState sistemin duraklatma durumunu ve acil çarpanı döndürür.
func (h *AdminHandler) SystemState(c *fiber.Ctx) error {
	state, err := h.system.GetState(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"paused":                state.Paused,
		"emergency_premium_pct": state.EmergencyPremiumPct,
	})
}

type roleRequest struct {
	Address string `json:"address"`
	Role    string `json:"role"`
}

// GrantRole hedef adrese yetki verir.
func (h *AdminHandler) GrantRole(c *fiber.Ctx) error {
	var req roleRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "geçersiz istek gövdesi")
	}
	if err := h.roles.Grant(c.UserContext(), middlewares.CallerAddress(c), req.Address, models.Role(req.Role)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RevokeRole hedef adresten yetkiyi alır.
func (h *AdminHandler) RevokeRole(c *fiber.Ctx) error {
	var req roleRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "geçersiz istek gövdesi")
	}
	if err := h.roles.Revoke(c.UserContext(), middlewares.CallerAddress(c), req.Address, models.Role(req.Role)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListEvents olay günlüğünü sıra numarasından itibaren okur.
func (h *AdminHandler) ListEvents(c *fiber.Ctx) error {
	from := uint64(c.QueryInt("from", 1))
	limit := c.QueryInt("limit", 100)
	events, err := h.events.ReadEvents(from, limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"events": events})
}
