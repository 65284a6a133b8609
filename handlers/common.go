package handlers

import (
	"errors"

	"telemed.link/configs/configslog"
	"telemed.link/pkg/queryparams"
	"telemed.link/repositories"
	"telemed.link/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// respondError servis hatalarını HTTP durum kodlarına çevirir. Alan adları ve
// mesajlar servis katmanından geldiği gibi döndürülür; beklenmeyen hatalar
// loglanır ve 500 olarak maskelenir.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError

	switch {
	case errors.Is(err, services.ErrAppointmentNotFound),
		errors.Is(err, services.ErrRequestNotFound),
		errors.Is(err, services.ErrPatientNotFound),
		errors.Is(err, services.ErrAccountNotFound),
		errors.Is(err, services.ErrSlotNotFound),
		errors.Is(err, services.ErrAppointmentPatientMissing),
		errors.Is(err, services.ErrPaymentPatientMissing),
		errors.Is(err, services.ErrPaymentDoctorMissing),
		errors.Is(err, services.ErrLoyaltyPatientMissing),
		errors.Is(err, repositories.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrUnauthorized),
		errors.Is(err, services.ErrAppointmentForbidden):
		status = fiber.StatusForbidden
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrTokenInvalid):
		status = fiber.StatusUnauthorized
	case errors.Is(err, services.ErrSystemPaused),
		errors.Is(err, services.ErrSystemNotPaused),
		errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrAlreadyRated),
		errors.Is(err, services.ErrSlotUnavailable),
		errors.Is(err, services.ErrTimelockExists),
		errors.Is(err, services.ErrTimelockNotElapsed),
		errors.Is(err, services.ErrRequestProcessed),
		errors.Is(err, services.ErrRequestExpired),
		errors.Is(err, services.ErrPatientExists),
		errors.Is(err, services.ErrAlreadyDoctor),
		errors.Is(err, services.ErrOutstandingRequest),
		errors.Is(err, services.ErrDoctorNotVerified),
		errors.Is(err, services.ErrRatingOverflow),
		errors.Is(err, services.ErrLoyaltyOverflow),
		errors.Is(err, services.ErrCheckInTooSoon):
		status = fiber.StatusConflict
	case isValidationError(err):
		status = fiber.StatusUnprocessableEntity
	case errors.Is(err, services.ErrInsufficientPayment),
		errors.Is(err, services.ErrInsufficientWallet),
		errors.Is(err, services.ErrInsufficientEscrow),
		errors.Is(err, services.ErrTokenTransferFailed),
		errors.Is(err, services.ErrInsuranceCheckFailed),
		errors.Is(err, services.ErrNothingToWithdraw):
		status = fiber.StatusPaymentRequired
	}

	if status == fiber.StatusInternalServerError {
		configslog.Log.Error("Beklenmeyen handler hatası", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(status).JSON(fiber.Map{"error": "sunucu hatası"})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func isValidationError(err error) bool {
	validation := []error{
		services.ErrBookingTooSoon,
		services.ErrCancelTooLate,
		services.ErrCancelEmergency,
		services.ErrCompletionTooEarly,
		services.ErrEmergencyExpired,
		services.ErrRatingOutOfRange,
		services.ErrDiagnosisNotWritable,
		services.ErrDoctorUnavailable,
		services.ErrLicenseTooShort,
		services.ErrDocumentTooLong,
		services.ErrSlotTooSoon,
		services.ErrBatchLengthMismatch,
		services.ErrEmptyBatch,
		services.ErrSecretTooShort,
		services.ErrInvalidAddress,
		services.ErrDIDVerificationFailed,
		services.ErrInvalidPremium,
		services.ErrInvalidRole,
		services.ErrTimelockNotQueued,
		services.ErrInvalidDoctorFee,
		services.ErrInvalidFingerprint,
		services.ErrUnknownAsset,
		services.ErrInvalidAmount,
	}
	for _, v := range validation {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}

// parseID yol parametresindeki ID'yi okur.
func parseID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "geçersiz ID")
	}
	return uint(id), nil
}

// parseListParams sorgu parametrelerinden sayfalama ayarlarını okur.
func parseListParams(c *fiber.Ctx) queryparams.ListParams {
	var params queryparams.ListParams
	if err := c.QueryParser(&params); err != nil {
		params = queryparams.ListParams{}
	}
	params.Validate()
	return params
}
