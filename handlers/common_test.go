package handlers

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"telemed.link/repositories"
	"telemed.link/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// respondErrorStatus hatayı tek seferlik bir fiber app üzerinden geçirir ve
// dönen HTTP durum kodunu verir.
func respondErrorStatus(t *testing.T, err error) (int, string) {
	t.Helper()
	app := fiber.New()
	app.Get("/test", func(c *fiber.Ctx) error {
		return respondError(c, err)
	})

	resp, reqErr := app.Test(httptest.NewRequest("GET", "/test", nil))
	require.NoError(t, reqErr)
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)
	require.NoError(t, readErr)
	return resp.StatusCode, string(body)
}

func TestRespondError_StatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"randevu yok", services.ErrAppointmentNotFound, fiber.StatusNotFound},
		{"slot yok", services.ErrSlotNotFound, fiber.StatusNotFound},
		{"odeme hasta kaydi yok", services.ErrPaymentPatientMissing, fiber.StatusNotFound},
		{"odeme doktor kaydi yok", services.ErrPaymentDoctorMissing, fiber.StatusNotFound},
		{"randevu hasta kaydi yok", services.ErrAppointmentPatientMissing, fiber.StatusNotFound},
		{"sadakat hasta kaydi yok", services.ErrLoyaltyPatientMissing, fiber.StatusNotFound},
		{"repo not found", repositories.ErrNotFound, fiber.StatusNotFound},
		{"yetkisiz", services.ErrUnauthorized, fiber.StatusForbidden},
		{"gecersiz kimlik", services.ErrInvalidCredentials, fiber.StatusUnauthorized},
		{"sistem duraklatildi", services.ErrSystemPaused, fiber.StatusConflict},
		{"zaten doktor", services.ErrAlreadyDoctor, fiber.StatusConflict},
		{"bekleyen basvuru", services.ErrOutstandingRequest, fiber.StatusConflict},
		{"doktor dogrulanmamis", services.ErrDoctorNotVerified, fiber.StatusConflict},
		{"puan tasmasi", services.ErrRatingOverflow, fiber.StatusConflict},
		{"sadakat tasmasi", services.ErrLoyaltyOverflow, fiber.StatusConflict},
		{"cok erken rezervasyon", services.ErrBookingTooSoon, fiber.StatusUnprocessableEntity},
		{"gecersiz ucret", services.ErrInvalidDoctorFee, fiber.StatusUnprocessableEntity},
		{"gecersiz parmak izi", services.ErrInvalidFingerprint, fiber.StatusUnprocessableEntity},
		{"bilinmeyen varlik", services.ErrUnknownAsset, fiber.StatusUnprocessableEntity},
		{"gecersiz tutar", services.ErrInvalidAmount, fiber.StatusUnprocessableEntity},
		{"yetersiz odeme", services.ErrInsufficientPayment, fiber.StatusPaymentRequired},
		{"yetersiz emanet", services.ErrInsufficientEscrow, fiber.StatusPaymentRequired},
		{"token transferi", services.ErrTokenTransferFailed, fiber.StatusPaymentRequired},
		{"sigorta dogrulamasi", services.ErrInsuranceCheckFailed, fiber.StatusPaymentRequired},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := respondErrorStatus(t, tc.err)
			assert.Equal(t, tc.status, status)
			assert.Contains(t, body, tc.err.Error())
		})
	}
}

func TestRespondError_MasksUnknownErrors(t *testing.T) {
	status, body := respondErrorStatus(t, errors.New("iç detay sızmamalı"))
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Contains(t, body, "sunucu hatası")
	assert.NotContains(t, body, "iç detay")
}
