package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"telemed.link/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type paymentFixture struct {
	svc      *PaymentService
	patients *memPatients
	doctors  *memDoctors
	system   *memSystem
	events   *memEvents
	ramp     *fakeRamp
	tokens   *fakeTokens
	now      time.Time
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()
	now := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

	f := &paymentFixture{
		patients: newMemPatients(),
		doctors:  newMemDoctors(),
		system:   newMemSystem(),
		events:   &memEvents{},
		ramp:     &fakeRamp{},
		tokens:   &fakeTokens{},
		now:      now,
	}
	require.NoError(t, f.patients.Create(context.Background(), &models.Patient{
		Address: testPatient, WalletBalance: 500,
		Loyalty: models.LoyaltyState{Level: 1},
	}))
	require.NoError(t, f.doctors.Create(context.Background(), &models.Doctor{
		Address: testDoctor, ConsultationFee: 100, EscrowBalance: 250, IsVerified: true,
	}))

	f.svc = &PaymentService{
		patients:  f.patients,
		doctors:   f.doctors,
		system:    f.system,
		tx:        stubTx{},
		events:    f.events,
		insurance: fakeInsurance{},
		tokens:    f.tokens,
		fiat:      f.ramp,
		now:       fixedClock(now),
	}
	return f
}

func TestDeposit_AddsToWallet(t *testing.T) {
	f := newPaymentFixture(t)

	balance, err := f.svc.Deposit(context.Background(), testPatient, 300)
	require.NoError(t, err)
	assert.Equal(t, int64(800), balance)
	assert.Equal(t, int64(800), f.patients.byAddr[testPatient].WalletBalance)
}

func TestDeposit_Validation(t *testing.T) {
	f := newPaymentFixture(t)

	_, err := f.svc.Deposit(context.Background(), testPatient, 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = f.svc.Deposit(context.Background(), testPatient, -5)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = f.svc.Deposit(context.Background(), "kayitsiz", 100)
	assert.ErrorIs(t, err, ErrPaymentPatientMissing)
}

func TestDeposit_Paused(t *testing.T) {
	f := newPaymentFixture(t)
	f.system.state.Paused = true

	_, err := f.svc.Deposit(context.Background(), testPatient, 100)
	assert.ErrorIs(t, err, ErrSystemPaused)
	assert.Equal(t, int64(500), f.patients.byAddr[testPatient].WalletBalance)
}

func TestDeposit_RampFailureAborts(t *testing.T) {
	f := newPaymentFixture(t)
	f.ramp.onRampErr = errors.New("ramp kapalı")

	_, err := f.svc.Deposit(context.Background(), testPatient, 100)
	assert.Error(t, err)
	assert.Equal(t, int64(500), f.patients.byAddr[testPatient].WalletBalance)
}

func TestWalletBalance(t *testing.T) {
	f := newPaymentFixture(t)

	balance, err := f.svc.WalletBalance(context.Background(), testPatient)
	require.NoError(t, err)
	assert.Equal(t, int64(500), balance)

	_, err = f.svc.WalletBalance(context.Background(), "kayitsiz")
	assert.ErrorIs(t, err, ErrPaymentPatientMissing)
}

func TestEmergencyWithdraw_OnlyWhilePaused(t *testing.T) {
	f := newPaymentFixture(t)

	_, err := f.svc.EmergencyWithdraw(context.Background(), testDoctor)
	assert.ErrorIs(t, err, ErrSystemNotPaused)
	assert.Equal(t, int64(250), f.doctors.byAddr[testDoctor].EscrowBalance)
}

func TestEmergencyWithdraw_DrainsEscrow(t *testing.T) {
	f := newPaymentFixture(t)
	f.system.state.Paused = true

	amount, err := f.svc.EmergencyWithdraw(context.Background(), testDoctor)
	require.NoError(t, err)
	assert.Equal(t, int64(250), amount)
	assert.Equal(t, int64(250), f.ramp.offRamped)
	assert.Equal(t, int64(0), f.doctors.byAddr[testDoctor].EscrowBalance)
	assert.Contains(t, f.events.types(), EventEmergencyWithdrawal)

	// İkinci çağrıda çekilecek bir şey kalmaz.
	_, err = f.svc.EmergencyWithdraw(context.Background(), testDoctor)
	assert.ErrorIs(t, err, ErrNothingToWithdraw)
}

func TestQuoteFee_LoyaltyThenInsurance(t *testing.T) {
	f := newPaymentFixture(t)
	doctor := f.doctors.byAddr[testDoctor]
	patient := f.patients.byAddr[testPatient]

	// Seviye 1: %5 indirim.
	fee, claimed, err := f.svc.quoteFee(context.Background(), doctor, patient, 0, false)
	require.NoError(t, err)
	assert.Equal(t, int64(95), fee)
	assert.False(t, claimed)

	// Sigorta indirimi sadakat sonrası tutara uygulanır: 95 -> 76.
	f.svc.insurance = fakeInsurance{covered: true, pct: 20}
	fee, claimed, err = f.svc.quoteFee(context.Background(), doctor, patient, 0, true)
	require.NoError(t, err)
	assert.Equal(t, int64(76), fee)
	assert.True(t, claimed)

	// Kapsam yoksa sigorta bayrağı talep edilmiş sayılmaz.
	f.svc.insurance = fakeInsurance{covered: false}
	fee, claimed, err = f.svc.quoteFee(context.Background(), doctor, patient, 0, true)
	require.NoError(t, err)
	assert.Equal(t, int64(95), fee)
	assert.False(t, claimed)
}

func TestQuoteFee_ClampsAndFloors(t *testing.T) {
	f := newPaymentFixture(t)
	doctor := f.doctors.byAddr[testDoctor]
	patient := f.patients.byAddr[testPatient]

	// Kapsam oranı 100'ün üzerinde bildirilse bile ücret sıfırın altına inmez.
	f.svc.insurance = fakeInsurance{covered: true, pct: 250}
	fee, claimed, err := f.svc.quoteFee(context.Background(), doctor, patient, 0, true)
	require.NoError(t, err)
	assert.Equal(t, int64(0), fee)
	assert.True(t, claimed)
}

func TestQuoteFee_InsuranceErrorAborts(t *testing.T) {
	f := newPaymentFixture(t)
	f.svc.insurance = fakeInsurance{err: errors.New("doğrulayıcı erişilemez")}

	_, _, err := f.svc.quoteFee(context.Background(), f.doctors.byAddr[testDoctor], f.patients.byAddr[testPatient], 0, true)
	assert.ErrorIs(t, err, ErrInsuranceCheckFailed)
}

func TestCollect_UnknownAsset(t *testing.T) {
	f := newPaymentFixture(t)

	err := f.svc.collectInTx(context.Background(), models.AssetKind(99), f.patients.byAddr[testPatient], f.doctors.byAddr[testDoctor], 100, 100)
	assert.ErrorIs(t, err, ErrUnknownAsset)
}

func TestRefund_InsufficientEscrow(t *testing.T) {
	f := newPaymentFixture(t)
	doctor := f.doctors.byAddr[testDoctor]
	doctor.EscrowBalance = 10

	err := f.svc.refundInTx(context.Background(), models.AssetNative, f.patients.byAddr[testPatient], doctor, 100)
	assert.ErrorIs(t, err, ErrInsufficientEscrow)
}

func TestRefund_TokenGoesBackToPatient(t *testing.T) {
	f := newPaymentFixture(t)

	err := f.svc.refundInTx(context.Background(), models.AssetHLT, f.patients.byAddr[testPatient], f.doctors.byAddr[testDoctor], 100)
	require.NoError(t, err)
	assert.Equal(t, []string{testDoctor + "->" + testPatient}, f.tokens.transfers)
}
