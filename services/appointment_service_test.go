package services

import (
	"context"
	"testing"
	"time"

	"telemed.link/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testPatient  = "hasta-1"
	testDoctor   = "doktor-1"
	testReferrer = "hasta-2"
)

type lifecycleFixture struct {
	svc          *AppointmentService
	payments     *PaymentService
	accounts     *memAccounts
	patients     *memPatients
	doctors      *memDoctors
	appointments *memAppointments
	slots        *memSlots
	grants       *memGrants
	system       *memSystem
	events       *memEvents
	tokens       *fakeTokens
	now          time.Time
}

func newLifecycleFixture(t *testing.T) *lifecycleFixture {
	t.Helper()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	f := &lifecycleFixture{
		accounts:     newMemAccounts(),
		patients:     newMemPatients(),
		doctors:      newMemDoctors(),
		appointments: newMemAppointments(),
		slots:        newMemSlots(),
		grants:       newMemGrants(),
		system:       newMemSystem(),
		events:       &memEvents{},
		tokens:       &fakeTokens{},
		now:          now,
	}

	clock := fixedClock(now)
	roles := &RoleService{accounts: f.accounts, tx: stubTx{}, events: f.events}
	f.payments = &PaymentService{
		patients:  f.patients,
		doctors:   f.doctors,
		system:    f.system,
		tx:        stubTx{},
		events:    f.events,
		insurance: NoopInsuranceVerifier{},
		tokens:    f.tokens,
		fiat:      &fakeRamp{},
		now:       clock,
	}
	f.svc = &AppointmentService{
		appointments: f.appointments,
		patients:     f.patients,
		doctors:      f.doctors,
		slots:        f.slots,
		grants:       f.grants,
		accounts:     f.accounts,
		system:       f.system,
		roles:        roles,
		payments:     f.payments,
		tx:           stubTx{},
		events:       f.events,
		now:          clock,
	}

	require.NoError(t, f.accounts.Create(context.Background(), &models.Account{Address: testPatient, IsPatient: true}))
	require.NoError(t, f.accounts.Create(context.Background(), &models.Account{Address: testDoctor, IsDoctor: true}))
	require.NoError(t, f.patients.Create(context.Background(), &models.Patient{Address: testPatient, WalletBalance: 1000}))
	require.NoError(t, f.doctors.Create(context.Background(), &models.Doctor{
		Address:         testDoctor,
		ConsultationFee: 100,
		IsVerified:      true,
		IsActive:        true,
	}))
	return f
}

// setNow fikstürün tüm saatlerini birlikte ilerletir; f.now her zaman
// servislerin gördüğü şimdiki zamandır.
func (f *lifecycleFixture) setNow(at time.Time) {
	f.now = at
	clock := fixedClock(at)
	f.svc.now = clock
	f.payments.now = clock
}

func (f *lifecycleFixture) openSlot(t *testing.T, at time.Time) {
	t.Helper()
	require.NoError(t, f.slots.Upsert(context.Background(), &models.AvailabilitySlot{
		DoctorAddress: testDoctor,
		SlotTime:      at,
		IsAvailable:   true,
	}))
}

func (f *lifecycleFixture) book(t *testing.T, at time.Time) *models.Appointment {
	t.Helper()
	f.openSlot(t, at)
	appointment, err := f.svc.Book(context.Background(), nativeBooking(at))
	require.NoError(t, err)
	return appointment
}

func nativeBooking(at time.Time) BookingInput {
	return BookingInput{
		PatientAddress: testPatient,
		DoctorAddress:  testDoctor,
		ScheduledAt:    at,
		Asset:          models.AssetNative,
		AmountSupplied: 1000,
	}
}

func TestBook_Success(t *testing.T) {
	f := newLifecycleFixture(t)
	at := f.now.Add(2 * time.Hour)
	f.openSlot(t, at)

	appointment, err := f.svc.Book(context.Background(), nativeBooking(at))
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, appointment.Status)
	assert.Equal(t, int64(100), appointment.Fee)
	assert.False(t, appointment.IsEmergency)

	patient := f.patients.byAddr[testPatient]
	doctor := f.doctors.byAddr[testDoctor]
	assert.Equal(t, int64(900), patient.WalletBalance, "cüzdandan yalnızca ücret kadar düşmeli")
	assert.Equal(t, int64(100), doctor.EscrowBalance)
	assert.Equal(t, int64(PointsBooking), patient.Loyalty.Points)

	slot, err := f.slots.FindForUpdate(context.Background(), testDoctor, at)
	require.NoError(t, err)
	assert.False(t, slot.IsAvailable, "slot rezervasyonla kapanmalı")

	assert.Contains(t, f.events.types(), EventAppointmentBooked)
	assert.Contains(t, f.events.types(), EventLoyaltyPointsEarned)
}

func TestBook_LoyaltyDiscountApplied(t *testing.T) {
	f := newLifecycleFixture(t)
	// 1. seviye %5 indirim: 100 -> 95
	f.patients.byAddr[testPatient].Loyalty.Level = 1
	at := f.now.Add(2 * time.Hour)
	f.openSlot(t, at)

	appointment, err := f.svc.Book(context.Background(), nativeBooking(at))
	require.NoError(t, err)

	assert.Equal(t, int64(95), appointment.Fee)
	assert.Equal(t, int64(905), f.patients.byAddr[testPatient].WalletBalance)
	assert.Equal(t, int64(95), f.doctors.byAddr[testDoctor].EscrowBalance)
}

func TestBook_InsuranceAfterDiscount(t *testing.T) {
	f := newLifecycleFixture(t)
	f.payments.insurance = fakeInsurance{covered: true, pct: 20}
	expiry := f.now.Add(10 * 24 * time.Hour)
	f.patients.byAddr[testPatient].Loyalty.Level = 3
	f.patients.byAddr[testPatient].Loyalty.LevelExpiresAt = &expiry
	at := f.now.Add(2 * time.Hour)
	f.openSlot(t, at)

	input := nativeBooking(at)
	input.UseInsurance = true
	appointment, err := f.svc.Book(context.Background(), input)
	require.NoError(t, err)

	// 100 - %20 sadakat = 80; 80 - %20 sigorta = 64
	assert.Equal(t, int64(64), appointment.Fee)
	assert.True(t, appointment.InsuranceClaimed)
}

func TestBook_SlotUnavailable(t *testing.T) {
	f := newLifecycleFixture(t)
	at := f.now.Add(2 * time.Hour)
	f.book(t, at)

	f.openSlot(t, at.Add(time.Hour))
	_, err := f.svc.Book(context.Background(), nativeBooking(at))
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestBook_TooSoon(t *testing.T) {
	f := newLifecycleFixture(t)
	at := f.now.Add(10 * time.Minute) // 15 dakikalık tamponun içinde
	f.openSlot(t, at)

	_, err := f.svc.Book(context.Background(), nativeBooking(at))
	assert.ErrorIs(t, err, ErrBookingTooSoon)
}

func TestBook_UnverifiedDoctor(t *testing.T) {
	f := newLifecycleFixture(t)
	f.doctors.byAddr[testDoctor].IsVerified = false
	at := f.now.Add(2 * time.Hour)
	f.openSlot(t, at)

	_, err := f.svc.Book(context.Background(), nativeBooking(at))
	assert.ErrorIs(t, err, ErrDoctorUnavailable)
}

func TestBook_InsufficientWallet(t *testing.T) {
	f := newLifecycleFixture(t)
	f.patients.byAddr[testPatient].WalletBalance = 50
	at := f.now.Add(2 * time.Hour)
	f.openSlot(t, at)

	_, err := f.svc.Book(context.Background(), nativeBooking(at))
	assert.ErrorIs(t, err, ErrInsufficientWallet)

	assert.Equal(t, int64(50), f.patients.byAddr[testPatient].WalletBalance)
	slot, findErr := f.slots.FindForUpdate(context.Background(), testDoctor, at)
	require.NoError(t, findErr)
	assert.True(t, slot.IsAvailable, "başarısız rezervasyon slotu kapatmamalı")
}

func TestBook_WhilePaused(t *testing.T) {
	f := newLifecycleFixture(t)
	f.system.state.Paused = true
	at := f.now.Add(2 * time.Hour)
	f.openSlot(t, at)

	_, err := f.svc.Book(context.Background(), nativeBooking(at))
	assert.ErrorIs(t, err, ErrSystemPaused)
}

func TestBook_TokenAsset(t *testing.T) {
	f := newLifecycleFixture(t)
	at := f.now.Add(2 * time.Hour)
	f.openSlot(t, at)

	input := nativeBooking(at)
	input.Asset = models.AssetHLT
	appointment, err := f.svc.Book(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, models.AssetHLT, appointment.Asset)
	assert.Equal(t, []string{testPatient + "->" + testDoctor}, f.tokens.transfers)
	assert.Equal(t, int64(1000), f.patients.byAddr[testPatient].WalletBalance, "token ödemesi cüzdana dokunmamalı")
}

func TestBook_ReferralAwarded(t *testing.T) {
	f := newLifecycleFixture(t)
	require.NoError(t, f.accounts.Create(context.Background(), &models.Account{Address: testReferrer, IsPatient: true}))
	require.NoError(t, f.patients.Create(context.Background(), &models.Patient{Address: testReferrer}))
	at := f.now.Add(2 * time.Hour)
	f.openSlot(t, at)

	input := nativeBooking(at)
	input.Referrer = testReferrer
	_, err := f.svc.Book(context.Background(), input)
	require.NoError(t, err)

	referrer := f.patients.byAddr[testReferrer]
	assert.Equal(t, int64(PointsReferral), referrer.Loyalty.Points)
	assert.Equal(t, 1, referrer.Loyalty.ReferralCount)

	// Referans ödülü de her birikim gibi olay defterine düşer.
	var referralEvent *recordedEvent
	for i, e := range f.events.events {
		if e.Type == EventLoyaltyPointsEarned && e.EntityID == testReferrer {
			referralEvent = &f.events.events[i]
		}
	}
	require.NotNil(t, referralEvent, "referans ödülü olay üretmeli")
	assert.Equal(t, PointsReferral, referralEvent.Payload["points"])
	assert.Equal(t, int64(PointsReferral), referralEvent.Payload["balance"])
	assert.Equal(t, "referral", referralEvent.Payload["reason"])
}

func TestBook_HeldSlotSurvivesCalendarRewrite(t *testing.T) {
	f := newLifecycleFixture(t)
	require.NoError(t, f.accounts.Create(context.Background(), &models.Account{Address: testReferrer, IsPatient: true}))
	require.NoError(t, f.patients.Create(context.Background(), &models.Patient{Address: testReferrer, WalletBalance: 1000}))
	at := f.now.Add(2 * time.Hour)
	first := f.book(t, at)

	// Doktor aynı zaman damgasını yeniden "müsait" yazsa bile tutulu slot
	// geri açılmaz.
	calendar := &CalendarService{
		slots:   f.slots,
		doctors: f.doctors,
		system:  f.system,
		roles:   &RoleService{accounts: f.accounts, tx: stubTx{}, events: f.events},
		tx:      stubTx{},
		events:  f.events,
		now:     f.svc.now,
	}
	require.NoError(t, calendar.SetBatch(context.Background(), testDoctor, []time.Time{at}, []bool{true}))

	slot, err := f.slots.FindForUpdate(context.Background(), testDoctor, at)
	require.NoError(t, err)
	assert.False(t, slot.IsAvailable, "tutulu slot takvim yazmasıyla açılmamalı")
	require.NotNil(t, slot.HeldByAppointmentID)
	assert.Equal(t, first.ID, *slot.HeldByAppointmentID)

	second := nativeBooking(at)
	second.PatientAddress = testReferrer
	_, err = f.svc.Book(context.Background(), second)
	assert.ErrorIs(t, err, ErrSlotUnavailable, "aynı slota ikinci randevu alınamaz")
}

func TestBookEmergency_PremiumAndSchedule(t *testing.T) {
	f := newLifecycleFixture(t)

	appointment, err := f.svc.BookEmergency(context.Background(), BookingInput{
		PatientAddress: testPatient,
		DoctorAddress:  testDoctor,
		Asset:          models.AssetNative,
		AmountSupplied: 1000,
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusEmergency, appointment.Status)
	assert.True(t, appointment.IsEmergency)
	assert.Equal(t, int64(150), appointment.Fee, "acil ücret sıradan ücretin %150'si olmalı")
	assert.Equal(t, f.now.Add(EmergencyWindow), appointment.ScheduledAt)
	assert.Equal(t, int64(PointsEmergency), f.patients.byAddr[testPatient].Loyalty.Points)
	assert.Contains(t, f.events.types(), EventEmergencyBooked)
}

func TestConfirm_Transition(t *testing.T) {
	f := newLifecycleFixture(t)
	appointment := f.book(t, f.now.Add(2*time.Hour))

	require.NoError(t, f.svc.Confirm(context.Background(), testDoctor, appointment.ID))
	assert.Equal(t, models.StatusConfirmed, f.appointments.byID[appointment.ID].Status)

	// İkinci onay geçersiz geçiştir.
	err := f.svc.Confirm(context.Background(), testDoctor, appointment.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestConfirm_WrongDoctor(t *testing.T) {
	f := newLifecycleFixture(t)
	appointment := f.book(t, f.now.Add(2*time.Hour))

	err := f.svc.Confirm(context.Background(), "doktor-2", appointment.ID)
	assert.ErrorIs(t, err, ErrAppointmentForbidden)
}

func TestCancel_RefundsAndReleasesSlot(t *testing.T) {
	f := newLifecycleFixture(t)
	at := f.now.Add(3 * time.Hour)
	appointment := f.book(t, at)

	require.NoError(t, f.svc.Cancel(context.Background(), testPatient, appointment.ID))

	assert.Equal(t, models.StatusCancelled, f.appointments.byID[appointment.ID].Status)
	assert.Equal(t, int64(1000), f.patients.byAddr[testPatient].WalletBalance, "iade tahsil edilen tutarın tamamı olmalı")
	assert.Equal(t, int64(0), f.doctors.byAddr[testDoctor].EscrowBalance)

	slot, err := f.slots.FindForUpdate(context.Background(), testDoctor, at)
	require.NoError(t, err)
	assert.True(t, slot.IsAvailable, "iptal slotu yeniden açmalı")
}

func TestCancel_TooLate(t *testing.T) {
	f := newLifecycleFixture(t)
	at := f.now.Add(45 * time.Minute) // 1 saatlik iptal tamponunun içinde
	appointment := f.book(t, at)

	err := f.svc.Cancel(context.Background(), testPatient, appointment.ID)
	assert.ErrorIs(t, err, ErrCancelTooLate)
	assert.Equal(t, models.StatusPending, f.appointments.byID[appointment.ID].Status)
}

func TestCancel_EmergencyRejected(t *testing.T) {
	f := newLifecycleFixture(t)
	appointment, err := f.svc.BookEmergency(context.Background(), BookingInput{
		PatientAddress: testPatient,
		DoctorAddress:  testDoctor,
		Asset:          models.AssetNative,
		AmountSupplied: 1000,
	})
	require.NoError(t, err)

	err = f.svc.Cancel(context.Background(), testPatient, appointment.ID)
	assert.ErrorIs(t, err, ErrCancelEmergency)
}

func TestCancel_OnlyPatient(t *testing.T) {
	f := newLifecycleFixture(t)
	appointment := f.book(t, f.now.Add(3*time.Hour))

	err := f.svc.Cancel(context.Background(), testDoctor, appointment.ID)
	assert.ErrorIs(t, err, ErrAppointmentForbidden)
}

func TestComplete_FromConfirmed(t *testing.T) {
	f := newLifecycleFixture(t)
	at := f.now.Add(2 * time.Hour)
	appointment := f.book(t, at)
	require.NoError(t, f.svc.Confirm(context.Background(), testDoctor, appointment.ID))

	// Randevu saati gelmeden tamamlanamaz.
	err := f.svc.Complete(context.Background(), testDoctor, appointment.ID)
	assert.ErrorIs(t, err, ErrCompletionTooEarly)

	f.setNow(at.Add(5 * time.Minute))
	require.NoError(t, f.svc.Complete(context.Background(), testDoctor, appointment.ID))

	assert.Equal(t, models.StatusCompleted, f.appointments.byID[appointment.ID].Status)
	assert.Equal(t, 1, f.patients.byAddr[testPatient].Loyalty.MonthlyCount)

	granted, err := f.grants.Exists(context.Background(), testDoctor, testPatient)
	require.NoError(t, err)
	assert.True(t, granted, "tamamlanma doktora kalıcı kayıt erişimi vermeli")
}

func TestComplete_PendingRejected(t *testing.T) {
	f := newLifecycleFixture(t)
	at := f.now.Add(2 * time.Hour)
	appointment := f.book(t, at)

	f.setNow(at.Add(5 * time.Minute))
	err := f.svc.Complete(context.Background(), testDoctor, appointment.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition, "onaylanmamış randevu tamamlanamaz")
}

func TestComplete_EmergencyWindow(t *testing.T) {
	f := newLifecycleFixture(t)
	appointment, err := f.svc.BookEmergency(context.Background(), BookingInput{
		PatientAddress: testPatient,
		DoctorAddress:  testDoctor,
		Asset:          models.AssetNative,
		AmountSupplied: 1000,
	})
	require.NoError(t, err)

	// Pencere içinde: randevu saatinden sonra, +1 saat dolmadan.
	f.setNow(appointment.ScheduledAt.Add(30 * time.Minute))
	require.NoError(t, f.svc.Complete(context.Background(), testDoctor, appointment.ID))
	assert.Equal(t, models.StatusCompleted, f.appointments.byID[appointment.ID].Status)
}

func TestComplete_EmergencyWindowExpired(t *testing.T) {
	f := newLifecycleFixture(t)
	appointment, err := f.svc.BookEmergency(context.Background(), BookingInput{
		PatientAddress: testPatient,
		DoctorAddress:  testDoctor,
		Asset:          models.AssetNative,
		AmountSupplied: 1000,
	})
	require.NoError(t, err)

	f.setNow(appointment.ScheduledAt.Add(EmergencyWindow + time.Minute))
	err = f.svc.Complete(context.Background(), testDoctor, appointment.ID)
	assert.ErrorIs(t, err, ErrEmergencyExpired)
}

func completeAppointment(t *testing.T, f *lifecycleFixture) *models.Appointment {
	t.Helper()
	// Ardışık çağrılar için zamanlar fikstürün o anki saatinden türetilir.
	at := f.now.Add(2 * time.Hour)
	appointment := f.book(t, at)
	require.NoError(t, f.svc.Confirm(context.Background(), testDoctor, appointment.ID))
	f.setNow(at.Add(5 * time.Minute))
	require.NoError(t, f.svc.Complete(context.Background(), testDoctor, appointment.ID))
	return appointment
}

func TestRate_IntegerAverage(t *testing.T) {
	f := newLifecycleFixture(t)
	doctor := f.doctors.byAddr[testDoctor]

	first := completeAppointment(t, f)
	require.NoError(t, f.svc.Rate(context.Background(), testPatient, first.ID, 0))

	second := completeAppointment(t, f)
	require.NoError(t, f.svc.Rate(context.Background(), testPatient, second.ID, 5))

	third := completeAppointment(t, f)
	require.NoError(t, f.svc.Rate(context.Background(), testPatient, third.ID, 3))

	// (0+5+3)/3 tam sayı bölmesiyle 2
	assert.Equal(t, int64(8), doctor.RatingSum)
	assert.Equal(t, int64(3), doctor.RatingCount)
	assert.Equal(t, int64(2), doctor.AverageRating())
}

func TestRate_OncePerAppointment(t *testing.T) {
	f := newLifecycleFixture(t)
	appointment := completeAppointment(t, f)

	require.NoError(t, f.svc.Rate(context.Background(), testPatient, appointment.ID, 4))
	err := f.svc.Rate(context.Background(), testPatient, appointment.ID, 5)
	assert.ErrorIs(t, err, ErrAlreadyRated)
}

func TestRate_Validation(t *testing.T) {
	f := newLifecycleFixture(t)
	appointment := completeAppointment(t, f)

	assert.ErrorIs(t, f.svc.Rate(context.Background(), testPatient, appointment.ID, 6), ErrRatingOutOfRange)
	assert.ErrorIs(t, f.svc.Rate(context.Background(), testPatient, appointment.ID, -1), ErrRatingOutOfRange)

	pending := f.book(t, f.now.Add(4*time.Hour))
	assert.ErrorIs(t, f.svc.Rate(context.Background(), testPatient, pending.ID, 3), ErrInvalidTransition)
}

func TestGetByID_Authorization(t *testing.T) {
	f := newLifecycleFixture(t)
	appointment := f.book(t, f.now.Add(2*time.Hour))
	require.NoError(t, f.accounts.Create(context.Background(), &models.Account{Address: "admin-1", IsAdmin: true}))

	_, err := f.svc.GetByID(context.Background(), testPatient, appointment.ID)
	assert.NoError(t, err)
	_, err = f.svc.GetByID(context.Background(), testDoctor, appointment.ID)
	assert.NoError(t, err)
	_, err = f.svc.GetByID(context.Background(), "admin-1", appointment.ID)
	assert.NoError(t, err)
	_, err = f.svc.GetByID(context.Background(), "yabanci", appointment.ID)
	assert.ErrorIs(t, err, ErrAppointmentForbidden)
}
