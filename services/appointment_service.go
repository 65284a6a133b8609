package services

import (
	"context"
	"errors"
	"strconv"
	"time"

	"telemed.link/configs/configslog"
	"telemed.link/models"
	"telemed.link/pkg/checked"
	"telemed.link/pkg/queryparams"
	"telemed.link/repositories"

	"go.uber.org/zap"
)

// AppointmentServiceError randevu yaşam döngüsü hataları.
type AppointmentServiceError string

func (e AppointmentServiceError) Error() string { return string(e) }

// Hata sabitleri
const (
	ErrAppointmentNotFound       AppointmentServiceError = "randevu bulunamadı"
	ErrAppointmentForbidden      AppointmentServiceError = "bu randevu üzerinde yetkiniz yok"
	ErrDoctorUnavailable         AppointmentServiceError = "doktor doğrulanmamış veya aktif değil"
	ErrBookingTooSoon            AppointmentServiceError = "randevu en az 15 dakika sonrası için alınabilir"
	ErrInvalidTransition         AppointmentServiceError = "geçersiz durum geçişi"
	ErrCancelEmergency           AppointmentServiceError = "acil randevu iptal edilemez"
	ErrCancelTooLate             AppointmentServiceError = "iptal için randevuya 1 saatten az kaldı"
	ErrCompletionTooEarly        AppointmentServiceError = "randevu saati henüz gelmedi"
	ErrEmergencyExpired          AppointmentServiceError = "acil randevunun tamamlanma penceresi doldu"
	ErrRatingOutOfRange          AppointmentServiceError = "puan 0 ile 5 arasında olmalı"
	ErrAlreadyRated              AppointmentServiceError = "randevu zaten puanlandı"
	ErrRatingOverflow            AppointmentServiceError = "puan akümülatörü taşacak, işlem reddedildi"
	ErrDiagnosisNotWritable      AppointmentServiceError = "tanı yalnızca onaylı veya acil randevuya yazılabilir"
	ErrAppointmentPatientMissing AppointmentServiceError = "hasta kaydı bulunamadı"
)

// BookingInput randevu rezervasyon girdileri.
type BookingInput struct {
	PatientAddress string
	DoctorAddress  string
	ScheduledAt    time.Time
	Asset          models.AssetKind
	AmountSupplied int64 // yerli varlıkta bildirilen tutar
	UseInsurance   bool
	Referrer       string // opsiyonel referans adresi
	EncryptedKey   string
}

// IAppointmentService randevu durum makinesi: rezervasyon, onay, tanı ekleme,
// tamamlama, iptal ve puanlama.
type IAppointmentService interface {
	Book(ctx context.Context, input BookingInput) (*models.Appointment, error)
	BookEmergency(ctx context.Context, input BookingInput) (*models.Appointment, error)
	Confirm(ctx context.Context, doctorAddress string, appointmentID uint) error
	AttachAIResult(ctx context.Context, doctorAddress string, appointmentID uint, diagnosisHash, encryptedKey string) error
	Cancel(ctx context.Context, patientAddress string, appointmentID uint) error
	Complete(ctx context.Context, doctorAddress string, appointmentID uint) error
	Rate(ctx context.Context, patientAddress string, appointmentID uint, rating int) error
	GetByID(ctx context.Context, callerAddress string, appointmentID uint) (*models.Appointment, error)
	ListForPatient(ctx context.Context, patientAddress string, params queryparams.ListParams) (*queryparams.PaginatedResult, error)
	ListForDoctor(ctx context.Context, doctorAddress string, params queryparams.ListParams) (*queryparams.PaginatedResult, error)
}

// AppointmentService IAppointmentService arayüzünü uygular.
type AppointmentService struct {
	appointments repositories.IAppointmentRepository
	patients     repositories.IPatientRepository
	doctors      repositories.IDoctorRepository
	slots        repositories.ISlotRepository
	grants       repositories.IGrantRepository
	accounts     repositories.IAccountRepository
	system       repositories.ISystemRepository
	roles        IRoleService
	payments     *PaymentService
	tx           repositories.ITxManager
	events       IEventService
	now          func() time.Time
}

// NewAppointmentService yeni bir AppointmentService örneği oluşturur.
func NewAppointmentService() IAppointmentService {
	return &AppointmentService{
		appointments: repositories.NewAppointmentRepository(),
		patients:     repositories.NewPatientRepository(),
		doctors:      repositories.NewDoctorRepository(),
		slots:        repositories.NewSlotRepository(),
		grants:       repositories.NewGrantRepository(),
		accounts:     repositories.NewAccountRepository(),
		system:       repositories.NewSystemRepository(),
		roles:        NewRoleService(),
		payments:     newPaymentServiceCore(),
		tx:           repositories.NewTxManager(configsDB()),
		events:       NewEventService(),
		now:          defaultClock(),
	}
}

// Book sıradan randevu rezervasyonu. Sıralama sabittir: ücret hesaplanır,
// fonlar tahsil edilir, kayıt oluşturulur, slot kayda bağlanarak tutulur,
// puanlar işlenir.
// Tamamı tek transaction'dır; yarım güncellenmiş slot veya randevu hiçbir
// sıralamada görünmez.
func (s *AppointmentService) Book(ctx context.Context, input BookingInput) (*models.Appointment, error) {
	var appointment *models.Appointment
	var pointBalance int64
	var referralAwarded bool
	var referralBalance int64
	txErr := s.tx.Do(ctx, func(txCtx context.Context) error {
		if err := ensureNotPaused(txCtx, s.system); err != nil {
			return err
		}
		if err := s.roles.Require(txCtx, input.PatientAddress, models.RolePatient); err != nil {
			return err
		}

		doctor, err := s.doctors.FindByAddressForUpdate(txCtx, input.DoctorAddress)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrDoctorUnavailable
			}
			return err
		}
		if !doctor.IsVerified || !doctor.IsActive {
			return ErrDoctorUnavailable
		}

		now := s.now()
		if !input.ScheduledAt.After(now.Add(MinBookingBuffer)) {
			return ErrBookingTooSoon
		}

		patient, err := s.patients.FindByAddressForUpdate(txCtx, input.PatientAddress)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrAppointmentPatientMissing
			}
			return err
		}

		fee, insuranceClaimed, err := s.payments.quoteFee(txCtx, doctor, patient, 0, input.UseInsurance)
		if err != nil {
			return err
		}
		if err := s.payments.collectInTx(txCtx, input.Asset, patient, doctor, fee, input.AmountSupplied); err != nil {
			return err
		}

		appointment = &models.Appointment{
			ScheduledAt:      input.ScheduledAt.UTC(),
			PatientAddress:   input.PatientAddress,
			DoctorAddress:    input.DoctorAddress,
			Status:           models.StatusPending,
			EncryptedKey:     input.EncryptedKey,
			Fee:              fee,
			Asset:            input.Asset,
			InsuranceClaimed: insuranceClaimed,
			BookedAt:         now,
		}
		if err := s.appointments.Create(txCtx, appointment); err != nil {
			return err
		}
		if err := holdSlotInTx(txCtx, s.slots, input.DoctorAddress, input.ScheduledAt.UTC(), appointment.ID); err != nil {
			return err
		}

		if err := applyAward(&patient.Loyalty, PointsBooking, now); err != nil {
			return err
		}
		pointBalance = patient.Loyalty.Points
		if err := s.patients.Update(txCtx, patient); err != nil {
			return err
		}
		if err := s.doctors.Update(txCtx, doctor); err != nil {
			return err
		}

		referralAwarded, referralBalance, err = resolveReferralInTx(txCtx, s.patients, s.accounts, input.PatientAddress, input.Referrer, now)
		return err
	})
	if txErr != nil {
		configslog.Log.Error("Randevu rezervasyonu başarısız",
			zap.String("patient", input.PatientAddress), zap.String("doctor", input.DoctorAddress), zap.Error(txErr))
		return nil, txErr
	}

	entityID := strconv.FormatUint(uint64(appointment.ID), 10)
	s.events.Record(EventAppointmentBooked, entityID, map[string]any{
		"patient":      appointment.PatientAddress,
		"doctor":       appointment.DoctorAddress,
		"scheduled_at": appointment.ScheduledAt,
		"fee":          appointment.Fee,
		"asset":        appointment.Asset.String(),
		"status":       appointment.Status.String(),
	})
	s.events.Record(EventLoyaltyPointsEarned, appointment.PatientAddress, map[string]any{
		"points":  PointsBooking,
		"balance": pointBalance,
		"reason":  "booking",
	})
	if referralAwarded {
		s.recordReferralEvent(input.Referrer, referralBalance)
	}
	configslog.SLog.Infof("Randevu oluşturuldu: ID %d (%s -> %s, ücret %d)",
		appointment.ID, appointment.PatientAddress, appointment.DoctorAddress, appointment.Fee)
	return appointment, nil
}

// BookEmergency acil hızlı yol: slot kontrolü yoktur, ücret sıradan ücretin
// çarpanlı halidir, randevu saati şimdi+1 saattir ve durum Emergency başlar.
func (s *AppointmentService) BookEmergency(ctx context.Context, input BookingInput) (*models.Appointment, error) {
	var appointment *models.Appointment
	var pointBalance int64
	var referralAwarded bool
	var referralBalance int64
	txErr := s.tx.Do(ctx, func(txCtx context.Context) error {
		if err := ensureNotPaused(txCtx, s.system); err != nil {
			return err
		}
		if err := s.roles.Require(txCtx, input.PatientAddress, models.RolePatient); err != nil {
			return err
		}

		doctor, err := s.doctors.FindByAddressForUpdate(txCtx, input.DoctorAddress)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrDoctorUnavailable
			}
			return err
		}
		if !doctor.IsVerified || !doctor.IsActive {
			return ErrDoctorUnavailable
		}

		patient, err := s.patients.FindByAddressForUpdate(txCtx, input.PatientAddress)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrAppointmentPatientMissing
			}
			return err
		}

		state, err := s.system.Get(txCtx)
		if err != nil {
			return err
		}

		baseFee, insuranceClaimed, err := s.payments.quoteFee(txCtx, doctor, patient, 0, input.UseInsurance)
		if err != nil {
			return err
		}
		raised, err := checked.MulInt64(baseFee, int64(state.EmergencyPremiumPct))
		if err != nil {
			return err
		}
		fee := raised / 100

		if err := s.payments.collectInTx(txCtx, input.Asset, patient, doctor, fee, input.AmountSupplied); err != nil {
			return err
		}

		now := s.now()
		appointment = &models.Appointment{
			ScheduledAt:      now.Add(EmergencyWindow),
			PatientAddress:   input.PatientAddress,
			DoctorAddress:    input.DoctorAddress,
			Status:           models.StatusEmergency,
			EncryptedKey:     input.EncryptedKey,
			Fee:              fee,
			Asset:            input.Asset,
			InsuranceClaimed: insuranceClaimed,
			BookedAt:         now,
			IsEmergency:      true,
		}
		if err := s.appointments.Create(txCtx, appointment); err != nil {
			return err
		}

		if err := applyAward(&patient.Loyalty, PointsEmergency, now); err != nil {
			return err
		}
		pointBalance = patient.Loyalty.Points
		if err := s.patients.Update(txCtx, patient); err != nil {
			return err
		}
		if err := s.doctors.Update(txCtx, doctor); err != nil {
			return err
		}

		referralAwarded, referralBalance, err = resolveReferralInTx(txCtx, s.patients, s.accounts, input.PatientAddress, input.Referrer, now)
		return err
	})
	if txErr != nil {
		configslog.Log.Error("Acil randevu rezervasyonu başarısız",
			zap.String("patient", input.PatientAddress), zap.String("doctor", input.DoctorAddress), zap.Error(txErr))
		return nil, txErr
	}

	entityID := strconv.FormatUint(uint64(appointment.ID), 10)
	s.events.Record(EventEmergencyBooked, entityID, map[string]any{
		"patient":      appointment.PatientAddress,
		"doctor":       appointment.DoctorAddress,
		"scheduled_at": appointment.ScheduledAt,
		"fee":          appointment.Fee,
		"asset":        appointment.Asset.String(),
		"status":       appointment.Status.String(),
	})
	s.events.Record(EventLoyaltyPointsEarned, appointment.PatientAddress, map[string]any{
		"points":  PointsEmergency,
		"balance": pointBalance,
		"reason":  "emergency_booking",
	})
	if referralAwarded {
		s.recordReferralEvent(input.Referrer, referralBalance)
	}
	configslog.SLog.Infof("Acil randevu oluşturuldu: ID %d (ücret %d)", appointment.ID, appointment.Fee)
	return appointment, nil
}

// Confirm atanmış doktor bekleyen randevuyu onaylar.
func (s *AppointmentService) Confirm(ctx context.Context, doctorAddress string, appointmentID uint) error {
	var newStatus models.AppointmentStatus
	txErr := s.tx.Do(ctx, func(txCtx context.Context) error {
		if err := ensureNotPaused(txCtx, s.system); err != nil {
			return err
		}
		appointment, err := s.findOwnedByDoctor(txCtx, doctorAddress, appointmentID)
		if err != nil {
			return err
		}
		if appointment.Status != models.StatusPending {
			return ErrInvalidTransition
		}
		appointment.Status = models.StatusConfirmed
		newStatus = appointment.Status
		if err := s.appointments.Update(txCtx, appointment); err != nil {
			return err
		}
		return s.stampDoctorActivity(txCtx, doctorAddress)
	})
	if txErr != nil {
		return txErr
	}

	s.recordStatusEvent(appointmentID, newStatus)
	return nil
}

// AttachAIResult tanı parmak izini yazar. Durum geçişi değildir; yalnızca
// Confirmed veya Emergency durumundaki randevuya, atanmış doktor yazabilir.
func (s *AppointmentService) AttachAIResult(ctx context.Context, doctorAddress string, appointmentID uint, diagnosisHash, encryptedKey string) error {
	txErr := s.tx.Do(ctx, func(txCtx context.Context) error {
		if err := ensureNotPaused(txCtx, s.system); err != nil {
			return err
		}
		appointment, err := s.findOwnedByDoctor(txCtx, doctorAddress, appointmentID)
		if err != nil {
			return err
		}
		if appointment.Status != models.StatusConfirmed && appointment.Status != models.StatusEmergency {
			return ErrDiagnosisNotWritable
		}
		appointment.DiagnosisHash = diagnosisHash
		if encryptedKey != "" {
			appointment.EncryptedKey = encryptedKey
		}
		return s.appointments.Update(txCtx, appointment)
	})
	if txErr != nil {
		return txErr
	}

	s.events.Record(EventAIResultConfirmed, strconv.FormatUint(uint64(appointmentID), 10), map[string]any{
		"doctor":         doctorAddress,
		"diagnosis_hash": diagnosisHash,
	})
	return nil
}

// Cancel hasta bekleyen, acil olmayan randevuyu iptal eder: slot geri açılır
// ve tahsil edilen ücret varlık türü eşleşerek tam iade edilir.
func (s *AppointmentService) Cancel(ctx context.Context, patientAddress string, appointmentID uint) error {
	var newStatus models.AppointmentStatus
	txErr := s.tx.Do(ctx, func(txCtx context.Context) error {
		if err := ensureNotPaused(txCtx, s.system); err != nil {
			return err
		}
		appointment, err := s.appointments.FindByIDForUpdate(txCtx, appointmentID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrAppointmentNotFound
			}
			return err
		}
		if appointment.PatientAddress != patientAddress {
			return ErrAppointmentForbidden
		}
		if appointment.IsEmergency {
			return ErrCancelEmergency
		}
		if appointment.Status != models.StatusPending {
			return ErrInvalidTransition
		}
		if !appointment.ScheduledAt.After(s.now().Add(MinCancellationBuffer)) {
			return ErrCancelTooLate
		}

		patient, err := s.patients.FindByAddressForUpdate(txCtx, patientAddress)
		if err != nil {
			return err
		}
		doctor, err := s.doctors.FindByAddressForUpdate(txCtx, appointment.DoctorAddress)
		if err != nil {
			return err
		}
		if err := s.payments.refundInTx(txCtx, appointment.Asset, patient, doctor, appointment.Fee); err != nil {
			return err
		}
		if err := s.patients.Update(txCtx, patient); err != nil {
			return err
		}
		if err := s.doctors.Update(txCtx, doctor); err != nil {
			return err
		}
		if err := releaseSlotInTx(txCtx, s.slots, appointment.DoctorAddress, appointment.ScheduledAt); err != nil {
			return err
		}

		appointment.Status = models.StatusCancelled
		newStatus = appointment.Status
		return s.appointments.Update(txCtx, appointment)
	})
	if txErr != nil {
		configslog.Log.Error("Randevu iptali başarısız", zap.Uint("id", appointmentID), zap.Error(txErr))
		return txErr
	}

	s.recordStatusEvent(appointmentID, newStatus)
	configslog.SLog.Infof("Randevu iptal edildi: ID %d", appointmentID)
	return nil
}

// Complete atanmış doktor randevuyu tamamlar. Onaylı veya acil randevudan
// geçilir; randevu saati gelmiş olmalı, acil randevu ayrıca yanıt penceresi
// içinde olmalıdır. Tamamlanma hastanın aylık sayacını artırır ve doktora
// hastanın şifreli kayıtlarına kalıcı erişim yetkisi verir.
func (s *AppointmentService) Complete(ctx context.Context, doctorAddress string, appointmentID uint) error {
	var newStatus models.AppointmentStatus
	var patientAddress string
	txErr := s.tx.Do(ctx, func(txCtx context.Context) error {
		if err := ensureNotPaused(txCtx, s.system); err != nil {
			return err
		}
		appointment, err := s.findOwnedByDoctor(txCtx, doctorAddress, appointmentID)
		if err != nil {
			return err
		}
		if appointment.Status != models.StatusConfirmed && appointment.Status != models.StatusEmergency {
			return ErrInvalidTransition
		}

		now := s.now()
		if now.Before(appointment.ScheduledAt) {
			return ErrCompletionTooEarly
		}
		if appointment.Status == models.StatusEmergency && now.After(appointment.ScheduledAt.Add(EmergencyWindow)) {
			return ErrEmergencyExpired
		}

		patient, err := s.patients.FindByAddressForUpdate(txCtx, appointment.PatientAddress)
		if err != nil {
			return err
		}
		count, err := checked.AddInt(patient.Loyalty.MonthlyCount, 1)
		if err != nil {
			return ErrLoyaltyOverflow
		}
		patient.Loyalty.MonthlyCount = count
		if err := s.patients.Update(txCtx, patient); err != nil {
			return err
		}

		if err := s.grants.Upsert(txCtx, &models.RecordAccessGrant{
			DoctorAddress:  doctorAddress,
			PatientAddress: appointment.PatientAddress,
			GrantedAt:      now,
		}); err != nil {
			return err
		}
		if err := s.stampDoctorActivity(txCtx, doctorAddress); err != nil {
			return err
		}

		appointment.Status = models.StatusCompleted
		newStatus = appointment.Status
		patientAddress = appointment.PatientAddress
		return s.appointments.Update(txCtx, appointment)
	})
	if txErr != nil {
		configslog.Log.Error("Randevu tamamlanamadı", zap.Uint("id", appointmentID), zap.Error(txErr))
		return txErr
	}

	s.recordStatusEvent(appointmentID, newStatus)
	configslog.SLog.Infof("Randevu tamamlandı: ID %d (hasta: %s)", appointmentID, patientAddress)
	return nil
}

// Rate hasta tamamlanmış randevuyu 0-5 arası puanlar; doktorun toplam/adet
// akümülatörleri taşma kontrolüyle güncellenir. Randevu başına tek puan.
func (s *AppointmentService) Rate(ctx context.Context, patientAddress string, appointmentID uint, rating int) error {
	if rating < 0 || rating > MaxRating {
		return ErrRatingOutOfRange
	}

	var doctorAddress string
	var average int64
	txErr := s.tx.Do(ctx, func(txCtx context.Context) error {
		if err := ensureNotPaused(txCtx, s.system); err != nil {
			return err
		}
		appointment, err := s.appointments.FindByIDForUpdate(txCtx, appointmentID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrAppointmentNotFound
			}
			return err
		}
		if appointment.PatientAddress != patientAddress {
			return ErrAppointmentForbidden
		}
		if appointment.Status != models.StatusCompleted {
			return ErrInvalidTransition
		}
		if appointment.Rated {
			return ErrAlreadyRated
		}

		doctor, err := s.doctors.FindByAddressForUpdate(txCtx, appointment.DoctorAddress)
		if err != nil {
			return err
		}
		// Akümülatörler kayıt değişmeden önce doğrulanır.
		newSum, err := checked.AddInt64(doctor.RatingSum, int64(rating))
		if err != nil {
			return ErrRatingOverflow
		}
		newCount, err := checked.AddInt64(doctor.RatingCount, 1)
		if err != nil {
			return ErrRatingOverflow
		}
		doctor.RatingSum = newSum
		doctor.RatingCount = newCount
		if err := s.doctors.Update(txCtx, doctor); err != nil {
			return err
		}

		appointment.Rated = true
		doctorAddress = doctor.Address
		average = doctor.AverageRating()
		return s.appointments.Update(txCtx, appointment)
	})
	if txErr != nil {
		return txErr
	}

	s.events.Record(EventDoctorRated, doctorAddress, map[string]any{
		"appointment_id": appointmentID,
		"rating":         rating,
		"average":        average,
	})
	return nil
}

// GetByID randevuyu getirir; yalnızca taraflar ve admin okuyabilir.
func (s *AppointmentService) GetByID(ctx context.Context, callerAddress string, appointmentID uint) (*models.Appointment, error) {
	appointment, err := s.appointments.FindByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}
	if appointment.PatientAddress != callerAddress && appointment.DoctorAddress != callerAddress {
		isAdmin, err := s.roles.HasCapability(ctx, callerAddress, models.RoleAdmin)
		if err != nil {
			return nil, err
		}
		if !isAdmin {
			return nil, ErrAppointmentForbidden
		}
	}
	return appointment, nil
}

// ListForPatient hastanın randevularını sayfalayarak getirir.
func (s *AppointmentService) ListForPatient(ctx context.Context, patientAddress string, params queryparams.ListParams) (*queryparams.PaginatedResult, error) {
	params.Validate()
	appointments, totalCount, err := s.appointments.FindAllByPatientPaginated(ctx, patientAddress, params)
	if err != nil {
		return nil, err
	}
	return paginate(appointments, totalCount, params), nil
}

// ListForDoctor doktorun randevularını sayfalayarak getirir.
func (s *AppointmentService) ListForDoctor(ctx context.Context, doctorAddress string, params queryparams.ListParams) (*queryparams.PaginatedResult, error) {
	params.Validate()
	appointments, totalCount, err := s.appointments.FindAllByDoctorPaginated(ctx, doctorAddress, params)
	if err != nil {
		return nil, err
	}
	return paginate(appointments, totalCount, params), nil
}

// --- Yardımcılar ---

func (s *AppointmentService) findOwnedByDoctor(txCtx context.Context, doctorAddress string, appointmentID uint) (*models.Appointment, error) {
	appointment, err := s.appointments.FindByIDForUpdate(txCtx, appointmentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}
	if appointment.DoctorAddress != doctorAddress {
		return nil, ErrAppointmentForbidden
	}
	return appointment, nil
}

func (s *AppointmentService) stampDoctorActivity(txCtx context.Context, doctorAddress string) error {
	doctor, err := s.doctors.FindByAddressForUpdate(txCtx, doctorAddress)
	if err != nil {
		return err
	}
	doctor.LastActiveAt = s.now()
	return s.doctors.Update(txCtx, doctor)
}

func (s *AppointmentService) recordReferralEvent(referrer string, balance int64) {
	s.events.Record(EventLoyaltyPointsEarned, referrer, map[string]any{
		"points":  PointsReferral,
		"balance": balance,
		"reason":  "referral",
	})
}

func (s *AppointmentService) recordStatusEvent(appointmentID uint, status models.AppointmentStatus) {
	s.events.Record(EventStatusUpdated, strconv.FormatUint(uint64(appointmentID), 10), map[string]any{
		"status": status.String(),
	})
}

func paginate(appointments []models.Appointment, totalCount int64, params queryparams.ListParams) *queryparams.PaginatedResult {
	return &queryparams.PaginatedResult{
		Data: appointments,
		Meta: queryparams.PaginationMeta{
			CurrentPage: params.Page,
			PerPage:     params.PerPage,
			TotalItems:  totalCount,
			TotalPages:  queryparams.CalculateTotalPages(totalCount, params.PerPage),
		},
	}
}

var _ IAppointmentService = (*AppointmentService)(nil)
