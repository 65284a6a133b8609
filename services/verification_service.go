package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"telemed.link/configs/configslog"
	"telemed.link/models"
	"telemed.link/repositories"

	"go.uber.org/zap"
)

// VerificationServiceError doğrulama iş akışı hataları.
type VerificationServiceError string

func (e VerificationServiceError) Error() string { return string(e) }

// Hata sabitleri
const (
	ErrAlreadyDoctor      VerificationServiceError = "adres zaten doktor yetkisi taşıyor"
	ErrOutstandingRequest VerificationServiceError = "bekleyen bir başvuru zaten var"
	ErrLicenseTooShort    VerificationServiceError = "lisans bilgisi çok kısa"
	ErrDocumentTooLong    VerificationServiceError = "belge referansı çok uzun"
	ErrRequestNotFound    VerificationServiceError = "doğrulama başvurusu bulunamadı"
	ErrRequestProcessed   VerificationServiceError = "başvuru zaten işlenmiş"
	ErrRequestExpired     VerificationServiceError = "başvuru süresi dolmuş, artık onaylanamaz"
	ErrInvalidDoctorFee   VerificationServiceError = "muayene ücreti pozitif olmalı"
)

// IVerificationService doktor doğrulama iş akışı:
// NotRequested -> Requested -> {Approved, Rejected}.
// Onay doktora yetki bayrağını verir; ret yalnızca başvuruyu işlenmiş sayar.
// Reddedilen adres yeniden başvurabilir, onaylanan başvuramaz.
type IVerificationService interface {
	Request(ctx context.Context, callerAddress, license, documentRef string) (*models.VerificationRequest, error)
	Process(ctx context.Context, adminAddress string, requestID uint, approved bool, fee int64, publicKey, specialty, timelockFingerprint string) error
}

// VerificationService IVerificationService arayüzünü uygular.
type VerificationService struct {
	requests repositories.IVerificationRepository
	doctors  repositories.IDoctorRepository
	accounts repositories.IAccountRepository
	system   repositories.ISystemRepository
	roles    IRoleService
	timelock ITimelockService
	tx       repositories.ITxManager
	events   IEventService
	now      func() time.Time
}

// NewVerificationService yeni bir VerificationService örneği oluşturur.
func NewVerificationService() IVerificationService {
	return &VerificationService{
		requests: repositories.NewVerificationRepository(),
		doctors:  repositories.NewDoctorRepository(),
		accounts: repositories.NewAccountRepository(),
		system:   repositories.NewSystemRepository(),
		roles:    NewRoleService(),
		timelock: NewTimelockService(),
		tx:       repositories.NewTxManager(configsDB()),
		events:   NewEventService(),
		now:      defaultClock(),
	}
}

// Request yeni doğrulama başvurusu açar.
func (s *VerificationService) Request(ctx context.Context, callerAddress, license, documentRef string) (*models.VerificationRequest, error) {
	if len(license) < MinLicenseLength {
		return nil, ErrLicenseTooShort
	}
	if len(documentRef) > MaxDocumentLength {
		return nil, ErrDocumentTooLong
	}

	var request *models.VerificationRequest
	txErr := s.tx.Do(ctx, func(txCtx context.Context) error {
		if err := ensureNotPaused(txCtx, s.system); err != nil {
			return err
		}
		hasDoctor, err := s.roles.HasCapability(txCtx, callerAddress, models.RoleDoctor)
		if err != nil {
			return err
		}
		if hasDoctor {
			return ErrAlreadyDoctor
		}
		outstanding, err := s.requests.HasOutstanding(txCtx, callerAddress)
		if err != nil {
			return err
		}
		if outstanding {
			return ErrOutstandingRequest
		}

		request = &models.VerificationRequest{
			DoctorAddress: callerAddress,
			License:       license,
			DocumentRef:   documentRef,
			RequestedAt:   s.now(),
		}
		return s.requests.Create(txCtx, request)
	})
	if txErr != nil {
		configslog.Log.Error("Doğrulama başvurusu açılamadı", zap.String("caller", callerAddress), zap.Error(txErr))
		return nil, txErr
	}

	s.events.Record(EventVerificationRequested, strconv.FormatUint(uint64(request.ID), 10), map[string]any{
		"doctor":       callerAddress,
		"requested_at": request.RequestedAt,
	})
	configslog.SLog.Infof("Doğrulama başvurusu alındı: ID %d (%s)", request.ID, callerAddress)
	return request, nil
}

// Process başvuruyu admin kararıyla sonuçlandırır. Eşleşen zaman kilidi
// girdisi aynı transaction'da tüketilir. 7 günden eski başvurular
// reddedilir ve işlenmemiş olarak kalır: hiçbir giriş noktası onları
// çözmez, kayıt olarak dururlar (bilinçli korunan davranış).
func (s *VerificationService) Process(ctx context.Context, adminAddress string, requestID uint, approved bool, fee int64, publicKey, specialty, timelockFingerprint string) error {
	if approved && fee <= 0 {
		return ErrInvalidDoctorFee
	}

	var doctorAddress string
	txErr := s.tx.Do(ctx, func(txCtx context.Context) error {
		if err := s.roles.Require(txCtx, adminAddress, models.RoleAdmin); err != nil {
			return err
		}
		if err := s.timelock.ConsumeInTx(txCtx, timelockFingerprint); err != nil {
			return err
		}

		request, err := s.requests.FindByIDForUpdate(txCtx, requestID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrRequestNotFound
			}
			return err
		}
		if request.Processed {
			return ErrRequestProcessed
		}
		if s.now().Sub(request.RequestedAt) > VerificationTimeout {
			return ErrRequestExpired
		}

		request.Processed = true
		request.Approved = approved
		if err := s.requests.Update(txCtx, request); err != nil {
			return err
		}
		doctorAddress = request.DoctorAddress
		if !approved {
			return nil
		}

		// Onay: doktor kaydını doldur ve yetkiyi ver.
		exists, err := s.doctors.ExistsByAddress(txCtx, doctorAddress)
		if err != nil {
			return err
		}
		if exists {
			doctor, err := s.doctors.FindByAddressForUpdate(txCtx, doctorAddress)
			if err != nil {
				return err
			}
			doctor.License = request.License
			doctor.ConsultationFee = fee
			doctor.Specialty = specialty
			doctor.PublicKey = publicKey
			doctor.IsVerified = true
			doctor.IsActive = true
			doctor.LastActiveAt = s.now()
			if err := s.doctors.Update(txCtx, doctor); err != nil {
				return err
			}
		} else {
			doctor := &models.Doctor{
				Address:         doctorAddress,
				License:         request.License,
				ConsultationFee: fee,
				Specialty:       specialty,
				PublicKey:       publicKey,
				IsVerified:      true,
				IsActive:        true,
				LastActiveAt:    s.now(),
			}
			if err := s.doctors.Create(txCtx, doctor); err != nil {
				return err
			}
		}
		return grantRoleInTx(txCtx, s.accounts, doctorAddress, models.RoleDoctor)
	})
	if txErr != nil {
		configslog.Log.Error("Doğrulama başvurusu işlenemedi",
			zap.Uint("request_id", requestID), zap.String("admin", adminAddress), zap.Error(txErr))
		return txErr
	}

	s.events.Record(EventVerificationProcessed, strconv.FormatUint(uint64(requestID), 10), map[string]any{
		"doctor":   doctorAddress,
		"approved": approved,
	})
	configslog.SLog.Infof("Doğrulama başvurusu işlendi: ID %d, onay=%t (%s)", requestID, approved, doctorAddress)
	if approved {
		s.events.Record(EventDoctorRegistered, doctorAddress, map[string]any{
			"specialty": specialty,
			"fee":       fmt.Sprintf("%d", fee),
		})
	}
	return nil
}

var _ IVerificationService = (*VerificationService)(nil)
