package services

import (
	"context"
	"errors"
	"time"

	"telemed.link/configs/configslog"
	"telemed.link/models"
	"telemed.link/repositories"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// PatientServiceError hasta kayıt servisi hataları.
type PatientServiceError string

func (e PatientServiceError) Error() string { return string(e) }

// Hata sabitleri
const (
	ErrPatientExists         PatientServiceError = "bu adres zaten kayıtlı"
	ErrPatientNotFound       PatientServiceError = "hasta kaydı bulunamadı"
	ErrDIDVerificationFailed PatientServiceError = "kimlik doğrulaması başarısız"
	ErrInvalidAddress        PatientServiceError = "geçersiz adres"
	ErrSecretTooShort        PatientServiceError = "erişim anahtarı en az 8 karakter olmalı"
	ErrSecretHashingFailed   PatientServiceError = "erişim anahtarı işlenirken hata oluştu"
)

// RegisterPatientInput kayıt girdileri.
type RegisterPatientInput struct {
	Address             string
	Secret              string
	MedicalHistoryHash  string
	EncryptedKey        string
	InsuranceProvider   string
	DIDFingerprint      string
	NotifyPrefs         string
	MonetizationConsent bool
}

// IPatientService hasta kaydı ve hasta tercihleri.
type IPatientService interface {
	Register(ctx context.Context, input RegisterPatientInput) (*models.Patient, error)
	GetByAddress(ctx context.Context, address string) (*models.Patient, error)
	SetMonetizationConsent(ctx context.Context, patientAddress string, consent bool) error
}

// PatientService IPatientService arayüzünü uygular.
type PatientService struct {
	patients repositories.IPatientRepository
	accounts repositories.IAccountRepository
	system   repositories.ISystemRepository
	identity IIdentityVerifier
	tx       repositories.ITxManager
	events   IEventService
	now      func() time.Time
}

// NewPatientService yeni bir PatientService örneği oluşturur.
func NewPatientService() IPatientService {
	return &PatientService{
		patients: repositories.NewPatientRepository(),
		accounts: repositories.NewAccountRepository(),
		system:   repositories.NewSystemRepository(),
		identity: BasicIdentityVerifier{},
		tx:       repositories.NewTxManager(configsDB()),
		events:   NewEventService(),
		now:      defaultClock(),
	}
}

// Register yeni hasta kaydı oluşturur. Adres başına bir kayıt: tekrar
// kayıt reddedilir. DID doğrulayıcısına yalnızca burada, bir kez danışılır.
// Kaydın terminal adımı Patient yetkisinin verilmesidir.
func (s *PatientService) Register(ctx context.Context, input RegisterPatientInput) (*models.Patient, error) {
	if input.Address == "" {
		return nil, ErrInvalidAddress
	}
	if len(input.Secret) < 8 {
		return nil, ErrSecretTooShort
	}

	ok, err := s.identity.VerifyDID(ctx, input.Address, input.DIDFingerprint)
	if err != nil || !ok {
		return nil, ErrDIDVerificationFailed
	}

	var patient *models.Patient
	txErr := s.tx.Do(ctx, func(txCtx context.Context) error {
		if err := ensureNotPaused(txCtx, s.system); err != nil {
			return err
		}
		exists, err := s.patients.ExistsByAddress(txCtx, input.Address)
		if err != nil {
			return err
		}
		if exists {
			return ErrPatientExists
		}

		patient = &models.Patient{
			Address:             input.Address,
			MedicalHistoryHash:  input.MedicalHistoryHash,
			EncryptedKey:        input.EncryptedKey,
			InsuranceProvider:   input.InsuranceProvider,
			DIDFingerprint:      input.DIDFingerprint,
			NotifyPrefs:         input.NotifyPrefs,
			MonetizationConsent: input.MonetizationConsent,
			Loyalty:             models.LoyaltyState{Level: 1},
		}
		if err := s.patients.Create(txCtx, patient); err != nil {
			return err
		}

		hash, hashErr := bcrypt.GenerateFromPassword([]byte(input.Secret), bcrypt.DefaultCost)
		if hashErr != nil {
			return ErrSecretHashingFailed
		}
		account, err := s.accounts.FindByAddressForUpdate(txCtx, input.Address)
		if err != nil {
			if !errors.Is(err, repositories.ErrNotFound) {
				return err
			}
			return s.accounts.Create(txCtx, &models.Account{
				Address:    input.Address,
				SecretHash: string(hash),
				IsPatient:  true,
			})
		}
		account.SecretHash = string(hash)
		account.IsPatient = true
		return s.accounts.Update(txCtx, account)
	})
	if txErr != nil {
		configslog.Log.Error("Hasta kaydı başarısız", zap.String("address", input.Address), zap.Error(txErr))
		return nil, txErr
	}

	s.events.Record(EventPatientRegistered, input.Address, map[string]any{
		"insurance_provider": input.InsuranceProvider,
		"consent":            input.MonetizationConsent,
	})
	configslog.SLog.Infof("Hasta kaydedildi: %s", input.Address)
	return patient, nil
}

// GetByAddress hasta kaydını döndürür.
func (s *PatientService) GetByAddress(ctx context.Context, address string) (*models.Patient, error) {
	patient, err := s.patients.FindByAddress(ctx, address)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}
	return patient, nil
}

// SetMonetizationConsent veri paraya çevirme onayını günceller.
func (s *PatientService) SetMonetizationConsent(ctx context.Context, patientAddress string, consent bool) error {
	txErr := s.tx.Do(ctx, func(txCtx context.Context) error {
		patient, err := s.patients.FindByAddressForUpdate(txCtx, patientAddress)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrPatientNotFound
			}
			return err
		}
		patient.MonetizationConsent = consent
		return s.patients.Update(txCtx, patient)
	})
	if txErr != nil {
		configslog.Log.Error("Onay güncellenemedi", zap.String("patient", patientAddress), zap.Error(txErr))
	}
	return txErr
}

var _ IPatientService = (*PatientService)(nil)
