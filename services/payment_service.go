package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"telemed.link/configs/configslog"
	"telemed.link/models"
	"telemed.link/pkg/checked"
	"telemed.link/repositories"

	"go.uber.org/zap"
)

// PaymentServiceError ödeme/uzlaşma hataları.
type PaymentServiceError string

func (e PaymentServiceError) Error() string { return string(e) }

// Hata sabitleri
const (
	ErrInsufficientPayment   PaymentServiceError = "gönderilen tutar ücreti karşılamıyor"
	ErrInsufficientWallet    PaymentServiceError = "cüzdan bakiyesi yetersiz"
	ErrInsufficientEscrow    PaymentServiceError = "emanet bakiyesi yetersiz"
	ErrTokenTransferFailed   PaymentServiceError = "token transferi başarısız, işlem iptal edildi"
	ErrInsuranceCheckFailed  PaymentServiceError = "sigorta doğrulaması başarısız, işlem iptal edildi"
	ErrUnknownAsset          PaymentServiceError = "bilinmeyen varlık türü"
	ErrInvalidAmount         PaymentServiceError = "tutar pozitif olmalı"
	ErrNothingToWithdraw     PaymentServiceError = "çekilecek emanet bakiyesi yok"
	ErrPaymentPatientMissing PaymentServiceError = "hasta kaydı bulunamadı"
	ErrPaymentDoctorMissing  PaymentServiceError = "doktor kaydı bulunamadı"
)

// IPaymentService ücret hesaplama, tahsilat, iade ve acil çekim.
type IPaymentService interface {
	Deposit(ctx context.Context, patientAddress string, amount int64) (int64, error)
	WalletBalance(ctx context.Context, patientAddress string) (int64, error)
	EmergencyWithdraw(ctx context.Context, doctorAddress string) (int64, error)
}

// PaymentService IPaymentService arayüzünü uygular.
type PaymentService struct {
	patients  repositories.IPatientRepository
	doctors   repositories.IDoctorRepository
	system    repositories.ISystemRepository
	tx        repositories.ITxManager
	events    IEventService
	insurance IInsuranceVerifier
	tokens    ITokenLedger
	fiat      IFiatRamp
	now       func() time.Time
}

// NewPaymentService yeni bir PaymentService örneği oluşturur.
func NewPaymentService() IPaymentService {
	return newPaymentServiceCore()
}

func newPaymentServiceCore() *PaymentService {
	return &PaymentService{
		patients:  repositories.NewPatientRepository(),
		doctors:   repositories.NewDoctorRepository(),
		system:    repositories.NewSystemRepository(),
		tx:        repositories.NewTxManager(configsDB()),
		events:    NewEventService(),
		insurance: NoopInsuranceVerifier{},
		tokens:    UnavailableTokenLedger{},
		fiat:      NoopFiatRamp{},
		now:       defaultClock(),
	}
}

// quoteFee ücreti hesaplar: taban ücret, sadakat indirimi, talep edilmişse
// ve işbirlikçi kapsamı onaylıyorsa sigorta indirimi. Sonuç asla negatif olmaz.
func (s *PaymentService) quoteFee(ctx context.Context, doctor *models.Doctor, patient *models.Patient, appointmentID uint, useInsurance bool) (fee int64, insuranceClaimed bool, err error) {
	fee = doctor.ConsultationFee

	discount := DiscountPercent(patient.Loyalty, s.now())
	fee -= fee * int64(discount) / 100

	if useInsurance {
		covered, pct, verifyErr := s.insurance.VerifyCoverage(ctx, patient.Address, appointmentID)
		if verifyErr != nil {
			return 0, false, fmt.Errorf("%w: %v", ErrInsuranceCheckFailed, verifyErr)
		}
		if covered {
			if pct < 0 {
				pct = 0
			}
			if pct > 100 {
				pct = 100
			}
			fee -= fee * int64(pct) / 100
			insuranceClaimed = true
		}
	}
	if fee < 0 {
		fee = 0
	}
	return fee, insuranceClaimed, nil
}

// collectInTx ücreti varlık türüne göre tahsil eder. Kilitli hasta ve doktor
// kayıtları üzerinde çalışır; fonlar kayıt onaylanabilir işaretlenmeden önce
// tahsil edilmiş (veya emanete alınmış) olur.
//
// Yerli varlık: çağıran en az ücret kadar tutar bildirmeli; yalnızca ücret
// kadar tutar cüzdandan düşülür (fazlası cüzdanda kalır, iade ile eşdeğer)
// ve doktorun çekilebilir emanet bakiyesine yazılır.
// Token varlıkları: allowance tabanlı transfer doğrudan hastadan doktora
// gider; transfer başarısızsa tüm operasyon iptal olur.
func (s *PaymentService) collectInTx(txCtx context.Context, asset models.AssetKind, patient *models.Patient, doctor *models.Doctor, fee, amountSupplied int64) error {
	if fee == 0 {
		return nil
	}
	switch asset {
	case models.AssetNative:
		if amountSupplied < fee {
			return ErrInsufficientPayment
		}
		if patient.WalletBalance < fee {
			return ErrInsufficientWallet
		}
		patient.WalletBalance -= fee
		newEscrow, err := checked.AddInt64(doctor.EscrowBalance, fee)
		if err != nil {
			return err
		}
		doctor.EscrowBalance = newEscrow
		return nil
	case models.AssetHLT, models.AssetUSDH:
		if err := s.tokens.TransferFrom(txCtx, asset, patient.Address, doctor.Address, fee); err != nil {
			return fmt.Errorf("%w: %v", ErrTokenTransferFailed, err)
		}
		return nil
	}
	return ErrUnknownAsset
}

// refundInTx tahsilatın aynadaki tersi: yerli varlıkta doktorun emanetinden
// hastanın cüzdanına, token varlıklarında doktordan hastaya transfer.
func (s *PaymentService) refundInTx(txCtx context.Context, asset models.AssetKind, patient *models.Patient, doctor *models.Doctor, fee int64) error {
	if fee == 0 {
		return nil
	}
	switch asset {
	case models.AssetNative:
		if doctor.EscrowBalance < fee {
			return ErrInsufficientEscrow
		}
		doctor.EscrowBalance -= fee
		newWallet, err := checked.AddInt64(patient.WalletBalance, fee)
		if err != nil {
			return err
		}
		patient.WalletBalance = newWallet
		return nil
	case models.AssetHLT, models.AssetUSDH:
		if err := s.tokens.TransferFrom(txCtx, asset, doctor.Address, patient.Address, fee); err != nil {
			return fmt.Errorf("%w: %v", ErrTokenTransferFailed, err)
		}
		return nil
	}
	return ErrUnknownAsset
}

// Deposit itibari para girişini ramp işbirlikçisinden geçirip cüzdana yazar.
func (s *PaymentService) Deposit(ctx context.Context, patientAddress string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	var balance int64
	txErr := s.tx.Do(ctx, func(txCtx context.Context) error {
		if err := ensureNotPaused(txCtx, s.system); err != nil {
			return err
		}
		patient, err := s.patients.FindByAddressForUpdate(txCtx, patientAddress)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrPaymentPatientMissing
			}
			return err
		}
		if err := s.fiat.OnRamp(txCtx, patientAddress, amount); err != nil {
			return err
		}
		newBalance, err := checked.AddInt64(patient.WalletBalance, amount)
		if err != nil {
			return err
		}
		patient.WalletBalance = newBalance
		balance = newBalance
		return s.patients.Update(txCtx, patient)
	})
	if txErr != nil {
		configslog.Log.Error("Cüzdan yüklemesi başarısız", zap.String("patient", patientAddress), zap.Error(txErr))
		return 0, txErr
	}
	return balance, nil
}

// WalletBalance hastanın yerli varlık cüzdan bakiyesi.
func (s *PaymentService) WalletBalance(ctx context.Context, patientAddress string) (int64, error) {
	patient, err := s.patients.FindByAddress(ctx, patientAddress)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return 0, ErrPaymentPatientMissing
		}
		return 0, err
	}
	return patient.WalletBalance, nil
}

// EmergencyWithdraw yalnızca sistem duraklatılmışken açık olan acil çıkış:
// doktorun emanet bakiyesini ramp üzerinden dışarı aktarır ve sıfırlar.
// Normal bir operasyon değildir.
func (s *PaymentService) EmergencyWithdraw(ctx context.Context, doctorAddress string) (int64, error) {
	var amount int64
	txErr := s.tx.Do(ctx, func(txCtx context.Context) error {
		state, err := s.system.Get(txCtx)
		if err != nil {
			return err
		}
		if !state.Paused {
			return ErrSystemNotPaused
		}
		doctor, err := s.doctors.FindByAddressForUpdate(txCtx, doctorAddress)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrPaymentDoctorMissing
			}
			return err
		}
		if doctor.EscrowBalance <= 0 {
			return ErrNothingToWithdraw
		}
		amount = doctor.EscrowBalance
		if err := s.fiat.OffRamp(txCtx, doctorAddress, amount); err != nil {
			return err
		}
		doctor.EscrowBalance = 0
		return s.doctors.Update(txCtx, doctor)
	})
	if txErr != nil {
		configslog.Log.Error("Acil çekim başarısız", zap.String("doctor", doctorAddress), zap.Error(txErr))
		return 0, txErr
	}

	s.events.Record(EventEmergencyWithdrawal, doctorAddress, map[string]any{
		"amount": amount,
	})
	configslog.SLog.Infof("Acil çekim tamamlandı: %s (%d)", doctorAddress, amount)
	return amount, nil
}

var _ IPaymentService = (*PaymentService)(nil)
