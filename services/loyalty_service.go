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

// LoyaltyServiceError sadakat servisi hataları.
type LoyaltyServiceError string

func (e LoyaltyServiceError) Error() string { return string(e) }

// Hata sabitleri
const (
	ErrLoyaltyOverflow       LoyaltyServiceError = "puan bakiyesi taşacak, işlem reddedildi"
	ErrCheckInTooSoon        LoyaltyServiceError = "günlük check-in için henüz erken"
	ErrLoyaltyPatientMissing LoyaltyServiceError = "hasta kaydı bulunamadı"
)

// Seviye eşikleri: kümülatif toplam >300 -> 4, >150 -> 3, >50 -> 2, aksi 1.
func computeLevel(points int64) int {
	switch {
	case points > 300:
		return 4
	case points > 150:
		return 3
	case points > 50:
		return 2
	default:
		return 1
	}
}

// DiscountPercent seviyenin ve (varsa) seviye süresinin saf fonksiyonu:
// 4 -> %30, 3 (süresi dolmamış) -> %20, 2 (süresi dolmamış) -> %10,
// 1 -> %5, süresi dolmuş veya seviye 0 -> %0.
// Süre yalnızca 2-3. seviyeleri sınırlar; 1 ve 4 hiç dolmaz.
func DiscountPercent(state models.LoyaltyState, now time.Time) int {
	switch state.Level {
	case 4:
		return 30
	case 3:
		if state.LevelExpiresAt != nil && !now.Before(*state.LevelExpiresAt) {
			return 0
		}
		return 20
	case 2:
		if state.LevelExpiresAt != nil && !now.Before(*state.LevelExpiresAt) {
			return 0
		}
		return 10
	case 1:
		return 5
	}
	return 0
}

// applyAward puanı taşma kontrolüyle ekler, seviyeyi kümülatif toplamdan
// yeniden hesaplar ve seviye yükselişinde (L>=2) son kullanma damgası basar.
// Seviye asla düşürülmez; düşüş yalnızca okuma anındaki süre kontrolüyle
// etkisizleşir.
func applyAward(state *models.LoyaltyState, points int64, now time.Time) error {
	newBalance, err := checked.AddInt64(state.Points, points)
	if err != nil {
		return ErrLoyaltyOverflow
	}
	state.Points = newBalance

	newLevel := computeLevel(newBalance)
	if newLevel > state.Level {
		state.Level = newLevel
		if newLevel >= 2 && newLevel < 4 {
			expiry := now.Add(time.Duration(newLevel-1) * LoyaltyLevelUnit)
			state.LevelExpiresAt = &expiry
		} else {
			state.LevelExpiresAt = nil
		}
	}
	return nil
}

// ILoyaltyService puan birikimi, indirim dilimi ve periyodik sayaçlar.
type ILoyaltyService interface {
	GetState(ctx context.Context, patientAddress string) (*models.LoyaltyState, int, error)
	DailyCheckIn(ctx context.Context, patientAddress string) (int64, error)
	SetLeaderboardOptIn(ctx context.Context, patientAddress string, optIn bool) error
}

// LoyaltyService ILoyaltyService arayüzünü uygular.
type LoyaltyService struct {
	patients repositories.IPatientRepository
	system   repositories.ISystemRepository
	tx       repositories.ITxManager
	events   IEventService
	now      func() time.Time
}

// NewLoyaltyService yeni bir LoyaltyService örneği oluşturur.
func NewLoyaltyService() ILoyaltyService {
	return &LoyaltyService{
		patients: repositories.NewPatientRepository(),
		system:   repositories.NewSystemRepository(),
		tx:       repositories.NewTxManager(configsDB()),
		events:   NewEventService(),
		now:      defaultClock(),
	}
}

// GetState hastanın sadakat durumunu ve geçerli indirim yüzdesini döndürür.
// Süre dolması okuma anında değerlendirilir.
func (s *LoyaltyService) GetState(ctx context.Context, patientAddress string) (*models.LoyaltyState, int, error) {
	patient, err := s.patients.FindByAddress(ctx, patientAddress)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, 0, ErrLoyaltyPatientMissing
		}
		return nil, 0, err
	}
	state := patient.Loyalty
	return &state, DiscountPercent(state, s.now()), nil
}

// DailyCheckIn 24 saatte bir çağrılabilir; 5 puan kazandırır ve haftalık
// sayacı günceller (7 gün geçtiyse sayaç yeniden başlar).
func (s *LoyaltyService) DailyCheckIn(ctx context.Context, patientAddress string) (int64, error) {
	var newBalance int64
	txErr := s.tx.Do(ctx, func(txCtx context.Context) error {
		if err := ensureNotPaused(txCtx, s.system); err != nil {
			return err
		}
		patient, err := s.patients.FindByAddressForUpdate(txCtx, patientAddress)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrLoyaltyPatientMissing
			}
			return err
		}

		now := s.now()
		if patient.Loyalty.LastCheckInAt != nil && now.Sub(*patient.Loyalty.LastCheckInAt) < CheckInInterval {
			return ErrCheckInTooSoon
		}

		if err := applyAward(&patient.Loyalty, PointsCheckIn, now); err != nil {
			return err
		}
		patient.Loyalty.LastCheckInAt = &now

		// Haftalık pencere: süresi geçtiyse sayaç sıfırdan başlar.
		if patient.Loyalty.WeeklyResetAt == nil || now.Sub(*patient.Loyalty.WeeklyResetAt) >= WeeklyWindow {
			patient.Loyalty.WeeklyResetAt = &now
			patient.Loyalty.WeeklyCount = 0
		}
		count, err := checked.AddInt(patient.Loyalty.WeeklyCount, 1)
		if err != nil {
			return ErrLoyaltyOverflow
		}
		patient.Loyalty.WeeklyCount = count

		newBalance = patient.Loyalty.Points
		return s.patients.Update(txCtx, patient)
	})
	if txErr != nil {
		return 0, txErr
	}

	s.events.Record(EventLoyaltyPointsEarned, patientAddress, map[string]any{
		"points":  PointsCheckIn,
		"balance": newBalance,
		"reason":  "check_in",
	})
	configslog.SLog.Infof("Günlük check-in: %s (+%d puan, bakiye %d)", patientAddress, PointsCheckIn, newBalance)
	return newBalance, nil
}

// SetLeaderboardOptIn liderlik tablosu görünürlük tercihini günceller.
func (s *LoyaltyService) SetLeaderboardOptIn(ctx context.Context, patientAddress string, optIn bool) error {
	txErr := s.tx.Do(ctx, func(txCtx context.Context) error {
		patient, err := s.patients.FindByAddressForUpdate(txCtx, patientAddress)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrLoyaltyPatientMissing
			}
			return err
		}
		patient.Loyalty.LeaderboardOptIn = optIn
		return s.patients.Update(txCtx, patient)
	})
	if txErr != nil {
		configslog.Log.Error("SetLeaderboardOptIn başarısız", zap.String("patient", patientAddress), zap.Error(txErr))
		return txErr
	}
	return nil
}

// resolveReferralInTx rezervasyonun yan etkisi: referans verilen adres
// Patient yetkisi taşıyorsa ve çağırandan farklıysa, referans sayacı artar
// ve referans veren 15 puan kazanır. Ayrı bir giriş noktası değildir.
// Ödül verildiyse referans verenin yeni puan bakiyesi de döner; çağıran
// commit sonrası olayı bu bakiyeyle kaydeder.
func resolveReferralInTx(txCtx context.Context, patients repositories.IPatientRepository, accounts repositories.IAccountRepository, caller, referrer string, now time.Time) (bool, int64, error) {
	if referrer == "" || referrer == caller {
		return false, 0, nil
	}
	account, err := accounts.FindByAddress(txCtx, referrer)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return false, 0, nil
		}
		return false, 0, err
	}
	if !account.HasRole(models.RolePatient) {
		return false, 0, nil
	}

	refPatient, err := patients.FindByAddressForUpdate(txCtx, referrer)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return false, 0, nil
		}
		return false, 0, err
	}
	count, err := checked.AddInt(refPatient.Loyalty.ReferralCount, 1)
	if err != nil {
		return false, 0, fmt.Errorf("%w: referans sayacı", ErrLoyaltyOverflow)
	}
	refPatient.Loyalty.ReferralCount = count
	if err := applyAward(&refPatient.Loyalty, PointsReferral, now); err != nil {
		return false, 0, err
	}
	return true, refPatient.Loyalty.Points, patients.Update(txCtx, refPatient)
}

var _ ILoyaltyService = (*LoyaltyService)(nil)
