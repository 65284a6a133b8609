package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"telemed.link/configs/configslog"
	"telemed.link/models"
	"telemed.link/repositories"
)

// TimelockServiceError zaman kilidi servisi hataları.
type TimelockServiceError string

func (e TimelockServiceError) Error() string { return string(e) }

// Hata sabitleri
const (
	ErrTimelockExists     TimelockServiceError = "bu parmak iziyle bekleyen aksiyon zaten var"
	ErrTimelockNotQueued  TimelockServiceError = "aksiyon kuyruğa alınmamış"
	ErrTimelockNotElapsed TimelockServiceError = "zaman kilidi süresi henüz dolmadı"
	ErrInvalidFingerprint TimelockServiceError = "geçersiz aksiyon parmak izi"
)

// ActionFingerprint aksiyon tanımından sha256 parmak izi üretir.
// Admin araçları aynı türetmeyi kullanırsa kuyruklama ile tüketim eşleşir.
func ActionFingerprint(parts ...string) string {
	h := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(h[:])
}

// ITimelockService yüksek etkili admin aksiyonlarını zorunlu gözlem
// penceresine tabi tutar: kuyrukla, 24 saat bekle, tek sefer tüket.
type ITimelockService interface {
	Queue(ctx context.Context, adminAddress, fingerprint string) (time.Time, error)
	ConsumeInTx(txCtx context.Context, fingerprint string) error
}

// TimelockService ITimelockService arayüzünü uygular.
type TimelockService struct {
	timelocks repositories.ITimelockRepository
	roles     IRoleService
	tx        repositories.ITxManager
	events    IEventService
	now       func() time.Time
}

// NewTimelockService yeni bir TimelockService örneği oluşturur.
func NewTimelockService() ITimelockService {
	return &TimelockService{
		timelocks: repositories.NewTimelockRepository(),
		roles:     NewRoleService(),
		tx:        repositories.NewTxManager(configsDB()),
		events:    NewEventService(),
	}
}

func (s *TimelockService) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now().UTC()
}

// Queue aksiyonu kuyruğa alır; kilit şimdi+24 saat sonra açılır.
func (s *TimelockService) Queue(ctx context.Context, adminAddress, fingerprint string) (time.Time, error) {
	if fingerprint == "" {
		return time.Time{}, ErrInvalidFingerprint
	}

	var unlockAt time.Time
	txErr := s.tx.Do(ctx, func(txCtx context.Context) error {
		if err := s.roles.Require(txCtx, adminAddress, models.RoleAdmin); err != nil {
			return err
		}
		exists, err := s.timelocks.Exists(txCtx, fingerprint)
		if err != nil {
			return err
		}
		if exists {
			return ErrTimelockExists
		}
		unlockAt = s.clock().Add(TimelockDelay)
		return s.timelocks.Create(txCtx, &models.TimelockedAction{
			Fingerprint: fingerprint,
			UnlockAt:    unlockAt,
			QueuedBy:    adminAddress,
		})
	})
	if txErr != nil {
		return time.Time{}, txErr
	}

	s.events.Record(EventAdminActionQueued, fingerprint, map[string]any{
		"queued_by": adminAddress,
		"unlock_at": unlockAt,
	})
	configslog.SLog.Infof("Admin aksiyonu kuyruğa alındı: %s (açılış: %s)", fingerprint, unlockAt)
	return unlockAt, nil
}

// ConsumeInTx ayrıcalıklı iş akışının transaction'ı içinde çağrılır:
// kayıt var ve süresi dolmuşsa siler; aksi halde tüm operasyon iptal olur.
// Tek kullanımlıktır, yeniden kurulamaz.
func (s *TimelockService) ConsumeInTx(txCtx context.Context, fingerprint string) error {
	if fingerprint == "" {
		return ErrInvalidFingerprint
	}
	action, err := s.timelocks.FindByFingerprintForUpdate(txCtx, fingerprint)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrTimelockNotQueued
		}
		return err
	}
	if s.clock().Before(action.UnlockAt) {
		return ErrTimelockNotElapsed
	}
	return s.timelocks.Delete(txCtx, action)
}

var _ ITimelockService = (*TimelockService)(nil)
