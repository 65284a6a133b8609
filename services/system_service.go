package services

import (
	"context"

	"telemed.link/configs/configslog"
	"telemed.link/models"
	"telemed.link/repositories"

	"go.uber.org/zap"
)

// Hata sabitleri
const (
	ErrInvalidPremium SystemServiceError = "acil ücret çarpanı en az %100 olmalı"
)

// ISystemService operatör kontrollü sistem parametreleri: global duraklatma
// anahtarı ve acil randevu ücret çarpanı.
type ISystemService interface {
	GetState(ctx context.Context) (*models.SystemState, error)
	SetPaused(ctx context.Context, adminAddress string, paused bool) error
	SetEmergencyPremium(ctx context.Context, adminAddress string, premiumPct int) error
}

// SystemService ISystemService arayüzünü uygular.
type SystemService struct {
	system repositories.ISystemRepository
	roles  IRoleService
	tx     repositories.ITxManager
	events IEventService
}

// NewSystemService yeni bir SystemService örneği oluşturur.
func NewSystemService() ISystemService {
	return &SystemService{
		system: repositories.NewSystemRepository(),
		roles:  NewRoleService(),
		tx:     repositories.NewTxManager(configsDB()),
		events: NewEventService(),
	}
}

// GetState sistem durumunu döndürür.
func (s *SystemService) GetState(ctx context.Context) (*models.SystemState, error) {
	return s.system.Get(ctx)
}

// SetPaused duraklatma anahtarını çevirir. Duraklatma tüm normal giriş
// noktalarını dondurur; yalnızca acil çekim açık kalır.
func (s *SystemService) SetPaused(ctx context.Context, adminAddress string, paused bool) error {
	txErr := s.tx.Do(ctx, func(txCtx context.Context) error {
		if err := s.roles.Require(txCtx, adminAddress, models.RoleAdmin); err != nil {
			return err
		}
		state, err := s.system.Get(txCtx)
		if err != nil {
			return err
		}
		state.Paused = paused
		return s.system.Update(txCtx, state)
	})
	if txErr != nil {
		configslog.Log.Error("Duraklatma anahtarı değiştirilemedi", zap.Bool("paused", paused), zap.Error(txErr))
		return txErr
	}

	s.events.Record(EventSystemPauseChanged, "system", map[string]any{
		"paused": paused,
		"by":     adminAddress,
	})
	configslog.SLog.Infof("Sistem duraklatma anahtarı: %t (admin: %s)", paused, adminAddress)
	return nil
}

// SetEmergencyPremium acil randevu ücret çarpanını günceller (%100 taban).
func (s *SystemService) SetEmergencyPremium(ctx context.Context, adminAddress string, premiumPct int) error {
	if premiumPct < 100 {
		return ErrInvalidPremium
	}
	txErr := s.tx.Do(ctx, func(txCtx context.Context) error {
		if err := s.roles.Require(txCtx, adminAddress, models.RoleAdmin); err != nil {
			return err
		}
		state, err := s.system.Get(txCtx)
		if err != nil {
			return err
		}
		state.EmergencyPremiumPct = premiumPct
		return s.system.Update(txCtx, state)
	})
	if txErr != nil {
		configslog.Log.Error("Acil ücret çarpanı güncellenemedi", zap.Int("premium", premiumPct), zap.Error(txErr))
	}
	return txErr
}

var _ ISystemService = (*SystemService)(nil)
