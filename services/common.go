package services

import (
	"context"
	"time"

	"telemed.link/configs"
	"telemed.link/repositories"

	"gorm.io/gorm"
)

// SystemServiceError sistem geneli durum hataları.
type SystemServiceError string

func (e SystemServiceError) Error() string { return string(e) }

// Hata sabitleri
const (
	ErrSystemPaused    SystemServiceError = "sistem duraklatıldı"
	ErrSystemNotPaused SystemServiceError = "sistem duraklatılmış değil"
)

func configsDB() *gorm.DB {
	return configs.GetDB()
}

func defaultClock() func() time.Time {
	return func() time.Time { return time.Now().UTC() }
}

// ensureNotPaused normal giriş noktalarının ortak koruması: sistem
// duraklatılmışsa operasyon durum koruması hatasıyla reddedilir.
func ensureNotPaused(txCtx context.Context, system repositories.ISystemRepository) error {
	state, err := system.Get(txCtx)
	if err != nil {
		return err
	}
	if state.Paused {
		return ErrSystemPaused
	}
	return nil
}
