package migrations

import (
	"telemed.link/configs/configslog"
	"telemed.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigrateDoctorsTables(db *gorm.DB) error {
	configslog.SLog.Info("Migrating doctors & verification_requests tables...")
	err := db.AutoMigrate(&models.Doctor{}, &models.VerificationRequest{})
	if err != nil {
		configslog.Log.Error("Failed to migrate doctors & verification_requests tables", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Doctors & verification_requests tables migrated successfully")
	return nil
}
