package migrations

import (
	"telemed.link/configs/configslog"
	"telemed.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigratePatientsTable(db *gorm.DB) error {
	configslog.SLog.Info("Migrating patients table...")
	err := db.AutoMigrate(&models.Patient{})
	if err != nil {
		configslog.Log.Error("Failed to migrate patients table", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Patients table migrated successfully")
	return nil
}
