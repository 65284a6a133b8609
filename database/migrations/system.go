package migrations

import (
	"telemed.link/configs/configslog"
	"telemed.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigrateSystemTables(db *gorm.DB) error {
	configslog.SLog.Info("Migrating system_states & timelocked_actions tables...")
	err := db.AutoMigrate(&models.SystemState{}, &models.TimelockedAction{})
	if err != nil {
		configslog.Log.Error("Failed to migrate system_states & timelocked_actions tables", zap.Error(err))
		return err
	}
	configslog.SLog.Info("System_states & timelocked_actions tables migrated successfully")
	return nil
}
