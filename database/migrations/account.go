package migrations

import (
	"telemed.link/configs/configslog"
	"telemed.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigrateAccountsTable(db *gorm.DB) error {
	configslog.SLog.Info("Migrating accounts table...")
	err := db.AutoMigrate(&models.Account{})
	if err != nil {
		configslog.Log.Error("Failed to migrate accounts table", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Accounts table migrated successfully")
	return nil
}
