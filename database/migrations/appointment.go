package migrations

import (
	"telemed.link/configs/configslog"
	"telemed.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigrateAppointmentsTables(db *gorm.DB) error {
	configslog.SLog.Info("Migrating appointments & availability_slots tables...")
	err := db.AutoMigrate(&models.Appointment{}, &models.AvailabilitySlot{}, &models.RecordAccessGrant{})
	if err != nil {
		configslog.Log.Error("Failed to migrate appointments & availability_slots tables", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Appointments & availability_slots tables migrated successfully")
	return nil
}
