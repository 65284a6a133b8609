package database

import (
	"telemed.link/configs/configslog"
	"telemed.link/database/migrations"
	"telemed.link/database/seeders"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func Initialize(db *gorm.DB, migrate bool, seed bool) {
	if !migrate && !seed {
		configslog.SLog.Info("Migrate veya seed bayrağı belirtilmedi, işlem yapılmayacak.")
		return
	}

	tx := db.Begin()
	if tx.Error != nil {
		configslog.Log.Fatal("Veritabanı transaction başlatılamadı", zap.Error(tx.Error))
		return
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			configslog.Log.Fatal("Veritabanı başlatma işlemi başarısız oldu (panic)", zap.Any("panic_info", r))
		} else if err := tx.Error; err != nil && err != gorm.ErrInvalidTransaction {
			configslog.SLog.Warn("Başlatma sırasında hata oluştuğu için işlem geri alınıyor.", zap.Error(err))
			rbErr := tx.Rollback().Error
			if rbErr != nil && rbErr != gorm.ErrInvalidTransaction {
				configslog.Log.Error("Rollback sırasında ek hata oluştu", zap.Error(rbErr))
			}
		}
	}()

	configslog.SLog.Info("Veritabanı başlatma işlemi başlıyor...")

	if migrate {
		configslog.SLog.Info("Migrasyonlar çalıştırılıyor...")
		if err := RunMigrationsInOrder(tx); err != nil {
			configslog.Log.Error("Migrasyon başarısız oldu", zap.Error(err))
			return
		}
		configslog.SLog.Info("Migrasyonlar tamamlandı.")
	} else {
		configslog.SLog.Info("Migrate bayrağı belirtilmedi, migrasyon adımı atlanıyor.")
	}

	if seed {
		configslog.SLog.Info("Seeder'lar çalıştırılıyor...")
		if err := CheckAndRunSeeders(tx); err != nil {
			configslog.Log.Error("Seeding başarısız oldu", zap.Error(err))
			return
		}
		configslog.SLog.Info("Seeder'lar tamamlandı.")
	} else {
		configslog.SLog.Info("Seed bayrağı belirtilmedi, seeder adımı atlanıyor.")
	}

	configslog.SLog.Info("İşlem commit ediliyor...")
	if err := tx.Commit().Error; err != nil {
		tx.Error = err
		configslog.Log.Error("Commit başarısız oldu", zap.Error(err))
		return
	}

	configslog.SLog.Info("Veritabanı başlatma işlemi başarıyla tamamlandı")
}

func RunMigrationsInOrder(db *gorm.DB) error {
	configslog.SLog.Info("Migrasyonlar sırayla çalıştırılıyor...")

	configslog.SLog.Info(" -> Account migrasyonları çalıştırılıyor...")
	if err := migrations.MigrateAccountsTable(db); err != nil {
		configslog.Log.Error("Accounts tablosu migrasyonu başarısız oldu", zap.Error(err))
		return err
	}
	configslog.SLog.Info(" -> Account migrasyonları tamamlandı.")

	configslog.SLog.Info(" -> Patient migrasyonları çalıştırılıyor...")
	if err := migrations.MigratePatientsTable(db); err != nil {
		configslog.Log.Error("Patients tablosu migrasyonu başarısız oldu", zap.Error(err))
		return err
	}
	configslog.SLog.Info(" -> Patient migrasyonları tamamlandı.")

	configslog.SLog.Info(" -> Doctor migrasyonları çalıştırılıyor...")
	if err := migrations.MigrateDoctorsTables(db); err != nil {
		configslog.Log.Error("Doctors tabloları migrasyonu başarısız oldu", zap.Error(err))
		return err
	}
	configslog.SLog.Info(" -> Doctor migrasyonları tamamlandı.")

	configslog.SLog.Info(" -> Appointment migrasyonları çalıştırılıyor...")
	if err := migrations.MigrateAppointmentsTables(db); err != nil {
		configslog.Log.Error("Appointments tabloları migrasyonu başarısız oldu", zap.Error(err))
		return err
	}
	configslog.SLog.Info(" -> Appointment migrasyonları tamamlandı.")

	configslog.SLog.Info(" -> System migrasyonları çalıştırılıyor...")
	if err := migrations.MigrateSystemTables(db); err != nil {
		configslog.Log.Error("System tabloları migrasyonu başarısız oldu", zap.Error(err))
		return err
	}
	configslog.SLog.Info(" -> System migrasyonları tamamlandı.")

	configslog.SLog.Info("Tüm migrasyonlar başarıyla çalıştırıldı.")
	return nil
}

func CheckAndRunSeeders(db *gorm.DB) error {
	configslog.SLog.Info("Sistem yöneticisi kontrol ediliyor/oluşturuluyor/güncelleniyor...")
	if err := seeders.SeedSystemAdmin(db); err != nil {
		configslog.Log.Error("Sistem yöneticisi seed/update işlemi başarısız", zap.Error(err))
		return err
	}

	configslog.SLog.Info(" -> Sistem durumu seeder çalıştırılıyor...")
	if err := seeders.SeedSystemState(db); err != nil {
		configslog.Log.Error("Sistem durumu seed edilemedi", zap.Error(err))
		return err
	}
	configslog.SLog.Info(" -> Sistem durumu seeder tamamlandı.")

	configslog.SLog.Info("Tüm seeder'lar başarıyla kontrol edildi/çalıştırıldı.")
	return nil
}
