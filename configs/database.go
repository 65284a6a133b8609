package configs

import (
	"telemed.link/configs/configslog"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var db *gorm.DB

// InitDB Postgres bağlantısını açar ve global handle'ı ayarlar.
func InitDB() *gorm.DB {
	dsn := GetDatabaseDSN()
	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		configslog.Log.Fatal("Veritabanı bağlantısı kurulamadı", zap.Error(err))
	}
	db = conn
	configslog.SLog.Info("Veritabanı bağlantısı kuruldu.")
	return db
}

// GetDB aktif veritabanı bağlantısını döndürür.
func GetDB() *gorm.DB {
	if db == nil {
		configslog.Log.Fatal("Veritabanı henüz başlatılmadı (önce InitDB çağrılmalı)")
	}
	return db
}

// SetDB testlerde veya özel başlatmalarda bağlantıyı dışarıdan vermek için.
func SetDB(conn *gorm.DB) {
	db = conn
}
