package seeders

import (
	"errors"

	"telemed.link/configs"
	"telemed.link/configs/configslog"
	"telemed.link/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedSystemAdmin ortam değişkenlerindeki sistem yöneticisi hesabını oluşturur
// veya gizli anahtarını günceller. Yönetici adresi olmayan bir kurulum hiçbir
// zaman kilitli aksiyonu işleyemez.
func SeedSystemAdmin(db *gorm.DB) error {
	address := configs.GetEnv("ADMIN_ADDRESS", "")
	secret := configs.GetEnv("ADMIN_SECRET", "")
	if address == "" || secret == "" {
		return errors.New("ADMIN_ADDRESS ve ADMIN_SECRET tanımlı olmalı")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		configslog.Log.Error("Yönetici gizli anahtarı işlenemedi", zap.Error(err))
		return err
	}

	var account models.Account
	result := db.Where("address = ?", address).First(&account)
	if result.Error == nil {
		account.SecretHash = string(hash)
		account.IsAdmin = true
		if err := db.Save(&account).Error; err != nil {
			configslog.Log.Error("Yönetici hesabı güncellenemedi", zap.String("address", address), zap.Error(err))
			return err
		}
		configslog.SLog.Infof("Yönetici hesabı güncellendi: %s", address)
		return nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		configslog.Log.Error("Yönetici hesabı kontrol edilirken veritabanı hatası", zap.Error(result.Error))
		return result.Error
	}

	account = models.Account{
		Address:    address,
		SecretHash: string(hash),
		IsAdmin:    true,
	}
	if err := db.Create(&account).Error; err != nil {
		configslog.Log.Error("Yönetici hesabı oluşturulamadı", zap.String("address", address), zap.Error(err))
		return err
	}
	configslog.SLog.Infof("Yönetici hesabı oluşturuldu: %s (ID: %d)", address, account.ID)
	return nil
}

// SeedSystemState tekil sistem durumu satırını varsayılanlarla oluşturur.
func SeedSystemState(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.SystemState{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		configslog.SLog.Info("Sistem durumu kaydı zaten mevcut, oluşturma atlanıyor.")
		return nil
	}
	state := models.SystemState{Paused: false, EmergencyPremiumPct: 150}
	if err := db.Create(&state).Error; err != nil {
		configslog.Log.Error("Sistem durumu kaydı oluşturulamadı", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Sistem durumu kaydı oluşturuldu.")
	return nil
}
