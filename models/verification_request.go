package models

import "time"

// VerificationRequest doktor doğrulama başvurusu.
// Bir adresin aynı anda en fazla bir işlenmemiş başvurusu olabilir.
// Zaman aşımına uğrayan başvuru hiçbir giriş noktasıyla çözülemez;
// kayıt olarak kalır (bilinçli olarak korunan davranış).
type VerificationRequest struct {
	BaseModel
	DoctorAddress string    `gorm:"type:varchar(64);index;not null"`
	License       string    `gorm:"type:varchar(128);not null"`
	DocumentRef   string    `gorm:"type:varchar(512)"` // içerik adresli belge işaretçisi
	RequestedAt   time.Time `gorm:"type:timestamptz;not null"`
	Processed     bool      `gorm:"default:false;index"`
	Approved      bool      `gorm:"default:false"`
}
