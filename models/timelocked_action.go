package models

import "time"

// TimelockedAction parmak izi ile anahtarlanan zaman kilitli admin aksiyonu.
// Kilit süresi dolmadan tüketilemez; tüketildiğinde kayıt silinir (tek kullanımlık).
type TimelockedAction struct {
	BaseModel
	Fingerprint string    `gorm:"type:varchar(128);uniqueIndex;not null"`
	UnlockAt    time.Time `gorm:"type:timestamptz;not null"`
	QueuedBy    string    `gorm:"type:varchar(64);not null"`
}
