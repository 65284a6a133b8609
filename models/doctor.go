package models

import "time"

// Doctor adresle anahtarlanan doktor kaydı.
// IsVerified yalnızca doğrulama iş akışı tarafından bir kez set edilir,
// normal operasyonlar tarafından asla geri alınmaz.
type Doctor struct {
	BaseModel
	Address         string    `gorm:"type:varchar(64);uniqueIndex;not null"`
	License         string    `gorm:"type:varchar(128);not null"`
	ConsultationFee int64     `gorm:"not null"`
	Specialty       string    `gorm:"type:varchar(128)"`
	PublicKey       string    `gorm:"type:text"`
	RatingSum       int64     `gorm:"default:0"`
	RatingCount     int64     `gorm:"default:0"`
	IsVerified      bool      `gorm:"default:false;index"`
	IsActive        bool      `gorm:"default:false;index"`
	EscrowBalance   int64     `gorm:"default:0"` // emanetteki yerli varlık bakiyesi
	LastActiveAt    time.Time `gorm:"type:timestamptz"`
}

// AverageRating tamsayı bölmeli ortalama puan (0 oy = 0).
func (d *Doctor) AverageRating() int64 {
	if d.RatingCount == 0 {
		return 0
	}
	return d.RatingSum / d.RatingCount
}
