package models

import "time"

// LoyaltyState hastaya gömülü sadakat durumu.
// Seviye yalnızca puan birikimiyle yükselir; 2-3. seviyeler süre dolunca
// okuma anında (lazy) ayrıcalıksız sayılır, arka plan zamanlayıcısı yoktur.
type LoyaltyState struct {
	Points           int64      `gorm:"default:0"`
	Level            int        `gorm:"default:0"`
	LevelExpiresAt   *time.Time `gorm:"type:timestamptz"`
	LastCheckInAt    *time.Time `gorm:"type:timestamptz"`
	WeeklyResetAt    *time.Time `gorm:"type:timestamptz"`
	WeeklyCount      int        `gorm:"default:0"`
	MonthlyCount     int        `gorm:"default:0"`
	ReferralCount    int        `gorm:"default:0"`
	LeaderboardOptIn bool       `gorm:"default:false"`
}

// Patient adresle anahtarlanan hasta kimlik kaydı.
// Adres başına tam olarak bir kayıt olabilir; kayıt tekrarına izin verilmez.
type Patient struct {
	BaseModel
	Address             string       `gorm:"type:varchar(64);uniqueIndex;not null"`
	MedicalHistoryHash  string       `gorm:"type:varchar(128)"` // tıbbi geçmiş parmak izi
	EncryptedKey        string       `gorm:"type:text"`         // şifreli simetrik anahtar blob'u
	InsuranceProvider   string       `gorm:"type:varchar(128)"`
	DIDFingerprint      string       `gorm:"type:varchar(128)"`
	NotifyPrefs         string       `gorm:"type:varchar(255)"`
	MonetizationConsent bool         `gorm:"default:false"`
	RewardBalance       int64        `gorm:"default:0"`
	WalletBalance       int64        `gorm:"default:0"` // yerli varlık cüzdanı
	Loyalty             LoyaltyState `gorm:"embedded;embeddedPrefix:loyalty_"`
}
