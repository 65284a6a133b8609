package models

// SystemState tekil (singleton) sistem durumu satırı.
// Paused tüm normal giriş noktalarını dondurur; yalnızca acil çekim açık kalır.
type SystemState struct {
	BaseModel
	Paused              bool `gorm:"default:false"`
	EmergencyPremiumPct int  `gorm:"default:150"` // acil randevu ücret çarpanı (%)
}
