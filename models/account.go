package models

// Role adresin sahip olabileceği yetki kümesi.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleDoctor  Role = "DOCTOR"
	RolePatient Role = "PATIENT"
)

// Account bir ledger adresinin hesap kaydı.
// Yetkiler ayrık (disjoint) bayraklardır; hiyerarşi yoktur, her giriş
// noktası çağıranın bayrağını ayrıca kontrol eder.
type Account struct {
	BaseModel
	Address    string `gorm:"type:varchar(64);uniqueIndex;not null"`
	SecretHash string `gorm:"type:varchar(255);not null"` // bcrypt
	IsAdmin    bool   `gorm:"default:false;index"`
	IsDoctor   bool   `gorm:"default:false;index"`
	IsPatient  bool   `gorm:"default:false;index"`
}

// HasRole adresin ilgili yetkiyi taşıyıp taşımadığını döndürür.
func (a *Account) HasRole(role Role) bool {
	switch role {
	case RoleAdmin:
		return a.IsAdmin
	case RoleDoctor:
		return a.IsDoctor
	case RolePatient:
		return a.IsPatient
	}
	return false
}
