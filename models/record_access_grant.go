package models

import "time"

// RecordAccessGrant randevu tamamlanınca doktora verilen, randevudan
// bağımsız kalıcı hasta kaydı erişim yetkisi.
type RecordAccessGrant struct {
	BaseModel
	DoctorAddress  string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_grant_pair"`
	PatientAddress string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_grant_pair"`
	GrantedAt      time.Time `gorm:"type:timestamptz;not null"`
}
