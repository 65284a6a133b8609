package models

import "time"

// AppointmentStatus randevu durum makinesi.
// Geçiş grafiği sabittir: Pending -> {Confirmed, Cancelled},
// Confirmed -> {Completed}, Emergency -> {Completed}.
// Completed ve Cancelled terminaldir.
type AppointmentStatus uint8

const (
	StatusPending   AppointmentStatus = 0
	StatusConfirmed AppointmentStatus = 1
	StatusCompleted AppointmentStatus = 2
	StatusCancelled AppointmentStatus = 3
	StatusEmergency AppointmentStatus = 4
)

// String olay yüklerinde ve loglarda kullanılan durum adı.
func (s AppointmentStatus) String() string {
	switch s {
	case StatusPending:
		return "PENDING"
	case StatusConfirmed:
		return "CONFIRMED"
	case StatusCompleted:
		return "COMPLETED"
	case StatusCancelled:
		return "CANCELLED"
	case StatusEmergency:
		return "EMERGENCY"
	}
	return "UNKNOWN"
}

// AssetKind ücretin tahsil edildiği varlık türü.
type AssetKind uint8

const (
	AssetNative AssetKind = 0 // yerli varlık (cüzdan -> emanet)
	AssetHLT    AssetKind = 1 // HLT token (allowance tabanlı transfer)
	AssetUSDH   AssetKind = 2 // USDH token (allowance tabanlı transfer)
)

// String varlık türünün sembolü.
func (k AssetKind) String() string {
	switch k {
	case AssetNative:
		return "NATIVE"
	case AssetHLT:
		return "HLT"
	case AssetUSDH:
		return "USDH"
	}
	return "UNKNOWN"
}

// Appointment monoton artan ID ile anahtarlanan randevu kaydı.
// DiagnosisHash yalnızca atanmış doktor tarafından ve yalnızca durum
// Confirmed veya Emergency iken yazılabilir.
type Appointment struct {
	BaseModel
	ScheduledAt      time.Time         `gorm:"type:timestamptz;not null;index"`
	PatientAddress   string            `gorm:"type:varchar(64);index;not null"`
	DoctorAddress    string            `gorm:"type:varchar(64);index;not null"`
	Status           AppointmentStatus `gorm:"default:0;index"`
	DiagnosisHash    string            `gorm:"type:varchar(128)"`
	EncryptedKey     string            `gorm:"type:text"`
	Fee              int64             `gorm:"not null"`
	Asset            AssetKind         `gorm:"default:0"`
	InsuranceClaimed bool              `gorm:"default:false"`
	BookedAt         time.Time         `gorm:"type:timestamptz;not null"`
	DisputeStatus    uint8             `gorm:"default:0"`
	IsEmergency      bool              `gorm:"default:false"`
	Rated            bool              `gorm:"default:false"`
}
