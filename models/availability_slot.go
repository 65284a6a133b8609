package models

import "time"

// AvailabilitySlot (doktor, zaman) çiftiyle anahtarlanan rezervasyon slotu.
// Bir slot randevu oluşturma ile atomik olarak müsait -> tutulu,
// iptal ile tutulu -> müsait geçer; aynı slot iki kez tutulamaz.
// HeldByAppointmentID dolu olduğu sürece slot takvim yazmalarına kapalıdır;
// yalnızca tutan randevunun iptali slotu geri açabilir.
type AvailabilitySlot struct {
	BaseModel
	DoctorAddress       string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_doctor_slot"`
	SlotTime            time.Time `gorm:"type:timestamptz;not null;uniqueIndex:idx_doctor_slot"`
	IsAvailable         bool      `gorm:"default:true;index"`
	HeldByAppointmentID *uint     `gorm:"index"`
}
