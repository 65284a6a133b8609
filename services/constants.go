package services

import "time"

// Zamanlama pencereleri. Tümü defter saatine (şimdiki zamana) karşı
// karşılaştırmayla değerlendirilir; zamanlanmış geri çağrı yoktur,
// süre aşımı ilgili giriş noktası bir sonraki çağrıldığında tespit edilir.
const (
	MinBookingBuffer      = 15 * time.Minute    // randevu en erken bu kadar sonraya alınabilir
	MinCancellationBuffer = 1 * time.Hour       // iptal için randevuya kalması gereken süre
	EmergencyWindow       = 1 * time.Hour       // acil randevunun tamamlanma penceresi
	VerificationTimeout   = 7 * 24 * time.Hour  // doğrulama başvurusunun işlenme penceresi
	TimelockDelay         = 24 * time.Hour      // admin aksiyonlarının zorunlu bekleme süresi
	LoyaltyLevelUnit      = 30 * 24 * time.Hour // seviye başına geçerlilik süresi birimi
	CheckInInterval       = 24 * time.Hour      // günlük check-in aralığı
	WeeklyWindow          = 7 * 24 * time.Hour  // haftalık sayaç penceresi
)

// Sadakat puanları.
const (
	PointsBooking   int64 = 20
	PointsEmergency int64 = 30
	PointsReferral  int64 = 15
	PointsCheckIn   int64 = 5
)

// Girdi doğrulama sınırları.
const (
	MinLicenseLength  = 5
	MaxDocumentLength = 512
	MaxRating         = 5
)
