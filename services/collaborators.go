package services

import (
	"context"
	"errors"

	"telemed.link/models"
)

// Dış işbirlikçi sözleşmeleri. Çekirdek yalnızca bu arayüzleri tüketir;
// cevapları körü körüne güvenilir kabul edilmez, her hata tüm operasyonu
// geri alır.

// IInsuranceVerifier sigorta kapsamını doğrular.
type IInsuranceVerifier interface {
	VerifyCoverage(ctx context.Context, patientAddress string, appointmentID uint) (covered bool, percentage int, err error)
}

// IIdentityVerifier kayıtta bir kez danışılan DID doğrulayıcısı.
type IIdentityVerifier interface {
	VerifyDID(ctx context.Context, callerAddress, didFingerprint string) (bool, error)
}

// IFiatRamp itibari para giriş/çıkış dönüşümleri.
type IFiatRamp interface {
	OnRamp(ctx context.Context, address string, amount int64) error
	OffRamp(ctx context.Context, address string, amount int64) error
}

// ITokenLedger allowance tabanlı token transferleri (HLT, USDH).
// Transfer başarısızsa tüm operasyon iptal edilir.
type ITokenLedger interface {
	TransferFrom(ctx context.Context, asset models.AssetKind, from, to string, amount int64) error
}

// IPrescriptionManager komşu reçete iş akışının imza yüzeyi.
type IPrescriptionManager interface {
	IssuePrescription(ctx context.Context, appointmentID uint, doctorAddress, patientAddress, prescriptionHash string) error
}

// IDisputeManager komşu itiraz iş akışının imza yüzeyi.
type IDisputeManager interface {
	OpenDispute(ctx context.Context, appointmentID uint, openedBy string, reason string) (uint, error)
}

// IPriceOracle fiyat ve piyasa talebi beslemeleri.
// Rezervasyon/uzlaşma matematiğinde yük taşımaz; yalnızca referans verisi sağlar.
type IPriceOracle interface {
	LatestPrice(ctx context.Context, symbol string) (int64, error)
	MarketDemand(ctx context.Context, specialty string) (int64, error)
}

// --- Varsayılan (muhafazakar) implementasyonlar ---

// NoopInsuranceVerifier hiçbir kapsamı onaylamaz.
type NoopInsuranceVerifier struct{}

// VerifyCoverage her zaman kapsam dışı döner.
func (NoopInsuranceVerifier) VerifyCoverage(_ context.Context, _ string, _ uint) (bool, int, error) {
	return false, 0, nil
}

// BasicIdentityVerifier yalnızca boş parmak izini reddeder; gerçek DID
// çözümlemesi dış servise aittir.
type BasicIdentityVerifier struct{}

// VerifyDID parmak izi boş değilse geçerli kabul eder.
func (BasicIdentityVerifier) VerifyDID(_ context.Context, _ string, didFingerprint string) (bool, error) {
	return didFingerprint != "", nil
}

// NoopFiatRamp dönüşüm yapmayan varsayılan ramp.
type NoopFiatRamp struct{}

// OnRamp her zaman başarılı döner.
func (NoopFiatRamp) OnRamp(_ context.Context, _ string, _ int64) error { return nil }

// OffRamp her zaman başarılı döner.
func (NoopFiatRamp) OffRamp(_ context.Context, _ string, _ int64) error { return nil }

// ErrTokenLedgerUnavailable token işbirlikçisi yapılandırılmadığında döner.
var ErrTokenLedgerUnavailable = errors.New("token defteri yapılandırılmadı")

// UnavailableTokenLedger token transferlerini reddeden varsayılan defter.
// Token varlıklarıyla ödeme, gerçek bir defter bağlanana kadar başarısız olur
// ve operasyonu tümüyle iptal eder.
type UnavailableTokenLedger struct{}

// TransferFrom her zaman hata döner.
func (UnavailableTokenLedger) TransferFrom(_ context.Context, _ models.AssetKind, _, _ string, _ int64) error {
	return ErrTokenLedgerUnavailable
}

var (
	_ IInsuranceVerifier = NoopInsuranceVerifier{}
	_ IIdentityVerifier  = BasicIdentityVerifier{}
	_ IFiatRamp          = NoopFiatRamp{}
	_ ITokenLedger       = UnavailableTokenLedger{}
)
