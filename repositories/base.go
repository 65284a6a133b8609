package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound kayıt bulunamadığında repository katmanının döndürdüğü hata.
// Servisler gorm.ErrRecordNotFound yerine bunu kontrol eder.
var ErrNotFound = errors.New("kayıt bulunamadı")

// Aktif transaction context'te bu anahtar altında taşınır.
const txContextKey = "tx"

// dbFromContext context'te aktif transaction varsa onu, yoksa verilen
// bağlantıyı döndürür. Tüm repository'ler DB erişimini bu yardımcıdan alır;
// böylece bir servis operasyonunun tüm yazmaları tek transaction'da kalır.
func dbFromContext(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return fallback.WithContext(ctx)
}

// ITxManager durum değiştiren her operasyonu tek bir transaction içinde
// çalıştırır: fn hata dönerse hiçbir yazma kalıcı olmaz.
type ITxManager interface {
	Do(ctx context.Context, fn func(txCtx context.Context) error) error
}

// TxManager GORM transaction'ını context üzerinden repository'lere taşır.
type TxManager struct {
	db *gorm.DB
}

// NewTxManager yeni bir TxManager örneği oluşturur.
func NewTxManager(db *gorm.DB) ITxManager {
	return &TxManager{db: db}
}

// Do fn'i transaction içinde çalıştırır; tx context'e eklenir.
func (m *TxManager) Do(ctx context.Context, fn func(txCtx context.Context) error) error {
	return m.db.Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txContextKey, tx)) //nolint:staticcheck
	})
}

var _ ITxManager = (*TxManager)(nil)
