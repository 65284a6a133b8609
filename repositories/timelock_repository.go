package repositories

import (
	"context"
	"errors"

	"telemed.link/configs"
	"telemed.link/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ITimelockRepository zaman kilitli aksiyon kayıtları veritabanı işlemleri.
type ITimelockRepository interface {
	Create(ctx context.Context, action *models.TimelockedAction) error
	Exists(ctx context.Context, fingerprint string) (bool, error)
	FindByFingerprintForUpdate(ctx context.Context, fingerprint string) (*models.TimelockedAction, error)
	Delete(ctx context.Context, action *models.TimelockedAction) error
}

// TimelockRepository ITimelockRepository arayüzünü uygular.
type TimelockRepository struct {
	db *gorm.DB
}

// NewTimelockRepository yeni bir TimelockRepository örneği oluşturur.
func NewTimelockRepository() ITimelockRepository {
	return &TimelockRepository{db: configs.GetDB()}
}

// NewTimelockRepositoryTx transaction'lı repository örneği.
func NewTimelockRepositoryTx(tx *gorm.DB) ITimelockRepository {
	return &TimelockRepository{db: tx}
}

// Create yeni zaman kilitli aksiyon kaydı oluşturur.
func (r *TimelockRepository) Create(ctx context.Context, action *models.TimelockedAction) error {
	if action == nil || action.Fingerprint == "" {
		return errors.New("geçersiz zaman kilidi kaydı")
	}
	return dbFromContext(ctx, r.db).Create(action).Error
}

// Exists parmak iziyle canlı kayıt var mı.
func (r *TimelockRepository) Exists(ctx context.Context, fingerprint string) (bool, error) {
	var count int64
	err := dbFromContext(ctx, r.db).Model(&models.TimelockedAction{}).
		Where("fingerprint = ?", fingerprint).Count(&count).Error
	return count > 0, err
}

// FindByFingerprintForUpdate kaydı satır kilidiyle alır; tüketim ile silme
// aynı transaction'da kalır, kayıt iki kez tüketilemez.
func (r *TimelockRepository) FindByFingerprintForUpdate(ctx context.Context, fingerprint string) (*models.TimelockedAction, error) {
	var action models.TimelockedAction
	err := dbFromContext(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("fingerprint = ?", fingerprint).First(&action).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &action, nil
}

// Delete kaydı kalıcı olarak siler (tek kullanımlık tüketim).
func (r *TimelockRepository) Delete(ctx context.Context, action *models.TimelockedAction) error {
	if action == nil || action.ID == 0 {
		return errors.New("silinecek zaman kilidi kaydı geçerli değil")
	}
	return dbFromContext(ctx, r.db).Unscoped().Delete(action).Error
}

var _ ITimelockRepository = (*TimelockRepository)(nil)
