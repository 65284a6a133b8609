package repositories

import (
	"context"
	"errors"

	"telemed.link/configs"
	"telemed.link/configs/configslog"
	"telemed.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// IAccountRepository hesap (adres + yetki bayrakları) veritabanı işlemleri.
type IAccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	FindByAddress(ctx context.Context, address string) (*models.Account, error)
	FindByAddressForUpdate(ctx context.Context, address string) (*models.Account, error)
	Update(ctx context.Context, account *models.Account) error
}

// AccountRepository IAccountRepository arayüzünü uygular.
type AccountRepository struct {
	db *gorm.DB
}

// NewAccountRepository yeni bir AccountRepository örneği oluşturur.
func NewAccountRepository() IAccountRepository {
	return &AccountRepository{db: configs.GetDB()}
}

// NewAccountRepositoryTx transaction'lı repository örneği.
func NewAccountRepositoryTx(tx *gorm.DB) IAccountRepository {
	return &AccountRepository{db: tx}
}

// Create yeni hesap kaydı oluşturur.
func (r *AccountRepository) Create(ctx context.Context, account *models.Account) error {
	if account == nil || account.Address == "" {
		return errors.New("geçersiz hesap kaydı")
	}
	return dbFromContext(ctx, r.db).Create(account).Error
}

// FindByAddress adrese göre hesap bulur.
func (r *AccountRepository) FindByAddress(ctx context.Context, address string) (*models.Account, error) {
	var account models.Account
	err := dbFromContext(ctx, r.db).Where("address = ?", address).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("AccountRepository.FindByAddress: DB hatası", zap.String("address", address), zap.Error(err))
		return nil, err
	}
	return &account, nil
}

// FindByAddressForUpdate hesabı satır kilidiyle alır (transaction içinde).
func (r *AccountRepository) FindByAddressForUpdate(ctx context.Context, address string) (*models.Account, error) {
	var account models.Account
	err := dbFromContext(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("address = ?", address).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

// Update hesabı kaydeder.
func (r *AccountRepository) Update(ctx context.Context, account *models.Account) error {
	if account == nil || account.ID == 0 {
		return errors.New("güncellenecek hesap geçerli değil")
	}
	return dbFromContext(ctx, r.db).Save(account).Error
}

var _ IAccountRepository = (*AccountRepository)(nil)
