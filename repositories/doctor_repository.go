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

// IDoctorRepository doktor kayıtları veritabanı işlemleri.
type IDoctorRepository interface {
	Create(ctx context.Context, doctor *models.Doctor) error
	FindByAddress(ctx context.Context, address string) (*models.Doctor, error)
	FindByAddressForUpdate(ctx context.Context, address string) (*models.Doctor, error)
	ExistsByAddress(ctx context.Context, address string) (bool, error)
	Update(ctx context.Context, doctor *models.Doctor) error
}

// DoctorRepository IDoctorRepository arayüzünü uygular.
type DoctorRepository struct {
	db *gorm.DB
}

// NewDoctorRepository yeni bir DoctorRepository örneği oluşturur.
func NewDoctorRepository() IDoctorRepository {
	return &DoctorRepository{db: configs.GetDB()}
}

// NewDoctorRepositoryTx transaction'lı repository örneği.
func NewDoctorRepositoryTx(tx *gorm.DB) IDoctorRepository {
	return &DoctorRepository{db: tx}
}

// Create yeni doktor kaydı oluşturur.
func (r *DoctorRepository) Create(ctx context.Context, doctor *models.Doctor) error {
	if doctor == nil || doctor.Address == "" {
		return errors.New("geçersiz doktor kaydı")
	}
	return dbFromContext(ctx, r.db).Create(doctor).Error
}

// FindByAddress adrese göre doktor bulur.
func (r *DoctorRepository) FindByAddress(ctx context.Context, address string) (*models.Doctor, error) {
	var doctor models.Doctor
	err := dbFromContext(ctx, r.db).Where("address = ?", address).First(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("DoctorRepository.FindByAddress: DB hatası", zap.String("address", address), zap.Error(err))
		return nil, err
	}
	return &doctor, nil
}

// FindByAddressForUpdate doktoru satır kilidiyle alır (transaction içinde).
func (r *DoctorRepository) FindByAddressForUpdate(ctx context.Context, address string) (*models.Doctor, error) {
	var doctor models.Doctor
	err := dbFromContext(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("address = ?", address).First(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &doctor, nil
}

// ExistsByAddress adrese kayıtlı doktor var mı.
func (r *DoctorRepository) ExistsByAddress(ctx context.Context, address string) (bool, error) {
	var count int64
	err := dbFromContext(ctx, r.db).Model(&models.Doctor{}).Where("address = ?", address).Count(&count).Error
	return count > 0, err
}

// Update doktoru kaydeder.
func (r *DoctorRepository) Update(ctx context.Context, doctor *models.Doctor) error {
	if doctor == nil || doctor.ID == 0 {
		return errors.New("güncellenecek doktor kaydı geçerli değil")
	}
	return dbFromContext(ctx, r.db).Save(doctor).Error
}

var _ IDoctorRepository = (*DoctorRepository)(nil)
