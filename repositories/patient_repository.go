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

// IPatientRepository hasta kayıtları veritabanı işlemleri.
type IPatientRepository interface {
	Create(ctx context.Context, patient *models.Patient) error
	FindByAddress(ctx context.Context, address string) (*models.Patient, error)
	FindByAddressForUpdate(ctx context.Context, address string) (*models.Patient, error)
	ExistsByAddress(ctx context.Context, address string) (bool, error)
	Update(ctx context.Context, patient *models.Patient) error
}

// PatientRepository IPatientRepository arayüzünü uygular.
type PatientRepository struct {
	db *gorm.DB
}

// NewPatientRepository yeni bir PatientRepository örneği oluşturur.
func NewPatientRepository() IPatientRepository {
	return &PatientRepository{db: configs.GetDB()}
}

// NewPatientRepositoryTx transaction'lı repository örneği.
func NewPatientRepositoryTx(tx *gorm.DB) IPatientRepository {
	return &PatientRepository{db: tx}
}

// Create yeni hasta kaydı oluşturur.
func (r *PatientRepository) Create(ctx context.Context, patient *models.Patient) error {
	if patient == nil || patient.Address == "" {
		return errors.New("geçersiz hasta kaydı")
	}
	return dbFromContext(ctx, r.db).Create(patient).Error
}

// FindByAddress adrese göre hasta bulur.
func (r *PatientRepository) FindByAddress(ctx context.Context, address string) (*models.Patient, error) {
	var patient models.Patient
	err := dbFromContext(ctx, r.db).Where("address = ?", address).First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("PatientRepository.FindByAddress: DB hatası", zap.String("address", address), zap.Error(err))
		return nil, err
	}
	return &patient, nil
}

// FindByAddressForUpdate hastayı satır kilidiyle alır (transaction içinde).
func (r *PatientRepository) FindByAddressForUpdate(ctx context.Context, address string) (*models.Patient, error) {
	var patient models.Patient
	err := dbFromContext(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("address = ?", address).First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &patient, nil
}

// ExistsByAddress adrese kayıtlı hasta var mı.
func (r *PatientRepository) ExistsByAddress(ctx context.Context, address string) (bool, error) {
	var count int64
	err := dbFromContext(ctx, r.db).Model(&models.Patient{}).Where("address = ?", address).Count(&count).Error
	return count > 0, err
}

// Update hastayı kaydeder.
func (r *PatientRepository) Update(ctx context.Context, patient *models.Patient) error {
	if patient == nil || patient.ID == 0 {
		return errors.New("güncellenecek hasta kaydı geçerli değil")
	}
	return dbFromContext(ctx, r.db).Save(patient).Error
}

var _ IPatientRepository = (*PatientRepository)(nil)
