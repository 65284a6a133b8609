package repositories

import (
	"context"
	"errors"

	"telemed.link/configs"
	"telemed.link/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// IGrantRepository kalıcı kayıt erişim yetkileri veritabanı işlemleri.
type IGrantRepository interface {
	Upsert(ctx context.Context, grant *models.RecordAccessGrant) error
	Exists(ctx context.Context, doctorAddress, patientAddress string) (bool, error)
}

// GrantRepository IGrantRepository arayüzünü uygular.
type GrantRepository struct {
	db *gorm.DB
}

// NewGrantRepository yeni bir GrantRepository örneği oluşturur.
func NewGrantRepository() IGrantRepository {
	return &GrantRepository{db: configs.GetDB()}
}

// NewGrantRepositoryTx transaction'lı repository örneği.
func NewGrantRepositoryTx(tx *gorm.DB) IGrantRepository {
	return &GrantRepository{db: tx}
}

// Upsert (doktor, hasta) çifti için yetkiyi ekler; mevcutsa dokunmaz.
func (r *GrantRepository) Upsert(ctx context.Context, grant *models.RecordAccessGrant) error {
	if grant == nil || grant.DoctorAddress == "" || grant.PatientAddress == "" {
		return errors.New("geçersiz erişim yetkisi kaydı")
	}
	return dbFromContext(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "doctor_address"}, {Name: "patient_address"}},
		DoNothing: true,
	}).Create(grant).Error
}

// Exists çift için yetki var mı.
func (r *GrantRepository) Exists(ctx context.Context, doctorAddress, patientAddress string) (bool, error) {
	var count int64
	err := dbFromContext(ctx, r.db).Model(&models.RecordAccessGrant{}).
		Where("doctor_address = ? AND patient_address = ?", doctorAddress, patientAddress).
		Count(&count).Error
	return count > 0, err
}

var _ IGrantRepository = (*GrantRepository)(nil)
