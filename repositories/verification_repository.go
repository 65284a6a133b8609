package repositories

import (
	"context"
	"errors"

	"telemed.link/configs"
	"telemed.link/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// IVerificationRepository doktor doğrulama başvuruları veritabanı işlemleri.
type IVerificationRepository interface {
	Create(ctx context.Context, request *models.VerificationRequest) error
	FindByID(ctx context.Context, id uint) (*models.VerificationRequest, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*models.VerificationRequest, error)
	HasOutstanding(ctx context.Context, doctorAddress string) (bool, error)
	Update(ctx context.Context, request *models.VerificationRequest) error
}

// VerificationRepository IVerificationRepository arayüzünü uygular.
type VerificationRepository struct {
	db *gorm.DB
}

// NewVerificationRepository yeni bir VerificationRepository örneği oluşturur.
func NewVerificationRepository() IVerificationRepository {
	return &VerificationRepository{db: configs.GetDB()}
}

// NewVerificationRepositoryTx transaction'lı repository örneği.
func NewVerificationRepositoryTx(tx *gorm.DB) IVerificationRepository {
	return &VerificationRepository{db: tx}
}

// Create yeni başvuru kaydı oluşturur.
func (r *VerificationRepository) Create(ctx context.Context, request *models.VerificationRequest) error {
	if request == nil || request.DoctorAddress == "" {
		return errors.New("geçersiz doğrulama başvurusu")
	}
	return dbFromContext(ctx, r.db).Create(request).Error
}

// FindByID başvuruyu ID ile bulur.
func (r *VerificationRepository) FindByID(ctx context.Context, id uint) (*models.VerificationRequest, error) {
	var request models.VerificationRequest
	err := dbFromContext(ctx, r.db).First(&request, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &request, nil
}

// FindByIDForUpdate başvuruyu satır kilidiyle alır (transaction içinde).
func (r *VerificationRepository) FindByIDForUpdate(ctx context.Context, id uint) (*models.VerificationRequest, error) {
	var request models.VerificationRequest
	err := dbFromContext(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&request, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &request, nil
}

// HasOutstanding adresin işlenmemiş başvurusu var mı.
func (r *VerificationRepository) HasOutstanding(ctx context.Context, doctorAddress string) (bool, error) {
	var count int64
	err := dbFromContext(ctx, r.db).Model(&models.VerificationRequest{}).
		Where("doctor_address = ? AND processed = ?", doctorAddress, false).
		Count(&count).Error
	return count > 0, err
}

// Update başvuruyu kaydeder.
func (r *VerificationRepository) Update(ctx context.Context, request *models.VerificationRequest) error {
	if request == nil || request.ID == 0 {
		return errors.New("güncellenecek başvuru geçerli değil")
	}
	return dbFromContext(ctx, r.db).Save(request).Error
}

var _ IVerificationRepository = (*VerificationRepository)(nil)
