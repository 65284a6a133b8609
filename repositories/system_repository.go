package repositories

import (
	"context"
	"errors"

	"telemed.link/configs"
	"telemed.link/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ISystemRepository tekil sistem durumu satırı işlemleri.
type ISystemRepository interface {
	Get(ctx context.Context) (*models.SystemState, error)
	GetForUpdate(ctx context.Context) (*models.SystemState, error)
	Update(ctx context.Context, state *models.SystemState) error
}

// SystemRepository ISystemRepository arayüzünü uygular.
type SystemRepository struct {
	db *gorm.DB
}

// NewSystemRepository yeni bir SystemRepository örneği oluşturur.
func NewSystemRepository() ISystemRepository {
	return &SystemRepository{db: configs.GetDB()}
}

// NewSystemRepositoryTx transaction'lı repository örneği.
func NewSystemRepositoryTx(tx *gorm.DB) ISystemRepository {
	return &SystemRepository{db: tx}
}

// Get sistem durumunu getirir; satır yoksa varsayılanlarla oluşturur.
func (r *SystemRepository) Get(ctx context.Context) (*models.SystemState, error) {
	var state models.SystemState
	db := dbFromContext(ctx, r.db)
	err := db.First(&state).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			state = models.SystemState{Paused: false, EmergencyPremiumPct: 150}
			if createErr := db.Create(&state).Error; createErr != nil {
				return nil, createErr
			}
			return &state, nil
		}
		return nil, err
	}
	return &state, nil
}

// GetForUpdate sistem durumunu satır kilidiyle alır (transaction içinde).
func (r *SystemRepository) GetForUpdate(ctx context.Context) (*models.SystemState, error) {
	var state models.SystemState
	err := dbFromContext(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&state).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &state, nil
}

// Update sistem durumunu kaydeder.
func (r *SystemRepository) Update(ctx context.Context, state *models.SystemState) error {
	if state == nil || state.ID == 0 {
		return errors.New("güncellenecek sistem durumu geçerli değil")
	}
	return dbFromContext(ctx, r.db).Save(state).Error
}

var _ ISystemRepository = (*SystemRepository)(nil)
