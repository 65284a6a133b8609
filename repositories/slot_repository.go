package repositories

import (
	"context"
	"errors"
	"time"

	"telemed.link/configs"
	"telemed.link/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ISlotRepository müsaitlik slotları veritabanı işlemleri.
type ISlotRepository interface {
	Upsert(ctx context.Context, slot *models.AvailabilitySlot) error
	FindForUpdate(ctx context.Context, doctorAddress string, slotTime time.Time) (*models.AvailabilitySlot, error)
	Update(ctx context.Context, slot *models.AvailabilitySlot) error
	ListByDoctor(ctx context.Context, doctorAddress string, from time.Time) ([]models.AvailabilitySlot, error)
}

// SlotRepository ISlotRepository arayüzünü uygular.
type SlotRepository struct {
	db *gorm.DB
}

// NewSlotRepository yeni bir SlotRepository örneği oluşturur.
func NewSlotRepository() ISlotRepository {
	return &SlotRepository{db: configs.GetDB()}
}

// NewSlotRepositoryTx transaction'lı repository örneği.
func NewSlotRepositoryTx(tx *gorm.DB) ISlotRepository {
	return &SlotRepository{db: tx}
}

// Upsert (doktor, zaman) çiftine göre slotu ekler veya bayrağını günceller.
// Batch içindeki her slot bağımsız yazılır.
func (r *SlotRepository) Upsert(ctx context.Context, slot *models.AvailabilitySlot) error {
	if slot == nil || slot.DoctorAddress == "" {
		return errors.New("geçersiz slot kaydı")
	}
	return dbFromContext(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "doctor_address"}, {Name: "slot_time"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_available", "updated_at"}),
	}).Create(slot).Error
}

// FindForUpdate slotu satır kilidiyle alır; rezervasyonun çifte harcamasını
// bu kilit engeller (transaction içinde çağrılmalı).
func (r *SlotRepository) FindForUpdate(ctx context.Context, doctorAddress string, slotTime time.Time) (*models.AvailabilitySlot, error) {
	var slot models.AvailabilitySlot
	err := dbFromContext(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("doctor_address = ? AND slot_time = ?", doctorAddress, slotTime).
		First(&slot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &slot, nil
}

// Update slotu kaydeder.
func (r *SlotRepository) Update(ctx context.Context, slot *models.AvailabilitySlot) error {
	if slot == nil || slot.ID == 0 {
		return errors.New("güncellenecek slot geçerli değil")
	}
	return dbFromContext(ctx, r.db).Save(slot).Error
}

// ListByDoctor doktorun verilen andan sonraki slotlarını listeler.
func (r *SlotRepository) ListByDoctor(ctx context.Context, doctorAddress string, from time.Time) ([]models.AvailabilitySlot, error) {
	var slots []models.AvailabilitySlot
	err := dbFromContext(ctx, r.db).
		Where("doctor_address = ? AND slot_time > ?", doctorAddress, from).
		Order("slot_time asc").
		Find(&slots).Error
	return slots, err
}

var _ ISlotRepository = (*SlotRepository)(nil)
