package services

import (
	"context"
	"errors"
	"time"

	"telemed.link/configs/configslog"
	"telemed.link/models"
	"telemed.link/repositories"

	"go.uber.org/zap"
)

// CalendarServiceError müsaitlik takvimi hataları.
type CalendarServiceError string

func (e CalendarServiceError) Error() string { return string(e) }

// Hata sabitleri
const (
	ErrBatchLengthMismatch CalendarServiceError = "zaman ve bayrak dizileri aynı uzunlukta olmalı"
	ErrEmptyBatch          CalendarServiceError = "boş slot listesi"
	ErrSlotTooSoon         CalendarServiceError = "slot en az 15 dakika sonrası için açılabilir"
	ErrDoctorNotVerified   CalendarServiceError = "doktor doğrulanmamış"
	ErrSlotNotFound        CalendarServiceError = "slot bulunamadı"
	ErrSlotUnavailable     CalendarServiceError = "slot müsait değil"
)

// ICalendarService doktor başına rezerve edilebilir slot kümesi.
type ICalendarService interface {
	SetBatch(ctx context.Context, doctorAddress string, timestamps []time.Time, flags []bool) error
	ListSlots(ctx context.Context, doctorAddress string) ([]models.AvailabilitySlot, error)
}

// CalendarService ICalendarService arayüzünü uygular.
type CalendarService struct {
	slots   repositories.ISlotRepository
	doctors repositories.IDoctorRepository
	system  repositories.ISystemRepository
	roles   IRoleService
	tx      repositories.ITxManager
	events  IEventService
	now     func() time.Time
}

// NewCalendarService yeni bir CalendarService örneği oluşturur.
func NewCalendarService() ICalendarService {
	return &CalendarService{
		slots:   repositories.NewSlotRepository(),
		doctors: repositories.NewDoctorRepository(),
		system:  repositories.NewSystemRepository(),
		roles:   NewRoleService(),
		tx:      repositories.NewTxManager(configsDB()),
		events:  NewEventService(),
		now:     defaultClock(),
	}
}

// SetBatch slotları toplu yazar. Yazmalar slot başına bağımsızdır; batch
// genelinde tek koruma, uzunluk eşitliği ve her zaman damgasının
// şimdi+15 dakikadan sonra olmasıdır.
func (s *CalendarService) SetBatch(ctx context.Context, doctorAddress string, timestamps []time.Time, flags []bool) error {
	if len(timestamps) != len(flags) {
		return ErrBatchLengthMismatch
	}
	if len(timestamps) == 0 {
		return ErrEmptyBatch
	}

	txErr := s.tx.Do(ctx, func(txCtx context.Context) error {
		if err := ensureNotPaused(txCtx, s.system); err != nil {
			return err
		}
		if err := s.roles.Require(txCtx, doctorAddress, models.RoleDoctor); err != nil {
			return err
		}
		doctor, err := s.doctors.FindByAddress(txCtx, doctorAddress)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrDoctorNotVerified
			}
			return err
		}
		if !doctor.IsVerified {
			return ErrDoctorNotVerified
		}

		cutoff := s.now().Add(MinBookingBuffer)
		for _, ts := range timestamps {
			if !ts.After(cutoff) {
				return ErrSlotTooSoon
			}
		}
		for i, ts := range timestamps {
			existing, err := s.slots.FindForUpdate(txCtx, doctorAddress, ts.UTC())
			if err != nil {
				if !errors.Is(err, repositories.ErrNotFound) {
					return err
				}
				slot := &models.AvailabilitySlot{
					DoctorAddress: doctorAddress,
					SlotTime:      ts.UTC(),
					IsAvailable:   flags[i],
				}
				if err := s.slots.Upsert(txCtx, slot); err != nil {
					return err
				}
				continue
			}
			// Bir randevunun tuttuğu slot takvim yazmalarına kapalıdır;
			// yalnızca iptal slotu geri açar.
			if existing.HeldByAppointmentID != nil {
				continue
			}
			existing.IsAvailable = flags[i]
			if err := s.slots.Update(txCtx, existing); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		configslog.Log.Error("Müsaitlik batch yazılamadı", zap.String("doctor", doctorAddress), zap.Error(txErr))
		return txErr
	}

	// Olay yükü batch için tek is-available değeri taşır; slot bayrakları
	// farklı olabilir. Kaynak sistemdeki yük biçimi bilinçli korunmuştur,
	// indeksleyiciler slot durumunu sorgu ucundan okur.
	s.events.Record(EventAvailabilityUpdated, doctorAddress, map[string]any{
		"count":        len(timestamps),
		"is_available": flags[0],
	})
	configslog.SLog.Infof("Müsaitlik güncellendi: %s (%d slot)", doctorAddress, len(timestamps))
	return nil
}

// ListSlots doktorun gelecekteki slotlarını listeler.
func (s *CalendarService) ListSlots(ctx context.Context, doctorAddress string) ([]models.AvailabilitySlot, error) {
	return s.slots.ListByDoctor(ctx, doctorAddress, s.now())
}

// holdSlotInTx rezervasyonla atomik: slotu kilitleyip müsait -> tutulu çevirir
// ve tutan randevuyu slota işler; tutulu slot takvim yazmalarına kapanır.
func holdSlotInTx(txCtx context.Context, slots repositories.ISlotRepository, doctorAddress string, slotTime time.Time, appointmentID uint) error {
	slot, err := slots.FindForUpdate(txCtx, doctorAddress, slotTime)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrSlotNotFound
		}
		return err
	}
	if !slot.IsAvailable || slot.HeldByAppointmentID != nil {
		return ErrSlotUnavailable
	}
	slot.IsAvailable = false
	slot.HeldByAppointmentID = &appointmentID
	return slots.Update(txCtx, slot)
}

// releaseSlotInTx iptalle atomik: slotu tutulu -> müsait çevirir ve tutan
// randevu bağını kaldırır. Slot silinmişse sessizce geçilir (iptal yine
// tamamlanır).
func releaseSlotInTx(txCtx context.Context, slots repositories.ISlotRepository, doctorAddress string, slotTime time.Time) error {
	slot, err := slots.FindForUpdate(txCtx, doctorAddress, slotTime)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return err
	}
	slot.IsAvailable = true
	slot.HeldByAppointmentID = nil
	return slots.Update(txCtx, slot)
}

var _ ICalendarService = (*CalendarService)(nil)
