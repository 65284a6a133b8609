package services

import (
	"sync"
	"time"

	"telemed.link/configs"
	"telemed.link/configs/configslog"
	"telemed.link/pkg/journal"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Olay türleri. Her durum değişikliği için tek olay yayınlanır; yük,
// dış indeksleyicinin iç mantığı tekrar çalıştırmadan güncel durumu
// kurabilmesi için varlık ID'sini ve yeni durum değerini içerir.
const (
	EventPatientRegistered     = "patient.registered"
	EventDoctorRegistered      = "doctor.registered"
	EventVerificationRequested = "doctor.verification.requested"
	EventVerificationProcessed = "doctor.verification.processed"
	EventAppointmentBooked     = "appointment.booked"
	EventEmergencyBooked       = "appointment.booked.emergency"
	EventStatusUpdated         = "appointment.status.updated"
	EventAIResultConfirmed     = "appointment.ai.confirmed"
	EventAvailabilityUpdated   = "availability.updated"
	EventEmergencyWithdrawal   = "payment.emergency.withdrawal"
	EventDoctorRated           = "doctor.rated"
	EventLoyaltyPointsEarned   = "loyalty.points.earned"
	EventAdminActionQueued     = "admin.action.queued"
	EventSystemPauseChanged    = "system.pause.changed"
)

// IEventService durum değişikliklerini olay defterine yazar.
// Kayıt, ilgili transaction commit edildikten sonra yapılır; defter yazımı
// başarısız olsa bile commit edilmiş durum geri alınmaz, yalnızca loglanır.
type IEventService interface {
	Record(eventType, entityID string, payload map[string]any)
	ReadEvents(from uint64, limit int) ([]journal.Event, error)
}

// EventService IEventService arayüzünü uygular.
type EventService struct {
	journal *journal.Journal
	now     func() time.Time
}

var (
	sharedJournal     *journal.Journal
	sharedJournalOnce sync.Once
)

// NewEventService paylaşılan deftere yazan servis örneği oluşturur.
func NewEventService() IEventService {
	sharedJournalOnce.Do(func() {
		j, err := journal.Open(configs.GetJournalPath())
		if err != nil {
			configslog.Log.Fatal("Olay defteri açılamadı", zap.Error(err))
		}
		sharedJournal = j
	})
	return &EventService{
		journal: sharedJournal,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// NewEventServiceWithJournal verilen defteri kullanan örnek (testler ve özel kurulum).
func NewEventServiceWithJournal(j *journal.Journal) IEventService {
	return &EventService{journal: j, now: func() time.Time { return time.Now().UTC() }}
}

// Record olayı deftere ekler.
func (s *EventService) Record(eventType, entityID string, payload map[string]any) {
	_, err := s.journal.Append(journal.Event{
		ID:       uuid.NewString(),
		Type:     eventType,
		EntityID: entityID,
		Payload:  payload,
		At:       s.now(),
	})
	if err != nil {
		configslog.Log.Error("Olay deftere yazılamadı",
			zap.String("type", eventType), zap.String("entity_id", entityID), zap.Error(err))
	}
}

// ReadEvents defterden sıra numarasına göre olay okur (indeksleyici ucu).
func (s *EventService) ReadEvents(from uint64, limit int) ([]journal.Event, error) {
	return s.journal.ReadFrom(from, limit)
}

var _ IEventService = (*EventService)(nil)
