package services

import (
	"context"
	"time"

	"telemed.link/models"
	"telemed.link/pkg/journal"
	"telemed.link/pkg/queryparams"
	"telemed.link/repositories"
)

// Testler servisleri bellek içi repository'lerle kurar; GORM ve Postgres
// devreye girmez. stubTx fonksiyonu aynı context ile çağırır, böylece
// servislerin transaction sıralaması değişmeden çalışır.

type stubTx struct{}

func (stubTx) Do(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

var _ repositories.ITxManager = stubTx{}

// recordedEvent testte yakalanan olay.
type recordedEvent struct {
	Type     string
	EntityID string
	Payload  map[string]any
}

type memEvents struct {
	events []recordedEvent
}

func (m *memEvents) Record(eventType, entityID string, payload map[string]any) {
	m.events = append(m.events, recordedEvent{Type: eventType, EntityID: entityID, Payload: payload})
}

func (m *memEvents) ReadEvents(from uint64, limit int) ([]journal.Event, error) {
	return nil, nil
}

func (m *memEvents) types() []string {
	var out []string
	for _, e := range m.events {
		out = append(out, e.Type)
	}
	return out
}

var _ IEventService = (*memEvents)(nil)

// --- Bellek içi repository'ler ---

type memAccounts struct {
	byAddr map[string]*models.Account
	nextID uint
}

func newMemAccounts() *memAccounts {
	return &memAccounts{byAddr: map[string]*models.Account{}}
}

func (m *memAccounts) Create(_ context.Context, account *models.Account) error {
	m.nextID++
	account.ID = m.nextID
	m.byAddr[account.Address] = account
	return nil
}

func (m *memAccounts) FindByAddress(_ context.Context, address string) (*models.Account, error) {
	account, ok := m.byAddr[address]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return account, nil
}

func (m *memAccounts) FindByAddressForUpdate(ctx context.Context, address string) (*models.Account, error) {
	return m.FindByAddress(ctx, address)
}

func (m *memAccounts) Update(_ context.Context, account *models.Account) error {
	m.byAddr[account.Address] = account
	return nil
}

var _ repositories.IAccountRepository = (*memAccounts)(nil)

type memPatients struct {
	byAddr map[string]*models.Patient
	nextID uint
}

func newMemPatients() *memPatients {
	return &memPatients{byAddr: map[string]*models.Patient{}}
}

func (m *memPatients) Create(_ context.Context, patient *models.Patient) error {
	m.nextID++
	patient.ID = m.nextID
	m.byAddr[patient.Address] = patient
	return nil
}

func (m *memPatients) FindByAddress(_ context.Context, address string) (*models.Patient, error) {
	patient, ok := m.byAddr[address]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return patient, nil
}

func (m *memPatients) FindByAddressForUpdate(ctx context.Context, address string) (*models.Patient, error) {
	return m.FindByAddress(ctx, address)
}

func (m *memPatients) ExistsByAddress(_ context.Context, address string) (bool, error) {
	_, ok := m.byAddr[address]
	return ok, nil
}

func (m *memPatients) Update(_ context.Context, patient *models.Patient) error {
	m.byAddr[patient.Address] = patient
	return nil
}

var _ repositories.IPatientRepository = (*memPatients)(nil)

type memDoctors struct {
	byAddr map[string]*models.Doctor
	nextID uint
}

func newMemDoctors() *memDoctors {
	return &memDoctors{byAddr: map[string]*models.Doctor{}}
}

func (m *memDoctors) Create(_ context.Context, doctor *models.Doctor) error {
	m.nextID++
	doctor.ID = m.nextID
	m.byAddr[doctor.Address] = doctor
	return nil
}

func (m *memDoctors) FindByAddress(_ context.Context, address string) (*models.Doctor, error) {
	doctor, ok := m.byAddr[address]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return doctor, nil
}

func (m *memDoctors) FindByAddressForUpdate(ctx context.Context, address string) (*models.Doctor, error) {
	return m.FindByAddress(ctx, address)
}

func (m *memDoctors) ExistsByAddress(_ context.Context, address string) (bool, error) {
	_, ok := m.byAddr[address]
	return ok, nil
}

func (m *memDoctors) Update(_ context.Context, doctor *models.Doctor) error {
	m.byAddr[doctor.Address] = doctor
	return nil
}

var _ repositories.IDoctorRepository = (*memDoctors)(nil)

type memAppointments struct {
	byID   map[uint]*models.Appointment
	nextID uint
}

func newMemAppointments() *memAppointments {
	return &memAppointments{byID: map[uint]*models.Appointment{}}
}

func (m *memAppointments) Create(_ context.Context, appointment *models.Appointment) error {
	m.nextID++
	appointment.ID = m.nextID
	m.byID[appointment.ID] = appointment
	return nil
}

func (m *memAppointments) FindByID(_ context.Context, id uint) (*models.Appointment, error) {
	appointment, ok := m.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return appointment, nil
}

func (m *memAppointments) FindByIDForUpdate(ctx context.Context, id uint) (*models.Appointment, error) {
	return m.FindByID(ctx, id)
}

func (m *memAppointments) FindAllByPatientPaginated(_ context.Context, patientAddress string, params queryparams.ListParams) ([]models.Appointment, int64, error) {
	var out []models.Appointment
	for _, a := range m.byID {
		if a.PatientAddress == patientAddress {
			out = append(out, *a)
		}
	}
	return out, int64(len(out)), nil
}

func (m *memAppointments) FindAllByDoctorPaginated(_ context.Context, doctorAddress string, params queryparams.ListParams) ([]models.Appointment, int64, error) {
	var out []models.Appointment
	for _, a := range m.byID {
		if a.DoctorAddress == doctorAddress {
			out = append(out, *a)
		}
	}
	return out, int64(len(out)), nil
}

func (m *memAppointments) Update(_ context.Context, appointment *models.Appointment) error {
	m.byID[appointment.ID] = appointment
	return nil
}

var _ repositories.IAppointmentRepository = (*memAppointments)(nil)

type slotKey struct {
	doctor string
	at     time.Time
}

type memSlots struct {
	byKey  map[slotKey]*models.AvailabilitySlot
	nextID uint
}

func newMemSlots() *memSlots {
	return &memSlots{byKey: map[slotKey]*models.AvailabilitySlot{}}
}

func (m *memSlots) key(doctorAddress string, slotTime time.Time) slotKey {
	return slotKey{doctor: doctorAddress, at: slotTime.UTC()}
}

func (m *memSlots) Upsert(_ context.Context, slot *models.AvailabilitySlot) error {
	k := m.key(slot.DoctorAddress, slot.SlotTime)
	if existing, ok := m.byKey[k]; ok {
		existing.IsAvailable = slot.IsAvailable
		return nil
	}
	m.nextID++
	slot.ID = m.nextID
	slot.SlotTime = slot.SlotTime.UTC()
	m.byKey[k] = slot
	return nil
}

func (m *memSlots) FindForUpdate(_ context.Context, doctorAddress string, slotTime time.Time) (*models.AvailabilitySlot, error) {
	slot, ok := m.byKey[m.key(doctorAddress, slotTime)]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return slot, nil
}

func (m *memSlots) Update(_ context.Context, slot *models.AvailabilitySlot) error {
	m.byKey[m.key(slot.DoctorAddress, slot.SlotTime)] = slot
	return nil
}

func (m *memSlots) ListByDoctor(_ context.Context, doctorAddress string, from time.Time) ([]models.AvailabilitySlot, error) {
	var out []models.AvailabilitySlot
	for _, s := range m.byKey {
		if s.DoctorAddress == doctorAddress && !s.SlotTime.Before(from) {
			out = append(out, *s)
		}
	}
	return out, nil
}

var _ repositories.ISlotRepository = (*memSlots)(nil)

type grantKey struct {
	doctor  string
	patient string
}

type memGrants struct {
	byKey map[grantKey]*models.RecordAccessGrant
}

func newMemGrants() *memGrants {
	return &memGrants{byKey: map[grantKey]*models.RecordAccessGrant{}}
}

func (m *memGrants) Upsert(_ context.Context, grant *models.RecordAccessGrant) error {
	k := grantKey{doctor: grant.DoctorAddress, patient: grant.PatientAddress}
	if _, ok := m.byKey[k]; ok {
		return nil
	}
	m.byKey[k] = grant
	return nil
}

func (m *memGrants) Exists(_ context.Context, doctorAddress, patientAddress string) (bool, error) {
	_, ok := m.byKey[grantKey{doctor: doctorAddress, patient: patientAddress}]
	return ok, nil
}

var _ repositories.IGrantRepository = (*memGrants)(nil)

type memSystem struct {
	state models.SystemState
}

func newMemSystem() *memSystem {
	return &memSystem{state: models.SystemState{Paused: false, EmergencyPremiumPct: 150}}
}

func (m *memSystem) Get(_ context.Context) (*models.SystemState, error) {
	return &m.state, nil
}

func (m *memSystem) GetForUpdate(ctx context.Context) (*models.SystemState, error) {
	return m.Get(ctx)
}

func (m *memSystem) Update(_ context.Context, state *models.SystemState) error {
	m.state = *state
	return nil
}

var _ repositories.ISystemRepository = (*memSystem)(nil)

type memTimelocks struct {
	byFingerprint map[string]*models.TimelockedAction
	nextID        uint
}

func newMemTimelocks() *memTimelocks {
	return &memTimelocks{byFingerprint: map[string]*models.TimelockedAction{}}
}

func (m *memTimelocks) Create(_ context.Context, action *models.TimelockedAction) error {
	m.nextID++
	action.ID = m.nextID
	m.byFingerprint[action.Fingerprint] = action
	return nil
}

func (m *memTimelocks) Exists(_ context.Context, fingerprint string) (bool, error) {
	_, ok := m.byFingerprint[fingerprint]
	return ok, nil
}

func (m *memTimelocks) FindByFingerprintForUpdate(_ context.Context, fingerprint string) (*models.TimelockedAction, error) {
	action, ok := m.byFingerprint[fingerprint]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return action, nil
}

func (m *memTimelocks) Delete(_ context.Context, action *models.TimelockedAction) error {
	delete(m.byFingerprint, action.Fingerprint)
	return nil
}

var _ repositories.ITimelockRepository = (*memTimelocks)(nil)

type memVerifications struct {
	byID   map[uint]*models.VerificationRequest
	nextID uint
}

func newMemVerifications() *memVerifications {
	return &memVerifications{byID: map[uint]*models.VerificationRequest{}}
}

func (m *memVerifications) Create(_ context.Context, request *models.VerificationRequest) error {
	m.nextID++
	request.ID = m.nextID
	m.byID[request.ID] = request
	return nil
}

func (m *memVerifications) FindByID(_ context.Context, id uint) (*models.VerificationRequest, error) {
	request, ok := m.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return request, nil
}

func (m *memVerifications) FindByIDForUpdate(ctx context.Context, id uint) (*models.VerificationRequest, error) {
	return m.FindByID(ctx, id)
}

func (m *memVerifications) HasOutstanding(_ context.Context, doctorAddress string) (bool, error) {
	for _, r := range m.byID {
		if r.DoctorAddress == doctorAddress && !r.Processed {
			return true, nil
		}
	}
	return false, nil
}

func (m *memVerifications) Update(_ context.Context, request *models.VerificationRequest) error {
	m.byID[request.ID] = request
	return nil
}

var _ repositories.IVerificationRepository = (*memVerifications)(nil)

// --- İşbirlikçi sahteleri ---

type fakeInsurance struct {
	covered bool
	pct     int
	err     error
}

func (f fakeInsurance) VerifyCoverage(_ context.Context, _ string, _ uint) (bool, int, error) {
	return f.covered, f.pct, f.err
}

type fakeTokens struct {
	err       error
	transfers []string
}

func (f *fakeTokens) TransferFrom(_ context.Context, _ models.AssetKind, from, to string, _ int64) error {
	if f.err != nil {
		return f.err
	}
	f.transfers = append(f.transfers, from+"->"+to)
	return nil
}

type fakeRamp struct {
	onRampErr  error
	offRamped  int64
	offRampErr error
}

func (f *fakeRamp) OnRamp(_ context.Context, _ string, _ int64) error {
	return f.onRampErr
}

func (f *fakeRamp) OffRamp(_ context.Context, _ string, amount int64) error {
	if f.offRampErr != nil {
		return f.offRampErr
	}
	f.offRamped += amount
	return nil
}

// fixedClock testlerde sabit zaman döndürür.
func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}
