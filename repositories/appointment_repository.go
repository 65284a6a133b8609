package repositories

import (
	"context"
	"errors"
	"strings"

	"telemed.link/configs"
	"telemed.link/configs/configslog"
	"telemed.link/models"
	"telemed.link/pkg/queryparams"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// IAppointmentRepository randevu kayıtları veritabanı işlemleri.
type IAppointmentRepository interface {
	Create(ctx context.Context, appointment *models.Appointment) error
	FindByID(ctx context.Context, id uint) (*models.Appointment, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*models.Appointment, error)
	FindAllByPatientPaginated(ctx context.Context, patientAddress string, params queryparams.ListParams) ([]models.Appointment, int64, error)
	FindAllByDoctorPaginated(ctx context.Context, doctorAddress string, params queryparams.ListParams) ([]models.Appointment, int64, error)
	Update(ctx context.Context, appointment *models.Appointment) error
}

// AppointmentRepository IAppointmentRepository arayüzünü uygular.
type AppointmentRepository struct {
	db *gorm.DB
}

// NewAppointmentRepository yeni bir AppointmentRepository örneği oluşturur.
func NewAppointmentRepository() IAppointmentRepository {
	return &AppointmentRepository{db: configs.GetDB()}
}

// NewAppointmentRepositoryTx transaction'lı repository örneği.
func NewAppointmentRepositoryTx(tx *gorm.DB) IAppointmentRepository {
	return &AppointmentRepository{db: tx}
}

// Create yeni randevu kaydı oluşturur. ID veritabanı tarafından monoton artan atanır.
func (r *AppointmentRepository) Create(ctx context.Context, appointment *models.Appointment) error {
	if appointment == nil || appointment.PatientAddress == "" || appointment.DoctorAddress == "" {
		return errors.New("geçersiz randevu kaydı")
	}
	return dbFromContext(ctx, r.db).Create(appointment).Error
}

// FindByID randevuyu ID ile bulur.
func (r *AppointmentRepository) FindByID(ctx context.Context, id uint) (*models.Appointment, error) {
	if id == 0 {
		return nil, errors.New("geçersiz randevu ID")
	}
	var appointment models.Appointment
	err := dbFromContext(ctx, r.db).First(&appointment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("AppointmentRepository.FindByID: DB hatası", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return &appointment, nil
}

// FindByIDForUpdate randevuyu satır kilidiyle alır (transaction içinde).
func (r *AppointmentRepository) FindByIDForUpdate(ctx context.Context, id uint) (*models.Appointment, error) {
	if id == 0 {
		return nil, errors.New("geçersiz randevu ID")
	}
	var appointment models.Appointment
	err := dbFromContext(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&appointment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &appointment, nil
}

// FindAllByPatientPaginated hastanın randevularını sayfalayarak bulur.
func (r *AppointmentRepository) FindAllByPatientPaginated(ctx context.Context, patientAddress string, params queryparams.ListParams) ([]models.Appointment, int64, error) {
	return r.findAllPaginated(ctx, "patient_address", patientAddress, params)
}

// FindAllByDoctorPaginated doktorun randevularını sayfalayarak bulur.
func (r *AppointmentRepository) FindAllByDoctorPaginated(ctx context.Context, doctorAddress string, params queryparams.ListParams) ([]models.Appointment, int64, error) {
	return r.findAllPaginated(ctx, "doctor_address", doctorAddress, params)
}

func (r *AppointmentRepository) findAllPaginated(ctx context.Context, column, address string, params queryparams.ListParams) ([]models.Appointment, int64, error) {
	if address == "" {
		return nil, 0, errors.New("geçersiz adres")
	}
	var appointments []models.Appointment
	var totalCount int64
	db := dbFromContext(ctx, r.db)

	query := db.Model(&models.Appointment{}).Where(column+" = ?", address)
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}

	if err := query.Count(&totalCount).Error; err != nil {
		configslog.Log.Error("AppointmentRepository.Count: DB hatası", zap.String("address", address), zap.Error(err))
		return nil, 0, err
	}
	if totalCount == 0 {
		return appointments, 0, nil
	}

	// İzin verilen sıralama sütunları
	allowedSortColumns := map[string]string{
		"id":           "id",
		"created_at":   "created_at",
		"scheduled_at": "scheduled_at",
		"status":       "status",
		"fee":          "fee",
	}
	orderColumn := "id"
	if dbCol, ok := allowedSortColumns[params.SortBy]; ok {
		orderColumn = dbCol
	}
	orderBy := strings.ToLower(params.OrderBy)
	if orderBy != "asc" && orderBy != "desc" {
		orderBy = queryparams.DefaultOrderBy
	}
	query = query.Order(orderColumn + " " + orderBy)
	query = query.Limit(params.PerPage).Offset(params.CalculateOffset())

	if err := query.Find(&appointments).Error; err != nil {
		configslog.Log.Error("AppointmentRepository.Find: DB hatası", zap.String("address", address), zap.Error(err))
		return nil, totalCount, err
	}
	return appointments, totalCount, nil
}

// Update randevuyu kaydeder.
func (r *AppointmentRepository) Update(ctx context.Context, appointment *models.Appointment) error {
	if appointment == nil || appointment.ID == 0 {
		return errors.New("güncellenecek randevu geçerli değil")
	}
	return dbFromContext(ctx, r.db).Save(appointment).Error
}

var _ IAppointmentRepository = (*AppointmentRepository)(nil)
