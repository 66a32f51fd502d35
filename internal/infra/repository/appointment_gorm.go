package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/reservaya/booking-api/internal/domain/appointment"
	"github.com/reservaya/booking-api/internal/httperr"
	"github.com/reservaya/booking-api/internal/models"
	"github.com/reservaya/booking-api/internal/timezone"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Business
// --------------------------------------------------

func (r *AppointmentGormRepository) GetBusinessBySlug(
	ctx context.Context,
	slug string,
) (*models.Business, error) {

	var biz models.Business
	if err := r.db.WithContext(ctx).
		Where("slug = ? AND is_active = true", slug).
		First(&biz).Error; err != nil {
		return nil, err
	}
	return &biz, nil
}

func (r *AppointmentGormRepository) GetBusinessByID(
	ctx context.Context,
	id uuid.UUID,
) (*models.Business, error) {

	var biz models.Business
	if err := r.db.WithContext(ctx).First(&biz, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &biz, nil
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func (r *AppointmentGormRepository) GetService(
	ctx context.Context,
	businessID uuid.UUID,
	serviceID uuid.UUID,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND business_id = ?", serviceID, businessID).
		First(&svc).Error; err != nil {
		return nil, err
	}
	return &svc, nil
}

func (r *AppointmentGormRepository) ListActiveServices(
	ctx context.Context,
	businessID uuid.UUID,
) ([]models.Service, error) {

	var services []models.Service
	if err := r.db.WithContext(ctx).
		Where("business_id = ? AND is_active = true", businessID).
		Order("display_order ASC, name ASC").
		Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

// --------------------------------------------------
// Barber
// --------------------------------------------------

func (r *AppointmentGormRepository) GetBarber(
	ctx context.Context,
	businessID uuid.UUID,
	barberID uuid.UUID,
) (*models.Barber, error) {

	var barber models.Barber
	if err := r.db.WithContext(ctx).
		Where("id = ? AND business_id = ?", barberID, businessID).
		First(&barber).Error; err != nil {
		return nil, err
	}
	return &barber, nil
}

func (r *AppointmentGormRepository) ListActiveBarbers(
	ctx context.Context,
	businessID uuid.UUID,
) ([]models.Barber, error) {

	var barbers []models.Barber
	if err := r.db.WithContext(ctx).
		Where("business_id = ? AND is_active = true", businessID).
		Order("created_at ASC").
		Find(&barbers).Error; err != nil {
		return nil, err
	}
	return barbers, nil
}

func (r *AppointmentGormRepository) FirstActiveBarber(
	ctx context.Context,
	businessID uuid.UUID,
) (*models.Barber, error) {

	var barber models.Barber
	if err := r.db.WithContext(ctx).
		Where("business_id = ? AND is_active = true", businessID).
		Order("created_at ASC").
		First(&barber).Error; err != nil {
		return nil, err
	}
	return &barber, nil
}

func (r *AppointmentGormRepository) GetBarberByUser(
	ctx context.Context,
	businessID uuid.UUID,
	userID uuid.UUID,
) (*models.Barber, error) {

	var barber models.Barber
	if err := r.db.WithContext(ctx).
		Where("business_id = ? AND user_id = ?", businessID, userID).
		First(&barber).Error; err != nil {
		return nil, err
	}
	return &barber, nil
}

// --------------------------------------------------
// Client
// --------------------------------------------------

func (r *AppointmentGormRepository) GetClient(
	ctx context.Context,
	businessID uuid.UUID,
	clientID uuid.UUID,
) (*models.Client, error) {

	var client models.Client
	if err := r.db.WithContext(ctx).
		Where("id = ? AND business_id = ?", clientID, businessID).
		First(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *AppointmentGormRepository) GetOrCreateClient(
	ctx context.Context,
	businessID uuid.UUID,
	name string,
	phone string,
	email string,
) (*models.Client, error) {

	var client models.Client
	err := r.db.WithContext(ctx).
		Where("business_id = ? AND phone = ?", businessID, phone).
		First(&client).Error

	if err == nil {
		return &client, nil
	}

	client = models.Client{
		BusinessID: businessID,
		Name:       name,
		Phone:      phone,
		Email:      email,
	}

	if err := r.db.WithContext(ctx).Create(&client).Error; err != nil {
		// Carrera con otra reserva del mismo teléfono: el índice único gana,
		// releemos el registro existente.
		if httperr.IsUniqueViolation(err) {
			var existing models.Client
			if err2 := r.db.WithContext(ctx).
				Where("business_id = ? AND phone = ?", businessID, phone).
				First(&existing).Error; err2 == nil {
				return &existing, nil
			}
		}
		return nil, err
	}

	return &client, nil
}

// --------------------------------------------------
// Appointment (create / conflict)
// --------------------------------------------------

// CreateAppointment re-valida la ventana completa dentro de la transacción
// que inserta la fila: horario de atención, bloqueos del barbero y solape
// con otras citas. Las filas candidatas del barbero quedan bloqueadas
// (FOR UPDATE) hasta el commit: de dos reservas concurrentes para la misma
// ventana, a lo sumo una se crea. La disponibilidad que vio el cliente es
// solo orientativa; esta verificación es la que manda.
func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {

	start := ap.ScheduledAt
	end := ap.EndTime()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		var biz models.Business
		if err := tx.First(&biz, "id = ?", ap.BusinessID).Error; err != nil {
			return err
		}

		local := start.In(timezone.Location(biz.Timezone))
		dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
		hours := biz.OperatingHours[models.WeekdayKey(local.Weekday())]
		if !domain.WithinHours(local, ap.DurationMinutes, hours) {
			return httperr.ErrBusiness("time_conflict")
		}

		var blocks []models.BarberBlock
		if err := tx.
			Where(
				"business_id = ? AND barber_id = ? AND start_time < ? AND end_time > ?",
				ap.BusinessID, ap.BarberID, dayStart.Add(24*time.Hour), dayStart,
			).
			Find(&blocks).Error; err != nil {
			return err
		}

		blockers := make([]domain.Blocker, 0, len(blocks))
		for _, b := range blocks {
			blockers = append(blockers, domain.BlockerFromBlock(b, dayStart))
		}
		if domain.Overlaps(start, ap.DurationMinutes, blockers) {
			return httperr.ErrBusiness("time_conflict")
		}

		var conflicts []models.Appointment
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(
				"barber_id = ? AND business_id = ? AND status IN ? AND scheduled_at < ? AND scheduled_at + make_interval(mins => duration_minutes) > ?",
				ap.BarberID,
				ap.BusinessID,
				[]string{string(domain.StatusPending), string(domain.StatusConfirmed)},
				end,
				start,
			).
			Find(&conflicts).Error; err != nil {
			return err
		}

		if len(conflicts) > 0 {
			return httperr.ErrBusiness("time_conflict")
		}

		return tx.Create(ap).Error
	})
}

// --------------------------------------------------
// Appointment (state change)
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	businessID uuid.UUID,
	appointmentID uuid.UUID,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Service").
		Where("id = ? AND business_id = ?", appointmentID, businessID).
		First(&ap).Error; err != nil {
		return nil, err
	}

	return &ap, nil
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Save(ap).Error
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

func (r *AppointmentGormRepository) ListBlockingAppointments(
	ctx context.Context,
	businessID uuid.UUID,
	barberID *uuid.UUID,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	// Solape real contra la ventana: una cita que empieza antes del inicio
	// pero se derrama dentro también bloquea.
	q := r.db.WithContext(ctx).
		Where(
			"business_id = ? AND status IN ? AND scheduled_at < ? AND scheduled_at + make_interval(mins => duration_minutes) > ?",
			businessID,
			[]string{
				string(domain.StatusPending),
				string(domain.StatusConfirmed),
				string(domain.StatusCompleted),
			},
			end, start,
		)

	if barberID != nil {
		q = q.Where("barber_id = ?", *barberID)
	}

	var apps []models.Appointment
	if err := q.Order("scheduled_at ASC").Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

func (r *AppointmentGormRepository) ListBlocksForWindow(
	ctx context.Context,
	businessID uuid.UUID,
	barberID *uuid.UUID,
	start time.Time,
	end time.Time,
) ([]models.BarberBlock, error) {

	q := r.db.WithContext(ctx).
		Where(
			"business_id = ? AND start_time < ? AND end_time > ?",
			businessID, end, start,
		)

	if barberID != nil {
		q = q.Where("barber_id = ?", *barberID)
	}

	var blocks []models.BarberBlock
	if err := q.Order("start_time ASC").Find(&blocks).Error; err != nil {
		return nil, err
	}

	return blocks, nil
}

// --------------------------------------------------
// Listings
// --------------------------------------------------

func (r *AppointmentGormRepository) ListBarberAppointmentsForDay(
	ctx context.Context,
	businessID uuid.UUID,
	barberID uuid.UUID,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Service").
		Where(
			"business_id = ? AND barber_id = ? AND scheduled_at >= ? AND scheduled_at < ?",
			businessID, barberID, start, end,
		).
		Order("scheduled_at ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

func (r *AppointmentGormRepository) ListAppointments(
	ctx context.Context,
	filter domain.ListFilter,
) ([]models.Appointment, int64, error) {

	q := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("business_id = ?", filter.BusinessID)

	if filter.Start != nil {
		q = q.Where("scheduled_at >= ?", *filter.Start)
	}
	if filter.End != nil {
		q = q.Where("scheduled_at < ?", *filter.End)
	}
	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.ClientID != nil {
		q = q.Where("client_id = ?", *filter.ClientID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q = q.Preload("Client").Preload("Service").Order("scheduled_at ASC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit).Offset(filter.Offset)
	}

	var apps []models.Appointment
	if err := q.Find(&apps).Error; err != nil {
		return nil, 0, err
	}

	return apps, total, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
