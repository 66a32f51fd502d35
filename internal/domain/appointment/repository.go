package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/reservaya/booking-api/internal/models"
)

// ListFilter acota el listado de citas del negocio. Start/End en nil listan
// sin recorte temporal; Status vacío o "all" no filtra por estado.
type ListFilter struct {
	BusinessID uuid.UUID
	Start      *time.Time
	End        *time.Time
	Status     string
	ClientID   *uuid.UUID
	Limit      int
	Offset     int
}

type Repository interface {
	// -------- Business --------
	GetBusinessBySlug(
		ctx context.Context,
		slug string,
	) (*models.Business, error)

	GetBusinessByID(
		ctx context.Context,
		id uuid.UUID,
	) (*models.Business, error)

	// -------- Service --------
	GetService(
		ctx context.Context,
		businessID uuid.UUID,
		serviceID uuid.UUID,
	) (*models.Service, error)

	ListActiveServices(
		ctx context.Context,
		businessID uuid.UUID,
	) ([]models.Service, error)

	// -------- Barber --------
	GetBarber(
		ctx context.Context,
		businessID uuid.UUID,
		barberID uuid.UUID,
	) (*models.Barber, error)

	ListActiveBarbers(
		ctx context.Context,
		businessID uuid.UUID,
	) ([]models.Barber, error)

	FirstActiveBarber(
		ctx context.Context,
		businessID uuid.UUID,
	) (*models.Barber, error)

	GetBarberByUser(
		ctx context.Context,
		businessID uuid.UUID,
		userID uuid.UUID,
	) (*models.Barber, error)

	// -------- Client --------
	GetClient(
		ctx context.Context,
		businessID uuid.UUID,
		clientID uuid.UUID,
	) (*models.Client, error)

	GetOrCreateClient(
		ctx context.Context,
		businessID uuid.UUID,
		name string,
		phone string,
		email string,
	) (*models.Client, error)

	// -------- Appointment (create / conflict) --------

	// CreateAppointment inserta la cita re-validando el solape dentro de la
	// misma transacción. La disponibilidad leída antes por el cliente no es
	// autoridad: si otra cita ocupa [scheduled_at, scheduled_at+duración)
	// para el mismo barbero, devuelve ErrBusiness("time_conflict") y no
	// persiste nada.
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Appointment (state change) --------
	GetAppointment(
		ctx context.Context,
		businessID uuid.UUID,
		appointmentID uuid.UUID,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Availability --------

	// ListBlockingAppointments devuelve las citas que ocupan agenda en
	// [start, end): pending, confirmed y completed. barberID nil abarca
	// todo el negocio.
	ListBlockingAppointments(
		ctx context.Context,
		businessID uuid.UUID,
		barberID *uuid.UUID,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	ListBlocksForWindow(
		ctx context.Context,
		businessID uuid.UUID,
		barberID *uuid.UUID,
		start time.Time,
		end time.Time,
	) ([]models.BarberBlock, error)

	// -------- Listings --------

	// ListBarberAppointmentsForDay: citas del barbero en [start, end)
	// ascendentes por hora, con Client y Service precargados.
	ListBarberAppointmentsForDay(
		ctx context.Context,
		businessID uuid.UUID,
		barberID uuid.UUID,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	ListAppointments(
		ctx context.Context,
		filter ListFilter,
	) ([]models.Appointment, int64, error)
}
