package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/reservaya/booking-api/internal/audit"
	"github.com/reservaya/booking-api/internal/domain/appointment"
	domain "github.com/reservaya/booking-api/internal/domain/appointment"
	"github.com/reservaya/booking-api/internal/httperr"
	"github.com/reservaya/booking-api/internal/models"
	"github.com/reservaya/booking-api/internal/rbac"
	"github.com/reservaya/booking-api/internal/timezone"
)

// StatusChange agrupa las transiciones de estado de una cita. Cada acción
// pasa por la misma compuerta: la cita debe ser del negocio del actor y el
// rol barber solo puede tocar sus propias citas.
type StatusChange struct {
	repo  domain.Repository
	audit audit.Sink
}

func NewStatusChange(
	repo domain.Repository,
	sink audit.Sink,
) *StatusChange {
	return &StatusChange{
		repo:  repo,
		audit: sink,
	}
}

type transitionFn func(ap *models.Appointment, now time.Time) error

func (uc *StatusChange) apply(
	ctx context.Context,
	actor rbac.Actor,
	businessID uuid.UUID,
	appointmentID uuid.UUID,
	endpoint string,
	action string,
	fn transitionFn,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, businessID, appointmentID)
	if err != nil {
		// Misma respuesta exista o no la cita en otro negocio.
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	if !actor.CanAccessBarberAppointments(ap.BarberID) {
		audit.Security(uc.audit, businessID, actor.UserID, endpoint, map[string]any{
			"appointment_id": ap.ID.String(),
			"barber_id":      ap.BarberID.String(),
		})
		return nil, httperr.ErrBusiness("unauthorized")
	}

	biz, err := uc.repo.GetBusinessByID(ctx, businessID)
	if err != nil {
		return nil, err
	}

	now := timezone.NowIn(biz.Timezone)
	if err := fn(ap, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BusinessID: businessID,
		UserID:     &actor.UserID,
		Action:     action,
		Entity:     "appointment",
		EntityID:   &ap.ID,
		Metadata:   map[string]any{"status": ap.Status},
	})

	return ap, nil
}

// CheckIn marca la llegada del cliente y fija started_at.
func (uc *StatusChange) CheckIn(
	ctx context.Context,
	actor rbac.Actor,
	businessID uuid.UUID,
	appointmentID uuid.UUID,
	endpoint string,
) (*models.Appointment, error) {
	return uc.apply(
		ctx, actor, businessID, appointmentID, endpoint,
		"appointment_checked_in", appointment.CheckIn,
	)
}

// Complete cierra la cita registrando la duración real desde el check-in.
func (uc *StatusChange) Complete(
	ctx context.Context,
	actor rbac.Actor,
	businessID uuid.UUID,
	appointmentID uuid.UUID,
	endpoint string,
) (*models.Appointment, error) {
	return uc.apply(
		ctx, actor, businessID, appointmentID, endpoint,
		"appointment_completed", appointment.Complete,
	)
}

func (uc *StatusChange) NoShow(
	ctx context.Context,
	actor rbac.Actor,
	businessID uuid.UUID,
	appointmentID uuid.UUID,
	endpoint string,
) (*models.Appointment, error) {
	return uc.apply(
		ctx, actor, businessID, appointmentID, endpoint,
		"appointment_no_show", appointment.MarkNoShow,
	)
}

func (uc *StatusChange) Cancel(
	ctx context.Context,
	actor rbac.Actor,
	businessID uuid.UUID,
	appointmentID uuid.UUID,
	endpoint string,
) (*models.Appointment, error) {
	return uc.apply(
		ctx, actor, businessID, appointmentID, endpoint,
		"appointment_cancelled", appointment.Cancel,
	)
}
