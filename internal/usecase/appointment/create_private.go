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
)

type CreatePrivateInput struct {
	BusinessID    uuid.UUID
	ServiceID     uuid.UUID
	ClientID      uuid.UUID
	BarberID      *uuid.UUID
	ScheduledAt   time.Time
	InternalNotes string
}

// CreatePrivateAppointment es la creación desde el panel del staff: el
// cliente ya existe en la cartera del negocio y la cita nace pendiente,
// igual que una reserva pública, hasta que el barbero hace check-in.
type CreatePrivateAppointment struct {
	repo  domain.Repository
	audit audit.Sink
}

func NewCreatePrivateAppointment(
	repo domain.Repository,
	sink audit.Sink,
) *CreatePrivateAppointment {
	return &CreatePrivateAppointment{
		repo:  repo,
		audit: sink,
	}
}

func (uc *CreatePrivateAppointment) Execute(
	ctx context.Context,
	actor rbac.Actor,
	in CreatePrivateInput,
) (*models.Appointment, error) {

	if !actor.Has(rbac.WriteAllAppointments) {
		return nil, httperr.ErrBusiness("unauthorized")
	}

	svc, err := uc.repo.GetService(ctx, in.BusinessID, in.ServiceID)
	if err != nil {
		return nil, httperr.ErrBusiness("service_not_found")
	}

	client, err := uc.repo.GetClient(ctx, in.BusinessID, in.ClientID)
	if err != nil {
		return nil, httperr.ErrBusiness("client_not_found")
	}

	var barber *models.Barber
	if in.BarberID != nil {
		barber, err = uc.repo.GetBarber(ctx, in.BusinessID, *in.BarberID)
		if err != nil {
			return nil, httperr.ErrBusiness("barber_not_found")
		}
	} else {
		barber, err = uc.repo.FirstActiveBarber(ctx, in.BusinessID)
		if err != nil {
			return nil, httperr.ErrBusiness("no_barbers_available")
		}
	}

	ap := &models.Appointment{
		BusinessID:      in.BusinessID,
		BarberID:        barber.ID,
		ClientID:        client.ID,
		ServiceID:       in.ServiceID,
		ScheduledAt:     in.ScheduledAt,
		DurationMinutes: svc.DurationMinutes,
		Price:           svc.Price,
		Status:          string(appointment.InitialStatus()),
		Source:          models.SourceOwnerCreated,
		InternalNotes:   in.InternalNotes,
	}

	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BusinessID: in.BusinessID,
		UserID:     &actor.UserID,
		Action:     "appointment_created",
		Entity:     "appointment",
		EntityID:   &ap.ID,
		Metadata: map[string]any{
			"source":    models.SourceOwnerCreated,
			"barber_id": barber.ID.String(),
		},
	})

	return ap, nil
}
