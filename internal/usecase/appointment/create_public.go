package appointment

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/reservaya/booking-api/internal/audit"
	"github.com/reservaya/booking-api/internal/domain/appointment"
	domain "github.com/reservaya/booking-api/internal/domain/appointment"
	"github.com/reservaya/booking-api/internal/httperr"
	"github.com/reservaya/booking-api/internal/infra/payments"
	"github.com/reservaya/booking-api/internal/models"
	"github.com/reservaya/booking-api/internal/timezone"
	"github.com/reservaya/booking-api/internal/validators"
)

type CreatePublicInput struct {
	Slug        string
	ServiceID   uuid.UUID
	BarberID    *uuid.UUID
	ScheduledAt time.Time
	ClientName  string
	ClientPhone string
	ClientEmail string
	ClientNotes string
}

type CreatePublicResult struct {
	Appointment *models.Appointment
	// Link de pago adelantado, vacío si el negocio no lo exige.
	PaymentLink string
}

// CreatePublicAppointment es la reserva desde la página pública del negocio:
// sin autenticación, identificada por slug.
type CreatePublicAppointment struct {
	repo     domain.Repository
	audit    audit.Sink
	payments payments.LinkProvider
}

func NewCreatePublicAppointment(
	repo domain.Repository,
	sink audit.Sink,
	link payments.LinkProvider,
) *CreatePublicAppointment {
	return &CreatePublicAppointment{
		repo:     repo,
		audit:    sink,
		payments: link,
	}
}

func (uc *CreatePublicAppointment) Execute(
	ctx context.Context,
	in CreatePublicInput,
) (*CreatePublicResult, error) {

	biz, err := uc.repo.GetBusinessBySlug(ctx, in.Slug)
	if err != nil || !biz.IsActive {
		return nil, httperr.ErrBusiness("business_not_found")
	}

	svc, err := uc.repo.GetService(ctx, biz.ID, in.ServiceID)
	if err != nil || !svc.IsActive {
		return nil, httperr.ErrBusiness("service_not_found")
	}

	var barber *models.Barber
	if in.BarberID != nil {
		barber, err = uc.repo.GetBarber(ctx, biz.ID, *in.BarberID)
		if err != nil || !barber.IsActive {
			return nil, httperr.ErrBusiness("barber_not_found")
		}
	} else {
		// Sin preferencia de barbero: se asigna el primero activo.
		barber, err = uc.repo.FirstActiveBarber(ctx, biz.ID)
		if err != nil {
			return nil, httperr.ErrBusiness("no_barbers_available")
		}
	}

	name := strings.TrimSpace(in.ClientName)
	if name == "" {
		return nil, httperr.ErrBusiness("client_name_required")
	}
	if !validators.IsPhoneValid(in.ClientPhone) {
		return nil, httperr.ErrBusiness("invalid_phone")
	}

	now := timezone.NowIn(biz.Timezone)
	if in.ScheduledAt.Before(now) {
		return nil, httperr.ErrBusiness("time_in_past")
	}

	client, err := uc.repo.GetOrCreateClient(
		ctx, biz.ID, name, in.ClientPhone, in.ClientEmail,
	)
	if err != nil {
		return nil, err
	}

	ap := &models.Appointment{
		BusinessID:  biz.ID,
		BarberID:    barber.ID,
		ClientID:    client.ID,
		ServiceID:   svc.ID,
		ScheduledAt: in.ScheduledAt,
		// Snapshot del servicio al momento de reservar.
		DurationMinutes: svc.DurationMinutes,
		Price:           svc.Price,
		Status:          string(appointment.InitialStatus()),
		Source:          models.SourceClientBooked,
		ClientNotes:     in.ClientNotes,
	}

	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BusinessID: biz.ID,
		Action:     "appointment_booked",
		Entity:     "appointment",
		EntityID:   &ap.ID,
		Metadata: map[string]any{
			"source":       models.SourceClientBooked,
			"barber_id":    barber.ID.String(),
			"scheduled_at": ap.ScheduledAt,
		},
	})

	result := &CreatePublicResult{Appointment: ap}

	if biz.AdvancePaymentEnabled && biz.AdvancePaymentAmount > 0 && uc.payments != nil {
		link, err := uc.payments.PaymentLink(ctx, payments.LinkRequest{
			Reference:    ap.ID.String(),
			Title:        fmt.Sprintf("Adelanto - %s", svc.Name),
			Amount:       biz.AdvancePaymentAmount,
			PayerName:    client.Name,
			PayerEmail:   client.Email,
			BusinessName: biz.Name,
		})
		if err != nil {
			// La cita ya quedó registrada; el pago se puede cobrar en sitio.
			log.Println("payment link error:", err)
		} else {
			result.PaymentLink = link
		}
	}

	return result, nil
}
