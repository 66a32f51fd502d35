package appointment

import (
	"context"

	"github.com/google/uuid"

	"github.com/reservaya/booking-api/internal/audit"
	"github.com/reservaya/booking-api/internal/domain/appointment"
	domain "github.com/reservaya/booking-api/internal/domain/appointment"
	"github.com/reservaya/booking-api/internal/dto"
	"github.com/reservaya/booking-api/internal/httperr"
	"github.com/reservaya/booking-api/internal/rbac"
	"github.com/reservaya/booking-api/internal/timezone"
)

// GetBarberToday arma la vista "Mi Día" de un barbero: sus citas de hoy en
// orden ascendente más el resumen por estado. "Hoy" se corta en la zona
// horaria del negocio.
type GetBarberToday struct {
	repo  domain.Repository
	audit audit.Sink
}

func NewGetBarberToday(
	repo domain.Repository,
	sink audit.Sink,
) *GetBarberToday {
	return &GetBarberToday{
		repo:  repo,
		audit: sink,
	}
}

func (uc *GetBarberToday) Execute(
	ctx context.Context,
	actor rbac.Actor,
	businessID uuid.UUID,
	barberID uuid.UUID,
	endpoint string,
) (*dto.TodayResponseDTO, error) {

	// La pertenencia al negocio se verifica antes que el permiso: un barbero
	// de otro negocio responde igual que uno inexistente.
	barber, err := uc.repo.GetBarber(ctx, businessID, barberID)
	if err != nil {
		return nil, httperr.ErrBusiness("barber_not_found")
	}

	if !actor.CanAccessBarberAppointments(barberID) {
		audit.Security(uc.audit, businessID, actor.UserID, endpoint, map[string]any{
			"barber_id": barberID.String(),
		})
		return nil, httperr.ErrBusiness("unauthorized")
	}

	biz, err := uc.repo.GetBusinessByID(ctx, businessID)
	if err != nil {
		return nil, err
	}

	now := timezone.NowIn(biz.Timezone)
	dayStart, dayEnd := timezone.DayWindow(now, biz.Timezone)

	appointments, err := uc.repo.ListBarberAppointmentsForDay(
		ctx, businessID, barberID, dayStart, dayEnd,
	)
	if err != nil {
		return nil, err
	}

	resp := &dto.TodayResponseDTO{
		Appointments: make([]dto.TodayAppointmentDTO, 0, len(appointments)),
		Barber: dto.TodayBarberDTO{
			ID:   barber.ID,
			Name: barber.Name,
		},
		Date: dayStart.Format("2006-01-02"),
	}

	for _, ap := range appointments {
		resp.Appointments = append(resp.Appointments, dto.TodayAppointmentDTO{
			ID:                    ap.ID,
			ScheduledAt:           ap.ScheduledAt,
			DurationMinutes:       ap.DurationMinutes,
			Price:                 ap.Price,
			Status:                ap.Status,
			ClientNotes:           ap.ClientNotes,
			InternalNotes:         ap.InternalNotes,
			StartedAt:             ap.StartedAt,
			ActualDurationMinutes: ap.ActualDurationMinutes,
			Client: dto.TodayClientDTO{
				ID:    ap.Client.ID,
				Name:  ap.Client.Name,
				Phone: ap.Client.Phone,
				Email: ap.Client.Email,
			},
			Service: dto.TodayServiceDTO{
				ID:              ap.Service.ID,
				Name:            ap.Service.Name,
				DurationMinutes: ap.Service.DurationMinutes,
				Price:           ap.Service.Price,
			},
		})

		resp.Stats.Total++
		switch appointment.Status(ap.Status) {
		case appointment.StatusPending:
			resp.Stats.Pending++
		case appointment.StatusConfirmed:
			resp.Stats.Confirmed++
		case appointment.StatusCompleted:
			resp.Stats.Completed++
		case appointment.StatusCancelled:
			resp.Stats.Cancelled++
		case appointment.StatusNoShow:
			resp.Stats.NoShow++
		}
	}

	return resp, nil
}
