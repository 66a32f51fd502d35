package appointment

import (
	"context"

	domain "github.com/reservaya/booking-api/internal/domain/appointment"
	"github.com/reservaya/booking-api/internal/httperr"
	"github.com/reservaya/booking-api/internal/models"
	"github.com/reservaya/booking-api/internal/timezone"
)

type GetAvailability struct {
	repo domain.Repository
}

func NewGetAvailability(repo domain.Repository) *GetAvailability {
	return &GetAvailability{repo: repo}
}

// Execute computa los slots candidatos del día para (negocio, servicio, fecha),
// opcionalmente acotados a un barbero. Lectura pura: ningún slot se reserva aquí.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) ([]domain.TimeSlot, error) {

	biz, err := uc.repo.GetBusinessByID(ctx, in.BusinessID)
	if err != nil {
		return nil, httperr.ErrBusiness("business_not_found")
	}

	svc, err := uc.repo.GetService(ctx, in.BusinessID, in.ServiceID)
	if err != nil || !svc.IsActive {
		return nil, httperr.ErrBusiness("service_not_found")
	}

	if in.BarberID != nil {
		if _, err := uc.repo.GetBarber(ctx, in.BusinessID, *in.BarberID); err != nil {
			return nil, httperr.ErrBusiness("barber_not_found")
		}
	}

	dayStart, dayEnd := timezone.DayWindow(in.Date, biz.Timezone)

	appointments, err := uc.repo.ListBlockingAppointments(
		ctx, in.BusinessID, in.BarberID, dayStart, dayEnd,
	)
	if err != nil {
		return nil, err
	}

	blocks, err := uc.repo.ListBlocksForWindow(
		ctx, in.BusinessID, in.BarberID, dayStart, dayEnd,
	)
	if err != nil {
		return nil, err
	}

	blockers := make([]domain.Blocker, 0, len(appointments)+len(blocks))
	for _, ap := range appointments {
		blockers = append(blockers, domain.BlockerFromAppointment(ap))
	}
	for _, b := range blocks {
		blockers = append(blockers, domain.BlockerFromBlock(b, dayStart))
	}

	hours := biz.OperatingHours[models.WeekdayKey(dayStart.Weekday())]

	return domain.ComputeSlots(domain.SlotParams{
		Date:            dayStart,
		Hours:           hours,
		Blockers:        blockers,
		ServiceDuration: svc.DurationMinutes,
		BufferMinutes:   biz.BookingBufferMinutes,
		SlotInterval:    biz.SlotIntervalMinutes,
		Now:             timezone.NowIn(biz.Timezone),
	}), nil
}
