package appointment

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/reservaya/booking-api/internal/audit"
	domain "github.com/reservaya/booking-api/internal/domain/appointment"
	"github.com/reservaya/booking-api/internal/httperr"
	"github.com/reservaya/booking-api/internal/models"
	"github.com/reservaya/booking-api/internal/rbac"
	"github.com/reservaya/booking-api/internal/timezone"
)

// fakeRepo implementa domain.Repository en memoria para los tests de los
// casos de uso, incluida la re-validación de solape al crear.
type fakeRepo struct {
	businesses   []*models.Business
	services     []*models.Service
	barbers      []*models.Barber
	clients      []*models.Client
	appointments []*models.Appointment
	blocks       []models.BarberBlock
}

var _ domain.Repository = (*fakeRepo)(nil)

func (f *fakeRepo) GetBusinessBySlug(ctx context.Context, slug string) (*models.Business, error) {
	for _, b := range f.businesses {
		if b.Slug == slug {
			return b, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) GetBusinessByID(ctx context.Context, id uuid.UUID) (*models.Business, error) {
	for _, b := range f.businesses {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) GetService(ctx context.Context, businessID, serviceID uuid.UUID) (*models.Service, error) {
	for _, s := range f.services {
		if s.ID == serviceID && s.BusinessID == businessID {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) ListActiveServices(ctx context.Context, businessID uuid.UUID) ([]models.Service, error) {
	out := []models.Service{}
	for _, s := range f.services {
		if s.BusinessID == businessID && s.IsActive {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetBarber(ctx context.Context, businessID, barberID uuid.UUID) (*models.Barber, error) {
	for _, b := range f.barbers {
		if b.ID == barberID && b.BusinessID == businessID {
			return b, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) ListActiveBarbers(ctx context.Context, businessID uuid.UUID) ([]models.Barber, error) {
	out := []models.Barber{}
	for _, b := range f.barbers {
		if b.BusinessID == businessID && b.IsActive {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeRepo) FirstActiveBarber(ctx context.Context, businessID uuid.UUID) (*models.Barber, error) {
	for _, b := range f.barbers {
		if b.BusinessID == businessID && b.IsActive {
			return b, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) GetBarberByUser(ctx context.Context, businessID, userID uuid.UUID) (*models.Barber, error) {
	for _, b := range f.barbers {
		if b.BusinessID == businessID && b.UserID != nil && *b.UserID == userID {
			return b, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) GetClient(ctx context.Context, businessID, clientID uuid.UUID) (*models.Client, error) {
	for _, c := range f.clients {
		if c.ID == clientID && c.BusinessID == businessID {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) GetOrCreateClient(ctx context.Context, businessID uuid.UUID, name, phone, email string) (*models.Client, error) {
	for _, c := range f.clients {
		if c.BusinessID == businessID && c.Phone == phone {
			return c, nil
		}
	}
	c := &models.Client{
		ID:         uuid.New(),
		BusinessID: businessID,
		Name:       name,
		Phone:      phone,
		Email:      email,
	}
	f.clients = append(f.clients, c)
	return c, nil
}

func (f *fakeRepo) CreateAppointment(ctx context.Context, ap *models.Appointment) error {
	biz, err := f.GetBusinessByID(ctx, ap.BusinessID)
	if err != nil {
		return err
	}

	// Misma re-validación que hace la implementación real al escribir:
	// horario de atención, bloqueos del barbero y solape con otras citas.
	local := ap.ScheduledAt.In(timezone.Location(biz.Timezone))
	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
	hours := biz.OperatingHours[models.WeekdayKey(local.Weekday())]
	if !domain.WithinHours(local, ap.DurationMinutes, hours) {
		return httperr.ErrBusiness("time_conflict")
	}

	blockers := []domain.Blocker{}
	for _, b := range f.blocks {
		if b.BusinessID == ap.BusinessID && b.BarberID == ap.BarberID {
			blockers = append(blockers, domain.BlockerFromBlock(b, dayStart))
		}
	}
	if domain.Overlaps(ap.ScheduledAt, ap.DurationMinutes, blockers) {
		return httperr.ErrBusiness("time_conflict")
	}

	end := ap.ScheduledAt.Add(time.Duration(ap.DurationMinutes) * time.Minute)
	for _, other := range f.appointments {
		if other.BarberID != ap.BarberID || other.BusinessID != ap.BusinessID {
			continue
		}
		if other.Status != "pending" && other.Status != "confirmed" {
			continue
		}
		otherEnd := other.ScheduledAt.Add(time.Duration(other.DurationMinutes) * time.Minute)
		if ap.ScheduledAt.Before(otherEnd) && end.After(other.ScheduledAt) {
			return httperr.ErrBusiness("time_conflict")
		}
	}
	if ap.ID == uuid.Nil {
		ap.ID = uuid.New()
	}
	f.appointments = append(f.appointments, ap)
	return nil
}

func (f *fakeRepo) GetAppointment(ctx context.Context, businessID, appointmentID uuid.UUID) (*models.Appointment, error) {
	for _, ap := range f.appointments {
		if ap.ID == appointmentID && ap.BusinessID == businessID {
			return ap, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) UpdateAppointment(ctx context.Context, ap *models.Appointment) error {
	for i, existing := range f.appointments {
		if existing.ID == ap.ID {
			f.appointments[i] = ap
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeRepo) ListBlockingAppointments(ctx context.Context, businessID uuid.UUID, barberID *uuid.UUID, start, end time.Time) ([]models.Appointment, error) {
	out := []models.Appointment{}
	for _, ap := range f.appointments {
		if ap.BusinessID != businessID {
			continue
		}
		if barberID != nil && ap.BarberID != *barberID {
			continue
		}
		switch ap.Status {
		case "pending", "confirmed", "completed":
		default:
			continue
		}
		if ap.ScheduledAt.Before(end) && ap.EndTime().After(start) {
			out = append(out, *ap)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListBlocksForWindow(ctx context.Context, businessID uuid.UUID, barberID *uuid.UUID, start, end time.Time) ([]models.BarberBlock, error) {
	out := []models.BarberBlock{}
	for _, b := range f.blocks {
		if b.BusinessID != businessID {
			continue
		}
		if barberID != nil && b.BarberID != *barberID {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeRepo) ListBarberAppointmentsForDay(ctx context.Context, businessID, barberID uuid.UUID, start, end time.Time) ([]models.Appointment, error) {
	out := []models.Appointment{}
	for _, ap := range f.appointments {
		if ap.BusinessID != businessID || ap.BarberID != barberID {
			continue
		}
		if ap.ScheduledAt.Before(start) || !ap.ScheduledAt.Before(end) {
			continue
		}
		out = append(out, *ap)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ScheduledAt.Before(out[j].ScheduledAt)
	})
	return out, nil
}

func (f *fakeRepo) ListAppointments(ctx context.Context, filter domain.ListFilter) ([]models.Appointment, int64, error) {
	matched := []models.Appointment{}
	for _, ap := range f.appointments {
		if ap.BusinessID != filter.BusinessID {
			continue
		}
		if filter.Start != nil && ap.ScheduledAt.Before(*filter.Start) {
			continue
		}
		if filter.End != nil && !ap.ScheduledAt.Before(*filter.End) {
			continue
		}
		if filter.Status != "" && filter.Status != "all" && ap.Status != filter.Status {
			continue
		}
		if filter.ClientID != nil && ap.ClientID != *filter.ClientID {
			continue
		}
		matched = append(matched, *ap)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].ScheduledAt.Before(matched[j].ScheduledAt)
	})

	total := int64(len(matched))
	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			matched = []models.Appointment{}
		} else {
			matched = matched[filter.Offset:]
		}
	}
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

// recordingSink captura eventos de auditoría de forma síncrona.
type recordingSink struct {
	events []audit.Event
}

func (s *recordingSink) Dispatch(ev audit.Event) {
	s.events = append(s.events, ev)
}

func (s *recordingSink) security() []audit.Event {
	out := []audit.Event{}
	for _, ev := range s.events {
		if ev.Severity == audit.SeveritySecurity {
			out = append(out, ev)
		}
	}
	return out
}

// ----- fixtures -----

func newBusiness() *models.Business {
	return &models.Business{
		ID:       uuid.New(),
		Name:     "Barbería El Clásico",
		Slug:     "el-clasico",
		Timezone: "America/Costa_Rica",
		OperatingHours: models.OperatingHours{
			"mon": {Open: "09:00", Close: "18:00"},
			"tue": {Open: "09:00", Close: "18:00"},
			"wed": {Open: "09:00", Close: "18:00"},
			"thu": {Open: "09:00", Close: "18:00"},
			"fri": {Open: "09:00", Close: "18:00"},
			"sat": {Open: "09:00", Close: "14:00"},
			"sun": {},
		},
		SlotIntervalMinutes: 30,
		IsActive:            true,
	}
}

func newService(biz *models.Business) *models.Service {
	return &models.Service{
		ID:              uuid.New(),
		BusinessID:      biz.ID,
		Name:            "Corte Clásico",
		DurationMinutes: 30,
		Price:           5000,
		IsActive:        true,
	}
}

func newBarber(biz *models.Business, name string) *models.Barber {
	return &models.Barber{
		ID:         uuid.New(),
		BusinessID: biz.ID,
		Name:       name,
		IsActive:   true,
	}
}

func ownerActor() rbac.Actor {
	return rbac.Actor{UserID: uuid.New(), Role: rbac.RoleOwner}
}

func barberActor(barberID uuid.UUID) rbac.Actor {
	return rbac.Actor{UserID: uuid.New(), Role: rbac.RoleBarber, BarberID: &barberID}
}
