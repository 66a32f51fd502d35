package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reservaya/booking-api/internal/httperr"
	"github.com/reservaya/booking-api/internal/infra/payments"
	"github.com/reservaya/booking-api/internal/models"
	"github.com/reservaya/booking-api/internal/timezone"
)

type fakeLinkProvider struct {
	link string
	last payments.LinkRequest
}

func (f *fakeLinkProvider) PaymentLink(ctx context.Context, req payments.LinkRequest) (string, error) {
	f.last = req
	return f.link, nil
}

// tomorrowAt ancla la hora pedida en el siguiente día futuro con horario de
// atención, para que las reservas de prueba no caigan en domingo cerrado.
func tomorrowAt(biz *models.Business, hour int) time.Time {
	return nextOpenDay(biz).Add(time.Duration(hour) * time.Hour)
}

func TestCreatePublicSnapshotsServicePricing(t *testing.T) {
	biz := newBusiness()
	svc := newService(biz)
	barber := newBarber(biz, "Luis")
	repo := &fakeRepo{
		businesses: []*models.Business{biz},
		services:   []*models.Service{svc},
		barbers:    []*models.Barber{barber},
	}
	sink := &recordingSink{}

	uc := NewCreatePublicAppointment(repo, sink, nil)
	res, err := uc.Execute(context.Background(), CreatePublicInput{
		Slug:        biz.Slug,
		ServiceID:   svc.ID,
		BarberID:    &barber.ID,
		ScheduledAt: tomorrowAt(biz, 10),
		ClientName:  "Carlos Mora",
		ClientPhone: "8888-1234",
	})
	require.NoError(t, err)

	ap := res.Appointment
	assert.Equal(t, "pending", ap.Status)
	assert.Equal(t, models.SourceClientBooked, ap.Source)
	assert.Equal(t, 30, ap.DurationMinutes)
	assert.Equal(t, 5000.0, ap.Price)

	// Editar el servicio después no toca la cita existente.
	svc.Price = 9000
	svc.DurationMinutes = 60
	assert.Equal(t, 30, ap.DurationMinutes)
	assert.Equal(t, 5000.0, ap.Price)

	// El cliente quedó registrado en la cartera del negocio.
	require.Len(t, repo.clients, 1)
	assert.Equal(t, "Carlos Mora", repo.clients[0].Name)
}

func TestCreatePublicReusesExistingClientByPhone(t *testing.T) {
	biz := newBusiness()
	svc := newService(biz)
	barber := newBarber(biz, "Luis")
	existing := &models.Client{
		ID:         uuid.New(),
		BusinessID: biz.ID,
		Name:       "Carlos",
		Phone:      "88881234",
	}
	repo := &fakeRepo{
		businesses: []*models.Business{biz},
		services:   []*models.Service{svc},
		barbers:    []*models.Barber{barber},
		clients:    []*models.Client{existing},
	}

	uc := NewCreatePublicAppointment(repo, &recordingSink{}, nil)
	res, err := uc.Execute(context.Background(), CreatePublicInput{
		Slug:        biz.Slug,
		ServiceID:   svc.ID,
		ScheduledAt: tomorrowAt(biz, 11),
		ClientName:  "Carlos Mora",
		ClientPhone: "88881234",
	})
	require.NoError(t, err)

	assert.Equal(t, existing.ID, res.Appointment.ClientID)
	assert.Len(t, repo.clients, 1)
}

func TestCreatePublicTimeConflict(t *testing.T) {
	biz := newBusiness()
	svc := newService(biz)
	barber := newBarber(biz, "Luis")
	when := tomorrowAt(biz, 10)
	repo := &fakeRepo{
		businesses: []*models.Business{biz},
		services:   []*models.Service{svc},
		barbers:    []*models.Barber{barber},
		appointments: []*models.Appointment{{
			BusinessID:      biz.ID,
			BarberID:        barber.ID,
			ScheduledAt:     when,
			DurationMinutes: 30,
			Status:          "pending",
		}},
	}

	uc := NewCreatePublicAppointment(repo, &recordingSink{}, nil)
	_, err := uc.Execute(context.Background(), CreatePublicInput{
		Slug:        biz.Slug,
		ServiceID:   svc.ID,
		BarberID:    &barber.ID,
		ScheduledAt: when.Add(15 * time.Minute),
		ClientName:  "Carlos",
		ClientPhone: "88881234",
	})

	assert.True(t, httperr.IsBusiness(err, "time_conflict"))
	assert.Len(t, repo.appointments, 1)
}

func TestCreatePublicRejectsOutsideOperatingHours(t *testing.T) {
	biz := newBusiness()
	svc := newService(biz)
	barber := newBarber(biz, "Luis")
	repo := &fakeRepo{
		businesses: []*models.Business{biz},
		services:   []*models.Service{svc},
		barbers:    []*models.Barber{barber},
	}

	// Madrugada de un día abierto: la disponibilidad nunca ofrece ese
	// horario, pero un POST armado a mano tampoco debe poder reservarlo.
	uc := NewCreatePublicAppointment(repo, &recordingSink{}, nil)
	_, err := uc.Execute(context.Background(), CreatePublicInput{
		Slug:        biz.Slug,
		ServiceID:   svc.ID,
		BarberID:    &barber.ID,
		ScheduledAt: tomorrowAt(biz, 3),
		ClientName:  "Carlos",
		ClientPhone: "88881234",
	})

	assert.True(t, httperr.IsBusiness(err, "time_conflict"))
	assert.Empty(t, repo.appointments)
}

func TestCreatePublicRejectsBlockedWindow(t *testing.T) {
	biz := newBusiness()
	svc := newService(biz)
	barber := newBarber(biz, "Luis")
	when := tomorrowAt(biz, 10)
	repo := &fakeRepo{
		businesses: []*models.Business{biz},
		services:   []*models.Service{svc},
		barbers:    []*models.Barber{barber},
		blocks: []models.BarberBlock{{
			BusinessID: biz.ID,
			BarberID:   barber.ID,
			BlockType:  models.BlockTypeVacation,
			StartTime:  when.Add(-10 * time.Hour),
			EndTime:    when.Add(14 * time.Hour),
			AllDay:     true,
		}},
	}

	uc := NewCreatePublicAppointment(repo, &recordingSink{}, nil)
	_, err := uc.Execute(context.Background(), CreatePublicInput{
		Slug:        biz.Slug,
		ServiceID:   svc.ID,
		BarberID:    &barber.ID,
		ScheduledAt: when,
		ClientName:  "Carlos",
		ClientPhone: "88881234",
	})

	assert.True(t, httperr.IsBusiness(err, "time_conflict"))
	assert.Empty(t, repo.appointments)
}

func TestCreatePublicUnknownSlug(t *testing.T) {
	repo := &fakeRepo{}
	uc := NewCreatePublicAppointment(repo, &recordingSink{}, nil)

	_, err := uc.Execute(context.Background(), CreatePublicInput{Slug: "no-existe"})
	assert.True(t, httperr.IsBusiness(err, "business_not_found"))
}

func TestCreatePublicRejectsInvalidPhone(t *testing.T) {
	biz := newBusiness()
	svc := newService(biz)
	barber := newBarber(biz, "Luis")
	repo := &fakeRepo{
		businesses: []*models.Business{biz},
		services:   []*models.Service{svc},
		barbers:    []*models.Barber{barber},
	}

	uc := NewCreatePublicAppointment(repo, &recordingSink{}, nil)
	_, err := uc.Execute(context.Background(), CreatePublicInput{
		Slug:        biz.Slug,
		ServiceID:   svc.ID,
		ScheduledAt: tomorrowAt(biz, 10),
		ClientName:  "Carlos",
		ClientPhone: "123",
	})
	assert.True(t, httperr.IsBusiness(err, "invalid_phone"))
}

func TestCreatePublicRejectsPastTime(t *testing.T) {
	biz := newBusiness()
	svc := newService(biz)
	barber := newBarber(biz, "Luis")
	repo := &fakeRepo{
		businesses: []*models.Business{biz},
		services:   []*models.Service{svc},
		barbers:    []*models.Barber{barber},
	}

	uc := NewCreatePublicAppointment(repo, &recordingSink{}, nil)
	_, err := uc.Execute(context.Background(), CreatePublicInput{
		Slug:        biz.Slug,
		ServiceID:   svc.ID,
		ScheduledAt: timezone.NowIn(biz.Timezone).Add(-time.Hour),
		ClientName:  "Carlos",
		ClientPhone: "88881234",
	})
	assert.True(t, httperr.IsBusiness(err, "time_in_past"))
}

func TestCreatePublicAssignsFirstActiveBarber(t *testing.T) {
	biz := newBusiness()
	svc := newService(biz)
	inactive := newBarber(biz, "Inactivo")
	inactive.IsActive = false
	active := newBarber(biz, "Luis")
	repo := &fakeRepo{
		businesses: []*models.Business{biz},
		services:   []*models.Service{svc},
		barbers:    []*models.Barber{inactive, active},
	}

	uc := NewCreatePublicAppointment(repo, &recordingSink{}, nil)
	res, err := uc.Execute(context.Background(), CreatePublicInput{
		Slug:        biz.Slug,
		ServiceID:   svc.ID,
		ScheduledAt: tomorrowAt(biz, 10),
		ClientName:  "Carlos",
		ClientPhone: "88881234",
	})
	require.NoError(t, err)
	assert.Equal(t, active.ID, res.Appointment.BarberID)
}

func TestCreatePublicAdvancePaymentLink(t *testing.T) {
	biz := newBusiness()
	biz.AdvancePaymentEnabled = true
	biz.AdvancePaymentAmount = 2000
	svc := newService(biz)
	barber := newBarber(biz, "Luis")
	repo := &fakeRepo{
		businesses: []*models.Business{biz},
		services:   []*models.Service{svc},
		barbers:    []*models.Barber{barber},
	}
	provider := &fakeLinkProvider{link: "https://mpago.la/abc123"}

	uc := NewCreatePublicAppointment(repo, &recordingSink{}, provider)
	res, err := uc.Execute(context.Background(), CreatePublicInput{
		Slug:        biz.Slug,
		ServiceID:   svc.ID,
		ScheduledAt: tomorrowAt(biz, 10),
		ClientName:  "Carlos",
		ClientPhone: "88881234",
	})
	require.NoError(t, err)

	assert.Equal(t, "https://mpago.la/abc123", res.PaymentLink)
	assert.Equal(t, 2000.0, provider.last.Amount)
	assert.Equal(t, res.Appointment.ID.String(), provider.last.Reference)
}
