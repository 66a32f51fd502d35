package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reservaya/booking-api/internal/httperr"
	"github.com/reservaya/booking-api/internal/models"
)

func seedTransitionRepo(status string) (*fakeRepo, *models.Business, *models.Appointment) {
	biz := newBusiness()
	barber := newBarber(biz, "Luis")
	ap := &models.Appointment{
		ID:              uuid.New(),
		BusinessID:      biz.ID,
		BarberID:        barber.ID,
		ScheduledAt:     time.Now().Add(time.Hour),
		DurationMinutes: 30,
		Status:          status,
	}
	repo := &fakeRepo{
		businesses:   []*models.Business{biz},
		barbers:      []*models.Barber{barber},
		appointments: []*models.Appointment{ap},
	}
	return repo, biz, ap
}

func TestCheckInThenComplete(t *testing.T) {
	repo, biz, ap := seedTransitionRepo("pending")
	sink := &recordingSink{}
	uc := NewStatusChange(repo, sink)
	actor := ownerActor()

	checked, err := uc.CheckIn(
		context.Background(), actor, biz.ID, ap.ID, "/api/appointments/check-in",
	)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", checked.Status)
	require.NotNil(t, checked.StartedAt)

	done, err := uc.Complete(
		context.Background(), actor, biz.ID, ap.ID, "/api/appointments/complete",
	)
	require.NoError(t, err)
	assert.Equal(t, "completed", done.Status)
	require.NotNil(t, done.CompletedAt)

	assert.Len(t, sink.events, 2)
	assert.Equal(t, "appointment_checked_in", sink.events[0].Action)
	assert.Equal(t, "appointment_completed", sink.events[1].Action)
}

func TestTransitionTerminalStateRejected(t *testing.T) {
	for _, status := range []string{"completed", "cancelled", "no_show"} {
		t.Run(status, func(t *testing.T) {
			repo, biz, ap := seedTransitionRepo(status)
			uc := NewStatusChange(repo, &recordingSink{})

			_, err := uc.Cancel(
				context.Background(), ownerActor(), biz.ID, ap.ID, "/api/appointments/cancel",
			)
			assert.True(t, httperr.IsBusiness(err, "invalid_state"))
			assert.Equal(t, status, repo.appointments[0].Status)
		})
	}
}

func TestTransitionCompleteWithoutCheckIn(t *testing.T) {
	repo, biz, ap := seedTransitionRepo("confirmed")
	uc := NewStatusChange(repo, &recordingSink{})

	done, err := uc.Complete(
		context.Background(), ownerActor(), biz.ID, ap.ID, "/api/appointments/complete",
	)
	require.NoError(t, err)
	assert.Equal(t, "completed", done.Status)
	// Sin check-in no hay duración real que registrar.
	assert.Nil(t, done.ActualDurationMinutes)
}

func TestTransitionCrossTenantIsNotFound(t *testing.T) {
	repo, _, ap := seedTransitionRepo("pending")
	sink := &recordingSink{}
	uc := NewStatusChange(repo, sink)

	otherBusiness := uuid.New()
	_, err := uc.Cancel(
		context.Background(), ownerActor(), otherBusiness, ap.ID, "/api/appointments/cancel",
	)

	assert.True(t, httperr.IsBusiness(err, "appointment_not_found"))
	assert.Empty(t, sink.events)
}

func TestTransitionBarberCannotTouchOthers(t *testing.T) {
	repo, biz, ap := seedTransitionRepo("pending")
	other := newBarber(biz, "Otro")
	repo.barbers = append(repo.barbers, other)
	sink := &recordingSink{}
	uc := NewStatusChange(repo, sink)

	actor := barberActor(other.ID)
	_, err := uc.CheckIn(
		context.Background(), actor, biz.ID, ap.ID, "/api/appointments/check-in",
	)

	assert.True(t, httperr.IsBusiness(err, "unauthorized"))
	assert.Equal(t, "pending", repo.appointments[0].Status)

	sec := sink.security()
	require.Len(t, sec, 1)
	meta := sec[0].Metadata.(map[string]any)
	assert.Equal(t, actor.UserID.String(), meta["user_id"])
	assert.Equal(t, ap.BarberID.String(), meta["barber_id"])
	assert.Equal(t, "/api/appointments/check-in", meta["endpoint"])
}

func TestTransitionBarberOnOwnAppointment(t *testing.T) {
	repo, biz, ap := seedTransitionRepo("pending")
	uc := NewStatusChange(repo, &recordingSink{})

	checked, err := uc.CheckIn(
		context.Background(), barberActor(ap.BarberID), biz.ID, ap.ID, "/api/appointments/check-in",
	)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", checked.Status)
}
