package appointment

import (
	"time"

	"github.com/reservaya/booking-api/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func CheckIn(ap *models.Appointment, now time.Time) error {
	if err := CanCheckIn(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusConfirmed)
	ap.StartedAt = &now
	return nil
}

func Complete(ap *models.Appointment, now time.Time) error {
	if err := CanComplete(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCompleted)
	ap.CompletedAt = &now

	// Duración real desde el check-in, si lo hubo.
	if ap.StartedAt != nil {
		minutes := int(now.Sub(*ap.StartedAt).Round(time.Minute) / time.Minute)
		if minutes > 0 {
			ap.ActualDurationMinutes = &minutes
		}
	}
	return nil
}

func MarkNoShow(ap *models.Appointment, now time.Time) error {
	if err := CanMarkNoShow(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusNoShow)
	return nil
}

func Cancel(ap *models.Appointment, now time.Time) error {
	if err := CanCancel(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCancelled)
	ap.CancelledAt = &now
	return nil
}
