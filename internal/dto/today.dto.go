package dto

import (
	"time"

	"github.com/google/uuid"
)

// Proyecciones mínimas para la vista "Mi Día" del staff.

type TodayClientDTO struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Phone string    `json:"phone"`
	Email string    `json:"email"`
}

type TodayServiceDTO struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	DurationMinutes int       `json:"duration_minutes"`
	Price           float64   `json:"price"`
}

type TodayAppointmentDTO struct {
	ID                    uuid.UUID       `json:"id"`
	ScheduledAt           time.Time       `json:"scheduled_at"`
	DurationMinutes       int             `json:"duration_minutes"`
	Price                 float64         `json:"price"`
	Status                string          `json:"status"`
	ClientNotes           string          `json:"client_notes"`
	InternalNotes         string          `json:"internal_notes"`
	StartedAt             *time.Time      `json:"started_at"`
	ActualDurationMinutes *int            `json:"actual_duration_minutes"`
	Client                TodayClientDTO  `json:"client"`
	Service               TodayServiceDTO `json:"service"`
}

type DayStatsDTO struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Confirmed int `json:"confirmed"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
	NoShow    int `json:"no_show"`
}

type TodayBarberDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type TodayResponseDTO struct {
	Appointments []TodayAppointmentDTO `json:"appointments"`
	Barber       TodayBarberDTO        `json:"barber"`
	Date         string                `json:"date"`
	Stats        DayStatsDTO           `json:"stats"`
}
