package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SourceOwnerCreated = "owner_created"
	SourceClientBooked = "client_booked"
)

type Appointment struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	BusinessID uuid.UUID `gorm:"type:uuid;index" json:"business_id"`

	BarberID uuid.UUID `gorm:"type:uuid;index" json:"barber_id"`
	Barber   Barber    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"barber"`

	ClientID uuid.UUID `gorm:"type:uuid;index" json:"client_id"`
	Client   Client    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"client"`

	ServiceID uuid.UUID `gorm:"type:uuid;index" json:"service_id"`
	Service   Service   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service"`

	ScheduledAt time.Time `gorm:"index" json:"scheduled_at"`

	// Copiados del servicio al crear la cita. Ediciones posteriores del
	// servicio no alteran citas existentes.
	DurationMinutes int     `json:"duration_minutes"`
	Price           float64 `json:"price"`

	Status string `gorm:"size:20;default:'pending'" json:"status"`
	Source string `gorm:"size:20;default:'owner_created'" json:"source"`

	ClientNotes   string `gorm:"size:500" json:"client_notes"`
	InternalNotes string `gorm:"size:500" json:"internal_notes"`

	StartedAt             *time.Time `json:"started_at"`
	ActualDurationMinutes *int       `json:"actual_duration_minutes"`
	CompletedAt           *time.Time `json:"completed_at"`
	CancelledAt           *time.Time `json:"cancelled_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// EndTime es el fin programado de la cita según la duración snapshot.
func (a *Appointment) EndTime() time.Time {
	return a.ScheduledAt.Add(time.Duration(a.DurationMinutes) * time.Minute)
}
