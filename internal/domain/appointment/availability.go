package appointment

import (
	"time"

	"github.com/google/uuid"
)

type AvailabilityInput struct {
	BusinessID uuid.UUID
	ServiceID  uuid.UUID
	// Opcional: limita los bloqueos al barbero elegido. Nil considera todas
	// las citas del negocio.
	BarberID *uuid.UUID
	Date     time.Time
}

// TimeSlot es un candidato de inicio de cita. Efímero: se computa bajo demanda,
// nunca se persiste.
type TimeSlot struct {
	Time      string    `json:"time"`
	Datetime  time.Time `json:"datetime"`
	Available bool      `json:"available"`
}
