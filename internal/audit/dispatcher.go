package audit

import (
	"log"

	"github.com/google/uuid"
)

const SeveritySecurity = "security"

type Event struct {
	BusinessID uuid.UUID
	UserID     *uuid.UUID
	Action     string
	Severity   string
	Entity     string
	EntityID   *uuid.UUID
	Metadata   any
}

// Sink recibe eventos de auditoría. El Dispatcher es la implementación real.
type Sink interface {
	Dispatch(ev Event)
}

type Dispatcher struct {
	logger *Logger
	queue  chan Event
}

func NewDispatcher(logger *Logger) *Dispatcher {
	d := &Dispatcher{
		logger: logger,
		queue:  make(chan Event, 100),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for ev := range d.queue {
		if err := d.logger.Log(
			ev.BusinessID,
			ev.UserID,
			ev.Action,
			ev.Severity,
			ev.Entity,
			ev.EntityID,
			ev.Metadata,
		); err != nil {
			log.Println("audit error:", err)
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
	default:
		// Cola llena: se descarta el evento antes que frenar la API.
		log.Println("audit queue full, dropping event")
	}
}

// Security registra una violación de autorización con contexto completo del
// lado servidor. El cliente solo recibe el mensaje genérico.
func Security(
	sink Sink,
	businessID uuid.UUID,
	userID uuid.UUID,
	endpoint string,
	metadata map[string]any,
) {
	if metadata == nil {
		metadata = map[string]any{}
	}
	metadata["endpoint"] = endpoint
	metadata["user_id"] = userID.String()

	sink.Dispatch(Event{
		BusinessID: businessID,
		UserID:     &userID,
		Action:     "unauthorized_access",
		Severity:   SeveritySecurity,
		Entity:     "security",
		Metadata:   metadata,
	})
}
