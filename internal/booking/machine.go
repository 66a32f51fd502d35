package booking

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/reservaya/booking-api/internal/httperr"
	"github.com/reservaya/booking-api/internal/validators"
)

// Step es el paso actual del asistente de reserva. El flujo es
// service → barber → datetime → info → confirm; el paso barber se omite
// cuando el negocio tiene cero o un barbero.
type Step string

const (
	StepService  Step = "service"
	StepBarber   Step = "barber"
	StepDatetime Step = "datetime"
	StepInfo     Step = "info"
	StepConfirm  Step = "confirm"
)

// Draft acumula las elecciones del cliente. Vive solo en memoria del
// asistente: se descarta al confirmar o al abandonar el flujo.
type Draft struct {
	Service *ServiceOption
	Barber  *BarberOption
	Date    *time.Time
	Slot    *Slot

	Name  string
	Phone string
	Email string
	Notes string
}

// Machine es la máquina de estados del asistente, sin transporte ni UI.
// Las transiciones son solo hacia adelante por acción explícita; un cambio
// río arriba (servicio, barbero, fecha) resetea todo lo que depende de él.
type Machine struct {
	step Step

	business *BusinessProfile
	services []ServiceOption
	barbers  []BarberOption

	draft Draft
	slots []Slot

	// Generación de disponibilidad: cualquier cambio río arriba (servicio,
	// barbero o fecha) la incrementa y los resultados de fetches viejos se
	// descartan.
	slotGen int
}

func NewMachine() *Machine {
	return &Machine{step: StepService}
}

func (m *Machine) SetReferenceData(
	business *BusinessProfile,
	services []ServiceOption,
	barbers []BarberOption,
) {
	m.business = business
	m.services = services
	m.barbers = barbers
}

func (m *Machine) Step() Step                 { return m.step }
func (m *Machine) Draft() Draft               { return m.draft }
func (m *Machine) Business() *BusinessProfile { return m.business }
func (m *Machine) Services() []ServiceOption  { return m.services }
func (m *Machine) Barbers() []BarberOption    { return m.barbers }
func (m *Machine) Slots() []Slot              { return m.slots }

// SelectService fija el servicio y resetea barbero, fecha y hora. Según la
// cantidad de barberos salta directo a datetime (0 o 1, auto-asignando el
// único) o pasa por la selección de barbero (2+).
func (m *Machine) SelectService(serviceID uuid.UUID) error {
	svc := m.findService(serviceID)
	if svc == nil {
		return httperr.ErrBusiness("service_not_found")
	}

	m.draft.Service = svc
	m.draft.Barber = nil
	m.draft.Date = nil
	m.draft.Slot = nil
	m.invalidateSlots()

	switch len(m.barbers) {
	case 0:
		// Sin barberos: el servidor asigna al reservar.
		m.step = StepDatetime
	case 1:
		b := m.barbers[0]
		m.draft.Barber = &b
		m.step = StepDatetime
	default:
		m.step = StepBarber
	}
	return nil
}

// SelectBarber resetea fecha y hora pero conserva el servicio.
func (m *Machine) SelectBarber(barberID uuid.UUID) error {
	b := m.findBarber(barberID)
	if b == nil {
		return httperr.ErrBusiness("barber_not_found")
	}

	m.draft.Barber = b
	m.draft.Date = nil
	m.draft.Slot = nil
	m.invalidateSlots()
	m.step = StepDatetime
	return nil
}

// SelectDate resetea solo la hora y devuelve la generación con la que debe
// etiquetarse el fetch de disponibilidad correspondiente.
func (m *Machine) SelectDate(date time.Time) int {
	m.draft.Date = &date
	m.draft.Slot = nil
	m.invalidateSlots()
	return m.slotGen
}

// invalidateSlots descarta la disponibilidad vigente y avanza la generación
// para que cualquier fetch etiquetado con una combinación superada de
// servicio, barbero y fecha no pueda instalarse después.
func (m *Machine) invalidateSlots() {
	m.slots = nil
	m.slotGen++
}

// ApplySlots instala los slots de un fetch si su generación sigue vigente.
// Un resultado de una selección ya superada se descarta sin tocar el estado.
func (m *Machine) ApplySlots(gen int, slots []Slot) bool {
	if gen != m.slotGen {
		return false
	}
	m.slots = slots
	return true
}

func (m *Machine) SelectSlot(slot Slot) error {
	if !slot.Available {
		return httperr.ErrBusiness("slot_unavailable")
	}
	if m.draft.Date == nil {
		return httperr.ErrBusiness("date_required")
	}

	s := slot
	m.draft.Slot = &s
	m.step = StepInfo
	return nil
}

func (m *Machine) SetContact(name, phone, email, notes string) {
	m.draft.Name = name
	m.draft.Phone = phone
	m.draft.Email = email
	m.draft.Notes = notes
}

// Validate revisa los datos de contacto antes de enviar.
func (m *Machine) Validate() error {
	if m.draft.Service == nil || m.draft.Slot == nil {
		return httperr.ErrBusiness("incomplete_draft")
	}
	if strings.TrimSpace(m.draft.Name) == "" {
		return httperr.ErrBusiness("client_name_required")
	}
	if !validators.IsPhoneValid(m.draft.Phone) {
		return httperr.ErrBusiness("invalid_phone")
	}
	return nil
}

// Confirm marca el flujo como terminado. Solo el envío exitoso llama aquí.
func (m *Machine) Confirm() {
	m.step = StepConfirm
}

// Back reingresa al paso anterior sin perder las elecciones ya hechas.
// Desde confirm no hay vuelta atrás.
func (m *Machine) Back() {
	switch m.step {
	case StepBarber:
		m.step = StepService
	case StepDatetime:
		if len(m.barbers) >= 2 {
			m.step = StepBarber
		} else {
			m.step = StepService
		}
	case StepInfo:
		m.step = StepDatetime
	}
}

func (m *Machine) findService(id uuid.UUID) *ServiceOption {
	for i := range m.services {
		if m.services[i].ID == id {
			return &m.services[i]
		}
	}
	return nil
}

func (m *Machine) findBarber(id uuid.UUID) *BarberOption {
	for i := range m.barbers {
		if m.barbers[i].ID == id {
			return &m.barbers[i]
		}
	}
	return nil
}
