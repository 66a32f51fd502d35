package booking

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/reservaya/booking-api/internal/httperr"
)

// Confirmation es la vista terminal del asistente tras reservar con éxito.
type Confirmation struct {
	ServiceName  string
	BarberName   string
	Date         string
	Time         string
	WhatsAppLink string
	PaymentLink  string
}

// Wizard ata la máquina de estados al API público. Mantiene un único draft;
// no hay persistencia: recargar la página pierde el progreso.
type Wizard struct {
	machine *Machine
	api     *Client
	slug    string

	mu           sync.Mutex
	inFlight     bool
	confirmation *Confirmation
}

func NewWizard(api *Client, slug string) *Wizard {
	return &Wizard{
		machine: NewMachine(),
		api:     api,
		slug:    slug,
	}
}

func (w *Wizard) Machine() *Machine           { return w.machine }
func (w *Wizard) Confirmation() *Confirmation { return w.confirmation }

// Start carga los datos de referencia del negocio. Un negocio inexistente es
// un error terminal sin reintento; listas vacías de servicios o barberos son
// estados válidos que la UI maneja.
func (w *Wizard) Start(ctx context.Context) error {
	biz, err := w.api.Business(ctx, w.slug)
	if err != nil {
		return err
	}

	services, err := w.api.Services(ctx, w.slug)
	if err != nil {
		return err
	}

	barbers, err := w.api.Barbers(ctx, w.slug)
	if err != nil {
		return err
	}

	w.machine.SetReferenceData(biz, services, barbers)
	return nil
}

// SelectDate fija la fecha y dispara el fetch de disponibilidad para el par
// (servicio, fecha) vigente. Si el usuario cambia la fecha mientras el fetch
// vuela, el resultado viejo se descarta por generación.
func (w *Wizard) SelectDate(ctx context.Context, date time.Time) error {
	gen := w.machine.SelectDate(date)
	return w.loadAvailability(ctx, gen, date)
}

func (w *Wizard) loadAvailability(ctx context.Context, gen int, date time.Time) error {
	draft := w.machine.Draft()
	if draft.Service == nil {
		return httperr.ErrBusiness("service_required")
	}

	var barberID *uuid.UUID
	if draft.Barber != nil {
		barberID = &draft.Barber.ID
	}

	slots, err := w.api.Availability(ctx, w.slug, draft.Service.ID, date, barberID)
	if err != nil {
		return err
	}

	w.machine.ApplySlots(gen, slots)
	return nil
}

// Submit envía la reserva. Un envío en curso bloquea reintentos hasta que
// termine; un fallo deja el asistente en el paso info para corregir y
// reintentar.
func (w *Wizard) Submit(ctx context.Context) error {
	w.mu.Lock()
	if w.inFlight {
		w.mu.Unlock()
		return httperr.ErrBusiness("submit_in_flight")
	}
	w.inFlight = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.inFlight = false
		w.mu.Unlock()
	}()

	if err := w.machine.Validate(); err != nil {
		return err
	}

	draft := w.machine.Draft()
	req := BookRequest{
		ServiceID:   draft.Service.ID,
		ScheduledAt: draft.Slot.Datetime,
		ClientName:  draft.Name,
		ClientPhone: draft.Phone,
		ClientEmail: draft.Email,
		ClientNotes: draft.Notes,
	}
	if draft.Barber != nil {
		req.BarberID = &draft.Barber.ID
	}

	resp, err := w.api.Book(ctx, w.slug, req)
	if err != nil {
		return err
	}

	w.confirmation = w.buildConfirmation(draft, resp)
	w.machine.Confirm()
	return nil
}

func (w *Wizard) buildConfirmation(draft Draft, resp *BookResponse) *Confirmation {
	c := &Confirmation{
		ServiceName: draft.Service.Name,
		Date:        draft.Slot.Datetime.Format("2006-01-02"),
		Time:        draft.Slot.Time,
		PaymentLink: resp.PaymentLink,
	}
	if draft.Barber != nil {
		c.BarberName = draft.Barber.Name
	}
	if biz := w.machine.Business(); biz != nil && biz.Whatsapp != "" {
		c.WhatsAppLink = whatsappLink(biz.Whatsapp)
	}
	return c
}

// whatsappLink arma el deep link wa.me con solo los dígitos del número.
func whatsappLink(number string) string {
	var b strings.Builder
	for _, r := range number {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return ""
	}
	return "https://wa.me/" + b.String()
}
