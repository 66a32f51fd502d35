package appointment

import (
	"time"

	"github.com/reservaya/booking-api/internal/models"
)

// Blocker es una ventana ocupada que impide citas: una cita existente o un
// bloqueo del barbero normalizado a intervalo.
type Blocker struct {
	Start time.Time
	End   time.Time
	// Las citas completadas ya terminaron: no reciben buffer.
	Completed bool
}

// BlockerFromAppointment calcula la ventana efectiva que ocupa una cita:
// usa started_at como inicio real si hubo check-in, y la duración real para
// citas completadas. Evita sobre-reservar por inicios tardíos y libera el
// tiempo muerto de finalizaciones tempranas.
func BlockerFromAppointment(ap models.Appointment) Blocker {
	start := ap.ScheduledAt
	if ap.StartedAt != nil {
		start = *ap.StartedAt
	}

	minutes := ap.DurationMinutes
	if Status(ap.Status) == StatusCompleted &&
		ap.ActualDurationMinutes != nil && *ap.ActualDurationMinutes > 0 {
		minutes = *ap.ActualDurationMinutes
	}

	return Blocker{
		Start:     start,
		End:       start.Add(time.Duration(minutes) * time.Minute),
		Completed: Status(ap.Status) == StatusCompleted,
	}
}

// BlockerFromBlock normaliza un bloqueo del barbero. Los bloqueos all_day
// cubren el día completo sin importar sus horas.
func BlockerFromBlock(b models.BarberBlock, dayStart time.Time) Blocker {
	if b.AllDay {
		return Blocker{Start: dayStart, End: dayStart.Add(24 * time.Hour)}
	}
	return Blocker{Start: b.StartTime, End: b.EndTime}
}

type SlotParams struct {
	// Día solicitado, anclado a medianoche en la zona del negocio.
	Date            time.Time
	Hours           models.DayHours
	Blockers        []Blocker
	ServiceDuration int
	BufferMinutes   int
	SlotInterval    int
	Now             time.Time
}

// ComputeSlots genera los candidatos de inicio del día a intervalos fijos y
// marca cada uno como disponible o no. Computación pura, sin efectos.
//
// Un slot está disponible solo si la duración completa del servicio cabe antes
// del cierre y no solapa ninguna ventana ocupada (con buffer para las no
// completadas). Los slots ya pasados no se devuelven.
func ComputeSlots(p SlotParams) []TimeSlot {
	if p.Hours.Open == "" || p.Hours.Close == "" {
		return []TimeSlot{}
	}

	interval := p.SlotInterval
	if interval <= 0 {
		interval = 30
	}

	loc := p.Date.Location()
	parseHM := func(hm string) (time.Time, bool) {
		t, err := time.Parse("15:04", hm)
		if err != nil {
			return time.Time{}, false
		}
		return time.Date(
			p.Date.Year(), p.Date.Month(), p.Date.Day(),
			t.Hour(), t.Minute(), 0, 0,
			loc,
		), true
	}

	openTime, okOpen := parseHM(p.Hours.Open)
	closeTime, okClose := parseHM(p.Hours.Close)
	if !okOpen || !okClose || !openTime.Before(closeTime) {
		return []TimeSlot{}
	}

	duration := time.Duration(p.ServiceDuration) * time.Minute
	step := time.Duration(interval) * time.Minute
	buffer := time.Duration(p.BufferMinutes) * time.Minute

	slots := []TimeSlot{}

	for cur := openTime; ; cur = cur.Add(step) {
		slotEnd := cur.Add(duration)
		if slotEnd.After(closeTime) {
			break
		}

		if cur.Before(p.Now) {
			continue
		}

		conflict := false
		for _, b := range p.Blockers {
			effectiveBuffer := buffer
			if b.Completed {
				effectiveBuffer = 0
			}
			if cur.Add(-effectiveBuffer).Before(b.End) && slotEnd.Add(effectiveBuffer).After(b.Start) {
				conflict = true
				break
			}
		}

		slots = append(slots, TimeSlot{
			Time:      cur.Format("15:04"),
			Datetime:  cur,
			Available: !conflict,
		})
	}

	return slots
}

// WithinHours informa si [start, start+duration) cae completo dentro del
// horario del día. start debe venir ya en la zona del negocio; un día
// cerrado no contiene ninguna cita.
func WithinHours(start time.Time, durationMinutes int, hours models.DayHours) bool {
	if hours.Open == "" || hours.Close == "" {
		return false
	}

	open, errOpen := time.Parse("15:04", hours.Open)
	closing, errClose := time.Parse("15:04", hours.Close)
	if errOpen != nil || errClose != nil {
		return false
	}

	loc := start.Location()
	openTime := time.Date(start.Year(), start.Month(), start.Day(), open.Hour(), open.Minute(), 0, 0, loc)
	closeTime := time.Date(start.Year(), start.Month(), start.Day(), closing.Hour(), closing.Minute(), 0, 0, loc)

	end := start.Add(time.Duration(durationMinutes) * time.Minute)
	return !start.Before(openTime) && !end.After(closeTime)
}

// Overlaps informa si [start, start+duration) choca con algún blocker,
// sin buffer. Es la misma regla de solape que usa la verificación de
// conflicto en escritura.
func Overlaps(start time.Time, durationMinutes int, blockers []Blocker) bool {
	end := start.Add(time.Duration(durationMinutes) * time.Minute)
	for _, b := range blockers {
		if start.Before(b.End) && end.After(b.Start) {
			return true
		}
	}
	return false
}
