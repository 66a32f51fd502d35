package rbac

import "github.com/google/uuid"

type Role string

const (
	RoleOwner        Role = "owner"
	RoleAdmin        Role = "admin"
	RoleReceptionist Role = "receptionist"
	RoleBarber       Role = "barber"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleOwner, RoleAdmin, RoleReceptionist, RoleBarber:
		return Role(s), true
	}
	return "", false
}

type Capability string

const (
	ReadAllAppointments  Capability = "read_all_appointments"
	ReadOwnAppointments  Capability = "read_own_appointments"
	WriteAllAppointments Capability = "write_all_appointments"
	WriteOwnAppointments Capability = "write_own_appointments"
	ManageBarbers        Capability = "manage_barbers"
	ManageClients        Capability = "manage_clients"
	ManageServices       Capability = "manage_services"
	ManageBusiness       Capability = "manage_business"
)

var roleCapabilities = map[Role][]Capability{
	RoleOwner: {
		ReadAllAppointments, WriteAllAppointments,
		ManageBarbers, ManageClients, ManageServices, ManageBusiness,
	},
	RoleAdmin: {
		ReadAllAppointments, WriteAllAppointments,
		ManageBarbers, ManageClients, ManageServices,
	},
	RoleReceptionist: {
		ReadAllAppointments, WriteAllAppointments, ManageClients,
	},
	RoleBarber: {
		ReadOwnAppointments, WriteOwnAppointments,
	},
}

// Actor es la identidad resuelta una vez por request: rol más, para el rol
// barber, el barbero al que está vinculada la cuenta.
type Actor struct {
	UserID   uuid.UUID
	Role     Role
	BarberID *uuid.UUID
}

func (a Actor) Has(c Capability) bool {
	for _, rc := range roleCapabilities[a.Role] {
		if rc == c {
			return true
		}
	}
	return false
}

// CanAccessBarberAppointments es la única compuerta para datos de citas por
// barbero: owner/admin/receptionist acceden a cualquier barbero del negocio;
// el rol barber solo a sus propias citas.
func (a Actor) CanAccessBarberAppointments(targetBarberID uuid.UUID) bool {
	if a.Has(ReadAllAppointments) {
		return true
	}
	if a.Has(ReadOwnAppointments) && a.BarberID != nil {
		return *a.BarberID == targetBarberID
	}
	return false
}
