package appointment

import (
	"context"

	"github.com/reservaya/booking-api/internal/domain/appointment"
	domain "github.com/reservaya/booking-api/internal/domain/appointment"
	"github.com/reservaya/booking-api/internal/httperr"
	"github.com/reservaya/booking-api/internal/models"
)

// ListAppointments lista las citas del negocio con filtros opcionales de
// rango, estado y cliente. Devuelve además el total sin paginar para el
// sobre de paginación.
type ListAppointments struct {
	repo domain.Repository
}

func NewListAppointments(repo domain.Repository) *ListAppointments {
	return &ListAppointments{repo: repo}
}

func (uc *ListAppointments) Execute(
	ctx context.Context,
	filter domain.ListFilter,
) ([]models.Appointment, int64, error) {

	if filter.Status != "" && filter.Status != "all" {
		if !appointment.ValidStatus(filter.Status) {
			return nil, 0, httperr.ErrBusiness("invalid_status")
		}
	}

	return uc.repo.ListAppointments(ctx, filter)
}
