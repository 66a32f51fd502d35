package handlers

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/reservaya/booking-api/internal/httperr"
)

// respondError traduce códigos de negocio a respuestas HTTP en español.
// Cualquier error no clasificado colapsa en un 500 genérico: los detalles
// de base de datos nunca llegan al cliente.
func respondError(c *gin.Context, err error) {
	var be httperr.BusinessError
	if !errors.As(err, &be) {
		log.Println("internal error:", err)
		httperr.Internal(c, "Error interno")
		return
	}

	switch be.Code {
	case "business_not_found":
		httperr.NotFound(c, "Negocio no encontrado")
	case "service_not_found":
		httperr.NotFound(c, "Servicio no encontrado")
	case "barber_not_found":
		httperr.NotFound(c, "Barbero no encontrado")
	case "client_not_found":
		httperr.NotFound(c, "Cliente no encontrado")
	case "appointment_not_found":
		httperr.NotFound(c, "Cita no encontrada")
	case "no_barbers_available":
		httperr.BadRequest(c, "No hay barberos disponibles")
	case "time_conflict":
		httperr.Conflict(c, "Horario no disponible")
	case "time_in_past":
		httperr.BadRequest(c, "La hora seleccionada ya pasó")
	case "invalid_phone":
		httperr.BadRequest(c, "Teléfono inválido")
	case "client_name_required":
		httperr.BadRequest(c, "El nombre es requerido")
	case "invalid_state":
		httperr.Conflict(c, "La cita no permite esta acción")
	case "invalid_status":
		httperr.BadRequest(c, "Estado inválido")
	case "unauthorized":
		httperr.Unauthorized(c, "No autorizado")
	default:
		log.Println("unmapped business error:", be.Code)
		httperr.Internal(c, "Error interno")
	}
}
