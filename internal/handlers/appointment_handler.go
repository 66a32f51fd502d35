package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domain "github.com/reservaya/booking-api/internal/domain/appointment"
	"github.com/reservaya/booking-api/internal/httperr"
	"github.com/reservaya/booking-api/internal/httpresp"
	"github.com/reservaya/booking-api/internal/models"
	"github.com/reservaya/booking-api/internal/timezone"
	usecase "github.com/reservaya/booking-api/internal/usecase/appointment"
)

type AppointmentHandler struct {
	repo       domain.Repository
	list       *usecase.ListAppointments
	create     *usecase.CreatePrivateAppointment
	transition *usecase.StatusChange
}

func NewAppointmentHandler(
	repo domain.Repository,
	list *usecase.ListAppointments,
	create *usecase.CreatePrivateAppointment,
	transition *usecase.StatusChange,
) *AppointmentHandler {
	return &AppointmentHandler{
		repo:       repo,
		list:       list,
		create:     create,
		transition: transition,
	}
}

// =====================================================
// GET /api/appointments
// =====================================================

// List acepta date=YYYY-MM-DD o start_date+end_date, más status y client_id.
// Sin limit/offset responde el array pelado (compatibilidad con clientes
// viejos); con cualquiera de los dos, el sobre {data, pagination}.
func (h *AppointmentHandler) List(c *gin.Context) {
	businessID := currentBusinessID(c)

	filter := domain.ListFilter{BusinessID: businessID}

	biz, err := h.repo.GetBusinessByID(c.Request.Context(), businessID)
	if err != nil {
		respondError(c, err)
		return
	}
	loc := timezone.Location(biz.Timezone)

	if raw := c.Query("date"); raw != "" {
		day, err := time.ParseInLocation("2006-01-02", raw, loc)
		if err != nil {
			httperr.BadRequest(c, "Fecha inválida")
			return
		}
		start, end := timezone.DayWindow(day, biz.Timezone)
		filter.Start, filter.End = &start, &end
	} else if c.Query("start_date") != "" || c.Query("end_date") != "" {
		start, err1 := time.ParseInLocation("2006-01-02", c.Query("start_date"), loc)
		endDay, err2 := time.ParseInLocation("2006-01-02", c.Query("end_date"), loc)
		if err1 != nil || err2 != nil {
			httperr.BadRequest(c, "Rango de fechas inválido")
			return
		}
		end := endDay.Add(24 * time.Hour)
		filter.Start, filter.End = &start, &end
	}

	filter.Status = c.Query("status")

	if raw := c.Query("client_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httperr.BadRequest(c, "Cliente inválido")
			return
		}
		filter.ClientID = &id
	}

	_, hasLimit := c.GetQuery("limit")
	_, hasOffset := c.GetQuery("offset")
	paginated := hasLimit || hasOffset

	if paginated {
		limit, _ := strconv.Atoi(c.Query("limit"))
		offset, _ := strconv.Atoi(c.Query("offset"))
		filter.Limit = httpresp.ClampLimit(limit)
		filter.Offset = httpresp.ClampOffset(offset)
	}

	appointments, total, err := h.list.Execute(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	if !paginated {
		httpresp.OK(c, appointments)
		return
	}
	httpresp.Page(c, appointments, total, filter.Limit, filter.Offset)
}

// =====================================================
// POST /api/appointments
// =====================================================

type createAppointmentRequest struct {
	ClientID      uuid.UUID  `json:"client_id" binding:"required"`
	ServiceID     uuid.UUID  `json:"service_id" binding:"required"`
	BarberID      *uuid.UUID `json:"barber_id"`
	ScheduledAt   time.Time  `json:"scheduled_at" binding:"required"`
	InternalNotes string     `json:"internal_notes"`
}

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req createAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequestDetails(c, "Datos inválidos", err.Error())
		return
	}

	actor := currentActor(c, h.repo)
	ap, err := h.create.Execute(c.Request.Context(), actor, usecase.CreatePrivateInput{
		BusinessID:    currentBusinessID(c),
		ServiceID:     req.ServiceID,
		ClientID:      req.ClientID,
		BarberID:      req.BarberID,
		ScheduledAt:   req.ScheduledAt,
		InternalNotes: req.InternalNotes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ap)
}

// =====================================================
// PATCH /api/appointments/:id/{check-in,complete,no-show,cancel}
// =====================================================

type transitionFunc func(
	ctx *gin.Context,
	appointmentID uuid.UUID,
) (*models.Appointment, error)

func (h *AppointmentHandler) runTransition(c *gin.Context, fn transitionFunc) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		// Id malformado responde igual que una cita inexistente.
		httperr.NotFound(c, "Cita no encontrada")
		return
	}

	ap, err := fn(c, id)
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) CheckIn(c *gin.Context) {
	h.runTransition(c, func(c *gin.Context, id uuid.UUID) (*models.Appointment, error) {
		return h.transition.CheckIn(
			c.Request.Context(), currentActor(c, h.repo), currentBusinessID(c), id, c.FullPath(),
		)
	})
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	h.runTransition(c, func(c *gin.Context, id uuid.UUID) (*models.Appointment, error) {
		return h.transition.Complete(
			c.Request.Context(), currentActor(c, h.repo), currentBusinessID(c), id, c.FullPath(),
		)
	})
}

func (h *AppointmentHandler) NoShow(c *gin.Context) {
	h.runTransition(c, func(c *gin.Context, id uuid.UUID) (*models.Appointment, error) {
		return h.transition.NoShow(
			c.Request.Context(), currentActor(c, h.repo), currentBusinessID(c), id, c.FullPath(),
		)
	})
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	h.runTransition(c, func(c *gin.Context, id uuid.UUID) (*models.Appointment, error) {
		return h.transition.Cancel(
			c.Request.Context(), currentActor(c, h.repo), currentBusinessID(c), id, c.FullPath(),
		)
	})
}
