package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domain "github.com/reservaya/booking-api/internal/domain/appointment"
	"github.com/reservaya/booking-api/internal/httperr"
	"github.com/reservaya/booking-api/internal/httpresp"
	"github.com/reservaya/booking-api/internal/timezone"
	usecase "github.com/reservaya/booking-api/internal/usecase/appointment"
)

// PublicHandler sirve el API de la página de reservas: sin autenticación,
// todo colgado del slug del negocio.
type PublicHandler struct {
	repo         domain.Repository
	availability *usecase.GetAvailability
	book         *usecase.CreatePublicAppointment
}

func NewPublicHandler(
	repo domain.Repository,
	availability *usecase.GetAvailability,
	book *usecase.CreatePublicAppointment,
) *PublicHandler {
	return &PublicHandler{
		repo:         repo,
		availability: availability,
		book:         book,
	}
}

// =====================================================
// GET /api/public/:slug
// =====================================================

type publicProfileResponse struct {
	ID                    uuid.UUID `json:"id"`
	Name                  string    `json:"name"`
	Slug                  string    `json:"slug"`
	Phone                 string    `json:"phone"`
	Whatsapp              string    `json:"whatsapp"`
	Address               string    `json:"address"`
	LogoURL               string    `json:"logo_url"`
	Timezone              string    `json:"timezone"`
	AdvancePaymentEnabled bool      `json:"advance_payment_enabled"`
}

func (h *PublicHandler) GetProfile(c *gin.Context) {
	biz, err := h.repo.GetBusinessBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil || !biz.IsActive {
		httperr.NotFound(c, "Negocio no encontrado")
		return
	}

	httpresp.OK(c, publicProfileResponse{
		ID:                    biz.ID,
		Name:                  biz.Name,
		Slug:                  biz.Slug,
		Phone:                 biz.Phone,
		Whatsapp:              biz.Whatsapp,
		Address:               biz.Address,
		LogoURL:               biz.LogoURL,
		Timezone:              biz.Timezone,
		AdvancePaymentEnabled: biz.AdvancePaymentEnabled,
	})
}

// =====================================================
// GET /api/public/:slug/services
// =====================================================

func (h *PublicHandler) ListServices(c *gin.Context) {
	biz, err := h.repo.GetBusinessBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil || !biz.IsActive {
		httperr.NotFound(c, "Negocio no encontrado")
		return
	}

	services, err := h.repo.ListActiveServices(c.Request.Context(), biz.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, services)
}

// =====================================================
// GET /api/public/:slug/barbers
// =====================================================

func (h *PublicHandler) ListBarbers(c *gin.Context) {
	biz, err := h.repo.GetBusinessBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil || !biz.IsActive {
		httperr.NotFound(c, "Negocio no encontrado")
		return
	}

	barbers, err := h.repo.ListActiveBarbers(c.Request.Context(), biz.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, barbers)
}

// =====================================================
// GET /api/public/:slug/availability?date&service_id[&barber_id]
// =====================================================

func (h *PublicHandler) GetAvailability(c *gin.Context) {
	biz, err := h.repo.GetBusinessBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil || !biz.IsActive {
		httperr.NotFound(c, "Negocio no encontrado")
		return
	}

	serviceID, err := uuid.Parse(c.Query("service_id"))
	if err != nil {
		httperr.BadRequest(c, "Servicio inválido")
		return
	}

	date, err := time.ParseInLocation("2006-01-02", c.Query("date"), timezone.Location(biz.Timezone))
	if err != nil {
		httperr.BadRequest(c, "Fecha inválida")
		return
	}

	var barberID *uuid.UUID
	if raw := c.Query("barber_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httperr.BadRequest(c, "Barbero inválido")
			return
		}
		barberID = &id
	}

	slots, err := h.availability.Execute(c.Request.Context(), domain.AvailabilityInput{
		BusinessID: biz.ID,
		ServiceID:  serviceID,
		BarberID:   barberID,
		Date:       date,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, slots)
}

// =====================================================
// POST /api/public/:slug/book
// =====================================================

type bookRequest struct {
	ServiceID   uuid.UUID  `json:"service_id" binding:"required"`
	BarberID    *uuid.UUID `json:"barber_id"`
	ScheduledAt time.Time  `json:"scheduled_at" binding:"required"`
	ClientName  string     `json:"client_name" binding:"required"`
	ClientPhone string     `json:"client_phone" binding:"required"`
	ClientEmail string     `json:"client_email"`
	Notes       string     `json:"notes"`
}

type bookResponse struct {
	Appointment bookedAppointment `json:"appointment"`
	PaymentLink string            `json:"payment_link,omitempty"`
}

type bookedAppointment struct {
	ID          uuid.UUID `json:"id"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Status      string    `json:"status"`
}

func (h *PublicHandler) Book(c *gin.Context) {
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Datos inválidos")
		return
	}

	res, err := h.book.Execute(c.Request.Context(), usecase.CreatePublicInput{
		Slug:        c.Param("slug"),
		ServiceID:   req.ServiceID,
		BarberID:    req.BarberID,
		ScheduledAt: req.ScheduledAt,
		ClientName:  req.ClientName,
		ClientPhone: req.ClientPhone,
		ClientEmail: req.ClientEmail,
		ClientNotes: req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, bookResponse{
		Appointment: bookedAppointment{
			ID:          res.Appointment.ID,
			ScheduledAt: res.Appointment.ScheduledAt,
			Status:      res.Appointment.Status,
		},
		PaymentLink: res.PaymentLink,
	})
}
