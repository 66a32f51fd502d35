package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/reservaya/booking-api/internal/domain/appointment"
	"github.com/reservaya/booking-api/internal/httperr"
	"github.com/reservaya/booking-api/internal/httpresp"
	"github.com/reservaya/booking-api/internal/models"
	"github.com/reservaya/booking-api/internal/rbac"
	usecase "github.com/reservaya/booking-api/internal/usecase/appointment"
)

type BarberHandler struct {
	db    *gorm.DB
	repo  domain.Repository
	today *usecase.GetBarberToday
}

func NewBarberHandler(
	db *gorm.DB,
	repo domain.Repository,
	today *usecase.GetBarberToday,
) *BarberHandler {
	return &BarberHandler{
		db:    db,
		repo:  repo,
		today: today,
	}
}

// =====================================================
// GET /api/barbers/:id/appointments/today
// =====================================================

// Today es la vista "Mi Día": las citas de hoy del barbero con su resumen.
func (h *BarberHandler) Today(c *gin.Context) {
	barberID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.NotFound(c, "Barbero no encontrado")
		return
	}

	resp, err := h.today.Execute(
		c.Request.Context(),
		currentActor(c, h.repo),
		currentBusinessID(c),
		barberID,
		c.FullPath(),
	)
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, resp)
}

// =====================================================
// GET /api/barbers
// =====================================================

func (h *BarberHandler) List(c *gin.Context) {
	var barbers []models.Barber
	err := h.db.WithContext(c.Request.Context()).
		Where("business_id = ?", currentBusinessID(c)).
		Order("name ASC").
		Find(&barbers).Error
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, barbers)
}

// =====================================================
// POST /api/barbers
// =====================================================

type barberRequest struct {
	Name     string     `json:"name" binding:"required"`
	Bio      string     `json:"bio"`
	Email    string     `json:"email"`
	PhotoURL string     `json:"photo_url"`
	UserID   *uuid.UUID `json:"user_id"`
	IsActive *bool      `json:"is_active"`
}

func (h *BarberHandler) Create(c *gin.Context) {
	if !currentActor(c, h.repo).Has(rbac.ManageBarbers) {
		httperr.Unauthorized(c, "No autorizado")
		return
	}

	var req barberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequestDetails(c, "Datos inválidos", err.Error())
		return
	}

	barber := models.Barber{
		BusinessID: currentBusinessID(c),
		Name:       req.Name,
		Bio:        req.Bio,
		Email:      req.Email,
		PhotoURL:   req.PhotoURL,
		UserID:     req.UserID,
		IsActive:   true,
	}
	if req.IsActive != nil {
		barber.IsActive = *req.IsActive
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&barber).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, barber)
}

// =====================================================
// PUT /api/barbers/:id
// =====================================================

func (h *BarberHandler) Update(c *gin.Context) {
	if !currentActor(c, h.repo).Has(rbac.ManageBarbers) {
		httperr.Unauthorized(c, "No autorizado")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.NotFound(c, "Barbero no encontrado")
		return
	}

	barber, err := h.repo.GetBarber(c.Request.Context(), currentBusinessID(c), id)
	if err != nil {
		httperr.NotFound(c, "Barbero no encontrado")
		return
	}

	var req barberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequestDetails(c, "Datos inválidos", err.Error())
		return
	}

	barber.Name = req.Name
	barber.Bio = req.Bio
	barber.Email = req.Email
	barber.PhotoURL = req.PhotoURL
	barber.UserID = req.UserID
	if req.IsActive != nil {
		barber.IsActive = *req.IsActive
	}

	if err := h.db.WithContext(c.Request.Context()).Save(barber).Error; err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, barber)
}
