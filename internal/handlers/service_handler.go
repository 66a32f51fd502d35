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
)

// ServiceHandler administra el catálogo de servicios del negocio. Las citas
// existentes no se ven afectadas por ediciones: llevan su propio snapshot
// de duración y precio.
type ServiceHandler struct {
	db   *gorm.DB
	repo domain.Repository
}

func NewServiceHandler(db *gorm.DB, repo domain.Repository) *ServiceHandler {
	return &ServiceHandler{db: db, repo: repo}
}

// =====================================================
// GET /api/services
// =====================================================

func (h *ServiceHandler) List(c *gin.Context) {
	var services []models.Service
	err := h.db.WithContext(c.Request.Context()).
		Where("business_id = ?", currentBusinessID(c)).
		Order("display_order ASC, name ASC").
		Find(&services).Error
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, services)
}

// =====================================================
// POST /api/services
// =====================================================

type serviceRequest struct {
	Name            string  `json:"name" binding:"required"`
	Description     string  `json:"description"`
	DurationMinutes int     `json:"duration_minutes" binding:"required,min=5,max=480"`
	Price           float64 `json:"price" binding:"min=0"`
	DisplayOrder    int     `json:"display_order"`
	IsActive        *bool   `json:"is_active"`
}

func (h *ServiceHandler) Create(c *gin.Context) {
	if !currentActor(c, h.repo).Has(rbac.ManageServices) {
		httperr.Unauthorized(c, "No autorizado")
		return
	}

	var req serviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequestDetails(c, "Datos inválidos", err.Error())
		return
	}

	svc := models.Service{
		BusinessID:      currentBusinessID(c),
		Name:            req.Name,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
		DisplayOrder:    req.DisplayOrder,
		IsActive:        true,
	}
	if req.IsActive != nil {
		svc.IsActive = *req.IsActive
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&svc).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, svc)
}

// =====================================================
// PUT /api/services/:id
// =====================================================

func (h *ServiceHandler) Update(c *gin.Context) {
	if !currentActor(c, h.repo).Has(rbac.ManageServices) {
		httperr.Unauthorized(c, "No autorizado")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.NotFound(c, "Servicio no encontrado")
		return
	}

	var svc models.Service
	err = h.db.WithContext(c.Request.Context()).
		Where("id = ? AND business_id = ?", id, currentBusinessID(c)).
		First(&svc).Error
	if err != nil {
		httperr.NotFound(c, "Servicio no encontrado")
		return
	}

	var req serviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequestDetails(c, "Datos inválidos", err.Error())
		return
	}

	svc.Name = req.Name
	svc.Description = req.Description
	svc.DurationMinutes = req.DurationMinutes
	svc.Price = req.Price
	svc.DisplayOrder = req.DisplayOrder
	if req.IsActive != nil {
		svc.IsActive = *req.IsActive
	}

	if err := h.db.WithContext(c.Request.Context()).Save(&svc).Error; err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, svc)
}
