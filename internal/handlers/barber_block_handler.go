package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/reservaya/booking-api/internal/domain/appointment"
	"github.com/reservaya/booking-api/internal/httperr"
	"github.com/reservaya/booking-api/internal/httpresp"
	"github.com/reservaya/booking-api/internal/models"
)

// BarberBlockHandler administra los bloqueos de agenda del barbero
// (descansos, vacaciones). La disponibilidad los trata como ventanas
// ocupadas.
type BarberBlockHandler struct {
	db   *gorm.DB
	repo domain.Repository
}

func NewBarberBlockHandler(db *gorm.DB, repo domain.Repository) *BarberBlockHandler {
	return &BarberBlockHandler{db: db, repo: repo}
}

// =====================================================
// GET /api/barbers/:id/blocks
// =====================================================

func (h *BarberBlockHandler) List(c *gin.Context) {
	barberID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.NotFound(c, "Barbero no encontrado")
		return
	}

	businessID := currentBusinessID(c)
	if _, err := h.repo.GetBarber(c.Request.Context(), businessID, barberID); err != nil {
		httperr.NotFound(c, "Barbero no encontrado")
		return
	}

	if !currentActor(c, h.repo).CanAccessBarberAppointments(barberID) {
		httperr.Unauthorized(c, "No autorizado")
		return
	}

	var blocks []models.BarberBlock
	err = h.db.WithContext(c.Request.Context()).
		Where("business_id = ? AND barber_id = ?", businessID, barberID).
		Order("start_time ASC").
		Find(&blocks).Error
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, blocks)
}

// =====================================================
// POST /api/barbers/:id/blocks
// =====================================================

type createBlockRequest struct {
	BlockType string    `json:"block_type" binding:"required"`
	Title     string    `json:"title"`
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
	AllDay    bool      `json:"all_day"`
}

func (h *BarberBlockHandler) Create(c *gin.Context) {
	barberID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.NotFound(c, "Barbero no encontrado")
		return
	}

	businessID := currentBusinessID(c)
	if _, err := h.repo.GetBarber(c.Request.Context(), businessID, barberID); err != nil {
		httperr.NotFound(c, "Barbero no encontrado")
		return
	}

	if !currentActor(c, h.repo).CanAccessBarberAppointments(barberID) {
		httperr.Unauthorized(c, "No autorizado")
		return
	}

	var req createBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequestDetails(c, "Datos inválidos", err.Error())
		return
	}
	if !models.ValidBlockType(req.BlockType) {
		httperr.BadRequest(c, "Tipo de bloqueo inválido")
		return
	}
	if !req.AllDay && !req.StartTime.Before(req.EndTime) {
		httperr.BadRequest(c, "El rango de horas es inválido")
		return
	}

	block := models.BarberBlock{
		BusinessID: businessID,
		BarberID:   barberID,
		BlockType:  req.BlockType,
		Title:      req.Title,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		AllDay:     req.AllDay,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&block).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, block)
}

// =====================================================
// DELETE /api/barbers/:id/blocks/:blockId
// =====================================================

func (h *BarberBlockHandler) Delete(c *gin.Context) {
	barberID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.NotFound(c, "Barbero no encontrado")
		return
	}
	blockID, err := uuid.Parse(c.Param("blockId"))
	if err != nil {
		httperr.NotFound(c, "Bloqueo no encontrado")
		return
	}

	businessID := currentBusinessID(c)
	if !currentActor(c, h.repo).CanAccessBarberAppointments(barberID) {
		httperr.Unauthorized(c, "No autorizado")
		return
	}

	res := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND business_id = ? AND barber_id = ?", blockID, businessID, barberID).
		Delete(&models.BarberBlock{})
	if res.Error != nil {
		respondError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "Bloqueo no encontrado")
		return
	}

	c.Status(http.StatusNoContent)
}
