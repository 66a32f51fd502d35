package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/reservaya/booking-api/internal/domain/appointment"
	"github.com/reservaya/booking-api/internal/httperr"
	"github.com/reservaya/booking-api/internal/httpresp"
	"github.com/reservaya/booking-api/internal/models"
	"github.com/reservaya/booking-api/internal/rbac"
)

type AuditLogsHandler struct {
	db   *gorm.DB
	repo domain.Repository
}

func NewAuditLogsHandler(db *gorm.DB, repo domain.Repository) *AuditLogsHandler {
	return &AuditLogsHandler{db: db, repo: repo}
}

// List devuelve la bitácora del negocio, más reciente primero. Solo para
// quien administra el negocio; filtrable por severidad (p.ej. security).
func (h *AuditLogsHandler) List(c *gin.Context) {
	if !currentActor(c, h.repo).Has(rbac.ManageBusiness) {
		httperr.Unauthorized(c, "No autorizado")
		return
	}

	query := h.db.WithContext(c.Request.Context()).
		Model(&models.AuditLog{}).
		Where("business_id = ?", currentBusinessID(c))

	if severity := c.Query("severity"); severity != "" {
		query = query.Where("severity = ?", severity)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondError(c, err)
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	limit = httpresp.ClampLimit(limit)
	offset = httpresp.ClampOffset(offset)

	var logs []models.AuditLog
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&logs).Error
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.Page(c, logs, total, limit, offset)
}
