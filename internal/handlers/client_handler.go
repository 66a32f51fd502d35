package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/reservaya/booking-api/internal/domain/appointment"
	"github.com/reservaya/booking-api/internal/httperr"
	"github.com/reservaya/booking-api/internal/httpresp"
	"github.com/reservaya/booking-api/internal/models"
	"github.com/reservaya/booking-api/internal/rbac"
	"github.com/reservaya/booking-api/internal/validators"
)

type ClientHandler struct {
	db   *gorm.DB
	repo domain.Repository
}

func NewClientHandler(db *gorm.DB, repo domain.Repository) *ClientHandler {
	return &ClientHandler{db: db, repo: repo}
}

// =====================================================
// GET /api/clients?q=&limit=&offset=
// =====================================================

// List busca por subcadena en nombre o teléfono, siempre acotado al negocio.
func (h *ClientHandler) List(c *gin.Context) {
	businessID := currentBusinessID(c)

	query := h.db.WithContext(c.Request.Context()).
		Model(&models.Client{}).
		Where("business_id = ?", businessID)

	if q := c.Query("q"); q != "" {
		like := "%" + q + "%"
		query = query.Where("name ILIKE ? OR phone LIKE ?", like, like)
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

	var clients []models.Client
	err := query.Order("name ASC").Limit(limit).Offset(offset).Find(&clients).Error
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.Page(c, clients, total, limit, offset)
}

// =====================================================
// POST /api/clients
// =====================================================

type createClientRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" binding:"required"`
	Email string `json:"email"`
	Notes string `json:"notes"`
}

func (h *ClientHandler) Create(c *gin.Context) {
	actor := currentActor(c, h.repo)
	if !actor.Has(rbac.ManageClients) {
		httperr.Unauthorized(c, "No autorizado")
		return
	}

	var req createClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequestDetails(c, "Datos inválidos", err.Error())
		return
	}
	if !validators.IsPhoneValid(req.Phone) {
		httperr.BadRequest(c, "Teléfono inválido")
		return
	}

	client := models.Client{
		BusinessID: currentBusinessID(c),
		Name:       req.Name,
		Phone:      req.Phone,
		Email:      req.Email,
		Notes:      req.Notes,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&client).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			httperr.Conflict(c, "Ya existe un cliente con ese teléfono")
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, client)
}
