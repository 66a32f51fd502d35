package handlers

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/reservaya/booking-api/internal/domain/appointment"
	"github.com/reservaya/booking-api/internal/httperr"
	"github.com/reservaya/booking-api/internal/httpresp"
	"github.com/reservaya/booking-api/internal/infra/storage"
	"github.com/reservaya/booking-api/internal/models"
	"github.com/reservaya/booking-api/internal/rbac"
	"github.com/reservaya/booking-api/internal/timezone"
)

const maxLogoBytes = 5 << 20

type BusinessHandler struct {
	db      *gorm.DB
	repo    domain.Repository
	storage storage.Uploader
}

func NewBusinessHandler(
	db *gorm.DB,
	repo domain.Repository,
	uploader storage.Uploader,
) *BusinessHandler {
	return &BusinessHandler{
		db:      db,
		repo:    repo,
		storage: uploader,
	}
}

// =====================================================
// GET /api/business
// =====================================================

func (h *BusinessHandler) Get(c *gin.Context) {
	biz, err := h.repo.GetBusinessByID(c.Request.Context(), currentBusinessID(c))
	if err != nil {
		httperr.NotFound(c, "Negocio no encontrado")
		return
	}
	httpresp.OK(c, biz)
}

// =====================================================
// PUT /api/business
// =====================================================

type updateBusinessRequest struct {
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone"`
	Whatsapp string `json:"whatsapp"`
	Address  string `json:"address"`
	Timezone string `json:"timezone"`

	OperatingHours models.OperatingHours `json:"operating_hours"`

	SlotIntervalMinutes  *int `json:"slot_interval_minutes"`
	BookingBufferMinutes *int `json:"booking_buffer_minutes"`

	AdvancePaymentEnabled *bool    `json:"advance_payment_enabled"`
	AdvancePaymentAmount  *float64 `json:"advance_payment_amount"`
}

func (h *BusinessHandler) Update(c *gin.Context) {
	if !currentActor(c, h.repo).Has(rbac.ManageBusiness) {
		httperr.Unauthorized(c, "No autorizado")
		return
	}

	biz, err := h.repo.GetBusinessByID(c.Request.Context(), currentBusinessID(c))
	if err != nil {
		httperr.NotFound(c, "Negocio no encontrado")
		return
	}

	var req updateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequestDetails(c, "Datos inválidos", err.Error())
		return
	}

	if req.Timezone != "" {
		if !timezone.IsValid(req.Timezone) {
			httperr.BadRequest(c, "Zona horaria inválida")
			return
		}
		biz.Timezone = req.Timezone
	}

	if req.OperatingHours != nil {
		for day, hours := range req.OperatingHours {
			if !validDayHours(hours) {
				httperr.BadRequest(c, fmt.Sprintf("Horario inválido para %s", day))
				return
			}
		}
		biz.OperatingHours = req.OperatingHours
	}

	biz.Name = req.Name
	biz.Phone = req.Phone
	biz.Whatsapp = req.Whatsapp
	biz.Address = req.Address

	if req.SlotIntervalMinutes != nil && *req.SlotIntervalMinutes > 0 {
		biz.SlotIntervalMinutes = *req.SlotIntervalMinutes
	}
	if req.BookingBufferMinutes != nil && *req.BookingBufferMinutes >= 0 {
		biz.BookingBufferMinutes = *req.BookingBufferMinutes
	}
	if req.AdvancePaymentEnabled != nil {
		biz.AdvancePaymentEnabled = *req.AdvancePaymentEnabled
	}
	if req.AdvancePaymentAmount != nil && *req.AdvancePaymentAmount >= 0 {
		biz.AdvancePaymentAmount = *req.AdvancePaymentAmount
	}

	if err := h.db.WithContext(c.Request.Context()).Save(biz).Error; err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, biz)
}

// validDayHours acepta el día cerrado (ambos vacíos) o un rango HH:MM válido.
func validDayHours(hours models.DayHours) bool {
	if hours.Open == "" && hours.Close == "" {
		return true
	}
	open, err1 := time.Parse("15:04", hours.Open)
	closing, err2 := time.Parse("15:04", hours.Close)
	return err1 == nil && err2 == nil && open.Before(closing)
}

// =====================================================
// POST /api/business/logo
// =====================================================

// UploadLogo recibe el archivo "logo" multipart, lo normaliza a webp de
// máximo 512px y lo sube a S3. La URL pública queda en el negocio.
func (h *BusinessHandler) UploadLogo(c *gin.Context) {
	if !currentActor(c, h.repo).Has(rbac.ManageBusiness) {
		httperr.Unauthorized(c, "No autorizado")
		return
	}
	if h.storage == nil {
		httperr.Internal(c, "Carga de imágenes no disponible")
		return
	}

	biz, err := h.repo.GetBusinessByID(c.Request.Context(), currentBusinessID(c))
	if err != nil {
		httperr.NotFound(c, "Negocio no encontrado")
		return
	}

	file, err := c.FormFile("logo")
	if err != nil {
		httperr.BadRequest(c, "Falta el archivo de logo")
		return
	}
	if file.Size > maxLogoBytes {
		httperr.BadRequest(c, "La imagen supera el tamaño máximo de 5MB")
		return
	}

	src, err := file.Open()
	if err != nil {
		httperr.Internal(c, "Error interno")
		return
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxLogoBytes))
	if err != nil {
		httperr.Internal(c, "Error interno")
		return
	}

	normalized, err := storage.NormalizeLogo(data)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedImage) {
			httperr.BadRequest(c, "Formato de imagen no soportado")
			return
		}
		httperr.Internal(c, "Error interno")
		return
	}

	key := fmt.Sprintf("logos/%s/%d.webp", biz.ID, time.Now().Unix())
	url, err := h.storage.Upload(c.Request.Context(), key, normalized, "image/webp")
	if err != nil {
		httperr.Internal(c, "No se pudo subir la imagen")
		return
	}

	biz.LogoURL = url
	if err := h.db.WithContext(c.Request.Context()).
		Model(biz).Update("logo_url", url).Error; err != nil {
		respondError(c, err)
		return
	}

	httpresp.OK(c, gin.H{"logo_url": url})
}
