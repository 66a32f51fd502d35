package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/reservaya/booking-api/internal/httperr"
	"github.com/reservaya/booking-api/internal/httpresp"
	"github.com/reservaya/booking-api/internal/models"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

// Get devuelve el usuario autenticado con su negocio.
func (h *MeHandler) Get(c *gin.Context) {
	userID := currentUserID(c)

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Business").
		First(&user, "id = ?", userID).Error; err != nil {
		httperr.Unauthorized(c, "No autorizado")
		return
	}

	httpresp.OK(c, gin.H{
		"user":     userPayload(&user),
		"business": businessPayload(&user.Business),
	})
}
