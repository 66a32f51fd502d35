package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/reservaya/booking-api/internal/config"
	"github.com/reservaya/booking-api/internal/httperr"
	"github.com/reservaya/booking-api/internal/models"
	"github.com/reservaya/booking-api/internal/timezone"
	"github.com/reservaya/booking-api/internal/validators"
)

type AuthHandler struct {
	db     *gorm.DB
	config *config.Config
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{db: db, config: cfg}
}

// --------- Requests ---------

type RegisterRequest struct {
	BusinessName    string `json:"business_name" binding:"required"`
	BusinessSlug    string `json:"business_slug" binding:"required"`
	BusinessPhone   string `json:"business_phone"`
	BusinessAddress string `json:"business_address"`

	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequestDetails(c, "Datos inválidos", err.Error())
		return
	}

	slug := strings.ToLower(strings.TrimSpace(req.BusinessSlug))

	var count int64
	h.db.Model(&models.Business{}).Where("slug = ?", slug).Count(&count)
	if count > 0 {
		httperr.BadRequest(c, "Esa dirección ya está en uso")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validators.IsEmailDomainValid(email) {
		httperr.BadRequest(c, "El dominio del correo no parece válido")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "Error interno")
		return
	}

	biz := models.Business{
		Name:     req.BusinessName,
		Slug:     slug,
		Phone:    req.BusinessPhone,
		Address:  req.BusinessAddress,
		Timezone: timezone.DefaultTimezone,
		// Semana laboral típica como punto de partida; el dueño la ajusta
		// después desde la configuración del negocio.
		OperatingHours: models.OperatingHours{
			"mon": {Open: "09:00", Close: "18:00"},
			"tue": {Open: "09:00", Close: "18:00"},
			"wed": {Open: "09:00", Close: "18:00"},
			"thu": {Open: "09:00", Close: "18:00"},
			"fri": {Open: "09:00", Close: "18:00"},
			"sat": {Open: "09:00", Close: "14:00"},
			"sun": {},
		},
		IsActive: true,
	}

	user := models.User{
		Name:         req.Name,
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        req.Phone,
		Role:         "owner",
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&biz).Error; err != nil {
			return err
		}
		user.BusinessID = biz.ID
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		biz.OwnerUserID = user.ID
		return tx.Model(&biz).Update("owner_user_id", user.ID).Error
	})
	if err != nil {
		if httperr.IsUniqueViolation(err) {
			httperr.Conflict(c, "Ya existe una cuenta con ese correo")
			return
		}
		respondError(c, err)
		return
	}

	token, err := h.generateToken(&user)
	if err != nil {
		httperr.Internal(c, "Error interno")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":     userPayload(&user),
		"business": businessPayload(&biz),
		"token":    token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequestDetails(c, "Datos inválidos", err.Error())
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.db.Preload("Business").
		Where("email = ?", email).
		First(&user).Error; err != nil {

		if err == gorm.ErrRecordNotFound {
			httperr.Unauthorized(c, "Credenciales inválidas")
			return
		}
		httperr.Internal(c, "Error interno")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "Credenciales inválidas")
		return
	}

	token, err := h.generateToken(&user)
	if err != nil {
		httperr.Internal(c, "Error interno")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":     userPayload(&user),
		"business": businessPayload(&user.Business),
		"token":    token,
	})
}

func userPayload(user *models.User) gin.H {
	return gin.H{
		"id":          user.ID,
		"name":        user.Name,
		"email":       user.Email,
		"phone":       user.Phone,
		"role":        user.Role,
		"business_id": user.BusinessID,
	}
}

func businessPayload(biz *models.Business) gin.H {
	return gin.H{
		"id":      biz.ID,
		"name":    biz.Name,
		"slug":    biz.Slug,
		"phone":   biz.Phone,
		"address": biz.Address,
	}
}

// --------- JWT ---------

func (h *AuthHandler) generateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":        user.ID.String(),
		"businessId": user.BusinessID.String(),
		"role":       user.Role,
		"exp":        time.Now().Add(24 * time.Hour).Unix(),
		"iat":        time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.config.JWTSecret))
}
