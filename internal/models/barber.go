package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Barber struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BusinessID uuid.UUID `gorm:"type:uuid;index" json:"business_id"`

	Name     string `gorm:"size:100;not null" json:"name"`
	Bio      string `gorm:"size:255" json:"bio"`
	PhotoURL string `gorm:"size:255" json:"photo_url"`
	Email    string `gorm:"size:100" json:"email"`

	// Cuenta de usuario vinculada, si el barbero tiene acceso al panel.
	UserID *uuid.UUID `gorm:"type:uuid" json:"user_id"`

	IsActive bool `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Barber) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
