package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	BlockTypeBreak    = "break"
	BlockTypeVacation = "vacation"
	BlockTypePersonal = "personal"
	BlockTypeOther    = "other"
)

// BarberBlock marca un período en el que el barbero no recibe citas
// (descanso, vacaciones, asunto personal).
type BarberBlock struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BusinessID uuid.UUID `gorm:"type:uuid;index" json:"business_id"`
	BarberID   uuid.UUID `gorm:"type:uuid;index" json:"barber_id"`

	BlockType string `gorm:"size:20;not null" json:"block_type"`
	Title     string `gorm:"size:100" json:"title"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	AllDay    bool      `gorm:"default:false" json:"all_day"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *BarberBlock) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

func ValidBlockType(t string) bool {
	switch t {
	case BlockTypeBreak, BlockTypeVacation, BlockTypePersonal, BlockTypeOther:
		return true
	}
	return false
}
