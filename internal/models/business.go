package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DayHours es la ventana de atención de un día. Open/Close en formato "15:04";
// ambos vacíos significa cerrado.
type DayHours struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// OperatingHours mapea weekday ("mon".."sun") a su horario. Se persiste como JSONB.
type OperatingHours map[string]DayHours

func (oh OperatingHours) Value() (driver.Value, error) {
	if oh == nil {
		return "{}", nil
	}
	b, err := json.Marshal(oh)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (oh *OperatingHours) Scan(value any) error {
	if value == nil {
		*oh = OperatingHours{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("operating_hours: unsupported scan type")
	}

	return json.Unmarshal(data, oh)
}

// WeekdayKey traduce time.Weekday a la clave usada en OperatingHours.
func WeekdayKey(d time.Weekday) string {
	return [...]string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"}[int(d)]
}

type Business struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerUserID uuid.UUID `gorm:"type:uuid;index" json:"owner_user_id"`

	Name     string `gorm:"size:100;not null" json:"name"`
	Slug     string `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Phone    string `gorm:"size:20" json:"phone"`
	Whatsapp string `gorm:"size:20" json:"whatsapp"`
	Address  string `gorm:"size:255" json:"address"`
	LogoURL  string `gorm:"size:255" json:"logo_url"`

	Timezone       string         `gorm:"size:50" json:"timezone"`
	OperatingHours OperatingHours `gorm:"type:jsonb" json:"operating_hours"`

	SlotIntervalMinutes  int `gorm:"default:30" json:"slot_interval_minutes"`
	BookingBufferMinutes int `gorm:"default:0" json:"booking_buffer_minutes"`

	AdvancePaymentEnabled bool    `gorm:"default:false" json:"advance_payment_enabled"`
	AdvancePaymentAmount  float64 `json:"advance_payment_amount"`

	IsActive bool `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Business) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
