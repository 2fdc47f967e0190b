package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"campus-booking-backend/internal/availability"
)

// WeeklyAvailability is a staff member's weekly schedule stored as a JSON
// column.
type WeeklyAvailability availability.Weekly

// Value implements driver.Valuer.
func (w WeeklyAvailability) Value() (driver.Value, error) {
	if w == nil {
		return "{}", nil
	}
	b, err := json.Marshal(w)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (w *WeeklyAvailability) Scan(src any) error {
	if src == nil {
		*w = WeeklyAvailability{}
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into WeeklyAvailability", src)
	}
	if len(data) == 0 {
		*w = WeeklyAvailability{}
		return nil
	}
	return json.Unmarshal(data, w)
}

// Weekly converts to the availability package's representation.
func (w WeeklyAvailability) Weekly() availability.Weekly {
	return availability.Weekly(w)
}

// Staff is an employee of a school who can be scheduled for sessions.
type Staff struct {
	ID       int64  `gorm:"primaryKey" json:"id"`
	SchoolID int64  `gorm:"index;not null" json:"school_id"`
	Name     string `gorm:"size:256;not null" json:"name"`
	Email    string `gorm:"size:256" json:"email"`
	Role     string `gorm:"size:64" json:"role"`
	IsActive bool   `gorm:"not null;default:true" json:"is_active"`

	Availability WeeklyAvailability `gorm:"type:text" json:"availability"`

	// Advisory scheduling bounds; displayed, never enforced.
	MinWeeklyHours *int `json:"min_weekly_hours,omitempty"`
	MaxWeeklyHours *int `json:"max_weekly_hours,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	School School `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
