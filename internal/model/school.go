package model

import "time"

// School is the owning tenant for every resource, booking and staff record.
type School struct {
	ID           int64  `gorm:"primaryKey"`
	Name         string `gorm:"size:256;not null"`
	APIToken     string `gorm:"uniqueIndex;size:64;not null"`
	ContactEmail string `gorm:"size:256"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
