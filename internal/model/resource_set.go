package model

import "time"

// ResourceSet is a named, ordered bundle of resources, e.g. "Lab A + Projector".
type ResourceSet struct {
	ID       int64  `gorm:"primaryKey" json:"id"`
	SchoolID int64  `gorm:"index;not null" json:"school_id"`
	Name     string `gorm:"size:256;not null" json:"name"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	Members []ResourceSetMember `gorm:"foreignKey:SetID;constraint:OnDelete:CASCADE" json:"members"`
}

// ResourceSetMember pins a resource at a position within a set.
type ResourceSetMember struct {
	ID         int64 `gorm:"primaryKey" json:"-"`
	SetID      int64 `gorm:"index;not null" json:"-"`
	ResourceID int64 `gorm:"not null" json:"resource_id"`
	Position   int   `gorm:"not null" json:"position"`
}
