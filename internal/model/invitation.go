package model

import "time"

// Invitation records a portal invitation email sent to a staff member,
// student or parent. The row exists only when the send succeeded; a failed
// send rolls it back.
type Invitation struct {
	ID       int64  `gorm:"primaryKey" json:"id"`
	SchoolID int64  `gorm:"index;not null" json:"school_id"`
	Email    string `gorm:"size:256;not null" json:"email"`
	Role     string `gorm:"size:32;not null" json:"role"`
	Token    string `gorm:"uniqueIndex;size:36;not null" json:"token"`

	SentAt    time.Time `json:"sent_at"`
	CreatedAt time.Time `json:"created_at"`

	// Associations
	School School `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
