package model

import "time"

// BookingStatus is the lifecycle state of a resource booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// ActiveBookingStatuses are the statuses that occupy a resource and therefore
// participate in conflict detection.
var ActiveBookingStatuses = []BookingStatus{BookingPending, BookingConfirmed}

// ResourceBooking reserves a resource for the half-open interval
// [StartDatetime, EndDatetime). Cancellation is a status change with a
// reason, never a hard delete; rows disappear only when their resource is
// removed.
type ResourceBooking struct {
	ID         int64  `gorm:"primaryKey" json:"id"`
	SchoolID   int64  `gorm:"index;not null" json:"school_id"`
	ResourceID int64  `gorm:"index;not null" json:"resource_id"`
	SessionID  *int64 `gorm:"index" json:"session_id,omitempty"`

	StartDatetime time.Time     `gorm:"index;not null" json:"start_datetime"`
	EndDatetime   time.Time     `gorm:"not null" json:"end_datetime"`
	Status        BookingStatus `gorm:"size:16;not null;index" json:"status"`
	Priority      int           `gorm:"not null" json:"priority"`

	IsRecurring       bool    `gorm:"not null" json:"is_recurring"`
	RecurrenceGroupID *string `gorm:"size:36;index" json:"recurrence_group_id,omitempty"`

	Notes        string  `json:"notes"`
	CancelReason *string `json:"cancel_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	Resource Resource `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
