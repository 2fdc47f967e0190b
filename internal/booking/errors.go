package booking

import (
	"fmt"
	"time"
)

// ValidationError reports malformed caller input. It is surfaced directly and
// never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Conflict is a lightweight descriptor of an existing booking that blocks a
// candidate interval.
type Conflict struct {
	BookingID  int64     `json:"booking_id"`
	ResourceID int64     `json:"resource_id"`
	Start      time.Time `json:"start_datetime"`
	End        time.Time `json:"end_datetime"`
	Reason     string    `json:"reason"`
}

// ConflictError aggregates every conflict found while booking one or more
// resources for a session. No partial bookings are committed when it is
// returned.
type ConflictError struct {
	Conflicts []Conflict
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("booking conflicts with %d existing booking(s)", len(e.Conflicts))
}

// ResourceInUseError blocks deletion of a resource that still has confirmed
// future bookings.
type ResourceInUseError struct {
	ResourceID     int64
	FutureBookings int64
}

func (e *ResourceInUseError) Error() string {
	return fmt.Sprintf("resource %d has %d confirmed future booking(s)", e.ResourceID, e.FutureBookings)
}

// UnavailableError reports that a transfer target cannot take the booking's
// time range.
type UnavailableError struct {
	ResourceID int64
	Conflicts  []Conflict
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("resource %d is unavailable for the requested interval", e.ResourceID)
}
