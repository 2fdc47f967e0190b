package booking

import (
	"context"
	"time"

	"campus-booking-backend/internal/model"
)

// ConflictStore is the persistence surface the conflict checker needs.
type ConflictStore interface {
	ResourceByID(ctx context.Context, schoolID, id int64) (*model.Resource, error)
	// OverlappingBookings returns active bookings on the resource with
	// start_datetime < startBefore AND end_datetime > endAfter, excluding
	// excludeID when non-zero.
	OverlappingBookings(ctx context.Context, schoolID, resourceID int64, startBefore, endAfter time.Time, excludeID int64) ([]model.ResourceBooking, error)
}

// Availability is the result of a conflict check.
type Availability struct {
	IsAvailable bool       `json:"is_available"`
	Conflicts   []Conflict `json:"conflicts"`
}

// Checker decides whether a candidate interval can be booked on a resource.
type Checker struct {
	store ConflictStore
}

// NewChecker creates a conflict checker over the given store.
func NewChecker(s ConflictStore) *Checker {
	return &Checker{store: s}
}

// CheckAvailability reports whether [start, end) is free on the resource.
// Existing pending and confirmed bookings occupy the buffered interval
// [start - buffer_before, end + buffer_after) using the resource's configured
// buffers; excludeID lets edit/move operations ignore the booking being
// changed.
func (c *Checker) CheckAvailability(ctx context.Context, schoolID, resourceID int64, start, end time.Time, excludeID int64) (Availability, error) {
	if !start.Before(end) {
		return Availability{}, &ValidationError{Field: "interval", Reason: "start must be before end"}
	}

	res, err := c.store.ResourceByID(ctx, schoolID, resourceID)
	if err != nil {
		return Availability{}, err
	}

	before := time.Duration(res.BufferTimeBefore) * time.Minute
	after := time.Duration(res.BufferTimeAfter) * time.Minute

	// An existing booking [s, e) occupies [s-before, e+after). It conflicts
	// with [start, end) iff s < end+before AND e > start-after.
	existing, err := c.store.OverlappingBookings(ctx, schoolID, resourceID, end.Add(before), start.Add(-after), excludeID)
	if err != nil {
		return Availability{}, err
	}

	conflicts := make([]Conflict, 0, len(existing))
	for _, b := range existing {
		reason := "overlaps existing booking"
		if !b.StartDatetime.Before(end) || !b.EndDatetime.After(start) {
			reason = "falls within resource buffer time"
		}
		conflicts = append(conflicts, Conflict{
			BookingID:  b.ID,
			ResourceID: b.ResourceID,
			Start:      b.StartDatetime,
			End:        b.EndDatetime,
			Reason:     reason,
		})
	}

	return Availability{IsAvailable: len(conflicts) == 0, Conflicts: conflicts}, nil
}
