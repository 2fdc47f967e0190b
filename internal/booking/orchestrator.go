package booking

import (
	"context"
	"fmt"
	"time"

	"campus-booking-backend/internal/model"
)

// Store is the persistence surface the orchestrator needs on top of conflict
// checking.
type Store interface {
	ConflictStore
	CreateBooking(ctx context.Context, b *model.ResourceBooking) error
	// CreateBookings inserts all rows in one transaction.
	CreateBookings(ctx context.Context, bs []model.ResourceBooking) ([]model.ResourceBooking, error)
	BookingByID(ctx context.Context, schoolID, id int64) (*model.ResourceBooking, error)
	UpdateBooking(ctx context.Context, b *model.ResourceBooking) error
	// CancelBookingsByGroup cancels every non-cancelled booking in the
	// recurrence group and returns the rows it changed.
	CancelBookingsByGroup(ctx context.Context, schoolID int64, groupID, reason string) ([]model.ResourceBooking, error)
}

// Orchestrator creates, cancels and transfers bookings. All mutations go
// through per-resource locks held across check and insert.
type Orchestrator struct {
	store   Store
	checker *Checker
	locks   *resourceLocks
}

// NewOrchestrator creates a booking orchestrator.
func NewOrchestrator(s Store) *Orchestrator {
	return &Orchestrator{
		store:   s,
		checker: NewChecker(s),
		locks:   newResourceLocks(),
	}
}

// Checker exposes the orchestrator's conflict checker for read-only queries.
func (o *Orchestrator) Checker() *Checker {
	return o.checker
}

// BookSession reserves every listed resource for one session over [start, end).
// If any resource conflicts, nothing is committed and the aggregated
// ConflictError lists every blocking booking.
func (o *Orchestrator) BookSession(ctx context.Context, schoolID int64, sessionID *int64, resourceIDs []int64, start, end time.Time, notes string) ([]model.ResourceBooking, error) {
	if len(resourceIDs) == 0 {
		return nil, &ValidationError{Field: "resource_ids", Reason: "at least one resource is required"}
	}
	if !start.Before(end) {
		return nil, &ValidationError{Field: "interval", Reason: "start must be before end"}
	}

	release := o.locks.acquire(resourceIDs)
	defer release()

	var conflicts []Conflict
	for _, id := range resourceIDs {
		avail, err := o.checker.CheckAvailability(ctx, schoolID, id, start, end, 0)
		if err != nil {
			return nil, err
		}
		conflicts = append(conflicts, avail.Conflicts...)
	}
	if len(conflicts) > 0 {
		return nil, &ConflictError{Conflicts: conflicts}
	}

	bookings := make([]model.ResourceBooking, 0, len(resourceIDs))
	for _, id := range resourceIDs {
		bookings = append(bookings, model.ResourceBooking{
			SchoolID:      schoolID,
			ResourceID:    id,
			SessionID:     sessionID,
			StartDatetime: start,
			EndDatetime:   end,
			Status:        model.BookingConfirmed,
			Notes:         notes,
		})
	}
	return o.store.CreateBookings(ctx, bookings)
}

// Transfer moves a booking to a new resource, keeping its time range. The
// target is re-validated first; the old resource's slot is freed implicitly
// once resource_id changes.
func (o *Orchestrator) Transfer(ctx context.Context, schoolID, bookingID, newResourceID int64, reason string) (*model.ResourceBooking, error) {
	b, err := o.store.BookingByID(ctx, schoolID, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status != model.BookingPending && b.Status != model.BookingConfirmed {
		return nil, &ValidationError{Field: "booking", Reason: fmt.Sprintf("cannot transfer a %s booking", b.Status)}
	}
	if b.ResourceID == newResourceID {
		return nil, &ValidationError{Field: "resource_id", Reason: "booking is already on this resource"}
	}

	release := o.locks.acquire([]int64{newResourceID})
	defer release()

	avail, err := o.checker.CheckAvailability(ctx, schoolID, newResourceID, b.StartDatetime, b.EndDatetime, b.ID)
	if err != nil {
		return nil, err
	}
	if !avail.IsAvailable {
		return nil, &UnavailableError{ResourceID: newResourceID, Conflicts: avail.Conflicts}
	}

	note := fmt.Sprintf("transferred from resource %d to %d", b.ResourceID, newResourceID)
	if reason != "" {
		note += ": " + reason
	}
	if b.Notes != "" {
		b.Notes += "\n"
	}
	b.Notes += note
	b.ResourceID = newResourceID

	if err := o.store.UpdateBooking(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// CancelRecurringGroup cancels every booking in the recurrence group and
// returns the cancelled rows. Calling it again is a no-op, not an error.
func (o *Orchestrator) CancelRecurringGroup(ctx context.Context, schoolID int64, groupID, reason string) ([]model.ResourceBooking, error) {
	if groupID == "" {
		return nil, &ValidationError{Field: "recurrence_group_id", Reason: "required"}
	}
	return o.store.CancelBookingsByGroup(ctx, schoolID, groupID, reason)
}
