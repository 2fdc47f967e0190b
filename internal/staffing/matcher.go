// Package staffing filters a school's staff roster by weekly availability.
package staffing

import (
	"context"

	"campus-booking-backend/internal/availability"
	"campus-booking-backend/internal/model"
)

// StaffStore is the persistence surface the matcher needs.
type StaffStore interface {
	ActiveStaff(ctx context.Context, schoolID int64) ([]model.Staff, error)
}

// Matcher answers "who can take this slot" questions.
type Matcher struct {
	store StaffStore
}

// NewMatcher creates a staff scheduling matcher.
func NewMatcher(s StaffStore) *Matcher {
	return &Matcher{store: s}
}

// AvailableStaff returns active staff whose schedule intersects [start, end)
// on the given day. Bulk discovery deliberately uses any-overlap; confirming a
// specific staff member uses the stricter IsStaffAvailable.
func (m *Matcher) AvailableStaff(ctx context.Context, schoolID int64, day, start, end string) ([]model.Staff, error) {
	roster, err := m.store.ActiveStaff(ctx, schoolID)
	if err != nil {
		return nil, err
	}

	matched := make([]model.Staff, 0, len(roster))
	for _, s := range roster {
		hit, err := availability.OverlapsWindow(s.Availability.Weekly(), day, start, end)
		if err != nil {
			return nil, err
		}
		if hit {
			matched = append(matched, s)
		}
	}
	return matched, nil
}

// IsStaffAvailable reports whether one slot of the staff member's schedule
// fully contains [start, end) on the given day.
func IsStaffAvailable(s model.Staff, day, start, end string) (bool, error) {
	return availability.IsCovered(s.Availability.Weekly(), day, start, end)
}

// WeeklySummary aggregates the staff member's schedule for advisory display
// alongside their min/max weekly hour bounds.
func WeeklySummary(s model.Staff) (availability.Summary, error) {
	return availability.Summarize(s.Availability.Weekly())
}
