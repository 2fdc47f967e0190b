package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"campus-booking-backend/internal/model"
)

const dateLayout = "2006-01-02"

// RecurrencePattern describes a weekly repetition between two dates. Days use
// ISO numbering: Monday=1 .. Saturday=6, Sunday=7.
type RecurrencePattern struct {
	StartDate  string `json:"start_date" binding:"required"`
	EndDate    string `json:"end_date" binding:"required"`
	DaysOfWeek []int  `json:"days_of_week" binding:"required"`
	StartTime  string `json:"start_time" binding:"required"`
	EndTime    string `json:"end_time" binding:"required"`
}

// Dates enumerates every calendar date in [StartDate, EndDate] whose ISO
// weekday is in DaysOfWeek, before any conflict filtering.
func (p RecurrencePattern) Dates() ([]time.Time, error) {
	start, err := time.Parse(dateLayout, p.StartDate)
	if err != nil {
		return nil, &ValidationError{Field: "start_date", Reason: "want YYYY-MM-DD"}
	}
	end, err := time.Parse(dateLayout, p.EndDate)
	if err != nil {
		return nil, &ValidationError{Field: "end_date", Reason: "want YYYY-MM-DD"}
	}
	if end.Before(start) {
		return nil, &ValidationError{Field: "end_date", Reason: "must not precede start_date"}
	}

	wanted := make(map[int]bool, len(p.DaysOfWeek))
	for _, d := range p.DaysOfWeek {
		if d < 1 || d > 7 {
			return nil, &ValidationError{Field: "days_of_week", Reason: "values must be 1 (Monday) through 7 (Sunday)"}
		}
		wanted[d] = true
	}
	if len(wanted) == 0 {
		return nil, &ValidationError{Field: "days_of_week", Reason: "at least one day is required"}
	}

	var dates []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if wanted[isoWeekday(d)] {
			dates = append(dates, d)
		}
	}
	return dates, nil
}

// isoWeekday maps time.Weekday (Sunday=0) to ISO numbering (Sunday=7).
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// interval anchors the pattern's wall-clock times onto one date.
func (p RecurrencePattern) interval(date time.Time) (time.Time, time.Time, error) {
	startMin, err := clockMinutes(p.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endMin, err := clockMinutes(p.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if endMin <= startMin {
		return time.Time{}, time.Time{}, &ValidationError{Field: "end_time", Reason: "must be after start_time"}
	}
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return day.Add(time.Duration(startMin) * time.Minute), day.Add(time.Duration(endMin) * time.Minute), nil
}

// SkippedDate records a recurrence date dropped because of a conflict.
type SkippedDate struct {
	Date   string `json:"date"`
	Reason string `json:"reason"`
}

// RecurringResult reports requested-vs-created bookings so callers can see
// partial expansion instead of silently receiving fewer rows.
type RecurringResult struct {
	GroupID   string                  `json:"recurrence_group_id"`
	Requested int                     `json:"requested"`
	Created   []model.ResourceBooking `json:"created"`
	Skipped   []SkippedDate           `json:"skipped"`
}

// BookRecurring expands the pattern into concrete bookings on one resource.
// Each date is checked independently; conflicting dates are skipped and
// reported, never fatal. All created bookings share one recurrence group id.
// sessionIDs, when provided, are matched to created dates in order.
func (o *Orchestrator) BookRecurring(ctx context.Context, schoolID, resourceID int64, pattern RecurrencePattern, sessionIDs []int64) (*RecurringResult, error) {
	dates, err := pattern.Dates()
	if err != nil {
		return nil, err
	}

	release := o.locks.acquire([]int64{resourceID})
	defer release()

	result := &RecurringResult{
		GroupID:   uuid.NewString(),
		Requested: len(dates),
	}

	for _, date := range dates {
		start, end, err := pattern.interval(date)
		if err != nil {
			return nil, err
		}

		avail, err := o.checker.CheckAvailability(ctx, schoolID, resourceID, start, end, 0)
		if err != nil {
			return nil, err
		}
		if !avail.IsAvailable {
			result.Skipped = append(result.Skipped, SkippedDate{
				Date:   date.Format(dateLayout),
				Reason: fmt.Sprintf("conflicts with %d existing booking(s)", len(avail.Conflicts)),
			})
			continue
		}

		groupID := result.GroupID
		b := model.ResourceBooking{
			SchoolID:          schoolID,
			ResourceID:        resourceID,
			StartDatetime:     start,
			EndDatetime:       end,
			Status:            model.BookingConfirmed,
			IsRecurring:       true,
			RecurrenceGroupID: &groupID,
		}
		// Skipped dates consume no session id; match ids to bookings
		// actually created, in order.
		if n := len(result.Created); n < len(sessionIDs) {
			sid := sessionIDs[n]
			b.SessionID = &sid
		}
		if err := o.store.CreateBooking(ctx, &b); err != nil {
			return nil, err
		}
		result.Created = append(result.Created, b)
	}

	return result, nil
}
