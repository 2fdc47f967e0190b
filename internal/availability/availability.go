// Package availability models weekly staff schedules and answers coverage
// questions about them. It is pure computation over in-memory data; callers
// own loading and persistence.
package availability

import (
	"fmt"
	"math"
	"strings"
)

// DayOrder is the canonical iteration order for week days. Summaries and
// tie-breaks always follow it.
var DayOrder = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// TimeSlot is a wall-clock window within one day, "HH:MM" inclusive start,
// exclusive end. Cross-midnight spans are not supported.
type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Day is the availability of one week day. When Available is false the slots
// are ignored.
type Day struct {
	Available bool       `json:"available"`
	Slots     []TimeSlot `json:"slots"`
}

// Weekly maps canonical day keys to that day's availability.
type Weekly map[string]Day

// MalformedTimeError reports a time string that is not "HH:MM".
type MalformedTimeError struct {
	Value string
}

func (e *MalformedTimeError) Error() string {
	return fmt.Sprintf("malformed time %q, want HH:MM", e.Value)
}

// ClockToMinutes converts "HH:MM" to minutes since midnight. "24:00" is
// accepted as end-of-day.
func ClockToMinutes(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, &MalformedTimeError{Value: s}
	}
	var h, m int
	if _, err := fmt.Sscanf(s, "%02d:%02d", &h, &m); err != nil {
		return 0, &MalformedTimeError{Value: s}
	}
	if h < 0 || h > 24 || m < 0 || m > 59 || (h == 24 && m != 0) {
		return 0, &MalformedTimeError{Value: s}
	}
	return h*60 + m, nil
}

// Overlaps reports whether two slots intersect under half-open semantics:
// back-to-back slots where a.End == b.Start do not overlap.
func Overlaps(a, b TimeSlot) (bool, error) {
	aStart, err := ClockToMinutes(a.Start)
	if err != nil {
		return false, err
	}
	aEnd, err := ClockToMinutes(a.End)
	if err != nil {
		return false, err
	}
	bStart, err := ClockToMinutes(b.Start)
	if err != nil {
		return false, err
	}
	bEnd, err := ClockToMinutes(b.End)
	if err != nil {
		return false, err
	}
	return aStart < bEnd && bStart < aEnd, nil
}

// IsCovered reports whether the day is available and at least one slot fully
// contains [start, end).
func IsCovered(w Weekly, day, start, end string) (bool, error) {
	d, ok := w[normalizeDay(day)]
	if !ok || !d.Available {
		return false, nil
	}
	reqStart, err := ClockToMinutes(start)
	if err != nil {
		return false, err
	}
	reqEnd, err := ClockToMinutes(end)
	if err != nil {
		return false, err
	}
	for _, slot := range d.Slots {
		slotStart, err := ClockToMinutes(slot.Start)
		if err != nil {
			return false, err
		}
		slotEnd, err := ClockToMinutes(slot.End)
		if err != nil {
			return false, err
		}
		if slotStart <= reqStart && slotEnd >= reqEnd {
			return true, nil
		}
	}
	return false, nil
}

// OverlapsWindow reports whether the day is available and any slot intersects
// [start, end). This is the bulk-discovery predicate; confirming a specific
// assignment uses the stricter IsCovered.
func OverlapsWindow(w Weekly, day, start, end string) (bool, error) {
	d, ok := w[normalizeDay(day)]
	if !ok || !d.Available {
		return false, nil
	}
	window := TimeSlot{Start: start, End: end}
	for _, slot := range d.Slots {
		hit, err := Overlaps(slot, window)
		if err != nil {
			return false, err
		}
		if hit {
			return true, nil
		}
	}
	return false, nil
}

// Summary aggregates a weekly schedule.
type Summary struct {
	TotalHours        float64            `json:"total_hours"`
	AvailableDayCount int                `json:"available_day_count"`
	PerDayHours       map[string]float64 `json:"per_day_hours"`
	LongestDay        string             `json:"longest_day"`
	LongestDayHours   float64            `json:"longest_day_hours"`
}

// Summarize computes per-day and total hours. Slots are summed as stored;
// overlapping slots within a day double-count. Ties for the longest day go to
// the earliest day in DayOrder.
func Summarize(w Weekly) (Summary, error) {
	s := Summary{PerDayHours: make(map[string]float64, len(DayOrder))}
	var totalMinutes int
	for _, day := range DayOrder {
		d, ok := w[day]
		if !ok || !d.Available {
			continue
		}
		s.AvailableDayCount++
		var minutes int
		for _, slot := range d.Slots {
			slotStart, err := ClockToMinutes(slot.Start)
			if err != nil {
				return Summary{}, err
			}
			slotEnd, err := ClockToMinutes(slot.End)
			if err != nil {
				return Summary{}, err
			}
			if slotEnd > slotStart {
				minutes += slotEnd - slotStart
			}
		}
		totalMinutes += minutes
		hours := round2(float64(minutes) / 60)
		s.PerDayHours[day] = hours
		if hours > s.LongestDayHours {
			s.LongestDay = day
			s.LongestDayHours = hours
		}
	}
	// The total is rounded once from raw minutes so per-day rounding
	// errors do not accumulate into it.
	s.TotalHours = round2(float64(totalMinutes) / 60)
	return s, nil
}

func normalizeDay(day string) string {
	return strings.ToLower(strings.TrimSpace(day))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
