package booking

import "campus-booking-backend/internal/availability"

// clockMinutes parses "HH:MM", surfacing malformed input as a ValidationError.
func clockMinutes(s string) (int, error) {
	m, err := availability.ClockToMinutes(s)
	if err != nil {
		return 0, &ValidationError{Field: "time", Reason: err.Error()}
	}
	return m, nil
}
