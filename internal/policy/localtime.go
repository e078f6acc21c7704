package policy

import "time"

// ComposeLocal combines a date-only value with an hour of day in the hotel
// timezone. Date-only values are persisted as UTC midnight, so the calendar
// fields must be read with UTC accessors; reading them in any other zone can
// shift the date across midnight.
func (s Settings) ComposeLocal(date time.Time, hour int) time.Time {
	y, m, d := date.UTC().Date()
	return time.Date(y, m, d, hour, 0, 0, 0, s.Location)
}

// Today returns the current calendar date in the hotel timezone, normalized
// to UTC midnight so it compares directly against stored date-only values.
func (s Settings) Today(now time.Time) time.Time {
	y, m, d := now.In(s.Location).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
