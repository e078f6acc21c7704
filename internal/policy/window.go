package policy

import (
	"time"

	. "innkeep/internal/models"
)

// StayWindow is the resolved check-in/check-out instant pair for one stay.
type StayWindow struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// WindowFor computes the stay's instant window from its date range and the
// room's resolved policy hours.
func (s Settings) WindowFor(stay *Stay, hours HourPolicy) StayWindow {
	return StayWindow{
		CheckIn:  s.ComposeLocal(stay.CheckIn, hours.CheckIn),
		CheckOut: s.ComposeLocal(stay.CheckOut, hours.CheckOut),
	}
}

// Covers reports whether now falls inside the half-open window
// [CheckIn, CheckOut): the checkout instant itself is already departed.
func (w StayWindow) Covers(now time.Time) bool {
	return !now.Before(w.CheckIn) && now.Before(w.CheckOut)
}

// CoversDate reports whether the stay's date range includes the given date,
// inclusive on both ends. Date-level, not instant-level.
func CoversDate(stay *Stay, date time.Time) bool {
	return !stay.CheckIn.After(date) && !stay.CheckOut.Before(date)
}

// IsFuture reports whether the stay has not started at the date level: its
// check-in date is strictly after today. Used to decide whether an unstarted
// booking should show the room as booked rather than free.
func IsFuture(stay *Stay, today time.Time) bool {
	return stay.CheckIn.After(today)
}
