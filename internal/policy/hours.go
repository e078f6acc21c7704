package policy

import (
	. "innkeep/internal/models"
)

// HourPolicy is the effective check-in/check-out hour pair for one room.
type HourPolicy struct {
	CheckIn  int
	CheckOut int
}

// ResolveHours computes the effective policy hours for a room. Precedence is
// room pair, then owning admin pair, then the configured defaults. A pair is
// atomic: if only one of the two hours is set (or either is out of range) the
// whole level is skipped, never mixed with the next one. Bad stored values
// fall through silently; validation is a write-time concern elsewhere.
func (s Settings) ResolveHours(room *Room) HourPolicy {
	if p, ok := hourPair(room.CheckInHour, room.CheckOutHour); ok {
		return p
	}
	if p, ok := hourPair(room.Admin.CheckInHour, room.Admin.CheckOutHour); ok {
		return p
	}
	return HourPolicy{CheckIn: s.DefaultCheckInHour, CheckOut: s.DefaultCheckOutHour}
}

func hourPair(in, out *int) (HourPolicy, bool) {
	if in == nil || out == nil {
		return HourPolicy{}, false
	}
	if !validHour(*in) || !validHour(*out) {
		return HourPolicy{}, false
	}
	return HourPolicy{CheckIn: *in, CheckOut: *out}, true
}

func validHour(h int) bool {
	return h >= 0 && h <= 23
}
