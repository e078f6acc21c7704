package policy

import (
	"testing"
	"time"

	. "innkeep/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestComposeLocalReadsDateInUTC(t *testing.T) {
	settings := testSettings(t)

	// 2026-03-10 stored as UTC midnight. In Prague (UTC+1 in March before
	// DST) local midnight is 2026-03-10 01:00, but the calendar date must
	// stay the 10th regardless of the process timezone.
	stored := date(2026, time.March, 10)
	composed := settings.ComposeLocal(stored, 14)

	assert.Equal(t, 2026, composed.Year())
	assert.Equal(t, time.March, composed.Month())
	assert.Equal(t, 10, composed.Day())
	assert.Equal(t, 14, composed.Hour())
	assert.Equal(t, "Europe/Prague", composed.Location().String())
}

func TestComposeLocalDeterministic(t *testing.T) {
	settings := testSettings(t)
	stored := date(2026, time.July, 1)

	first := settings.ComposeLocal(stored, 10)
	second := settings.ComposeLocal(stored, 10)
	assert.True(t, first.Equal(second))
}

func TestTodayUsesHotelTimezone(t *testing.T) {
	settings := testSettings(t)

	// 2026-06-15 23:30 UTC is already 2026-06-16 01:30 in Prague (UTC+2).
	now := time.Date(2026, time.June, 15, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, date(2026, time.June, 16), settings.Today(now))
}

func TestWindowCoversHalfOpen(t *testing.T) {
	settings := testSettings(t)

	stay := &Stay{
		CheckIn:  date(2026, time.May, 3),
		CheckOut: date(2026, time.May, 5),
	}
	window := settings.WindowFor(stay, HourPolicy{CheckIn: 14, CheckOut: 10})

	require.Equal(t, 14, window.CheckIn.Hour())
	require.Equal(t, 10, window.CheckOut.Hour())

	testCases := []struct {
		name    string
		now     time.Time
		covered bool
	}{
		{"one second before check-in", window.CheckIn.Add(-time.Second), false},
		{"exactly the check-in instant", window.CheckIn, true},
		{"mid stay", window.CheckIn.Add(20 * time.Hour), true},
		{"one second before checkout", window.CheckOut.Add(-time.Second), true},
		{"exactly the checkout instant", window.CheckOut, false},
		{"after checkout", window.CheckOut.Add(time.Hour), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.covered, window.Covers(tc.now))
		})
	}
}

func TestCoversDateInclusive(t *testing.T) {
	stay := &Stay{
		CheckIn:  date(2026, time.May, 3),
		CheckOut: date(2026, time.May, 5),
	}

	assert.False(t, CoversDate(stay, date(2026, time.May, 2)))
	assert.True(t, CoversDate(stay, date(2026, time.May, 3)))
	assert.True(t, CoversDate(stay, date(2026, time.May, 4)))
	assert.True(t, CoversDate(stay, date(2026, time.May, 5)))
	assert.False(t, CoversDate(stay, date(2026, time.May, 6)))
}

func TestIsFutureDateLevel(t *testing.T) {
	today := date(2026, time.May, 3)

	assert.True(t, IsFuture(&Stay{CheckIn: date(2026, time.May, 4)}, today))
	assert.False(t, IsFuture(&Stay{CheckIn: date(2026, time.May, 3)}, today))
	assert.False(t, IsFuture(&Stay{CheckIn: date(2026, time.May, 1)}, today))
}
