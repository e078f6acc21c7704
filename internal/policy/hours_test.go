package policy

import (
	"testing"
	"time"

	. "innkeep/internal/models"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func testSettings(t *testing.T) Settings {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Prague")
	if err != nil {
		t.Fatalf("failed to load location: %v", err)
	}
	return Settings{
		Location:            loc,
		DefaultCheckInHour:  14,
		DefaultCheckOutHour: 10,
		Tolerance:           59 * time.Second,
	}
}

func TestResolveHours(t *testing.T) {
	settings := testSettings(t)

	testCases := []struct {
		name     string
		room     Room
		expected HourPolicy
	}{
		{
			name: "room pair wins over admin pair",
			room: Room{
				CheckInHour:  intPtr(16),
				CheckOutHour: intPtr(11),
				Admin:        Admin{CheckInHour: intPtr(12), CheckOutHour: intPtr(9)},
			},
			expected: HourPolicy{CheckIn: 16, CheckOut: 11},
		},
		{
			name: "partial room pair falls through to admin, never mixes",
			room: Room{
				CheckInHour: intPtr(16),
				Admin:       Admin{CheckInHour: intPtr(12), CheckOutHour: intPtr(9)},
			},
			expected: HourPolicy{CheckIn: 12, CheckOut: 9},
		},
		{
			name: "partial admin pair falls through to defaults",
			room: Room{
				Admin: Admin{CheckOutHour: intPtr(9)},
			},
			expected: HourPolicy{CheckIn: 14, CheckOut: 10},
		},
		{
			name:     "nothing set uses defaults",
			room:     Room{},
			expected: HourPolicy{CheckIn: 14, CheckOut: 10},
		},
		{
			name: "out-of-range room hour skips the whole room level",
			room: Room{
				CheckInHour:  intPtr(25),
				CheckOutHour: intPtr(10),
				Admin:        Admin{CheckInHour: intPtr(13), CheckOutHour: intPtr(11)},
			},
			expected: HourPolicy{CheckIn: 13, CheckOut: 11},
		},
		{
			name: "negative admin hour skips the admin level",
			room: Room{
				Admin: Admin{CheckInHour: intPtr(-1), CheckOutHour: intPtr(10)},
			},
			expected: HourPolicy{CheckIn: 14, CheckOut: 10},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, settings.ResolveHours(&tc.room))
		})
	}
}
