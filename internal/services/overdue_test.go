package services

import (
	"context"
	"testing"
	"time"

	"innkeep/internal/database"
	. "innkeep/internal/models"
	"innkeep/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOverdueFixture(t *testing.T) (*engineFixture, *OverdueService) {
	t.Helper()

	f := newEngineFixture(t, 0)
	svc := NewOverdueService(
		database.DB{},
		repositories.Repository{Room: f.rooms, Stay: f.stays},
		passTx{},
		f.settings,
		f.clock,
	)
	return f, svc
}

func TestSweepFlagsOverdueCheckIn(t *testing.T) {
	f, svc := newOverdueFixture(t)
	room := f.addRoom(RoomStatusBooked)
	stay := f.addStay(room, StayStatusBooked, utcDate(2026, time.May, 3), utcDate(2026, time.May, 5))

	// Check-in window opened at 14:00; grace is two hours.
	f.clock.Set(f.localTime(2026, time.May, 3, 16, 30, 0))
	require.NoError(t, svc.Sweep(context.Background()))

	assert.True(t, stay.NeedsAction)
	require.NotNil(t, stay.NeedsActionReason)
	assert.Equal(t, NeedsActionOverdueCheckIn, *stay.NeedsActionReason)
}

func TestSweepIgnoresFutureBookings(t *testing.T) {
	f, svc := newOverdueFixture(t)
	room := f.addRoom(RoomStatusBooked)
	stay := f.addStay(room, StayStatusBooked, utcDate(2026, time.May, 10), utcDate(2026, time.May, 12))

	f.clock.Set(f.localTime(2026, time.May, 3, 16, 30, 0))
	require.NoError(t, svc.Sweep(context.Background()))

	assert.False(t, stay.NeedsAction)
}

func TestSweepFlagsOverdueCheckOutAndClearsResolved(t *testing.T) {
	f, svc := newOverdueFixture(t)
	room := f.addRoom(RoomStatusOccupied)
	lingering := f.addStay(room, StayStatusOccupied, utcDate(2026, time.May, 1), utcDate(2026, time.May, 3))

	other := f.addRoom(RoomStatusBooked)
	resolved := f.addStay(other, StayStatusBooked, utcDate(2026, time.May, 4), utcDate(2026, time.May, 6))
	reason := NeedsActionOverdueCheckIn
	resolved.NeedsAction = true
	resolved.NeedsActionReason = &reason

	// Checkout was 10:00 on the 3rd; well past grace by 13:00.
	f.clock.Set(f.localTime(2026, time.May, 3, 13, 0, 0))
	require.NoError(t, svc.Sweep(context.Background()))

	assert.True(t, lingering.NeedsAction)
	require.NotNil(t, lingering.NeedsActionReason)
	assert.Equal(t, NeedsActionOverdueCheckOut, *lingering.NeedsActionReason)

	assert.False(t, resolved.NeedsAction)
}
