package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"innkeep/internal/database"
	. "innkeep/internal/models"
	"innkeep/internal/policy"
	"innkeep/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// passTx runs the unit of work without a real transaction; the fakes below
// ignore the tx handle.
type passTx struct{}

func (passTx) Execute(ctx context.Context, fn func(context.Context, *gorm.DB) error) error {
	return fn(ctx, nil)
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type fakeRoomRepo struct {
	rooms        map[uuid.UUID]*Room
	statusWrites int
	failOn       map[uuid.UUID]bool
}

func newFakeRoomRepo() *fakeRoomRepo {
	return &fakeRoomRepo{rooms: make(map[uuid.UUID]*Room), failOn: make(map[uuid.UUID]bool)}
}

func (r *fakeRoomRepo) GetRoomsForReconciliation(
	ctx context.Context, tx *gorm.DB, adminID *uuid.UUID,
) ([]*Room, error) {
	var out []*Room
	for _, room := range r.rooms {
		out = append(out, room)
	}
	return out, nil
}

func (r *fakeRoomRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Room, error) {
	return r.GetByIDForUpdate(ctx, tx, id)
}

func (r *fakeRoomRepo) GetByIDForUpdate(
	ctx context.Context, tx *gorm.DB, id uuid.UUID,
) (*Room, error) {
	if r.failOn[id] {
		return nil, errors.New("simulated persistence failure")
	}
	room, ok := r.rooms[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return room, nil
}

func (r *fakeRoomRepo) GetBoardForOwner(
	ctx context.Context, tx *gorm.DB, adminID uuid.UUID,
) ([]*Room, error) {
	return nil, nil
}

func (r *fakeRoomRepo) Create(ctx context.Context, tx *gorm.DB, room *Room) error {
	room.Status = RoomStatusFree
	r.rooms[room.ID] = room
	return nil
}

func (r *fakeRoomRepo) UpdateStatus(
	ctx context.Context, tx *gorm.DB, roomID uuid.UUID, status RoomStatus,
) (bool, error) {
	room, ok := r.rooms[roomID]
	if !ok || room.Status == status {
		return false, nil
	}
	room.Status = status
	r.statusWrites++
	return true, nil
}

func (r *fakeRoomRepo) ClearBoardCache(ctx context.Context, adminID uuid.UUID) error {
	return nil
}

type fakeStayRepo struct {
	stays        map[uuid.UUID]*Stay
	adminByRoom  map[uuid.UUID]uuid.UUID
	statusWrites int
}

func newFakeStayRepo() *fakeStayRepo {
	return &fakeStayRepo{
		stays:       make(map[uuid.UUID]*Stay),
		adminByRoom: make(map[uuid.UUID]uuid.UUID),
	}
}

func (r *fakeStayRepo) GetCandidateStays(
	ctx context.Context, tx *gorm.DB, roomID uuid.UUID, today time.Time,
) ([]*Stay, error) {
	var out []*Stay
	for _, stay := range r.stays {
		if stay.RoomID != roomID {
			continue
		}
		covering := stay.IsActive() && !stay.CheckIn.After(today) && !stay.CheckOut.Before(today)
		future := stay.Status == StayStatusBooked && stay.CheckIn.After(today)
		stale := stay.Status == StayStatusOccupied && stay.CheckOut.Before(today)
		if covering || future || stale {
			out = append(out, stay)
		}
	}
	return out, nil
}

func (r *fakeStayRepo) GetByIDForOwner(
	ctx context.Context, tx *gorm.DB, stayID, adminID uuid.UUID,
) (*Stay, error) {
	stay, ok := r.stays[stayID]
	if !ok || r.adminByRoom[stay.RoomID] != adminID {
		return nil, gorm.ErrRecordNotFound
	}
	return stay, nil
}

func (r *fakeStayRepo) GetActiveForSweep(ctx context.Context, tx *gorm.DB) ([]*Stay, error) {
	var out []*Stay
	for _, stay := range r.stays {
		if stay.IsActive() {
			out = append(out, stay)
		}
	}
	return out, nil
}

func (r *fakeStayRepo) HasOverlap(
	ctx context.Context, tx *gorm.DB, roomID uuid.UUID, checkIn, checkOut time.Time,
) (bool, error) {
	for _, stay := range r.stays {
		if stay.RoomID == roomID && stay.IsActive() &&
			stay.CheckIn.Before(checkOut) && stay.CheckOut.After(checkIn) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeStayRepo) Create(ctx context.Context, tx *gorm.DB, stay *Stay) error {
	r.stays[stay.ID] = stay
	return nil
}

func (r *fakeStayRepo) UpdateStatus(
	ctx context.Context, tx *gorm.DB, stayID uuid.UUID, status StayStatus,
) (bool, error) {
	stay, ok := r.stays[stayID]
	if !ok || stay.Status == status {
		return false, nil
	}
	stay.Status = status
	r.statusWrites++
	return true, nil
}

func (r *fakeStayRepo) SetNeedsAction(
	ctx context.Context, tx *gorm.DB, stayID uuid.UUID, reason *string,
) (bool, error) {
	stay, ok := r.stays[stayID]
	if !ok {
		return false, nil
	}
	stay.NeedsAction = reason != nil
	stay.NeedsActionReason = reason
	return true, nil
}

type engineFixture struct {
	rooms    *fakeRoomRepo
	stays    *fakeStayRepo
	clock    *testClock
	settings policy.Settings
	engine   *ReconciliationService
}

func newEngineFixture(t *testing.T, tolerance time.Duration) *engineFixture {
	t.Helper()

	loc, err := time.LoadLocation("Europe/Prague")
	require.NoError(t, err)

	settings := policy.Settings{
		Location:            loc,
		DefaultCheckInHour:  14,
		DefaultCheckOutHour: 10,
		Tolerance:           tolerance,
	}

	rooms := newFakeRoomRepo()
	stays := newFakeStayRepo()
	clock := &testClock{}

	engine := NewReconciliationService(
		database.DB{},
		repositories.Repository{Room: rooms, Stay: stays},
		passTx{},
		nil,
		settings,
		clock,
	)

	return &engineFixture{
		rooms:    rooms,
		stays:    stays,
		clock:    clock,
		settings: settings,
		engine:   engine,
	}
}

func (f *engineFixture) addRoom(status RoomStatus) *Room {
	room := &Room{
		BaseUUIDModel: BaseUUIDModel{ID: uuid.New()},
		AdminID:       uuid.New(),
		Name:          "101",
		Status:        status,
	}
	f.rooms.rooms[room.ID] = room
	f.stays.adminByRoom[room.ID] = room.AdminID
	return room
}

func (f *engineFixture) addStay(room *Room, status StayStatus, checkIn, checkOut time.Time) *Stay {
	stay := &Stay{
		BaseUUIDModel: BaseUUIDModel{ID: uuid.New()},
		RoomID:        room.ID,
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		Status:        status,
	}
	f.stays.stays[stay.ID] = stay
	return stay
}

func (f *engineFixture) localTime(y int, m time.Month, d, hour, min, sec int) time.Time {
	return time.Date(y, m, d, hour, min, sec, 0, f.settings.Location)
}

func utcDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestTickPromotesStartedBooking(t *testing.T) {
	f := newEngineFixture(t, 0)
	room := f.addRoom(RoomStatusBooked)
	stay := f.addStay(room, StayStatusBooked, utcDate(2026, time.May, 3), utcDate(2026, time.May, 5))

	f.clock.Set(f.localTime(2026, time.May, 3, 14, 0, 1))
	require.NoError(t, f.engine.Tick(context.Background()))

	assert.Equal(t, StayStatusOccupied, stay.Status)
	assert.Equal(t, RoomStatusOccupied, room.Status)
}

func TestTickDoesNotPromoteBeforeCheckInHour(t *testing.T) {
	f := newEngineFixture(t, 0)
	room := f.addRoom(RoomStatusBooked)
	stay := f.addStay(room, StayStatusBooked, utcDate(2026, time.May, 3), utcDate(2026, time.May, 5))

	f.clock.Set(f.localTime(2026, time.May, 3, 9, 0, 0))
	require.NoError(t, f.engine.Tick(context.Background()))

	assert.Equal(t, StayStatusBooked, stay.Status)
	// The booking has started at the date level but its window has not
	// opened, and it is not a future booking either: the room reads free
	// until the check-in hour.
	assert.Equal(t, RoomStatusFree, room.Status)
}

func TestTickToleranceAbsorbsSchedulerJitter(t *testing.T) {
	f := newEngineFixture(t, 59*time.Second)
	room := f.addRoom(RoomStatusBooked)
	stay := f.addStay(room, StayStatusBooked, utcDate(2026, time.May, 3), utcDate(2026, time.May, 5))

	// 13:59:30 + 59s tolerance crosses the 14:00 check-in instant.
	f.clock.Set(f.localTime(2026, time.May, 3, 13, 59, 30))
	require.NoError(t, f.engine.Tick(context.Background()))

	assert.Equal(t, StayStatusOccupied, stay.Status)
	assert.Equal(t, RoomStatusOccupied, room.Status)
}

func TestTickCompletionWithNextBookingChains(t *testing.T) {
	f := newEngineFixture(t, 0)
	room := f.addRoom(RoomStatusOccupied)
	leaving := f.addStay(room, StayStatusOccupied, utcDate(2026, time.May, 1), utcDate(2026, time.May, 3))
	arriving := f.addStay(room, StayStatusBooked, utcDate(2026, time.May, 3), utcDate(2026, time.May, 5))

	// Past the leaver's 10:00 checkout and past the arriver's 14:00 check-in.
	f.clock.Set(f.localTime(2026, time.May, 3, 15, 0, 0))
	require.NoError(t, f.engine.Tick(context.Background()))

	assert.Equal(t, StayStatusCompleted, leaving.Status)
	assert.Equal(t, StayStatusOccupied, arriving.Status)
	assert.Equal(t, RoomStatusOccupied, room.Status)
}

func TestTickCompletionWithoutNextBooking(t *testing.T) {
	f := newEngineFixture(t, 0)
	room := f.addRoom(RoomStatusOccupied)
	leaving := f.addStay(room, StayStatusOccupied, utcDate(2026, time.May, 1), utcDate(2026, time.May, 3))

	f.clock.Set(f.localTime(2026, time.May, 3, 11, 0, 0))
	require.NoError(t, f.engine.Tick(context.Background()))

	assert.Equal(t, StayStatusCompleted, leaving.Status)
	assert.Equal(t, RoomStatusFree, room.Status)
}

func TestTickCompletesStayStrandedPastCheckout(t *testing.T) {
	f := newEngineFixture(t, 0)
	room := f.addRoom(RoomStatusOccupied)
	stay := f.addStay(room, StayStatusOccupied, utcDate(2026, time.May, 1), utcDate(2026, time.May, 3))

	// No tick ran across the checkout date (process downtime); days later
	// the stay must still complete and release the room.
	f.clock.Set(f.localTime(2026, time.May, 5, 12, 0, 0))
	require.NoError(t, f.engine.Tick(context.Background()))

	assert.Equal(t, StayStatusCompleted, stay.Status)
	assert.Equal(t, RoomStatusFree, room.Status)
}

func TestTickCompletionWithFutureBooking(t *testing.T) {
	f := newEngineFixture(t, 0)
	room := f.addRoom(RoomStatusOccupied)
	leaving := f.addStay(room, StayStatusOccupied, utcDate(2026, time.May, 1), utcDate(2026, time.May, 3))
	future := f.addStay(room, StayStatusBooked, utcDate(2026, time.May, 10), utcDate(2026, time.May, 12))

	f.clock.Set(f.localTime(2026, time.May, 3, 11, 0, 0))
	require.NoError(t, f.engine.Tick(context.Background()))

	assert.Equal(t, StayStatusCompleted, leaving.Status)
	assert.Equal(t, StayStatusBooked, future.Status)
	assert.Equal(t, RoomStatusBooked, room.Status)
}

func TestTickIsIdempotent(t *testing.T) {
	f := newEngineFixture(t, 0)
	room := f.addRoom(RoomStatusBooked)
	f.addStay(room, StayStatusBooked, utcDate(2026, time.May, 3), utcDate(2026, time.May, 5))
	other := f.addRoom(RoomStatusOccupied)
	f.addStay(other, StayStatusOccupied, utcDate(2026, time.May, 1), utcDate(2026, time.May, 3))

	f.clock.Set(f.localTime(2026, time.May, 3, 15, 0, 0))
	require.NoError(t, f.engine.Tick(context.Background()))

	roomWrites := f.rooms.statusWrites
	stayWrites := f.stays.statusWrites
	assert.Greater(t, roomWrites+stayWrites, 0)

	// Same instant, no external mutation: the second sweep must not write.
	require.NoError(t, f.engine.Tick(context.Background()))
	assert.Equal(t, roomWrites, f.rooms.statusWrites)
	assert.Equal(t, stayWrites, f.stays.statusWrites)
}

func TestTickPublishesOnlyPersistedRoomChanges(t *testing.T) {
	f := newEngineFixture(t, 0)
	pub := &recordingPublisher{}
	engine := NewReconciliationService(
		database.DB{},
		repositories.Repository{Room: f.rooms, Stay: f.stays},
		passTx{},
		pub,
		f.settings,
		f.clock,
	)
	room := f.addRoom(RoomStatusBooked)
	f.addStay(room, StayStatusBooked, utcDate(2026, time.May, 3), utcDate(2026, time.May, 5))

	f.clock.Set(f.localTime(2026, time.May, 3, 15, 0, 0))
	require.NoError(t, engine.Tick(context.Background()))

	events := pub.recorded()
	require.Len(t, events, 1)
	assert.Equal(t, room.ID, events[0].RoomID)
	assert.Equal(t, RoomStatusOccupied, events[0].To)

	// The no-op second sweep writes nothing, so it broadcasts nothing.
	require.NoError(t, engine.Tick(context.Background()))
	assert.Len(t, pub.recorded(), 1)
}

func TestTickNeverRevisitsTerminalStays(t *testing.T) {
	f := newEngineFixture(t, 0)
	room := f.addRoom(RoomStatusFree)
	cancelled := f.addStay(room, StayStatusCancelled, utcDate(2026, time.May, 3), utcDate(2026, time.May, 5))

	f.clock.Set(f.localTime(2026, time.May, 3, 15, 0, 0))
	require.NoError(t, f.engine.Tick(context.Background()))

	assert.Equal(t, StayStatusCancelled, cancelled.Status)
	assert.Equal(t, RoomStatusFree, room.Status)
	assert.Zero(t, f.stays.statusWrites)
}

func TestTickContinuesSweepAfterRoomFailure(t *testing.T) {
	f := newEngineFixture(t, 0)
	broken := f.addRoom(RoomStatusBooked)
	f.rooms.failOn[broken.ID] = true
	healthy := f.addRoom(RoomStatusBooked)
	stay := f.addStay(healthy, StayStatusBooked, utcDate(2026, time.May, 3), utcDate(2026, time.May, 5))

	f.clock.Set(f.localTime(2026, time.May, 3, 15, 0, 0))
	err := f.engine.Tick(context.Background())

	assert.Error(t, err)
	assert.Equal(t, StayStatusOccupied, stay.Status)
	assert.Equal(t, RoomStatusOccupied, healthy.Status)
}

func TestReconcileRoomScopedToOneRoom(t *testing.T) {
	f := newEngineFixture(t, 0)
	target := f.addRoom(RoomStatusBooked)
	stay := f.addStay(target, StayStatusBooked, utcDate(2026, time.May, 3), utcDate(2026, time.May, 5))
	untouched := f.addRoom(RoomStatusBooked)
	otherStay := f.addStay(untouched, StayStatusBooked, utcDate(2026, time.May, 3), utcDate(2026, time.May, 5))

	f.clock.Set(f.localTime(2026, time.May, 3, 15, 0, 0))
	require.NoError(t, f.engine.ReconcileRoom(context.Background(), target.ID))

	assert.Equal(t, StayStatusOccupied, stay.Status)
	assert.Equal(t, RoomStatusOccupied, target.Status)
	assert.Equal(t, StayStatusBooked, otherStay.Status)
	assert.Equal(t, RoomStatusBooked, untouched.Status)
}

func TestRoomHourOverridesShiftTheWindow(t *testing.T) {
	f := newEngineFixture(t, 0)
	room := f.addRoom(RoomStatusBooked)
	early, lateOut := 8, 20
	room.CheckInHour = &early
	room.CheckOutHour = &lateOut
	stay := f.addStay(room, StayStatusBooked, utcDate(2026, time.May, 3), utcDate(2026, time.May, 5))

	// 09:00 is before the default 14:00 check-in but after this room's 08:00.
	f.clock.Set(f.localTime(2026, time.May, 3, 9, 0, 0))
	require.NoError(t, f.engine.Tick(context.Background()))

	assert.Equal(t, StayStatusOccupied, stay.Status)
	assert.Equal(t, RoomStatusOccupied, room.Status)
}
