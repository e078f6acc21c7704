package policy

import (
	"time"

	"innkeep/config"
)

// Settings carries the process-wide hotel policy configuration. It is built
// once at startup and passed explicitly; nothing in this package reads
// globals, so tests can exercise multiple timezones and defaults.
type Settings struct {
	Location            *time.Location
	DefaultCheckInHour  int
	DefaultCheckOutHour int

	// Tolerance absorbs scheduler trigger jitter: the engine evaluates
	// windows against now+Tolerance so a tick firing just before a policy
	// hour still picks the transition up.
	Tolerance time.Duration
}

func NewSettings(cfg config.Config) (Settings, error) {
	loc, err := time.LoadLocation(cfg.HotelTimezone)
	if err != nil {
		return Settings{}, err
	}

	return Settings{
		Location:            loc,
		DefaultCheckInHour:  cfg.DefaultCheckInHour,
		DefaultCheckOutHour: cfg.DefaultCheckOutHour,
		Tolerance:           time.Duration(cfg.TickToleranceSeconds) * time.Second,
	}, nil
}
