// Package biztime centralizes clock access. All storage and transport use UTC.
// The merchant timezone is only used when rendering times for operators.
package biztime

import (
	"fmt"
	"sync"
	"time"
)

const (
	// DefaultTimezone is the default merchant timezone.
	DefaultTimezone = "Europe/Amsterdam"
)

var (
	bizLocation     *time.Location
	bizLocationOnce sync.Once
	initErr         error

	now = time.Now
)

// Init sets the merchant timezone. Should be called once at startup.
// If tz is empty, defaults to Europe/Amsterdam.
func Init(tz string) error {
	bizLocationOnce.Do(func() {
		if tz == "" {
			tz = DefaultTimezone
		}
		bizLocation, initErr = time.LoadLocation(tz)
	})
	return initErr
}

// Location returns the merchant timezone, initializing the default if needed.
func Location() *time.Location {
	if bizLocation == nil {
		if err := Init(""); err != nil {
			panic(fmt.Sprintf("biztime: failed to auto-initialize with default timezone: %v", err))
		}
	}
	return bizLocation
}

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return now().UTC()
}

// GatewayTimestamp formats t the way the gateway expects in request headers.
func GatewayTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// ToLocal converts a stored UTC time into the merchant timezone for display.
func ToLocal(t time.Time) time.Time {
	return t.In(Location())
}
