// Package timezone anchors session timestamps to a single fixed zone.
package timezone

import (
	"fmt"
	"strings"
	"time"
)

// SAST is South African Standard Time: UTC+2 with no daylight saving.
var SAST = time.FixedZone("SAST", 2*60*60)

// Resolve maps a configured zone name to SAST. Sessions are accounted in a
// zone without daylight saving, so any other name is rejected.
func Resolve(name string) (*time.Location, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "sast", "africa/johannesburg":
		return SAST, nil
	}
	return nil, fmt.Errorf("timezone: unsupported zone %q, only SAST (UTC+2) is supported", name)
}

// Clock produces instants in a fixed location.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// NewClock returns a wall clock in loc. A nil loc means SAST.
func NewClock(loc *time.Location) *Clock {
	return NewClockFunc(loc, time.Now)
}

// NewClockFunc is NewClock with an injectable time source.
func NewClockFunc(loc *time.Location, now func() time.Time) *Clock {
	if loc == nil {
		loc = SAST
	}
	if now == nil {
		now = time.Now
	}
	return &Clock{loc: loc, now: now}
}

// Now returns the current instant in the clock's location.
func (c *Clock) Now() time.Time {
	return c.now().In(c.loc)
}

// Location returns the clock's location.
func (c *Clock) Location() *time.Location {
	return c.loc
}

// In converts t to the clock's location without changing the instant.
func (c *Clock) In(t time.Time) time.Time {
	return t.In(c.loc)
}

// Localize attaches the clock's location to t's wall-clock fields, keeping
// them unchanged. Use it for timestamps that were stored without a zone.
func (c *Clock) Localize(t time.Time) time.Time {
	return Localize(t, c.loc)
}

// Localize reinterprets the wall-clock fields of t as being in loc.
func Localize(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
}
