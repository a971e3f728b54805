package tools

import "time"

// ClockLayout renders local time like a browser's toLocaleString in en-US.
const ClockLayout = "1/2/2006, 3:04:05 PM"

// Clock reads the current local time. Tests substitute a fixed clock.
type Clock func() time.Time

// SystemClock is the wall clock in the local time zone.
func SystemClock() time.Time {
	return time.Now()
}

// Now returns the current date and time as a human-readable string.
func (c Clock) Now() string {
	if c == nil {
		c = SystemClock
	}
	return c().Format(ClockLayout)
}
