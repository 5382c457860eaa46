package market

import (
	"fmt"
	"time"
)

// Hours is a daily trading window expressed as minutes since midnight.
// The market is open when Open <= now < Close.
type Hours struct {
	Open  int
	Close int
}

var (
	// DefaultHours is 09:30 to 16:00 local time.
	DefaultHours = Hours{Open: 9*60 + 30, Close: 16 * 60}
	// AlwaysOpen never closes.
	AlwaysOpen = Hours{Open: 0, Close: 24 * 60}
)

// ParseHours reads an "HH:MM" open and close pair.
func ParseHours(open, close string) (Hours, error) {
	o, err := parseClock(open)
	if err != nil {
		return Hours{}, fmt.Errorf("open: %w", err)
	}
	c, err := parseClock(close)
	if err != nil {
		return Hours{}, fmt.Errorf("close: %w", err)
	}
	if c <= o {
		return Hours{}, fmt.Errorf("close %s must be after open %s", close, open)
	}
	return Hours{Open: o, Close: c}, nil
}

func parseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// IsOpen reports whether t falls inside the window, using t's own location.
func (h Hours) IsOpen(t time.Time) bool {
	m := t.Hour()*60 + t.Minute()
	return m >= h.Open && m < h.Close
}

func (h Hours) String() string {
	return fmt.Sprintf("%02d:%02d-%02d:%02d", h.Open/60, h.Open%60, h.Close/60, h.Close%60)
}
