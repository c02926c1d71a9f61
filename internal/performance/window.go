package performance

import (
	"fmt"
	"time"
)

// Window is the period over which counters are aggregated
type Window string

const (
	WindowAll    Window = "all"
	Window30Days Window = "30d"
	Window7Days  Window = "7d"
)

// Windows lists every supported window in report order
var Windows = []Window{WindowAll, Window30Days, Window7Days}

// ParseWindow accepts "", "all", "30d" and "7d". The empty string means all time.
func ParseWindow(s string) (Window, error) {
	switch Window(s) {
	case "", WindowAll:
		return WindowAll, nil
	case Window30Days, Window7Days:
		return Window(s), nil
	}
	return "", fmt.Errorf("invalid performance window: %q", s)
}

// Since returns the lower bound of the window relative to now, or nil for all time
func (w Window) Since(now time.Time) *time.Time {
	var since time.Time
	switch w {
	case Window30Days:
		since = now.AddDate(0, 0, -30)
	case Window7Days:
		since = now.AddDate(0, 0, -7)
	default:
		return nil
	}
	return &since
}
