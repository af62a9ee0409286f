package domain

import (
	"fmt"
	"strconv"
	"strings"
)

const MinutesPerDay = 24 * 60

// TimeWindow is a same-day delivery slot in minutes after midnight.
// Both bounds are inclusive: a stop reached at exactly End is on time.
type TimeWindow struct {
	Start int
	End   int
}

// ParseTimeWindow parses "HH:MM-HH:MM". Surrounding whitespace is ignored and
// "24:00" is accepted as an end of day. Zero-width, inverted or malformed
// windows are rejected with ErrInvalidTimeWindow.
func ParseTimeWindow(s string) (TimeWindow, error) {
	startText, endText, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return TimeWindow{}, fmt.Errorf("parse time window %q: expected HH:MM-HH:MM: %w", s, ErrInvalidTimeWindow)
	}

	start, err := parseClock(startText)
	if err != nil {
		return TimeWindow{}, fmt.Errorf("parse time window %q: start: %w", s, err)
	}
	end, err := parseClock(endText)
	if err != nil {
		return TimeWindow{}, fmt.Errorf("parse time window %q: end: %w", s, err)
	}

	w := TimeWindow{Start: start, End: end}
	if err := w.Validate(); err != nil {
		return TimeWindow{}, fmt.Errorf("parse time window %q: %w", s, err)
	}
	return w, nil
}

func (w TimeWindow) Validate() error {
	if w.Start < 0 || w.End > MinutesPerDay {
		return fmt.Errorf("window %d-%d outside the day: %w", w.Start, w.End, ErrInvalidTimeWindow)
	}
	if w.End <= w.Start {
		return fmt.Errorf("end must be after start: %w", ErrInvalidTimeWindow)
	}
	return nil
}

// Contains reports whether minute t lies inside the window, bounds included.
func (w TimeWindow) Contains(t int) bool {
	return t >= w.Start && t <= w.End
}

// Span is the window length in minutes.
func (w TimeWindow) Span() int { return w.End - w.Start }

func (w TimeWindow) String() string {
	return FormatClock(w.Start) + "-" + FormatClock(w.End)
}

// FormatClock renders minutes after midnight as HH:MM.
func FormatClock(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseClock parses a single "HH:MM" value into minutes after midnight.
func ParseClock(s string) (int, error) {
	return parseClock(s)
}

func parseClock(s string) (int, error) {
	hText, mText, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("clock %q: expected HH:MM: %w", s, ErrInvalidTimeWindow)
	}
	h, err := strconv.Atoi(strings.TrimSpace(hText))
	if err != nil {
		return 0, fmt.Errorf("clock %q: hour: %w", s, ErrInvalidTimeWindow)
	}
	m, err := strconv.Atoi(strings.TrimSpace(mText))
	if err != nil {
		return 0, fmt.Errorf("clock %q: minute: %w", s, ErrInvalidTimeWindow)
	}
	if m < 0 || m > 59 || h < 0 || h > 24 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("clock %q out of range: %w", s, ErrInvalidTimeWindow)
	}
	return h*60 + m, nil
}
