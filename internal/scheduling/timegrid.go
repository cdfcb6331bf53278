// Package scheduling implements the room/time-slot engine behind the
// calendar: resolving which doctor covers a room at a moment, which
// appointment occupies a cell, conflict detection across current and
// legacy rows, schedule-fit checks and the drag-and-drop move flow.
//
// Everything here is a pure function over an immutable Snapshot, except
// the DragController which sequences one gesture at a time.
package scheduling

import (
	"fmt"
	"time"
)

// DefaultSlotMinutes is the width of one grid cell and the assumed
// duration of an appointment with no end time.
const DefaultSlotMinutes = 30

// GridConfig collapses the knobs that used to be scattered across the
// old calendar screens into one place.
type GridConfig struct {
	DayStart           string        // first slot of the day, "HH:MM"
	DayEnd             string        // end of day, exclusive
	SlotMinutes        int           // grid step
	DefaultSlotMinutes int           // duration assumed when end time is absent
	RefreshQuiescence  time.Duration // how long after drag-end background refresh stays suppressed
}

func DefaultGridConfig() GridConfig {
	return GridConfig{
		DayStart:           "08:00",
		DayEnd:             "20:00",
		SlotMinutes:        DefaultSlotMinutes,
		DefaultSlotMinutes: DefaultSlotMinutes,
		RefreshQuiescence:  2 * time.Second,
	}
}

// ToMinutes parses an "HH:MM" wall-clock string into minutes since
// midnight. Malformed input is an error, never a silent zero.
func ToMinutes(t string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(t, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("malformed time %q: %w", t, err)
	}
	if len(t) != 5 || t[2] != ':' {
		return 0, fmt.Errorf("malformed time %q: want HH:MM", t)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("time %q out of range", t)
	}
	return h*60 + m, nil
}

func minutesToTime(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// IsWithin reports whether point falls inside [start, end). A nil end
// means the interval is a single instant: only an exact start match
// counts. The end is exclusive so back-to-back slots never touch.
func IsWithin(start string, end *string, point string) (bool, error) {
	s, err := ToMinutes(start)
	if err != nil {
		return false, err
	}
	p, err := ToMinutes(point)
	if err != nil {
		return false, err
	}
	if end == nil {
		return p == s, nil
	}
	e, err := ToMinutes(*end)
	if err != nil {
		return false, err
	}
	return s <= p && p < e, nil
}

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
// A nil end is widened to DefaultSlotMinutes for overlap purposes only.
func (c GridConfig) Overlaps(aStart string, aEnd *string, bStart string, bEnd *string) (bool, error) {
	as, ae, err := c.span(aStart, aEnd)
	if err != nil {
		return false, err
	}
	bs, be, err := c.span(bStart, bEnd)
	if err != nil {
		return false, err
	}
	return as < be && bs < ae, nil
}

func (c GridConfig) span(start string, end *string) (int, int, error) {
	s, err := ToMinutes(start)
	if err != nil {
		return 0, 0, err
	}
	if end == nil {
		d := c.DefaultSlotMinutes
		if d <= 0 {
			d = DefaultSlotMinutes
		}
		return s, s + d, nil
	}
	e, err := ToMinutes(*end)
	if err != nil {
		return 0, 0, err
	}
	return s, e, nil
}

// GenerateSlots returns the slot start times of the half-open window
// [dayStart, dayEnd) in stepMinutes increments.
func GenerateSlots(dayStart, dayEnd string, stepMinutes int) ([]string, error) {
	if stepMinutes <= 0 {
		return nil, fmt.Errorf("invalid slot step %d", stepMinutes)
	}
	s, err := ToMinutes(dayStart)
	if err != nil {
		return nil, err
	}
	e, err := ToMinutes(dayEnd)
	if err != nil {
		return nil, err
	}
	var slots []string
	for m := s; m < e; m += stepMinutes {
		slots = append(slots, minutesToTime(m))
	}
	return slots, nil
}

// Slots generates the configured day window.
func (c GridConfig) Slots() ([]string, error) {
	return GenerateSlots(c.DayStart, c.DayEnd, c.SlotMinutes)
}

// Weekday maps a calendar date to the Monday-based day index used by
// schedule blocks: 0 = Monday .. 6 = Sunday.
func Weekday(date string) (int, error) {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return 0, fmt.Errorf("malformed date %q: %w", date, err)
	}
	return (int(d.Weekday()) + 6) % 7, nil
}
