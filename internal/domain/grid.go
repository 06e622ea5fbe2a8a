package domain

import (
	"fmt"
	"time"
)

// TimeOfDay is a clock time expressed as minutes since midnight.
type TimeOfDay int16

func MinuteOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	return MinuteOfDay(t.Hour(), t.Minute()), nil
}

func (t TimeOfDay) Hour() int {
	return int(t) / 60
}

func (t TimeOfDay) Minute() int {
	return int(t) % 60
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// At anchors the time of day on the given calendar date in UTC.
func (t TimeOfDay) At(date time.Time) time.Time {
	d := date.UTC()
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
}

// DateOf truncates a moment to its UTC calendar date.
func DateOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// GridConfig describes the bookable portion of a business day. Slots start at
// StartHour:00 and repeat every StepMinutes; EndHour:00 itself is excluded.
type GridConfig struct {
	StartHour   int
	EndHour     int
	StepMinutes int
}

func DefaultGrid() GridConfig {
	return GridConfig{StartHour: 9, EndHour: 18, StepMinutes: 30}
}

// Slots enumerates every bookable time of day in ascending order.
func (c GridConfig) Slots() []TimeOfDay {
	start := MinuteOfDay(c.StartHour, 0)
	end := MinuteOfDay(c.EndHour, 0)
	if c.StepMinutes <= 0 || end <= start {
		return nil
	}

	out := make([]TimeOfDay, 0, int(end-start)/c.StepMinutes)
	for t := start; t < end; t += TimeOfDay(c.StepMinutes) {
		out = append(out, t)
	}
	return out
}

// OnGrid reports whether t is one of the slots Slots would enumerate.
func (c GridConfig) OnGrid(t TimeOfDay) bool {
	start := MinuteOfDay(c.StartHour, 0)
	end := MinuteOfDay(c.EndHour, 0)
	if c.StepMinutes <= 0 || end <= start {
		return false
	}
	return t >= start && t < end && int(t-start)%c.StepMinutes == 0
}
