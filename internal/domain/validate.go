package domain

import "time"

// ValidateBookingTime checks a proposed (date, slot) pair against the grid and
// the supplied clock reading. The first failing check wins: ErrOffGrid for a
// time outside the grid, ErrNotFuture when date+slot is not strictly after now.
func ValidateBookingTime(date time.Time, slot TimeOfDay, now time.Time, cfg GridConfig) error {
	if !cfg.OnGrid(slot) {
		return ErrOffGrid
	}
	if !slot.At(date).After(now.UTC()) {
		return ErrNotFuture
	}
	return nil
}
