package domain

import "time"

// SlotStatus annotates one grid slot with its bookability for a given date.
type SlotStatus struct {
	Slot      TimeOfDay
	Available bool
}

// ComputeAvailability annotates the full grid for a date. A slot is
// unavailable when it is booked, or, on the current day, when its time of day
// has already elapsed. Dates strictly before now's date are rejected with
// ErrPastDate.
func ComputeAvailability(date, now time.Time, cfg GridConfig, booked map[TimeOfDay]bool) ([]SlotStatus, error) {
	day := DateOf(date)
	today := DateOf(now)
	if day.Before(today) {
		return nil, ErrPastDate
	}
	sameDay := day.Equal(today)

	slots := cfg.Slots()
	out := make([]SlotStatus, 0, len(slots))
	for _, s := range slots {
		available := !booked[s]
		if sameDay && !s.At(day).After(now.UTC()) {
			available = false
		}
		out = append(out, SlotStatus{Slot: s, Available: available})
	}
	return out, nil
}
