package appointments

import "time"

// Overlaps reports whether the half-open intervals
// [aStart, aStart+aMinutes) and [bStart, bStart+bMinutes) strictly overlap.
// Back-to-back intervals sharing a boundary do not overlap.
func Overlaps(aStart time.Time, aMinutes int, bStart time.Time, bMinutes int) bool {
	aEnd := aStart.Add(time.Duration(aMinutes) * time.Minute)
	bEnd := bStart.Add(time.Duration(bMinutes) * time.Minute)
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// blocksSlot reports whether an existing appointment participates in conflict
// checks. Canceled appointments free their slot.
func blocksSlot(s Status) bool {
	return s == StatusScheduled || s == StatusDone
}
