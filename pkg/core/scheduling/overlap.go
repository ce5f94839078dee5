package scheduling

import "time"

// Overlaps reports whether the half-open intervals [startA, endA) and
// [startB, endB) overlap. Touching endpoints do not count as overlap, so a
// shift ending at 12:00 never conflicts with one starting at 12:00.
func Overlaps(startA, endA, startB, endB time.Time) bool {
	return startA.Before(endB) && startB.Before(endA)
}
