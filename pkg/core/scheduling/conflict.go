package scheduling

import (
	"fmt"

	"github.com/mhartkopf/einsatzplan/pkg/core/model"
)

// ConflictKind identifies the rule a candidate shift violates
type ConflictKind string

const (
	ConflictNone     ConflictKind = ""
	ConflictLocation ConflictKind = "location"
	ConflictUser     ConflictKind = "user"
)

// Conflict is the result of a conflict check. Kind is ConflictNone when the
// candidate is legal; otherwise Other points at the shift it collides with,
// and for user conflicts UserID names the double-booked person.
type Conflict struct {
	Kind   ConflictKind
	UserID string
	Other  *model.Shift
}

// None reports whether no conflict was found
func (c Conflict) None() bool {
	return c.Kind == ConflictNone
}

// Describe renders the conflict for human-facing output
func (c Conflict) Describe() string {
	switch c.Kind {
	case ConflictLocation:
		return fmt.Sprintf("location already booked by shift %s (%s → %s)",
			c.Other.ID,
			c.Other.StartsAt.Format("2006-01-02 15:04"),
			c.Other.EndsAt.Format("15:04"))
	case ConflictUser:
		return fmt.Sprintf("user %s is already on shift %s (%s → %s)",
			c.UserID,
			c.Other.ID,
			c.Other.StartsAt.Format("2006-01-02 15:04"),
			c.Other.EndsAt.Format("15:04"))
	}
	return "no conflict"
}

// CheckShiftConflict validates a candidate shift (new or edited) against
// every other shift in the schedule. excludeID is the candidate's own id
// when editing, so a shift never conflicts with its stored version.
//
// Checks run location-first, then per assigned user in assignment-list
// order, and the first conflict found wins; callers wanting an exhaustive
// list must re-run with exclusions. This is a pure query over the given
// slice; the same inputs always yield the same result.
func CheckShiftConflict(candidate model.Shift, all []model.Shift, excludeID string) Conflict {
	for i := range all {
		other := &all[i]
		if other.ID == excludeID {
			continue
		}
		if other.LocationID != candidate.LocationID {
			continue
		}
		if Overlaps(other.StartsAt, other.EndsAt, candidate.StartsAt, candidate.EndsAt) {
			return Conflict{Kind: ConflictLocation, Other: other}
		}
	}

	for _, userID := range candidate.AssignedUserIDs() {
		for i := range all {
			other := &all[i]
			if other.ID == excludeID || !other.HasAssignment(userID) {
				continue
			}
			if Overlaps(other.StartsAt, other.EndsAt, candidate.StartsAt, candidate.EndsAt) {
				return Conflict{Kind: ConflictUser, UserID: userID, Other: other}
			}
		}
	}

	return Conflict{}
}

// CheckLocationConflict runs only the location half of the conflict check.
// New shifts are validated with this alone, matching the creation path
// where no assignments exist yet to collide elsewhere.
func CheckLocationConflict(candidate model.Shift, all []model.Shift, excludeID string) Conflict {
	for i := range all {
		other := &all[i]
		if other.ID == excludeID {
			continue
		}
		if other.LocationID != candidate.LocationID {
			continue
		}
		if Overlaps(other.StartsAt, other.EndsAt, candidate.StartsAt, candidate.EndsAt) {
			return Conflict{Kind: ConflictLocation, Other: other}
		}
	}
	return Conflict{}
}
