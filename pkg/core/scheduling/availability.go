package scheduling

import (
	"time"

	"github.com/mhartkopf/einsatzplan/pkg/core/model"
)

// IsUserAbsent reports whether the user has an absence covering the given
// instant. Absence windows are inclusive on both ends, unlike shift
// intervals: someone on vacation until the 10th is unavailable on the 10th.
func IsUserAbsent(absences []model.Absence, userID string, at time.Time) bool {
	for _, a := range absences {
		if a.UserID != userID {
			continue
		}
		if !at.Before(a.StartsAt) && !at.After(a.EndsAt) {
			return true
		}
	}
	return false
}
