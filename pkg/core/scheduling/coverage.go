package scheduling

import (
	"slices"

	"github.com/mhartkopf/einsatzplan/pkg/core/model"
)

// CoverageCount holds the target and actual headcount for one required
// qualification on a shift.
type CoverageCount struct {
	Required  int
	Satisfied int
}

// Met reports whether the requirement is covered
func (c CoverageCount) Met() bool {
	return c.Satisfied >= c.Required
}

// Coverage computes per-qualification staffing for a shift. Satisfied
// counts the currently assigned users whose qualification set contains the
// requirement's qualification; unresolvable user ids contribute nothing.
// A requirement listed twice merges its counts.
func Coverage(shift model.Shift, usersByID map[string]model.User) map[string]CoverageCount {
	coverage := make(map[string]CoverageCount, len(shift.Required))

	for _, req := range shift.Required {
		count := coverage[req.QualificationID]
		count.Required += req.Count
		coverage[req.QualificationID] = count
	}

	for _, userID := range shift.AssignedUserIDs() {
		user, ok := usersByID[userID]
		if !ok {
			continue
		}
		for qualID, count := range coverage {
			if slices.Contains(user.QualificationIDs, qualID) {
				count.Satisfied++
				coverage[qualID] = count
			}
		}
	}

	return coverage
}

// HoldsRequiredQualification is the advisory pre-assignment check: it
// returns true when the shift has no requirements, or the candidate holds
// at least one of the required qualifications. A false result is a soft
// warning only; callers must seek explicit confirmation, not refuse.
func HoldsRequiredQualification(shift model.Shift, user model.User) bool {
	if len(shift.Required) == 0 {
		return true
	}
	for _, req := range shift.Required {
		if slices.Contains(user.QualificationIDs, req.QualificationID) {
			return true
		}
	}
	return false
}
