package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhartkopf/einsatzplan/pkg/core/model"
)

func confirmed(userIDs ...string) []model.Assignment {
	assignments := make([]model.Assignment, 0, len(userIDs))
	for _, id := range userIDs {
		assignments = append(assignments, model.Assignment{UserID: id, Status: model.AssignmentConfirmed})
	}
	return assignments
}

func TestCheckShiftConflict_NoConflict(t *testing.T) {
	existing := []model.Shift{
		{ID: "s1", LocationID: "loc-1", StartsAt: at(9, 0), EndsAt: at(12, 0), Assignments: confirmed("u1")},
	}

	candidate := model.Shift{
		ID: "s2", LocationID: "loc-2",
		StartsAt: at(9, 0), EndsAt: at(12, 0),
		Assignments: confirmed("u2"),
	}

	conflict := CheckShiftConflict(candidate, existing, "")
	assert.True(t, conflict.None())
}

func TestCheckShiftConflict_LocationConflict(t *testing.T) {
	existing := []model.Shift{
		{ID: "s1", LocationID: "loc-1", StartsAt: at(9, 0), EndsAt: at(12, 0)},
	}

	candidate := model.Shift{
		ID: "s2", LocationID: "loc-1",
		StartsAt: at(11, 0), EndsAt: at(14, 0),
	}

	conflict := CheckShiftConflict(candidate, existing, "")
	assert.Equal(t, ConflictLocation, conflict.Kind)
	require.NotNil(t, conflict.Other)
	assert.Equal(t, "s1", conflict.Other.ID)
}

func TestCheckShiftConflict_UserConflict(t *testing.T) {
	existing := []model.Shift{
		{ID: "s1", LocationID: "loc-1", StartsAt: at(9, 0), EndsAt: at(12, 0), Assignments: confirmed("u1")},
	}

	candidate := model.Shift{
		ID: "s2", LocationID: "loc-2",
		StartsAt: at(10, 0), EndsAt: at(13, 0),
		Assignments: confirmed("u1"),
	}

	conflict := CheckShiftConflict(candidate, existing, "")
	assert.Equal(t, ConflictUser, conflict.Kind)
	assert.Equal(t, "u1", conflict.UserID)
	require.NotNil(t, conflict.Other)
	assert.Equal(t, "s1", conflict.Other.ID)
}

func TestCheckShiftConflict_LocationWinsOverUser(t *testing.T) {
	// Candidate collides with s1 on location and with s2 on a user;
	// location is checked first so it wins.
	existing := []model.Shift{
		{ID: "s1", LocationID: "loc-1", StartsAt: at(9, 0), EndsAt: at(12, 0)},
		{ID: "s2", LocationID: "loc-2", StartsAt: at(9, 0), EndsAt: at(12, 0), Assignments: confirmed("u1")},
	}

	candidate := model.Shift{
		ID: "s3", LocationID: "loc-1",
		StartsAt: at(10, 0), EndsAt: at(13, 0),
		Assignments: confirmed("u1"),
	}

	conflict := CheckShiftConflict(candidate, existing, "")
	assert.Equal(t, ConflictLocation, conflict.Kind)
	require.NotNil(t, conflict.Other)
	assert.Equal(t, "s1", conflict.Other.ID)
}

func TestCheckShiftConflict_FirstUserInAssignmentOrderWins(t *testing.T) {
	existing := []model.Shift{
		{ID: "s1", LocationID: "loc-2", StartsAt: at(9, 0), EndsAt: at(12, 0), Assignments: confirmed("u2")},
		{ID: "s2", LocationID: "loc-3", StartsAt: at(9, 0), EndsAt: at(12, 0), Assignments: confirmed("u1")},
	}

	candidate := model.Shift{
		ID: "s3", LocationID: "loc-1",
		StartsAt: at(10, 0), EndsAt: at(13, 0),
		Assignments: confirmed("u1", "u2"),
	}

	// u1 comes first in the candidate's assignment list, so the u1
	// conflict is reported even though u2's shift is listed first.
	conflict := CheckShiftConflict(candidate, existing, "")
	assert.Equal(t, ConflictUser, conflict.Kind)
	assert.Equal(t, "u1", conflict.UserID)
}

func TestCheckShiftConflict_ExcludesOwnStoredVersion(t *testing.T) {
	existing := []model.Shift{
		{ID: "s1", LocationID: "loc-1", StartsAt: at(9, 0), EndsAt: at(12, 0), Assignments: confirmed("u1")},
	}

	// Editing s1 in place: it must not conflict with its stored version.
	candidate := model.Shift{
		ID: "s1", LocationID: "loc-1",
		StartsAt: at(9, 30), EndsAt: at(12, 30),
		Assignments: confirmed("u1"),
	}

	conflict := CheckShiftConflict(candidate, existing, "s1")
	assert.True(t, conflict.None())
}

func TestCheckShiftConflict_TouchingShiftsAreLegal(t *testing.T) {
	existing := []model.Shift{
		{ID: "s1", LocationID: "loc-1", StartsAt: at(9, 0), EndsAt: at(12, 0), Assignments: confirmed("u1")},
	}

	candidate := model.Shift{
		ID: "s2", LocationID: "loc-1",
		StartsAt: at(12, 0), EndsAt: at(15, 0),
		Assignments: confirmed("u1"),
	}

	conflict := CheckShiftConflict(candidate, existing, "")
	assert.True(t, conflict.None())
}

func TestCheckShiftConflict_DeterministicForSameInputs(t *testing.T) {
	existing := []model.Shift{
		{ID: "s1", LocationID: "loc-1", StartsAt: at(9, 0), EndsAt: at(12, 0)},
		{ID: "s2", LocationID: "loc-1", StartsAt: at(11, 0), EndsAt: at(14, 0)},
	}

	candidate := model.Shift{
		ID: "s3", LocationID: "loc-1",
		StartsAt: at(10, 0), EndsAt: at(13, 0),
	}

	first := CheckShiftConflict(candidate, existing, "")
	second := CheckShiftConflict(candidate, existing, "")
	assert.Equal(t, first.Kind, second.Kind)
	assert.Equal(t, first.Other.ID, second.Other.ID)
}

func TestCheckLocationConflict_IgnoresUserCollisions(t *testing.T) {
	existing := []model.Shift{
		{ID: "s1", LocationID: "loc-2", StartsAt: at(9, 0), EndsAt: at(12, 0), Assignments: confirmed("u1")},
	}

	candidate := model.Shift{
		ID: "s2", LocationID: "loc-1",
		StartsAt: at(10, 0), EndsAt: at(13, 0),
		Assignments: confirmed("u1"),
	}

	conflict := CheckLocationConflict(candidate, existing, "")
	assert.True(t, conflict.None())
}

func TestCheckLocationConflict_DetectsLocationCollision(t *testing.T) {
	existing := []model.Shift{
		{ID: "s1", LocationID: "loc-1", StartsAt: at(9, 0), EndsAt: at(12, 0)},
	}

	candidate := model.Shift{
		ID: "s2", LocationID: "loc-1",
		StartsAt: at(11, 0), EndsAt: at(14, 0),
	}

	conflict := CheckLocationConflict(candidate, existing, "")
	assert.Equal(t, ConflictLocation, conflict.Kind)
}
