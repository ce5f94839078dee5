package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mhartkopf/einsatzplan/pkg/core/model"
	"github.com/mhartkopf/einsatzplan/pkg/core/scheduling"
)

func TestAssignUser_Success(t *testing.T) {
	mock := &mockStore{
		shifts: []model.Shift{
			{ID: "s1", Type: "Service", TeamID: "team-1", LocationID: "loc-1", StartsAt: at(9, 0), EndsAt: at(12, 0)},
		},
		users: []model.User{
			{ID: "u1", FirstName: "Mara", LastName: "Klein", TeamID: "team-1"},
		},
	}

	result, err := AssignUser(context.Background(), mock, zap.NewNop(), "s1", "u1", false)
	require.NoError(t, err)
	assert.Nil(t, result.Conflict)
	assert.False(t, result.NeedsConfirmation)

	require.Len(t, mock.shifts[0].Assignments, 1)
	assignment := mock.shifts[0].Assignments[0]
	assert.Equal(t, "u1", assignment.UserID)
	assert.Equal(t, model.AssignmentConfirmed, assignment.Status)
	assert.NotEmpty(t, assignment.ID)

	require.Len(t, result.Notifications, 1)
	assert.Equal(t, "u1", result.Notifications[0].UserID)
	assert.Contains(t, result.Notifications[0].Message, "assigned")
}

func TestAssignUser_AlreadyAssigned(t *testing.T) {
	mock := &mockStore{
		shifts: []model.Shift{
			{ID: "s1", LocationID: "loc-1", StartsAt: at(9, 0), EndsAt: at(12, 0), Assignments: confirmed("u1")},
		},
		users: []model.User{{ID: "u1"}},
	}

	_, err := AssignUser(context.Background(), mock, zap.NewNop(), "s1", "u1", false)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already assigned")
	assert.Len(t, mock.shifts[0].Assignments, 1)
}

func TestAssignUser_NeedsConfirmation(t *testing.T) {
	mock := &mockStore{
		shifts: []model.Shift{
			{
				ID: "s1", LocationID: "loc-1", StartsAt: at(9, 0), EndsAt: at(12, 0),
				Required: []model.ShiftRequirement{{QualificationID: "first-aid", Count: 1}},
			},
		},
		users: []model.User{
			{ID: "u1", QualificationIDs: []string{"forklift"}},
		},
	}

	result, err := AssignUser(context.Background(), mock, zap.NewNop(), "s1", "u1", false)
	require.NoError(t, err)
	assert.True(t, result.NeedsConfirmation)
	assert.Nil(t, result.Shift)

	// Nothing mutated
	assert.Empty(t, mock.shifts[0].Assignments)
	assert.Equal(t, 0, mock.flushCount)
}

func TestAssignUser_ForceOverridesQualificationCheck(t *testing.T) {
	mock := &mockStore{
		shifts: []model.Shift{
			{
				ID: "s1", LocationID: "loc-1", StartsAt: at(9, 0), EndsAt: at(12, 0),
				Required: []model.ShiftRequirement{{QualificationID: "first-aid", Count: 1}},
			},
		},
		users: []model.User{
			{ID: "u1", QualificationIDs: []string{"forklift"}},
		},
	}

	result, err := AssignUser(context.Background(), mock, zap.NewNop(), "s1", "u1", true)
	require.NoError(t, err)
	assert.False(t, result.NeedsConfirmation)
	assert.Nil(t, result.Conflict)
	assert.Len(t, mock.shifts[0].Assignments, 1)
}

func TestAssignUser_DoubleBookingRejected(t *testing.T) {
	mock := &mockStore{
		shifts: []model.Shift{
			{ID: "s1", LocationID: "loc-1", StartsAt: at(9, 0), EndsAt: at(12, 0)},
			{ID: "s2", LocationID: "loc-2", StartsAt: at(10, 0), EndsAt: at(13, 0), Assignments: confirmed("u1")},
		},
		users: []model.User{{ID: "u1"}},
	}

	result, err := AssignUser(context.Background(), mock, zap.NewNop(), "s1", "u1", false)
	require.NoError(t, err)
	require.NotNil(t, result.Conflict)
	assert.Equal(t, scheduling.ConflictUser, result.Conflict.Kind)
	assert.Equal(t, "u1", result.Conflict.UserID)
	assert.Equal(t, "s2", result.Conflict.Other.ID)

	// Store untouched on rejection
	assert.Empty(t, mock.shifts[0].Assignments)
	assert.Equal(t, 0, mock.flushCount)
}

func TestAssignUser_UnknownUser(t *testing.T) {
	mock := &mockStore{
		shifts: []model.Shift{
			{ID: "s1", LocationID: "loc-1", StartsAt: at(9, 0), EndsAt: at(12, 0)},
		},
	}

	_, err := AssignUser(context.Background(), mock, zap.NewNop(), "s1", "ghost", false)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch user")
}

func TestUnassignUser_Success(t *testing.T) {
	mock := &mockStore{
		shifts: []model.Shift{
			{
				ID: "s1", Type: "Service", LocationID: "loc-1",
				StartsAt: at(9, 0), EndsAt: at(12, 0),
				Assignments: confirmed("u1", "u2"),
			},
		},
		users: []model.User{{ID: "u1"}, {ID: "u2"}},
	}

	result, err := UnassignUser(context.Background(), mock, zap.NewNop(), "s1", "u1")
	require.NoError(t, err)
	assert.Nil(t, result.Conflict)

	require.Len(t, mock.shifts[0].Assignments, 1)
	assert.Equal(t, "u2", mock.shifts[0].Assignments[0].UserID)

	require.Len(t, result.Notifications, 1)
	assert.Equal(t, "u1", result.Notifications[0].UserID)
	assert.Contains(t, result.Notifications[0].Message, "removed")
}

func TestUnassignUser_NotAssigned(t *testing.T) {
	mock := &mockStore{
		shifts: []model.Shift{
			{ID: "s1", LocationID: "loc-1", StartsAt: at(9, 0), EndsAt: at(12, 0)},
		},
	}

	_, err := UnassignUser(context.Background(), mock, zap.NewNop(), "s1", "u1")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not assigned")
}

func TestAssignableUsers(t *testing.T) {
	vacationStart := at(0, 0)
	vacationEnd := at(23, 59)

	mock := &mockStore{
		shifts: []model.Shift{
			{
				ID: "s1", TeamID: "team-1", LocationID: "loc-1",
				StartsAt: at(9, 0), EndsAt: at(12, 0),
				Assignments: confirmed("u1"),
			},
		},
		users: []model.User{
			{ID: "u1", TeamID: "team-1"}, // already assigned
			{ID: "u2", TeamID: "team-1"}, // candidate
			{ID: "u3", TeamID: "team-2"}, // wrong team
			{ID: "u4", TeamID: "team-1"}, // absent
		},
		absences: []model.Absence{
			{ID: "a1", UserID: "u4", StartsAt: vacationStart, EndsAt: vacationEnd},
		},
	}

	candidates, err := AssignableUsers(context.Background(), mock, "s1")
	require.NoError(t, err)

	require.Len(t, candidates, 1)
	assert.Equal(t, "u2", candidates[0].ID)
}

func TestAssignableUsers_AbsenceEndingBeforeShiftStart(t *testing.T) {
	mock := &mockStore{
		shifts: []model.Shift{
			{ID: "s1", TeamID: "team-1", LocationID: "loc-1", StartsAt: at(9, 0), EndsAt: at(12, 0)},
		},
		users: []model.User{
			{ID: "u1", TeamID: "team-1"},
		},
		absences: []model.Absence{
			// Ends an hour before the shift starts
			{ID: "a1", UserID: "u1", StartsAt: at(0, 0), EndsAt: at(8, 0)},
		},
	}

	candidates, err := AssignableUsers(context.Background(), mock, "s1")
	require.NoError(t, err)
	assert.Len(t, candidates, 1)
}
