package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mhartkopf/einsatzplan/pkg/core/model"
	"github.com/mhartkopf/einsatzplan/pkg/core/scheduling"
)

func at(hour, min int) time.Time {
	return time.Date(2026, 3, 2, hour, min, 0, 0, time.UTC)
}

func confirmed(userIDs ...string) []model.Assignment {
	assignments := make([]model.Assignment, 0, len(userIDs))
	for i, id := range userIDs {
		assignments = append(assignments, model.Assignment{
			ID:     userIDs[i] + "-assignment",
			UserID: id,
			Status: model.AssignmentConfirmed,
		})
	}
	return assignments
}

func TestAddShift_Success(t *testing.T) {
	mock := &mockStore{}
	logger := zap.NewNop()
	ctx := context.Background()

	result, err := AddShift(ctx, mock, logger, ShiftData{
		Type:       "Evening supervision",
		TeamID:     "team-1",
		LocationID: "loc-1",
		StartsAt:   at(18, 0),
		EndsAt:     at(22, 0),
	})
	require.NoError(t, err)
	require.NotNil(t, result.Shift)
	assert.Nil(t, result.Conflict)

	assert.NotEmpty(t, result.Shift.ID)
	assert.Equal(t, model.ShiftPlanned, result.Shift.Status)

	require.Len(t, mock.shifts, 1)
	assert.Equal(t, result.Shift.ID, mock.shifts[0].ID)
	assert.Equal(t, 1, mock.flushCount)
}

func TestAddShift_KeepsExplicitStatus(t *testing.T) {
	mock := &mockStore{}

	result, err := AddShift(context.Background(), mock, zap.NewNop(), ShiftData{
		Type:       "Workshop",
		LocationID: "loc-1",
		StartsAt:   at(9, 0),
		EndsAt:     at(12, 0),
		Status:     model.ShiftConfirmed,
	})
	require.NoError(t, err)
	assert.Equal(t, model.ShiftConfirmed, result.Shift.Status)
}

func TestAddShift_InvalidTimeRange(t *testing.T) {
	mock := &mockStore{}

	tests := []struct {
		name     string
		startsAt time.Time
		endsAt   time.Time
	}{
		{"end before start", at(12, 0), at(9, 0)},
		{"zero-length shift", at(12, 0), at(12, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := AddShift(context.Background(), mock, zap.NewNop(), ShiftData{
				LocationID: "loc-1",
				StartsAt:   tt.startsAt,
				EndsAt:     tt.endsAt,
			})
			assert.ErrorIs(t, err, ErrInvalidTimeRange)
			assert.Empty(t, mock.shifts)
			assert.Equal(t, 0, mock.flushCount)
		})
	}
}

func TestAddShift_LocationConflict(t *testing.T) {
	mock := &mockStore{
		shifts: []model.Shift{
			{ID: "s1", LocationID: "loc-1", StartsAt: at(9, 0), EndsAt: at(12, 0)},
		},
	}

	result, err := AddShift(context.Background(), mock, zap.NewNop(), ShiftData{
		LocationID: "loc-1",
		StartsAt:   at(11, 0),
		EndsAt:     at(14, 0),
	})
	require.NoError(t, err)
	assert.Nil(t, result.Shift)
	require.NotNil(t, result.Conflict)
	assert.Equal(t, scheduling.ConflictLocation, result.Conflict.Kind)
	assert.Equal(t, "s1", result.Conflict.Other.ID)

	// Nothing stored on rejection
	assert.Len(t, mock.shifts, 1)
	assert.Equal(t, 0, mock.flushCount)
}

func TestAddShift_UserOverlapDoesNotBlockCreation(t *testing.T) {
	// Creation checks locations only; a pre-assigned user already booked
	// elsewhere does not reject the new shift.
	mock := &mockStore{
		shifts: []model.Shift{
			{ID: "s1", LocationID: "loc-1", StartsAt: at(9, 0), EndsAt: at(12, 0), Assignments: confirmed("u1")},
		},
	}

	result, err := AddShift(context.Background(), mock, zap.NewNop(), ShiftData{
		LocationID:  "loc-2",
		StartsAt:    at(10, 0),
		EndsAt:      at(13, 0),
		Assignments: confirmed("u1"),
	})
	require.NoError(t, err)
	assert.Nil(t, result.Conflict)
	require.NotNil(t, result.Shift)
	assert.Len(t, mock.shifts, 2)
}

func TestAddShift_TouchingShiftsAreLegal(t *testing.T) {
	mock := &mockStore{
		shifts: []model.Shift{
			{ID: "s1", LocationID: "loc-1", StartsAt: at(9, 0), EndsAt: at(12, 0)},
		},
	}

	result, err := AddShift(context.Background(), mock, zap.NewNop(), ShiftData{
		LocationID: "loc-1",
		StartsAt:   at(12, 0),
		EndsAt:     at(15, 0),
	})
	require.NoError(t, err)
	assert.Nil(t, result.Conflict)
	require.NotNil(t, result.Shift)
}

func TestUpdateShift_Success(t *testing.T) {
	mock := &mockStore{
		shifts: []model.Shift{
			{ID: "s1", Type: "Service", LocationID: "loc-1", StartsAt: at(9, 0), EndsAt: at(12, 0)},
		},
	}

	updated := mock.shifts[0]
	updated.Notes = "bring the spare keys"

	result, err := UpdateShift(context.Background(), mock, zap.NewNop(), updated)
	require.NoError(t, err)
	assert.Nil(t, result.Conflict)
	assert.Equal(t, "bring the spare keys", mock.shifts[0].Notes)
	assert.Empty(t, result.Notifications)
	assert.Equal(t, 1, mock.flushCount)
}

func TestUpdateShift_RejectedByConflict(t *testing.T) {
	mock := &mockStore{
		shifts: []model.Shift{
			{ID: "s1", LocationID: "loc-1", StartsAt: at(9, 0), EndsAt: at(12, 0)},
			{ID: "s2", LocationID: "loc-2", StartsAt: at(9, 0), EndsAt: at(12, 0)},
		},
	}

	// Move s2 into loc-1, colliding with s1
	updated := mock.shifts[1]
	updated.LocationID = "loc-1"

	result, err := UpdateShift(context.Background(), mock, zap.NewNop(), updated)
	require.NoError(t, err)
	require.NotNil(t, result.Conflict)
	assert.Equal(t, scheduling.ConflictLocation, result.Conflict.Kind)
	assert.Empty(t, result.Notifications)

	// Store untouched
	assert.Equal(t, "loc-2", mock.shifts[1].LocationID)
	assert.Equal(t, 0, mock.flushCount)
}

func TestUpdateShift_InvalidTimeRange(t *testing.T) {
	mock := &mockStore{
		shifts: []model.Shift{
			{ID: "s1", LocationID: "loc-1", StartsAt: at(9, 0), EndsAt: at(12, 0)},
		},
	}

	updated := mock.shifts[0]
	updated.EndsAt = updated.StartsAt

	_, err := UpdateShift(context.Background(), mock, zap.NewNop(), updated)
	assert.ErrorIs(t, err, ErrInvalidTimeRange)
	assert.Equal(t, at(12, 0), mock.shifts[0].EndsAt)
}

func TestUpdateShift_UnknownShift(t *testing.T) {
	mock := &mockStore{}

	_, err := UpdateShift(context.Background(), mock, zap.NewNop(), model.Shift{
		ID: "missing", StartsAt: at(9, 0), EndsAt: at(12, 0),
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch shift")
}

func TestUpdateShift_NotificationOrder(t *testing.T) {
	mock := &mockStore{
		shifts: []model.Shift{
			{
				ID: "s1", Type: "Evening supervision", LocationID: "loc-1",
				StartsAt: at(18, 0), EndsAt: at(22, 0),
				Assignments: confirmed("u1", "u2"),
			},
		},
	}

	// One edit that adds u3, removes u1, and moves the window
	updated := mock.shifts[0]
	updated.Assignments = confirmed("u2", "u3")
	updated.StartsAt = at(19, 0)
	updated.EndsAt = at(23, 0)

	result, err := UpdateShift(context.Background(), mock, zap.NewNop(), updated)
	require.NoError(t, err)
	require.Nil(t, result.Conflict)

	// Order: newly assigned, then removed, then time-change to the
	// post-update assignee set.
	require.Len(t, result.Notifications, 4)

	assert.Equal(t, "u3", result.Notifications[0].UserID)
	assert.Equal(t, `You have been assigned to shift "Evening supervision" on 2026-03-02.`, result.Notifications[0].Message)

	assert.Equal(t, "u1", result.Notifications[1].UserID)
	assert.Equal(t, `You have been removed from shift "Evening supervision" on 2026-03-02.`, result.Notifications[1].Message)

	assert.Equal(t, "u2", result.Notifications[2].UserID)
	assert.Equal(t, `The time for shift "Evening supervision" has changed.`, result.Notifications[2].Message)
	assert.Equal(t, "u3", result.Notifications[3].UserID)
	assert.Equal(t, `The time for shift "Evening supervision" has changed.`, result.Notifications[3].Message)
}

func TestUpdateShift_NoTimeChangeNoTimeNotice(t *testing.T) {
	mock := &mockStore{
		shifts: []model.Shift{
			{
				ID: "s1", Type: "Service", LocationID: "loc-1",
				StartsAt: at(9, 0), EndsAt: at(12, 0),
				Assignments: confirmed("u1"),
			},
		},
	}

	updated := mock.shifts[0]
	updated.Notes = "updated"

	result, err := UpdateShift(context.Background(), mock, zap.NewNop(), updated)
	require.NoError(t, err)
	assert.Empty(t, result.Notifications)
}

func TestDeleteShift_NotifiesAssignees(t *testing.T) {
	mock := &mockStore{
		shifts: []model.Shift{
			{
				ID: "s1", Type: "Evening supervision", LocationID: "loc-1",
				StartsAt: at(18, 0), EndsAt: at(22, 0),
				Assignments: confirmed("u1", "u2"),
			},
		},
	}

	notifications, err := DeleteShift(context.Background(), mock, zap.NewNop(), "s1")
	require.NoError(t, err)

	assert.Empty(t, mock.shifts)
	assert.Equal(t, 1, mock.flushCount)

	require.Len(t, notifications, 2)
	assert.Equal(t, "u1", notifications[0].UserID)
	assert.Equal(t, "u2", notifications[1].UserID)
	assert.Equal(t, `The shift "Evening supervision" on 2026-03-02 has been cancelled.`, notifications[0].Message)
}

func TestDeleteShift_UnknownShift(t *testing.T) {
	mock := &mockStore{}

	_, err := DeleteShift(context.Background(), mock, zap.NewNop(), "missing")
	assert.Error(t, err)
	assert.Empty(t, mock.shifts)
}
