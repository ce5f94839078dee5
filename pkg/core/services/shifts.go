package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mhartkopf/einsatzplan/pkg/core/model"
	"github.com/mhartkopf/einsatzplan/pkg/core/scheduling"
)

// ErrInvalidTimeRange rejects shifts whose end is not after their start.
// The check runs before any conflict check and leaves the store untouched.
var ErrInvalidTimeRange = errors.New("shift end must be after shift start")

// ShiftStore is the store surface the shift mutations need
type ShiftStore interface {
	Shifts(ctx context.Context) ([]model.Shift, error)
	ShiftByID(ctx context.Context, id string) (*model.Shift, error)
	InsertShift(shift model.Shift) error
	ReplaceShift(shift model.Shift) error
	DeleteShift(id string) error
	Flush(ctx context.Context) error
}

// ShiftData carries the caller-supplied fields for a new shift
type ShiftData struct {
	StartsAt    time.Time
	EndsAt      time.Time
	TeamID      string
	LocationID  string
	EventID     string
	Type        string
	Required    []model.ShiftRequirement
	Assignments []model.Assignment
	Status      model.ShiftStatus
	Notes       string
}

// AddShiftResult reports either the created shift or the booking conflict
// that rejected it. Exactly one of Shift and Conflict is set.
type AddShiftResult struct {
	Shift    *model.Shift
	Conflict *scheduling.Conflict
}

// AddShift creates a new shift. Only the location half of the conflict
// check runs on creation, matching the edit path being the sole place
// where assignment conflicts can appear. On conflict nothing is stored.
func AddShift(ctx context.Context, store ShiftStore, logger *zap.Logger, data ShiftData) (*AddShiftResult, error) {
	if !data.EndsAt.After(data.StartsAt) {
		return nil, ErrInvalidTimeRange
	}

	shifts, err := store.Shifts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shifts: %w", err)
	}

	shift := model.Shift{
		ID:          uuid.New().String(),
		StartsAt:    data.StartsAt,
		EndsAt:      data.EndsAt,
		TeamID:      data.TeamID,
		LocationID:  data.LocationID,
		EventID:     data.EventID,
		Type:        data.Type,
		Required:    data.Required,
		Assignments: data.Assignments,
		Status:      data.Status,
		Notes:       data.Notes,
	}
	if shift.Status == "" {
		shift.Status = model.ShiftPlanned
	}

	if conflict := scheduling.CheckLocationConflict(shift, shifts, ""); !conflict.None() {
		logger.Info("Shift creation rejected by location conflict",
			zap.String("location_id", shift.LocationID),
			zap.String("conflicting_shift", conflict.Other.ID))
		return &AddShiftResult{Conflict: &conflict}, nil
	}

	if err := store.InsertShift(shift); err != nil {
		return nil, fmt.Errorf("failed to insert shift: %w", err)
	}
	if err := store.Flush(ctx); err != nil {
		return nil, err
	}

	logger.Info("Shift created",
		zap.String("shift_id", shift.ID),
		zap.String("type", shift.Type),
		zap.Time("starts_at", shift.StartsAt))

	return &AddShiftResult{Shift: &shift}, nil
}

// UpdateShiftResult reports the outcome of the general edit path. When
// Conflict is set the store was left unchanged and Notifications is empty.
type UpdateShiftResult struct {
	Shift         *model.Shift
	Conflict      *scheduling.Conflict
	Notifications []model.Notification
}

// UpdateShift replaces a stored shift with an edited version. The full
// conflict check runs against the rest of the schedule, excluding the
// shift's own stored version; the first conflict found rejects the whole
// edit. On success notifications are emitted in a fixed order: newly
// assigned users, removed users, then a time-change notice to the
// post-update assignee set when the window moved.
func UpdateShift(ctx context.Context, store ShiftStore, logger *zap.Logger, updated model.Shift) (*UpdateShiftResult, error) {
	original, err := store.ShiftByID(ctx, updated.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shift: %w", err)
	}

	if !updated.EndsAt.After(updated.StartsAt) {
		return nil, ErrInvalidTimeRange
	}

	shifts, err := store.Shifts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shifts: %w", err)
	}

	// Re-running the full check on every edit, whether or not location or
	// time actually changed, keeps the first-found conflict deterministic.
	if conflict := scheduling.CheckShiftConflict(updated, shifts, updated.ID); !conflict.None() {
		logger.Info("Shift update rejected by conflict",
			zap.String("shift_id", updated.ID),
			zap.String("kind", string(conflict.Kind)),
			zap.String("conflicting_shift", conflict.Other.ID))
		return &UpdateShiftResult{Conflict: &conflict}, nil
	}

	if err := store.ReplaceShift(updated); err != nil {
		return nil, fmt.Errorf("failed to replace shift: %w", err)
	}
	if err := store.Flush(ctx); err != nil {
		return nil, err
	}

	notifications := diffNotifications(*original, updated)

	logger.Info("Shift updated",
		zap.String("shift_id", updated.ID),
		zap.Int("notifications", len(notifications)))

	return &UpdateShiftResult{Shift: &updated, Notifications: notifications}, nil
}

// diffNotifications compares assignee sets and the time window of the
// original and updated shift and builds the resulting notifications in
// emission order.
func diffNotifications(original, updated model.Shift) []model.Notification {
	originalIDs := original.AssignedUserIDs()
	updatedIDs := updated.AssignedUserIDs()

	originalSet := make(map[string]bool, len(originalIDs))
	for _, id := range originalIDs {
		originalSet[id] = true
	}
	updatedSet := make(map[string]bool, len(updatedIDs))
	for _, id := range updatedIDs {
		updatedSet[id] = true
	}

	var notifications []model.Notification
	for _, userID := range updatedIDs {
		if !originalSet[userID] {
			notifications = append(notifications, model.Notification{
				UserID:  userID,
				Message: fmt.Sprintf("You have been assigned to shift %q on %s.", updated.Type, formatShiftDate(updated.StartsAt)),
			})
		}
	}
	for _, userID := range originalIDs {
		if !updatedSet[userID] {
			notifications = append(notifications, model.Notification{
				UserID:  userID,
				Message: fmt.Sprintf("You have been removed from shift %q on %s.", updated.Type, formatShiftDate(updated.StartsAt)),
			})
		}
	}

	if !original.StartsAt.Equal(updated.StartsAt) || !original.EndsAt.Equal(updated.EndsAt) {
		for _, userID := range updatedIDs {
			notifications = append(notifications, model.Notification{
				UserID:  userID,
				Message: fmt.Sprintf("The time for shift %q has changed.", updated.Type),
			})
		}
	}

	return notifications
}

// DeleteShift removes a shift and returns a cancellation notice for every
// user who was assigned to it. ChangeRequests referencing the shift keep
// their id; a later approval simply finds nothing to act on.
func DeleteShift(ctx context.Context, store ShiftStore, logger *zap.Logger, id string) ([]model.Notification, error) {
	shift, err := store.ShiftByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shift: %w", err)
	}

	var notifications []model.Notification
	for _, userID := range shift.AssignedUserIDs() {
		notifications = append(notifications, model.Notification{
			UserID:  userID,
			Message: fmt.Sprintf("The shift %q on %s has been cancelled.", shift.Type, formatShiftDate(shift.StartsAt)),
		})
	}

	if err := store.DeleteShift(id); err != nil {
		return nil, fmt.Errorf("failed to delete shift: %w", err)
	}
	if err := store.Flush(ctx); err != nil {
		return nil, err
	}

	logger.Info("Shift deleted",
		zap.String("shift_id", id),
		zap.Int("notified_users", len(notifications)))

	return notifications, nil
}

func formatShiftDate(t time.Time) string {
	return t.Format("2006-01-02")
}
