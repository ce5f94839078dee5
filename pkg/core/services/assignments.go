package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mhartkopf/einsatzplan/pkg/core/model"
	"github.com/mhartkopf/einsatzplan/pkg/core/scheduling"
)

// AssignmentStore adds the user and absence reads assignment mutations
// need on top of the shift mutations.
type AssignmentStore interface {
	ShiftStore
	Users(ctx context.Context) ([]model.User, error)
	UserByID(ctx context.Context, id string) (*model.User, error)
	Absences(ctx context.Context) ([]model.Absence, error)
}

// AssignUserResult reports the outcome of assigning a user to a shift.
// NeedsConfirmation is a soft warning: the candidate holds none of the
// shift's required qualifications and the caller must re-run with force
// after getting explicit confirmation. Nothing was mutated in that case.
type AssignUserResult struct {
	Shift             *model.Shift
	Conflict          *scheduling.Conflict
	NeedsConfirmation bool
	Notifications     []model.Notification
}

// AssignUser appends a new confirmed assignment for the user and applies
// it through the general edit path, so the full conflict check runs before
// anything is stored.
func AssignUser(ctx context.Context, store AssignmentStore, logger *zap.Logger, shiftID, userID string, force bool) (*AssignUserResult, error) {
	shift, err := store.ShiftByID(ctx, shiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shift: %w", err)
	}
	user, err := store.UserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	if shift.HasAssignment(userID) {
		return nil, fmt.Errorf("user %s is already assigned to shift %s", userID, shiftID)
	}

	if !force && !scheduling.HoldsRequiredQualification(*shift, *user) {
		logger.Info("Assignment needs confirmation, candidate holds no required qualification",
			zap.String("shift_id", shiftID),
			zap.String("user_id", userID))
		return &AssignUserResult{NeedsConfirmation: true}, nil
	}

	updated := *shift
	updated.Assignments = append(append([]model.Assignment(nil), shift.Assignments...), model.Assignment{
		ID:     uuid.New().String(),
		UserID: userID,
		Status: model.AssignmentConfirmed,
	})

	result, err := UpdateShift(ctx, store, logger, updated)
	if err != nil {
		return nil, err
	}

	return &AssignUserResult{
		Shift:         result.Shift,
		Conflict:      result.Conflict,
		Notifications: result.Notifications,
	}, nil
}

// UnassignUser removes every assignment the user has on the shift and
// applies the change through the general edit path.
func UnassignUser(ctx context.Context, store AssignmentStore, logger *zap.Logger, shiftID, userID string) (*UpdateShiftResult, error) {
	shift, err := store.ShiftByID(ctx, shiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shift: %w", err)
	}

	if !shift.HasAssignment(userID) {
		return nil, fmt.Errorf("user %s is not assigned to shift %s", userID, shiftID)
	}

	updated := *shift
	updated.Assignments = make([]model.Assignment, 0, len(shift.Assignments))
	for _, a := range shift.Assignments {
		if a.UserID != userID {
			updated.Assignments = append(updated.Assignments, a)
		}
	}

	return UpdateShift(ctx, store, logger, updated)
}

// AssignableUsers lists the candidates for a shift: members of the
// shift's team who are not already assigned and not absent at the shift's
// start.
func AssignableUsers(ctx context.Context, store AssignmentStore, shiftID string) ([]model.User, error) {
	shift, err := store.ShiftByID(ctx, shiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shift: %w", err)
	}
	users, err := store.Users(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	absences, err := store.Absences(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch absences: %w", err)
	}

	candidates := make([]model.User, 0)
	for _, user := range users {
		if user.TeamID != shift.TeamID || shift.HasAssignment(user.ID) {
			continue
		}
		if scheduling.IsUserAbsent(absences, user.ID, shift.StartsAt) {
			continue
		}
		candidates = append(candidates, user)
	}

	return candidates, nil
}
