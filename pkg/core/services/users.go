package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mhartkopf/einsatzplan/pkg/core/model"
)

// UserStore is the store surface profile edits need
type UserStore interface {
	UserByID(ctx context.Context, id string) (*model.User, error)
	ReplaceUser(user model.User) error
	Flush(ctx context.Context) error
}

// EditUser replaces a stored user profile with an edited version. The id
// and team membership are fixed; a profile edit never moves a user between
// teams, so existing assignments and candidate lists stay valid.
func EditUser(ctx context.Context, store UserStore, logger *zap.Logger, updated model.User) (*model.User, error) {
	original, err := store.UserByID(ctx, updated.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	if updated.FirstName == "" || updated.LastName == "" {
		return nil, fmt.Errorf("user %s must keep a first and last name", updated.ID)
	}
	if !updated.Role.IsValid() {
		return nil, fmt.Errorf("invalid role %q", updated.Role)
	}
	if updated.TeamID != original.TeamID {
		return nil, fmt.Errorf("user %s cannot change team through a profile edit", updated.ID)
	}

	if err := store.ReplaceUser(updated); err != nil {
		return nil, fmt.Errorf("failed to replace user: %w", err)
	}
	if err := store.Flush(ctx); err != nil {
		return nil, err
	}

	logger.Info("User profile updated",
		zap.String("user_id", updated.ID),
		zap.String("name", updated.FullName()))

	return &updated, nil
}
