package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mhartkopf/einsatzplan/pkg/core/model"
	"github.com/mhartkopf/einsatzplan/pkg/db"
)

// RequestStore is the store surface request creation and resolution need
type RequestStore interface {
	Requests(ctx context.Context) ([]model.ChangeRequest, error)
	RequestByID(ctx context.Context, id string) (*model.ChangeRequest, error)
	InsertRequest(req model.ChangeRequest) error
	ReplaceRequest(req model.ChangeRequest) error
	ShiftByID(ctx context.Context, id string) (*model.Shift, error)
	ReplaceShift(shift model.Shift) error
	InsertAbsence(absence model.Absence) error
	Flush(ctx context.Context) error
}

// RequestData carries the caller-supplied fields for a new change request
type RequestData struct {
	ShiftID          string
	RequesterID      string
	Type             model.RequestType
	SubstituteUserID string
	Comment          string
	// Vacation window, vacation requests only
	StartsAt *time.Time
	EndsAt   *time.Time
}

// CreateRequest files a new pending change request
func CreateRequest(ctx context.Context, store RequestStore, logger *zap.Logger, data RequestData) (*model.ChangeRequest, error) {
	if !data.Type.IsValid() {
		return nil, fmt.Errorf("invalid request type %q", data.Type)
	}
	if data.RequesterID == "" {
		return nil, errors.New("requester id must not be empty")
	}

	req := model.ChangeRequest{
		ID:               uuid.New().String(),
		ShiftID:          data.ShiftID,
		RequesterID:      data.RequesterID,
		Type:             data.Type,
		SubstituteUserID: data.SubstituteUserID,
		Comment:          data.Comment,
		Status:           model.RequestPending,
		CreatedAt:        time.Now(),
		StartsAt:         data.StartsAt,
		EndsAt:           data.EndsAt,
	}

	if err := store.InsertRequest(req); err != nil {
		return nil, fmt.Errorf("failed to insert change request: %w", err)
	}
	if err := store.Flush(ctx); err != nil {
		return nil, err
	}

	logger.Info("Change request created",
		zap.String("request_id", req.ID),
		zap.String("type", string(req.Type)),
		zap.String("requester_id", req.RequesterID))

	return &req, nil
}

// Resolution reports the outcome of approving or declining a request.
// UpdatedShift and CreatedAbsence are set only when the corresponding
// side effect actually ran.
type Resolution struct {
	Request        *model.ChangeRequest
	UpdatedShift   *model.Shift
	CreatedAbsence *model.Absence
	Notifications  []model.Notification
}

// ApproveRequest moves a request to its approved terminal state and
// applies the type-specific side effect. The transition itself never
// fails on a dangling payload: a substitution whose shift is gone, or a
// vacation without a window, still resolves and notifies the requester,
// only the side effect is skipped. The engine does not verify the request
// is still pending; callers must check before invoking it.
func ApproveRequest(ctx context.Context, store RequestStore, logger *zap.Logger, requestID, resolvedBy string) (*Resolution, error) {
	req, err := store.RequestByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch change request: %w", err)
	}

	now := time.Now()
	req.Status = model.RequestApproved
	req.ResolvedAt = &now
	req.ResolvedBy = resolvedBy

	resolution := &Resolution{
		Request: req,
		Notifications: []model.Notification{
			{UserID: req.RequesterID, Message: fmt.Sprintf("Your request (%s) has been approved.", req.Type)},
		},
	}

	switch req.Type {
	case model.RequestSubstitution:
		if req.SubstituteUserID != "" && req.ShiftID != "" {
			if err := applySubstitution(ctx, store, logger, req, resolution); err != nil {
				return nil, err
			}
		}
	case model.RequestVacation:
		if req.StartsAt != nil && req.EndsAt != nil {
			absence := model.Absence{
				ID:       uuid.New().String(),
				UserID:   req.RequesterID,
				StartsAt: *req.StartsAt,
				EndsAt:   *req.EndsAt,
				Type:     model.AbsenceTypeVacation,
				Status:   model.AbsenceStatusApproved,
			}
			if err := store.InsertAbsence(absence); err != nil {
				return nil, fmt.Errorf("failed to insert absence: %w", err)
			}
			resolution.CreatedAbsence = &absence
		}
	case model.RequestChange:
		// The actual edit, if any, happens later through UpdateShift.
	}

	if err := store.ReplaceRequest(*req); err != nil {
		return nil, fmt.Errorf("failed to replace change request: %w", err)
	}
	if err := store.Flush(ctx); err != nil {
		return nil, err
	}

	logger.Info("Change request approved",
		zap.String("request_id", req.ID),
		zap.String("type", string(req.Type)),
		zap.String("resolved_by", resolvedBy))

	return resolution, nil
}

// applySubstitution swaps the requester's assignment for a confirmed
// assignment of the substitute. The swap deliberately bypasses the
// conflict checker, so an approved substitute can end up double-booked.
// TODO: run CheckShiftConflict on the swapped shift and surface the
// conflict to the approver instead of applying blindly.
func applySubstitution(ctx context.Context, store RequestStore, logger *zap.Logger, req *model.ChangeRequest, resolution *Resolution) error {
	shift, err := store.ShiftByID(ctx, req.ShiftID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			// Dangling shift reference: the approval stands, the swap is
			// silently skipped.
			logger.Warn("Substitution shift no longer exists, skipping swap",
				zap.String("request_id", req.ID),
				zap.String("shift_id", req.ShiftID))
			return nil
		}
		return fmt.Errorf("failed to fetch shift: %w", err)
	}

	updated := *shift
	updated.Assignments = make([]model.Assignment, 0, len(shift.Assignments)+1)
	for _, a := range shift.Assignments {
		if a.UserID != req.RequesterID {
			updated.Assignments = append(updated.Assignments, a)
		}
	}
	updated.Assignments = append(updated.Assignments, model.Assignment{
		ID:     uuid.New().String(),
		UserID: req.SubstituteUserID,
		Status: model.AssignmentConfirmed,
	})

	if err := store.ReplaceShift(updated); err != nil {
		return fmt.Errorf("failed to replace shift: %w", err)
	}

	resolution.UpdatedShift = &updated
	resolution.Notifications = append(resolution.Notifications, model.Notification{
		UserID:  req.SubstituteUserID,
		Message: fmt.Sprintf("You have been assigned as a substitute for shift %q.", shift.Type),
	})

	return nil
}

// DeclineRequest moves a request to its declined terminal state. Beyond
// the status fields and the requester notification nothing is mutated.
func DeclineRequest(ctx context.Context, store RequestStore, logger *zap.Logger, requestID, resolvedBy string) (*Resolution, error) {
	req, err := store.RequestByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch change request: %w", err)
	}

	now := time.Now()
	req.Status = model.RequestDeclined
	req.ResolvedAt = &now
	req.ResolvedBy = resolvedBy

	if err := store.ReplaceRequest(*req); err != nil {
		return nil, fmt.Errorf("failed to replace change request: %w", err)
	}
	if err := store.Flush(ctx); err != nil {
		return nil, err
	}

	logger.Info("Change request declined",
		zap.String("request_id", req.ID),
		zap.String("resolved_by", resolvedBy))

	return &Resolution{
		Request: req,
		Notifications: []model.Notification{
			{UserID: req.RequesterID, Message: fmt.Sprintf("Your request (%s) has been declined.", req.Type)},
		},
	}, nil
}
