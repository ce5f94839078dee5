package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/mhartkopf/einsatzplan/pkg/core/model"
	"github.com/mhartkopf/einsatzplan/pkg/core/scheduling"
	"github.com/mhartkopf/einsatzplan/pkg/db"
)

// DetailStore is the read-only store surface shift display needs
type DetailStore interface {
	ShiftByID(ctx context.Context, id string) (*model.Shift, error)
	Teams(ctx context.Context) ([]model.Team, error)
	LocationByID(ctx context.Context, id string) (*model.Location, error)
	Events(ctx context.Context) ([]model.Event, error)
	Qualifications(ctx context.Context) ([]model.Qualification, error)
	Users(ctx context.Context) ([]model.User, error)
}

// CoverageRow is one required qualification with its resolved catalog name
// and staffing counts
type CoverageRow struct {
	QualificationID   string
	QualificationName string
	scheduling.CoverageCount
}

// ShiftDetail is a shift with its references resolved to display names.
// Dangling ids fall back to the raw id so stale data still renders.
type ShiftDetail struct {
	Shift         model.Shift
	TeamName      string
	LocationName  string
	Room          string
	EventTitle    string
	AssigneeNames []string
	Coverage      []CoverageRow
}

// DescribeShift resolves a shift's team, location, event, assignee, and
// qualification references for human-facing output. Coverage rows are
// sorted by qualification id.
func DescribeShift(ctx context.Context, store DetailStore, shiftID string) (*ShiftDetail, error) {
	shift, err := store.ShiftByID(ctx, shiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shift: %w", err)
	}
	teams, err := store.Teams(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch teams: %w", err)
	}
	users, err := store.Users(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	qualifications, err := store.Qualifications(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch qualifications: %w", err)
	}

	detail := &ShiftDetail{Shift: *shift, TeamName: shift.TeamID}
	for _, team := range teams {
		if team.ID == shift.TeamID {
			detail.TeamName = team.Name
			break
		}
	}

	detail.LocationName = shift.LocationID
	location, err := store.LocationByID(ctx, shift.LocationID)
	switch {
	case err == nil:
		detail.LocationName = location.Name
		detail.Room = location.Room
	case !errors.Is(err, db.ErrNotFound):
		return nil, fmt.Errorf("failed to fetch location: %w", err)
	}

	if shift.EventID != "" {
		events, err := store.Events(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch events: %w", err)
		}
		detail.EventTitle = shift.EventID
		for _, event := range events {
			if event.ID == shift.EventID {
				detail.EventTitle = event.Title
				break
			}
		}
	}

	byUserID := usersByID(users)
	for _, userID := range shift.AssignedUserIDs() {
		if user, ok := byUserID[userID]; ok {
			detail.AssigneeNames = append(detail.AssigneeNames, user.FullName())
		} else {
			detail.AssigneeNames = append(detail.AssigneeNames, userID)
		}
	}

	nameByQualID := make(map[string]string, len(qualifications))
	for _, q := range qualifications {
		nameByQualID[q.ID] = q.Name
	}
	for qualID, count := range scheduling.Coverage(*shift, byUserID) {
		name, ok := nameByQualID[qualID]
		if !ok {
			name = qualID
		}
		detail.Coverage = append(detail.Coverage, CoverageRow{
			QualificationID:   qualID,
			QualificationName: name,
			CoverageCount:     count,
		})
	}
	sort.Slice(detail.Coverage, func(i, j int) bool {
		return detail.Coverage[i].QualificationID < detail.Coverage[j].QualificationID
	})

	return detail, nil
}
