package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/mhartkopf/einsatzplan/pkg/core/model"
)

// ReportStore is the read-only store surface the CSV export needs
type ReportStore interface {
	Shifts(ctx context.Context) ([]model.Shift, error)
	Users(ctx context.Context) ([]model.User, error)
	Locations(ctx context.Context) ([]model.Location, error)
}

// ExportTeamReport writes a CSV report of all shifts for a team: shift id,
// type, start, end, location name, room, and the assignee names joined
// with semicolons. Returns the number of data rows written.
func ExportTeamReport(ctx context.Context, store ReportStore, logger *zap.Logger, teamID string, w io.Writer) (int, error) {
	shifts, err := store.Shifts(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch shifts: %w", err)
	}
	users, err := store.Users(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch users: %w", err)
	}
	locations, err := store.Locations(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch locations: %w", err)
	}

	byUserID := usersByID(users)
	locationsByID := make(map[string]model.Location, len(locations))
	for _, l := range locations {
		locationsByID[l.ID] = l
	}

	teamShifts := make([]model.Shift, 0)
	for _, s := range shifts {
		if s.TeamID == teamID {
			teamShifts = append(teamShifts, s)
		}
	}
	sort.Slice(teamShifts, func(i, j int) bool {
		return teamShifts[i].StartsAt.Before(teamShifts[j].StartsAt)
	})

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"shift_id", "type", "starts_at", "ends_at", "location", "room", "assignees"}); err != nil {
		return 0, fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, shift := range teamShifts {
		names := make([]string, 0, len(shift.Assignments))
		for _, userID := range shift.AssignedUserIDs() {
			if user, ok := byUserID[userID]; ok {
				names = append(names, user.FullName())
			} else {
				names = append(names, "Unknown")
			}
		}

		location := locationsByID[shift.LocationID]
		row := []string{
			shift.ID,
			shift.Type,
			shift.StartsAt.Format("2006-01-02 15:04"),
			shift.EndsAt.Format("2006-01-02 15:04"),
			location.Name,
			location.Room,
			strings.Join(names, "; "),
		}
		if err := writer.Write(row); err != nil {
			return 0, fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return 0, fmt.Errorf("failed to flush csv: %w", err)
	}

	logger.Info("Team report exported",
		zap.String("team_id", teamID),
		zap.Int("shifts", len(teamShifts)))

	return len(teamShifts), nil
}
