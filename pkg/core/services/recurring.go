package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/mhartkopf/einsatzplan/pkg/core/model"
	"github.com/mhartkopf/einsatzplan/pkg/core/scheduling"
)

// SkippedOccurrence records a recurrence occurrence that was not created
// because its location was already booked.
type SkippedOccurrence struct {
	Shift    model.Shift
	Conflict scheduling.Conflict
}

// RecurringShiftsResult reports the created shifts and the occurrences
// skipped for conflicts.
type RecurringShiftsResult struct {
	Created []model.Shift
	Skipped []SkippedOccurrence
}

// AddRecurringShifts expands an RRULE into a series of shifts based on the
// given template. The template's start time anchors the recurrence and its
// duration carries over to every occurrence. Occurrences whose location is
// already booked are skipped and reported rather than failing the series.
// The rule must be bounded with COUNT or UNTIL.
func AddRecurringShifts(ctx context.Context, store ShiftStore, logger *zap.Logger, data ShiftData, ruleStr string) (*RecurringShiftsResult, error) {
	if !data.EndsAt.After(data.StartsAt) {
		return nil, ErrInvalidTimeRange
	}

	rule, err := rrule.StrToRRule(ruleStr)
	if err != nil {
		return nil, fmt.Errorf("invalid rrule: %w", err)
	}
	opts := rule.OrigOptions
	if opts.Count == 0 && opts.Until.IsZero() {
		return nil, errors.New("rrule must be bounded with COUNT or UNTIL")
	}
	opts.Dtstart = data.StartsAt
	rule, err = rrule.NewRRule(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to anchor rrule: %w", err)
	}

	duration := data.EndsAt.Sub(data.StartsAt)
	occurrences := rule.All()

	logger.Info("Expanding recurring shifts",
		zap.String("rrule", ruleStr),
		zap.Int("occurrences", len(occurrences)))

	result := &RecurringShiftsResult{}
	for _, start := range occurrences {
		occurrence := data
		occurrence.StartsAt = start
		occurrence.EndsAt = start.Add(duration)

		added, err := AddShift(ctx, store, logger, occurrence)
		if err != nil {
			return nil, err
		}
		if added.Conflict != nil {
			result.Skipped = append(result.Skipped, SkippedOccurrence{
				Shift: model.Shift{
					StartsAt:   occurrence.StartsAt,
					EndsAt:     occurrence.EndsAt,
					LocationID: occurrence.LocationID,
					Type:       occurrence.Type,
				},
				Conflict: *added.Conflict,
			})
			continue
		}
		result.Created = append(result.Created, *added.Shift)
	}

	logger.Info("Recurring shifts created",
		zap.Int("created", len(result.Created)),
		zap.Int("skipped", len(result.Skipped)))

	return result, nil
}
