package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mhartkopf/einsatzplan/pkg/core/model"
)

func TestIsUserAbsent(t *testing.T) {
	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	absences := []model.Absence{
		{ID: "a1", UserID: "u1", StartsAt: from, EndsAt: to, Type: model.AbsenceTypeVacation, Status: model.AbsenceStatusApproved},
	}

	tests := []struct {
		name     string
		userID   string
		at       time.Time
		expected bool
	}{
		{"inside the window", "u1", from.AddDate(0, 0, 4), true},
		{"first day is inclusive", "u1", from, true},
		{"last day is inclusive", "u1", to, true},
		{"before the window", "u1", from.AddDate(0, 0, -1), false},
		{"after the window", "u1", to.Add(time.Minute), false},
		{"other user unaffected", "u2", from.AddDate(0, 0, 4), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsUserAbsent(absences, tt.userID, tt.at))
		})
	}
}

func TestIsUserAbsent_NoAbsences(t *testing.T) {
	assert.False(t, IsUserAbsent(nil, "u1", time.Now()))
}
