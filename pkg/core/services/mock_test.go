package services

import (
	"context"
	"fmt"

	"github.com/mhartkopf/einsatzplan/pkg/core/model"
	"github.com/mhartkopf/einsatzplan/pkg/db"
)

// mockStore is an in-memory test double covering the store surfaces of
// every service. Unknown ids fail with db.ErrNotFound like the real store.
type mockStore struct {
	shifts         []model.Shift
	users          []model.User
	teams          []model.Team
	locations      []model.Location
	qualifications []model.Qualification
	events         []model.Event
	absences       []model.Absence
	requests       []model.ChangeRequest

	flushCount int
	shiftsErr  error
	flushErr   error
}

func (m *mockStore) Shifts(ctx context.Context) ([]model.Shift, error) {
	if m.shiftsErr != nil {
		return nil, m.shiftsErr
	}
	return m.shifts, nil
}

func (m *mockStore) ShiftByID(ctx context.Context, id string) (*model.Shift, error) {
	for i := range m.shifts {
		if m.shifts[i].ID == id {
			shift := m.shifts[i]
			return &shift, nil
		}
	}
	return nil, fmt.Errorf("shift %s: %w", id, db.ErrNotFound)
}

func (m *mockStore) InsertShift(shift model.Shift) error {
	m.shifts = append(m.shifts, shift)
	return nil
}

func (m *mockStore) ReplaceShift(shift model.Shift) error {
	for i := range m.shifts {
		if m.shifts[i].ID == shift.ID {
			m.shifts[i] = shift
			return nil
		}
	}
	return fmt.Errorf("shift %s: %w", shift.ID, db.ErrNotFound)
}

func (m *mockStore) DeleteShift(id string) error {
	for i := range m.shifts {
		if m.shifts[i].ID == id {
			m.shifts = append(m.shifts[:i], m.shifts[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("shift %s: %w", id, db.ErrNotFound)
}

func (m *mockStore) Users(ctx context.Context) ([]model.User, error) {
	return m.users, nil
}

func (m *mockStore) UserByID(ctx context.Context, id string) (*model.User, error) {
	for i := range m.users {
		if m.users[i].ID == id {
			user := m.users[i]
			return &user, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", id, db.ErrNotFound)
}

func (m *mockStore) ReplaceUser(user model.User) error {
	for i := range m.users {
		if m.users[i].ID == user.ID {
			m.users[i] = user
			return nil
		}
	}
	return fmt.Errorf("user %s: %w", user.ID, db.ErrNotFound)
}

func (m *mockStore) Teams(ctx context.Context) ([]model.Team, error) {
	return m.teams, nil
}

func (m *mockStore) Locations(ctx context.Context) ([]model.Location, error) {
	return m.locations, nil
}

func (m *mockStore) LocationByID(ctx context.Context, id string) (*model.Location, error) {
	for i := range m.locations {
		if m.locations[i].ID == id {
			loc := m.locations[i]
			return &loc, nil
		}
	}
	return nil, fmt.Errorf("location %s: %w", id, db.ErrNotFound)
}

func (m *mockStore) Qualifications(ctx context.Context) ([]model.Qualification, error) {
	return m.qualifications, nil
}

func (m *mockStore) Events(ctx context.Context) ([]model.Event, error) {
	return m.events, nil
}

func (m *mockStore) Absences(ctx context.Context) ([]model.Absence, error) {
	return m.absences, nil
}

func (m *mockStore) InsertAbsence(absence model.Absence) error {
	m.absences = append(m.absences, absence)
	return nil
}

func (m *mockStore) Requests(ctx context.Context) ([]model.ChangeRequest, error) {
	return m.requests, nil
}

func (m *mockStore) RequestByID(ctx context.Context, id string) (*model.ChangeRequest, error) {
	for i := range m.requests {
		if m.requests[i].ID == id {
			req := m.requests[i]
			return &req, nil
		}
	}
	return nil, fmt.Errorf("change request %s: %w", id, db.ErrNotFound)
}

func (m *mockStore) InsertRequest(req model.ChangeRequest) error {
	m.requests = append(m.requests, req)
	return nil
}

func (m *mockStore) ReplaceRequest(req model.ChangeRequest) error {
	for i := range m.requests {
		if m.requests[i].ID == req.ID {
			m.requests[i] = req
			return nil
		}
	}
	return fmt.Errorf("change request %s: %w", req.ID, db.ErrNotFound)
}

func (m *mockStore) Flush(ctx context.Context) error {
	if m.flushErr != nil {
		return m.flushErr
	}
	m.flushCount++
	return nil
}
