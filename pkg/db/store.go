package db

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mhartkopf/einsatzplan/pkg/core/model"
)

// ErrNotFound is returned when a store lookup resolves no entity
var ErrNotFound = errors.New("not found")

// Persister durably stores a snapshot of every collection after a
// successful mutation. Implementations decide the medium (JSON file,
// Postgres); the store only guarantees it is called with a consistent
// snapshot.
type Persister interface {
	Persist(ctx context.Context, snap Snapshot) error
}

// Store owns the in-memory entity collections. All reads hand out copies
// and all writes go through store methods, so collaborators never share
// mutable slices. The engine itself is single-writer; the mutex exists so
// a future concurrent caller cannot interleave a read with a write.
type Store struct {
	mu        sync.Mutex
	persister Persister

	shifts         []model.Shift
	users          []model.User
	teams          []model.Team
	locations      []model.Location
	qualifications []model.Qualification
	events         []model.Event
	absences       []model.Absence
	requests       []model.ChangeRequest
}

// NewStore creates an empty store. persister may be nil, in which case
// Flush is a no-op (useful in tests).
func NewStore(persister Persister) *Store {
	return &Store{persister: persister}
}

// LoadSnapshot replaces every collection with the snapshot's contents
func (s *Store) LoadSnapshot(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.shifts = append([]model.Shift(nil), snap.Shifts...)
	s.users = append([]model.User(nil), snap.Users...)
	s.teams = append([]model.Team(nil), snap.Teams...)
	s.locations = append([]model.Location(nil), snap.Locations...)
	s.qualifications = append([]model.Qualification(nil), snap.Qualifications...)
	s.events = append([]model.Event(nil), snap.Events...)
	s.absences = append([]model.Absence(nil), snap.Absences...)
	s.requests = append([]model.ChangeRequest(nil), snap.ChangeRequests...)
}

// Flush hands the current snapshot to the persister. Services call this
// once at the end of each successful mutation.
func (s *Store) Flush(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}
	snap := s.SnapshotNow()
	if err := s.persister.Persist(ctx, snap); err != nil {
		return fmt.Errorf("failed to persist store snapshot: %w", err)
	}
	return nil
}

// SnapshotNow returns a copy of every collection
func (s *Store) SnapshotNow() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		Shifts:         append([]model.Shift(nil), s.shifts...),
		Users:          append([]model.User(nil), s.users...),
		Teams:          append([]model.Team(nil), s.teams...),
		Locations:      append([]model.Location(nil), s.locations...),
		Qualifications: append([]model.Qualification(nil), s.qualifications...),
		Events:         append([]model.Event(nil), s.events...),
		Absences:       append([]model.Absence(nil), s.absences...),
		ChangeRequests: append([]model.ChangeRequest(nil), s.requests...),
	}
}

// Shifts returns all shifts in insertion order
func (s *Store) Shifts(ctx context.Context) ([]model.Shift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Shift(nil), s.shifts...), nil
}

// ShiftByID looks up a shift by id
func (s *Store) ShiftByID(ctx context.Context, id string) (*model.Shift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.shifts {
		if s.shifts[i].ID == id {
			shift := s.shifts[i]
			return &shift, nil
		}
	}
	return nil, fmt.Errorf("shift %s: %w", id, ErrNotFound)
}

// InsertShift appends a new shift
func (s *Store) InsertShift(shift model.Shift) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.shifts {
		if s.shifts[i].ID == shift.ID {
			return fmt.Errorf("shift %s already exists", shift.ID)
		}
	}
	s.shifts = append(s.shifts, shift)
	return nil
}

// ReplaceShift swaps the stored shift with the same id
func (s *Store) ReplaceShift(shift model.Shift) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.shifts {
		if s.shifts[i].ID == shift.ID {
			s.shifts[i] = shift
			return nil
		}
	}
	return fmt.Errorf("shift %s: %w", shift.ID, ErrNotFound)
}

// DeleteShift removes a shift. ChangeRequests referencing the id are left
// untouched; dangling references are expected and handled at resolution
// time.
func (s *Store) DeleteShift(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.shifts {
		if s.shifts[i].ID == id {
			s.shifts = append(s.shifts[:i], s.shifts[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("shift %s: %w", id, ErrNotFound)
}

// Users returns all users in insertion order
func (s *Store) Users(ctx context.Context) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.User(nil), s.users...), nil
}

// UserByID looks up a user by id
func (s *Store) UserByID(ctx context.Context, id string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID == id {
			user := s.users[i]
			return &user, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
}

// ReplaceUser swaps the stored user with the same id (profile edits)
func (s *Store) ReplaceUser(user model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID == user.ID {
			s.users[i] = user
			return nil
		}
	}
	return fmt.Errorf("user %s: %w", user.ID, ErrNotFound)
}

// Teams returns all teams
func (s *Store) Teams(ctx context.Context) ([]model.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Team(nil), s.teams...), nil
}

// Locations returns all locations
func (s *Store) Locations(ctx context.Context) ([]model.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Location(nil), s.locations...), nil
}

// LocationByID looks up a location by id
func (s *Store) LocationByID(ctx context.Context, id string) (*model.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.locations {
		if s.locations[i].ID == id {
			loc := s.locations[i]
			return &loc, nil
		}
	}
	return nil, fmt.Errorf("location %s: %w", id, ErrNotFound)
}

// Qualifications returns the qualification catalog
func (s *Store) Qualifications(ctx context.Context) ([]model.Qualification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Qualification(nil), s.qualifications...), nil
}

// Events returns all events
func (s *Store) Events(ctx context.Context) ([]model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Event(nil), s.events...), nil
}

// Absences returns all absences in insertion order
func (s *Store) Absences(ctx context.Context) ([]model.Absence, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Absence(nil), s.absences...), nil
}

// InsertAbsence appends a new absence record
func (s *Store) InsertAbsence(absence model.Absence) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.absences = append(s.absences, absence)
	return nil
}

// Requests returns all change requests in insertion order
func (s *Store) Requests(ctx context.Context) ([]model.ChangeRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.ChangeRequest(nil), s.requests...), nil
}

// RequestByID looks up a change request by id
func (s *Store) RequestByID(ctx context.Context, id string) (*model.ChangeRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.requests {
		if s.requests[i].ID == id {
			req := s.requests[i]
			return &req, nil
		}
	}
	return nil, fmt.Errorf("change request %s: %w", id, ErrNotFound)
}

// InsertRequest appends a new change request
func (s *Store) InsertRequest(req model.ChangeRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.requests {
		if s.requests[i].ID == req.ID {
			return fmt.Errorf("change request %s already exists", req.ID)
		}
	}
	s.requests = append(s.requests, req)
	return nil
}

// ReplaceRequest swaps the stored request with the same id
func (s *Store) ReplaceRequest(req model.ChangeRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.requests {
		if s.requests[i].ID == req.ID {
			s.requests[i] = req
			return nil
		}
	}
	return fmt.Errorf("change request %s: %w", req.ID, ErrNotFound)
}
