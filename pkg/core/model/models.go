package model

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleTeamLead Role = "lead"
	RoleStaff    Role = "staff"
)

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleTeamLead || r == RoleStaff
}

type ShiftStatus string

const (
	ShiftPlanned   ShiftStatus = "planned"
	ShiftOpen      ShiftStatus = "open"
	ShiftConfirmed ShiftStatus = "confirmed"
	ShiftDone      ShiftStatus = "done"
	ShiftCancelled ShiftStatus = "cancelled"
)

func (s ShiftStatus) IsValid() bool {
	switch s {
	case ShiftPlanned, ShiftOpen, ShiftConfirmed, ShiftDone, ShiftCancelled:
		return true
	}
	return false
}

type AssignmentStatus string

const (
	AssignmentProposed  AssignmentStatus = "proposed"
	AssignmentConfirmed AssignmentStatus = "confirmed"
	AssignmentDeclined  AssignmentStatus = "declined"
)

type RequestType string

const (
	RequestSubstitution RequestType = "substitution"
	RequestChange       RequestType = "change"
	RequestVacation     RequestType = "vacation"
)

func (t RequestType) IsValid() bool {
	return t == RequestSubstitution || t == RequestChange || t == RequestVacation
}

type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestDeclined RequestStatus = "declined"
)

// Absence records currently only ever carry these values; the fields exist
// so that other absence kinds can be added without a schema change.
const (
	AbsenceTypeVacation   = "vacation"
	AbsenceStatusApproved = "approved"
)

// User represents a staff member of the community center
type User struct {
	ID               string   `json:"id"`
	FirstName        string   `json:"firstName"`
	LastName         string   `json:"lastName"`
	Email            string   `json:"email"`
	Phone            string   `json:"phone"`
	TeamID           string   `json:"teamId"`
	Role             Role     `json:"role"`
	QualificationIDs []string `json:"qualificationIds"`
	Birthdate        string   `json:"birthdate"` // YYYY-MM-DD
	Address          string   `json:"address"`
}

// FullName returns the user's display name
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Team represents a staff team
type Team struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

// Location represents a bookable place. Capacity is stored but not
// enforced by any scheduling rule.
type Location struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	Room     string `json:"room"`
	Capacity int    `json:"capacity"`
}

// Qualification is an entry in the static qualification catalog
type Qualification struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Event represents a center event a shift can belong to
type Event struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	StartsAt   time.Time `json:"startsAt"`
	EndsAt     time.Time `json:"endsAt"`
	LocationID string    `json:"locationId"`
}

// ShiftRequirement declares how many holders of a qualification a shift needs
type ShiftRequirement struct {
	QualificationID string `json:"qualificationId"`
	Count           int    `json:"count"`
}

// Assignment binds a user to a shift. At most one assignment per user per
// shift is expected; callers must not insert duplicates.
type Assignment struct {
	ID          string           `json:"id"`
	UserID      string           `json:"userId"`
	Status      AssignmentStatus `json:"status"`
	RoleInShift string           `json:"roleInShift"`
	Comment     string           `json:"comment,omitempty"`
}

// Shift is a scheduled work assignment at a location and time window.
// The interval [StartsAt, EndsAt) is half-open; StartsAt must be strictly
// before EndsAt.
type Shift struct {
	ID          string             `json:"id"`
	StartsAt    time.Time          `json:"startsAt"`
	EndsAt      time.Time          `json:"endsAt"`
	TeamID      string             `json:"teamId"`
	LocationID  string             `json:"locationId"`
	EventID     string             `json:"eventId,omitempty"` // optional
	Type        string             `json:"type"`              // free-text label, e.g. "Evening supervision"
	Required    []ShiftRequirement `json:"required"`
	Assignments []Assignment       `json:"assignments"`
	Status      ShiftStatus        `json:"status"`
	Notes       string             `json:"notes,omitempty"`
}

// AssignedUserIDs returns the distinct user ids in assignment order
func (s Shift) AssignedUserIDs() []string {
	seen := make(map[string]bool, len(s.Assignments))
	ids := make([]string, 0, len(s.Assignments))
	for _, a := range s.Assignments {
		if seen[a.UserID] {
			continue
		}
		seen[a.UserID] = true
		ids = append(ids, a.UserID)
	}
	return ids
}

// HasAssignment reports whether the user is assigned to the shift
func (s Shift) HasAssignment(userID string) bool {
	for _, a := range s.Assignments {
		if a.UserID == userID {
			return true
		}
	}
	return false
}

// Absence is an approved time-off window excluding a user from
// assignment candidate lists. Created only by approving a vacation
// request; never auto-revoked.
type Absence struct {
	ID       string    `json:"id"`
	UserID   string    `json:"userId"`
	StartsAt time.Time `json:"startsAt"`
	EndsAt   time.Time `json:"endsAt"`
	Type     string    `json:"type"`
	Status   string    `json:"status"`
}

// ChangeRequest is a pending ask (substitution, shift change, vacation)
// awaiting approval. It transitions exactly once from pending to a
// terminal state and is never reopened.
type ChangeRequest struct {
	ID               string        `json:"id"`
	ShiftID          string        `json:"shiftId,omitempty"`          // empty for vacation requests
	RequesterID      string        `json:"requesterId"`
	Type             RequestType   `json:"type"`
	SubstituteUserID string        `json:"substituteUserId,omitempty"` // substitution requests only
	Comment          string        `json:"comment,omitempty"`
	Status           RequestStatus `json:"status"`
	CreatedAt        time.Time     `json:"createdAt"`
	ResolvedAt       *time.Time    `json:"resolvedAt,omitempty"`
	ResolvedBy       string        `json:"resolvedBy,omitempty"`
	// Vacation window, vacation requests only
	StartsAt *time.Time `json:"startsAt,omitempty"`
	EndsAt   *time.Time `json:"endsAt,omitempty"`
}

// Notification is a message addressed to a single user. The engine
// returns notifications in emission order; delivery is the caller's
// responsibility.
type Notification struct {
	UserID  string
	Message string
}
