package db

import (
	"time"

	"github.com/mhartkopf/einsatzplan/pkg/core/model"
)

// SeedSnapshot builds a small demo dataset for a community center: three
// teams, seven staff members, four locations, a concert event, and a week
// of shifts relative to now. Intended for the seed command and manual exploration;
// tests build their own fixtures.
func SeedSnapshot(now time.Time) Snapshot {
	shiftWindow := func(dayOffset, hour, durationHours int) (time.Time, time.Time) {
		day := now.AddDate(0, 0, dayOffset)
		// The center is closed on Sundays
		if day.Weekday() == time.Sunday {
			day = day.AddDate(0, 0, 1)
		}
		start := time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, now.Location())
		return start, start.Add(time.Duration(durationHours) * time.Hour)
	}

	qualifications := []model.Qualification{
		{ID: "Q1", Name: "IT helpdesk"},
		{ID: "Q2", Name: "First aid"},
		{ID: "Q3", Name: "Event technology"},
		{ID: "Q4", Name: "Counselling"},
		{ID: "Q5", Name: "Security"},
	}

	teams := []model.Team{
		{ID: "T-IT", Name: "IT support", Description: "Technical assistance", Color: "blue"},
		{ID: "T-EVENT", Name: "Events", Description: "Event planning and operations", Color: "purple"},
		{ID: "T-SERVICE", Name: "Citizen services", Description: "Counselling and information", Color: "green"},
	}

	users := []model.User{
		{ID: "U1", FirstName: "Ada", LastName: "Keller", Email: "ada@lindenpark.example", Phone: "0123-4567890", TeamID: "T-IT", Role: model.RoleAdmin, QualificationIDs: []string{"Q1", "Q2", "Q3"}, Birthdate: "1980-01-01", Address: "Hauptstr. 1"},
		{ID: "U2", FirstName: "Max", LastName: "Brandt", Email: "max@lindenpark.example", Phone: "0123-4567891", TeamID: "T-IT", Role: model.RoleTeamLead, QualificationIDs: []string{"Q1", "Q2"}, Birthdate: "1985-05-10", Address: "Nebenstr. 2"},
		{ID: "U3", FirstName: "Erika", LastName: "Vogel", Email: "erika@lindenpark.example", Phone: "0123-4567892", TeamID: "T-EVENT", Role: model.RoleTeamLead, QualificationIDs: []string{"Q3", "Q5"}, Birthdate: "1990-03-15", Address: "Feldweg 3"},
		{ID: "U4", FirstName: "Jonas", LastName: "Weber", Email: "jonas@lindenpark.example", Phone: "0123-4567893", TeamID: "T-IT", Role: model.RoleStaff, QualificationIDs: []string{"Q1"}, Birthdate: "1992-11-20", Address: "Gasse 4"},
		{ID: "U5", FirstName: "Lena", LastName: "Hoffmann", Email: "lena@lindenpark.example", Phone: "0123-4567894", TeamID: "T-EVENT", Role: model.RoleStaff, QualificationIDs: []string{"Q3"}, Birthdate: "1995-07-25", Address: "Platz 5"},
		{ID: "U6", FirstName: "Peter", LastName: "Jansen", Email: "peter@lindenpark.example", Phone: "0123-4567895", TeamID: "T-SERVICE", Role: model.RoleTeamLead, QualificationIDs: []string{"Q4", "Q2"}, Birthdate: "1988-09-30", Address: "Allee 6"},
		{ID: "U7", FirstName: "Sabine", LastName: "Schmidt", Email: "sabine@lindenpark.example", Phone: "0123-4567896", TeamID: "T-SERVICE", Role: model.RoleStaff, QualificationIDs: []string{"Q4"}, Birthdate: "1993-02-05", Address: "Boulevard 7"},
	}

	locations := []model.Location{
		{ID: "L-HALL-A", Name: "Hall A", Address: "Lindenpark 1", Room: "Room 101", Capacity: 100},
		{ID: "L-HALL-B", Name: "Hall B", Address: "Lindenpark 1", Room: "Room 202", Capacity: 200},
		{ID: "L-OFFICE", Name: "Service office", Address: "Lindenpark 2", Room: "Ground floor", Capacity: 10},
		{ID: "L-WORKSHOP", Name: "Workshop", Address: "Lindenpark 3", Room: "Basement", Capacity: 25},
	}

	concertStart, concertEnd := shiftWindow(0, 10, 10)
	events := []model.Event{
		{ID: "EV-001", Title: "Summer concert", StartsAt: concertStart, EndsAt: concertEnd, LocationID: "L-HALL-B"},
	}

	var shifts []model.Shift
	addShift := func(id string, dayOffset, hour, durationHours int, teamID, locationID, shiftType string, required []model.ShiftRequirement, assignments []model.Assignment, status model.ShiftStatus, notes string) {
		start, end := shiftWindow(dayOffset, hour, durationHours)
		shifts = append(shifts, model.Shift{
			ID:          id,
			StartsAt:    start,
			EndsAt:      end,
			TeamID:      teamID,
			LocationID:  locationID,
			Type:        shiftType,
			Required:    required,
			Assignments: assignments,
			Status:      status,
			Notes:       notes,
		})
	}

	addShift("E-001", 0, 8, 4, "T-IT", "L-HALL-A", "IT support street fair",
		[]model.ShiftRequirement{{QualificationID: "Q1", Count: 2}},
		[]model.Assignment{
			{ID: "A1", UserID: "U2", Status: model.AssignmentConfirmed, RoleInShift: "Team lead"},
			{ID: "A5", UserID: "U4", Status: model.AssignmentConfirmed, RoleInShift: "Technician"},
		},
		model.ShiftConfirmed, "Preparations for the street fair.")
	addShift("E-002", 0, 10, 6, "T-EVENT", "L-HALL-B", "Concert setup",
		[]model.ShiftRequirement{{QualificationID: "Q3", Count: 1}, {QualificationID: "Q5", Count: 1}},
		[]model.Assignment{
			{ID: "A2", UserID: "U3", Status: model.AssignmentConfirmed, RoleInShift: "Setup lead"},
			{ID: "A3", UserID: "U5", Status: model.AssignmentConfirmed, RoleInShift: "Helper"},
		},
		model.ShiftConfirmed, "")
	shifts[len(shifts)-1].EventID = "EV-001"
	addShift("E-003", 1, 9, 8, "T-SERVICE", "L-OFFICE", "Citizen counselling",
		[]model.ShiftRequirement{{QualificationID: "Q4", Count: 1}},
		[]model.Assignment{{ID: "A4", UserID: "U7", Status: model.AssignmentConfirmed, RoleInShift: "Counsellor"}},
		model.ShiftConfirmed, "")
	addShift("E-004", 2, 14, 4, "T-IT", "L-HALL-A", "Network maintenance",
		[]model.ShiftRequirement{{QualificationID: "Q1", Count: 1}},
		nil, model.ShiftOpen, "")
	addShift("E-005", 8, 18, 5, "T-EVENT", "L-HALL-B", "Concert teardown",
		[]model.ShiftRequirement{{QualificationID: "Q3", Count: 2}},
		nil, model.ShiftOpen, "")
	addShift("E-006", 10, 9, 3, "T-SERVICE", "L-OFFICE", "Extended office hours",
		[]model.ShiftRequirement{{QualificationID: "Q4", Count: 2}},
		[]model.Assignment{{ID: "A6", UserID: "U6", Status: model.AssignmentConfirmed}},
		model.ShiftPlanned, "")
	addShift("E-007", 3, 10, 5, "T-IT", "L-WORKSHOP", "Workshop support",
		[]model.ShiftRequirement{{QualificationID: "Q1", Count: 1}},
		[]model.Assignment{{ID: "A7", UserID: "U4", Status: model.AssignmentConfirmed}},
		model.ShiftConfirmed, "")

	requests := []model.ChangeRequest{
		{
			ID:               "CR-001",
			ShiftID:          "E-003",
			RequesterID:      "U7",
			Type:             model.RequestSubstitution,
			SubstituteUserID: "U6",
			Comment:          "Doctor's appointment, need someone to take over.",
			Status:           model.RequestPending,
			CreatedAt:        now.AddDate(0, 0, -1),
		},
	}

	return Snapshot{
		Shifts:         shifts,
		Users:          users,
		Teams:          teams,
		Locations:      locations,
		Qualifications: qualifications,
		Events:         events,
		Absences:       nil,
		ChangeRequests: requests,
	}
}
