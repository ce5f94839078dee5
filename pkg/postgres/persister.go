package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mhartkopf/einsatzplan/pkg/core/model"
	"github.com/mhartkopf/einsatzplan/pkg/db"
)

// Persist writes a full snapshot of every collection in one transaction.
// The store is small (bounded by headcount and shift count), so replacing
// all rows is simpler and safer than diffing against the previous state.
func (p *DB) Persist(ctx context.Context, snap db.Snapshot) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tables := []string{"shifts", "users", "teams", "locations", "qualifications", "events", "absences", "change_requests"}
	for _, table := range tables {
		if _, err := tx.Exec(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for _, t := range snap.Teams {
		_, err := tx.Exec(ctx,
			`INSERT INTO teams (id, name, description, color) VALUES ($1, $2, $3, $4)`,
			t.ID, t.Name, t.Description, t.Color)
		if err != nil {
			return fmt.Errorf("failed to insert team %s: %w", t.ID, err)
		}
	}

	for _, u := range snap.Users {
		_, err := tx.Exec(ctx,
			`INSERT INTO users (id, first_name, last_name, email, phone, team_id, role, qualification_ids, birthdate, address)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			u.ID, u.FirstName, u.LastName, u.Email, u.Phone, u.TeamID, string(u.Role), u.QualificationIDs, u.Birthdate, u.Address)
		if err != nil {
			return fmt.Errorf("failed to insert user %s: %w", u.ID, err)
		}
	}

	for _, l := range snap.Locations {
		_, err := tx.Exec(ctx,
			`INSERT INTO locations (id, name, address, room, capacity) VALUES ($1, $2, $3, $4, $5)`,
			l.ID, l.Name, l.Address, l.Room, l.Capacity)
		if err != nil {
			return fmt.Errorf("failed to insert location %s: %w", l.ID, err)
		}
	}

	for _, q := range snap.Qualifications {
		_, err := tx.Exec(ctx,
			`INSERT INTO qualifications (id, name) VALUES ($1, $2)`, q.ID, q.Name)
		if err != nil {
			return fmt.Errorf("failed to insert qualification %s: %w", q.ID, err)
		}
	}

	for _, e := range snap.Events {
		_, err := tx.Exec(ctx,
			`INSERT INTO events (id, title, starts_at, ends_at, location_id) VALUES ($1, $2, $3, $4, $5)`,
			e.ID, e.Title, e.StartsAt, e.EndsAt, e.LocationID)
		if err != nil {
			return fmt.Errorf("failed to insert event %s: %w", e.ID, err)
		}
	}

	for _, s := range snap.Shifts {
		_, err := tx.Exec(ctx,
			`INSERT INTO shifts (id, starts_at, ends_at, team_id, location_id, event_id, type, required, assignments, status, notes)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			s.ID, s.StartsAt, s.EndsAt, s.TeamID, s.LocationID, s.EventID, s.Type, s.Required, s.Assignments, string(s.Status), s.Notes)
		if err != nil {
			return fmt.Errorf("failed to insert shift %s: %w", s.ID, err)
		}
	}

	for _, a := range snap.Absences {
		_, err := tx.Exec(ctx,
			`INSERT INTO absences (id, user_id, starts_at, ends_at, type, status) VALUES ($1, $2, $3, $4, $5, $6)`,
			a.ID, a.UserID, a.StartsAt, a.EndsAt, a.Type, a.Status)
		if err != nil {
			return fmt.Errorf("failed to insert absence %s: %w", a.ID, err)
		}
	}

	for _, r := range snap.ChangeRequests {
		_, err := tx.Exec(ctx,
			`INSERT INTO change_requests (id, shift_id, requester_id, type, substitute_user_id, comment, status, created_at, resolved_at, resolved_by, starts_at, ends_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			r.ID, r.ShiftID, r.RequesterID, string(r.Type), r.SubstituteUserID, r.Comment, string(r.Status), r.CreatedAt, r.ResolvedAt, r.ResolvedBy, r.StartsAt, r.EndsAt)
		if err != nil {
			return fmt.Errorf("failed to insert change request %s: %w", r.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}

	return nil
}

// Load reads every collection back into a snapshot
func (p *DB) Load(ctx context.Context) (db.Snapshot, error) {
	var snap db.Snapshot

	err := p.queryAll(ctx, `SELECT id, name, description, color FROM teams ORDER BY id`, func(rows pgx.Rows) error {
		var t model.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.Color); err != nil {
			return err
		}
		snap.Teams = append(snap.Teams, t)
		return nil
	})
	if err != nil {
		return db.Snapshot{}, fmt.Errorf("failed to load teams: %w", err)
	}

	err = p.queryAll(ctx, `SELECT id, first_name, last_name, email, phone, team_id, role, qualification_ids, birthdate, address FROM users ORDER BY id`, func(rows pgx.Rows) error {
		var u model.User
		var role string
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Phone, &u.TeamID, &role, &u.QualificationIDs, &u.Birthdate, &u.Address); err != nil {
			return err
		}
		u.Role = model.Role(role)
		snap.Users = append(snap.Users, u)
		return nil
	})
	if err != nil {
		return db.Snapshot{}, fmt.Errorf("failed to load users: %w", err)
	}

	err = p.queryAll(ctx, `SELECT id, name, address, room, capacity FROM locations ORDER BY id`, func(rows pgx.Rows) error {
		var l model.Location
		if err := rows.Scan(&l.ID, &l.Name, &l.Address, &l.Room, &l.Capacity); err != nil {
			return err
		}
		snap.Locations = append(snap.Locations, l)
		return nil
	})
	if err != nil {
		return db.Snapshot{}, fmt.Errorf("failed to load locations: %w", err)
	}

	err = p.queryAll(ctx, `SELECT id, name FROM qualifications ORDER BY id`, func(rows pgx.Rows) error {
		var q model.Qualification
		if err := rows.Scan(&q.ID, &q.Name); err != nil {
			return err
		}
		snap.Qualifications = append(snap.Qualifications, q)
		return nil
	})
	if err != nil {
		return db.Snapshot{}, fmt.Errorf("failed to load qualifications: %w", err)
	}

	err = p.queryAll(ctx, `SELECT id, title, starts_at, ends_at, location_id FROM events ORDER BY starts_at`, func(rows pgx.Rows) error {
		var e model.Event
		if err := rows.Scan(&e.ID, &e.Title, &e.StartsAt, &e.EndsAt, &e.LocationID); err != nil {
			return err
		}
		snap.Events = append(snap.Events, e)
		return nil
	})
	if err != nil {
		return db.Snapshot{}, fmt.Errorf("failed to load events: %w", err)
	}

	err = p.queryAll(ctx, `SELECT id, starts_at, ends_at, team_id, location_id, event_id, type, required, assignments, status, notes FROM shifts ORDER BY starts_at`, func(rows pgx.Rows) error {
		var s model.Shift
		var status string
		if err := rows.Scan(&s.ID, &s.StartsAt, &s.EndsAt, &s.TeamID, &s.LocationID, &s.EventID, &s.Type, &s.Required, &s.Assignments, &status, &s.Notes); err != nil {
			return err
		}
		s.Status = model.ShiftStatus(status)
		snap.Shifts = append(snap.Shifts, s)
		return nil
	})
	if err != nil {
		return db.Snapshot{}, fmt.Errorf("failed to load shifts: %w", err)
	}

	err = p.queryAll(ctx, `SELECT id, user_id, starts_at, ends_at, type, status FROM absences ORDER BY starts_at`, func(rows pgx.Rows) error {
		var a model.Absence
		if err := rows.Scan(&a.ID, &a.UserID, &a.StartsAt, &a.EndsAt, &a.Type, &a.Status); err != nil {
			return err
		}
		snap.Absences = append(snap.Absences, a)
		return nil
	})
	if err != nil {
		return db.Snapshot{}, fmt.Errorf("failed to load absences: %w", err)
	}

	err = p.queryAll(ctx, `SELECT id, shift_id, requester_id, type, substitute_user_id, comment, status, created_at, resolved_at, resolved_by, starts_at, ends_at FROM change_requests ORDER BY created_at`, func(rows pgx.Rows) error {
		var r model.ChangeRequest
		var reqType, status string
		if err := rows.Scan(&r.ID, &r.ShiftID, &r.RequesterID, &reqType, &r.SubstituteUserID, &r.Comment, &status, &r.CreatedAt, &r.ResolvedAt, &r.ResolvedBy, &r.StartsAt, &r.EndsAt); err != nil {
			return err
		}
		r.Type = model.RequestType(reqType)
		r.Status = model.RequestStatus(status)
		snap.ChangeRequests = append(snap.ChangeRequests, r)
		return nil
	})
	if err != nil {
		return db.Snapshot{}, fmt.Errorf("failed to load change requests: %w", err)
	}

	return snap, nil
}

func (p *DB) queryAll(ctx context.Context, query string, scan func(rows pgx.Rows) error) error {
	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}
