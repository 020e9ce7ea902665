package projectrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/castcall/travel-planner-api/internal/adapters/postgres"
	"github.com/castcall/travel-planner-api/internal/domain"
	"github.com/castcall/travel-planner-api/internal/ports/out/projectrepo"
)

// Repo is a Postgres implementation of projectrepo.Repository.
//
// A project aggregate spans five tables; Save replaces the whole aggregate
// inside one transaction, which keeps the write path simple and matches how
// the service layer edits projects (full-field replacement).
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Create(ctx context.Context, p projectrepo.Project) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(p.ID))
	if err != nil {
		return fmt.Errorf("invalid project id: %w", err)
	}

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var rowID int64
		err := tx.QueryRow(ctx, `
			INSERT INTO projects (external_id, name, created_at, updated_at)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, id, p.Name, p.CreatedAt.UTC(), p.UpdatedAt.UTC()).Scan(&rowID)
		if err != nil {
			if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
				return projectrepo.ErrAlreadyExists
			}
			return err
		}
		return insertChildren(ctx, tx, rowID, p)
	})
}

func (r *Repo) Save(ctx context.Context, p projectrepo.Project) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(p.ID))
	if err != nil {
		return projectrepo.ErrNotFound
	}

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var rowID int64
		err := tx.QueryRow(ctx, `
			UPDATE projects
			SET name = $2, updated_at = $3
			WHERE external_id = $1
			RETURNING id
		`, id, p.Name, p.UpdatedAt.UTC()).Scan(&rowID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return projectrepo.ErrNotFound
			}
			return err
		}
		for _, table := range []string{"project_home_locations", "project_cast_settings", "project_periods", "project_schedule"} {
			if _, err := tx.Exec(ctx, `DELETE FROM `+table+` WHERE project_id = $1`, rowID); err != nil {
				return err
			}
		}
		return insertChildren(ctx, tx, rowID, p)
	})
}

func (r *Repo) GetByID(ctx context.Context, id domain.ProjectID) (projectrepo.Project, error) {
	if r.pool == nil {
		return projectrepo.Project{}, errors.New("nil postgres pool")
	}
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return projectrepo.Project{}, projectrepo.ErrNotFound
	}

	var (
		rowID int64
		p     projectrepo.Project
	)
	err = r.pool.QueryRow(ctx, `
		SELECT id, external_id, name, created_at, updated_at
		FROM projects
		WHERE external_id = $1
	`, uid).Scan(&rowID, &uid, &p.Name, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return projectrepo.Project{}, projectrepo.ErrNotFound
		}
		return projectrepo.Project{}, err
	}
	p.ID = domain.ProjectID(uid.String())
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()

	if err := loadChildren(ctx, r.pool, rowID, &p); err != nil {
		return projectrepo.Project{}, err
	}
	return p, nil
}

func (r *Repo) List(ctx context.Context) ([]projectrepo.Project, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, external_id, name, created_at, updated_at
		FROM projects
		ORDER BY lower(name) ASC, external_id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type head struct {
		rowID int64
		p     projectrepo.Project
	}
	heads := make([]head, 0)
	for rows.Next() {
		var (
			h   head
			uid uuid.UUID
		)
		if err := rows.Scan(&h.rowID, &uid, &h.p.Name, &h.p.CreatedAt, &h.p.UpdatedAt); err != nil {
			return nil, err
		}
		h.p.ID = domain.ProjectID(uid.String())
		h.p.CreatedAt = h.p.CreatedAt.UTC()
		h.p.UpdatedAt = h.p.UpdatedAt.UTC()
		heads = append(heads, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]projectrepo.Project, 0, len(heads))
	for _, h := range heads {
		if err := loadChildren(ctx, r.pool, h.rowID, &h.p); err != nil {
			return nil, err
		}
		out = append(out, h.p)
	}
	return out, nil
}

func (r *Repo) Delete(ctx context.Context, id domain.ProjectID) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return projectrepo.ErrNotFound
	}
	ct, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE external_id = $1`, uid)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return projectrepo.ErrNotFound
	}
	return nil
}

// --- helpers ---

func insertChildren(ctx context.Context, tx pgx.Tx, rowID int64, p projectrepo.Project) error {
	for i, loc := range p.HomeLocations {
		if _, err := tx.Exec(ctx, `
			INSERT INTO project_home_locations (project_id, position, name)
			VALUES ($1, $2, $3)
		`, rowID, i, loc); err != nil {
			return err
		}
	}
	for _, cs := range p.CastSettings {
		if _, err := tx.Exec(ctx, `
			INSERT INTO project_cast_settings (project_id, member, include, home_location)
			VALUES ($1, $2, $3, $4)
		`, rowID, cs.Member, cs.Include, cs.HomeLocation); err != nil {
			return err
		}
	}
	for i, per := range p.Periods {
		if _, err := tx.Exec(ctx, `
			INSERT INTO project_periods (project_id, position, name, location, start_date, end_date)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, rowID, i, per.Name, per.Location, toDate(per.Start), toDate(per.End)); err != nil {
			return err
		}
	}
	for _, rec := range p.Schedule {
		if _, err := tx.Exec(ctx, `
			INSERT INTO project_schedule (project_id, member, shoot_date)
			VALUES ($1, $2, $3)
		`, rowID, rec.Member, toDate(rec.Date)); err != nil {
			return err
		}
	}
	return nil
}

func loadChildren(ctx context.Context, pool *pgxpool.Pool, rowID int64, p *projectrepo.Project) error {
	rows, err := pool.Query(ctx, `
		SELECT name FROM project_home_locations
		WHERE project_id = $1 ORDER BY position ASC
	`, rowID)
	if err != nil {
		return err
	}
	p.HomeLocations = make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return err
		}
		p.HomeLocations = append(p.HomeLocations, name)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = pool.Query(ctx, `
		SELECT member, include, home_location FROM project_cast_settings
		WHERE project_id = $1 ORDER BY member ASC
	`, rowID)
	if err != nil {
		return err
	}
	p.CastSettings = make([]domain.CastSetting, 0)
	for rows.Next() {
		var cs domain.CastSetting
		if err := rows.Scan(&cs.Member, &cs.Include, &cs.HomeLocation); err != nil {
			rows.Close()
			return err
		}
		p.CastSettings = append(p.CastSettings, cs)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = pool.Query(ctx, `
		SELECT name, location, start_date, end_date FROM project_periods
		WHERE project_id = $1 ORDER BY position ASC
	`, rowID)
	if err != nil {
		return err
	}
	p.Periods = make([]domain.ShootingPeriod, 0)
	for rows.Next() {
		var (
			per        domain.ShootingPeriod
			start, end pgtype.Date
		)
		if err := rows.Scan(&per.Name, &per.Location, &start, &end); err != nil {
			rows.Close()
			return err
		}
		per.Start = domain.Day(start.Time)
		per.End = domain.Day(end.Time)
		p.Periods = append(p.Periods, per)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = pool.Query(ctx, `
		SELECT member, shoot_date FROM project_schedule
		WHERE project_id = $1 ORDER BY member ASC, shoot_date ASC
	`, rowID)
	if err != nil {
		return err
	}
	p.Schedule = make([]domain.ShootingRecord, 0)
	for rows.Next() {
		var (
			rec domain.ShootingRecord
			d   pgtype.Date
		)
		if err := rows.Scan(&rec.Member, &d); err != nil {
			rows.Close()
			return err
		}
		rec.Date = domain.Day(d.Time)
		p.Schedule = append(p.Schedule, rec)
	}
	rows.Close()
	return rows.Err()
}

func toDate(t time.Time) pgtype.Date {
	return pgtype.Date{Time: domain.Day(t), Valid: true}
}
