package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/artventure/travel-planner-backend/internal/travels/domain"
)

const publicIDPrefix = "trip"

// DBTX is satisfied by *sql.DB and *sql.Tx, so the same repository code runs
// standalone or inside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ProjectRepository provides persistence operations for travel projects.
type ProjectRepository struct {
	db DBTX
}

func NewProjectRepository(db DBTX) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `id, public_id, name, description, start_date, is_completed, created_at, updated_at`

func scanProject(row interface{ Scan(...any) error }) (*domain.Project, error) {
	var p domain.Project
	err := row.Scan(&p.ID, &p.PublicID, &p.Name, &p.Description, &p.StartDate,
		&p.IsCompleted, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a new project. The completion flag starts false regardless of
// input; recomputation runs once the initial assignments exist.
func (r *ProjectRepository) Create(ctx context.Context, name string, description *string, startDate *sql.NullTime) (*domain.Project, error) {
	for i := 0; i < 5; i++ {
		publicID, err := domain.NewPublicID(publicIDPrefix)
		if err != nil {
			return nil, err
		}

		const q = `
INSERT INTO travel_projects (public_id, name, description, start_date)
VALUES ($1, $2, $3, $4)
RETURNING ` + projectColumns + `;
`
		p, err := scanProject(r.db.QueryRowContext(ctx, q, publicID, name, description, startDate))
		if err == nil {
			return p, nil
		}

		// unique violation on public_id → retry with a fresh one
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			continue
		}
		return nil, err
	}

	return nil, fmt.Errorf("failed to generate unique project id")
}

// GetByPublicID returns the project, without its assignments.
func (r *ProjectRepository) GetByPublicID(ctx context.Context, publicID string) (*domain.Project, error) {
	const q = `
SELECT ` + projectColumns + `
FROM travel_projects
WHERE public_id = $1;
`
	p, err := scanProject(r.db.QueryRowContext(ctx, q, publicID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, err
	}
	return p, nil
}

// GetByPublicIDForUpdate locks the project row for the rest of the
// transaction, serializing concurrent mutations of the same project.
func (r *ProjectRepository) GetByPublicIDForUpdate(ctx context.Context, publicID string) (*domain.Project, error) {
	const q = `
SELECT ` + projectColumns + `
FROM travel_projects
WHERE public_id = $1
FOR UPDATE;
`
	p, err := scanProject(r.db.QueryRowContext(ctx, q, publicID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, err
	}
	return p, nil
}

// List returns all projects, newest first, without their assignments.
func (r *ProjectRepository) List(ctx context.Context) ([]domain.Project, error) {
	const q = `
SELECT ` + projectColumns + `
FROM travel_projects
ORDER BY created_at DESC;
`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Project, 0, 16)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// Update applies the non-nil fields. The completion flag and timestamps are
// never client-settable through this path.
func (r *ProjectRepository) Update(ctx context.Context, id int64, name, description *string, startDate *sql.NullTime) (*domain.Project, error) {
	const q = `
UPDATE travel_projects
SET name        = COALESCE($2, name),
    description = COALESCE($3, description),
    start_date  = COALESCE($4, start_date),
    updated_at  = now()
WHERE id = $1
RETURNING ` + projectColumns + `;
`
	p, err := scanProject(r.db.QueryRowContext(ctx, q, id, name, description, startDate))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, err
	}
	return p, nil
}

// Delete removes the project; assignments go with it via ON DELETE CASCADE.
func (r *ProjectRepository) Delete(ctx context.Context, id int64) error {
	const q = `
DELETE FROM travel_projects
WHERE id = $1;
`
	result, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

// RecomputeCompletion derives and persists the completion flag from the
// current assignment set: complete iff at least one assignment exists and
// none is unvisited. Returns the freshly stored value.
func (r *ProjectRepository) RecomputeCompletion(ctx context.Context, id int64) (bool, error) {
	const q = `
UPDATE travel_projects p
SET is_completed = sub.done, updated_at = now()
FROM (
    SELECT COUNT(*) > 0 AND COUNT(*) FILTER (WHERE NOT visited) = 0 AS done
    FROM place_assignments
    WHERE project_id = $1
) sub
WHERE p.id = $1
RETURNING p.is_completed;
`
	var completed bool
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&completed); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, domain.ErrProjectNotFound
		}
		return false, err
	}
	return completed, nil
}
