package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/artventure/travel-planner-backend/internal/travels/domain"
)

// AssignmentRepository provides persistence operations for the places
// assigned to a project. Every read and write is project-scoped: an
// assignment id paired with the wrong project behaves as not found.
type AssignmentRepository struct {
	db DBTX
}

func NewAssignmentRepository(db DBTX) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// CountByProject returns the number of assignments the project holds.
func (r *AssignmentRepository) CountByProject(ctx context.Context, projectID int64) (int, error) {
	const q = `
SELECT COUNT(*)
FROM place_assignments
WHERE project_id = $1;
`
	var n int
	if err := r.db.QueryRowContext(ctx, q, projectID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// AnyVisited reports whether any assignment of the project is visited.
func (r *AssignmentRepository) AnyVisited(ctx context.Context, projectID int64) (bool, error) {
	const q = `
SELECT EXISTS (
    SELECT 1 FROM place_assignments
    WHERE project_id = $1 AND visited
);
`
	var visited bool
	if err := r.db.QueryRowContext(ctx, q, projectID).Scan(&visited); err != nil {
		return false, err
	}
	return visited, nil
}

// Insert adds a place to a project. A unique violation on (project_id,
// place_id) maps to ErrDuplicatePlace.
func (r *AssignmentRepository) Insert(ctx context.Context, projectID, placeID int64, notes string) (*domain.Assignment, error) {
	const q = `
INSERT INTO place_assignments (project_id, place_id, notes)
VALUES ($1, $2, $3)
RETURNING id, project_id, place_id, notes, visited, created_at;
`
	var a domain.Assignment
	err := r.db.QueryRowContext(ctx, q, projectID, placeID, notes).
		Scan(&a.ID, &a.ProjectID, &a.PlaceID, &a.Notes, &a.Visited, &a.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrDuplicatePlace
		}
		return nil, err
	}
	return &a, nil
}

const assignmentColumns = `a.id, a.project_id, a.place_id, pl.external_id, pl.title, a.notes, a.visited, a.created_at`

func scanAssignment(row interface{ Scan(...any) error }) (*domain.Assignment, error) {
	var a domain.Assignment
	err := row.Scan(&a.ID, &a.ProjectID, &a.PlaceID, &a.ExternalID, &a.Title,
		&a.Notes, &a.Visited, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetByID returns the assignment with its place joined in, scoped to project.
func (r *AssignmentRepository) GetByID(ctx context.Context, id, projectID int64) (*domain.Assignment, error) {
	const q = `
SELECT ` + assignmentColumns + `
FROM place_assignments a
JOIN places pl ON pl.id = a.place_id
WHERE a.id = $1 AND a.project_id = $2;
`
	a, err := scanAssignment(r.db.QueryRowContext(ctx, q, id, projectID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAssignmentNotFound
		}
		return nil, err
	}
	return a, nil
}

// ListByProject returns the project's assignments in insertion order.
func (r *AssignmentRepository) ListByProject(ctx context.Context, projectID int64) ([]domain.Assignment, error) {
	const q = `
SELECT ` + assignmentColumns + `
FROM place_assignments a
JOIN places pl ON pl.id = a.place_id
WHERE a.project_id = $1
ORDER BY a.created_at;
`
	rows, err := r.db.QueryContext(ctx, q, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Assignment, 0, domain.MaxPlaces)
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// Update applies the non-nil fields, scoped to project.
func (r *AssignmentRepository) Update(ctx context.Context, id, projectID int64, notes *string, visited *bool) (*domain.Assignment, error) {
	const q = `
UPDATE place_assignments a
SET notes   = COALESCE($3, a.notes),
    visited = COALESCE($4, a.visited)
FROM places pl
WHERE a.id = $1 AND a.project_id = $2 AND pl.id = a.place_id
RETURNING ` + assignmentColumns + `;
`
	a, err := scanAssignment(r.db.QueryRowContext(ctx, q, id, projectID, notes, visited))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAssignmentNotFound
		}
		return nil, err
	}
	return a, nil
}

// Delete removes the assignment, scoped to project.
func (r *AssignmentRepository) Delete(ctx context.Context, id, projectID int64) error {
	const q = `
DELETE FROM place_assignments
WHERE id = $1 AND project_id = $2;
`
	result, err := r.db.ExecContext(ctx, q, id, projectID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrAssignmentNotFound
	}
	return nil
}
