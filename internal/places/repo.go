package places

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Place is the canonical record for a catalog artwork. One row exists per
// external id, shared by every project that references it.
type Place struct {
	ID         int64     `json:"id"`
	ExternalID int64     `json:"external_id"`
	Title      string    `json:"title"`
	CreatedAt  time.Time `json:"created_at"`
}

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Repo provides persistence for places.
type Repo struct {
	db DBTX
}

func NewRepo(db DBTX) *Repo {
	return &Repo{db: db}
}

// GetByExternalID returns the place for a catalog id, or nil if none exists.
func (r *Repo) GetByExternalID(ctx context.Context, externalID int64) (*Place, error) {
	const q = `
SELECT id, external_id, title, created_at
FROM places
WHERE external_id = $1;
`
	var p Place
	err := r.db.QueryRowContext(ctx, q, externalID).
		Scan(&p.ID, &p.ExternalID, &p.Title, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get place: %w", err)
	}
	return &p, nil
}

// Upsert creates the place for externalID or, if a concurrent writer got there
// first, refreshes its title. Last writer wins on title; uniqueness on
// external_id is carried by the constraint.
func (r *Repo) Upsert(ctx context.Context, externalID int64, title string) (*Place, error) {
	const q = `
INSERT INTO places (external_id, title)
VALUES ($1, $2)
ON CONFLICT (external_id) DO UPDATE SET title = EXCLUDED.title
RETURNING id, external_id, title, created_at;
`
	var p Place
	err := r.db.QueryRowContext(ctx, q, externalID, title).
		Scan(&p.ID, &p.ExternalID, &p.Title, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("upsert place: %w", err)
	}
	return &p, nil
}

// UpdateTitle backfills the title of an existing place.
func (r *Repo) UpdateTitle(ctx context.Context, id int64, title string) error {
	const q = `
UPDATE places
SET title = $2
WHERE id = $1;
`
	if _, err := r.db.ExecContext(ctx, q, id, title); err != nil {
		return fmt.Errorf("update place title: %w", err)
	}
	return nil
}
