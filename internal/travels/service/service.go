// Package service implements the project lifecycle and assignment rules:
// cardinality limits, duplicate and deletion guards, and the derived
// completion flag that is recomputed after every assignment mutation.
package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/artventure/travel-planner-backend/internal/catalog"
	"github.com/artventure/travel-planner-backend/internal/places"
	"github.com/artventure/travel-planner-backend/internal/travels/repository"
)

// Service coordinates projects, their place assignments, and the place
// registry. Every mutating operation runs in a single transaction: either the
// whole step (place resolution, assignment write, completion recompute)
// commits, or nothing does.
type Service struct {
	db     *sql.DB
	events EventPublisher

	// db-bound collaborators for read paths; mutations build tx-bound ones.
	projects    *repository.ProjectRepository
	assignments *repository.AssignmentRepository
	registry    *places.Registry
}

// NewService creates the travels service. events may be nil, in which case
// completion transitions are not broadcast.
func NewService(db *sql.DB, lookup catalog.Lookup, events EventPublisher) *Service {
	return &Service{
		db:          db,
		events:      events,
		projects:    repository.NewProjectRepository(db),
		assignments: repository.NewAssignmentRepository(db),
		registry:    places.NewRegistry(places.NewRepo(db), lookup),
	}
}

// txRepos bundles the transaction-scoped collaborators of a mutation.
type txRepos struct {
	projects    *repository.ProjectRepository
	assignments *repository.AssignmentRepository
	registry    *places.Registry
}

func (s *Service) withTx(ctx context.Context, fn func(r txRepos) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	r := txRepos{
		projects:    repository.NewProjectRepository(tx),
		assignments: repository.NewAssignmentRepository(tx),
		registry:    s.registry.WithTx(tx),
	}

	if err := fn(r); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// publishCompletionChange broadcasts a completion transition after a
// successful commit. Publish failures are logged, never surfaced: the state
// change itself already happened.
func (s *Service) publishCompletionChange(ctx context.Context, publicID string, before, after bool) {
	if s.events == nil || before == after {
		return
	}
	ev := CompletionEvent{ProjectID: publicID, IsCompleted: after}
	if err := s.events.PublishCompletion(ctx, ev); err != nil {
		NewLogger(ctx).LogError("publish_completion", err)
	}
}
