package service

import (
	"context"

	"github.com/artventure/travel-planner-backend/internal/travels/domain"
)

// AddPlace assigns a catalog artwork to a project. The place is resolved or
// created first; the assignment starts unvisited; completion is recomputed in
// the same transaction.
func (s *Service) AddPlace(ctx context.Context, projectPublicID string, externalID int64, notes string) (*domain.Assignment, error) {
	if externalID <= 0 {
		return nil, domain.ErrExternalIDRequired
	}

	var (
		assignment    *domain.Assignment
		before, after bool
	)
	err := s.withTx(ctx, func(r txRepos) error {
		p, err := r.projects.GetByPublicIDForUpdate(ctx, projectPublicID)
		if err != nil {
			return err
		}
		before = p.IsCompleted

		count, err := r.assignments.CountByProject(ctx, p.ID)
		if err != nil {
			return err
		}
		if count >= domain.MaxPlaces {
			return domain.ErrTooManyPlaces
		}

		place, err := r.registry.ResolveOrCreate(ctx, externalID)
		if err != nil {
			return err
		}

		a, err := r.assignments.Insert(ctx, p.ID, place.ID, notes)
		if err != nil {
			return err
		}
		a.ExternalID = place.ExternalID
		a.Title = place.Title

		after, err = r.projects.RecomputeCompletion(ctx, p.ID)
		if err != nil {
			return err
		}

		assignment = a
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishCompletionChange(ctx, projectPublicID, before, after)
	return assignment, nil
}

// UpdateAssignment applies a partial update to notes and/or visited, then
// recomputes completion. Recomputation runs even when nothing changed; it is
// idempotent.
func (s *Service) UpdateAssignment(ctx context.Context, projectPublicID string, assignmentID int64, req domain.UpdateAssignmentRequest) (*domain.Assignment, error) {
	var (
		assignment    *domain.Assignment
		before, after bool
	)
	err := s.withTx(ctx, func(r txRepos) error {
		p, err := r.projects.GetByPublicIDForUpdate(ctx, projectPublicID)
		if err != nil {
			return err
		}
		before = p.IsCompleted

		a, err := r.assignments.Update(ctx, assignmentID, p.ID, req.Notes, req.Visited)
		if err != nil {
			return err
		}

		after, err = r.projects.RecomputeCompletion(ctx, p.ID)
		if err != nil {
			return err
		}

		assignment = a
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishCompletionChange(ctx, projectPublicID, before, after)
	return assignment, nil
}

// RemovePlace deletes an assignment from a project. A project must retain at
// least one place, so removing the last one fails.
func (s *Service) RemovePlace(ctx context.Context, projectPublicID string, assignmentID int64) error {
	var before, after bool
	err := s.withTx(ctx, func(r txRepos) error {
		p, err := r.projects.GetByPublicIDForUpdate(ctx, projectPublicID)
		if err != nil {
			return err
		}
		before = p.IsCompleted

		if _, err := r.assignments.GetByID(ctx, assignmentID, p.ID); err != nil {
			return err
		}

		count, err := r.assignments.CountByProject(ctx, p.ID)
		if err != nil {
			return err
		}
		if count <= 1 {
			return domain.ErrLastPlace
		}

		if err := r.assignments.Delete(ctx, assignmentID, p.ID); err != nil {
			return err
		}

		after, err = r.projects.RecomputeCompletion(ctx, p.ID)
		return err
	})
	if err != nil {
		return err
	}

	s.publishCompletionChange(ctx, projectPublicID, before, after)
	return nil
}

// ListAssignments returns a project's assignments in insertion order.
func (s *Service) ListAssignments(ctx context.Context, projectPublicID string) ([]domain.Assignment, error) {
	p, err := s.projects.GetByPublicID(ctx, projectPublicID)
	if err != nil {
		return nil, err
	}
	return s.assignments.ListByProject(ctx, p.ID)
}

// GetAssignment returns one assignment, scoped to its project.
func (s *Service) GetAssignment(ctx context.Context, projectPublicID string, assignmentID int64) (*domain.Assignment, error) {
	p, err := s.projects.GetByPublicID(ctx, projectPublicID)
	if err != nil {
		return nil, err
	}
	return s.assignments.GetByID(ctx, assignmentID, p.ID)
}
