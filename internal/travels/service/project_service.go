package service

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/artventure/travel-planner-backend/internal/travels/domain"
)

func nullTime(t *time.Time) *sql.NullTime {
	if t == nil {
		return nil
	}
	return &sql.NullTime{Time: *t, Valid: true}
}

// CreateProject creates a project together with its initial assignments.
// All-or-nothing: if any referenced external id cannot be resolved against
// the catalog, nothing is persisted. Repeated external ids in the input
// collapse to a single assignment.
func (s *Service) CreateProject(ctx context.Context, req domain.CreateProjectRequest) (*domain.Project, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(req.PlaceIDs) == 0 {
		return nil, domain.ErrNoPlaces
	}
	if len(req.PlaceIDs) > domain.MaxPlaces {
		return nil, domain.ErrTooManyPlaces
	}
	for _, externalID := range req.PlaceIDs {
		if externalID <= 0 {
			return nil, domain.ErrExternalIDRequired
		}
	}

	var project *domain.Project
	err := s.withTx(ctx, func(r txRepos) error {
		p, err := r.projects.Create(ctx, name, req.Description, nullTime(req.StartDate))
		if err != nil {
			return err
		}

		seen := make(map[int64]bool, len(req.PlaceIDs))
		for _, externalID := range req.PlaceIDs {
			if seen[externalID] {
				continue
			}
			seen[externalID] = true

			place, err := r.registry.ResolveOrCreate(ctx, externalID)
			if err != nil {
				return err
			}
			a, err := r.assignments.Insert(ctx, p.ID, place.ID, "")
			if err != nil {
				return err
			}
			a.ExternalID = place.ExternalID
			a.Title = place.Title
			p.Places = append(p.Places, *a)
		}

		// Projects start incomplete; the first recompute runs here, after the
		// initial assignments exist.
		completed, err := r.projects.RecomputeCompletion(ctx, p.ID)
		if err != nil {
			return err
		}
		p.IsCompleted = completed

		project = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	NewLogger(ctx).LogInfof("create_project", "public_id=%s places=%d", project.PublicID, len(project.Places))
	return project, nil
}

// GetProject returns the project with its assignments embedded.
func (s *Service) GetProject(ctx context.Context, publicID string) (*domain.Project, error) {
	p, err := s.projects.GetByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	p.Places, err = s.assignments.ListByProject(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListProjects returns all projects, newest first, with assignments embedded.
func (s *Service) ListProjects(ctx context.Context) ([]domain.Project, error) {
	projects, err := s.projects.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range projects {
		projects[i].Places, err = s.assignments.ListByProject(ctx, projects[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return projects, nil
}

// UpdateProject applies a partial update to the project's own fields.
// Completion is derived and never settable here.
func (s *Service) UpdateProject(ctx context.Context, publicID string, req domain.UpdateProjectRequest) (*domain.Project, error) {
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, domain.ErrNameRequired
	}

	var project *domain.Project
	err := s.withTx(ctx, func(r txRepos) error {
		p, err := r.projects.GetByPublicIDForUpdate(ctx, publicID)
		if err != nil {
			return err
		}
		project, err = r.projects.Update(ctx, p.ID, req.Name, req.Description, nullTime(req.StartDate))
		return err
	})
	if err != nil {
		return nil, err
	}

	project.Places, err = s.assignments.ListByProject(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	return project, nil
}

// DeleteProject removes the project and, via cascade, all its assignments.
// A project with any visited place cannot be deleted.
func (s *Service) DeleteProject(ctx context.Context, publicID string) error {
	err := s.withTx(ctx, func(r txRepos) error {
		p, err := r.projects.GetByPublicIDForUpdate(ctx, publicID)
		if err != nil {
			return err
		}

		visited, err := r.assignments.AnyVisited(ctx, p.ID)
		if err != nil {
			return err
		}
		if visited {
			return domain.ErrVisitedPlaces
		}

		return r.projects.Delete(ctx, p.ID)
	})
	if err != nil {
		return err
	}

	NewLogger(ctx).LogInfof("delete_project", "public_id=%s", publicID)
	return nil
}

// ReconcileCompletion recomputes the completion flag of every project and
// reports how many stored flags disagreed with the derived value. The write
// path keeps flags consistent on its own; this is the safety net the nightly
// sweep runs.
func (s *Service) ReconcileCompletion(ctx context.Context) (int, error) {
	projects, err := s.projects.List(ctx)
	if err != nil {
		return 0, err
	}

	fixed := 0
	for i := range projects {
		p := &projects[i]
		completed, err := s.projects.RecomputeCompletion(ctx, p.ID)
		if err != nil {
			return fixed, err
		}
		if completed != p.IsCompleted {
			fixed++
			NewLogger(ctx).LogWarnf("reconcile_completion", "public_id=%s stored=%t derived=%t", p.PublicID, p.IsCompleted, completed)
			s.publishCompletionChange(ctx, p.PublicID, p.IsCompleted, completed)
		}
	}
	return fixed, nil
}
