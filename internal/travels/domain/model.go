package domain

import "time"

// MaxPlaces is the hard cap on assignments per project.
const MaxPlaces = 10

// Project represents a travel plan built around catalog artworks.
// It is storage-agnostic and shared across repository and HTTP layers.
type Project struct {
	ID          int64        `json:"-"`
	PublicID    string       `json:"public_id"`
	Name        string       `json:"name"`
	Description *string      `json:"description,omitempty"`
	StartDate   *time.Time   `json:"start_date,omitempty"`
	IsCompleted bool         `json:"is_completed"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	Places      []Assignment `json:"places,omitempty"`
}

// Assignment records one place's membership in one project, with
// project-scoped notes and visited state.
type Assignment struct {
	ID         int64     `json:"id"`
	ProjectID  int64     `json:"-"`
	PlaceID    int64     `json:"-"`
	ExternalID int64     `json:"external_id"`
	Title      string    `json:"title"`
	Notes      string    `json:"notes"`
	Visited    bool      `json:"visited"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreateProjectRequest carries the validated inputs for project creation.
type CreateProjectRequest struct {
	Name        string
	Description *string
	StartDate   *time.Time
	PlaceIDs    []int64 // catalog external ids, at least one required
}

// UpdateProjectRequest applies a partial update; nil fields are left untouched.
type UpdateProjectRequest struct {
	Name        *string
	Description *string
	StartDate   *time.Time
}

// UpdateAssignmentRequest applies a partial update; nil fields are left untouched.
// Identity and title are read-only and have no counterpart here.
type UpdateAssignmentRequest struct {
	Notes   *string
	Visited *bool
}
