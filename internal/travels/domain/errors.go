package domain

import "errors"

var (
	ErrProjectNotFound    = errors.New("project not found")
	ErrAssignmentNotFound = errors.New("place not found in this project")

	ErrNameRequired       = errors.New("name is required")
	ErrExternalIDRequired = errors.New("external_id is required")
	ErrNoPlaces           = errors.New("a project must have at least one place")
	ErrTooManyPlaces      = errors.New("a project cannot have more than 10 places")
	ErrDuplicatePlace     = errors.New("this place is already added to the project")
	ErrLastPlace          = errors.New("a project must have at least one place")
	ErrVisitedPlaces      = errors.New("cannot delete project with visited places")
)
