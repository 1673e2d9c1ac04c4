// Package catalog resolves artwork identifiers against the Art Institute
// of Chicago public API.
package catalog

import (
	"context"
	"errors"
)

var (
	// ErrArtworkNotFound means the catalog has no artwork with that id.
	ErrArtworkNotFound = errors.New("artwork not found in catalog")
	// ErrUnavailable means the catalog could not be reached or answered
	// with a server error. Callers must not retry.
	ErrUnavailable = errors.New("catalog unavailable")
)

// Artwork is the subset of catalog data the planner cares about.
type Artwork struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// Lookup resolves an external artwork id to its catalog record.
type Lookup interface {
	Lookup(ctx context.Context, externalID int64) (*Artwork, error)
}
