// Package places owns the registry of canonical artwork records, keyed by
// their id in the external catalog.
package places

import (
	"context"
	"database/sql"
	"log"

	"github.com/artventure/travel-planner-backend/internal/catalog"
)

// Registry resolves external catalog ids to Place records, creating them on
// first reference. It exposes no update or delete operations.
type Registry struct {
	repo   *Repo
	lookup catalog.Lookup
}

func NewRegistry(repo *Repo, lookup catalog.Lookup) *Registry {
	return &Registry{repo: repo, lookup: lookup}
}

// WithTx returns a registry whose writes run inside tx.
func (g *Registry) WithTx(tx *sql.Tx) *Registry {
	return &Registry{repo: NewRepo(tx), lookup: g.lookup}
}

// ResolveOrCreate returns the place for externalID. A known id is returned
// unchanged (with a one-shot title backfill if it was stored untitled); an
// unknown id is looked up in the catalog and persisted. Catalog errors
// propagate to the caller untouched.
func (g *Registry) ResolveOrCreate(ctx context.Context, externalID int64) (*Place, error) {
	existing, err := g.repo.GetByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.Title == "" {
			g.backfillTitle(ctx, existing)
		}
		return existing, nil
	}

	art, err := g.lookup.Lookup(ctx, externalID)
	if err != nil {
		return nil, err
	}

	return g.repo.Upsert(ctx, externalID, art.Title)
}

// backfillTitle fetches a missing title from the catalog. Failures leave the
// place untitled; the next resolve will try again.
func (g *Registry) backfillTitle(ctx context.Context, p *Place) {
	art, err := g.lookup.Lookup(ctx, p.ExternalID)
	if err != nil || art.Title == "" {
		return
	}
	if err := g.repo.UpdateTitle(ctx, p.ID, art.Title); err != nil {
		log.Printf("[warn] operation=backfill_title external_id=%d error=%v", p.ExternalID, err)
		return
	}
	p.Title = art.Title
}
