package places_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artventure/travel-planner-backend/internal/catalog"
	"github.com/artventure/travel-planner-backend/internal/places"
)

type stubLookup struct {
	art   *catalog.Artwork
	err   error
	calls int
}

func (l *stubLookup) Lookup(ctx context.Context, externalID int64) (*catalog.Artwork, error) {
	l.calls++
	if l.err != nil {
		return nil, l.err
	}
	return l.art, nil
}

func placeRow(id, externalID int64, title string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "external_id", "title", "created_at"}).
		AddRow(id, externalID, title, time.Now())
}

func TestRegistry_ResolveOrCreate(t *testing.T) {
	t.Run("returns an existing place without a catalog call", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		lookup := &stubLookup{}
		reg := places.NewRegistry(places.NewRepo(db), lookup)

		mock.ExpectQuery(`SELECT id, external_id, title, created_at`).
			WithArgs(int64(27992)).
			WillReturnRows(placeRow(1, 27992, "Nighthawks"))

		p, err := reg.ResolveOrCreate(context.Background(), 27992)
		require.NoError(t, err)
		assert.Equal(t, int64(1), p.ID)
		assert.Equal(t, "Nighthawks", p.Title)
		assert.Equal(t, 0, lookup.calls)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("creates a place on first reference", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		lookup := &stubLookup{art: &catalog.Artwork{ID: 27992, Title: "Nighthawks"}}
		reg := places.NewRegistry(places.NewRepo(db), lookup)

		mock.ExpectQuery(`SELECT id, external_id, title, created_at`).
			WithArgs(int64(27992)).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(`INSERT INTO places`).
			WithArgs(int64(27992), "Nighthawks").
			WillReturnRows(placeRow(1, 27992, "Nighthawks"))

		p, err := reg.ResolveOrCreate(context.Background(), 27992)
		require.NoError(t, err)
		assert.Equal(t, "Nighthawks", p.Title)
		assert.Equal(t, 1, lookup.calls)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("propagates a catalog miss without persisting", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		lookup := &stubLookup{err: catalog.ErrArtworkNotFound}
		reg := places.NewRegistry(places.NewRepo(db), lookup)

		mock.ExpectQuery(`SELECT id, external_id, title, created_at`).
			WithArgs(int64(99999)).
			WillReturnError(sql.ErrNoRows)

		_, err = reg.ResolveOrCreate(context.Background(), 99999)
		assert.ErrorIs(t, err, catalog.ErrArtworkNotFound)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("backfills a missing title", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		lookup := &stubLookup{art: &catalog.Artwork{ID: 27992, Title: "Nighthawks"}}
		reg := places.NewRegistry(places.NewRepo(db), lookup)

		mock.ExpectQuery(`SELECT id, external_id, title, created_at`).
			WithArgs(int64(27992)).
			WillReturnRows(placeRow(1, 27992, ""))
		mock.ExpectExec(`UPDATE places`).
			WithArgs(int64(1), "Nighthawks").
			WillReturnResult(sqlmock.NewResult(0, 1))

		p, err := reg.ResolveOrCreate(context.Background(), 27992)
		require.NoError(t, err)
		assert.Equal(t, "Nighthawks", p.Title)
		assert.Equal(t, 1, lookup.calls)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("backfill failure leaves the place untitled", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		lookup := &stubLookup{err: catalog.ErrUnavailable}
		reg := places.NewRegistry(places.NewRepo(db), lookup)

		mock.ExpectQuery(`SELECT id, external_id, title, created_at`).
			WithArgs(int64(27992)).
			WillReturnRows(placeRow(1, 27992, ""))

		p, err := reg.ResolveOrCreate(context.Background(), 27992)
		require.NoError(t, err)
		assert.Equal(t, "", p.Title)

		require.NoError(t, mock.ExpectationsWereMet())
	})
}
