package service_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artventure/travel-planner-backend/internal/catalog"
	"github.com/artventure/travel-planner-backend/internal/travels/domain"
	"github.com/artventure/travel-planner-backend/internal/travels/service"
)

type stubLookup struct {
	artworks map[int64]*catalog.Artwork
	err      error
	calls    int
}

func (l *stubLookup) Lookup(ctx context.Context, externalID int64) (*catalog.Artwork, error) {
	l.calls++
	if l.err != nil {
		return nil, l.err
	}
	if art, ok := l.artworks[externalID]; ok {
		return art, nil
	}
	return nil, catalog.ErrArtworkNotFound
}

type capturePublisher struct {
	events []service.CompletionEvent
}

func (p *capturePublisher) PublishCompletion(ctx context.Context, ev service.CompletionEvent) error {
	p.events = append(p.events, ev)
	return nil
}

func setupService(t *testing.T, lookup catalog.Lookup) (*service.Service, sqlmock.Sqlmock, *capturePublisher, *sql.DB) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	pub := &capturePublisher{}
	svc := service.NewService(db, lookup, pub)
	return svc, mock, pub, db
}

func projectRows(id int64, publicID, name string, completed bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "public_id", "name", "description", "start_date", "is_completed", "created_at", "updated_at"}).
		AddRow(id, publicID, name, nil, nil, completed, time.Now(), time.Now())
}

func insertedAssignmentRows(id, projectID, placeID int64, notes string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "project_id", "place_id", "notes", "visited", "created_at"}).
		AddRow(id, projectID, placeID, notes, false, time.Now())
}

func joinedAssignmentRows(id, projectID, placeID, externalID int64, title, notes string, visited bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "project_id", "place_id", "external_id", "title", "notes", "visited", "created_at"}).
		AddRow(id, projectID, placeID, externalID, title, notes, visited, time.Now())
}

func completionRows(completed bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"is_completed"}).AddRow(completed)
}

func placeRows(id, externalID int64, title string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "external_id", "title", "created_at"}).
		AddRow(id, externalID, title, time.Now())
}

func TestService_CreateProject(t *testing.T) {
	t.Run("creates a project with one place", func(t *testing.T) {
		lookup := &stubLookup{artworks: map[int64]*catalog.Artwork{
			27992: {ID: 27992, Title: "Nighthawks"},
		}}
		svc, mock, _, db := setupService(t, lookup)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO travel_projects`).
			WithArgs(sqlmock.AnyArg(), "Chicago Trip", nil, nil).
			WillReturnRows(projectRows(1, "trip-12345-6789", "Chicago Trip", false))
		mock.ExpectQuery(`SELECT id, external_id, title, created_at`).
			WithArgs(int64(27992)).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(`INSERT INTO places`).
			WithArgs(int64(27992), "Nighthawks").
			WillReturnRows(placeRows(5, 27992, "Nighthawks"))
		mock.ExpectQuery(`INSERT INTO place_assignments`).
			WithArgs(int64(1), int64(5), "").
			WillReturnRows(insertedAssignmentRows(10, 1, 5, ""))
		mock.ExpectQuery(`UPDATE travel_projects p`).
			WithArgs(int64(1)).
			WillReturnRows(completionRows(false))
		mock.ExpectCommit()

		p, err := svc.CreateProject(context.Background(), domain.CreateProjectRequest{
			Name:     "Chicago Trip",
			PlaceIDs: []int64{27992},
		})
		require.NoError(t, err)
		assert.Equal(t, "trip-12345-6789", p.PublicID)
		assert.False(t, p.IsCompleted)
		require.Len(t, p.Places, 1)
		assert.Equal(t, int64(27992), p.Places[0].ExternalID)
		assert.Equal(t, "Nighthawks", p.Places[0].Title)
		assert.False(t, p.Places[0].Visited)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("repeated external ids collapse to one assignment", func(t *testing.T) {
		lookup := &stubLookup{artworks: map[int64]*catalog.Artwork{
			27992: {ID: 27992, Title: "Nighthawks"},
		}}
		svc, mock, _, db := setupService(t, lookup)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO travel_projects`).
			WithArgs(sqlmock.AnyArg(), "Chicago Trip", nil, nil).
			WillReturnRows(projectRows(1, "trip-12345-6789", "Chicago Trip", false))
		mock.ExpectQuery(`SELECT id, external_id, title, created_at`).
			WithArgs(int64(27992)).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(`INSERT INTO places`).
			WithArgs(int64(27992), "Nighthawks").
			WillReturnRows(placeRows(5, 27992, "Nighthawks"))
		mock.ExpectQuery(`INSERT INTO place_assignments`).
			WithArgs(int64(1), int64(5), "").
			WillReturnRows(insertedAssignmentRows(10, 1, 5, ""))
		mock.ExpectQuery(`UPDATE travel_projects p`).
			WithArgs(int64(1)).
			WillReturnRows(completionRows(false))
		mock.ExpectCommit()

		p, err := svc.CreateProject(context.Background(), domain.CreateProjectRequest{
			Name:     "Chicago Trip",
			PlaceIDs: []int64{27992, 27992, 27992},
		})
		require.NoError(t, err)
		assert.Len(t, p.Places, 1)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects an empty place list", func(t *testing.T) {
		svc, mock, _, db := setupService(t, &stubLookup{})
		defer db.Close()

		_, err := svc.CreateProject(context.Background(), domain.CreateProjectRequest{
			Name: "Chicago Trip",
		})
		assert.ErrorIs(t, err, domain.ErrNoPlaces)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects more than ten places", func(t *testing.T) {
		svc, mock, _, db := setupService(t, &stubLookup{})
		defer db.Close()

		ids := make([]int64, 11)
		for i := range ids {
			ids[i] = int64(i + 1)
		}
		_, err := svc.CreateProject(context.Background(), domain.CreateProjectRequest{
			Name:     "Chicago Trip",
			PlaceIDs: ids,
		})
		assert.ErrorIs(t, err, domain.ErrTooManyPlaces)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects a blank name", func(t *testing.T) {
		svc, mock, _, db := setupService(t, &stubLookup{})
		defer db.Close()

		_, err := svc.CreateProject(context.Background(), domain.CreateProjectRequest{
			Name:     "   ",
			PlaceIDs: []int64{27992},
		})
		assert.ErrorIs(t, err, domain.ErrNameRequired)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls everything back on a catalog miss", func(t *testing.T) {
		lookup := &stubLookup{artworks: map[int64]*catalog.Artwork{}}
		svc, mock, _, db := setupService(t, lookup)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO travel_projects`).
			WithArgs(sqlmock.AnyArg(), "Chicago Trip", nil, nil).
			WillReturnRows(projectRows(1, "trip-12345-6789", "Chicago Trip", false))
		mock.ExpectQuery(`SELECT id, external_id, title, created_at`).
			WithArgs(int64(99999)).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		_, err := svc.CreateProject(context.Background(), domain.CreateProjectRequest{
			Name:     "Chicago Trip",
			PlaceIDs: []int64{99999},
		})
		assert.ErrorIs(t, err, catalog.ErrArtworkNotFound)

		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestService_DeleteProject(t *testing.T) {
	t.Run("refuses to delete a project with visited places", func(t *testing.T) {
		svc, mock, _, db := setupService(t, &stubLookup{})
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`FOR UPDATE`).
			WithArgs("trip-12345-6789").
			WillReturnRows(projectRows(1, "trip-12345-6789", "Chicago Trip", false))
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectRollback()

		err := svc.DeleteProject(context.Background(), "trip-12345-6789")
		assert.ErrorIs(t, err, domain.ErrVisitedPlaces)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("deletes a project with no visited places", func(t *testing.T) {
		svc, mock, _, db := setupService(t, &stubLookup{})
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`FOR UPDATE`).
			WithArgs("trip-12345-6789").
			WillReturnRows(projectRows(1, "trip-12345-6789", "Chicago Trip", false))
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectExec(`DELETE FROM travel_projects`).
			WithArgs(int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := svc.DeleteProject(context.Background(), "trip-12345-6789")
		require.NoError(t, err)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown project is not found", func(t *testing.T) {
		svc, mock, _, db := setupService(t, &stubLookup{})
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`FOR UPDATE`).
			WithArgs("trip-00000-0000").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		err := svc.DeleteProject(context.Background(), "trip-00000-0000")
		assert.ErrorIs(t, err, domain.ErrProjectNotFound)

		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestService_ReconcileCompletion(t *testing.T) {
	t.Run("counts and publishes corrected flags", func(t *testing.T) {
		svc, mock, pub, db := setupService(t, &stubLookup{})
		defer db.Close()

		mock.ExpectQuery(`FROM travel_projects`).
			WillReturnRows(projectRows(1, "trip-12345-6789", "Chicago Trip", false))
		mock.ExpectQuery(`UPDATE travel_projects p`).
			WithArgs(int64(1)).
			WillReturnRows(completionRows(true))

		fixed, err := svc.ReconcileCompletion(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, fixed)
		require.Len(t, pub.events, 1)
		assert.Equal(t, "trip-12345-6789", pub.events[0].ProjectID)
		assert.True(t, pub.events[0].IsCompleted)

		require.NoError(t, mock.ExpectationsWereMet())
	})
}
