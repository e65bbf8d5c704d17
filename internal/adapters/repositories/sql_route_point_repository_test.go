package repositories

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
	"trip-planner/internal/domain"
	"trip-planner/internal/platform/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func newTestRepo(t *testing.T) *SQLRoutePointRepository {
	t.Helper()

	ctx := context.Background()
	conn, err := db.Open(ctx, "sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, InitSchema(ctx, conn))

	return NewSQLRoutePointRepository(conn, DialectSQLite)
}

func point(id string, dest string, from time.Time) domain.RoutePoint {
	return domain.RoutePoint{
		ID:          id,
		Type:        domain.PointFlight,
		Destination: dest,
		DateFrom:    from,
		DateTo:      from.Add(2 * time.Hour),
		BasePrice:   100,
		Offers:      []string{"o1", "o1"},
	}
}

func TestRepositoryPreservesInsertionOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 9, 30, 0, 123, time.UTC)

	for _, id := range []string{"z", "a", "m"} {
		_, err := repo.CreateRoutePoint(ctx, point(id, "d-"+id, base))
		require.NoError(t, err)
	}

	points, err := repo.ListRoutePoints(ctx)
	require.NoError(t, err)
	require.Len(t, points, 3)

	assert.Equal(t, "z", points[0].ID)
	assert.Equal(t, "a", points[1].ID)
	assert.Equal(t, "m", points[2].ID)

	assert.True(t, points[0].DateFrom.Equal(base))
	assert.Equal(t, []string{"o1", "o1"}, points[0].Offers)
	assert.Equal(t, domain.PointFlight, points[0].Type)
}

func TestRepositoryCreateRejectsDuplicateID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	p := point("a", "d1", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))

	_, err := repo.CreateRoutePoint(ctx, p)
	require.NoError(t, err)

	_, err = repo.CreateRoutePoint(ctx, p)
	assert.ErrorIs(t, err, ErrAlreadyExists)

	_, err = repo.CreateRoutePoint(ctx, domain.RoutePoint{})
	assert.Error(t, err)
}

func TestRepositoryUpdateKeepsPosition(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err := repo.CreateRoutePoint(ctx, point("a", "d1", base))
	require.NoError(t, err)
	_, err = repo.CreateRoutePoint(ctx, point("b", "d2", base))
	require.NoError(t, err)

	changed := point("a", "d9", base)
	changed.IsFavorite = true
	changed.Offers = nil
	_, err = repo.UpdateRoutePoint(ctx, changed)
	require.NoError(t, err)

	points, err := repo.ListRoutePoints(ctx)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, "a", points[0].ID)
	assert.Equal(t, "d9", points[0].Destination)
	assert.True(t, points[0].IsFavorite)
	assert.Equal(t, []string{}, points[0].Offers)

	_, err = repo.UpdateRoutePoint(ctx, point("missing", "d", base))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepositoryDelete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.CreateRoutePoint(ctx, point("a", "d1", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	require.NoError(t, repo.DeleteRoutePoint(ctx, "a"))
	assert.ErrorIs(t, repo.DeleteRoutePoint(ctx, "a"), ErrNotFound)

	points, err := repo.ListRoutePoints(ctx)
	require.NoError(t, err)
	assert.Empty(t, points)
}

func TestSeedFromJSON(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	seed := `[
		{"id":"p1","type":"bus","destination":"d1","date_from":"2024-01-02T10:00:00Z","date_to":"2024-01-02T12:00:00Z","base_price":20,"offers":["o1"],"is_favorite":false},
		{"id":"p2","type":"check-in","destination":"d2","date_from":"2024-01-01T10:00:00+02:00","date_to":"2024-01-03T10:00:00+02:00","base_price":300,"offers":[],"is_favorite":true}
	]`
	path := filepath.Join(t.TempDir(), "points.json")
	require.NoError(t, os.WriteFile(path, []byte(seed), 0o600))

	require.NoError(t, SeedFromJSON(ctx, repo.DB, repo.Dialect, path))
	// Seeding twice is idempotent.
	require.NoError(t, SeedFromJSON(ctx, repo.DB, repo.Dialect, path))

	points, err := repo.ListRoutePoints(ctx)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, "p1", points[0].ID)
	assert.Equal(t, "p2", points[1].ID)
	assert.True(t, points[1].IsFavorite)
	assert.Equal(t, time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC), points[1].DateFrom)
}

func TestSeedFromJSONRejectsInvalidItems(t *testing.T) {
	repo := newTestRepo(t)
	dir := t.TempDir()

	cases := map[string]string{
		"missing id":   `[{"type":"bus","destination":"d","date_from":"2024-01-01T00:00:00Z","date_to":"2024-01-01T01:00:00Z"}]`,
		"duplicate id": `[{"id":"a","type":"bus","destination":"d","date_from":"2024-01-01T00:00:00Z","date_to":"2024-01-01T01:00:00Z"},{"id":"a","type":"bus","destination":"d","date_from":"2024-01-01T00:00:00Z","date_to":"2024-01-01T01:00:00Z"}]`,
		"bad type":     `[{"id":"a","type":"rocket","destination":"d","date_from":"2024-01-01T00:00:00Z","date_to":"2024-01-01T01:00:00Z"}]`,
		"not json":     `{`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, "seed.json")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
			assert.Error(t, SeedFromJSON(context.Background(), repo.DB, repo.Dialect, path))
		})
	}

	assert.Error(t, SeedFromJSON(context.Background(), repo.DB, repo.Dialect, filepath.Join(dir, "missing.json")))
}

func TestDialectRebind(t *testing.T) {
	q := `UPDATE t SET a = ?, b = ? WHERE id = ?;`

	assert.Equal(t, q, DialectSQLite.rebind(q))
	assert.Equal(t, `UPDATE t SET a = $1, b = $2 WHERE id = $3;`, DialectPostgres.rebind(q))

	d, err := DialectFor("pgx")
	require.NoError(t, err)
	assert.Equal(t, DialectPostgres, d)

	_, err = DialectFor("mysql")
	assert.Error(t, err)
}
