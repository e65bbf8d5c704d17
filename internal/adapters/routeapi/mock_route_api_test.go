package routeapi

import (
	"context"
	"errors"
	"testing"
	"time"
	"trip-planner/internal/api/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockRouteAPIAssignsIDsAndCopies(t *testing.T) {
	from := time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC)
	api := NewMockRouteAPI([]dto.RoutePoint{{ID: "1", Type: "bus", DateFrom: from, Offers: []string{"o1"}}})
	ctx := context.Background()

	created, err := api.CreateRoutePoint(ctx, dto.RoutePoint{Type: "taxi"})
	require.NoError(t, err)
	assert.Equal(t, "2", created.ID, "seeded ids are skipped")

	points, err := api.GetRoute(ctx)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.True(t, points[0].DateFrom.Equal(from))

	points[0].Offers[0] = "changed"
	again, err := api.GetRoute(ctx)
	require.NoError(t, err)
	assert.Equal(t, "o1", again[0].Offers[0])
	assert.Equal(t, 2, api.Calls(OpGetRoute))
}

func TestMockRouteAPIFailures(t *testing.T) {
	api := NewMockRouteAPI(nil)
	ctx := context.Background()
	boom := errors.New("boom")

	api.Fail(OpCreate, boom)
	_, err := api.CreateRoutePoint(ctx, dto.RoutePoint{})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, api.Stored())

	api.Fail(OpCreate, nil)
	_, err = api.CreateRoutePoint(ctx, dto.RoutePoint{})
	assert.NoError(t, err)

	_, err = api.UpdateRoutePoint(ctx, dto.RoutePoint{ID: "missing"})
	assert.ErrorIs(t, err, ErrMockNotFound)
	assert.ErrorIs(t, api.DeleteRoutePoint(ctx, dto.RoutePoint{ID: "missing"}), ErrMockNotFound)
	assert.Equal(t, 2, api.Calls(OpCreate))
}

func TestMockRouteAPIDelete(t *testing.T) {
	api := NewMockRouteAPI([]dto.RoutePoint{{ID: "a"}, {ID: "b"}, {ID: "c"}})

	require.NoError(t, api.DeleteRoutePoint(context.Background(), dto.RoutePoint{ID: "b"}))

	stored := api.Stored()
	require.Len(t, stored, 2)
	assert.Equal(t, "a", stored[0].ID)
	assert.Equal(t, "c", stored[1].ID)
}
