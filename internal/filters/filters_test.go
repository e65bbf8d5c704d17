package filters

import (
	"testing"
	"time"
	"trip-planner/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ref = time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

func fixture() []*domain.RoutePoint {
	return []*domain.RoutePoint{
		{ID: "past", DateFrom: ref.AddDate(0, 0, -3), DateTo: ref.AddDate(0, 0, -2), BasePrice: 40},
		{ID: "now", DateFrom: ref.Add(-time.Hour), DateTo: ref.Add(time.Hour), BasePrice: 150, IsFavorite: true},
		{ID: "edge", DateFrom: ref, DateTo: ref, BasePrice: 10},
		{ID: "future", DateFrom: ref.AddDate(0, 0, 1), DateTo: ref.AddDate(0, 0, 2), BasePrice: 300, Offers: []string{"a", "b"}},
	}
}

func ids(points []*domain.RoutePoint) []string {
	out := []string{}
	for _, p := range points {
		out = append(out, p.ID)
	}
	return out
}

func TestBuiltinFilters(t *testing.T) {
	points := fixture()

	assert.Equal(t, []string{"past", "now", "edge", "future"}, ids(ByType[Everything](ref, points)))
	assert.Equal(t, []string{"future"}, ids(ByType[Future](ref, points)))
	assert.Equal(t, []string{"now", "edge"}, ids(ByType[Present](ref, points)))
	assert.Equal(t, []string{"past"}, ids(ByType[Past](ref, points)))
}

func TestBuiltinFiltersOnEmptyCollection(t *testing.T) {
	for name, pred := range ByType {
		assert.Empty(t, pred(ref, nil), "filter %s", name)
	}
}

func TestBuiltinReturnsIndependentMap(t *testing.T) {
	m := Builtin()
	m["custom"] = ByType[Past]

	_, ok := ByType["custom"]
	assert.False(t, ok)
	assert.Len(t, m, len(ByType)+1)
}

func TestCompileExpression(t *testing.T) {
	pred, err := Compile("BasePrice >= 100 && IsFavorite")
	require.NoError(t, err)
	assert.Equal(t, []string{"now"}, ids(pred(ref, fixture())))

	pred, err = Compile("len(Offers) > 1")
	require.NoError(t, err)
	assert.Equal(t, []string{"future"}, ids(pred(ref, fixture())))

	pred, err = Compile("DateFrom > Now")
	require.NoError(t, err)
	assert.Equal(t, []string{"future"}, ids(pred(ref, fixture())))
}

func TestCompileRejectsInvalidExpressions(t *testing.T) {
	_, err := Compile("")
	assert.Error(t, err)

	_, err = Compile("BasePrice +")
	assert.Error(t, err)

	_, err = Compile("BasePrice")
	assert.Error(t, err, "non-boolean expressions are rejected")

	_, err = Compile("Unknown > 1")
	assert.Error(t, err)
}

func TestParseNamed(t *testing.T) {
	name, pred, err := ParseNamed("cheap = BasePrice < 50")
	require.NoError(t, err)
	assert.Equal(t, Type("cheap"), name)
	assert.Equal(t, []string{"past", "edge"}, ids(pred(ref, fixture())))

	_, _, err = ParseNamed("no-separator")
	assert.Error(t, err)

	_, _, err = ParseNamed("=BasePrice > 1")
	assert.Error(t, err)
}
