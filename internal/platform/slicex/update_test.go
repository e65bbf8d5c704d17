package slicex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	id    string
	value int
}

func TestUpdateItemFuncReplacesOnlyMatch(t *testing.T) {
	a := &item{id: "a", value: 1}
	b := &item{id: "b", value: 2}
	c := &item{id: "c", value: 3}
	source := []*item{a, b, c}

	replacement := &item{id: "b", value: 20}
	got := UpdateItemFunc(source, replacement, func(cur *item) bool { return cur.id == "b" })

	require.Len(t, got, 3)
	assert.Same(t, a, got[0])
	assert.Same(t, replacement, got[1])
	assert.Same(t, c, got[2])

	// source is untouched
	assert.Same(t, b, source[1])
}

func TestUpdateItemFuncNoMatch(t *testing.T) {
	source := []int{1, 2, 3}
	got := UpdateItemFunc(source, 9, func(v int) bool { return v > 10 })

	assert.Equal(t, source, got)
	got[0] = 100
	assert.Equal(t, 1, source[0])
}

func TestUpdateItemByIdentity(t *testing.T) {
	got := UpdateItem([]string{"x", "y", "x"}, "x")
	assert.Equal(t, []string{"x", "y", "x"}, got)
}

func TestRemoveFunc(t *testing.T) {
	source := []int{1, 2, 3, 2}
	got := RemoveFunc(source, func(v int) bool { return v == 2 })

	assert.Equal(t, []int{1, 3}, got)
	assert.Equal(t, []int{1, 2, 3, 2}, source)
}
