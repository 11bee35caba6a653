package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schemahub/console"
)

func TestRefSet_OrderAndDedup(t *testing.T) {
	s := newRefSet()

	assert.True(t, s.Add(record(3, "c")))
	assert.True(t, s.Add(record(1, "a")))
	assert.True(t, s.Add(record(2, "b")))
	assert.False(t, s.Add(record(1, "a")), "duplicate id")
	assert.False(t, s.Add(console.Content{"name": "no id"}))

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []console.ContentRef{{ID: 3}, {ID: 1}, {ID: 2}}, s.Refs())

	items := s.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "c", items[0]["name"])
}

func TestRefSet_Remove(t *testing.T) {
	s := newRefSet()
	s.Add(record(1, "a"))
	s.Add(record(2, "b"))

	assert.True(t, s.Remove(1))
	assert.False(t, s.Remove(1))
	assert.False(t, s.Contains(1))
	assert.Equal(t, []console.ContentRef{{ID: 2}}, s.Refs())
}

func TestRefSet_ReplaceWithAndFirst(t *testing.T) {
	s := newRefSet()
	assert.Nil(t, s.First())

	s.Add(record(1, "a"))
	s.Add(record(2, "b"))
	s.ReplaceWith(record(9, "z"))

	assert.Equal(t, 1, s.Len())
	require.NotNil(t, s.First())
	assert.Equal(t, uint64(9), s.First().ID())

	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Refs())
}
