package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWindowAppendAndPop(t *testing.T) {
	w := NewWindow(Turn{1, 2, 3})
	grown := w.Append(Turn{4, 5, 6})

	assert.Equal(t, 1, w.Len())
	assert.Equal(t, 2, grown.Len())
	assert.Equal(t, 21, grown.Total())

	first, rest, ok := grown.PopFront()
	assert.True(t, ok)
	assert.Equal(t, Turn{1, 2, 3}, first)
	assert.Equal(t, []Turn{{4, 5, 6}}, rest.Turns())
	assert.Equal(t, 2, grown.Len())

	_, _, ok = NewWindow().PopFront()
	assert.False(t, ok)
}

func TestWindowAppendDoesNotAlias(t *testing.T) {
	base := NewWindow(Turn{1, 1, 1}, Turn{2, 2, 2})
	_, rest, _ := base.PopFront()

	a := rest.Append(Turn{3, 3, 3})
	b := rest.Append(Turn{4, 4, 4})

	assert.Equal(t, Turn{3, 3, 3}, a.Turns()[1])
	assert.Equal(t, Turn{4, 4, 4}, b.Turns()[1])
}

func TestHistoryDropFront(t *testing.T) {
	h := History{User: []string{"a", "b"}, Bot: []string{"x", "y"}}

	dropped := h.DropFront()
	assert.Equal(t, History{User: []string{"b"}, Bot: []string{"y"}}, dropped)
	assert.Equal(t, History{User: []string{}, Bot: []string{}}, dropped.DropFront())
	assert.Equal(t, []string{"a", "b"}, h.User)
}
