package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToggleRoundTrip(t *testing.T) {
	start := List{3, 7, 9}

	once, added := start.Toggle(7)
	assert.False(t, added)
	assert.Equal(t, List{3, 9}, once)

	twice, added := once.Toggle(7)
	assert.True(t, added)
	assert.ElementsMatch(t, start, twice)
	assert.Equal(t, start.Count(), twice.Count())

	// The receiver is never modified.
	assert.Equal(t, List{3, 7, 9}, start)
}

func TestToggleRemovesSingleOccurrence(t *testing.T) {
	l, added := List{5, 5, 7}.Toggle(5)
	assert.False(t, added)
	assert.Equal(t, List{5, 7}, l)
}

func TestIncrementDecrement(t *testing.T) {
	var l List
	for i := 0; i < 3; i++ {
		l = l.Increment(4)
	}
	l = l.Decrement(4)

	assert.Equal(t, 2, l.Count())
	assert.Equal(t, List{4, 4}, l)

	assert.Equal(t, List{4, 4}, l.Decrement(99))
	assert.Equal(t, List{}, List{}.Decrement(1))
}

func TestDecrementRemovesFirstOccurrence(t *testing.T) {
	assert.Equal(t, List{1, 2, 1}, List{2, 1, 2, 1}.Decrement(2))
}

func TestRemoveAllAndQueries(t *testing.T) {
	l := List{1, 2, 1, 3, 1}

	assert.Equal(t, List{2, 3}, l.RemoveAll(1))
	assert.True(t, l.Contains(3))
	assert.False(t, l.Contains(4))
	assert.Equal(t, 5, l.Count())
	assert.Equal(t, map[int64]int{1: 3, 2: 1, 3: 1}, l.Quantities())
	assert.Equal(t, []int64{1, 2, 3}, l.Distinct())
}
