package rng

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func draw(s *Source, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = s.Intn(100)
	}
	return out
}

func TestSameSeedSameSequence(t *testing.T) {
	require.Equal(t, draw(New(42), 20), draw(New(42), 20), "Equal seeds should produce equal draws")
	require.NotEqual(t, draw(New(42), 20), draw(New(43), 20), "Different seeds should diverge")
}

func TestClone(t *testing.T) {
	t.Run("clone continues from the same position", func(t *testing.T) {
		s := New(7)
		draw(s, 5)
		c := s.Clone()
		require.Equal(t, draw(s, 10), draw(c, 10))
		require.Equal(t, s.Draws(), c.Draws())
	})

	t.Run("clone is independent", func(t *testing.T) {
		s := New(7)
		c := s.Clone()
		draw(c, 3)
		require.Equal(t, uint64(0), s.Draws(), "Drawing from the clone must not advance the original")
	})
}

func TestShuffleDeterministic(t *testing.T) {
	shuffle := func(seed uint64) []int {
		s := New(seed)
		xs := []int{1, 2, 3, 4, 5, 6, 7, 8}
		s.Shuffle(len(xs), func(i, j int) { xs[i], xs[j] = xs[j], xs[i] })
		return xs
	}
	require.Equal(t, shuffle(9), shuffle(9))
}

func TestIntnPanicsOnInvalidBound(t *testing.T) {
	require.Panics(t, func() { New(1).Intn(0) })
}
