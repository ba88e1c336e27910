package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFindIndex(t *testing.T) {
	require.Equal(t, 1, FindIndex([]int{4, 5, 6}, 5), "Index of a present item")
	require.Equal(t, -1, FindIndex([]int{4, 5, 6}, 7), "Missing item yields -1")
	require.True(t, Contains([]string{"a", "b"}, "b"))
}

func TestRemove(t *testing.T) {
	got, ok := Remove([]int{1, 2, 3, 2}, 2)
	require.True(t, ok)
	require.Equal(t, []int{1, 3, 2}, got, "Only the first occurrence is removed")

	got, ok = Remove([]int{1}, 9)
	require.False(t, ok)
	require.Equal(t, []int{1}, got)
}

func TestSortedKeys(t *testing.T) {
	require.Equal(t, []int{1, 2, 3}, SortedKeys(map[int]string{3: "c", 1: "a", 2: "b"}))
}
