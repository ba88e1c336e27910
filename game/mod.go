// Package game holds the state of a game, the closed set of events that mutate it and the battle rules.
package game

type StateHash uint64

// Random is the only source of randomness a game may use. It is seeded once per game so
// that replaying the same events reproduces the same state.
type Random interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}
