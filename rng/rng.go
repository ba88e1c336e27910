// Package rng provides the single seeded random source owned by a game.
package rng

import (
	"fmt"

	"golang.org/x/exp/rand"
)

// Source is a deterministic PCG generator. Two sources created with the same seed
// produce the same sequence of draws.
type Source struct {
	seed  uint64
	pcg   *rand.PCGSource
	r     *rand.Rand
	draws uint64
}

func New(seed uint64) *Source {
	pcg := &rand.PCGSource{}
	pcg.Seed(seed)
	return &Source{seed: seed, pcg: pcg, r: rand.New(pcg)}
}

func (s *Source) Seed() uint64 {
	return s.seed
}

// Draws counts how many values have been taken from the source.
func (s *Source) Draws() uint64 {
	return s.draws
}

// Intn returns a value in [0, n). It panics if n <= 0.
func (s *Source) Intn(n int) int {
	if n <= 0 {
		panic(fmt.Sprintf("rng: invalid bound %d", n))
	}
	s.draws++
	return s.r.Intn(n)
}

func (s *Source) Shuffle(n int, swap func(i, j int)) {
	s.draws++
	s.r.Shuffle(n, swap)
}

// Clone returns an independent source positioned at the same point of the sequence.
func (s *Source) Clone() *Source {
	pcg := *s.pcg
	return &Source{seed: s.seed, pcg: &pcg, r: rand.New(&pcg), draws: s.draws}
}

// MarshalBinary captures the generator position.
func (s *Source) MarshalBinary() ([]byte, error) {
	return s.pcg.MarshalBinary()
}
