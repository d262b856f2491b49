package minefield

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
)

// PositionSource draws candidate mine positions. Generation calls Next until it
// has collected enough distinct in-bounds positions, so a source may repeat itself.
type PositionSource interface {
	Next(d Dimensions) Position
}

// PositionSourceFunc adapts a function to PositionSource.
type PositionSourceFunc func(d Dimensions) Position

// Next calls f.
func (f PositionSourceFunc) Next(d Dimensions) Position {
	return f(d)
}

// RandomSource draws uniformly distributed positions from a PCG generator.
type RandomSource struct {
	rng  *rand.Rand
	seed uint64
}

// NewSeededSource returns a deterministic source for seed.
func NewSeededSource(seed uint64) *RandomSource {
	return &RandomSource{
		rng:  rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		seed: seed,
	}
}

// NewRandomSource returns a source seeded from crypto/rand.
func NewRandomSource() (*RandomSource, error) {
	seed, err := NewSeed()
	if err != nil {
		return nil, err
	}
	return NewSeededSource(seed), nil
}

// NewSeed returns a high-entropy seed suitable for NewSeededSource.
func NewSeed() (uint64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

// Seed returns the seed the source was built from.
func (s *RandomSource) Seed() uint64 {
	return s.seed
}

// Next draws a position inside d.
func (s *RandomSource) Next(d Dimensions) Position {
	return Position{X: s.rng.IntN(d.Cols), Y: s.rng.IntN(d.Rows)}
}

// Fixed replays positions in order and then starts over. Generation gives up
// with ErrPlacementExhausted when the list has too few distinct in-bounds entries.
func Fixed(positions ...Position) PositionSource {
	replay := append([]Position(nil), positions...)
	next := 0
	return PositionSourceFunc(func(Dimensions) Position {
		if len(replay) == 0 {
			return Position{X: -1, Y: -1}
		}
		p := replay[next%len(replay)]
		next++
		return p
	})
}
