package workload

import (
	"fmt"
	"math/rand"
)

// UniformGenerator draws operations uniformly over a fixed path alphabet.
type UniformGenerator struct {
	alphabet []string
}

// NewUniform builds a uniform generator over Alphabet(folders, maxDepth).
func NewUniform(folders, maxDepth int) (*UniformGenerator, error) {
	if folders < 1 {
		return nil, fmt.Errorf("uniform workload: folders must be at least 1, got %d", folders)
	}
	return &UniformGenerator{alphabet: Alphabet(folders, maxDepth)}, nil
}

// Next returns the next operation for the given RNG.
func (g *UniformGenerator) Next(r *rand.Rand) Op {
	op := Op{
		Kind: mixKind(r),
		Path: g.alphabet[r.Intn(len(g.alphabet))],
	}
	if op.Kind == KindMove {
		op.Target = g.alphabet[r.Intn(len(g.alphabet))]
	}
	return op
}
