// Package quiz provides the CPR knowledge quiz.
package quiz

import (
	"math/rand"
	"time"
)

// Generator selects quiz questions.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed returns a deterministic Generator.
func NewWithSeed(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Pick returns up to count distinct questions from bank in random order.
func (g *Generator) Pick(bank []Question, count int) []Question {
	if count <= 0 || len(bank) == 0 {
		return nil
	}
	if count > len(bank) {
		count = len(bank)
	}
	perm := g.rnd.Perm(len(bank))
	out := make([]Question, 0, count)
	for _, idx := range perm[:count] {
		out = append(out, bank[idx])
	}
	return out
}
