// Package generator builds random ball outcome sequences.
package generator

import (
	"math/rand"
	"time"

	"github.com/verte-zerg/crease/internal/innings"
)

// Weight pairs an outcome with its relative likelihood.
type Weight struct {
	Outcome innings.Outcome
	Weight  float64
}

// DefaultWeights approximates a limited-overs batting innings.
func DefaultWeights() []Weight {
	runs := []float64{38, 27, 8, 1.5, 10, 0.2, 4}
	out := make([]Weight, 0, len(runs)+3)
	for n, w := range runs {
		o, _ := innings.Runs(n)
		out = append(out, Weight{Outcome: o, Weight: w})
	}
	return append(out,
		Weight{Outcome: innings.WideBall(), Weight: 3.5},
		Weight{Outcome: innings.NoBall(), Weight: 0.8},
		Weight{Outcome: innings.Wicket(), Weight: 4},
	)
}

// Generator produces randomized ball outcomes.
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

// Generate selects count outcomes uniformly from the input alphabet.
func (g *Generator) Generate(count int) []innings.Outcome {
	alphabet := innings.Outcomes()
	result := make([]innings.Outcome, 0, count)
	for i := 0; i < count; i++ {
		result = append(result, alphabet[g.rnd.Intn(len(alphabet))])
	}
	return result
}

// GenerateWeighted selects count outcomes with the given relative weights.
// Non-positive weights are never drawn.
func (g *Generator) GenerateWeighted(count int, weights []Weight) []innings.Outcome {
	total := 0.0
	for _, w := range weights {
		if w.Weight > 0 {
			total += w.Weight
		}
	}
	if total <= 0 {
		return g.Generate(count)
	}
	result := make([]innings.Outcome, 0, count)
	for i := 0; i < count; i++ {
		result = append(result, g.pick(weights, total))
	}
	return result
}

func (g *Generator) pick(weights []Weight, total float64) innings.Outcome {
	r := g.rnd.Float64() * total
	acc := 0.0
	last := weights[0].Outcome
	for _, w := range weights {
		if w.Weight <= 0 {
			continue
		}
		acc += w.Weight
		last = w.Outcome
		if r < acc {
			return w.Outcome
		}
	}
	return last
}

// Play bowls outcomes through a new innings until the requested number of
// overs is complete or the innings is all out. Nil weights draw uniformly
// from the alphabet. Weights that can never produce a legal ball are also
// drawn uniformly, otherwise the over would never complete.
func (g *Generator) Play(rules innings.Rules, overs int, weights []Weight) innings.State {
	st := innings.New(rules)
	if !bowlsLegalBall(weights) {
		weights = nil
	}
	for !st.AllOut() {
		if st.CanAdvance() {
			if st.CompletedOverCount()+1 >= overs {
				break
			}
			next, err := st.Advance()
			if err != nil {
				break
			}
			st = next
			continue
		}
		next, err := st.Record(g.GenerateWeighted(1, weights)[0])
		if err != nil {
			break
		}
		st = next
	}
	return st
}

func bowlsLegalBall(weights []Weight) bool {
	for _, w := range weights {
		if w.Weight > 0 && w.Outcome.Classify().LegalBall {
			return true
		}
	}
	return false
}
