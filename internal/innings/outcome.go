// Package innings implements the scoring state machine for a single innings.
package innings

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Kind classifies a ball outcome.
type Kind uint8

const (
	// KindRuns is a legal ball scoring zero to six runs.
	KindRuns Kind = iota
	// KindWide is a wide ball extra.
	KindWide
	// KindNoBall is a no-ball extra.
	KindNoBall
	// KindWicket is a legal ball resulting in a dismissal.
	KindWicket
)

// MaxRunsPerBall is the largest run value accepted for a single legal ball.
const MaxRunsPerBall = 6

// ErrInvalidOutcome is returned when a token or run value is outside the outcome alphabet.
var ErrInvalidOutcome = errors.New("invalid ball outcome")

// Outcome is what happened on one delivery. The zero value is a dot ball.
type Outcome struct {
	kind Kind
	runs int
}

// Contribution is the effect of one outcome on the innings counters.
type Contribution struct {
	Runs      int
	LegalBall bool
	Wicket    bool
}

// Runs returns a legal-ball outcome worth n runs.
func Runs(n int) (Outcome, error) {
	if n < 0 || n > MaxRunsPerBall {
		return Outcome{}, fmt.Errorf("%w: %d runs", ErrInvalidOutcome, n)
	}
	return Outcome{kind: KindRuns, runs: n}, nil
}

// WideBall returns the wide extra.
func WideBall() Outcome { return Outcome{kind: KindWide} }

// NoBall returns the no-ball extra.
func NoBall() Outcome { return Outcome{kind: KindNoBall} }

// Wicket returns the dismissal outcome.
func Wicket() Outcome { return Outcome{kind: KindWicket} }

// Outcomes returns the complete input alphabet in display order.
func Outcomes() []Outcome {
	out := make([]Outcome, 0, MaxRunsPerBall+4)
	for n := 0; n <= MaxRunsPerBall; n++ {
		out = append(out, Outcome{kind: KindRuns, runs: n})
	}
	return append(out, WideBall(), NoBall(), Wicket())
}

// Kind returns the outcome category.
func (o Outcome) Kind() Kind { return o.kind }

// Classify maps the outcome onto its scoring contribution.
func (o Outcome) Classify() Contribution {
	switch o.kind {
	case KindWide, KindNoBall:
		return Contribution{Runs: 1}
	case KindWicket:
		return Contribution{LegalBall: true, Wicket: true}
	default:
		return Contribution{Runs: o.runs, LegalBall: true}
	}
}

// String returns the scoreboard token: 0-6, WB, NB or W.
func (o Outcome) String() string {
	switch o.kind {
	case KindWide:
		return "WB"
	case KindNoBall:
		return "NB"
	case KindWicket:
		return "W"
	default:
		return strconv.Itoa(o.runs)
	}
}

// ParseOutcome parses a scoreboard token. Matching is case-insensitive and
// WD is accepted for a wide.
func ParseOutcome(token string) (Outcome, error) {
	t := strings.ToUpper(strings.TrimSpace(token))
	switch t {
	case "WB", "WD":
		return WideBall(), nil
	case "NB":
		return NoBall(), nil
	case "W":
		return Wicket(), nil
	}
	n, err := strconv.Atoi(t)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %q", ErrInvalidOutcome, token)
	}
	return Runs(n)
}

// ParseOutcomes parses every token, stopping at the first invalid one.
func ParseOutcomes(tokens []string) ([]Outcome, error) {
	out := make([]Outcome, 0, len(tokens))
	for _, tok := range tokens {
		o, err := ParseOutcome(tok)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}
