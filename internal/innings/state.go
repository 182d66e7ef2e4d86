package innings

import (
	"errors"
	"fmt"
)

// DefaultBallsPerOver is the number of legal balls in a standard over.
const DefaultBallsPerOver = 6

var (
	// ErrOverComplete rejects a delivery when no legal ball is left in the over.
	ErrOverComplete = errors.New("over complete")
	// ErrOverInProgress rejects advancing while legal balls remain in the over.
	ErrOverInProgress = errors.New("over in progress")
	// ErrAllOut rejects every operation once the wicket cap is reached.
	ErrAllOut = errors.New("all out")
)

// Rules parameterises an innings.
type Rules struct {
	// BallsPerOver defaults to DefaultBallsPerOver when zero.
	BallsPerOver int
	// MaxWickets caps dismissals. Zero leaves the innings uncapped.
	MaxWickets int
}

// DefaultRules returns six-ball overs with no wicket cap.
func DefaultRules() Rules {
	return Rules{BallsPerOver: DefaultBallsPerOver}
}

func (r Rules) normalize() Rules {
	if r.BallsPerOver <= 0 {
		r.BallsPerOver = DefaultBallsPerOver
	}
	if r.MaxWickets < 0 {
		r.MaxWickets = 0
	}
	return r
}

// Over holds the outcomes of one over in the order they were entered.
type Over []Outcome

// LegalBalls counts deliveries that consumed a legal ball.
func (o Over) LegalBalls() int {
	n := 0
	for _, out := range o {
		if out.Classify().LegalBall {
			n++
		}
	}
	return n
}

// Runs sums the run contribution of the over, extras included.
func (o Over) Runs() int {
	n := 0
	for _, out := range o {
		n += out.Classify().Runs
	}
	return n
}

// Strings returns the scoreboard tokens of the over.
func (o Over) Strings() []string {
	out := make([]string, len(o))
	for i, b := range o {
		out[i] = b.String()
	}
	return out
}

// State is an immutable snapshot of the innings. Operations return a new
// State and leave the receiver untouched, so snapshots are safe to keep.
type State struct {
	rules          Rules
	overs          []Over
	totalRuns      int
	wickets        int
	extras         int
	legalBalls     int
	ballsRemaining int
}

// New starts an innings with one empty over and a full set of balls.
func New(rules Rules) State {
	rules = rules.normalize()
	return State{
		rules:          rules,
		overs:          []Over{{}},
		ballsRemaining: rules.BallsPerOver,
	}
}

// Record appends an outcome to the current over. When the over has no legal
// ball left, or the innings is all out, the state is returned unchanged
// together with the rejection.
func (s State) Record(o Outcome) (State, error) {
	s = s.ensure()
	if s.AllOut() {
		return s, ErrAllOut
	}
	if s.ballsRemaining <= 0 {
		return s, ErrOverComplete
	}
	c := o.Classify()

	last := len(s.overs) - 1
	current := make(Over, len(s.overs[last]), len(s.overs[last])+1)
	copy(current, s.overs[last])
	overs := make([]Over, len(s.overs))
	copy(overs, s.overs)
	overs[last] = append(current, o)

	next := s
	next.overs = overs
	next.totalRuns += c.Runs
	if c.LegalBall {
		next.ballsRemaining--
		next.legalBalls++
	} else {
		next.extras += c.Runs
	}
	if c.Wicket {
		next.wickets++
	}
	return next, nil
}

// Advance opens a new over once the current one has no legal ball left.
func (s State) Advance() (State, error) {
	s = s.ensure()
	if s.AllOut() {
		return s, ErrAllOut
	}
	if s.ballsRemaining > 0 {
		return s, ErrOverInProgress
	}
	overs := make([]Over, len(s.overs), len(s.overs)+1)
	copy(overs, s.overs)

	next := s
	next.overs = append(overs, Over{})
	next.ballsRemaining = s.rules.BallsPerOver
	return next, nil
}

// RecordAll records outcomes in order. With autoAdvance, a complete over is
// advanced before the next outcome is recorded. The state reached before the
// first rejection is returned with the error.
func (s State) RecordAll(outcomes []Outcome, autoAdvance bool) (State, error) {
	for i, o := range outcomes {
		if autoAdvance && s.CanAdvance() {
			next, err := s.Advance()
			if err != nil {
				return s, fmt.Errorf("ball %d (%s): %w", i+1, o, err)
			}
			s = next
		}
		next, err := s.Record(o)
		if err != nil {
			return s, fmt.Errorf("ball %d (%s): %w", i+1, o, err)
		}
		s = next
	}
	return s, nil
}

// ensure makes the zero State behave like New(DefaultRules()).
func (s State) ensure() State {
	if len(s.overs) == 0 {
		return New(s.rules)
	}
	return s
}

// Rules returns the rules the innings was started with.
func (s State) Rules() Rules { return s.ensure().rules }

// TotalRuns is the cumulative score, extras included.
func (s State) TotalRuns() int { return s.totalRuns }

// Wickets is the cumulative number of dismissals.
func (s State) Wickets() int { return s.wickets }

// Extras is the number of runs conceded as wides and no-balls.
func (s State) Extras() int { return s.extras }

// LegalBalls is the number of legal balls bowled in the innings.
func (s State) LegalBalls() int { return s.legalBalls }

// BallsRemaining is the number of legal balls left in the current over.
func (s State) BallsRemaining() int { return s.ensure().ballsRemaining }

// AllOut reports whether the configured wicket cap has been reached.
func (s State) AllOut() bool {
	return s.rules.MaxWickets > 0 && s.wickets >= s.rules.MaxWickets
}

// CanRecord reports whether Record would accept an outcome.
func (s State) CanRecord() bool {
	return !s.AllOut() && s.BallsRemaining() > 0
}

// CanAdvance reports whether Advance would open a new over.
func (s State) CanAdvance() bool {
	return !s.AllOut() && s.BallsRemaining() == 0
}

// CompletedOverCount is the number of overs before the current one.
func (s State) CompletedOverCount() int {
	return len(s.ensure().overs) - 1
}

// CurrentOver returns a copy of the over in progress.
func (s State) CurrentOver() Over {
	s = s.ensure()
	return cloneOver(s.overs[len(s.overs)-1])
}

// CompletedOvers returns copies of the earlier overs, oldest first.
func (s State) CompletedOvers() []Over {
	s = s.ensure()
	return cloneOvers(s.overs[:len(s.overs)-1])
}

// Overs returns copies of every over including the current one, oldest first.
func (s State) Overs() []Over {
	return cloneOvers(s.ensure().overs)
}

// Deliveries is the number of outcomes recorded, extras included.
func (s State) Deliveries() int {
	n := 0
	for _, o := range s.overs {
		n += len(o)
	}
	return n
}

// OversDisplay renders the overs bowled in "overs.balls" notation. Only legal
// balls count, so the fraction never reaches the balls-per-over value: a
// completed over reads as the next whole number.
func (s State) OversDisplay() string {
	return FormatOvers(s.legalBalls, s.Rules().BallsPerOver)
}

// FormatOvers renders a legal ball count in "overs.balls" notation. The
// fraction is a single digit only while ballsPerOver is at most 9.
func FormatOvers(legalBalls, ballsPerOver int) string {
	if ballsPerOver <= 0 {
		ballsPerOver = DefaultBallsPerOver
	}
	if legalBalls < 0 {
		legalBalls = 0
	}
	return fmt.Sprintf("%d.%d", legalBalls/ballsPerOver, legalBalls%ballsPerOver)
}

func cloneOver(o Over) Over {
	out := make(Over, len(o))
	copy(out, o)
	return out
}

func cloneOvers(overs []Over) []Over {
	out := make([]Over, len(overs))
	for i, o := range overs {
		out[i] = cloneOver(o)
	}
	return out
}
