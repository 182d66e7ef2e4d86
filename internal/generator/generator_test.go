package generator

import (
	"reflect"
	"testing"
	"time"

	"github.com/verte-zerg/crease/internal/innings"
)

func TestGenerateIsDeterministicForSeed(t *testing.T) {
	a := NewWithSeed(7).GenerateWeighted(50, DefaultWeights())
	b := NewWithSeed(7).GenerateWeighted(50, DefaultWeights())
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("expected identical sequences for the same seed")
	}
	if len(a) != 50 {
		t.Fatalf("expected 50 outcomes, got %d", len(a))
	}
}

func TestGenerateWeightedSkipsZeroWeights(t *testing.T) {
	weights := []Weight{
		{Outcome: innings.Wicket(), Weight: 0},
		{Outcome: innings.WideBall(), Weight: 1},
	}
	for _, o := range NewWithSeed(1).GenerateWeighted(200, weights) {
		if o != innings.WideBall() {
			t.Fatalf("unexpected outcome %s", o)
		}
	}
}

func TestGenerateWeightedFallsBackToUniform(t *testing.T) {
	out := NewWithSeed(1).GenerateWeighted(10, nil)
	if len(out) != 10 {
		t.Fatalf("expected 10 outcomes, got %d", len(out))
	}
}

func TestPlayStopsAfterRequestedOvers(t *testing.T) {
	st := NewWithSeed(42).Play(innings.DefaultRules(), 3, nil)
	if st.AllOut() {
		t.Fatalf("uncapped innings cannot be all out")
	}
	if len(st.Overs()) != 3 || st.BallsRemaining() != 0 {
		t.Fatalf("expected three complete overs, got %d overs with %d balls left", len(st.Overs()), st.BallsRemaining())
	}
	if st.OversDisplay() != "3.0" {
		t.Fatalf("expected 3.0 overs, got %s", st.OversDisplay())
	}
}

func TestPlayStopsWhenAllOut(t *testing.T) {
	weights := []Weight{{Outcome: innings.Wicket(), Weight: 1}}
	st := NewWithSeed(3).Play(innings.Rules{BallsPerOver: 6, MaxWickets: 10}, 20, weights)
	if !st.AllOut() || st.Wickets() != 10 {
		t.Fatalf("expected all out for 10, got %d wickets", st.Wickets())
	}
	if st.OversDisplay() != "1.4" {
		t.Fatalf("expected 1.4 overs, got %s", st.OversDisplay())
	}
}

func countOutcome(st innings.State, want innings.Outcome) int {
	n := 0
	for _, over := range st.Overs() {
		for _, o := range over {
			if o == want {
				n++
			}
		}
	}
	return n
}

func TestPlayUniformDiffersFromWeighted(t *testing.T) {
	five, _ := innings.Runs(5)
	uniform := NewWithSeed(7).Play(innings.DefaultRules(), 200, nil)
	weighted := NewWithSeed(7).Play(innings.DefaultRules(), 200, DefaultWeights())
	u, w := countOutcome(uniform, five), countOutcome(weighted, five)
	if u <= w*5 {
		t.Fatalf("expected uniform play to bowl far more fives: uniform %d, weighted %d", u, w)
	}
}

func TestPlayWithoutLegalBallsStillFinishes(t *testing.T) {
	cases := [][]Weight{
		{{Outcome: innings.WideBall(), Weight: 1}},
		{{Outcome: innings.NoBall(), Weight: 2}, {Outcome: innings.Wicket(), Weight: 0}},
	}
	for _, weights := range cases {
		done := make(chan innings.State, 1)
		go func() {
			done <- NewWithSeed(9).Play(innings.DefaultRules(), 2, weights)
		}()
		select {
		case st := <-done:
			if st.OversDisplay() != "2.0" {
				t.Fatalf("expected two overs, got %s", st.OversDisplay())
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("play did not finish with weights %v", weights)
		}
	}
}
