package weight

import (
	"errors"
	"math/big"
	"testing"

	"github.com/jamesainslie/go-segsim/boundary"
)

func misses(n int) []boundary.Miss {
	out := make([]boundary.Miss, n)
	for i := range out {
		out[i] = boundary.Miss{Offset: i, Label: boundary.Treatment}
	}
	return out
}

func shift(d int) boundary.Transposition {
	return boundary.Transposition{Start: 10, End: 10 + d, Label: boundary.Evolution}
}

func ratFloat(r *big.Rat) float64 {
	f, _ := r.Float64()
	return f
}

func TestCount(t *testing.T) {
	if got := Count(misses(3)); got.Cmp(big.NewRat(3, 1)) != 0 {
		t.Errorf("Count = %s, want 3", got.RatString())
	}
	if got := CountTranspositions([]boundary.Transposition{shift(5), shift(1)}, 40); got.Cmp(big.NewRat(2, 1)) != 0 {
		t.Errorf("CountTranspositions = %s, want 2", got.RatString())
	}
	subs := []boundary.Substitution{{Reference: boundary.Treatment, Hypothesis: boundary.Evolution}}
	if got := CountSubstitutions(subs, 7, 1); got.Cmp(big.NewRat(1, 1)) != 0 {
		t.Errorf("CountSubstitutions = %s, want 1", got.RatString())
	}
}

func TestSaturatingAdditions(t *testing.T) {
	if got := SaturatingAdditions(nil); got.Sign() != 0 {
		t.Errorf("SaturatingAdditions(nil) = %s, want 0", got.RatString())
	}

	one := ratFloat(SaturatingAdditions(misses(1)))
	if one < 0.50 || one > 0.51 {
		t.Errorf("single addition cost = %v, want about 0.503", one)
	}

	prevFactor := 0.0
	for n := 1; n <= 12; n++ {
		cost := ratFloat(SaturatingAdditions(misses(n)))
		factor := cost / float64(n)
		if factor < prevFactor {
			t.Errorf("per-addition factor decreased at n=%d: %v < %v", n, factor, prevFactor)
		}
		if factor > 1 {
			t.Errorf("per-addition factor at n=%d = %v, want <= 1", n, factor)
		}
		prevFactor = factor
	}
	if prevFactor < 0.99 {
		t.Errorf("factor at n=12 = %v, want close to 1", prevFactor)
	}
}

func TestSaturatingTranspositions(t *testing.T) {
	for d := 0; d <= 2; d++ {
		if got := TranspositionCost(d); got.Sign() != 0 {
			t.Errorf("TranspositionCost(%d) = %s, want 0", d, got.RatString())
		}
	}

	if got := ratFloat(TranspositionCost(15)); got != 0.35 {
		t.Errorf("TranspositionCost(15) = %v, want 0.35", got)
	}

	prev := 0.0
	for d := 3; d <= 200; d++ {
		cost := ratFloat(TranspositionCost(d))
		if cost < prev {
			t.Fatalf("TranspositionCost(%d) = %v, below %v", d, cost, prev)
		}
		if cost >= 0.6834 {
			t.Fatalf("TranspositionCost(%d) = %v, want below the 0.6834 cap", d, cost)
		}
		prev = cost
	}

	batch := SaturatingTranspositions([]boundary.Transposition{shift(1), shift(15), shift(-15)}, 40)
	if got := ratFloat(batch); got != 0.7 {
		t.Errorf("batch cost = %v, want 0.7", got)
	}
}

func TestScaledSubstitutions(t *testing.T) {
	subs := []boundary.Substitution{
		{Reference: boundary.PresentIllness, Hypothesis: boundary.Evolution},
		{Reference: boundary.Treatment, Hypothesis: boundary.Exploration},
	}
	got := ScaledSubstitutions(subs, 7, 1)
	if got.Cmp(big.NewRat(1, 1)) != 0 {
		t.Errorf("ScaledSubstitutions = %s, want 1", got.RatString())
	}
}

func TestScaledTranspositions(t *testing.T) {
	got := ScaledTranspositions([]boundary.Transposition{shift(2), shift(-3)}, 10)
	if got.Cmp(big.NewRat(1, 2)) != 0 {
		t.Errorf("ScaledTranspositions = %s, want 1/2", got.RatString())
	}
	if got := ScaledTranspositions([]boundary.Transposition{shift(1)}, 0); got.Cmp(big.NewRat(1, 1)) != 0 {
		t.Errorf("ScaledTranspositions with zero window = %s, want 1", got.RatString())
	}
}

func TestFactorSubstitutions(t *testing.T) {
	subs := make([]boundary.Substitution, 3)
	got := FactorSubstitutions(1.3)(subs, 7, 1)
	if got.Cmp(big.NewRat(39, 10)) != 0 {
		t.Errorf("FactorSubstitutions(1.3) = %s, want 39/10", got.RatString())
	}
}

func TestByName(t *testing.T) {
	for _, name := range Policies() {
		set, err := ByName(name)
		if err != nil {
			t.Errorf("ByName(%q) error = %v", name, err)
			continue
		}
		if set.Name != name {
			t.Errorf("ByName(%q).Name = %q", name, set.Name)
		}
		if set.Additions == nil || set.Substitutions == nil || set.Transpositions == nil {
			t.Errorf("ByName(%q) returned incomplete set", name)
		}
	}

	if _, err := ByName("quadratic"); !errors.Is(err, ErrUnknownPolicy) {
		t.Errorf("expected ErrUnknownPolicy, got %v", err)
	}
}
