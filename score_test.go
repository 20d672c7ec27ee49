package segsim

import (
	"math/big"
	"math/rand/v2"
	"testing"

	"github.com/jamesainslie/go-segsim/boundary"
	"github.com/jamesainslie/go-segsim/weight"
)

const (
	pi = boundary.PresentIllness
	hx = boundary.PastMedicalHistory
	tx = boundary.Treatment
	no = boundary.None
)

func classify(t *testing.T, ref, hyp boundary.Segmentation, window int) boundary.Statistics {
	t.Helper()
	stats, err := boundary.Classify(ref, hyp, window)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	return stats
}

func TestScore(t *testing.T) {
	tests := []struct {
		name    string
		ref     boundary.Segmentation
		hyp     boundary.Segmentation
		window  int
		weights weight.Set
		want    *big.Rat
	}{
		{
			name:    "identical",
			ref:     boundary.Segmentation{pi, no, hx, no, tx},
			hyp:     boundary.Segmentation{pi, no, hx, no, tx},
			window:  2,
			weights: weight.Unweighted(),
			want:    big.NewRat(1, 1),
		},
		{
			name:    "no boundaries on either side",
			ref:     boundary.Segmentation{no, no, no},
			hyp:     boundary.Segmentation{no, no, no},
			window:  2,
			weights: weight.Unweighted(),
			want:    big.NewRat(1, 1),
		},
		{
			name:    "near miss unweighted",
			ref:     boundary.Segmentation{pi, no, hx, no},
			hyp:     boundary.Segmentation{pi, no, no, hx},
			window:  1,
			weights: weight.Unweighted(),
			want:    big.NewRat(1, 2),
		},
		{
			name:    "near miss within saturating tolerance is free",
			ref:     boundary.Segmentation{pi, no, hx, no},
			hyp:     boundary.Segmentation{pi, no, no, hx},
			window:  1,
			weights: weight.Saturating(),
			want:    big.NewRat(1, 1),
		},
		{
			name:    "single substitution",
			ref:     boundary.Segmentation{pi},
			hyp:     boundary.Segmentation{hx},
			window:  0,
			weights: weight.Unweighted(),
			want:    new(big.Rat),
		},
		{
			name:    "substitution factor clamps at zero",
			ref:     boundary.Segmentation{pi},
			hyp:     boundary.Segmentation{hx},
			window:  0,
			weights: weight.Saturating(),
			want:    new(big.Rat),
		},
		{
			name:    "one deletion among matches",
			ref:     boundary.Segmentation{pi, hx, tx},
			hyp:     boundary.Segmentation{pi, no, tx},
			window:  0,
			weights: weight.Unweighted(),
			want:    big.NewRat(2, 3),
		},
		{
			name:    "hypothesis only boundary",
			ref:     boundary.Segmentation{no, no},
			hyp:     boundary.Segmentation{no, tx},
			window:  0,
			weights: weight.Unweighted(),
			want:    new(big.Rat),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := classify(t, tt.ref, tt.hyp, tt.window)
			got := Score(stats, tt.weights, len(boundary.Labels()))
			if got.Similarity.Cmp(tt.want) != 0 {
				t.Errorf("Similarity = %s, want %s", got.Similarity.RatString(), tt.want.RatString())
			}
		})
	}
}

func TestScore_NearMissParts(t *testing.T) {
	stats := classify(t, boundary.Segmentation{pi, no, hx, no}, boundary.Segmentation{pi, no, no, hx}, 1)
	got := Score(stats, weight.Unweighted(), 7)

	if got.Denominator.Cmp(big.NewRat(2, 1)) != 0 {
		t.Errorf("Denominator = %s, want 2", got.Denominator.RatString())
	}
	if got.Numerator.Cmp(big.NewRat(1, 1)) != 0 {
		t.Errorf("Numerator = %s, want 1", got.Numerator.RatString())
	}
	if got.CountEdits.Cmp(big.NewRat(1, 1)) != 0 {
		t.Errorf("CountEdits = %s, want 1", got.CountEdits.RatString())
	}
	if got.WeightedTranspositions.Cmp(big.NewRat(1, 1)) != 0 {
		t.Errorf("WeightedTranspositions = %s, want 1", got.WeightedTranspositions.RatString())
	}
	if got.Float64() != 0.5 {
		t.Errorf("Float64() = %v, want 0.5", got.Float64())
	}
}

func TestScore_ReusableStatistics(t *testing.T) {
	stats := classify(t,
		boundary.Segmentation{pi, no, no, no, hx, no, tx},
		boundary.Segmentation{no, no, no, pi, hx, tx, no},
		3)
	before := stats.Edits()

	unweighted := Score(stats, weight.Unweighted(), 7)
	saturating := Score(stats, weight.Saturating(), 7)
	again := Score(stats, weight.Unweighted(), 7)

	if stats.Edits() != before {
		t.Errorf("statistics changed after scoring: %d edits, want %d", stats.Edits(), before)
	}
	if unweighted.Similarity.Cmp(again.Similarity) != 0 {
		t.Errorf("rescoring changed result: %s vs %s", unweighted.Similarity.RatString(), again.Similarity.RatString())
	}
	if unweighted.Similarity.Cmp(saturating.Similarity) == 0 {
		t.Errorf("weight sets produced the same similarity %s", unweighted.Similarity.RatString())
	}
}

func TestScore_Bounded(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	labels := []boundary.Label{no, no, no, no, pi, hx, tx, boundary.Evolution}
	sets := []weight.Set{weight.Unweighted(), weight.Saturating(), weight.Scaled()}
	zero, one := new(big.Rat), big.NewRat(1, 1)

	for iter := 0; iter < 300; iter++ {
		n := rng.IntN(60)
		ref := make(boundary.Segmentation, n)
		hyp := make(boundary.Segmentation, n)
		for i := range ref {
			ref[i] = labels[rng.IntN(len(labels))]
			hyp[i] = labels[rng.IntN(len(labels))]
		}
		stats := classify(t, ref, hyp, rng.IntN(45))

		for _, set := range sets {
			got := Score(stats, set, 7)
			if got.Similarity.Cmp(zero) < 0 || got.Similarity.Cmp(one) > 0 {
				t.Fatalf("%s: similarity %s out of range for %v vs %v",
					set.Name, got.Similarity.RatString(), ref, hyp)
			}
		}
	}
}

func TestScore_IdenticalHasNoEdits(t *testing.T) {
	seg := boundary.Segmentation{pi, no, no, hx, no, tx, boundary.Evolution}
	stats := classify(t, seg, seg, 40)
	if stats.Edits() != 0 {
		t.Errorf("Edits() = %d, want 0", stats.Edits())
	}
	for _, set := range []weight.Set{weight.Unweighted(), weight.Saturating(), weight.Scaled()} {
		if got := Score(stats, set, 7); got.Similarity.Cmp(big.NewRat(1, 1)) != 0 {
			t.Errorf("%s: Similarity = %s, want 1", set.Name, got.Similarity.RatString())
		}
	}
}

func TestScore_WindowMonotonic(t *testing.T) {
	tests := []struct {
		name    string
		ref     boundary.Segmentation
		hyp     boundary.Segmentation
		weights weight.Set
	}{
		{
			name:    "shifted boundaries",
			ref:     boundary.Segmentation{pi, no, no, hx, no, no, tx},
			hyp:     boundary.Segmentation{no, pi, no, no, no, hx, tx},
			weights: weight.Unweighted(),
		},
		{
			name:    "close pair claimed before a distant one",
			ref:     boundary.Segmentation{pi, pi, no, pi, no, no},
			hyp:     boundary.Segmentation{tx, pi, pi, no, no, no},
			weights: weight.Unweighted(),
		},
		{
			name:    "substitutions survive a wider window",
			ref:     boundary.Segmentation{pi, hx, tx},
			hyp:     boundary.Segmentation{tx, pi, tx},
			weights: weight.Unweighted(),
		},
		{
			name:    "free near miss kept under saturating weights",
			ref:     boundary.Segmentation{pi, no, no, pi, no},
			hyp:     boundary.Segmentation{no, no, no, no, pi},
			weights: weight.Saturating(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertWindowMonotonic(t, tt.ref, tt.hyp, tt.weights)
		})
	}
}

func TestScore_WindowMonotonicRandom(t *testing.T) {
	rng := rand.New(rand.NewPCG(19, 23))
	labels := []boundary.Label{pi, hx, tx, boundary.Evolution}

	for iter := 0; iter < 200; iter++ {
		n := 1 + rng.IntN(24)
		density := 2 + rng.IntN(4)
		ref := make(boundary.Segmentation, n)
		hyp := make(boundary.Segmentation, n)
		for i := range ref {
			if rng.IntN(density) == 0 {
				ref[i] = labels[rng.IntN(len(labels))]
			}
			if rng.IntN(density) == 0 {
				hyp[i] = labels[rng.IntN(len(labels))]
			}
		}
		assertWindowMonotonic(t, ref, hyp, weight.Unweighted())

		// Substitutions cost 1.3 under saturating weights, and a clamped
		// numerator can then drop when a distant transposition is added.
		for i := range hyp {
			if ref[i].Present() && hyp[i].Present() && ref[i] != hyp[i] {
				hyp[i] = no
			}
		}
		assertWindowMonotonic(t, ref, hyp, weight.Saturating())
	}
}

func assertWindowMonotonic(t *testing.T, ref, hyp boundary.Segmentation, weights weight.Set) {
	t.Helper()
	prev := new(big.Rat)
	for window := 0; window <= len(ref); window++ {
		got := Score(classify(t, ref, hyp, window), weights, 7)
		if got.Similarity.Cmp(prev) < 0 {
			t.Fatalf("%s: %v vs %v scored %s at window %d, below %s at window %d",
				weights.Name, ref, hyp, got.Similarity.RatString(), window, prev.RatString(), window-1)
		}
		prev = got.Similarity
	}
}

func TestScore_WindowRegressions(t *testing.T) {
	tests := []struct {
		name    string
		ref     boundary.Segmentation
		hyp     boundary.Segmentation
		weights weight.Set
		windows []int
		want    *big.Rat
	}{
		{
			name:    "unweighted",
			ref:     boundary.Segmentation{pi, pi, no, pi, no, no},
			hyp:     boundary.Segmentation{tx, pi, pi, no, no, no},
			weights: weight.Unweighted(),
			windows: []int{1, 2, 6},
			want:    big.NewRat(1, 3),
		},
		{
			name:    "substitutions",
			ref:     boundary.Segmentation{pi, hx, tx},
			hyp:     boundary.Segmentation{tx, pi, tx},
			weights: weight.Unweighted(),
			windows: []int{0, 1, 2},
			want:    big.NewRat(1, 3),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, window := range tt.windows {
				got := Score(classify(t, tt.ref, tt.hyp, window), tt.weights, 7)
				if got.Similarity.Cmp(tt.want) != 0 {
					t.Errorf("window %d: Similarity = %s, want %s", window, got.Similarity.RatString(), tt.want.RatString())
				}
			}
		})
	}

	ref := boundary.Segmentation{pi, no, no, pi, no}
	hyp := boundary.Segmentation{no, no, no, no, pi}
	narrow := Score(classify(t, ref, hyp, 1), weight.Saturating(), 7)
	wide := Score(classify(t, ref, hyp, 4), weight.Saturating(), 7)
	if narrow.Similarity.Cmp(wide.Similarity) != 0 {
		t.Errorf("saturating: window 4 scored %s, window 1 scored %s", wide.Similarity.RatString(), narrow.Similarity.RatString())
	}
	if f := wide.Float64(); f < 0.832 || f > 0.8323 {
		t.Errorf("saturating: Float64() = %v, want about 0.8322", f)
	}
}

func TestScore_DisjointRelabeling(t *testing.T) {
	ref := boundary.Segmentation{pi, no, hx, no, pi}
	hyp := boundary.Segmentation{tx, no, tx, no, tx}

	near := classify(t, ref, hyp, 0)
	if len(near.Transpositions) != 0 {
		t.Errorf("Transpositions = %d, want 0", len(near.Transpositions))
	}
	if len(near.Substitutions) != 3 {
		t.Errorf("Substitutions = %d, want 3", len(near.Substitutions))
	}
	if got := Score(near, weight.Unweighted(), 7); got.Similarity.Sign() != 0 {
		t.Errorf("Similarity = %s, want 0", got.Similarity.RatString())
	}
}

func TestWeightedMean(t *testing.T) {
	scores := []DocumentScore{
		{Similarity: big.NewRat(1, 1), Statistics: boundary.Statistics{ReferenceBoundaries: 3}},
		{Similarity: new(big.Rat), Statistics: boundary.Statistics{ReferenceBoundaries: 1}},
		{Similarity: big.NewRat(1, 1), Statistics: boundary.Statistics{ReferenceBoundaries: 0}},
	}
	got, total, err := weightedMean(scores)
	if err != nil {
		t.Fatal(err)
	}
	if got.Cmp(big.NewRat(3, 4)) != 0 {
		t.Errorf("weightedMean = %s, want 3/4", got.RatString())
	}
	if total != 4 {
		t.Errorf("total = %d, want 4", total)
	}

	if _, _, err := weightedMean(scores[2:]); err != ErrNoBoundaries {
		t.Errorf("expected ErrNoBoundaries, got %v", err)
	}
}
