// Package weight holds the weighting functions that turn classified edit
// operations into costs for boundary similarity.
//
// Every function receives the whole batch of operations of its kind, since
// some policies weigh the batch size itself. Costs are exact rationals.
package weight

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/jamesainslie/go-segsim/boundary"
)

// ErrUnknownPolicy indicates a weighting policy name that ByName cannot resolve.
var ErrUnknownPolicy = errors.New("weight: unknown policy")

// decimalPlaces bounds the precision of values computed in floating point
// before they enter exact arithmetic.
const decimalPlaces = 12

// AdditionFunc weighs boundaries present on one side only.
type AdditionFunc func(misses []boundary.Miss) *big.Rat

// SubstitutionFunc weighs substitutions given the label rank range.
type SubstitutionFunc func(subs []boundary.Substitution, maxLabels, minLabels int) *big.Rat

// TranspositionFunc weighs transpositions given the near-miss window.
type TranspositionFunc func(ts []boundary.Transposition, maxWindow int) *big.Rat

// Set is the triple of weighting functions used by one scoring policy.
type Set struct {
	Name           string
	Additions      AdditionFunc
	Substitutions  SubstitutionFunc
	Transpositions TranspositionFunc
}

// WithDefaults fills any missing function with its unweighted counterpart.
func (s Set) WithDefaults() Set {
	if s.Additions == nil {
		s.Additions = Count
	}
	if s.Substitutions == nil {
		s.Substitutions = CountSubstitutions
	}
	if s.Transpositions == nil {
		s.Transpositions = CountTranspositions
	}
	if s.Name == "" {
		s.Name = "custom"
	}
	return s
}

// Unweighted counts every edit operation as 1.
func Unweighted() Set {
	return Set{
		Name:           "unweighted",
		Additions:      Count,
		Substitutions:  CountSubstitutions,
		Transpositions: CountTranspositions,
	}
}

// Saturating is the clinical sectioning benchmark policy: lone boundaries
// cost less when few, substitutions cost 1.3 and near misses approach a
// bounded cost as they drift.
func Saturating() Set {
	return Set{
		Name:           "saturating",
		Additions:      SaturatingAdditions,
		Substitutions:  FactorSubstitutions(1.3),
		Transpositions: SaturatingTranspositions,
	}
}

// Scaled weighs substitutions by label rank distance and transpositions by
// the share of the window they span.
func Scaled() Set {
	return Set{
		Name:           "scaled",
		Additions:      Count,
		Substitutions:  ScaledSubstitutions,
		Transpositions: ScaledTranspositions,
	}
}

// Policies lists the names ByName accepts.
func Policies() []string {
	return []string{"unweighted", "saturating", "scaled"}
}

// ByName resolves a policy name.
func ByName(name string) (Set, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "unweighted", "":
		return Unweighted(), nil
	case "saturating":
		return Saturating(), nil
	case "scaled":
		return Scaled(), nil
	default:
		return Set{}, fmt.Errorf("%w: %q (want one of %s)", ErrUnknownPolicy, name, strings.Join(Policies(), ", "))
	}
}

// Count is the raw number of lone boundaries.
func Count(misses []boundary.Miss) *big.Rat {
	return new(big.Rat).SetInt64(int64(len(misses)))
}

// SaturatingAdditions scales the count by 0.75 + tanh(n-3.5)/4, a factor that
// starts near 0.5 for a single lone boundary and approaches 1.
func SaturatingAdditions(misses []boundary.Miss) *big.Rat {
	n := len(misses)
	if n == 0 {
		return new(big.Rat)
	}
	x := float64(n)
	return decimal(x * (0.75 + math.Tanh(x-3.5)/4))
}

// CountSubstitutions is the raw number of substitutions.
func CountSubstitutions(subs []boundary.Substitution, _, _ int) *big.Rat {
	return new(big.Rat).SetInt64(int64(len(subs)))
}

// FactorSubstitutions multiplies the substitution count by f.
func FactorSubstitutions(f float64) SubstitutionFunc {
	factor := decimal(f)
	return func(subs []boundary.Substitution, _, _ int) *big.Rat {
		n := new(big.Rat).SetInt64(int64(len(subs)))
		return n.Mul(n, factor)
	}
}

// ScaledSubstitutions sums the rank distance between the two labels of each
// substitution, normalized by the size of the rank range.
func ScaledSubstitutions(subs []boundary.Substitution, maxLabels, minLabels int) *big.Rat {
	span := maxLabels - minLabels + 1
	if span <= 0 {
		span = 1
	}
	total := 0
	for _, s := range subs {
		total += abs(s.Reference.Rank() - s.Hypothesis.Rank())
	}
	return big.NewRat(int64(total), int64(span))
}

// CountTranspositions is the raw number of transpositions.
func CountTranspositions(ts []boundary.Transposition, _ int) *big.Rat {
	return new(big.Rat).SetInt64(int64(len(ts)))
}

// ScaledTranspositions sums the distance each transposition spans divided by
// the window.
func ScaledTranspositions(ts []boundary.Transposition, maxWindow int) *big.Rat {
	if maxWindow <= 0 {
		maxWindow = 1
	}
	total := 0
	for _, t := range ts {
		total += t.Distance()
	}
	return big.NewRat(int64(total), int64(maxWindow))
}

// transpositionTolerance is the shift below which a near miss is free.
const transpositionTolerance = 2

// SaturatingTranspositions charges nothing for shifts up to two positions and
// 0.35 + tanh((d-15)/10)/3 beyond that, which tends to about 0.683.
func SaturatingTranspositions(ts []boundary.Transposition, _ int) *big.Rat {
	total := new(big.Rat)
	for _, t := range ts {
		total.Add(total, TranspositionCost(t.Distance()))
	}
	return total
}

// TranspositionCost is the saturating cost of a single shift of d positions.
func TranspositionCost(d int) *big.Rat {
	if d <= transpositionTolerance {
		return new(big.Rat)
	}
	return decimal(0.35 + math.Tanh(float64(d-15)/10)/3)
}

// decimal converts x to an exact rational after rounding it to a fixed
// number of decimal places.
func decimal(x float64) *big.Rat {
	r, ok := new(big.Rat).SetString(strconv.FormatFloat(x, 'f', decimalPlaces, 64))
	if !ok {
		return new(big.Rat)
	}
	return r
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
