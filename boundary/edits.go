package boundary

// Op names an edit operation.
type Op uint8

const (
	OpMatch Op = iota
	OpAddition
	OpDeletion
	OpSubstitution
	OpTransposition
)

func (o Op) String() string {
	switch o {
	case OpMatch:
		return "match"
	case OpAddition:
		return "addition"
	case OpDeletion:
		return "deletion"
	case OpSubstitution:
		return "substitution"
	case OpTransposition:
		return "transposition"
	default:
		return "unknown"
	}
}

// Side tells which segmentation a lone boundary came from.
type Side uint8

const (
	Hypothesis Side = iota
	Reference
)

// Match is a boundary both sides place at the same offset with the same label.
type Match struct {
	Offset int
	Label  Label
}

// Miss is a boundary present on one side only. Additions come from the
// hypothesis, deletions from the reference.
type Miss struct {
	Offset int
	Label  Label
	Side   Side
}

// Substitution is a boundary both sides place at the same offset with
// different labels.
type Substitution struct {
	Offset     int
	Reference  Label
	Hypothesis Label
}

// Transposition links a reference boundary to a nearby hypothesis boundary
// carrying the same label.
type Transposition struct {
	Start int // reference offset
	End   int // hypothesis offset
	Label Label
}

// Distance is the number of positions the boundary moved.
func (t Transposition) Distance() int {
	if t.End > t.Start {
		return t.End - t.Start
	}
	return t.Start - t.End
}

// Statistics is the classification of one document comparison.
// Treat it as read-only once Classify returns.
type Statistics struct {
	Matches        []Match
	Additions      []Miss
	Deletions      []Miss
	Substitutions  []Substitution
	Transpositions []Transposition

	// FullMisses counts boundaries that were neither matched nor
	// transposed.
	FullMisses int

	ReferenceBoundaries  int
	HypothesisBoundaries int
	Window               int
}

// Misses returns additions followed by deletions in a new slice.
func (s Statistics) Misses() []Miss {
	out := make([]Miss, 0, len(s.Additions)+len(s.Deletions))
	out = append(out, s.Additions...)
	return append(out, s.Deletions...)
}

// Edits counts every non-match operation.
func (s Statistics) Edits() int {
	return len(s.Additions) + len(s.Deletions) + len(s.Substitutions) + len(s.Transpositions)
}

// Count returns the number of operations of kind op.
func (s Statistics) Count(op Op) int {
	switch op {
	case OpMatch:
		return len(s.Matches)
	case OpAddition:
		return len(s.Additions)
	case OpDeletion:
		return len(s.Deletions)
	case OpSubstitution:
		return len(s.Substitutions)
	case OpTransposition:
		return len(s.Transpositions)
	default:
		return 0
	}
}
