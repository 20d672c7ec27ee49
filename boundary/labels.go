package boundary

import (
	"fmt"
	"strings"
)

// Label identifies the clinical section that starts at a boundary.
// The zero value None marks a position without a boundary.
type Label uint8

const (
	None Label = iota
	PresentIllness
	DerivedFromTo
	PastMedicalHistory
	FamilyHistory
	Exploration
	Treatment
	Evolution
)

var labelNames = [...]string{
	None:               "",
	PresentIllness:     "PRESENT_ILLNESS",
	DerivedFromTo:      "DERIVED_FROM/TO",
	PastMedicalHistory: "PAST_MEDICAL_HISTORY",
	FamilyHistory:      "FAMILY_HISTORY",
	Exploration:        "EXPLORATION",
	Treatment:          "TREATMENT",
	Evolution:          "EVOLUTION",
}

// Labels returns every section label in rank order.
func Labels() []Label {
	return []Label{
		PresentIllness,
		DerivedFromTo,
		PastMedicalHistory,
		FamilyHistory,
		Exploration,
		Treatment,
		Evolution,
	}
}

// String returns the wire tag of the label, or "" for None.
func (l Label) String() string {
	if int(l) < len(labelNames) {
		return labelNames[l]
	}
	return fmt.Sprintf("Label(%d)", uint8(l))
}

// Present reports whether l marks a boundary.
func (l Label) Present() bool {
	return l != None
}

// Valid reports whether l is None or one of the known section labels.
func (l Label) Valid() bool {
	return int(l) < len(labelNames)
}

// Rank is the 1-based ordinal of the label, 0 for None.
func (l Label) Rank() int {
	return int(l)
}

// ParseLabel maps a wire tag to its Label. The empty string parses to None.
func ParseLabel(s string) (Label, error) {
	s = strings.TrimSpace(s)
	for i, name := range labelNames {
		if name == s {
			return Label(i), nil
		}
	}
	return None, fmt.Errorf("%w: %q", ErrUnknownLabel, s)
}

// MarshalText implements encoding.TextMarshaler.
func (l Label) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownLabel, uint8(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Label) UnmarshalText(text []byte) error {
	parsed, err := ParseLabel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// Universe is the set of labels active for an evaluation.
type Universe []Label

// DefaultUniverse returns a universe holding every section label.
func DefaultUniverse() Universe {
	return Universe(Labels())
}

// ParseUniverse builds a universe from wire tags. Duplicates are dropped.
func ParseUniverse(tags []string) (Universe, error) {
	var u Universe
	for _, tag := range tags {
		l, err := ParseLabel(tag)
		if err != nil {
			return nil, err
		}
		if l == None {
			return nil, fmt.Errorf("%w: empty tag in universe", ErrUnknownLabel)
		}
		if !u.Contains(l) {
			u = append(u, l)
		}
	}
	return u, nil
}

// Contains reports whether l belongs to the universe.
func (u Universe) Contains(l Label) bool {
	for _, x := range u {
		if x == l {
			return true
		}
	}
	return false
}

// Len is the number of labels in the universe.
func (u Universe) Len() int {
	return len(u)
}

// Strings returns the wire tags of the universe.
func (u Universe) Strings() []string {
	out := make([]string, len(u))
	for i, l := range u {
		out[i] = l.String()
	}
	return out
}
