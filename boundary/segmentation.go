// Package boundary models labeled section boundaries and classifies the
// differences between a reference and a hypothesis segmentation.
package boundary

import (
	"fmt"
	"strings"
)

// Segmentation holds one mark per candidate break position of a document.
type Segmentation []Label

// ParseSegmentation builds a segmentation from wire tags; "" is no boundary.
func ParseSegmentation(tags []string) (Segmentation, error) {
	seg := make(Segmentation, len(tags))
	for i, tag := range tags {
		l, err := ParseLabel(tag)
		if err != nil {
			return nil, fmt.Errorf("position %d: %w", i, err)
		}
		seg[i] = l
	}
	return seg, nil
}

// Boundaries counts the positions carrying a label.
func (s Segmentation) Boundaries() int {
	n := 0
	for _, l := range s {
		if l.Present() {
			n++
		}
	}
	return n
}

// Validate checks that every present mark belongs to u.
func (s Segmentation) Validate(u Universe) error {
	for i, l := range s {
		if !l.Present() {
			continue
		}
		if !l.Valid() || !u.Contains(l) {
			return fmt.Errorf("%w: %s at position %d", ErrUnknownLabel, l, i)
		}
	}
	return nil
}

func (s Segmentation) String() string {
	parts := make([]string, len(s))
	for i, l := range s {
		if l.Present() {
			parts[i] = l.String()
		} else {
			parts[i] = "-"
		}
	}
	return "[" + strings.Join(parts, " ") + "]"
}
