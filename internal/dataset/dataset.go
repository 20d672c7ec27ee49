// Package dataset loads ClinAIS annotation files and turns their boundary
// annotations into aligned segmentations.
package dataset

import (
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/zeebo/blake3"

	"github.com/jamesainslie/go-segsim/boundary"
)

// ErrInvalidDataset indicates a file that does not follow the dataset schema.
var ErrInvalidDataset = errors.New("dataset: invalid dataset")

//go:embed schema.json
var schemaJSON string

var schema = jsonschema.MustCompileString("clinais.schema.json", schemaJSON)

// SectionAnnotation is a labeled span of a note.
type SectionAnnotation struct {
	Segment     string `json:"segment"`
	Label       string `json:"label"`
	StartOffset int    `json:"start_offset"`
	EndOffset   int    `json:"end_offset"`
}

// SectionAnnotations holds gold and predicted sections of a note.
type SectionAnnotations struct {
	Gold       []SectionAnnotation `json:"gold"`
	Prediction []SectionAnnotation `json:"prediction"`
}

// BoundaryAnnotation is one candidate break position. A nil Boundary means
// no section starts at this span.
type BoundaryAnnotation struct {
	Span        string  `json:"span"`
	Boundary    *string `json:"boundary"`
	StartOffset int     `json:"start_offset"`
	EndOffset   int     `json:"end_offset"`
}

// BoundaryAnnotations holds gold and predicted boundaries of a note.
type BoundaryAnnotations struct {
	Gold       []BoundaryAnnotation `json:"gold"`
	Prediction []BoundaryAnnotation `json:"prediction"`
}

// Entry is one annotated clinical note.
type Entry struct {
	NoteID             string              `json:"note_id"`
	NoteText           string              `json:"note_text"`
	SectionAnnotation  SectionAnnotations  `json:"section_annotation"`
	BoundaryAnnotation BoundaryAnnotations `json:"boundary_annotation"`
}

// Dataset is a ClinAIS annotation file.
type Dataset struct {
	AnnotatedEntries map[string]Entry `json:"annotated_entries"`

	// Path and Digest describe the file the dataset was loaded from.
	Path   string `json:"-"`
	Digest string `json:"-"`
}

// IDs returns the entry keys in lexical order.
func (d *Dataset) IDs() []string {
	ids := make([]string, 0, len(d.AnnotatedEntries))
	for id := range d.AnnotatedEntries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Load reads, validates and decodes a dataset file.
func Load(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	ds, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	ds.Path = path
	return ds, nil
}

// Parse validates data against the dataset schema and decodes it.
func Parse(data []byte) (*Dataset, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDataset, err)
	}
	if err := schema.Validate(raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDataset, err)
	}

	var ds Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDataset, err)
	}
	ds.Digest = Fingerprint(data)
	return &ds, nil
}

// Fingerprint is the hex BLAKE3 digest of data.
func Fingerprint(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
