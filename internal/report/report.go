// Package report renders corpus scores into the JSON layout consumed by the
// shared-task leaderboard.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	segsim "github.com/jamesainslie/go-segsim"
	"github.com/jamesainslie/go-segsim/boundary"
	"github.com/jamesainslie/go-segsim/internal/dataset"
)

// DefaultPrecision is the number of decimal digits written for scores.
const DefaultPrecision = 10

// Report is the persisted evaluation result.
type Report struct {
	WeightedB2    json.Number          `json:"Weighted B2"`
	ScoresPerFile map[string]FileScore `json:"Scores per file"`
	Parameters    Parameters           `json:"Parameters"`
}

// Parameters records how the scores were produced.
type Parameters struct {
	Policy string   `json:"policy"`
	Window int      `json:"window"`
	Labels []string `json:"labels,omitempty"`
}

// FileScore is the score of one note.
type FileScore struct {
	B2         json.Number `json:"B2"`
	Statistics Statistics  `json:"Statistics"`
}

// Statistics lists the edit operations behind a note score.
type Statistics struct {
	Matches                []Mark          `json:"matches"`
	Additions              []Mark          `json:"additions"`
	Deletions              []Mark          `json:"deletions"`
	Substitutions          []Substitution  `json:"substitutions"`
	Transpositions         []Transposition `json:"transpositions"`
	CountEdits             json.Number     `json:"count_edits"`
	WeightedTranspositions json.Number     `json:"weighted_transpositions"`
}

// Mark is a labeled boundary at an offset.
type Mark struct {
	Offset   int    `json:"offset"`
	Boundary string `json:"boundary"`
}

// Substitution is a boundary labeled differently by the two sides.
type Substitution struct {
	Offset     int    `json:"offset"`
	Reference  string `json:"reference"`
	Hypothesis string `json:"hypothesis"`
}

// Transposition is a near-miss boundary.
type Transposition struct {
	StartOffset int    `json:"start_offset"`
	EndOffset   int    `json:"end_offset"`
	Boundary    string `json:"boundary"`
}

// Build converts a corpus result, writing numbers with precision decimal
// digits. A non-positive precision selects DefaultPrecision.
func Build(result *segsim.CorpusResult, labels []string, precision int) *Report {
	if precision <= 0 {
		precision = DefaultPrecision
	}

	rep := &Report{
		WeightedB2:    number(result.Similarity, precision),
		ScoresPerFile: make(map[string]FileScore, len(result.Documents)),
		Parameters: Parameters{
			Policy: result.Policy,
			Window: result.Window,
			Labels: labels,
		},
	}
	for id, doc := range result.Documents {
		rep.ScoresPerFile[id] = FileScore{
			B2:         number(doc.Similarity, precision),
			Statistics: statistics(doc, precision),
		}
	}
	return rep
}

func statistics(doc segsim.DocumentScore, precision int) Statistics {
	st := doc.Statistics
	out := Statistics{
		Matches:                make([]Mark, 0, len(st.Matches)),
		Additions:              misses(st.Additions),
		Deletions:              misses(st.Deletions),
		Substitutions:          make([]Substitution, 0, len(st.Substitutions)),
		Transpositions:         make([]Transposition, 0, len(st.Transpositions)),
		CountEdits:             number(doc.CountEdits, precision),
		WeightedTranspositions: number(doc.WeightedTranspositions, precision),
	}
	for _, m := range st.Matches {
		out.Matches = append(out.Matches, Mark{Offset: m.Offset, Boundary: m.Label.String()})
	}
	for _, s := range st.Substitutions {
		out.Substitutions = append(out.Substitutions, Substitution{
			Offset:     s.Offset,
			Reference:  s.Reference.String(),
			Hypothesis: s.Hypothesis.String(),
		})
	}
	for _, t := range st.Transpositions {
		out.Transpositions = append(out.Transpositions, Transposition{
			StartOffset: t.Start,
			EndOffset:   t.End,
			Boundary:    t.Label.String(),
		})
	}
	return out
}

func misses(ms []boundary.Miss) []Mark {
	out := make([]Mark, 0, len(ms))
	for _, m := range ms {
		out = append(out, Mark{Offset: m.Offset, Boundary: m.Label.String()})
	}
	return out
}

func number(r *big.Rat, precision int) json.Number {
	if r == nil {
		return json.Number("0")
	}
	return json.Number(r.FloatString(precision))
}

// Write stores the report as indented JSON. The path's extension is
// replaced by .json when it has another one. It returns the path written.
func Write(path string, rep *Report) (string, error) {
	if ext := filepath.Ext(path); ext != ".json" {
		path = strings.TrimSuffix(path, ext) + ".json"
	}
	if err := writeJSON(path, rep); err != nil {
		return "", err
	}
	return path, nil
}

// evaluated is a prediction dataset with its scores attached.
type evaluated struct {
	AnnotatedEntries map[string]dataset.Entry `json:"annotated_entries"`
	Scores           *Report                  `json:"scores"`
}

// EvaluatedPath is where WriteEvaluated stores a scored copy of predictionPath.
func EvaluatedPath(predictionPath string) string {
	return strings.TrimSuffix(predictionPath, filepath.Ext(predictionPath)) + ".evaluated.json"
}

// WriteEvaluated stores predictions together with their scores next to the
// prediction file and returns the path written.
func WriteEvaluated(predictions *dataset.Dataset, rep *Report) (string, error) {
	if predictions.Path == "" {
		return "", fmt.Errorf("predictions were not loaded from a file")
	}
	path := EvaluatedPath(predictions.Path)
	if err := writeJSON(path, evaluated{AnnotatedEntries: predictions.AnnotatedEntries, Scores: rep}); err != nil {
		return "", err
	}
	return path, nil
}

func writeJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
