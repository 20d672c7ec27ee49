package bench

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCorpus(t *testing.T) {
	c := loadSample(t)

	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
	if c.ReferenceDigest != c.PredictionDigest {
		t.Error("single file corpus has two digests")
	}
	if c.Predictions == nil || c.Predictions.Path == "" {
		t.Error("Predictions not recorded")
	}
}

func TestLoadCorpus_SeparateReference(t *testing.T) {
	c, err := LoadCorpus("../../testdata/clinais/prediction.json", "../../testdata/clinais/reference.json")
	if err != nil {
		t.Fatalf("LoadCorpus() error = %v", err)
	}
	if c.ReferenceDigest == c.PredictionDigest {
		t.Error("separate files share a digest")
	}
	if got := c.References["S0001"].Boundaries(); got != 3 {
		t.Errorf("S0001 reference boundaries = %d, want 3", got)
	}
	if got := c.Hypotheses["S0001"].Boundaries(); got != 3 {
		t.Errorf("S0001 hypothesis boundaries = %d, want 3", got)
	}
}

func TestLoadCorpus_Missing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.json")

	if _, err := LoadCorpus(missing, ""); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing predictions: expected os.ErrNotExist, got %v", err)
	}
	if _, err := LoadCorpus("../../testdata/clinais/sample.json", missing); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing references: expected os.ErrNotExist, got %v", err)
	}
}
