//go:build ignore

// Build a prediction fixture from gold boundary annotations by shifting,
// relabeling and dropping a share of the gold boundaries.
// Usage: go run ./scripts/perturb-predictions.go -in gold.json -out perturbed.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/jamesainslie/go-segsim/boundary"
	"github.com/jamesainslie/go-segsim/internal/dataset"
)

func main() {
	var (
		in      = flag.String("in", "testdata/clinais/sample.json", "Dataset with gold boundaries")
		out     = flag.String("out", "testdata/clinais/perturbed.json", "Output dataset")
		shift   = flag.Float64("shift", 0.2, "Share of boundaries moved to a nearby span")
		maxMove = flag.Int("max-move", 3, "Largest shift in spans")
		relabel = flag.Float64("relabel", 0.1, "Share of boundaries given another label")
		drop    = flag.Float64("drop", 0.05, "Share of boundaries removed")
		seed    = flag.Uint64("seed", 1, "Random seed")
	)
	flag.Parse()

	ds, err := dataset.Load(*in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", *in, err)
		os.Exit(1)
	}

	rng := rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15))
	labels := boundary.Labels()

	var moved, renamed, dropped int
	for _, id := range ds.IDs() {
		entry := ds.AnnotatedEntries[id]
		gold := entry.BoundaryAnnotation.Gold
		pred := make([]dataset.BoundaryAnnotation, len(gold))
		for i, g := range gold {
			pred[i] = g
			pred[i].Boundary = nil
		}

		for i, g := range gold {
			if g.Boundary == nil {
				continue
			}
			tag := *g.Boundary
			target := i

			r := rng.Float64()
			switch {
			case r < *drop:
				dropped++
				continue
			case r < *drop+*relabel:
				tag = labels[rng.IntN(len(labels))].String()
				renamed++
			case r < *drop+*relabel+*shift && *maxMove > 0:
				d := 1 + rng.IntN(*maxMove)
				if rng.IntN(2) == 0 {
					d = -d
				}
				if j := i + d; j >= 0 && j < len(pred) && pred[j].Boundary == nil && gold[j].Boundary == nil {
					target = j
					moved++
				}
			}

			if pred[target].Boundary != nil {
				target = i
			}
			t := tag
			pred[target].Boundary = &t
		}

		entry.BoundaryAnnotation.Prediction = pred
		ds.AnnotatedEntries[id] = entry
	}

	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", *out, err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %s (%d notes; moved %d, relabeled %d, dropped %d)\n",
		*out, len(ds.AnnotatedEntries), moved, renamed, dropped)
}
