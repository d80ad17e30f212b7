// Package analyzer wires the extraction, validation, classification,
// scoring, and suggestion stages into the two entry points the service
// layer consumes.
package analyzer

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"nutriscan-backend/nutrition/diet"
	"nutriscan-backend/nutrition/healthmodel"
	"nutriscan-backend/nutrition/label"
	"nutriscan-backend/nutrition/record"
	"nutriscan-backend/nutrition/suggest"
	"nutriscan-backend/nutrition/vocab"
)

// ErrInvalidManualInput marks manual entries rejected before the
// pipeline runs.
var ErrInvalidManualInput = errors.New("invalid manual input")

// Analysis is the full pipeline output for one product.
type Analysis struct {
	ProductName string                  `json:"productName,omitempty"`
	Record      record.NutritionRecord  `json:"record"`
	Score       healthmodel.ScoreResult `json:"score"`
	Diet        diet.Classification     `json:"diet"`
	Suggestions []suggest.Suggestion    `json:"suggestions"`
	Breakdown   Breakdown               `json:"breakdown"`
}

// ManualEntry is a user-typed label. Nutrient values are in each
// nutrient's canonical unit.
type ManualEntry struct {
	ProductName     string             `json:"productName"`
	IngredientsText string             `json:"ingredientsText"`
	Nutrients       map[string]float64 `json:"nutrients"`
}

// Analyzer runs the scan pipeline. It is stateless apart from the shared
// model handle and safe for concurrent use.
type Analyzer struct {
	extractor *label.Extractor
	models    *healthmodel.Handle
}

// New builds an analyzer on top of a model handle.
func New(models *healthmodel.Handle) *Analyzer {
	return &Analyzer{
		extractor: label.NewExtractor(),
		models:    models,
	}
}

// Analyze runs the full pipeline over raw label text. Text that yields
// no readings is not an error: the record degrades to completeness zero
// and the score falls back to the model's sentinel profile.
func (a *Analyzer) Analyze(block label.RawTextBlock) (Analysis, error) {
	rec, err := a.extractor.Extract(block)
	if err != nil && !errors.Is(err, label.ErrNoText) {
		return Analysis{}, err
	}
	return a.finish("", rec)
}

// AnalyzeManual scores a user-typed entry. It bypasses normalization and
// extraction but runs validation onward, so implausible values are
// clamped or rejected exactly as scanned ones are.
func (a *Analyzer) AnalyzeManual(entry ManualEntry) (Analysis, error) {
	rec := record.New()
	for name, value := range entry.Nutrients {
		id, ok := vocab.Parse(strings.ToLower(strings.TrimSpace(name)))
		if !ok {
			return Analysis{}, fmt.Errorf("%w: unknown nutrient %q", ErrInvalidManualInput, name)
		}
		if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
			return Analysis{}, fmt.Errorf("%w: nutrient %q: value must be a non-negative number", ErrInvalidManualInput, name)
		}
		spec, _ := vocab.Lookup(id)
		rec.SetReading(record.NutrientReading{
			Name:             id,
			Value:            value,
			Unit:             spec.Unit,
			SourceConfidence: 1,
		})
	}
	rec.IngredientsText = entry.IngredientsText
	return a.finish(entry.ProductName, rec)
}

func (a *Analyzer) finish(productName string, rec record.NutritionRecord) (Analysis, error) {
	record.Validate(&rec)
	classification := diet.Classify(rec.IngredientsText)

	model, err := a.models.Get()
	if err != nil {
		return Analysis{}, err
	}
	score, err := model.Score(model.Builder().Build(rec))
	if err != nil {
		return Analysis{}, err
	}

	breakdown := buildBreakdown(&rec)
	suggestions := suggest.Generate(suggest.Input{
		Tier:  score.Tier,
		Flags: rec.ValidityFlags,
		Diet:  classification.Category,
	})

	return Analysis{
		ProductName: productName,
		Record:      rec,
		Score:       score,
		Diet:        classification,
		Suggestions: suggestions,
		Breakdown:   breakdown,
	}, nil
}
