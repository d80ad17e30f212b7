package label

import (
	"errors"
	"math"
	"testing"

	"nutriscan-backend/nutrition/vocab"
)

func block(texts ...string) RawTextBlock {
	lines := make([]Line, 0, len(texts))
	for _, text := range texts {
		lines = append(lines, Line{Text: text, Confidence: 1})
	}
	return RawTextBlock{Lines: lines}
}

func TestExtractBasicReadings(t *testing.T) {
	e := NewExtractor()
	rec, err := e.Extract(block("Calories 250kcal", "Total Fat 10g", "Sodium 2g"))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	cases := []struct {
		nutrient vocab.Nutrient
		value    float64
		unit     vocab.Unit
	}{
		{vocab.Calories, 250, vocab.UnitKcal},
		{vocab.TotalFat, 10, vocab.UnitGram},
		{vocab.Sodium, 2000, vocab.UnitMilligram},
	}
	for _, tc := range cases {
		reading, ok := rec.Reading(tc.nutrient)
		if !ok {
			t.Fatalf("expected %s reading", tc.nutrient)
		}
		if reading.Value != tc.value || reading.Unit != tc.unit {
			t.Fatalf("%s: expected %v %s, got %v %s", tc.nutrient, tc.value, tc.unit, reading.Value, reading.Unit)
		}
		if reading.SourceConfidence != 1 {
			t.Fatalf("%s: expected confidence 1, got %v", tc.nutrient, reading.SourceConfidence)
		}
	}
	if len(rec.ValidityFlags) != 0 {
		t.Fatalf("expected no flags, got %v", rec.ValidityFlags)
	}
	want := 3.0 / float64(vocab.Size())
	if rec.Completeness != want {
		t.Fatalf("expected completeness %v, got %v", want, rec.Completeness)
	}
}

func TestExtractInfersUnitFromNutrient(t *testing.T) {
	e := NewExtractor()
	rec, err := e.Extract(block("Sodium 300", "Protein 8"))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got := rec.Readings[vocab.Sodium]; got.Value != 300 || got.Unit != vocab.UnitMilligram {
		t.Fatalf("expected sodium 300 mg, got %+v", got)
	}
	if got := rec.Readings[vocab.Protein]; got.Value != 8 || got.Unit != vocab.UnitGram {
		t.Fatalf("expected protein 8 g, got %+v", got)
	}
}

func TestExtractDecimalComma(t *testing.T) {
	e := NewExtractor()
	rec, err := e.Extract(block("Protein 7,5 g"))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got := rec.Readings[vocab.Protein].Value; got != 7.5 {
		t.Fatalf("expected 7.5, got %v", got)
	}
}

func TestExtractPercentDailyValue(t *testing.T) {
	e := NewExtractor()
	rec, err := e.Extract(block("Vitamin C 10%", "Calcium 50%"))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got := rec.Readings[vocab.VitaminC].Value; math.Abs(got-9) > 1e-9 {
		t.Fatalf("expected vitamin c 9 mg, got %v", got)
	}
	if got := rec.Readings[vocab.Calcium].Value; math.Abs(got-650) > 1e-9 {
		t.Fatalf("expected calcium 650 mg, got %v", got)
	}
}

func TestExtractSaltConvertsToSodium(t *testing.T) {
	e := NewExtractor()
	rec, err := e.Extract(block("Salt 2g"))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	reading, ok := rec.Reading(vocab.Sodium)
	if !ok {
		t.Fatalf("expected salt to map to sodium")
	}
	if math.Abs(reading.Value-800) > 1e-9 {
		t.Fatalf("expected 800 mg sodium from 2 g salt, got %v", reading.Value)
	}
	if reading.SourceConfidence != 0.85 {
		t.Fatalf("expected synonym confidence 0.85, got %v", reading.SourceConfidence)
	}
}

func TestExtractKilojoules(t *testing.T) {
	e := NewExtractor()
	rec, err := e.Extract(block("Energy 1046 kj"))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	reading, ok := rec.Reading(vocab.Calories)
	if !ok {
		t.Fatalf("expected energy line to map to calories")
	}
	if math.Abs(reading.Value-250) > 0.1 {
		t.Fatalf("expected ~250 kcal, got %v", reading.Value)
	}
}

func TestExtractDuplicateHigherConfidenceWins(t *testing.T) {
	e := NewExtractor()
	rec, err := e.Extract(block("Sugar 5g", "Sugars 8g"))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got := rec.Readings[vocab.Sugar].Value; got != 5 {
		t.Fatalf("expected exact-name reading to win, got %v", got)
	}
	if !rec.HasFlag("sugar_conflict") {
		t.Fatalf("expected sugar_conflict flag, got %v", rec.ValidityFlags)
	}
}

func TestExtractDuplicateTieLaterLineWins(t *testing.T) {
	e := NewExtractor()
	rec, err := e.Extract(block("Iron 2mg", "Iron 3mg"))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got := rec.Readings[vocab.Iron].Value; got != 3 {
		t.Fatalf("expected later reading to win the tie, got %v", got)
	}
	if !rec.HasFlag("iron_conflict") {
		t.Fatalf("expected iron_conflict flag, got %v", rec.ValidityFlags)
	}
}

func TestExtractAgreeingDuplicateAddsNoFlag(t *testing.T) {
	e := NewExtractor()
	rec, err := e.Extract(block("Iron 2mg", "Iron 2mg"))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(rec.ValidityFlags) != 0 {
		t.Fatalf("expected no flags, got %v", rec.ValidityFlags)
	}
}

func TestExtractConfidenceFloor(t *testing.T) {
	e := NewExtractor()
	rec, err := e.Extract(RawTextBlock{Lines: []Line{
		{Text: "Carbs 30g", Confidence: 0.2},
	}})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got := rec.Readings[vocab.Carbohydrate].SourceConfidence; got != 0.3 {
		t.Fatalf("expected floored confidence 0.3, got %v", got)
	}
}

func TestExtractSaturatedFatNotClaimedByTotalFat(t *testing.T) {
	e := NewExtractor()
	rec, err := e.Extract(block("Saturated Fat 2g"))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if _, ok := rec.Reading(vocab.TotalFat); ok {
		t.Fatalf("total_fat must not match a saturated fat line")
	}
	if got := rec.Readings[vocab.SaturatedFat].Value; got != 2 {
		t.Fatalf("expected saturated fat 2 g, got %v", got)
	}
}

func TestExtractVitaminDVariants(t *testing.T) {
	e := NewExtractor()
	rec, err := e.Extract(block("Vitamin D3 10 mcg"))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got := rec.Readings[vocab.VitaminD].Value; got != 10 {
		t.Fatalf("expected vitamin d 10 mcg, got %v", got)
	}
}

func TestExtractIngredientsSection(t *testing.T) {
	e := NewExtractor()
	rec, err := e.Extract(block(
		"Ingredients: milk, sugar, wheat flour",
		"contains permitted emulsifiers",
		"Nutrition Facts",
		"Calories 250",
	))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	want := "milk, sugar, wheat flour contains permitted emulsifiers"
	if rec.IngredientsText != want {
		t.Fatalf("expected ingredients %q, got %q", want, rec.IngredientsText)
	}
	if _, ok := rec.Reading(vocab.Calories); !ok {
		t.Fatalf("expected calories reading after ingredients section")
	}
}

func TestExtractEmptyBlock(t *testing.T) {
	e := NewExtractor()
	rec, err := e.Extract(RawTextBlock{})
	if !errors.Is(err, ErrNoText) {
		t.Fatalf("expected ErrNoText, got %v", err)
	}
	if !rec.HasFlag(FlagNoText) {
		t.Fatalf("expected no_text flag, got %v", rec.ValidityFlags)
	}
	if rec.Completeness != 0 {
		t.Fatalf("expected completeness 0, got %v", rec.Completeness)
	}
}

func TestExtractIgnoresUnparseableLines(t *testing.T) {
	e := NewExtractor()
	rec, err := e.Extract(block(
		"best before end of 2027",
		"serving size 2 biscuits",
		"Protein 8g",
	))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(rec.Readings) != 1 {
		t.Fatalf("expected a single reading, got %v", rec.Readings)
	}
}
