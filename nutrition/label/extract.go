package label

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"nutriscan-backend/nutrition/record"
	"nutriscan-backend/nutrition/vocab"
)

// FlagNoText marks a record produced from an empty input block.
const FlagNoText = "no_text"

// minReadingConfidence is the floor for a reading produced by any match.
const minReadingConfidence = 0.3

// rule is one nutrient's compiled matching pattern. The pattern is
// anchored at line start and every quantifier is bounded or applied to a
// single character class, so pathological input cannot trigger
// catastrophic backtracking.
type rule struct {
	spec     vocab.Spec
	re       *regexp.Regexp
	synonyms map[string]vocab.Synonym
}

// Extractor matches normalized label lines against the nutrient
// vocabulary. Construct once and share; it is read-only after creation.
type Extractor struct {
	rules []rule
}

// NewExtractor compiles one pattern per vocabulary nutrient.
func NewExtractor() *Extractor {
	specs := vocab.All()
	rules := make([]rule, 0, len(specs))
	for _, spec := range specs {
		rules = append(rules, compileRule(spec))
	}
	return &Extractor{rules: rules}
}

func compileRule(spec vocab.Spec) rule {
	synonyms := make(map[string]vocab.Synonym, len(spec.Synonyms))
	names := make([]string, 0, len(spec.Synonyms))
	for _, syn := range spec.Synonyms {
		synonyms[syn.Name] = syn
		names = append(names, regexp.QuoteMeta(syn.Name))
	}
	// Longest alternative first so "total carbohydrate" is not consumed
	// by "carbohydrate".
	sort.Slice(names, func(i, j int) bool { return len(names[i]) > len(names[j]) })

	pattern := `^(` + strings.Join(names, "|") + `)\s*[:.\-]?\s*([0-9]{1,6}(?:[.,][0-9]{1,3})?)\s*(mcg|mg|kcal|kj|g|%)?`
	return rule{spec: spec, re: regexp.MustCompile(pattern), synonyms: synonyms}
}

// Extract runs normalization and nutrient matching over a raw block. An
// empty block yields a zero-completeness record flagged no_text together
// with ErrNoText; every other input yields a usable record and nil error.
func (e *Extractor) Extract(block RawTextBlock) (record.NutritionRecord, error) {
	rec := record.New()
	lines, err := Normalize(block)
	if err != nil {
		rec.AddFlag(FlagNoText)
		rec.RecomputeCompleteness()
		return rec, err
	}

	var ingredients []string
	inIngredients := false
	for _, line := range lines {
		if rest, ok := strings.CutPrefix(line.Text, "ingredients"); ok {
			inIngredients = true
			rest = strings.TrimLeft(rest, ":;,- ")
			if rest != "" {
				ingredients = append(ingredients, rest)
			}
			continue
		}
		if isNutritionHeader(line.Text) {
			inIngredients = false
			continue
		}
		reading, usable, matched := e.matchLine(line)
		if matched {
			inIngredients = false
			if usable {
				mergeReading(&rec, reading)
			}
			continue
		}
		if inIngredients {
			ingredients = append(ingredients, line.Text)
		}
	}

	rec.IngredientsText = strings.Join(ingredients, " ")
	rec.RecomputeCompleteness()
	return rec, nil
}

// matchLine tries every nutrient rule against one line. matched reports
// that a nutrient name anchored the line even when no usable reading
// could be derived from it.
func (e *Extractor) matchLine(line Line) (reading record.NutrientReading, usable, matched bool) {
	for _, r := range e.rules {
		m := r.re.FindStringSubmatch(line.Text)
		if m == nil {
			continue
		}
		matched = true
		syn := r.synonyms[m[1]]

		value, err := strconv.ParseFloat(strings.Replace(m[2], ",", ".", 1), 64)
		if err != nil {
			return record.NutrientReading{}, false, true
		}

		switch unit := m[3]; {
		case unit == "%":
			if r.spec.DailyValue <= 0 {
				return record.NutrientReading{}, false, true
			}
			value = value / 100 * r.spec.DailyValue
		case unit == "":
			// Unit omitted: inferred from nutrient identity.
			if syn.Factor > 0 {
				value *= syn.Factor
			}
		default:
			converted, ok := vocab.Convert(value, vocab.Unit(unit), r.spec.Unit)
			if !ok {
				return record.NutrientReading{}, false, true
			}
			value = converted
			if syn.Factor > 0 {
				value *= syn.Factor
			}
		}

		conf := syn.Confidence * line.Confidence
		if conf < minReadingConfidence {
			conf = minReadingConfidence
		}
		return record.NutrientReading{
			Name:             r.spec.ID,
			Value:            value,
			Unit:             r.spec.Unit,
			SourceConfidence: conf,
		}, true, true
	}
	return record.NutrientReading{}, false, false
}

// mergeReading applies the duplicate policy: the higher-confidence
// reading wins and ties go to the later line. Disagreeing duplicates
// leave a conflict flag either way.
func mergeReading(rec *record.NutritionRecord, reading record.NutrientReading) {
	existing, ok := rec.Reading(reading.Name)
	if !ok {
		rec.SetReading(reading)
		return
	}
	if existing.Value != reading.Value {
		rec.AddFlag(string(reading.Name) + "_conflict")
	}
	if reading.SourceConfidence >= existing.SourceConfidence {
		rec.SetReading(reading)
	}
}

var nutritionHeaders = []string{
	"nutrition facts",
	"nutrition information",
	"nutritional information",
	"nutritional values",
	"nutrition per",
	"amount per serving",
}

func isNutritionHeader(text string) bool {
	for _, header := range nutritionHeaders {
		if strings.HasPrefix(text, header) {
			return true
		}
	}
	return false
}
