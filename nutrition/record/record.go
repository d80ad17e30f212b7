package record

import (
	"sort"

	"nutriscan-backend/nutrition/vocab"
)

// NutrientReading is a single extracted amount, expressed in the
// nutrient's canonical unit.
type NutrientReading struct {
	Name             vocab.Nutrient `json:"name"`
	Value            float64        `json:"value"`
	Unit             vocab.Unit     `json:"unit"`
	SourceConfidence float64        `json:"sourceConfidence"`
}

// NutritionRecord is the structured result of extraction. The validator
// mutates it in place (clamps values, adds flags); afterwards it is
// treated as immutable.
type NutritionRecord struct {
	Readings        map[vocab.Nutrient]NutrientReading `json:"readings"`
	IngredientsText string                             `json:"ingredientsText,omitempty"`
	Completeness    float64                            `json:"completeness"`
	ValidityFlags   []string                           `json:"validityFlags"`
}

// New returns an empty record with initialized containers.
func New() NutritionRecord {
	return NutritionRecord{
		Readings:      make(map[vocab.Nutrient]NutrientReading, vocab.Size()),
		ValidityFlags: []string{},
	}
}

// SetReading stores a reading, replacing any previous one for the same
// nutrient.
func (r *NutritionRecord) SetReading(reading NutrientReading) {
	if r.Readings == nil {
		r.Readings = make(map[vocab.Nutrient]NutrientReading, vocab.Size())
	}
	r.Readings[reading.Name] = reading
}

// Reading returns the stored reading for a nutrient, if present.
func (r *NutritionRecord) Reading(name vocab.Nutrient) (NutrientReading, bool) {
	reading, ok := r.Readings[name]
	return reading, ok
}

// AddFlag records a validity flag. Flags are kept sorted and unique so
// identical records always carry identical flag lists.
func (r *NutritionRecord) AddFlag(flag string) {
	if flag == "" {
		return
	}
	idx := sort.SearchStrings(r.ValidityFlags, flag)
	if idx < len(r.ValidityFlags) && r.ValidityFlags[idx] == flag {
		return
	}
	r.ValidityFlags = append(r.ValidityFlags, "")
	copy(r.ValidityFlags[idx+1:], r.ValidityFlags[idx:])
	r.ValidityFlags[idx] = flag
}

// HasFlag reports whether a validity flag is present.
func (r *NutritionRecord) HasFlag(flag string) bool {
	idx := sort.SearchStrings(r.ValidityFlags, flag)
	return idx < len(r.ValidityFlags) && r.ValidityFlags[idx] == flag
}

// RecomputeCompleteness refreshes the fraction of the vocabulary covered
// by non-rejected readings.
func (r *NutritionRecord) RecomputeCompleteness() {
	r.Completeness = float64(len(r.Readings)) / float64(vocab.Size())
}
