package feature

import (
	"fmt"
	"math"

	"nutriscan-backend/nutrition/record"
	"nutriscan-backend/nutrition/vocab"
)

// Vector is the fixed-order numeric input consumed by the scoring model.
// Its length always equals the vocabulary size.
type Vector []float64

// Builder maps validated records onto the model's training schema. It is
// the single place feature order is bound: a model schema change touches
// exactly this construction.
type Builder struct {
	order     []vocab.Nutrient
	sentinels []float64
}

// NewBuilder validates the artifact's feature schema against the nutrient
// vocabulary and captures the training-set means used as sentinels for
// missing readings.
func NewBuilder(features []string, means []float64) (*Builder, error) {
	order := vocab.Ordered()
	if len(features) != len(order) {
		return nil, fmt.Errorf("model expects %d features, vocabulary has %d", len(features), len(order))
	}
	if len(means) != len(features) {
		return nil, fmt.Errorf("feature means length %d does not match feature count %d", len(means), len(features))
	}
	for i, name := range features {
		if name != string(order[i]) {
			return nil, fmt.Errorf("feature %d: model trained on %q, vocabulary has %q", i, name, order[i])
		}
		if math.IsNaN(means[i]) || math.IsInf(means[i], 0) {
			return nil, fmt.Errorf("feature %q: invalid training mean", name)
		}
	}
	sentinels := make([]float64, len(means))
	copy(sentinels, means)
	return &Builder{order: order, sentinels: sentinels}, nil
}

// Build produces the feature vector for a validated record. Nutrients
// without a surviving reading contribute their training-set mean, never
// zero, so absence does not read as a nutritional statement.
func (b *Builder) Build(rec record.NutritionRecord) Vector {
	out := make(Vector, len(b.order))
	for i, id := range b.order {
		if reading, ok := rec.Readings[id]; ok {
			out[i] = reading.Value
		} else {
			out[i] = b.sentinels[i]
		}
	}
	return out
}

// Size is the vector length the builder produces.
func (b *Builder) Size() int {
	return len(b.order)
}

// Sentinel returns the substitute value used when a nutrient is missing.
func (b *Builder) Sentinel(id vocab.Nutrient) (float64, bool) {
	for i, nutrient := range b.order {
		if nutrient == id {
			return b.sentinels[i], true
		}
	}
	return 0, false
}
