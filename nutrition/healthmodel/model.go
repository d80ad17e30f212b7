package healthmodel

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"os"
	"strings"

	"nutriscan-backend/nutrition/feature"
)

// Tier is the qualitative bucket derived from the numeric score.
type Tier string

const (
	TierPoor      Tier = "Poor"
	TierFair      Tier = "Fair"
	TierGood      Tier = "Good"
	TierExcellent Tier = "Excellent"
)

// TierForScore maps a score to its tier. The thresholds are fixed
// contract values: Poor below 40, Fair to 59, Good to 79, Excellent
// from 80.
func TierForScore(score int) Tier {
	switch {
	case score < 40:
		return TierPoor
	case score < 60:
		return TierFair
	case score < 80:
		return TierGood
	default:
		return TierExcellent
	}
}

// ScoreResult is the scorer output. ClassifierConfidence is the model's
// own agreement estimate when calibration is present, otherwise 1.
type ScoreResult struct {
	Score                int     `json:"score"`
	Tier                 Tier    `json:"tier"`
	ClassifierConfidence float64 `json:"classifierConfidence"`
}

// Model is a loaded, validated scoring artifact. It is immutable after
// construction and safe to share across concurrent requests without
// locking.
type Model struct {
	artifact Artifact
	builder  *feature.Builder
	digest   string
	source   string
}

// Load reads and validates a model artifact from disk.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrModelUnavailable, path, err)
	}
	return newModel(data, path)
}

// LoadEmbedded builds the model from the artifact compiled into the
// binary.
func LoadEmbedded() (*Model, error) {
	return newModel(embeddedArtifact, "embedded")
}

func newModel(data []byte, source string) (*Model, error) {
	artifact, err := decodeArtifact(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrModelUnavailable, source, err)
	}
	builder, err := feature.NewBuilder(artifact.Features, artifact.Scaler.Mean)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSchemaMismatch, source, err)
	}
	sum := sha256.Sum256(data)
	return &Model{
		artifact: artifact,
		builder:  builder,
		digest:   hex.EncodeToString(sum[:]),
		source:   source,
	}, nil
}

// VerifyDigest compares the artifact's SHA-256 against an expected hex
// digest, typically pinned through configuration.
func (m *Model) VerifyDigest(want string) error {
	want = strings.ToLower(strings.TrimSpace(want))
	if want == "" {
		return nil
	}
	if m.digest != want {
		return fmt.Errorf("%w: %s: digest %s does not match expected %s", ErrModelUnavailable, m.source, m.digest, want)
	}
	return nil
}

// Builder returns the feature builder bound to this model's schema.
func (m *Model) Builder() *feature.Builder {
	return m.builder
}

// Digest is the artifact's SHA-256 hex digest.
func (m *Model) Digest() string {
	return m.digest
}

// Source identifies where the artifact was loaded from.
func (m *Model) Source() string {
	return m.source
}

// TreeCount reports the ensemble size.
func (m *Model) TreeCount() int {
	return len(m.artifact.Forest.Trees)
}

// Predict runs the forward pass: standardize, evaluate every tree, and
// average. spread is the standard deviation of the tree outputs.
func (m *Model) Predict(vec feature.Vector) (value, spread float64, err error) {
	if len(vec) != len(m.artifact.Features) {
		return 0, 0, fmt.Errorf("%w: vector length %d, model expects %d", ErrSchemaMismatch, len(vec), len(m.artifact.Features))
	}
	scaled := make([]float64, len(vec))
	for i, v := range vec {
		scaled[i] = (v - m.artifact.Scaler.Mean[i]) / m.artifact.Scaler.Scale[i]
	}

	outputs := make([]float64, len(m.artifact.Forest.Trees))
	var sum float64
	for i, tree := range m.artifact.Forest.Trees {
		out := tree.evaluate(scaled)
		outputs[i] = out
		sum += out
	}
	mean := sum / float64(len(outputs))

	var variance float64
	for _, out := range outputs {
		dev := out - mean
		variance += dev * dev
	}
	variance /= float64(len(outputs))
	return mean, math.Sqrt(variance), nil
}

// Score produces the final clamped, rounded score with tier and
// confidence.
func (m *Model) Score(vec feature.Vector) (ScoreResult, error) {
	value, spread, err := m.Predict(vec)
	if err != nil {
		return ScoreResult{}, err
	}
	if value < 0 {
		value = 0
	}
	if value > 100 {
		value = 100
	}
	score := int(math.Round(value))

	confidence := 1.0
	if cal := m.artifact.Calibration; cal != nil {
		confidence = 1 - math.Min(1, spread/cal.SpreadHalfRange)
	}
	return ScoreResult{
		Score:                score,
		Tier:                 TierForScore(score),
		ClassifierConfidence: confidence,
	}, nil
}

func (t Tree) evaluate(scaled []float64) float64 {
	i := 0
	for t.Left[i] >= 0 {
		if scaled[t.Feature[i]] <= t.Threshold[i] {
			i = t.Left[i]
		} else {
			i = t.Right[i]
		}
	}
	return t.Value[i]
}
