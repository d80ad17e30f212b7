package healthmodel

import (
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"nutriscan-backend/nutrition/record"
	"nutriscan-backend/nutrition/vocab"
)

func testRecord(readings map[vocab.Nutrient]float64) record.NutritionRecord {
	rec := record.New()
	for name, value := range readings {
		spec, ok := vocab.Lookup(name)
		if !ok {
			panic("unknown nutrient " + string(name))
		}
		rec.SetReading(record.NutrientReading{
			Name:             name,
			Value:            value,
			Unit:             spec.Unit,
			SourceConfidence: 1,
		})
	}
	rec.RecomputeCompleteness()
	return rec
}

func TestLoadEmbedded(t *testing.T) {
	m, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("LoadEmbedded: %v", err)
	}
	if got, want := m.TreeCount(), 10; got != want {
		t.Errorf("TreeCount = %d, want %d", got, want)
	}
	if got, want := m.Builder().Size(), vocab.Size(); got != want {
		t.Errorf("Builder().Size() = %d, want %d", got, want)
	}
	if len(m.Digest()) != 64 {
		t.Errorf("Digest() = %q, want 64 hex chars", m.Digest())
	}
	if m.Source() != "embedded" {
		t.Errorf("Source() = %q, want %q", m.Source(), "embedded")
	}
}

func TestScorePartialLabel(t *testing.T) {
	m, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("LoadEmbedded: %v", err)
	}
	rec := testRecord(map[vocab.Nutrient]float64{
		vocab.Calories: 250,
		vocab.TotalFat: 10,
		vocab.Sodium:   2000,
	})

	res, err := m.Score(m.Builder().Build(rec))
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if res.Score != 68 {
		t.Errorf("Score = %d, want 68", res.Score)
	}
	if res.Tier != TierGood {
		t.Errorf("Tier = %q, want %q", res.Tier, TierGood)
	}
	if math.Abs(res.ClassifierConfidence-0.6058) > 1e-3 {
		t.Errorf("ClassifierConfidence = %v, want ~0.6058", res.ClassifierConfidence)
	}
}

func TestScoreEmptyRecordUsesSentinels(t *testing.T) {
	m, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("LoadEmbedded: %v", err)
	}
	res, err := m.Score(m.Builder().Build(record.New()))
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if res.Score != 93 {
		t.Errorf("Score = %d, want 93", res.Score)
	}
	if res.Tier != TierExcellent {
		t.Errorf("Tier = %q, want %q", res.Tier, TierExcellent)
	}
	if math.Abs(res.ClassifierConfidence-0.8210) > 1e-3 {
		t.Errorf("ClassifierConfidence = %v, want ~0.8210", res.ClassifierConfidence)
	}
}

func TestScoreClampsHighEnd(t *testing.T) {
	m, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("LoadEmbedded: %v", err)
	}
	// Every scored nutrient in its best band pushes the raw prediction
	// past 100.
	rec := testRecord(map[vocab.Nutrient]float64{
		vocab.Calories:     50,
		vocab.Protein:      25,
		vocab.TotalFat:     1,
		vocab.SaturatedFat: 0.5,
		vocab.Sugar:        1,
		vocab.Sodium:       50,
		vocab.VitaminC:     60,
		vocab.Calcium:      250,
		vocab.Iron:         6,
		vocab.Potassium:    400,
	})
	result, err := m.Score(m.Builder().Build(rec))
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if result.Score != 100 {
		t.Errorf("Score = %d, want 100 (clamped)", result.Score)
	}
	if result.Tier != TierExcellent {
		t.Errorf("Tier = %q, want %q", result.Tier, TierExcellent)
	}
	if math.Abs(result.ClassifierConfidence-0.8362) > 1e-3 {
		t.Errorf("ClassifierConfidence = %v, want ~0.8362", result.ClassifierConfidence)
	}
}

func TestScoreWithoutCalibrationReportsFullConfidence(t *testing.T) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(embeddedArtifact, &doc); err != nil {
		t.Fatalf("unmarshal embedded artifact: %v", err)
	}
	delete(doc, "calibration")
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal stripped artifact: %v", err)
	}

	m, err := newModel(data, "stripped")
	if err != nil {
		t.Fatalf("newModel: %v", err)
	}
	result, err := m.Score(m.Builder().Build(record.New()))
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if result.Score != 93 {
		t.Errorf("Score = %d, want 93", result.Score)
	}
	if result.ClassifierConfidence != 1 {
		t.Errorf("ClassifierConfidence = %v, want 1 without calibration", result.ClassifierConfidence)
	}
}

func TestScoreClampsLowEnd(t *testing.T) {
	m, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("LoadEmbedded: %v", err)
	}
	rec := testRecord(map[vocab.Nutrient]float64{
		vocab.Calories:     900,
		vocab.Protein:      0,
		vocab.TotalFat:     60,
		vocab.SaturatedFat: 20,
		vocab.Sugar:        60,
		vocab.Sodium:       3000,
		vocab.VitaminC:     0,
		vocab.Calcium:      0,
		vocab.Iron:         0,
		vocab.Potassium:    0,
	})
	result, err := m.Score(m.Builder().Build(rec))
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if result.Score != 0 {
		t.Errorf("Score = %d, want 0 (clamped)", result.Score)
	}
	if result.Tier != TierPoor {
		t.Errorf("Tier = %q, want %q", result.Tier, TierPoor)
	}
}

func TestPredictRejectsWrongVectorLength(t *testing.T) {
	m, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("LoadEmbedded: %v", err)
	}
	if _, _, err := m.Predict(make([]float64, 3)); !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("Predict(short vector) error = %v, want ErrSchemaMismatch", err)
	}
	if _, err := m.Score(nil); !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("Score(nil) error = %v, want ErrSchemaMismatch", err)
	}
}

func TestTierForScore(t *testing.T) {
	cases := []struct {
		score int
		want  Tier
	}{
		{0, TierPoor},
		{39, TierPoor},
		{40, TierFair},
		{59, TierFair},
		{60, TierGood},
		{79, TierGood},
		{80, TierExcellent},
		{100, TierExcellent},
	}
	for _, tc := range cases {
		if got := TierForScore(tc.score); got != tc.want {
			t.Errorf("TierForScore(%d) = %q, want %q", tc.score, got, tc.want)
		}
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	if err := os.WriteFile(path, embeddedArtifact, 0o600); err != nil {
		t.Fatalf("write artifact: %v", err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Source() != path {
		t.Errorf("Source() = %q, want %q", m.Source(), path)
	}

	embedded, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("LoadEmbedded: %v", err)
	}
	if m.Digest() != embedded.Digest() {
		t.Errorf("file and embedded digests differ: %s vs %s", m.Digest(), embedded.Digest())
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if !errors.Is(err, ErrModelUnavailable) {
		t.Fatalf("Load(missing) error = %v, want ErrModelUnavailable", err)
	}
}

func TestLoadCorruptArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
	if _, err := Load(path); !errors.Is(err, ErrModelUnavailable) {
		t.Fatalf("Load(corrupt) error = %v, want ErrModelUnavailable", err)
	}
}

func TestVerifyDigest(t *testing.T) {
	m, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("LoadEmbedded: %v", err)
	}
	if err := m.VerifyDigest(m.Digest()); err != nil {
		t.Errorf("VerifyDigest(own digest): %v", err)
	}
	if err := m.VerifyDigest(strings.ToUpper(m.Digest())); err != nil {
		t.Errorf("VerifyDigest should be case-insensitive: %v", err)
	}
	if err := m.VerifyDigest(""); err != nil {
		t.Errorf("VerifyDigest(empty) should pass: %v", err)
	}
	if err := m.VerifyDigest("deadbeef"); !errors.Is(err, ErrModelUnavailable) {
		t.Errorf("VerifyDigest(wrong) error = %v, want ErrModelUnavailable", err)
	}
}

func TestDecodeArtifactValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{
			name: "unsupported schema version",
			body: `{"schemaVersion":99,"features":["calories"],"scaler":{"mean":[1],"scale":[1]},"forest":{"trees":[{"feature":[-1],"threshold":[0],"left":[-1],"right":[-1],"value":[50]}]}}`,
		},
		{
			name: "no features",
			body: `{"schemaVersion":1,"features":[],"scaler":{"mean":[],"scale":[]},"forest":{"trees":[]}}`,
		},
		{
			name: "scaler length mismatch",
			body: `{"schemaVersion":1,"features":["calories"],"scaler":{"mean":[1,2],"scale":[1]},"forest":{"trees":[{"feature":[-1],"threshold":[0],"left":[-1],"right":[-1],"value":[50]}]}}`,
		},
		{
			name: "zero scale",
			body: `{"schemaVersion":1,"features":["calories"],"scaler":{"mean":[1],"scale":[0]},"forest":{"trees":[{"feature":[-1],"threshold":[0],"left":[-1],"right":[-1],"value":[50]}]}}`,
		},
		{
			name: "no trees",
			body: `{"schemaVersion":1,"features":["calories"],"scaler":{"mean":[1],"scale":[1]},"forest":{"trees":[]}}`,
		},
		{
			name: "half leaf",
			body: `{"schemaVersion":1,"features":["calories"],"scaler":{"mean":[1],"scale":[1]},"forest":{"trees":[{"feature":[0,-1],"threshold":[0,0],"left":[-1,-1],"right":[1,-1],"value":[0,50]}]}}`,
		},
		{
			name: "backward child",
			body: `{"schemaVersion":1,"features":["calories"],"scaler":{"mean":[1],"scale":[1]},"forest":{"trees":[{"feature":[0,0,-1],"threshold":[0,0,0],"left":[1,0,-1],"right":[2,2,-1],"value":[0,0,50]}]}}`,
		},
		{
			name: "feature index out of range",
			body: `{"schemaVersion":1,"features":["calories"],"scaler":{"mean":[1],"scale":[1]},"forest":{"trees":[{"feature":[7,-1,-1],"threshold":[0,0,0],"left":[1,-1,-1],"right":[2,-1,-1],"value":[0,10,50]}]}}`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := decodeArtifact([]byte(tc.body)); err == nil {
				t.Fatalf("decodeArtifact accepted invalid artifact")
			}
		})
	}
}
