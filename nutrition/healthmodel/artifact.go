package healthmodel

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
)

// supportedSchemaVersion is the artifact layout this build understands.
const supportedSchemaVersion = 1

//go:embed model.json
var embeddedArtifact []byte

// Artifact is the serialized scoring model: the ordered feature schema,
// the standardization parameters, and a flattened tree ensemble exported
// at training time. It is read-only configuration data.
type Artifact struct {
	SchemaVersion int          `json:"schemaVersion"`
	Features      []string     `json:"features"`
	Scaler        Scaler       `json:"scaler"`
	Forest        Forest       `json:"forest"`
	Calibration   *Calibration `json:"calibration,omitempty"`
}

// Scaler holds per-feature standardization parameters. Mean doubles as
// the sentinel table for missing readings.
type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Forest is the tree ensemble; the prediction is the mean of the tree
// outputs.
type Forest struct {
	Trees []Tree `json:"trees"`
}

// Tree is one regression tree in flattened parallel-array layout. Leaf
// nodes carry left = right = -1 and their output in Value; internal
// nodes route on Feature and Threshold. Children always point forward,
// so a walk terminates within the node count.
type Tree struct {
	Feature   []int     `json:"feature"`
	Threshold []float64 `json:"threshold"`
	Left      []int     `json:"left"`
	Right     []int     `json:"right"`
	Value     []float64 `json:"value"`
}

// Calibration maps prediction spread to a confidence estimate. Absent
// calibration means the model exposes no estimate and confidence is
// reported as 1.
type Calibration struct {
	SpreadHalfRange float64 `json:"spreadHalfRange"`
}

func decodeArtifact(data []byte) (Artifact, error) {
	var artifact Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return Artifact{}, fmt.Errorf("decode artifact: %w", err)
	}
	if err := artifact.validate(); err != nil {
		return Artifact{}, err
	}
	return artifact, nil
}

func (a Artifact) validate() error {
	if a.SchemaVersion != supportedSchemaVersion {
		return fmt.Errorf("unsupported artifact schema version %d", a.SchemaVersion)
	}
	n := len(a.Features)
	if n == 0 {
		return fmt.Errorf("artifact declares no features")
	}
	if len(a.Scaler.Mean) != n || len(a.Scaler.Scale) != n {
		return fmt.Errorf("scaler arrays do not match feature count %d", n)
	}
	for i, scale := range a.Scaler.Scale {
		if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
			return fmt.Errorf("feature %q: invalid scale %v", a.Features[i], scale)
		}
		if math.IsNaN(a.Scaler.Mean[i]) || math.IsInf(a.Scaler.Mean[i], 0) {
			return fmt.Errorf("feature %q: invalid mean", a.Features[i])
		}
	}
	if len(a.Forest.Trees) == 0 {
		return fmt.Errorf("artifact carries no trees")
	}
	for ti, tree := range a.Forest.Trees {
		if err := tree.validate(n); err != nil {
			return fmt.Errorf("tree %d: %w", ti, err)
		}
	}
	if a.Calibration != nil && a.Calibration.SpreadHalfRange <= 0 {
		return fmt.Errorf("calibration spread half-range must be positive")
	}
	return nil
}

func (t Tree) validate(featureCount int) error {
	nodes := len(t.Feature)
	if nodes == 0 {
		return fmt.Errorf("empty tree")
	}
	if len(t.Threshold) != nodes || len(t.Left) != nodes || len(t.Right) != nodes || len(t.Value) != nodes {
		return fmt.Errorf("node arrays have inconsistent lengths")
	}
	for i := 0; i < nodes; i++ {
		if math.IsNaN(t.Threshold[i]) || math.IsInf(t.Threshold[i], 0) {
			return fmt.Errorf("node %d: invalid threshold", i)
		}
		if math.IsNaN(t.Value[i]) || math.IsInf(t.Value[i], 0) {
			return fmt.Errorf("node %d: invalid value", i)
		}
		if t.Left[i] < 0 {
			if t.Right[i] >= 0 {
				return fmt.Errorf("node %d: half-leaf node", i)
			}
			continue
		}
		if t.Right[i] < 0 {
			return fmt.Errorf("node %d: half-leaf node", i)
		}
		if t.Feature[i] < 0 || t.Feature[i] >= featureCount {
			return fmt.Errorf("node %d: feature index %d out of range", i, t.Feature[i])
		}
		// Forward-only children guarantee the walk terminates.
		if t.Left[i] <= i || t.Left[i] >= nodes || t.Right[i] <= i || t.Right[i] >= nodes {
			return fmt.Errorf("node %d: children must point forward", i)
		}
	}
	return nil
}
