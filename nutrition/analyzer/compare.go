package analyzer

// Comparison puts two analyses side by side.
type Comparison struct {
	Winner         string             `json:"winner"`
	FirstScore     int                `json:"firstScore"`
	SecondScore    int                `json:"secondScore"`
	NutrientDeltas map[string]float64 `json:"nutrientDeltas,omitempty"`
}

// Winner values.
const (
	WinnerFirst  = "first"
	WinnerSecond = "second"
	WinnerTie    = "tie"
)

// Compare decides a winner by health score and reports per-nutrient
// deltas, first minus second, for readings both records carry.
func Compare(first, second Analysis) Comparison {
	cmp := Comparison{
		FirstScore:  first.Score.Score,
		SecondScore: second.Score.Score,
	}
	switch {
	case first.Score.Score > second.Score.Score:
		cmp.Winner = WinnerFirst
	case first.Score.Score < second.Score.Score:
		cmp.Winner = WinnerSecond
	default:
		cmp.Winner = WinnerTie
	}

	for id, a := range first.Record.Readings {
		b, ok := second.Record.Readings[id]
		if !ok {
			continue
		}
		if cmp.NutrientDeltas == nil {
			cmp.NutrientDeltas = make(map[string]float64)
		}
		cmp.NutrientDeltas[string(id)] = a.Value - b.Value
	}
	return cmp
}
