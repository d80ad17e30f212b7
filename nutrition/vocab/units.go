package vocab

// Unit is a canonical measurement unit for nutrient values.
type Unit string

const (
	UnitKcal      Unit = "kcal"
	UnitKilojoule Unit = "kj"
	UnitGram      Unit = "g"
	UnitMilligram Unit = "mg"
	UnitMicrogram Unit = "mcg"
	UnitPercentDV Unit = "%dv"
)

const kcalPerKilojoule = 1.0 / 4.184

// massInMilligrams maps mass units to their milligram equivalent.
var massInMilligrams = map[Unit]float64{
	UnitGram:      1000,
	UnitMilligram: 1,
	UnitMicrogram: 0.001,
}

// Convert translates a value between units. Mass units convert freely
// among themselves; kcal only to itself. Percent units carry no absolute
// amount and never convert here (the extractor resolves them through the
// nutrient's reference daily value).
func Convert(value float64, from, to Unit) (float64, bool) {
	if from == to {
		return value, true
	}
	fromMg, okFrom := massInMilligrams[from]
	toMg, okTo := massInMilligrams[to]
	if okFrom && okTo {
		return value * fromMg / toMg, true
	}
	if from == UnitKilojoule && to == UnitKcal {
		return value * kcalPerKilojoule, true
	}
	if from == UnitKcal && to == UnitKilojoule {
		return value / kcalPerKilojoule, true
	}
	return 0, false
}
