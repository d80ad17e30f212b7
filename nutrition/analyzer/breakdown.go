package analyzer

import (
	"nutriscan-backend/nutrition/record"
	"nutriscan-backend/nutrition/vocab"
)

// FlagCarbEstimated marks a record whose carbohydrate figure in the
// breakdown was derived from the energy balance rather than read off the
// label. The estimate feeds the breakdown only, never the scorer.
const FlagCarbEstimated = "carbohydrate_estimated"

// Macro is one macronutrient's contribution to the energy total.
type Macro struct {
	Grams    float64 `json:"grams"`
	Calories float64 `json:"calories"`
	Share    float64 `json:"share"`
}

// Breakdown is the energy split used for visualization, plus the
// remaining extracted nutrients in canonical units.
type Breakdown struct {
	Calories              float64            `json:"calories"`
	Protein               Macro              `json:"protein"`
	Fat                   Macro              `json:"fat"`
	Carbohydrate          Macro              `json:"carbohydrate"`
	CarbohydrateEstimated bool               `json:"carbohydrateEstimated,omitempty"`
	OtherNutrients        map[string]float64 `json:"otherNutrients,omitempty"`
}

const (
	kcalPerGramProtein = 4
	kcalPerGramFat     = 9
	kcalPerGramCarb    = 4
)

func buildBreakdown(rec *record.NutritionRecord) Breakdown {
	reading := func(id vocab.Nutrient) (float64, bool) {
		r, ok := rec.Readings[id]
		if !ok {
			return 0, false
		}
		return r.Value, true
	}

	calories, _ := reading(vocab.Calories)
	protein, _ := reading(vocab.Protein)
	fat, _ := reading(vocab.TotalFat)
	carbs, haveCarbs := reading(vocab.Carbohydrate)

	estimated := false
	if !haveCarbs && calories > 0 {
		remainder := calories - fat*kcalPerGramFat - protein*kcalPerGramProtein
		if remainder < 0 {
			remainder = 0
		}
		carbs = remainder / kcalPerGramCarb
		estimated = true
		rec.AddFlag(FlagCarbEstimated)
	}

	macro := func(grams, kcalPerGram float64) Macro {
		m := Macro{Grams: grams, Calories: grams * kcalPerGram}
		if calories > 0 {
			m.Share = m.Calories / calories
		}
		return m
	}

	var others map[string]float64
	for _, id := range vocab.Ordered() {
		switch id {
		case vocab.Calories, vocab.Protein, vocab.TotalFat, vocab.Carbohydrate:
			continue
		}
		if value, ok := reading(id); ok {
			if others == nil {
				others = make(map[string]float64)
			}
			others[string(id)] = value
		}
	}

	return Breakdown{
		Calories:              calories,
		Protein:               macro(protein, kcalPerGramProtein),
		Fat:                   macro(fat, kcalPerGramFat),
		Carbohydrate:          macro(carbs, kcalPerGramCarb),
		CarbohydrateEstimated: estimated,
		OtherNutrients:        others,
	}
}
