package suggest

import (
	"strings"

	"nutriscan-backend/nutrition/diet"
	"nutriscan-backend/nutrition/healthmodel"
)

// Rule priorities. Rejected readings outrank everything because the
// score they accompany is built on incomplete data.
const (
	priorityRejected  = 95
	priorityPoor      = 90
	priorityWarning   = 80
	priorityFair      = 70
	priorityGood      = 45
	priorityExcellent = 40
	priorityPositive  = 30
	priorityDiet      = 20
)

const rejectedTrigger = "rejected_readings"

// flagRules maps advisory validity flags straight onto suggestions. The
// trigger doubles as the flag name.
var flagRules = map[string]Suggestion{
	"high_sugar": {
		Text:     "High in sugar - limit portion size",
		Priority: priorityWarning,
		Trigger:  "high_sugar",
	},
	"high_sodium": {
		Text:     "High sodium content - drink plenty of water",
		Priority: priorityWarning,
		Trigger:  "high_sodium",
	},
	"high_saturated_fat": {
		Text:     "High saturated fat - choose lean alternatives",
		Priority: priorityWarning,
		Trigger:  "high_saturated_fat",
	},
	"good_protein_source": {
		Text:     "Good protein source!",
		Priority: priorityPositive,
		Trigger:  "good_protein_source",
	},
	"rich_vitamin_c": {
		Text:     "Rich in Vitamin C - great for immunity!",
		Priority: priorityPositive,
		Trigger:  "rich_vitamin_c",
	},
	"good_calcium_source": {
		Text:     "Good source of calcium for bone health!",
		Priority: priorityPositive,
		Trigger:  "good_calcium_source",
	},
}

func fromFlags(flags []string) []Suggestion {
	out := make([]Suggestion, 0, len(flags))
	for _, flag := range flags {
		if strings.HasSuffix(flag, "_rejected") {
			out = append(out, Suggestion{
				Text:     "Some readings looked implausible and were ignored - rescan the label for an accurate result",
				Priority: priorityRejected,
				Trigger:  rejectedTrigger,
			})
			continue
		}
		if rule, ok := flagRules[flag]; ok {
			out = append(out, rule)
		}
	}
	return out
}

func fromTier(tier healthmodel.Tier) []Suggestion {
	switch tier {
	case healthmodel.TierPoor:
		return []Suggestion{{
			Text:     "Consider healthier alternatives",
			Priority: priorityPoor,
			Trigger:  "score_poor",
		}}
	case healthmodel.TierFair:
		return []Suggestion{{
			Text:     "Moderate nutrition - consume in moderation",
			Priority: priorityFair,
			Trigger:  "score_fair",
		}}
	case healthmodel.TierGood:
		return []Suggestion{{
			Text:     "Good nutritional choice",
			Priority: priorityGood,
			Trigger:  "score_good",
		}}
	case healthmodel.TierExcellent:
		return []Suggestion{{
			Text:     "Excellent nutritional profile!",
			Priority: priorityExcellent,
			Trigger:  "score_excellent",
		}}
	default:
		return nil
	}
}

func fromDiet(category diet.Category) []Suggestion {
	switch category {
	case diet.Vegan:
		return []Suggestion{
			{
				Text:     "Great choice for plant-based eating!",
				Priority: priorityDiet,
				Trigger:  "diet_vegan",
			},
			{
				Text:     "Consider pairing with protein-rich legumes or nuts",
				Priority: priorityDiet,
				Trigger:  "diet_vegan_pairing",
			},
		}
	case diet.Vegetarian:
		return []Suggestion{
			{
				Text:     "Contains dairy/eggs - good source of complete proteins",
				Priority: priorityDiet,
				Trigger:  "diet_vegetarian",
			},
			{
				Text:     "Add more vegetables for balanced nutrition",
				Priority: priorityDiet,
				Trigger:  "diet_vegetarian_balance",
			},
		}
	case diet.NonVegetarian:
		return []Suggestion{
			{
				Text:     "Contains animal products - ensure portion control",
				Priority: priorityDiet,
				Trigger:  "diet_non_vegetarian",
			},
			{
				Text:     "Balance with plant-based sides for fiber",
				Priority: priorityDiet,
				Trigger:  "diet_non_vegetarian_balance",
			},
		}
	default:
		return nil
	}
}
