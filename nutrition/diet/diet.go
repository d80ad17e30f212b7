package diet

import "strings"

// Category is the diet type derived from an ingredient list.
type Category string

const (
	Vegan         Category = "vegan"
	Vegetarian    Category = "vegetarian"
	NonVegetarian Category = "non_vegetarian"
	Unknown       Category = "unknown"
)

// Classification is the classifier verdict with the evidence behind it.
type Classification struct {
	Category   Category `json:"category"`
	Confidence float64  `json:"confidence"`
	Reason     string   `json:"reason"`
	Matched    []string `json:"matched,omitempty"`
}

// Classify inspects ingredient text for animal-derived terms. Flesh terms
// are checked first and short-circuit to NonVegetarian; byproduct terms
// alone mean Vegetarian; any other non-empty text is taken as Vegan.
// Absent or empty text is Unknown. Matching is keyword based on
// lowercased text, not NLP; compound ingredient names are a known
// limitation.
func Classify(ingredientsText string) Classification {
	text := strings.ToLower(strings.TrimSpace(ingredientsText))
	if text == "" {
		return Classification{
			Category: Unknown,
			Reason:   "no ingredient text",
		}
	}
	if matched := matchTerms(fleshPattern, text); len(matched) > 0 {
		return Classification{
			Category:   NonVegetarian,
			Confidence: 0.95,
			Reason:     "contains animal flesh terms",
			Matched:    matched,
		}
	}
	if matched := matchTerms(byproductPattern, text); len(matched) > 0 {
		return Classification{
			Category:   Vegetarian,
			Confidence: 0.85,
			Reason:     "contains animal byproducts, no flesh terms",
			Matched:    matched,
		}
	}
	return Classification{
		Category:   Vegan,
		Confidence: 0.80,
		Reason:     "no animal-derived ingredients matched",
	}
}
