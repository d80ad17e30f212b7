package suggest

import "sort"

// maxSuggestions caps the list so the UI never scrolls advice.
const maxSuggestions = 5

// Generate builds the deterministic suggestion list for a scored record.
// The same input always yields the same ordered output.
func Generate(input Input) []Suggestion {
	candidates := make([]Suggestion, 0, 8)
	mappers := []func(Input) []Suggestion{
		func(in Input) []Suggestion {
			return fromFlags(in.Flags)
		},
		func(in Input) []Suggestion {
			return fromTier(in.Tier)
		},
		func(in Input) []Suggestion {
			return fromDiet(in.Diet)
		},
	}
	for _, mapper := range mappers {
		candidates = append(candidates, mapper(input)...)
	}

	deduped := dedupe(candidates)
	sortSuggestions(deduped)
	if len(deduped) > maxSuggestions {
		deduped = deduped[:maxSuggestions]
	}
	for i := range deduped {
		deduped[i].Order = i + 1
	}
	return deduped
}

func dedupe(items []Suggestion) []Suggestion {
	seen := make(map[string]bool, len(items))
	out := make([]Suggestion, 0, len(items))
	for _, item := range items {
		if item.Trigger == "" || seen[item.Trigger] {
			continue
		}
		seen[item.Trigger] = true
		out = append(out, item)
	}
	return out
}

func sortSuggestions(items []Suggestion) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Priority != items[j].Priority {
			return items[i].Priority > items[j].Priority
		}
		return items[i].Trigger < items[j].Trigger
	})
}
