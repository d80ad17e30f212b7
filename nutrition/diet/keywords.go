package diet

import (
	"regexp"
	"sort"
	"strings"
)

// Flesh terms force NonVegetarian regardless of anything else on the
// label. Eggs and gelatin are grouped here following common vegetarian
// labeling practice in the markets this was built for.
var fleshTerms = []string{
	"chicken", "mutton", "beef", "pork", "lamb", "veal", "venison",
	"turkey", "duck", "goat", "meat", "bacon", "ham", "sausage",
	"pepperoni", "salami", "fish", "salmon", "tuna", "cod", "anchovy",
	"anchovies", "sardine", "sardines", "prawn", "prawns", "shrimp",
	"crab", "lobster", "oyster", "squid", "octopus", "egg", "eggs",
	"gelatin", "gelatine", "lard", "tallow", "rennet",
}

// Byproduct terms indicate Vegetarian when no flesh term is present.
var byproductTerms = []string{
	"milk", "whole milk", "skimmed milk", "milk solids", "milk powder",
	"cheese", "butter", "ghee", "cream", "yogurt", "yoghurt", "curd",
	"paneer", "whey", "casein", "lactose", "honey",
}

var (
	fleshPattern     = compileTerms(fleshTerms)
	byproductPattern = compileTerms(byproductTerms)
)

// compileTerms builds a single word-bounded alternation for a term set.
// Longer terms come first so "milk solids" is not shadowed by "milk".
// The terms are literal, so the pattern stays linear on any input.
func compileTerms(terms []string) *regexp.Regexp {
	quoted := make([]string, 0, len(terms))
	for _, term := range terms {
		quoted = append(quoted, regexp.QuoteMeta(term))
	}
	sort.Slice(quoted, func(i, j int) bool { return len(quoted[i]) > len(quoted[j]) })
	return regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

func matchTerms(pattern *regexp.Regexp, text string) []string {
	found := pattern.FindAllString(text, -1)
	if len(found) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(found))
	out := make([]string, 0, len(found))
	for _, term := range found {
		if seen[term] {
			continue
		}
		seen[term] = true
		out = append(out, term)
	}
	return out
}
