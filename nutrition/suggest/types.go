package suggest

import (
	"nutriscan-backend/nutrition/diet"
	"nutriscan-backend/nutrition/healthmodel"
)

// Suggestion is one deterministic dietary hint derived from a scored
// record.
type Suggestion struct {
	Text     string `json:"text"`
	Priority int    `json:"priority"`
	Trigger  string `json:"trigger"`
	Order    int    `json:"order"`
}

// Input is the normalized data the engine keys its rule table on.
type Input struct {
	Tier  healthmodel.Tier
	Flags []string
	Diet  diet.Category
}
