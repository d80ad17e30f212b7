package record

import "nutriscan-backend/nutrition/vocab"

// extremeRejectFactor separates values worth clamping from values worth
// discarding. Mild overshoot is usually a unit or decimal slip and clamps
// to the bound; anything beyond this multiple of the upper bound is a
// parsing failure and the reading is dropped.
const extremeRejectFactor = 5

// Validate applies the vocabulary's plausible ranges to every reading.
// Out-of-range values are clamped to the nearest bound and flagged
// <nutrient>_clamped; values beyond extremeRejectFactor times the upper
// bound are removed and flagged <nutrient>_rejected. In-range values
// crossing an advisory threshold gain the advisory flag. Completeness is
// recomputed from the surviving readings. Validating an already validated
// record changes nothing.
func Validate(r *NutritionRecord) {
	if r.Readings == nil {
		r.Readings = map[vocab.Nutrient]NutrientReading{}
	}
	if r.ValidityFlags == nil {
		r.ValidityFlags = []string{}
	}
	for _, id := range vocab.Ordered() {
		reading, ok := r.Readings[id]
		if !ok {
			continue
		}
		spec, ok := vocab.Lookup(id)
		if !ok {
			continue
		}
		if reading.Value > spec.Max*extremeRejectFactor {
			delete(r.Readings, id)
			r.AddFlag(string(id) + "_rejected")
			continue
		}
		if reading.Value > spec.Max {
			reading.Value = spec.Max
			r.Readings[id] = reading
			r.AddFlag(string(id) + "_clamped")
		} else if reading.Value < spec.Min {
			reading.Value = spec.Min
			r.Readings[id] = reading
			r.AddFlag(string(id) + "_clamped")
		}
		for _, adv := range spec.Advisories {
			if r.Readings[id].Value > adv.Above {
				r.AddFlag(adv.Flag)
			}
		}
	}
	r.RecomputeCompleteness()
}
