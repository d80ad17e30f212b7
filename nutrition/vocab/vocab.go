package vocab

// Nutrient is a canonical identifier from the fixed nutrient vocabulary.
type Nutrient string

const (
	Calories     Nutrient = "calories"
	Protein      Nutrient = "protein"
	TotalFat     Nutrient = "total_fat"
	Carbohydrate Nutrient = "carbohydrate"
	Sodium       Nutrient = "sodium"
	SaturatedFat Nutrient = "saturated_fat"
	Sugar        Nutrient = "sugar"
	Calcium      Nutrient = "calcium"
	Iron         Nutrient = "iron"
	Potassium    Nutrient = "potassium"
	VitaminC     Nutrient = "vitamin_c"
	VitaminE     Nutrient = "vitamin_e"
	VitaminD     Nutrient = "vitamin_d"
)

// Synonym is one name form a label may use for a nutrient. Confidence
// reflects how exact the form is relative to the canonical name. Factor
// converts a value reported under this form into the nutrient itself
// (salt to sodium); zero means no conversion.
type Synonym struct {
	Name       string
	Confidence float64
	Factor     float64
}

// Advisory adds a flag when an in-range value exceeds Above.
type Advisory struct {
	Flag  string
	Above float64
}

// Spec describes a single vocabulary nutrient: display name, canonical
// unit, label synonyms, the plausible range applied by validation, advisory
// flag thresholds, and the reference daily value used for %DV readings
// (zero when no reference amount is defined).
type Spec struct {
	ID         Nutrient
	Display    string
	Unit       Unit
	Synonyms   []Synonym
	Min        float64
	Max        float64
	Advisories []Advisory
	DailyValue float64
}

// table is ordered to match the scoring model's training schema. The order
// is part of the model contract and must never be rearranged without
// retraining.
var table = []Spec{
	{
		ID: Calories, Display: "Calories", Unit: UnitKcal,
		Synonyms: []Synonym{
			{Name: "calories", Confidence: 1.0},
			{Name: "calorie", Confidence: 0.9},
			{Name: "energy", Confidence: 0.85},
			{Name: "kcal", Confidence: 0.7},
		},
		Min: 0, Max: 2000,
		DailyValue: 2000,
	},
	{
		ID: Protein, Display: "Protein", Unit: UnitGram,
		Synonyms: []Synonym{
			{Name: "protein", Confidence: 1.0},
			{Name: "proteins", Confidence: 0.9},
		},
		Min: 0, Max: 100,
		Advisories: []Advisory{{Flag: "good_protein_source", Above: 15}},
		DailyValue: 50,
	},
	{
		ID: TotalFat, Display: "Total Fat", Unit: UnitGram,
		Synonyms: []Synonym{
			{Name: "total fat", Confidence: 1.0},
			{Name: "total fats", Confidence: 0.9},
			{Name: "fat", Confidence: 0.85},
		},
		Min: 0, Max: 100,
		DailyValue: 78,
	},
	{
		ID: Carbohydrate, Display: "Carbohydrate", Unit: UnitGram,
		Synonyms: []Synonym{
			{Name: "carbohydrate", Confidence: 1.0},
			{Name: "total carbohydrate", Confidence: 0.95},
			{Name: "carbohydrates", Confidence: 0.9},
			{Name: "total carbs", Confidence: 0.7},
			{Name: "carbs", Confidence: 0.7},
		},
		Min: 0, Max: 100,
		DailyValue: 275,
	},
	{
		ID: Sodium, Display: "Sodium", Unit: UnitMilligram,
		Synonyms: []Synonym{
			{Name: "sodium", Confidence: 1.0},
			{Name: "salt", Confidence: 0.85, Factor: 0.4},
		},
		Min: 0, Max: 10000,
		Advisories: []Advisory{{Flag: "high_sodium", Above: 500}},
		DailyValue: 2300,
	},
	{
		ID: SaturatedFat, Display: "Saturated Fat", Unit: UnitGram,
		Synonyms: []Synonym{
			{Name: "saturated fat", Confidence: 1.0},
			{Name: "saturates", Confidence: 0.85},
			{Name: "sat fat", Confidence: 0.7},
			{Name: "sat. fat", Confidence: 0.7},
		},
		Min: 0, Max: 100,
		Advisories: []Advisory{{Flag: "high_saturated_fat", Above: 5}},
		DailyValue: 20,
	},
	{
		ID: Sugar, Display: "Sugar", Unit: UnitGram,
		Synonyms: []Synonym{
			{Name: "sugar", Confidence: 1.0},
			{Name: "sugars", Confidence: 0.95},
			{Name: "total sugars", Confidence: 0.9},
		},
		Min: 0, Max: 100,
		Advisories: []Advisory{{Flag: "high_sugar", Above: 15}},
		DailyValue: 50,
	},
	{
		ID: Calcium, Display: "Calcium", Unit: UnitMilligram,
		Synonyms: []Synonym{
			{Name: "calcium", Confidence: 1.0},
		},
		Min: 0, Max: 5000,
		Advisories: []Advisory{{Flag: "good_calcium_source", Above: 150}},
		DailyValue: 1300,
	},
	{
		ID: Iron, Display: "Iron", Unit: UnitMilligram,
		Synonyms: []Synonym{
			{Name: "iron", Confidence: 1.0},
		},
		Min: 0, Max: 100,
		DailyValue: 18,
	},
	{
		ID: Potassium, Display: "Potassium", Unit: UnitMilligram,
		Synonyms: []Synonym{
			{Name: "potassium", Confidence: 1.0},
			{Name: "potasium", Confidence: 0.7},
		},
		Min: 0, Max: 10000,
		DailyValue: 4700,
	},
	{
		ID: VitaminC, Display: "Vitamin C", Unit: UnitMilligram,
		Synonyms: []Synonym{
			{Name: "vitamin c", Confidence: 1.0},
			{Name: "ascorbic acid", Confidence: 0.85},
			{Name: "vit c", Confidence: 0.7},
			{Name: "vit. c", Confidence: 0.7},
		},
		Min: 0, Max: 1000,
		Advisories: []Advisory{{Flag: "rich_vitamin_c", Above: 30}},
		DailyValue: 90,
	},
	{
		ID: VitaminE, Display: "Vitamin E", Unit: UnitMilligram,
		Synonyms: []Synonym{
			{Name: "vitamin e", Confidence: 1.0},
			{Name: "vit e", Confidence: 0.7},
			{Name: "vit. e", Confidence: 0.7},
		},
		Min: 0, Max: 100,
		DailyValue: 15,
	},
	{
		ID: VitaminD, Display: "Vitamin D", Unit: UnitMicrogram,
		Synonyms: []Synonym{
			{Name: "vitamin d", Confidence: 1.0},
			{Name: "vitamin d3", Confidence: 0.9},
			{Name: "vit d", Confidence: 0.7},
			{Name: "vit. d", Confidence: 0.7},
		},
		Min: 0, Max: 100,
		DailyValue: 20,
	},
}

var byID = func() map[Nutrient]Spec {
	m := make(map[Nutrient]Spec, len(table))
	for _, spec := range table {
		m[spec.ID] = spec
	}
	return m
}()

// All returns the vocabulary in model schema order.
func All() []Spec {
	out := make([]Spec, len(table))
	copy(out, table)
	return out
}

// Lookup resolves a canonical nutrient identifier.
func Lookup(id Nutrient) (Spec, bool) {
	spec, ok := byID[id]
	return spec, ok
}

// Parse resolves a raw identifier string, accepting only canonical IDs.
func Parse(raw string) (Nutrient, bool) {
	id := Nutrient(raw)
	_, ok := byID[id]
	return id, ok
}

// Size is the number of vocabulary nutrients.
func Size() int {
	return len(table)
}

// Ordered returns the nutrient identifiers in model schema order.
func Ordered() []Nutrient {
	out := make([]Nutrient, len(table))
	for i, spec := range table {
		out[i] = spec.ID
	}
	return out
}
