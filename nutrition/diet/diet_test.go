package diet

import (
	"reflect"
	"testing"
)

func TestClassifyCategories(t *testing.T) {
	cases := []struct {
		name        string
		ingredients string
		want        Category
	}{
		{"flesh", "chicken, salt, spices", NonVegetarian},
		{"fish", "water, tuna, oil", NonVegetarian},
		{"egg counts as flesh", "wheat flour, egg, sugar", NonVegetarian},
		{"gelatin", "sugar, gelatin, flavouring", NonVegetarian},
		{"dairy", "milk, sugar, wheat flour", Vegetarian},
		{"honey", "oats, honey", Vegetarian},
		{"plant only", "water, rice, lentils, salt", Vegan},
		{"empty", "", Unknown},
		{"whitespace only", "   ", Unknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(tc.ingredients)
			if got.Category != tc.want {
				t.Fatalf("expected %s, got %s (%s)", tc.want, got.Category, got.Reason)
			}
		})
	}
}

func TestClassifyFleshShortCircuitsByproducts(t *testing.T) {
	got := Classify("chicken, milk, butter")
	if got.Category != NonVegetarian {
		t.Fatalf("expected non_vegetarian, got %s", got.Category)
	}
	if !reflect.DeepEqual(got.Matched, []string{"chicken"}) {
		t.Fatalf("expected matched [chicken], got %v", got.Matched)
	}
}

func TestClassifyConfidences(t *testing.T) {
	cases := []struct {
		ingredients string
		want        float64
	}{
		{"beef", 0.95},
		{"cheese", 0.85},
		{"rice", 0.80},
		{"", 0},
	}
	for _, tc := range cases {
		got := Classify(tc.ingredients)
		if got.Confidence != tc.want {
			t.Fatalf("%q: expected confidence %v, got %v", tc.ingredients, tc.want, got.Confidence)
		}
	}
}

func TestClassifyWordBoundaries(t *testing.T) {
	cases := []struct {
		name        string
		ingredients string
		want        Category
	}{
		{"eggplant is not egg", "eggplant, olive oil, salt", Vegan},
		{"buttermilk is neither butter nor milk", "buttermilk powder", Vegan},
		{"coconut milk matches milk", "coconut milk, sugar", Vegetarian},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(tc.ingredients)
			if got.Category != tc.want {
				t.Fatalf("expected %s, got %s (matched %v)", tc.want, got.Category, got.Matched)
			}
		})
	}
}

func TestClassifyIsCaseInsensitive(t *testing.T) {
	got := Classify("Chicken Breast, SALT")
	if got.Category != NonVegetarian {
		t.Fatalf("expected non_vegetarian, got %s", got.Category)
	}
}

func TestClassifyDeduplicatesMatches(t *testing.T) {
	got := Classify("milk, milk solids, milk")
	want := []string{"milk", "milk solids"}
	if !reflect.DeepEqual(got.Matched, want) {
		t.Fatalf("expected %v, got %v", want, got.Matched)
	}
}
