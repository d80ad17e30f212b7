package label

import (
	"errors"
	"testing"
)

func TestNormalizeLowercasesAndCollapsesWhitespace(t *testing.T) {
	block := RawTextBlock{Lines: []Line{
		{Text: "  Total   Fat \t 10 Grams  "},
	}}
	lines, err := Normalize(block)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].Text != "total fat 10 g" {
		t.Fatalf("unexpected line %q", lines[0].Text)
	}
	if lines[0].Confidence != 1 {
		t.Fatalf("expected default confidence 1, got %v", lines[0].Confidence)
	}
}

func TestNormalizeCorrectsConfusablesOnlyNextToDigits(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"O after digits", "Energy 25O kcal", "energy 250 kcal"},
		{"l before digits", "Iron l2 mg", "iron 12 mg"},
		{"I between digits", "Calcium 1I0 mg", "calcium 110 mg"},
		{"names untouched", "Sodium 300 mg", "sodium 300 mg"},
		{"o inside words untouched", "Potassium 200", "potassium 200"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lines, err := Normalize(RawTextBlock{Lines: []Line{{Text: tc.in}}})
			if err != nil {
				t.Fatalf("Normalize: %v", err)
			}
			if lines[0].Text != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, lines[0].Text)
			}
		})
	}
}

func TestNormalizeCanonicalizesUnitWords(t *testing.T) {
	lines, err := Normalize(RawTextBlock{Lines: []Line{
		{Text: "Protein 8 grams"},
		{Text: "Sodium 300 milligrams"},
		{Text: "Vitamin D 10 micrograms"},
	}})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	want := []string{"protein 8 g", "sodium 300 mg", "vitamin d 10 mcg"}
	for i, w := range want {
		if lines[i].Text != w {
			t.Fatalf("line %d: expected %q, got %q", i, w, lines[i].Text)
		}
	}
}

func TestNormalizeEmptyBlock(t *testing.T) {
	for _, block := range []RawTextBlock{
		{},
		{Lines: []Line{{Text: "   "}, {Text: "\t"}}},
	} {
		lines, err := Normalize(block)
		if !errors.Is(err, ErrNoText) {
			t.Fatalf("expected ErrNoText, got %v", err)
		}
		if len(lines) != 0 {
			t.Fatalf("expected no lines, got %v", lines)
		}
	}
}

func TestNormalizeStripsBulletPrefixes(t *testing.T) {
	lines, err := Normalize(RawTextBlock{Lines: []Line{{Text: "• Sugar 5g"}}})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if lines[0].Text != "sugar 5g" {
		t.Fatalf("expected bullet stripped, got %q", lines[0].Text)
	}
}

func TestBlockFromText(t *testing.T) {
	block := BlockFromText("Calories 250\nProtein 8g")
	if len(block.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(block.Lines))
	}
	if block.Empty() {
		t.Fatalf("expected non-empty block")
	}
	if !(RawTextBlock{}).Empty() {
		t.Fatalf("expected zero block to be empty")
	}
}
