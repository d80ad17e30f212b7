package label

import (
	"errors"
	"strings"
)

// ErrNoText signals an empty input block. It is not a failure of the
// pipeline: callers degrade to a zero-completeness record.
var ErrNoText = errors.New("no text found")

// unitWords canonicalizes spelled-out or variant unit tokens.
var unitWords = map[string]string{
	"gram":         "g",
	"grams":        "g",
	"gm":           "g",
	"gms":          "g",
	"milligram":    "mg",
	"milligrams":   "mg",
	"mgs":          "mg",
	"microgram":    "mcg",
	"micrograms":   "mcg",
	"ug":           "mcg",
	"µg":           "mcg",
	"kilocalorie":  "kcal",
	"kilocalories": "kcal",
	"cal":          "kcal",
	"cals":         "kcal",
	"kilojoule":    "kj",
	"kilojoules":   "kj",
}

// confusables are recognizer substitutions corrected only next to digits,
// so nutrient names themselves are never rewritten.
var confusables = map[rune]rune{
	'O': '0',
	'o': '0',
	'l': '1',
	'I': '1',
}

const lineCutset = "•*·◦>|- \t"

// Normalize cleans a raw block into lowercase, single-spaced lines with
// canonical unit tokens and digit confusables corrected. It performs no
// numeric interpretation. Returns ErrNoText when nothing usable remains;
// the returned slice is still valid (empty) in that case.
func Normalize(block RawTextBlock) ([]Line, error) {
	out := make([]Line, 0, len(block.Lines))
	for _, line := range block.Lines {
		text := normalizeLine(line.Text)
		if text == "" {
			continue
		}
		conf := line.Confidence
		if conf <= 0 || conf > 1 {
			conf = 1
		}
		out = append(out, Line{Text: text, Confidence: conf})
	}
	if len(out) == 0 {
		return out, ErrNoText
	}
	return out, nil
}

func normalizeLine(raw string) string {
	text := fixConfusables(raw)
	text = strings.ToLower(text)
	text = strings.TrimLeft(text, lineCutset)

	fields := strings.Fields(text)
	for i, field := range fields {
		if canonical, ok := unitWords[field]; ok {
			fields[i] = canonical
		}
	}
	return strings.Join(fields, " ")
}

// fixConfusables rewrites recognizer confusions (O for 0, l for 1) when
// the character touches a digit on either side.
func fixConfusables(text string) string {
	runes := []rune(text)
	out := make([]rune, len(runes))
	copy(out, runes)
	for i, r := range runes {
		repl, ok := confusables[r]
		if !ok {
			continue
		}
		prevDigit := i > 0 && isDigit(runes[i-1])
		nextDigit := i+1 < len(runes) && isDigit(runes[i+1])
		if prevDigit || nextDigit {
			out[i] = repl
		}
	}
	return string(out)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
