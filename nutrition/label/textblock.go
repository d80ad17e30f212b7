package label

import "strings"

// Line is one recognized text line. Confidence is the recognizer's
// per-line estimate in (0,1]; zero means the upstream did not report one
// and is treated as fully confident.
type Line struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence,omitempty"`
}

// RawTextBlock is the raw output of the upstream recognizer, or typed
// text split into lines. It is never mutated by the pipeline.
type RawTextBlock struct {
	Lines []Line `json:"lines"`
}

// BlockFromText wraps plain text as a fully confident RawTextBlock.
func BlockFromText(text string) RawTextBlock {
	parts := strings.Split(text, "\n")
	lines := make([]Line, 0, len(parts))
	for _, part := range parts {
		lines = append(lines, Line{Text: part, Confidence: 1})
	}
	return RawTextBlock{Lines: lines}
}

// Empty reports whether the block carries no non-blank text.
func (b RawTextBlock) Empty() bool {
	for _, line := range b.Lines {
		if strings.TrimSpace(line.Text) != "" {
			return false
		}
	}
	return true
}
