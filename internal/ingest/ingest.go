// Package ingest turns transport payloads into raw text blocks for the
// analysis pipeline. It is the only place payload size and character
// sanitation are enforced.
package ingest

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"

	"nutriscan-backend/nutrition/label"
)

// Supported payload formats.
const (
	FormatText = "text"
	FormatTSV  = "tsv"
	FormatPDF  = "pdf"
)

const (
	maxTextBytes = 64 << 10
	maxPDFBytes  = 10 << 20
	maxLineRunes = 512
)

var (
	ErrTooLarge          = errors.New("payload too large")
	ErrUnsupportedFormat = errors.New("unsupported payload format")
	ErrMalformedPayload  = errors.New("malformed payload")
)

// Block converts a payload into a RawTextBlock. An empty format is
// sniffed: a Tesseract TSV header or a PDF magic number wins, anything
// else is treated as plain text.
func Block(data []byte, format string) (label.RawTextBlock, error) {
	switch sniffFormat(format, data) {
	case FormatText:
		if len(data) > maxTextBytes {
			return label.RawTextBlock{}, fmt.Errorf("%w: %d bytes of text, limit %d", ErrTooLarge, len(data), maxTextBytes)
		}
		return textBlock(string(data)), nil
	case FormatTSV:
		if len(data) > maxTextBytes {
			return label.RawTextBlock{}, fmt.Errorf("%w: %d bytes of tsv, limit %d", ErrTooLarge, len(data), maxTextBytes)
		}
		return tsvBlock(string(data)), nil
	case FormatPDF:
		if len(data) > maxPDFBytes {
			return label.RawTextBlock{}, fmt.Errorf("%w: %d bytes of pdf, limit %d", ErrTooLarge, len(data), maxPDFBytes)
		}
		return pdfBlock(data)
	default:
		return label.RawTextBlock{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// DetectFormat resolves a declared format to one of the supported
// constants, sniffing the payload when the declaration is empty. The
// result is what Block would parse the payload as; unknown declarations
// come back unchanged.
func DetectFormat(data []byte, format string) string {
	return sniffFormat(format, data)
}

func sniffFormat(format string, data []byte) string {
	declared := strings.ToLower(strings.TrimSpace(format))
	switch declared {
	case FormatText, "plain":
		return FormatText
	case FormatTSV:
		return FormatTSV
	case FormatPDF:
		return FormatPDF
	case "":
		if bytes.HasPrefix(data, []byte("%PDF")) {
			return FormatPDF
		}
		if bytes.HasPrefix(data, []byte("level\t")) {
			return FormatTSV
		}
		return FormatText
	default:
		return declared
	}
}

func textBlock(text string) label.RawTextBlock {
	var block label.RawTextBlock
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64<<10), maxTextBytes+1)
	for scanner.Scan() {
		line := sanitizeLine(scanner.Text())
		if line == "" {
			continue
		}
		block.Lines = append(block.Lines, label.Line{Text: line, Confidence: 1})
	}
	return block
}

// tsvBlock reassembles a Tesseract TSV dump: one output line per
// (page, block, paragraph, line) group of word rows, with the line
// confidence averaged over its words on a 0..1 scale.
func tsvBlock(text string) label.RawTextBlock {
	var block label.RawTextBlock

	type lineKey struct {
		page, blockNum, par, line string
	}
	var (
		current lineKey
		words   []string
		confSum float64
		confN   int
	)
	flush := func() {
		if len(words) == 0 {
			return
		}
		line := label.Line{Text: sanitizeLine(strings.Join(words, " "))}
		if confN > 0 {
			line.Confidence = clampUnit(confSum / float64(confN) / 100)
		}
		if line.Text != "" {
			block.Lines = append(block.Lines, line)
		}
		words = words[:0]
		confSum, confN = 0, 0
	}

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64<<10), maxTextBytes+1)
	for scanner.Scan() {
		cols := strings.Split(scanner.Text(), "\t")
		if len(cols) < 12 || cols[0] != "5" {
			continue
		}
		key := lineKey{cols[1], cols[2], cols[3], cols[4]}
		if key != current {
			flush()
			current = key
		}
		word := strings.TrimSpace(cols[11])
		if word == "" {
			continue
		}
		words = append(words, word)
		if conf, err := strconv.ParseFloat(cols[10], 64); err == nil && conf >= 0 {
			confSum += conf
			confN++
		}
	}
	flush()
	return block
}

func pdfBlock(data []byte) (label.RawTextBlock, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return label.RawTextBlock{}, fmt.Errorf("%w: read pdf: %v", ErrMalformedPayload, err)
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return label.RawTextBlock{}, fmt.Errorf("%w: extract pdf text: %v", ErrMalformedPayload, err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return label.RawTextBlock{}, fmt.Errorf("%w: extract pdf text: %v", ErrMalformedPayload, err)
	}
	return textBlock(buf.String()), nil
}

// sanitizeLine drops control characters and bounds line length so a
// hostile payload cannot push oversized tokens into the regex stage.
func sanitizeLine(line string) string {
	var b strings.Builder
	b.Grow(len(line))
	runes := 0
	for _, r := range line {
		if runes >= maxLineRunes {
			break
		}
		if unicode.IsControl(r) || r == unicode.ReplacementChar {
			continue
		}
		b.WriteRune(r)
		runes++
	}
	return strings.TrimSpace(b.String())
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
