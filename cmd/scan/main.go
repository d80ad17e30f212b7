package main

// Analyze a nutrition label from the command line:
//   go run ./cmd/scan -file label.txt
//   cat label.txt | go run ./cmd/scan

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"nutriscan-backend/internal/ingest"
	"nutriscan-backend/nutrition/analyzer"
	"nutriscan-backend/nutrition/healthmodel"
)

func main() {
	filePath := flag.String("file", "", "Path to a label file (text, tsv, or pdf); reads stdin when empty")
	format := flag.String("format", "", "Payload format override (text, tsv, pdf); sniffed when empty")
	modelPath := flag.String("model", "", "Path to a model artifact; uses the embedded artifact when empty")
	productName := flag.String("name", "", "Product name attached to the analysis")
	flag.Parse()

	payload, err := readPayload(*filePath)
	if err != nil {
		exitErr(err.Error())
	}

	declared := strings.TrimSpace(*format)
	if declared == "" && *filePath != "" {
		declared = formatFromExt(*filePath)
	}
	resolved := ingest.DetectFormat(payload, declared)

	block, err := ingest.Block(payload, resolved)
	if err != nil {
		exitErr(fmt.Sprintf("read label: %v", err))
	}

	loader := healthmodel.LoadEmbedded
	if strings.TrimSpace(*modelPath) != "" {
		path := *modelPath
		loader = func() (*healthmodel.Model, error) { return healthmodel.Load(path) }
	}

	analysis, err := analyzer.New(healthmodel.NewHandle(loader)).Analyze(block)
	if err != nil {
		exitErr(fmt.Sprintf("analyze: %v", err))
	}
	analysis.ProductName = strings.TrimSpace(*productName)

	out, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		exitErr(fmt.Sprintf("encode analysis: %v", err))
	}
	fmt.Println(string(out))
}

func readPayload(path string) ([]byte, error) {
	if strings.TrimSpace(path) == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func formatFromExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return ingest.FormatPDF
	case ".tsv":
		return ingest.FormatTSV
	case ".txt":
		return ingest.FormatText
	default:
		return ""
	}
}

func exitErr(msg string) {
	fmt.Fprintf(os.Stderr, "%s\n", msg)
	os.Exit(1)
}
