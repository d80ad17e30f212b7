package scans

import (
	"time"

	"nutriscan-backend/nutrition/analyzer"
)

// Payload sources.
const (
	SourceText    = "text"
	SourceTSV     = "tsv"
	SourcePDF     = "pdf"
	SourceManual  = "manual"
	SourceBarcode = "barcode"
)

// Scan statuses. The pipeline runs synchronously, so a scan is recorded
// in a terminal state.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Scan is one recorded analysis run.
type Scan struct {
	ID            string
	ProductName   string
	Source        string
	Status        string
	Analysis      *analyzer.Analysis
	FailureReason string
	RawKey        string
	CreatedAt     time.Time
}
