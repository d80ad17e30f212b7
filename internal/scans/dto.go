package scans

import (
	"time"

	"nutriscan-backend/nutrition/analyzer"
)

// ScanResponse is the outward-facing representation of a scan.
type ScanResponse struct {
	ScanID        string             `json:"scanId"`
	ProductName   string             `json:"productName,omitempty"`
	Source        string             `json:"source"`
	Status        string             `json:"status"`
	Analysis      *analyzer.Analysis `json:"analysis,omitempty"`
	FailureReason string             `json:"failureReason,omitempty"`
	HasRawPayload bool               `json:"hasRawPayload"`
	CreatedAt     time.Time          `json:"createdAt"`
}

// ScanSummary is the compact list shape; the full analysis document is
// only returned on single-scan reads.
type ScanSummary struct {
	ScanID      string    `json:"scanId"`
	ProductName string    `json:"productName,omitempty"`
	Source      string    `json:"source"`
	Status      string    `json:"status"`
	Score       *int      `json:"score,omitempty"`
	Tier        string    `json:"tier,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ToResponse maps a scan onto its response shape. Exported because the
// products handler embeds scan output in lookup responses.
func ToResponse(scan Scan) ScanResponse {
	return ScanResponse{
		ScanID:        scan.ID,
		ProductName:   scan.ProductName,
		Source:        scan.Source,
		Status:        scan.Status,
		Analysis:      scan.Analysis,
		FailureReason: scan.FailureReason,
		HasRawPayload: scan.RawKey != "",
		CreatedAt:     scan.CreatedAt,
	}
}

func toSummary(scan Scan) ScanSummary {
	out := ScanSummary{
		ScanID:      scan.ID,
		ProductName: scan.ProductName,
		Source:      scan.Source,
		Status:      scan.Status,
		CreatedAt:   scan.CreatedAt,
	}
	if scan.Analysis != nil {
		score := scan.Analysis.Score.Score
		out.Score = &score
		out.Tier = string(scan.Analysis.Score.Tier)
	}
	return out
}
