package scans

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"nutriscan-backend/internal/ingest"
	"nutriscan-backend/internal/shared/metrics"
	"nutriscan-backend/internal/shared/storage/object"
	"nutriscan-backend/internal/shared/telemetry"
	"nutriscan-backend/internal/shared/util"
	"nutriscan-backend/nutrition/analyzer"
	"nutriscan-backend/nutrition/label"
)

const (
	maxProductNameRunes = 200
	maxFailureReasonLen = 500
)

// Service contains scan business logic: ingestion, the analysis
// pipeline, history persistence, caching, and raw payload archival.
// Cache and Archive are optional.
type Service struct {
	Repo     Repo
	Analyzer *analyzer.Analyzer
	Cache    Cache
	Archive  object.ObjectStore
}

// Scan ingests a payload in the given format, runs the pipeline, and
// records the result. Ingestion errors are the caller's problem and
// leave no history row; pipeline errors after a valid payload are
// recorded as failed scans.
func (s *Service) Scan(ctx context.Context, productName, format string, payload []byte) (Scan, error) {
	metrics.IncScanStarted()
	start := metrics.NowMillis()

	resolved := ingest.DetectFormat(payload, format)
	block, err := ingest.Block(payload, resolved)
	if err != nil {
		metrics.IncScanFailed()
		return Scan{}, err
	}

	scan := s.newScan(productName, resolved)
	key := util.HashContent(append([]byte(resolved+"\x00"+scan.ProductName+"\x00"), payload...))

	analysis, ok := s.cachedAnalysis(ctx, key)
	if !ok {
		computed, err := s.Analyzer.Analyze(block)
		if err != nil {
			return s.fail(ctx, scan, start, err)
		}
		computed.ProductName = scan.ProductName
		analysis = &computed
		s.storeAnalysis(ctx, key, analysis)
	}
	scan.Analysis = analysis

	return s.complete(ctx, scan, start, payload, rawFileName(resolved))
}

// ScanLines runs the pipeline over client-tokenized OCR lines.
func (s *Service) ScanLines(ctx context.Context, productName string, lines []label.Line) (Scan, error) {
	metrics.IncScanStarted()
	start := metrics.NowMillis()

	raw, err := json.Marshal(lines)
	if err != nil {
		metrics.IncScanFailed()
		return Scan{}, fmt.Errorf("marshal lines: %w", err)
	}

	scan := s.newScan(productName, SourceText)
	key := util.HashContent(append([]byte("lines\x00"+scan.ProductName+"\x00"), raw...))

	analysis, ok := s.cachedAnalysis(ctx, key)
	if !ok {
		computed, err := s.Analyzer.Analyze(label.RawTextBlock{Lines: lines})
		if err != nil {
			return s.fail(ctx, scan, start, err)
		}
		computed.ProductName = scan.ProductName
		analysis = &computed
		s.storeAnalysis(ctx, key, analysis)
	}
	scan.Analysis = analysis

	return s.complete(ctx, scan, start, raw, "lines.json")
}

// ScanManual analyzes user-typed nutrient values.
func (s *Service) ScanManual(ctx context.Context, entry analyzer.ManualEntry) (Scan, error) {
	return s.ScanEntry(ctx, entry, SourceManual)
}

// ScanEntry analyzes a manual entry recorded under the given source.
// Barcode lookups use this to land resolved products in history.
func (s *Service) ScanEntry(ctx context.Context, entry analyzer.ManualEntry, source string) (Scan, error) {
	metrics.IncScanStarted()
	start := metrics.NowMillis()

	raw, err := json.Marshal(entry)
	if err != nil {
		metrics.IncScanFailed()
		return Scan{}, fmt.Errorf("marshal entry: %w", err)
	}

	scan := s.newScan(entry.ProductName, source)
	key := util.HashContent(append([]byte(source+"\x00"), raw...))

	analysis, ok := s.cachedAnalysis(ctx, key)
	if !ok {
		computed, err := s.Analyzer.AnalyzeManual(entry)
		if err != nil {
			if errors.Is(err, analyzer.ErrInvalidManualInput) {
				metrics.IncScanFailed()
				return Scan{}, err
			}
			return s.fail(ctx, scan, start, err)
		}
		computed.ProductName = scan.ProductName
		analysis = &computed
		s.storeAnalysis(ctx, key, analysis)
	}
	scan.Analysis = analysis

	return s.complete(ctx, scan, start, raw, "entry.json")
}

// Get returns one scan by ID.
func (s *Service) Get(ctx context.Context, id string) (Scan, error) {
	if strings.TrimSpace(id) == "" {
		return Scan{}, fmt.Errorf("%w: scan id required", ErrInvalidInput)
	}
	return s.Repo.GetByID(ctx, id)
}

// List returns recent scans, newest first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Scan, error) {
	return s.Repo.List(ctx, limit, offset)
}

// Delete removes a scan from history.
func (s *Service) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: scan id required", ErrInvalidInput)
	}
	return s.Repo.Delete(ctx, id)
}

// Compare loads two completed scans and reports which scores better.
func (s *Service) Compare(ctx context.Context, firstID, secondID string) (analyzer.Comparison, error) {
	first, err := s.Get(ctx, firstID)
	if err != nil {
		return analyzer.Comparison{}, err
	}
	second, err := s.Get(ctx, secondID)
	if err != nil {
		return analyzer.Comparison{}, err
	}
	if first.Analysis == nil || second.Analysis == nil {
		return analyzer.Comparison{}, fmt.Errorf("%w: both scans must have completed analyses", ErrInvalidInput)
	}
	return analyzer.Compare(*first.Analysis, *second.Analysis), nil
}

// OpenRaw streams the archived payload of a scan.
func (s *Service) OpenRaw(ctx context.Context, id string) (io.ReadCloser, Scan, error) {
	scan, err := s.Get(ctx, id)
	if err != nil {
		return nil, Scan{}, err
	}
	if s.Archive == nil || scan.RawKey == "" {
		return nil, Scan{}, ErrNoRawPayload
	}
	rc, err := s.Archive.Open(ctx, scan.RawKey)
	if err != nil {
		return nil, Scan{}, err
	}
	return rc, scan, nil
}

func (s *Service) newScan(productName, source string) Scan {
	return Scan{
		ID:          uuid.NewString(),
		ProductName: truncateRunes(strings.TrimSpace(productName), maxProductNameRunes),
		Source:      source,
		Status:      StatusCompleted,
		CreatedAt:   time.Now().UTC(),
	}
}

func (s *Service) cachedAnalysis(ctx context.Context, key string) (*analyzer.Analysis, bool) {
	if s.Cache == nil {
		return nil, false
	}
	if analysis, ok := s.Cache.GetAnalysis(ctx, key); ok {
		metrics.IncCacheHit()
		return analysis, true
	}
	metrics.IncCacheMiss()
	return nil, false
}

func (s *Service) storeAnalysis(ctx context.Context, key string, analysis *analyzer.Analysis) {
	if s.Cache == nil {
		return
	}
	s.Cache.SetAnalysis(ctx, key, analysis)
}

// archive is best-effort: a storage failure is logged and the scan
// completes without a raw key.
func (s *Service) archive(ctx context.Context, scan *Scan, payload []byte, name string) {
	if s.Archive == nil || len(payload) == 0 {
		return
	}
	key, _, _, err := s.Archive.Save(ctx, scan.ID, name, bytes.NewReader(payload))
	if err != nil {
		telemetry.Warn("raw payload not archived", map[string]any{"scan_id": scan.ID, "error": err.Error()})
		return
	}
	scan.RawKey = key
}

func (s *Service) complete(ctx context.Context, scan Scan, start float64, payload []byte, rawName string) (Scan, error) {
	s.archive(ctx, &scan, payload, rawName)
	if err := s.Repo.Create(ctx, scan); err != nil {
		metrics.IncScanFailed()
		return Scan{}, err
	}
	metrics.IncScanCompleted()
	metrics.ObserveScanDurationMs(metrics.NowMillis() - start)
	return scan, nil
}

func (s *Service) fail(ctx context.Context, scan Scan, start float64, cause error) (Scan, error) {
	metrics.IncScanFailed()
	scan.Status = StatusFailed
	scan.Analysis = nil
	scan.FailureReason = truncateRunes(cause.Error(), maxFailureReasonLen)
	if err := s.Repo.Create(ctx, scan); err != nil {
		telemetry.Error("scan failure not recorded", map[string]any{"scan_id": scan.ID, "error": err.Error()})
	}
	metrics.ObserveScanDurationMs(metrics.NowMillis() - start)
	return Scan{}, cause
}

func rawFileName(format string) string {
	switch format {
	case ingest.FormatPDF:
		return "label.pdf"
	case ingest.FormatTSV:
		return "label.tsv"
	default:
		return "label.txt"
	}
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
