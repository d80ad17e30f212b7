package products

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"nutriscan-backend/internal/scans"
	"nutriscan-backend/nutrition/analyzer"
	"nutriscan-backend/nutrition/vocab"
)

// ErrInvalidBarcode marks barcodes rejected before any upstream call.
var ErrInvalidBarcode = errors.New("invalid barcode")

// Product is the product info surfaced alongside the analysis.
type Product struct {
	Barcode         string             `json:"barcode"`
	Name            string             `json:"name,omitempty"`
	Brands          string             `json:"brands,omitempty"`
	IngredientsText string             `json:"ingredientsText,omitempty"`
	Nutrients       map[string]float64 `json:"nutrients"`
}

// nutrimentKeys maps the API's per-100g nutriment keys onto the
// nutrient vocabulary. Scale converts the API unit (grams for
// everything except energy) into each nutrient's canonical unit.
var nutrimentKeys = []struct {
	key   string
	id    vocab.Nutrient
	scale float64
}{
	{"energy-kcal_100g", vocab.Calories, 1},
	{"proteins_100g", vocab.Protein, 1},
	{"fat_100g", vocab.TotalFat, 1},
	{"carbohydrates_100g", vocab.Carbohydrate, 1},
	{"sodium_100g", vocab.Sodium, 1000},
	{"saturated-fat_100g", vocab.SaturatedFat, 1},
	{"sugars_100g", vocab.Sugar, 1},
	{"calcium_100g", vocab.Calcium, 1000},
	{"iron_100g", vocab.Iron, 1000},
	{"potassium_100g", vocab.Potassium, 1000},
	{"vitamin-c_100g", vocab.VitaminC, 1000},
	{"vitamin-e_100g", vocab.VitaminE, 1000},
	{"vitamin-d_100g", vocab.VitaminD, 1e6},
}

// Service resolves barcodes and records each lookup as a barcode scan.
// Cache is optional.
type Service struct {
	Client *Client
	Scans  *scans.Service
	Cache  Cache
}

// Result pairs the resolved product with its recorded scan.
type Result struct {
	Product Product            `json:"product"`
	Scan    scans.ScanResponse `json:"scan"`
}

// Lookup validates the barcode, resolves the product, runs the manual
// pipeline on its per-100g nutriments, and records the scan.
func (s *Service) Lookup(ctx context.Context, barcode string) (Result, error) {
	barcode = strings.TrimSpace(barcode)
	if err := validateBarcode(barcode); err != nil {
		return Result{}, err
	}

	product, ok := s.cachedProduct(ctx, barcode)
	if !ok {
		fetched, err := s.Client.Fetch(ctx, barcode)
		if err != nil {
			return Result{}, err
		}
		product = mapProduct(barcode, fetched)
		s.storeProduct(ctx, barcode, product)
	}

	entry := analyzer.ManualEntry{
		ProductName:     product.Name,
		IngredientsText: product.IngredientsText,
		Nutrients:       product.Nutrients,
	}
	scan, err := s.Scans.ScanEntry(ctx, entry, scans.SourceBarcode)
	if err != nil {
		return Result{}, err
	}
	return Result{Product: product, Scan: scans.ToResponse(scan)}, nil
}

func (s *Service) cachedProduct(ctx context.Context, barcode string) (Product, bool) {
	if s.Cache == nil {
		return Product{}, false
	}
	return s.Cache.GetProduct(ctx, barcode)
}

func (s *Service) storeProduct(ctx context.Context, barcode string, product Product) {
	if s.Cache == nil {
		return
	}
	s.Cache.SetProduct(ctx, barcode, product)
}

func validateBarcode(barcode string) error {
	if len(barcode) < 8 || len(barcode) > 14 {
		return fmt.Errorf("%w: expected 8 to 14 digits", ErrInvalidBarcode)
	}
	for _, r := range barcode {
		if r < '0' || r > '9' {
			return fmt.Errorf("%w: digits only", ErrInvalidBarcode)
		}
	}
	return nil
}

// mapProduct converts API nutriments into canonical units. Missing and
// implausible values are omitted rather than rejected; the scoring
// sentinels cover the gaps.
func mapProduct(barcode string, p offProduct) Product {
	nutrients := make(map[string]float64)
	for _, m := range nutrimentKeys {
		value, ok := floatField(p.Nutriments, m.key)
		if !ok || math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
			continue
		}
		nutrients[string(m.id)] = value * m.scale
	}
	return Product{
		Barcode:         barcode,
		Name:            strings.TrimSpace(p.ProductName),
		Brands:          strings.TrimSpace(p.Brands),
		IngredientsText: strings.TrimSpace(p.IngredientsText),
		Nutrients:       nutrients,
	}
}
