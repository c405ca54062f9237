// Package usecase implements the intraday ETL pipeline: extraction ports,
// pure transformation, idempotent loading and per-symbol orchestration.
package usecase

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"stock_etl/internal/feature/intraday/domain/entity"
)

// maxSanePrice rejects pathological provider data; no equity trades near
// this ceiling.
const maxSanePrice = 1_000_000

// timestampLayouts are tried in order against the provider's timestamp
// strings. The provider normally emits "2024-01-15 16:00:00".
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// flexibleLayouts are the last-resort formats for off-spec timestamps.
var flexibleLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006/01/02 15:04:05",
}

// TransformMeta describes one transformation run.
type TransformMeta struct {
	Symbol        string
	Interval      string
	RecordCount   int
	TransformedAt time.Time
}

// TransformedData is the transformer's output: a stock descriptor plus the
// validated price points, ready for loading.
type TransformedData struct {
	Stock  entity.Stock
	Points []entity.PricePoint
	Meta   TransformMeta
}

// Transformer converts a raw provider payload into validated domain records.
// It is pure: no I/O, no shared state beyond the fixed interval set.
type Transformer struct{}

// NewTransformer creates a Transformer.
func NewTransformer() *Transformer {
	return &Transformer{}
}

// Transform validates and maps a raw payload. Individual entries that fail
// to parse or violate the OHLCV invariants are skipped with a warning; the
// call fails only when the time-series container itself is absent. Zero
// valid records is a valid result, meaning nothing to load right now.
func (t *Transformer) Transform(raw *entity.RawPayload) (*TransformedData, error) {
	if raw == nil || raw.Series == nil {
		return nil, errors.New("transform: missing time series container")
	}

	points := make([]entity.PricePoint, 0, len(raw.Series))
	for ts, bar := range raw.Series {
		p, err := t.transformBar(raw.Symbol, raw.Interval, ts, bar)
		if err != nil {
			slog.Warn("skipping invalid price entry", "symbol", raw.Symbol, "timestamp", ts, "error", err)
			continue
		}
		points = append(points, p)
	}

	// Map iteration order is random; keep output deterministic.
	sort.Slice(points, func(i, j int) bool {
		return points[i].Timestamp.Before(points[j].Timestamp)
	})

	slog.Info("transformed intraday data",
		"symbol", raw.Symbol, "raw_entries", len(raw.Series), "valid_points", len(points))

	return &TransformedData{
		// Provider-default company name and exchange; enrichment would need a
		// separate company-info lookup.
		Stock: entity.Stock{
			Symbol:      raw.Symbol,
			CompanyName: fmt.Sprintf("%s Stock", raw.Symbol),
			Exchange:    "NYSE",
			Currency:    "USD",
			IsActive:    true,
		},
		Points: points,
		Meta: TransformMeta{
			Symbol:        raw.Symbol,
			Interval:      raw.Interval,
			RecordCount:   len(points),
			TransformedAt: time.Now().UTC(),
		},
	}, nil
}

func (t *Transformer) transformBar(symbol, interval, ts string, bar entity.RawBar) (entity.PricePoint, error) {
	stamp, err := parseTimestamp(ts)
	if err != nil {
		return entity.PricePoint{}, err
	}

	o, err := strconv.ParseFloat(bar.Open, 64)
	if err != nil {
		return entity.PricePoint{}, fmt.Errorf("parse open %q: %w", bar.Open, err)
	}
	h, err := strconv.ParseFloat(bar.High, 64)
	if err != nil {
		return entity.PricePoint{}, fmt.Errorf("parse high %q: %w", bar.High, err)
	}
	l, err := strconv.ParseFloat(bar.Low, 64)
	if err != nil {
		return entity.PricePoint{}, fmt.Errorf("parse low %q: %w", bar.Low, err)
	}
	c, err := strconv.ParseFloat(bar.Close, 64)
	if err != nil {
		return entity.PricePoint{}, fmt.Errorf("parse close %q: %w", bar.Close, err)
	}
	vol, err := strconv.ParseInt(bar.Volume, 10, 64)
	if err != nil {
		return entity.PricePoint{}, fmt.Errorf("parse volume %q: %w", bar.Volume, err)
	}

	if err := validateOHLCV(o, h, l, c, vol); err != nil {
		return entity.PricePoint{}, err
	}

	return entity.PricePoint{
		Symbol:    symbol,
		Timestamp: stamp,
		Open:      o,
		High:      h,
		Low:       l,
		Close:     c,
		Volume:    vol,
		Interval:  interval,
	}, nil
}

// parseTimestamp tries the known provider layouts in order, then the
// flexible fallbacks, before failing the single entry.
func parseTimestamp(ts string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, ts); err == nil {
			return parsed, nil
		}
	}
	for _, layout := range flexibleLayouts {
		if parsed, err := time.Parse(layout, ts); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp format %q", ts)
}

// validateOHLCV enforces the record-level invariants: positive prices,
// non-negative volume, high/low consistency and the sanity ceiling.
func validateOHLCV(open, high, low, close float64, volume int64) error {
	for _, p := range []float64{open, high, low, close} {
		if p <= 0 {
			return errors.New("non-positive price")
		}
		if p > maxSanePrice {
			return fmt.Errorf("price %f above sanity ceiling", p)
		}
	}
	if volume < 0 {
		return errors.New("negative volume")
	}
	if high < max(open, close) {
		return errors.New("high below max(open, close)")
	}
	if low > min(open, close) {
		return errors.New("low above min(open, close)")
	}
	return nil
}
