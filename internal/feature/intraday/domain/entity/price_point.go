package entity

import "time"

// Supported intraday intervals, as the provider names them.
const (
	Interval1Min  = "1min"
	Interval5Min  = "5min"
	Interval15Min = "15min"
	Interval30Min = "30min"
	Interval60Min = "60min"
)

// SupportedIntervals lists every interval the pipeline accepts, in order.
var SupportedIntervals = []string{
	Interval1Min, Interval5Min, Interval15Min, Interval30Min, Interval60Min,
}

// IsSupportedInterval reports whether interval is one of the fixed set.
func IsSupportedInterval(interval string) bool {
	for _, v := range SupportedIntervals {
		if v == interval {
			return true
		}
	}
	return false
}

// PricePoint is one OHLCV bar for a symbol. Its natural key is
// (Symbol, Timestamp, Interval); the loader upserts on that key so
// re-fetching the same window is idempotent.
type PricePoint struct {
	Symbol    string
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    int64
	Interval  string
}
