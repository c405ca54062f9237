package entity

import "time"

// RawBar is one unparsed OHLCV entry exactly as the provider labels it.
type RawBar struct {
	Open   string
	High   string
	Low    string
	Close  string
	Volume string
}

// RawMeta carries the provider's response metadata.
type RawMeta struct {
	LastRefreshed string
	TimeZone      string
	ExtractedAt   time.Time
}

// RawPayload is the extractor's output for one symbol: the provider's
// time-series map keyed by timestamp string, still unvalidated. An empty
// Series is a legitimate "no data currently available" payload, not an error.
type RawPayload struct {
	Symbol   string
	Interval string
	Series   map[string]RawBar
	Meta     RawMeta
}
