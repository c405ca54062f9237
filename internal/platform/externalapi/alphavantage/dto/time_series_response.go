// Package dto defines data transfer objects for Alpha Vantage API responses.
package dto

import (
	"encoding/json"
	"strings"
)

// MetaData is the "Meta Data" block of a time-series response. Alpha Vantage
// prefixes every field name with an ordinal.
type MetaData struct {
	Information   string `json:"1. Information"`
	Symbol        string `json:"2. Symbol"`
	LastRefreshed string `json:"3. Last Refreshed"`
	Interval      string `json:"4. Interval"`
	TimeZone      string `json:"6. Time Zone"`
}

// Bar is one OHLCV entry of the time-series map.
type Bar struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

// TimeSeriesResponse represents the JSON response from the
// TIME_SERIES_INTRADAY endpoint. The time-series map lives under a key that
// embeds the interval ("Time Series (5min)"), so it is extracted by prefix
// during unmarshalling. A nil Series means the container was absent from the
// response; an empty map means it was present with zero entries.
type TimeSeriesResponse struct {
	MetaData     MetaData       `json:"Meta Data"`
	ErrorMessage string         `json:"Error Message"`
	Note         string         `json:"Note"`
	Series       map[string]Bar `json:"-"`
}

func (r *TimeSeriesResponse) UnmarshalJSON(b []byte) error {
	type plain TimeSeriesResponse
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	for key, val := range raw {
		if !strings.HasPrefix(key, "Time Series") {
			continue
		}
		var series map[string]Bar
		if err := json.Unmarshal(val, &series); err != nil {
			return err
		}
		p.Series = series
		break
	}

	*r = TimeSeriesResponse(p)
	return nil
}
