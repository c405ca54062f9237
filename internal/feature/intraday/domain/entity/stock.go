// Package entity defines the domain models for the intraday feature.
package entity

import "time"

// Stock identifies a listed instrument. The pipeline inserts it once on the
// first successful extraction of a symbol and never touches it again; later
// changes go through the CRUD facade only.
type Stock struct {
	Symbol      string // Ticker symbol, uppercase (e.g. "AAPL")
	CompanyName string
	Exchange    string
	Currency    string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
