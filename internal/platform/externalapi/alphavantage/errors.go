package alphavantage

import (
	"errors"
	"fmt"
)

// FetchErrorKind classifies an extraction failure so the orchestrator can
// log "can't reach provider" distinctly from "provider rejected request".
type FetchErrorKind string

const (
	// KindTransport covers timeouts, connection failures and malformed
	// response bodies.
	KindTransport FetchErrorKind = "transport"
	// KindProvider covers in-band error signals, e.g. an unknown symbol.
	KindProvider FetchErrorKind = "provider"
	// KindRateLimited means the provider reports its own quota was hit,
	// distinct from the client-side rate limiter.
	KindRateLimited FetchErrorKind = "rate_limited"
)

// FetchError is the typed failure returned by Client.FetchIntraday.
type FetchError struct {
	Kind    FetchErrorKind
	Symbol  string
	Message string
	Err     error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("alphavantage: %s error for %s: %v", e.Kind, e.Symbol, e.Err)
	}
	return fmt.Sprintf("alphavantage: %s error for %s: %s", e.Kind, e.Symbol, e.Message)
}

func (e *FetchError) Unwrap() error { return e.Err }

// kindIs reports whether err is a FetchError of the given kind.
func kindIs(err error, kind FetchErrorKind) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == kind
}

// IsTransport reports whether err is a transport-level extraction failure.
func IsTransport(err error) bool { return kindIs(err, KindTransport) }

// IsProvider reports whether err is an in-band provider rejection.
func IsProvider(err error) bool { return kindIs(err, KindProvider) }

// IsRateLimited reports whether err is the provider's own quota signal.
// Callers must not retry immediately when this is true.
func IsRateLimited(err error) bool { return kindIs(err, KindRateLimited) }
