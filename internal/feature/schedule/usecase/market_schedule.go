// Package usecase implements the market calendar and the named-job schedule
// engine that decides when the pipeline runs.
package usecase

import "time"

// MarketSchedule is the trading calendar: trading weekdays plus three hour
// windows. Hours are compared as plain 0-23 integers against the instant's
// hour; no timezone conversion happens here, matching the provider's own
// UTC-based timestamps.
type MarketSchedule struct {
	OpenHour       int
	CloseHour      int
	PreMarketHour  int
	AfterHoursHour int
	TradingDays    map[time.Weekday]bool
}

// NewMarketSchedule returns the US equity defaults: regular session 9-16,
// pre-market from 4, after-hours until 20, Monday through Friday.
func NewMarketSchedule() MarketSchedule {
	return MarketSchedule{
		OpenHour:       9,
		CloseHour:      16,
		PreMarketHour:  4,
		AfterHoursHour: 20,
		TradingDays: map[time.Weekday]bool{
			time.Monday:    true,
			time.Tuesday:   true,
			time.Wednesday: true,
			time.Thursday:  true,
			time.Friday:    true,
		},
	}
}

// IsTradingDay reports whether the instant falls on a trading weekday.
func (s MarketSchedule) IsTradingDay(t time.Time) bool {
	return s.TradingDays[t.Weekday()]
}

// IsMarketOpen reports whether the instant falls inside the regular session.
// Lower bound inclusive, upper bound exclusive.
func (s MarketSchedule) IsMarketOpen(t time.Time) bool {
	return s.IsTradingDay(t) && t.Hour() >= s.OpenHour && t.Hour() < s.CloseHour
}

// IsPreMarket reports whether the instant falls inside the pre-market window.
func (s MarketSchedule) IsPreMarket(t time.Time) bool {
	return s.IsTradingDay(t) && t.Hour() >= s.PreMarketHour && t.Hour() < s.OpenHour
}

// IsAfterHours reports whether the instant falls inside the after-hours
// window.
func (s MarketSchedule) IsAfterHours(t time.Time) bool {
	return s.IsTradingDay(t) && t.Hour() >= s.CloseHour && t.Hour() < s.AfterHoursHour
}

// NextMarketOpen returns the next instant the regular session opens: today's
// open when it is still ahead on a trading day, otherwise the open of the
// next trading day. The scan is bounded by the seven-day week.
func (s MarketSchedule) NextMarketOpen(t time.Time) time.Time {
	return s.nextAtHour(t, s.OpenHour)
}

// NextMarketClose returns the next instant the regular session closes.
func (s MarketSchedule) NextMarketClose(t time.Time) time.Time {
	return s.nextAtHour(t, s.CloseHour)
}

func (s MarketSchedule) nextAtHour(t time.Time, hour int) time.Time {
	if s.IsTradingDay(t) && t.Hour() < hour {
		return atHour(t, hour)
	}
	for i := 1; i <= 7; i++ {
		day := t.AddDate(0, 0, i)
		if s.IsTradingDay(day) {
			return atHour(day, hour)
		}
	}
	// Unreachable while at least one weekday is a trading day.
	return atHour(t, hour)
}

func atHour(t time.Time, hour int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), hour, 0, 0, 0, t.Location())
}
