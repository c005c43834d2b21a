// Package calendar implements trading-day arithmetic. Weekends are always
// skipped; an optional holiday set extends the rule to exchange closures.
package calendar

import "time"

const dateKeyLayout = "2006-01-02"

// Calendar is a weekend-aware trading calendar with optional holidays.
// The zero value is usable and skips weekends only.
type Calendar struct {
	holidays map[string]struct{}
}

// New creates a calendar. With no holidays supplied the weekends-only rule
// applies.
func New(holidays ...time.Time) *Calendar {
	c := &Calendar{}
	if len(holidays) > 0 {
		c.holidays = make(map[string]struct{}, len(holidays))
		for _, h := range holidays {
			c.holidays[h.Format(dateKeyLayout)] = struct{}{}
		}
	}
	return c
}

// IsTradingDay reports whether the market is open on the given date.
func (c *Calendar) IsTradingDay(date time.Time) bool {
	if date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
		return false
	}
	if c.holidays != nil {
		if _, closed := c.holidays[date.Format(dateKeyLayout)]; closed {
			return false
		}
	}
	return true
}

// AddTradingDays advances date by n trading days. n = 0 returns the date
// unchanged; callers needing a strictly-later date enforce that themselves.
func (c *Calendar) AddTradingDays(date time.Time, n int) time.Time {
	result := date
	for added := 0; added < n; {
		result = result.AddDate(0, 0, 1)
		if c.IsTradingDay(result) {
			added++
		}
	}
	return result
}

// NextTradingDay returns date if it trades, otherwise the next day that does.
func (c *Calendar) NextTradingDay(date time.Time) time.Time {
	result := date
	for !c.IsTradingDay(result) {
		result = result.AddDate(0, 0, 1)
	}
	return result
}
