package utils

import (
	"time"
)

// BRT is the Brasília time location (UTC-3).
var BRT *time.Location

func init() {
	var err error
	BRT, err = time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		// Fallback: create fixed zone if tz database is not available
		BRT = time.FixedZone("BRT", -3*60*60)
	}
}

// NowBRT returns the current time in BRT.
func NowBRT() time.Time {
	return time.Now().In(BRT)
}

// ToBRT converts a time.Time to BRT.
func ToBRT(t time.Time) time.Time {
	return t.In(BRT)
}

// MarketOpenTime returns the B3 session opening time (10:00 BRT) for a given date.
func MarketOpenTime(date time.Time) time.Time {
	d := date.In(BRT)
	return time.Date(d.Year(), d.Month(), d.Day(), 10, 0, 0, 0, BRT)
}

// MarketCloseTime returns the B3 session closing time (17:00 BRT) for a given date.
func MarketCloseTime(date time.Time) time.Time {
	d := date.In(BRT)
	return time.Date(d.Year(), d.Month(), d.Day(), 17, 0, 0, 0, BRT)
}

// PreOpenStart returns the pre-open auction start time (9:45 BRT).
func PreOpenStart(date time.Time) time.Time {
	d := date.In(BRT)
	return time.Date(d.Year(), d.Month(), d.Day(), 9, 45, 0, 0, BRT)
}

// IsMarketOpen checks if the B3 session is currently open.
func IsMarketOpen() bool {
	return IsMarketOpenAt(NowBRT())
}

// IsMarketOpenAt checks if the B3 session would be open at the given time.
func IsMarketOpenAt(t time.Time) bool {
	t = t.In(BRT)

	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return false
	}

	if IsTradingHoliday(t) {
		return false
	}

	open := MarketOpenTime(t)
	close := MarketCloseTime(t)

	return !t.Before(open) && !t.After(close)
}

// IsTradingDay checks if the given date is a trading day (not weekend, not holiday).
func IsTradingDay(t time.Time) bool {
	t = t.In(BRT)
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return false
	}
	return !IsTradingHoliday(t)
}

// IsTradingHoliday checks if the given date is a B3 trading holiday.
// The list should be updated annually.
func IsTradingHoliday(t time.Time) bool {
	t = t.In(BRT)
	dateStr := t.Format("2006-01-02")

	_, isHoliday := b3Holidays2026[dateStr]
	return isHoliday
}

// B3 trading holidays for 2026 (update annually).
// Source: B3 market calendar.
var b3Holidays2026 = map[string]string{
	"2026-01-01": "Confraternização Universal",
	"2026-02-16": "Carnaval",
	"2026-02-17": "Carnaval",
	"2026-04-03": "Paixão de Cristo",
	"2026-04-21": "Tiradentes",
	"2026-05-01": "Dia do Trabalho",
	"2026-06-04": "Corpus Christi",
	"2026-07-09": "Revolução Constitucionalista",
	"2026-09-07": "Independência do Brasil",
	"2026-10-12": "Nossa Senhora Aparecida",
	"2026-11-02": "Finados",
	"2026-11-20": "Dia da Consciência Negra",
	"2026-12-25": "Natal",
}

// TradingHolidays returns all B3 trading holidays for the current year.
func TradingHolidays() map[string]string {
	return b3Holidays2026
}

// FormatDateTimeBRT formats a time.Time to "2006-01-02 15:04:05 BRT".
func FormatDateTimeBRT(t time.Time) string {
	return t.In(BRT).Format("2006-01-02 15:04:05 BRT")
}

// MarketStatus returns the current B3 session status string.
func MarketStatus() string {
	now := NowBRT()

	if now.Weekday() == time.Saturday || now.Weekday() == time.Sunday {
		return "CLOSED (Weekend)"
	}

	if IsTradingHoliday(now) {
		holiday := b3Holidays2026[now.Format("2006-01-02")]
		return "CLOSED (" + holiday + ")"
	}

	open := MarketOpenTime(now)
	close := MarketCloseTime(now)
	preOpen := PreOpenStart(now)

	switch {
	case now.Before(preOpen):
		return "PRE-MARKET"
	case now.Before(open):
		return "PRE-OPEN AUCTION"
	case !now.After(close):
		return "OPEN"
	default:
		return "CLOSED"
	}
}
