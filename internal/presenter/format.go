// Package presenter turns models and derived views into display strings. It
// holds no state and performs no I/O.
package presenter

import (
	"fmt"
	"math"
	"time"

	"Hikari/internal/domain/models"
	"Hikari/pkg/util"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

const (
	DateLayout     = "2006/01/02"
	DateTimeLayout = "2006/01/02 15:04"
	ClockLayout    = "15:04:05"

	// Placeholder shown for a missing value.
	Placeholder = "—"
)

// USD formats amount as "$1,234.56". Amounts are rounded to cents.
func USD(amount decimal.Decimal) string {
	return Money(amount, money.USD)
}

// USDFloat is USD for float inputs from the dashboard document.
func USDFloat(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Placeholder
	}
	return USD(decimal.NewFromFloat(amount))
}

// Money formats amount in currency using go-money's display rules. Unknown
// currency codes fall back to the plain decimal with two places.
func Money(amount decimal.Decimal, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return amount.StringFixed(2)
	}
	factor := decimal.New(1, int32(cur.Fraction))
	minor := amount.Mul(factor).Round(0).IntPart()
	return money.New(minor, currency).Display()
}

// SignedUSD prefixes positive amounts with "+".
func SignedUSD(amount decimal.Decimal) string {
	if amount.IsPositive() && amount.Round(2).IsPositive() {
		return "+" + USD(amount)
	}
	return USD(amount)
}

// Change renders a watchlist change as "+1.38 (+0.73%)". The sign follows the
// percentage.
func Change(change, pct float64) string {
	sign := ""
	if pct > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.2f (%s%.2f%%)", sign, change, sign, pct)
}

// Percent renders "+0.73%" for non-negative values and "-0.50%" otherwise.
func Percent(pct float64) string {
	if pct >= 0 {
		return fmt.Sprintf("+%.2f%%", pct)
	}
	return fmt.Sprintf("%.2f%%", pct)
}

// Direction is the CSS-style class for a signed change.
func Direction(pct float64) string {
	if pct >= 0 {
		return "positive"
	}
	return "negative"
}

// Volume groups digits: 58792145 -> "58,792,145".
func Volume(n int64) string {
	return util.GroupThousands(n)
}

// SentimentBadge is the label shown for a watchlist sentiment.
func SentimentBadge(s models.Sentiment) string {
	switch s {
	case models.SentimentPositive:
		return "強気"
	case models.SentimentNegative:
		return "弱気"
	default:
		return "フラット"
	}
}

// VolatilityLabel renders the stored volatility the way the source data
// spells it.
func VolatilityLabel(v models.Volatility) string {
	switch v {
	case models.VolatilityHigh:
		return "高"
	case models.VolatilityMedium:
		return "中"
	case models.VolatilityLow:
		return "低"
	}
	return string(v)
}

// VolatilityClassLabel names the averaged volatility bucket.
func VolatilityClassLabel(c models.VolatilityClass) string {
	switch c {
	case models.VolatilityActive:
		return "アクティブ"
	case models.VolatilityBalanced:
		return "バランス"
	case models.VolatilityCalm:
		return "落ち着き"
	}
	return Placeholder
}

// Date renders "2006/01/02" in loc, or the placeholder for a zero time.
func Date(ts util.Timestamp, loc *time.Location) string {
	return layout(ts, DateLayout, loc)
}

// DateTime renders "2006/01/02 15:04" in loc, or the placeholder for a zero time.
func DateTime(ts util.Timestamp, loc *time.Location) string {
	return layout(ts, DateTimeLayout, loc)
}

// Clock renders the market clock "15:04:05".
func Clock(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(ClockLayout)
}

func layout(ts util.Timestamp, l string, loc *time.Location) string {
	if ts.IsZero() {
		return Placeholder
	}
	t := ts.Time
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(l)
}
