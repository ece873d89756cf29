package models

import (
	"math"
	"strings"

	"Hikari/pkg/util"

	"github.com/shopspring/decimal"
)

func init() {
	// the holdings backend speaks JSON numbers, not quoted decimals
	decimal.MarshalJSONWithoutQuotes = true
}

// Holding is a tracked position as returned by the holdings backend.
type Holding struct {
	ID          int64           `json:"id"`
	Symbol      string          `json:"symbol"`
	CompanyName string          `json:"company_name"`
	Shares      decimal.Decimal `json:"shares"`
	AverageCost decimal.Decimal `json:"average_cost"`
	Memo        *string         `json:"memo"`
	CreatedAt   util.Timestamp  `json:"created_at"`
	LatestQuote *PriceQuote     `json:"latest_quote"`
	LatestAlert *Alert          `json:"latest_alert"`
}

// Clone returns a deep copy; quote and alert are replaced wholesale, never
// shared between snapshots.
func (h Holding) Clone() Holding {
	out := h
	if h.Memo != nil {
		m := *h.Memo
		out.Memo = &m
	}
	if h.LatestQuote != nil {
		q := *h.LatestQuote
		out.LatestQuote = &q
	}
	if h.LatestAlert != nil {
		a := *h.LatestAlert
		out.LatestAlert = &a
	}
	return out
}

// MarketValue is shares times the latest quote price. ok is false without a quote.
func (h Holding) MarketValue() (decimal.Decimal, bool) {
	if h.LatestQuote == nil {
		return decimal.Zero, false
	}
	return h.Shares.Mul(h.LatestQuote.Price), true
}

// UnrealizedPL is market value minus cost basis. ok is false without a quote.
func (h Holding) UnrealizedPL() (decimal.Decimal, bool) {
	mv, ok := h.MarketValue()
	if !ok {
		return decimal.Zero, false
	}
	return mv.Sub(h.Shares.Mul(h.AverageCost)), true
}

type PriceQuote struct {
	ID            int64           `json:"id"`
	Price         decimal.Decimal `json:"price"`
	ChangePercent float64         `json:"change_percent"`
	Timestamp     util.Timestamp  `json:"timestamp"`
}

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Known reports whether s is one of the enumerated severities. Unknown values
// are kept as received.
func (s Severity) Known() bool {
	switch s {
	case SeverityInfo, SeverityWarning, SeverityCritical:
		return true
	}
	return false
}

type Alert struct {
	ID        int64          `json:"id"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Severity  Severity       `json:"severity"`
	CreatedAt util.Timestamp `json:"created_at"`
}

// Sentiment scores live in [-1, 1]; positive is bullish.
const (
	SentimentScoreMin = -1.0
	SentimentScoreMax = 1.0
)

type NewsArticle struct {
	ID             int64          `json:"id"`
	Headline       string         `json:"headline"`
	URL            string         `json:"url"`
	PublishedAt    util.Timestamp `json:"published_at"`
	Summary        *string        `json:"summary,omitempty"`
	SentimentScore *float64       `json:"sentiment_score,omitempty"`
}

// Sanitize drops a sentiment score that is non-finite or outside
// [SentimentScoreMin, SentimentScoreMax]. It reports whether a score was dropped.
func (a *NewsArticle) Sanitize() bool {
	if a.SentimentScore == nil {
		return false
	}
	s := *a.SentimentScore
	if math.IsNaN(s) || math.IsInf(s, 0) || s < SentimentScoreMin || s > SentimentScoreMax {
		a.SentimentScore = nil
		return true
	}
	return false
}

// CreateHoldingRequest is the payload for POST /holdings.
type CreateHoldingRequest struct {
	Symbol      string          `json:"symbol" validate:"required,max=12"`
	CompanyName string          `json:"company_name" validate:"required,max=200"`
	Shares      decimal.Decimal `json:"shares" validate:"gte=0"`
	AverageCost decimal.Decimal `json:"average_cost" validate:"gte=0"`
	Memo        *string         `json:"memo"`
}

// Normalize trims fields and upper-cases the symbol.
func (r *CreateHoldingRequest) Normalize() {
	r.Symbol = strings.ToUpper(strings.TrimSpace(r.Symbol))
	r.CompanyName = strings.TrimSpace(r.CompanyName)
}

// UpdateHoldingRequest is the partial payload for PUT /holdings/{id}.
type UpdateHoldingRequest struct {
	Memo *string `json:"memo"`
}
