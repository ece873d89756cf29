package presenter

import (
	"fmt"

	"Hikari/internal/domain/models"
)

// EmptyWatchlistMessage replaces the table body when no entry matches.
const EmptyWatchlistMessage = "該当する銘柄がありません。条件を調整してください。"

type WatchRow struct {
	Symbol     string `json:"symbol"`
	Name       string `json:"name"`
	Price      string `json:"price"`
	Change     string `json:"change"`
	Direction  string `json:"direction"`
	Volatility string `json:"volatility"`
	Volume     string `json:"volume"`
	MarketCap  string `json:"market_cap"`
	Badge      string `json:"badge"`
	Sentiment  string `json:"sentiment"`
}

type Metrics struct {
	Leader     string `json:"leader"`
	Volatility string `json:"volatility"`
	Pulse      string `json:"pulse"`
}

type SparklineText struct {
	Label     string `json:"label"`
	Legend    string `json:"legend"`
	Delta     string `json:"delta"`
	DeltaTone string `json:"delta_tone,omitempty"`
	Trend     string `json:"trend"`
}

// DashboardPage is the display form of a DashboardView.
type DashboardPage struct {
	Rows         []WatchRow    `json:"rows"`
	EmptyMessage string        `json:"empty_message,omitempty"`
	Metrics      Metrics       `json:"metrics"`
	Sparkline    SparklineText `json:"sparkline"`
	Insights     []string      `json:"insights"`
	Status       models.Status `json:"status"`
}

// Row formats one watchlist entry.
func Row(e models.WatchlistEntry) WatchRow {
	sentiment := string(e.Sentiment)
	if sentiment == "" {
		sentiment = string(models.SentimentNeutral)
	}
	return WatchRow{
		Symbol:     e.Symbol,
		Name:       e.Name,
		Price:      USDFloat(e.Price),
		Change:     Change(e.Change, e.ChangePercent),
		Direction:  Direction(e.ChangePercent),
		Volatility: VolatilityLabel(e.Volatility),
		Volume:     Volume(e.Volume),
		MarketCap:  e.MarketCap,
		Badge:      SentimentBadge(e.Sentiment),
		Sentiment:  sentiment,
	}
}

// MetricsFor renders the leader, volatility and pulse cards. Missing values
// show the placeholder.
func MetricsFor(v models.DashboardView) Metrics {
	m := Metrics{Leader: Placeholder, Volatility: Placeholder, Pulse: Placeholder}
	if !v.Leader.Present || !v.Volatility.Present {
		return m
	}
	m.Leader = fmt.Sprintf("%s %.2f%%", v.Leader.Entry.Symbol, v.Leader.Entry.ChangePercent)
	m.Volatility = VolatilityClassLabel(v.Volatility.Class)
	m.Pulse = fmt.Sprintf("%d / 100", v.Pulse)
	return m
}

// Sparkline renders the chart legend and delta chip.
func Sparkline(s models.SparklineView) SparklineText {
	out := SparklineText{Label: s.Label, Legend: s.Legend, Trend: string(s.Trend)}
	if s.Degraded {
		out.Delta = "0.00%"
		return out
	}
	if s.Delta >= 0 {
		out.Delta = fmt.Sprintf("+%.2f%%", s.Delta)
		out.DeltaTone = "success"
	} else {
		out.Delta = fmt.Sprintf("%.2f%%", s.Delta)
		out.DeltaTone = "warning"
	}
	return out
}

// Dashboard formats a full view.
func Dashboard(v models.DashboardView) DashboardPage {
	page := DashboardPage{
		Rows:      make([]WatchRow, 0, len(v.Watchlist)),
		Metrics:   MetricsFor(v),
		Sparkline: Sparkline(v.Sparkline),
		Insights:  make([]string, 0, len(v.Insights)),
		Status:    v.Status,
	}
	for _, e := range v.Watchlist {
		page.Rows = append(page.Rows, Row(e))
	}
	if v.Empty {
		page.EmptyMessage = EmptyWatchlistMessage
	}
	for _, in := range v.Insights {
		page.Insights = append(page.Insights, fmt.Sprintf("信頼度 %d%%", in.Confidence))
	}
	return page
}
