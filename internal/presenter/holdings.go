package presenter

import (
	"fmt"
	"time"

	"Hikari/internal/domain/models"
)

// Placeholders for the holdings surface.
const (
	NoHoldingsMessage     = "まだ保有銘柄が登録されていません。"
	NoNewsMessage         = "まだ最新ニュースが取得されていません。"
	NoAlertsMessage       = "最新のアラートはありません。"
	SelectForNewsMessage  = "ニュースを確認したい銘柄を選択してください。"
	SelectForAlertMessage = "アラートを確認するには銘柄を選択してください。"
)

type HoldingCard struct {
	ID           int64  `json:"id"`
	Symbol       string `json:"symbol"`
	CompanyName  string `json:"company_name"`
	Price        string `json:"price"`
	Change       string `json:"change,omitempty"`
	Direction    string `json:"direction,omitempty"`
	Shares       string `json:"shares"`
	AverageCost  string `json:"average_cost"`
	MarketValue  string `json:"market_value"`
	UnrealizedPL string `json:"unrealized_pl"`
	PLDirection  string `json:"pl_direction,omitempty"`
	Memo         string `json:"memo"`
	Created      string `json:"created"`
	Selected     bool   `json:"selected"`
}

type NewsItem struct {
	Headline  string `json:"headline"`
	URL       string `json:"url"`
	Published string `json:"published"`
	Summary   string `json:"summary,omitempty"`
	Sentiment string `json:"sentiment,omitempty"`
}

type AlertItem struct {
	Title    string `json:"title"`
	Message  string `json:"message"`
	Time     string `json:"time"`
	Severity string `json:"severity"`
}

// Card formats one holding. Without a quote the price, value and P&L show "-".
func Card(h models.Holding, selected bool, loc *time.Location) HoldingCard {
	c := HoldingCard{
		ID:           h.ID,
		Symbol:       h.Symbol,
		CompanyName:  h.CompanyName,
		Price:        "-",
		Shares:       h.Shares.String(),
		AverageCost:  USD(h.AverageCost),
		MarketValue:  "-",
		UnrealizedPL: "-",
		Created:      Date(h.CreatedAt, loc),
		Selected:     selected,
	}
	if h.Memo != nil {
		c.Memo = *h.Memo
	}
	if q := h.LatestQuote; q != nil {
		c.Price = USD(q.Price)
		c.Change = Percent(q.ChangePercent)
		c.Direction = Direction(q.ChangePercent)
	}
	if mv, ok := h.MarketValue(); ok {
		c.MarketValue = USD(mv)
	}
	if pl, ok := h.UnrealizedPL(); ok {
		c.UnrealizedPL = SignedUSD(pl)
		c.PLDirection = "positive"
		if pl.IsNegative() {
			c.PLDirection = "negative"
		}
	}
	return c
}

// Cards formats the collection in stored order.
func Cards(st models.HoldingsState, loc *time.Location) []HoldingCard {
	out := make([]HoldingCard, 0, len(st.Holdings))
	for _, h := range st.Holdings {
		selected := st.SelectedID != nil && *st.SelectedID == h.ID
		out = append(out, Card(h, selected, loc))
	}
	return out
}

// News formats one article. The sentiment line is omitted without a score.
func News(a models.NewsArticle, loc *time.Location) NewsItem {
	n := NewsItem{
		Headline:  a.Headline,
		URL:       a.URL,
		Published: DateTime(a.PublishedAt, loc),
	}
	if a.Summary != nil {
		n.Summary = *a.Summary
	}
	if a.SentimentScore != nil {
		n.Sentiment = fmt.Sprintf("センチメントスコア: %.2f", *a.SentimentScore)
	}
	return n
}

// Alert formats one alert. Unknown severities are styled as info.
func Alert(a models.Alert, loc *time.Location) AlertItem {
	sev := a.Severity
	if !sev.Known() {
		sev = models.SeverityInfo
	}
	return AlertItem{
		Title:    a.Title,
		Message:  a.Message,
		Time:     DateTime(a.CreatedAt, loc),
		Severity: string(sev),
	}
}
