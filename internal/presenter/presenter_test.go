package presenter

import (
	"testing"
	"time"

	"Hikari/internal/domain/models"
	"Hikari/pkg/util"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUSD(t *testing.T) {
	assert.Equal(t, "$191.62", USDFloat(191.62))
	assert.Equal(t, "$1,234,567.89", USD(decimal.RequireFromString("1234567.891")))
	assert.Equal(t, "-$12.50", USD(decimal.RequireFromString("-12.5")))
	assert.Equal(t, "$0.00", USD(decimal.Zero))
	assert.Equal(t, "+$3.10", SignedUSD(decimal.RequireFromString("3.1")))
	assert.Equal(t, "$0.00", SignedUSD(decimal.RequireFromString("0.001")))
	assert.Equal(t, Placeholder, USDFloat(0/zero()))
	assert.Equal(t, "¥1,500", Money(decimal.NewFromInt(1500), "JPY"))
	assert.Equal(t, "7.25", Money(decimal.RequireFromString("7.25"), "XXX_UNKNOWN"))
}

func zero() float64 { return 0 }

func TestChange(t *testing.T) {
	assert.Equal(t, "+1.38 (+0.73%)", Change(1.38, 0.73))
	assert.Equal(t, "-2.07 (-0.50%)", Change(-2.07, -0.5))
	assert.Equal(t, "0.00 (0.00%)", Change(0, 0))

	assert.Equal(t, "+0.73%", Percent(0.73))
	assert.Equal(t, "+0.00%", Percent(0))
	assert.Equal(t, "-1.20%", Percent(-1.2))
	assert.Equal(t, "positive", Direction(0))
	assert.Equal(t, "negative", Direction(-0.01))
}

func TestBadgesAndLabels(t *testing.T) {
	assert.Equal(t, "強気", SentimentBadge(models.SentimentPositive))
	assert.Equal(t, "弱気", SentimentBadge(models.SentimentNegative))
	assert.Equal(t, "フラット", SentimentBadge(models.SentimentNeutral))
	assert.Equal(t, "フラット", SentimentBadge("mixed"))

	assert.Equal(t, "中", VolatilityLabel(models.VolatilityMedium))
	assert.Equal(t, "wild", VolatilityLabel("wild"))
	assert.Equal(t, "バランス", VolatilityClassLabel(models.VolatilityBalanced))
	assert.Equal(t, Placeholder, VolatilityClassLabel(""))

	assert.Equal(t, "58,792,145", Volume(58792145))
}

func TestDates(t *testing.T) {
	ts := util.NewTimestamp(time.Date(2024, 3, 4, 15, 7, 9, 0, time.UTC))
	tokyo := time.FixedZone("JST", 9*60*60)

	assert.Equal(t, "2024/03/04", Date(ts, time.UTC))
	assert.Equal(t, "2024/03/05 00:07", DateTime(ts, tokyo))
	assert.Equal(t, Placeholder, DateTime(util.Timestamp{}, nil))
	assert.Equal(t, "15:07:09", Clock(ts.Time, nil))
}

func TestDashboardPage(t *testing.T) {
	leader := models.WatchlistEntry{Symbol: "TSLA", ChangePercent: 2.3}
	v := models.DashboardView{
		Watchlist: []models.WatchlistEntry{{
			Symbol: "AAPL", Name: "Apple Inc.", Price: 191.62, Change: 1.38, ChangePercent: 0.73,
			Volatility: models.VolatilityMedium, Volume: 58792145, MarketCap: "2.97T", Sentiment: models.SentimentPositive,
		}},
		Leader:     models.LeaderView{Present: true, Entry: &leader},
		Volatility: models.VolatilityView{Present: true, Mean: 1.9, Class: models.VolatilityBalanced},
		Pulse:      72,
		Sparkline:  models.SparklineView{Label: "MSCI", Delta: 10.2, Trend: models.TrendUp, Legend: "100.0 → 110.2"},
		Insights:   []models.Insight{{Confidence: 82}},
		Status:     models.Status{Level: models.StatusSuccess, Message: models.MessageLive},
	}

	page := Dashboard(v)
	require.Len(t, page.Rows, 1)
	row := page.Rows[0]
	assert.Equal(t, "$191.62", row.Price)
	assert.Equal(t, "+1.38 (+0.73%)", row.Change)
	assert.Equal(t, "中", row.Volatility)
	assert.Equal(t, "58,792,145", row.Volume)
	assert.Equal(t, "強気", row.Badge)
	assert.Empty(t, page.EmptyMessage)

	assert.Equal(t, Metrics{Leader: "TSLA 2.30%", Volatility: "バランス", Pulse: "72 / 100"}, page.Metrics)
	assert.Equal(t, "+10.20%", page.Sparkline.Delta)
	assert.Equal(t, "success", page.Sparkline.DeltaTone)
	assert.Equal(t, []string{"信頼度 82%"}, page.Insights)
	assert.Equal(t, models.StatusSuccess, page.Status.Level)
}

func TestDashboardPageEmpty(t *testing.T) {
	page := Dashboard(models.DashboardView{
		Empty:     true,
		Sparkline: models.SparklineView{Degraded: true, Legend: "指数データを取得できませんでした"},
	})
	assert.Empty(t, page.Rows)
	assert.Equal(t, EmptyWatchlistMessage, page.EmptyMessage)
	assert.Equal(t, Metrics{Leader: Placeholder, Volatility: Placeholder, Pulse: Placeholder}, page.Metrics)
	assert.Equal(t, "0.00%", page.Sparkline.Delta)
	assert.Empty(t, page.Sparkline.DeltaTone)
}

func TestCard(t *testing.T) {
	memo := "core"
	h := models.Holding{
		ID:          1,
		Symbol:      "AAPL",
		CompanyName: "Apple Inc.",
		Shares:      decimal.RequireFromString("12.5"),
		AverageCost: decimal.RequireFromString("150.25"),
		Memo:        &memo,
		CreatedAt:   util.NewTimestamp(time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)),
		LatestQuote: &models.PriceQuote{Price: decimal.RequireFromString("191.62"), ChangePercent: 0.73},
	}

	c := Card(h, true, time.UTC)
	assert.Equal(t, "$191.62", c.Price)
	assert.Equal(t, "+0.73%", c.Change)
	assert.Equal(t, "12.5", c.Shares)
	assert.Equal(t, "$150.25", c.AverageCost)
	assert.Equal(t, "$2,395.25", c.MarketValue)
	assert.Equal(t, "+$517.13", c.UnrealizedPL)
	assert.Equal(t, "positive", c.PLDirection)
	assert.Equal(t, "core", c.Memo)
	assert.Equal(t, "2024/03/01", c.Created)
	assert.True(t, c.Selected)

	h.LatestQuote = nil
	c = Card(h, false, time.UTC)
	assert.Equal(t, "-", c.Price)
	assert.Equal(t, "-", c.MarketValue)
	assert.Equal(t, "-", c.UnrealizedPL)
	assert.Empty(t, c.Change)
}

func TestCards(t *testing.T) {
	sel := int64(2)
	st := models.HoldingsState{
		Holdings:   []models.Holding{{ID: 1, Symbol: "AAPL"}, {ID: 2, Symbol: "MSFT"}},
		SelectedID: &sel,
	}
	cards := Cards(st, nil)
	require.Len(t, cards, 2)
	assert.False(t, cards[0].Selected)
	assert.True(t, cards[1].Selected)
}

func TestNewsAndAlerts(t *testing.T) {
	score := 0.456
	n := News(models.NewsArticle{Headline: "Apple beats", SentimentScore: &score}, time.UTC)
	assert.Equal(t, "センチメントスコア: 0.46", n.Sentiment)
	assert.Equal(t, Placeholder, n.Published)

	n = News(models.NewsArticle{Headline: "No score"}, time.UTC)
	assert.Empty(t, n.Sentiment)

	a := Alert(models.Alert{Title: "Spike", Severity: "emergency"}, time.UTC)
	assert.Equal(t, "info", a.Severity)
	a = Alert(models.Alert{Title: "Drop", Severity: models.SeverityCritical}, time.UTC)
	assert.Equal(t, "critical", a.Severity)
}
