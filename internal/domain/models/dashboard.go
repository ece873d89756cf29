package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strings"
)

// ErrMalformedSnapshot marks a dashboard document whose shape cannot be used.
var ErrMalformedSnapshot = errors.New("malformed dashboard snapshot")

// DefaultSparklineLabel is used when a snapshot omits the sparkline label.
const DefaultSparklineLabel = "世界株式指数"

type Volatility string

const (
	VolatilityLow    Volatility = "low"
	VolatilityMedium Volatility = "medium"
	VolatilityHigh   Volatility = "high"
)

// ParseVolatility accepts low|medium|high in any case and the 低|中|高 forms.
// Anything else is returned verbatim.
func ParseVolatility(s string) Volatility {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "低":
		return VolatilityLow
	case "medium", "中":
		return VolatilityMedium
	case "high", "高":
		return VolatilityHigh
	}
	return Volatility(s)
}

func (v *Volatility) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*v = ParseVolatility(s)
	return nil
}

// Weight maps high=3, medium=2 and everything else to 1.
func (v Volatility) Weight() float64 {
	switch v {
	case VolatilityHigh:
		return 3
	case VolatilityMedium:
		return 2
	default:
		return 1
	}
}

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

type WatchlistEntry struct {
	Symbol        string     `json:"symbol"`
	Name          string     `json:"name"`
	Price         float64    `json:"price"`
	Change        float64    `json:"change"`
	ChangePercent float64    `json:"changePercent"`
	Volatility    Volatility `json:"volatility"`
	Volume        int64      `json:"volume"`
	MarketCap     string     `json:"marketCap"`
	Sentiment     Sentiment  `json:"sentiment"`
	Sector        string     `json:"sector"`
}

type Headline struct {
	Title  string    `json:"title"`
	Detail string    `json:"detail"`
	Tone   Sentiment `json:"tone"`
}

type Insight struct {
	Title      string `json:"title"`
	Summary    string `json:"summary"`
	Confidence int    `json:"confidence"`
}

type CommunityPost struct {
	Author string `json:"author"`
	Mood   string `json:"mood"`
	Post   string `json:"post"`
	Time   string `json:"time"`
}

type Session struct {
	Title    string `json:"title"`
	Mentor   string `json:"mentor"`
	Schedule string `json:"schedule"`
}

// Sparkline is a labelled numeric series. Decoding is lenient: a missing or
// non-array series is empty and non-numeric elements become NaN, so the
// aggregation layer reports a degraded chart instead of rejecting the snapshot.
type Sparkline struct {
	Label  string    `json:"label"`
	Series []float64 `json:"series"`
}

func (s *Sparkline) UnmarshalJSON(b []byte) error {
	var raw struct {
		Label  json.RawMessage `json:"label"`
		Series json.RawMessage `json:"series"`
	}
	*s = Sparkline{Label: DefaultSparklineLabel, Series: []float64{}}
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil
	}

	var label string
	if json.Unmarshal(raw.Label, &label) == nil && label != "" {
		s.Label = label
	}

	var items []json.RawMessage
	if json.Unmarshal(raw.Series, &items) != nil {
		return nil
	}
	s.Series = make([]float64, len(items))
	for i, item := range items {
		var f float64
		if err := json.Unmarshal(item, &f); err != nil || bytes.Equal(bytes.TrimSpace(item), []byte("null")) {
			f = math.NaN()
		}
		s.Series[i] = f
	}
	return nil
}

// MarshalJSON writes non-finite points as null.
func (s Sparkline) MarshalJSON() ([]byte, error) {
	series := make([]*float64, len(s.Series))
	for i := range s.Series {
		if v := s.Series[i]; !math.IsNaN(v) && !math.IsInf(v, 0) {
			series[i] = &v
		}
	}
	return json.Marshal(struct {
		Label  string     `json:"label"`
		Series []*float64 `json:"series"`
	}{s.Label, series})
}

// DashboardSnapshot is replaced as a unit and never mutated after it is
// installed.
type DashboardSnapshot struct {
	Watchlist []WatchlistEntry `json:"watchlist"`
	Headlines []Headline       `json:"headlines"`
	Insights  []Insight        `json:"insights"`
	Community []CommunityPost  `json:"community"`
	Sessions  []Session        `json:"sessions"`
	Sparkline Sparkline        `json:"sparkline"`
}

// DecodeSnapshot parses a dashboard document. The document must be a JSON
// object; missing collections decode to empty ones, collections of the wrong
// type make the whole document malformed.
func DecodeSnapshot(b []byte) (*DashboardSnapshot, error) {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, ErrMalformedSnapshot
	}

	snap := &DashboardSnapshot{
		Sparkline: Sparkline{Label: DefaultSparklineLabel, Series: []float64{}},
	}
	if err := json.Unmarshal(trimmed, snap); err != nil {
		return nil, errors.Join(ErrMalformedSnapshot, err)
	}

	if snap.Watchlist == nil {
		snap.Watchlist = []WatchlistEntry{}
	}
	if snap.Headlines == nil {
		snap.Headlines = []Headline{}
	}
	if snap.Insights == nil {
		snap.Insights = []Insight{}
	}
	if snap.Community == nil {
		snap.Community = []CommunityPost{}
	}
	if snap.Sessions == nil {
		snap.Sessions = []Session{}
	}
	return snap, nil
}
