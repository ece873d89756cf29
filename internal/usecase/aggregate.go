package usecase

import (
	"fmt"
	"math"
	"strings"
	"time"

	"Hikari/internal/domain/models"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Sparkline drawing area.
const (
	SparklineWidth  = 300.0
	SparklineHeight = 120.0
	sparklineMargin = 10.0
)

// DegradedSparklineLegend is shown when the series cannot be drawn.
const DegradedSparklineLegend = "指数データを取得できませんでした"

// Volatility thresholds on the mean weight; both are exclusive.
const (
	activeThreshold   = 2.0
	balancedThreshold = 1.4
)

// FilterWatchlist keeps entries matching the sector (or any sector for "all"
// and "") and whose symbol or name contains the trimmed search text, ignoring
// case. Stored order is preserved.
func FilterWatchlist(entries []models.WatchlistEntry, f models.Filter) []models.WatchlistEntry {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	anySector := f.Sector == "" || f.Sector == models.SectorAll

	out := make([]models.WatchlistEntry, 0, len(entries))
	for _, e := range entries {
		if !anySector && e.Sector != f.Sector {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(e.Symbol), search) &&
			!strings.Contains(strings.ToLower(e.Name), search) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Sectors lists "all" followed by each distinct sector in first-seen order.
func Sectors(entries []models.WatchlistEntry) []string {
	out := []string{models.SectorAll}
	seen := make(map[string]bool)
	for _, e := range entries {
		if e.Sector == "" || seen[e.Sector] {
			continue
		}
		seen[e.Sector] = true
		out = append(out, e.Sector)
	}
	return out
}

// Leader returns the entry with the highest change percent; ties go to the
// first in stored order. ok is false for an empty collection.
func Leader(entries []models.WatchlistEntry) (models.WatchlistEntry, bool) {
	if len(entries) == 0 {
		return models.WatchlistEntry{}, false
	}
	changes := make([]float64, len(entries))
	for i, e := range entries {
		changes[i] = e.ChangePercent
	}
	return entries[floats.MaxIdx(changes)], true
}

// ClassifyVolatility averages the volatility weights and buckets the mean.
// ok is false for an empty collection.
func ClassifyVolatility(entries []models.WatchlistEntry) (float64, models.VolatilityClass, bool) {
	if len(entries) == 0 {
		return 0, "", false
	}
	weights := make([]float64, len(entries))
	for i, e := range entries {
		weights[i] = e.Volatility.Weight()
	}
	mean := stat.Mean(weights, nil)
	return mean, VolatilityClassFor(mean), true
}

// VolatilityClassFor buckets a mean weight.
func VolatilityClassFor(mean float64) models.VolatilityClass {
	switch {
	case mean > activeThreshold:
		return models.VolatilityActive
	case mean > balancedThreshold:
		return models.VolatilityBalanced
	default:
		return models.VolatilityCalm
	}
}

// BuildSparkline computes chart geometry for series. An empty series, one
// holding a non-finite value, or one whose range or change overflows yields
// the degraded view.
func BuildSparkline(label string, series []float64) models.SparklineView {
	v := models.SparklineView{
		Label:  label,
		Width:  SparklineWidth,
		Height: SparklineHeight,
		Points: []models.SparklinePoint{},
		Trend:  models.TrendFlat,
	}

	if len(series) == 0 || floats.HasNaN(series) {
		return degraded(v)
	}
	lo, hi := floats.Min(series), floats.Max(series)
	if math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return degraded(v)
	}
	span := hi - lo
	if math.IsInf(span, 0) {
		return degraded(v)
	}
	if span == 0 {
		span = 1
	}

	first, last := series[0], series[len(series)-1]
	var delta float64
	if first != 0 {
		delta = (last - first) / first * 100
	}
	if math.IsInf(delta, 0) || math.IsNaN(delta) {
		return degraded(v)
	}
	v.Min, v.Max = lo, hi

	n := len(series)
	coords := make([]string, n)
	v.Points = make([]models.SparklinePoint, n)
	for i, val := range series {
		x := SparklineWidth / 2
		if n > 1 {
			x = float64(i) / float64(n-1) * SparklineWidth
		}
		norm := (val - lo) / span
		y := SparklineHeight - norm*(SparklineHeight-2*sparklineMargin) - sparklineMargin
		v.Points[i] = models.SparklinePoint{X: x, Y: y}
		coords[i] = fmt.Sprintf("%.2f,%.2f", x, y)
	}
	v.Path = "M " + strings.Join(coords, " ")

	v.First, v.Last, v.Delta = first, last, delta
	switch {
	case v.Delta > 0:
		v.Trend = models.TrendUp
	case v.Delta < 0:
		v.Trend = models.TrendDown
	}
	v.Legend = fmt.Sprintf("%.1f → %.1f", v.First, v.Last)
	return v
}

func degraded(v models.SparklineView) models.SparklineView {
	v.Degraded = true
	v.Legend = DegradedSparklineLegend
	return v
}

// SentimentPulse is the slowly oscillating market pulse score in [60, 88].
func SentimentPulse(now time.Time) int {
	raw := 72 + math.Sin(float64(now.UnixMilli())/100000)*12
	score := int(math.Floor(raw + 0.5))
	return min(max(score, 60), 88)
}

// BuildDashboardView derives the full dashboard view from one snapshot and
// filter. It keeps no state between calls.
func BuildDashboardView(snap *models.DashboardSnapshot, f models.Filter, now time.Time) models.DashboardView {
	if f.Sector == "" {
		f.Sector = models.SectorAll
	}
	f.Search = strings.TrimSpace(f.Search)

	view := models.DashboardView{
		Filter:    f,
		Sectors:   []string{models.SectorAll},
		Watchlist: []models.WatchlistEntry{},
		Empty:     true,
		Pulse:     SentimentPulse(now),
		Sparkline: BuildSparkline(models.DefaultSparklineLabel, nil),
		Headlines: []models.Headline{},
		Insights:  []models.Insight{},
		Community: []models.CommunityPost{},
		Sessions:  []models.Session{},
	}
	if snap == nil {
		return view
	}

	view.Sectors = Sectors(snap.Watchlist)
	view.Watchlist = FilterWatchlist(snap.Watchlist, f)
	view.Empty = len(view.Watchlist) == 0

	if leader, ok := Leader(snap.Watchlist); ok {
		view.Leader = models.LeaderView{Present: true, Entry: &leader}
	}
	if mean, class, ok := ClassifyVolatility(snap.Watchlist); ok {
		view.Volatility = models.VolatilityView{Present: true, Mean: mean, Class: class}
	}

	view.Sparkline = BuildSparkline(snap.Sparkline.Label, snap.Sparkline.Series)
	view.Headlines = append(view.Headlines, snap.Headlines...)
	view.Insights = append(view.Insights, snap.Insights...)
	view.Community = append(view.Community, snap.Community...)
	view.Sessions = append(view.Sessions, snap.Sessions...)
	return view
}
