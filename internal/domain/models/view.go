package models

// SectorAll disables the sector filter.
const SectorAll = "all"

// Filter is the transient watchlist filter state.
type Filter struct {
	Sector string `json:"sector" query:"sector"`
	Search string `json:"search" query:"q"`
}

type VolatilityClass string

const (
	VolatilityActive   VolatilityClass = "active"
	VolatilityBalanced VolatilityClass = "balanced"
	VolatilityCalm     VolatilityClass = "calm"
)

type Trend string

const (
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
	TrendFlat Trend = "flat"
)

// SparklinePoint is one vertex in drawing coordinates.
type SparklinePoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// SparklineView is the chart geometry derived from a series. Degraded is set
// when the series is empty or contains non-finite values; Path and Points are
// empty then.
type SparklineView struct {
	Label    string           `json:"label"`
	Width    float64          `json:"width"`
	Height   float64          `json:"height"`
	Points   []SparklinePoint `json:"points"`
	Path     string           `json:"path"`
	Min      float64          `json:"min"`
	Max      float64          `json:"max"`
	First    float64          `json:"first"`
	Last     float64          `json:"last"`
	Delta    float64          `json:"delta"`
	Trend    Trend            `json:"trend"`
	Legend   string           `json:"legend"`
	Degraded bool             `json:"degraded"`
}

// LeaderView is the top mover. Present is false for an empty watchlist.
type LeaderView struct {
	Present bool            `json:"present"`
	Entry   *WatchlistEntry `json:"entry,omitempty"`
}

// VolatilityView is the averaged watchlist volatility. Present is false for
// an empty watchlist.
type VolatilityView struct {
	Present bool            `json:"present"`
	Mean    float64         `json:"mean"`
	Class   VolatilityClass `json:"class,omitempty"`
}

// DashboardView is everything the dashboard renders, derived from one
// snapshot and one filter.
type DashboardView struct {
	Filter     Filter           `json:"filter"`
	Sectors    []string         `json:"sectors"`
	Watchlist  []WatchlistEntry `json:"watchlist"`
	Empty      bool             `json:"empty"`
	Leader     LeaderView       `json:"leader"`
	Volatility VolatilityView   `json:"volatility"`
	Pulse      int              `json:"pulse"`
	Sparkline  SparklineView    `json:"sparkline"`
	Headlines  []Headline       `json:"headlines"`
	Insights   []Insight        `json:"insights"`
	Community  []CommunityPost  `json:"community"`
	Sessions   []Session        `json:"sessions"`
	Status     Status           `json:"status"`
}
