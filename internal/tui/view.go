package tui

import (
	"fmt"
	"math"
	"strings"

	"Hikari/internal/domain/models"
	"Hikari/internal/presenter"

	"github.com/charmbracelet/lipgloss"
)

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

type column struct {
	title string
	width int
}

var watchColumns = []column{
	{"銘柄", 6},
	{"名称", 24},
	{"価格", 11},
	{"前日比", 18},
	{"変動", 4},
	{"出来高", 12},
	{"時価総額", 8},
	{"センチメント", 12},
}

func (m Model) View() string {
	v := m.view
	page := presenter.Dashboard(v)

	sections := []string{
		m.header(v),
		m.tabs(v),
		m.searchLine(),
		m.table(page),
		metricsRow(page.Metrics),
		sparklineBlock(v.Sparkline, page.Sparkline),
		feeds(v, page),
		mutedStyle.Render("tab セクター切替 · / 検索 · esc 検索クリア · r 再読み込み · q 終了"),
	}
	out := lipgloss.JoinVertical(lipgloss.Left, sections...)
	if m.width > 0 {
		out = lipgloss.NewStyle().MaxWidth(m.width).Render(out)
	}
	return out
}

func (m Model) header(v models.DashboardView) string {
	title := titleStyle.Render("Hikari マーケットダッシュボード")
	clock := mutedStyle.Render("🕒 " + presenter.Clock(m.clock, m.loc))
	msg := v.Status.Message
	if m.reloading {
		msg = "再読み込み中…"
	}
	status := statusStyle(v.Status.Level).Render(msg)
	return lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", clock, "  ", status)
}

func (m Model) tabs(v models.DashboardView) string {
	parts := make([]string, 0, len(v.Sectors))
	for _, s := range v.Sectors {
		label := s
		if s == models.SectorAll {
			label = "すべて"
		}
		if s == v.Filter.Sector {
			parts = append(parts, activeTab.Render(label))
		} else {
			parts = append(parts, mutedStyle.Render(label))
		}
	}
	return strings.Join(parts, "  ")
}

func (m Model) searchLine() string {
	q := m.filter.Search
	if m.searching {
		return "検索: " + q + "█"
	}
	if q == "" {
		return mutedStyle.Render("検索: (/ で入力)")
	}
	return "検索: " + q
}

func cell(s string, width int) string {
	return lipgloss.NewStyle().Width(width).MaxWidth(width).MaxHeight(1).Render(s)
}

func (m Model) table(page presenter.DashboardPage) string {
	var b strings.Builder
	for _, c := range watchColumns {
		b.WriteString(headerStyle.Render(cell(c.title, c.width)))
		b.WriteString(" ")
	}
	b.WriteString("\n")

	if page.EmptyMessage != "" {
		b.WriteString(mutedStyle.Render(page.EmptyMessage))
		return b.String()
	}
	for _, r := range page.Rows {
		vals := []string{r.Symbol, r.Name, r.Price, r.Change, r.Volatility, r.Volume, r.MarketCap, r.Badge}
		for i, c := range watchColumns {
			s := cell(vals[i], c.width)
			if i == 3 {
				s = directionStyle(r.Direction).Render(s)
			}
			b.WriteString(s)
			b.WriteString(" ")
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func metricsRow(mt presenter.Metrics) string {
	card := func(label, value string) string {
		return cardStyle.Render(mutedStyle.Render(label) + "\n" + value)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		card("トップムーバー", mt.Leader),
		card("ボラティリティ", mt.Volatility),
		card("センチメント", mt.Pulse),
	)
}

// Blocks maps sparkline points onto block characters. Smaller Y is higher.
func Blocks(points []models.SparklinePoint) string {
	if len(points) == 0 {
		return ""
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		lo = math.Min(lo, p.Y)
		hi = math.Max(hi, p.Y)
	}
	top := len(sparkBlocks) - 1
	out := make([]rune, len(points))
	for i, p := range points {
		level := top / 2
		if hi > lo {
			level = int(math.Round((hi - p.Y) / (hi - lo) * float64(top)))
		}
		out[i] = sparkBlocks[level]
	}
	return string(out)
}

func sparklineBlock(sv models.SparklineView, st presenter.SparklineText) string {
	line := Blocks(sv.Points)
	if sv.Degraded {
		line = mutedStyle.Render(st.Legend)
	}
	delta := st.Delta
	switch st.DeltaTone {
	case "success":
		delta = upStyle.Render(delta)
	case "warning":
		delta = downStyle.Render(delta)
	}
	legend := ""
	if !sv.Degraded {
		legend = mutedStyle.Render(st.Legend)
	}
	return fmt.Sprintf("%s  %s  %s %s", headerStyle.Render(st.Label), line, delta, legend)
}

func feeds(v models.DashboardView, page presenter.DashboardPage) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("ヘッドライン"))
	for _, h := range v.Headlines {
		fmt.Fprintf(&b, "\n  %s %s %s", presenter.SentimentBadge(h.Tone), h.Title, mutedStyle.Render(h.Detail))
	}
	b.WriteString("\n" + headerStyle.Render("AIインサイト"))
	for i, in := range v.Insights {
		fmt.Fprintf(&b, "\n  %s %s", in.Title, mutedStyle.Render(page.Insights[i]))
	}
	b.WriteString("\n" + headerStyle.Render("コミュニティ"))
	for _, p := range v.Community {
		fmt.Fprintf(&b, "\n  %s %s %s %s", p.Author, p.Mood, p.Post, mutedStyle.Render(p.Time))
	}
	return b.String()
}
