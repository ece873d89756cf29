package tui

import (
	"context"
	"time"

	"Hikari/internal/domain/models"
	"Hikari/internal/usecase"

	tea "github.com/charmbracelet/bubbletea"
)

const clockInterval = time.Second

// Model is the terminal dashboard. All derived numbers come from
// usecase.BuildDashboardView; the model only holds the filter and input state.
type Model struct {
	loader *usecase.DashboardLoader
	loc    *time.Location
	now    func() time.Time

	filter    models.Filter
	searching bool
	reloading bool

	clock time.Time
	view  models.DashboardView

	width  int
	height int
}

// Messages

type clockMsg time.Time

type loadedMsg struct {
	out usecase.LoadOutcome
}

func NewModel(loader *usecase.DashboardLoader, loc *time.Location) Model {
	if loc == nil {
		loc = time.Local
	}
	m := Model{
		loader: loader,
		loc:    loc,
		now:    time.Now,
		filter: models.Filter{Sector: models.SectorAll},
	}
	m.clock = m.now()
	m.rebuild()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(loadCmd(m.loader), clockCmd())
}

// DashboardView returns the derived view the screen is drawn from.
func (m Model) DashboardView() models.DashboardView { return m.view }

func (m *Model) rebuild() {
	m.view = m.loader.View(m.filter, m.clock)
}

// nextSector cycles through the sectors known to the current snapshot.
func (m *Model) nextSector(step int) {
	sectors := m.view.Sectors
	if len(sectors) == 0 {
		return
	}
	idx := 0
	for i, s := range sectors {
		if s == m.filter.Sector {
			idx = i
			break
		}
	}
	idx = (idx + step + len(sectors)) % len(sectors)
	m.filter.Sector = sectors[idx]
}

// Commands

func loadCmd(loader *usecase.DashboardLoader) tea.Cmd {
	return func() tea.Msg {
		return loadedMsg{out: loader.Load(context.Background())}
	}
}

func clockCmd() tea.Cmd {
	return tea.Tick(clockInterval, func(t time.Time) tea.Msg {
		return clockMsg(t)
	})
}
