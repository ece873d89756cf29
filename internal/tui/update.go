package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.searching {
			m.updateSearch(msg)
			break
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "tab":
			m.nextSector(1)
		case "shift+tab":
			m.nextSector(-1)
		case "/":
			m.searching = true
		case "esc":
			m.filter.Search = ""
		case "r":
			if !m.reloading {
				m.reloading = true
				cmds = append(cmds, loadCmd(m.loader))
			}
		}

	case loadedMsg:
		m.reloading = false

	case clockMsg:
		m.clock = time.Time(msg)
		cmds = append(cmds, clockCmd())
	}

	m.rebuild()
	return m, tea.Batch(cmds...)
}

func (m *Model) updateSearch(msg tea.KeyMsg) {
	switch msg.Type {
	case tea.KeyEnter:
		m.searching = false
	case tea.KeyEsc:
		m.searching = false
		m.filter.Search = ""
	case tea.KeyBackspace:
		if r := []rune(m.filter.Search); len(r) > 0 {
			m.filter.Search = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.filter.Search += " "
	case tea.KeyRunes:
		m.filter.Search += string(msg.Runes)
	}
}
