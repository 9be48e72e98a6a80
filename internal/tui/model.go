package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/c0ffee0wl/tabnum/internal/title"
)

// defaultTabTitle is the host's automatic title for a fresh tab, standing
// in for the shell command a real terminal would show.
const defaultTabTitle = "bash"

// tickMsg drives the host scheduler.
type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Model holds the state for the Bubble Tea program.
type Model struct {
	host *Host
	c    *Container

	editing bool
	input   textinput.Model

	width  int
	height int
}

// New creates the demo model around host.
func New(host *Host) Model {
	input := textinput.New()
	input.CharLimit = 64
	input.Width = 32

	return Model{
		host:  host,
		c:     host.Container(),
		input: input,
	}
}

func (m Model) Init() tea.Cmd {
	// Drain once up front so the plugin's deferred initial scan runs
	// before the first render.
	m.host.Drain()
	return tickCmd()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}
		return m.updateKeys(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		m.host.Drain()
		return m, tickCmd()
	}
	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "ctrl+t":
		m.c.AddTab(defaultTabTitle)
	case "ctrl+w":
		m.c.CloseTab(m.c.Active())
	case "tab", "right":
		m.c.SwitchBy(1)
	case "shift+tab", "left":
		m.c.SwitchBy(-1)
	case "ctrl+right":
		m.c.MoveTab(m.c.Active(), 1)
	case "ctrl+left":
		m.c.MoveTab(m.c.Active(), -1)
	case "r":
		current, err := m.c.Title(m.c.Active())
		if err != nil {
			return m, nil
		}
		m.editing = true
		m.input.SetValue(title.StripNumberPrefix(current))
		m.input.CursorEnd()
		return m, m.input.Focus()
	}
	return m, nil
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.editing = false
		m.input.Blur()
		m.c.Rename(m.c.Active(), m.input.Value())
		return m, nil
	case "esc":
		m.editing = false
		m.input.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	width := m.width
	if width == 0 {
		width = 80
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("tabnum demo") + "\n\n")
	b.WriteString(renderTabBar(m.c) + "\n")

	active := m.c.Active()
	body := fmt.Sprintf("tab %d of %d", active+1, m.c.Count())
	if t, err := m.c.Title(active); err == nil {
		body += "\n" + title.StripNumberPrefix(t)
	}
	if m.editing {
		body += "\n\n" + editPromptStyle.Render("rename: ") + m.input.View()
	}
	b.WriteString(bodyStyle.Width(width - 4).Render(body) + "\n")

	b.WriteString(helpStyle.Render(
		"ctrl+t new · ctrl+w close · tab/shift+tab switch · ctrl+←/→ move · r rename · q quit"))
	return b.String()
}

// renderTabBar draws one cell per tab, highlighting the focused one and
// marking user-renamed tabs.
func renderTabBar(c *Container) string {
	var cells []string
	for i, t := range c.Titles() {
		label := t
		if c.Custom(i) {
			label += customMarkStyle.Render(" •")
		}
		if i == c.Active() {
			cells = append(cells, activeTabStyle.Render(label))
		} else {
			cells = append(cells, tabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}
