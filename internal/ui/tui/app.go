package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aalvaropc/suitemap/internal/domain"
	"github.com/aalvaropc/suitemap/internal/record"
)

type screen int

const (
	screenTypes screen = iota
	screenDetail
)

type typeItem struct {
	d record.Description
}

func (i typeItem) Title() string { return i.d.Name }
func (i typeItem) Description() string {
	return i.d.RecordType + " · " + actionsLine(i.d.Actions)
}
func (i typeItem) FilterValue() string { return i.d.Name + " " + i.d.TypeName }

type model struct {
	theme Theme
	deps  Deps

	scr    screen
	types  list.Model
	detail viewport.Model
	active record.Description

	workspaceFound   bool
	workspaceRoot    string
	workspaceAccount string

	toast string
}

// Run opens the schema browser and blocks until the user quits.
func Run(deps Deps) error {
	p := tea.NewProgram(wrapSafe(newModel(deps), deps.Logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newModel(deps Deps) model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Record types"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	return model{
		theme:  DefaultTheme(),
		deps:   deps,
		scr:    screenTypes,
		types:  l,
		detail: viewport.New(0, 0),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(cmdLoadTypes(m.deps), cmdRefreshWorkspace(m.deps))
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.types.SetSize(msg.Width-4, msg.Height-10)
		m.detail.Width = msg.Width - 8
		m.detail.Height = msg.Height - 12
		return m, nil

	case typesLoadedMsg:
		if msg.err != nil {
			m.toast = toastFor(msg.err)
			if m.deps.Logger != nil {
				m.deps.Logger.Error("tui.types", "err", msg.err)
			}
			return m, nil
		}
		items := make([]list.Item, 0, len(msg.types))
		for _, d := range msg.types {
			items = append(items, typeItem{d: d})
		}
		return m, m.types.SetItems(items)

	case workspaceRefreshedMsg:
		m.workspaceFound = msg.found
		m.workspaceRoot = msg.root
		m.workspaceAccount = msg.account
		// A missing workspace is already shown by the banner.
		if msg.err != nil && (msg.found || !domain.IsKind(msg.err, domain.KindNotFound)) {
			m.toast = toastFor(msg.err)
			if m.deps.Logger != nil {
				m.deps.Logger.Warn("tui.workspace", "cwd", msg.cwd, "err", msg.err)
			}
		}
		return m, nil

	case tea.KeyMsg:
		if m.scr == screenTypes && m.types.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.scr == screenTypes {
				return m, tea.Quit
			}
			m.scr = screenTypes
			return m, nil

		case "enter":
			if m.scr == screenTypes {
				it, ok := m.types.SelectedItem().(typeItem)
				if !ok {
					return m, nil
				}
				m.active = it.d
				m.detail.SetContent(renderDescription(m.theme, it.d))
				m.detail.GotoTop()
				m.scr = screenDetail
				m.toast = ""
				return m, nil
			}

		case "esc", "b":
			if m.scr == screenDetail {
				m.scr = screenTypes
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	switch m.scr {
	case screenTypes:
		m.types, cmd = m.types.Update(msg)
	case screenDetail:
		m.detail, cmd = m.detail.Update(msg)
	}
	return m, cmd
}

func (m model) View() string {
	wrap := lipgloss.NewStyle().Padding(1, 2)
	header := m.theme.Title.Render("suitemap") + "\n" +
		m.theme.Subtitle.Render("NetSuite record schemas") + "\n"

	banner := m.theme.Help.Render("No workspace here (run `suitemap init` to create one)")
	if m.workspaceFound {
		line := "Workspace: " + m.workspaceRoot
		if m.workspaceAccount != "" {
			line += fmt.Sprintf(" (account %s)", m.workspaceAccount)
		}
		banner = m.theme.Help.Render(line)
	}

	var b strings.Builder
	b.WriteString(header + "\n" + banner + "\n\n")

	switch m.scr {
	case screenTypes:
		b.WriteString(m.theme.Card.Render(m.types.View()))
		b.WriteString("\n" + m.theme.Help.Render("↑/↓ navigate • enter open • / filter • q quit"))
	case screenDetail:
		b.WriteString(m.theme.Card.Render(m.detail.View()))
		b.WriteString("\n" + m.theme.Help.Render("↑/↓ scroll • esc/b back • ctrl+c quit"))
	}

	if m.toast != "" {
		b.WriteString("\n" + m.theme.Toast.Render(m.toast))
	}
	return wrap.Render(b.String())
}
