package tui

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aalvaropc/suitemap/internal/record"
)

func cmdRefreshWorkspace(deps Deps) tea.Cmd {
	return func() tea.Msg {
		wd, err := os.Getwd()
		if err != nil {
			return workspaceRefreshedMsg{cwd: "", found: false, err: fmt.Errorf("getwd: %w", err)}
		}
		if deps.WorkspaceLocator == nil {
			return workspaceRefreshedMsg{cwd: wd, found: false, err: errors.New("WorkspaceLocator is nil")}
		}

		root, findErr := deps.WorkspaceLocator.FindRoot(wd)
		if findErr != nil {
			return workspaceRefreshedMsg{cwd: wd, found: false, err: findErr}
		}

		msg := workspaceRefreshedMsg{cwd: wd, found: true, root: root}
		if deps.LoadConfig != nil {
			cfg, err := deps.LoadConfig(root)
			if err != nil {
				msg.err = err
				return msg
			}
			msg.account = cfg.Account.ID
		}
		return msg
	}
}

func cmdLoadTypes(deps Deps) tea.Cmd {
	return func() tea.Msg {
		if deps.Registry == nil {
			return typesLoadedMsg{err: errors.New("Registry is nil")}
		}

		types := deps.Registry.Types()
		out := make([]record.Description, 0, len(types))
		for _, t := range types {
			out = append(out, t.Describe())
		}
		return typesLoadedMsg{types: out}
	}
}
