package tui

import "github.com/aalvaropc/suitemap/internal/record"

type workspaceRefreshedMsg struct {
	cwd   string
	found bool
	root  string
	// account is the configured account id, when the workspace config loaded.
	account string
	err     error
}

type typesLoadedMsg struct {
	types []record.Description
	err   error
}
