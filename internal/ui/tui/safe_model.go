package tui

import (
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
)

const crashToast = "Unexpected error (see logs)"

// guarded keeps a panic in the browser from tearing down the terminal: it logs
// the panic with the screen that was active and drops back to the type list.
type guarded struct {
	inner model
	log   *slog.Logger
}

func wrapSafe(m model, log *slog.Logger) guarded {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return guarded{inner: m, log: log}
}

func (g guarded) Init() tea.Cmd { return g.inner.Init() }

func (g guarded) Update(msg tea.Msg) (next tea.Model, cmd tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			g.report("update", r)
			g.inner.scr = screenTypes
			g.inner.toast = crashToast
			next, cmd = g, nil
		}
	}()

	updated, c := g.inner.Update(msg)
	switch v := updated.(type) {
	case model:
		g.inner = v
	case guarded:
		g = v
	}
	return g, c
}

func (g guarded) View() (out string) {
	defer func() {
		if r := recover(); r != nil {
			g.report("view", r)
			out = crashToast
		}
	}()
	return g.inner.View()
}

func (g guarded) report(phase string, r any) {
	g.log.Error("tui.panic",
		"phase", phase,
		"screen", int(g.inner.scr),
		"record_type", g.inner.active.TypeName,
		"panic", fmt.Sprint(r),
		"stack", string(debug.Stack()),
	)
}

var _ tea.Model = guarded{}
