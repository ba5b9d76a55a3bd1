package tui

import (
	"log/slog"

	"github.com/aalvaropc/suitemap/internal/domain"
	"github.com/aalvaropc/suitemap/internal/ports"
	"github.com/aalvaropc/suitemap/internal/record"
)

type Deps struct {
	Registry         *record.Registry
	WorkspaceLocator ports.WorkspaceLocator
	// LoadConfig reads the workspace config once a root is found; optional.
	LoadConfig func(root string) (domain.Config, error)

	Logger *slog.Logger
	Debug  bool
}
