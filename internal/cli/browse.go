package cli

import (
	"github.com/spf13/cobra"

	"github.com/aalvaropc/suitemap/internal/infra/logger"
	"github.com/aalvaropc/suitemap/internal/infra/workspacefinder"
	"github.com/aalvaropc/suitemap/internal/records"
	"github.com/aalvaropc/suitemap/internal/ui/tui"
)

func browseCmd(debug *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse record schemas interactively",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runBrowser(*debug)
		},
	}
}

func runBrowser(debug bool) error {
	return tui.Run(tui.Deps{
		Registry:         records.Registry(),
		WorkspaceLocator: workspacefinder.NewFinder(),
		LoadConfig:       workspacefinder.LoadConfig,
		Logger:           logger.L(),
		Debug:            debug,
	})
}
