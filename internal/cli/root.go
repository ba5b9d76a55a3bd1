package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/suitemap/internal/infra/logger"
	"github.com/aalvaropc/suitemap/internal/infra/workspacefinder"
)

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var debug bool
	var cleanup func() error

	cmd := &cobra.Command{
		Use:          "suitemap",
		Short:        "suitemap: typed NetSuite SuiteTalk records from the command line",
		SilenceUsage: true,
		PersistentPreRun: func(c *cobra.Command, _ []string) {
			cleanup, _ = logger.Setup(logger.Config{
				Root:    logRoot(),
				Debug:   debug,
				Command: c.CommandPath(),
			})
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if cleanup != nil {
				_ = cleanup()
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBrowser(debug)
		},
	}

	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable verbose logging to .suitemap/logs/suitemap.log")

	cmd.AddCommand(
		initCmd(),
		getCmd(),
		getListCmd(),
		initializeCmd(),
		addCmd(),
		updateCmd(),
		upsertCmd(),
		deleteCmd(),
		searchCmd(),
		runCmd(),
		validateCmd(),
		batchesCmd(),
		envsCmd(),
		schemaCmd(),
		browseCmd(&debug),
		versionCmd(),
	)
	return cmd
}

// logRoot is the workspace root when one is found, else the working directory.
func logRoot() string {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	wd, _ = filepath.Abs(wd)

	if root, ferr := workspacefinder.NewFinder().FindRoot(wd); ferr == nil && root != "" {
		return root
	}
	return wd
}
