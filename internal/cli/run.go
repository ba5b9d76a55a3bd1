package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/suitemap/internal/domain"
	"github.com/aalvaropc/suitemap/internal/infra/logger"
	"github.com/aalvaropc/suitemap/internal/ports"
	"github.com/aalvaropc/suitemap/internal/usecase"
)

func runCmd() *cobra.Command {
	var workspace string
	var batch string
	var env string
	var noSave bool
	var format string

	c := &cobra.Command{
		Use:   "run",
		Short: "Run a batch of record actions against an environment",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}

			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}

			batchPath, err := resolveBatchPath(ws, batch)
			if err != nil {
				return err
			}

			opts := []usecase.Option{usecase.WithLogger(logger.L())}
			if ws.store != nil && !noSave {
				opts = append(opts, usecase.WithStore(ws.store))
			}

			dial := func(e domain.Environment) (ports.Dispatcher, error) {
				return ws.dispatcher(e, noSave)
			}
			uc := usecase.NewRunBatch(ws.batches, ws.envs, ws.registry, dial, opts...)

			run, runID, err := uc.Execute(cmd.Context(), batchPath, resolveEnvironmentArg(ws, env))
			if err != nil {
				// Print what ran before the failure (cancellation, journal errors).
				if len(run.Results) > 0 {
					_ = printRun(cmd.OutOrStdout(), run, runID, format)
				}
				return err
			}

			if err := printRun(cmd.OutOrStdout(), run, runID, format); err != nil {
				return err
			}

			if _, failed := run.Summary(); failed > 0 {
				return fmt.Errorf("run failed (%d failed step(s))", failed)
			}
			return nil
		},
	}

	c.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	c.Flags().StringVarP(&batch, "batch", "b", "", "Batch name or path (required)")
	c.Flags().StringVarP(&env, "env", "e", "", "Environment name or path (optional; defaults to workspace default env)")
	c.Flags().BoolVar(&noSave, "no-save", false, "Do not write the run or its exchanges to the journal")
	c.Flags().StringVar(&format, "format", formatPretty, "Output format: pretty|json")

	_ = c.MarkFlagRequired("batch")
	return c
}
