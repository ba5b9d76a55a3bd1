package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/suitemap/internal/infra/logger"
	"github.com/aalvaropc/suitemap/internal/usecase"
)

func validateCmd() *cobra.Command {
	var workspace string
	var batch string
	var env string

	c := &cobra.Command{
		Use:   "validate",
		Short: "Resolve and type-check a batch against an environment (no remote calls)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}

			batchPath, err := resolveBatchPath(ws, batch)
			if err != nil {
				return err
			}

			uc := usecase.NewValidateBatch(ws.batches, ws.envs, ws.registry, usecase.WithLogger(logger.L()))
			if err := uc.Execute(cmd.Context(), batchPath, resolveEnvironmentArg(ws, env)); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "OK")
			return nil
		},
	}

	c.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	c.Flags().StringVarP(&batch, "batch", "b", "", "Batch name or path (required)")
	c.Flags().StringVarP(&env, "env", "e", "", "Environment name or path (optional; defaults to workspace default env)")

	_ = c.MarkFlagRequired("batch")
	return c
}
