package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Vladislavlhp7/data-lineage/internal/infrastructure/di"
	"github.com/Vladislavlhp7/data-lineage/internal/job"
)

func newSweepCmd() *cobra.Command {
	var grace time.Duration

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Remove stored content that has no file record",
		Long: "Runs the orphan sweep once. Namespaces in the content store whose file " +
			"record no longer exists, and which are older than the grace period, are deleted.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd.Context(), func(c *di.Container) error {
				sweeper := job.NewOrphanSweepJob(c.FileRepo, c.ContentStore, grace)
				result, err := sweeper.Run(cmd.Context())
				if err != nil {
					return fmt.Errorf("orphan sweep: %w", err)
				}

				fmt.Fprintf(cmd.OutOrStdout(), "scanned: %d, orphans: %d, deleted: %d, failed: %d\n",
					result.Scanned, result.Orphans, result.Deleted, result.Failed)
				if result.Failed > 0 {
					return fmt.Errorf("%d orphan namespaces could not be deleted", result.Failed)
				}
				return nil
			})
		},
	}

	cmd.Flags().DurationVar(&grace, "grace", 10*time.Minute, "Skip namespaces modified more recently than this")

	return cmd
}
