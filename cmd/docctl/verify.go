package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Vladislavlhp7/data-lineage/internal/infrastructure/di"
)

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <file-id>",
		Short: "Check stored content of every version against its checksum",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fileID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid file id %q: %w", args[0], err)
			}

			return withContainer(cmd.Context(), func(c *di.Container) error {
				results, err := c.Ledger.VerifyFile(cmd.Context(), fileID)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				broken := 0
				for _, r := range results {
					switch {
					case r.Err != nil:
						broken++
						fmt.Fprintf(out, "v%d\t%s\tERROR %v\n", r.VersionNumber, r.Location, r.Err)
					case !r.Intact:
						broken++
						fmt.Fprintf(out, "v%d\t%s\tMISMATCH\n", r.VersionNumber, r.Location)
					default:
						fmt.Fprintf(out, "v%d\t%s\tok\n", r.VersionNumber, r.Location)
					}
				}

				if broken > 0 {
					return fmt.Errorf("%d of %d versions failed verification", broken, len(results))
				}
				return nil
			})
		},
	}
}
