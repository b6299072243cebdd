package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Vladislavlhp7/data-lineage/internal/domain/entity"
	"github.com/Vladislavlhp7/data-lineage/internal/infrastructure/di"
	docqry "github.com/Vladislavlhp7/data-lineage/internal/usecase/document/query"
)

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <file-id>",
		Short: "Print the version history of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fileID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid file id %q: %w", args[0], err)
			}

			return withContainer(cmd.Context(), func(c *di.Container) error {
				output, err := c.Documents.ListVersions.Execute(cmd.Context(), docqry.ListDocumentVersionsInput{FileID: fileID})
				if err != nil {
					return err
				}
				printHistory(cmd, output.File, output.Versions)
				return nil
			})
		},
	}
}

func printHistory(cmd *cobra.Command, file *entity.File, versions []*entity.FileVersion) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%s), latest v%d\n\n", file.Name.Value(), file.ID, file.LatestVersion)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VERSION\tCREATED\tSIZE\tSUMMARY")
	for _, v := range versions {
		summary := "-"
		if v.ChangeSummary != nil {
			summary = *v.ChangeSummary
		}
		marker := ""
		if v.IsLatest(file.LatestVersion) {
			marker = " *"
		}
		fmt.Fprintf(w, "v%d%s\t%s\t%d\t%s\n",
			v.VersionNumber, marker, v.CreatedAt.Format("2006-01-02 15:04:05"), v.Size, summary)
	}
	w.Flush()
}
