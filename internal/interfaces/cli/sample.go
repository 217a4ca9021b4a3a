package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/turtacn/GeneHighlighter/internal/application/highlighting"
)

// DefaultSampleFile is written by the sample subcommand when no location is given.
const DefaultSampleFile = "sample_data.xlsx"

// NewSampleCmd creates the sample subcommand.
func NewSampleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sample [location]",
		Short: "Write a small workbook of biomedical abstracts to try the highlighter on",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			location := DefaultSampleFile
			if len(args) == 1 {
				location = args[0]
			}
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			objects, err := highlighting.NewObjectStore(cliCtx.Config.Storage, cliCtx.Logger)
			if err != nil {
				return err
			}
			storage := highlighting.NewStorage(objects)
			if err := highlighting.WriteSampleWorkbook(cmd.Context(), storage, location); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Sample data %s created successfully\n", location)
			fmt.Fprintf(out, "  - Rows: %d\n", len(highlighting.SampleRows)-1)
			fmt.Fprintf(out, "  - Columns: %d\n", len(highlighting.SampleRows[0]))
			return nil
		},
	}
}

//Personal.AI order the ending
