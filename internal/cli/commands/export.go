package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gridforge-labs/gridforge/internal/config"
	"github.com/gridforge-labs/gridforge/internal/convert"
	"github.com/gridforge-labs/gridforge/internal/document"
)

// NewExportCommand creates the export command.
func NewExportCommand() *cobra.Command {
	var docID string
	var sheetName string
	var pretty bool

	cmd := &cobra.Command{
		Use:   "export [input] <output>",
		Short: "Export a sheet to CSV, XLSX, or JSON",
		Long: `Convert a data file, or a sheet from a stored session document,
into another format. The target format is inferred from the output
file's extension.

With two arguments, the first is imported and its sheet written to the
second. With --doc, the sheet comes from the session database instead.`,
		Example: `  # Convert between formats
  gridforge export items.csv items.xlsx

  # Export from a stored document
  gridforge export --doc 4f5a... items.json --sheet items`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfig()
			logger := config.GetLogger(cmd.Context())

			var sheets []*document.Sheet
			var output string

			switch {
			case docID != "":
				if len(args) != 1 {
					return fmt.Errorf("--doc takes a single output file argument")
				}
				output = args[0]
				store, err := openSessionStore(cmd, cfg)
				if err != nil {
					return err
				}
				defer func() { _ = store.Close() }()
				sheets, err = store.LoadDocument(docID)
				if err != nil {
					return fmt.Errorf("failed to load document %s: %w", docID, err)
				}

			case len(args) == 2:
				output = args[1]
				res := convert.ImportFile(args[0], convert.ImportOptions{
					HasHeader: cfg.GetImportConfig().HasHeader,
					Delimiter: cfg.GetImportConfig().DelimiterRune(),
				}, logger)
				if !res.Success {
					return fmt.Errorf("import failed: %s", res.Error)
				}
				sheets = res.Sheets

			default:
				return fmt.Errorf("provide an input file or --doc")
			}

			sheet, err := pickSheet(sheets, sheetName)
			if err != nil {
				return err
			}

			exp := cfg.GetExportConfig()
			res := convert.ExportFile(output, sheet, convert.ExportOptions{
				WriteHeader: exp.WriteHeader,
				Delimiter:   exp.DelimiterRune(),
				Pretty:      pretty || exp.Pretty,
				CarryStyles: true,
			}, logger)
			if !res.Success {
				return fmt.Errorf("export failed: %s", res.Error)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported %s (%d rows) to %s\n",
				sheet.Name, len(sheet.Rows), output)
			return nil
		},
	}

	cmd.Flags().StringVar(&docID, "doc", "", "Export from a stored document id")
	cmd.Flags().StringVar(&sheetName, "sheet", "", "Sheet name when the source has several")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent JSON output")

	return cmd
}
