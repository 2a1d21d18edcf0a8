package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gridforge-labs/gridforge/internal/config"
	"github.com/gridforge-labs/gridforge/internal/convert"
	"github.com/gridforge-labs/gridforge/internal/document"
	"github.com/gridforge-labs/gridforge/internal/filter"
)

// NewViewCommand creates the view command.
func NewViewCommand() *cobra.Command {
	var sheetName string
	var filterExpr string

	cmd := &cobra.Command{
		Use:   "view <file>",
		Short: "Print a sheet from a data file",
		Long: `Import a CSV, XLSX, or JSON file and print one of its sheets.

XLSX workbooks may contain several sheets; use --sheet to pick one by
name. The output format follows the global --output flag.`,
		Example: `  gridforge view items.csv
  gridforge view balance.xlsx --sheet Enemies
  gridforge view items.csv -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfig()
			logger := config.GetLogger(cmd.Context())

			res := convert.ImportFile(args[0], convert.ImportOptions{
				HasHeader: cfg.GetImportConfig().HasHeader,
				Delimiter: cfg.GetImportConfig().DelimiterRune(),
			}, logger)
			if !res.Success {
				return fmt.Errorf("import failed: %s", res.Error)
			}

			sheet, err := pickSheet(res.Sheets, sheetName)
			if err != nil {
				return err
			}

			if filterExpr != "" {
				if err := applyViewFilter(sheet, filterExpr); err != nil {
					return err
				}
			}

			return renderSheet(cmd.OutOrStdout(), sheet, cfg.OutputFormat)
		},
	}

	cmd.Flags().StringVar(&sheetName, "sheet", "", "Sheet name (XLSX workbooks)")
	cmd.Flags().StringVar(&filterExpr, "filter", "", "Filter expression, e.g. 'Rarity=epic'")

	return cmd
}

// applyViewFilter hides rows not matching the comma-separated expressions.
func applyViewFilter(sheet *document.Sheet, expr string) error {
	configs, err := filter.ParseExprList(sheet, expr)
	if err != nil {
		return err
	}
	filter.Apply(sheet, configs)
	return nil
}

// pickSheet selects a sheet by name, or the first one when no name is given.
func pickSheet(sheets []*document.Sheet, name string) (*document.Sheet, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("file contains no sheets")
	}
	if name == "" {
		return sheets[0], nil
	}
	for _, s := range sheets {
		if s.Name == name {
			return s, nil
		}
	}
	return nil, fmt.Errorf("sheet %q not found", name)
}
