package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gridforge-labs/gridforge/internal/config"
	"github.com/gridforge-labs/gridforge/internal/convert"
	"github.com/gridforge-labs/gridforge/internal/engine"
	"github.com/gridforge-labs/gridforge/internal/search"
)

// NewSearchCommand creates the search command.
func NewSearchCommand() *cobra.Command {
	var opts search.Options
	var replaceWith string
	var write bool

	cmd := &cobra.Command{
		Use:   "search <file> <text>",
		Short: "Search (and optionally replace) across a data file",
		Long: `Find every cell whose value matches the given text. Literal by
default; --regex treats the text as a regular expression. Formulas
are searched too when --formulas is set.

With --replace the matched portion of each cell is rewritten. Use
--write to save the result back to the file; without it the command
only reports what would change.`,
		Example: `  gridforge search items.csv sword
  gridforge search items.csv '^Iron' --regex --case
  gridforge search items.csv sword --replace blade --write`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfig()
			logger := config.GetLogger(cmd.Context())
			path, text := args[0], args[1]

			res := convert.ImportFile(path, convert.ImportOptions{
				HasHeader: cfg.GetImportConfig().HasHeader,
				Delimiter: cfg.GetImportConfig().DelimiterRune(),
			}, logger)
			if !res.Success {
				return fmt.Errorf("import failed: %s", res.Error)
			}

			matches := search.InSheets(res.Sheets, text, opts)

			if !cmd.Flags().Changed("replace") {
				return renderMatches(cmd.OutOrStdout(), matches, cfg.OutputFormat)
			}

			// Replace through the mutation engine so each changed cell
			// goes through the same path the editor uses.
			eng := engine.New(engine.Config{Logger: logger, HistoryLimit: cfg.HistoryLimit})
			eng.AddSheets(res.Sheets)

			changed := 0
			for _, m := range matches {
				sheet := eng.Sheet(m.SheetID)
				if sheet == nil {
					continue
				}
				row := sheet.Row(m.RowID)
				if row == nil {
					continue
				}
				cell := row.Cells[m.ColumnID]
				if cell == nil {
					continue
				}
				if m.InFormula {
					eng.UpdateCell(m.SheetID, m.RowID, m.ColumnID,
						search.ReplaceInText(cell.Formula, text, replaceWith, opts))
				} else {
					next := search.ReplaceInCell(cell, text, replaceWith, opts)
					eng.UpdateCell(m.SheetID, m.RowID, m.ColumnID, formatRaw(next))
				}
				changed++
			}

			out := cmd.OutOrStdout()
			if !write {
				_, _ = fmt.Fprintf(out, "%d cell(s) would change (use --write to save)\n", changed)
				return nil
			}

			for _, sheet := range eng.Sheets() {
				exp := cfg.GetExportConfig()
				wres := convert.ExportFile(path, sheet, convert.ExportOptions{
					WriteHeader: exp.WriteHeader,
					Delimiter:   exp.DelimiterRune(),
				}, logger)
				if !wres.Success {
					return fmt.Errorf("write failed: %s", wres.Error)
				}
				break // single-sheet formats write the first sheet
			}
			_, _ = fmt.Fprintf(out, "Replaced %d cell(s) in %s\n", changed, path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.UseRegex, "regex", false, "Treat the search text as a regular expression")
	cmd.Flags().BoolVar(&opts.MatchCase, "case", false, "Case-sensitive matching")
	cmd.Flags().BoolVar(&opts.MatchWholeCell, "whole", false, "Match whole cell values only")
	cmd.Flags().BoolVar(&opts.SearchFormulas, "formulas", false, "Search inside formulas too")
	cmd.Flags().StringVar(&replaceWith, "replace", "", "Replacement text")
	cmd.Flags().BoolVar(&write, "write", false, "Write replacements back to the file")

	return cmd
}
