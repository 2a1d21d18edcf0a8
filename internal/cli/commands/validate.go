package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gridforge-labs/gridforge/internal/config"
	"github.com/gridforge-labs/gridforge/internal/convert"
	"github.com/gridforge-labs/gridforge/internal/validate"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate <files...>",
		Short: "Check data files against their column types and rules",
		Long: `Import each file and run validation over every sheet: cell values
must match their column type, select cells must hold an allowed
option, and range rules must pass.

The command exits non-zero when any error-severity issue is found;
--strict also fails on warnings.`,
		Example: `  gridforge validate items.csv
  gridforge validate balance.xlsx --strict -o json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfig()
			logger := config.GetLogger(cmd.Context())

			sheets, err := convert.ImportFiles(cmd.Context(), args, convert.ImportOptions{
				HasHeader: cfg.GetImportConfig().HasHeader,
				Delimiter: cfg.GetImportConfig().DelimiterRune(),
			}, logger)
			if err != nil {
				return fmt.Errorf("import failed: %w", err)
			}

			totalErrors, totalWarnings := 0, 0
			for _, sheet := range sheets {
				result := validate.Sheet(sheet)
				totalErrors += len(result.Errors)
				totalWarnings += len(result.Warnings)
				if err := renderIssues(cmd.OutOrStdout(), sheet, result, cfg.OutputFormat); err != nil {
					return err
				}
			}

			if totalErrors > 0 || (strict && totalWarnings > 0) {
				return fmt.Errorf("validation failed: %d error(s), %d warning(s)",
					totalErrors, totalWarnings)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Fail on warnings as well as errors")

	return cmd
}
