package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gridforge-labs/gridforge/internal/config"
	"github.com/gridforge-labs/gridforge/internal/convert"
	"github.com/gridforge-labs/gridforge/internal/document"
)

// NewImportCommand creates the import command.
func NewImportCommand() *cobra.Command {
	var name string
	var noHeader bool
	var delimiter string

	cmd := &cobra.Command{
		Use:   "import <files...>",
		Short: "Import data files into a session document",
		Long: `Import one or more CSV, XLSX, or JSON files as sheets of a new
document stored in the session database. Files are imported
concurrently; sheet order follows the argument order.`,
		Example: `  gridforge import items.csv enemies.csv
  gridforge import balance.xlsx --name balance
  gridforge import loot.json --no-header`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfig()
			logger := config.GetLogger(cmd.Context())

			imp := cfg.GetImportConfig()
			opts := convert.ImportOptions{
				HasHeader: imp.HasHeader && !noHeader,
				Delimiter: imp.DelimiterRune(),
			}
			if delimiter != "" {
				opts.Delimiter = []rune(delimiter)[0]
			}

			sheets, err := convert.ImportFiles(cmd.Context(), args, opts, logger)
			if err != nil {
				return fmt.Errorf("import failed: %w", err)
			}

			if name == "" {
				base := filepath.Base(args[0])
				name = strings.TrimSuffix(base, filepath.Ext(base))
			}

			store, err := openSessionStore(cmd, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			docID := document.NewID()
			if err := store.SaveDocument(docID, name, sheets); err != nil {
				return fmt.Errorf("failed to save document: %w", err)
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Imported %d sheet(s) into document %q (%s)\n",
				len(sheets), name, docID)
			for _, s := range sheets {
				_, _ = fmt.Fprintf(out, "  %-20s %d columns, %d rows\n",
					s.Name, len(s.Columns), len(s.Rows))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Document name (default: first file's base name)")
	cmd.Flags().BoolVar(&noHeader, "no-header", false, "Treat the first row as data, not column names")
	cmd.Flags().StringVar(&delimiter, "delimiter", "", "CSV field delimiter")

	return cmd
}
