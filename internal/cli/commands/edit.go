package commands

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/gridforge-labs/gridforge/internal/config"
	"github.com/gridforge-labs/gridforge/internal/convert"
	"github.com/gridforge-labs/gridforge/internal/document"
	"github.com/gridforge-labs/gridforge/internal/engine"
	"github.com/gridforge-labs/gridforge/internal/tui"
)

// NewEditCommand creates the edit command.
func NewEditCommand() *cobra.Command {
	var template string
	var watch bool
	var noWatch bool

	cmd := &cobra.Command{
		Use:   "edit [file]",
		Short: "Open the interactive grid editor",
		Long: `Open a data file in the terminal grid editor. Without a file, a new
sheet is created from a template (--template, default blank).

The editor supports cell editing with formulas, undo/redo, row and
column operations, filtering, and search. --watch reloads the document
when the file changes on disk.`,
		Example: `  gridforge edit items.csv
  gridforge edit items.csv --watch
  gridforge edit --template enemies`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfig()
			logger := config.GetLogger(cmd.Context())

			eng := engine.New(engine.Config{Logger: logger, HistoryLimit: cfg.HistoryLimit})

			filePath := ""
			if len(args) > 0 {
				filePath = args[0]
				if _, err := os.Stat(filePath); err == nil {
					res := convert.ImportFile(filePath, convert.ImportOptions{
						HasHeader: cfg.GetImportConfig().HasHeader,
						Delimiter: cfg.GetImportConfig().DelimiterRune(),
					}, logger)
					if !res.Success {
						return fmt.Errorf("import failed: %s", res.Error)
					}
					eng.ReplaceSheets(res.Sheets)
				} else {
					// New file: start from the configured template.
					sheet, err := newTemplateSheet(cfg, template, filePath)
					if err != nil {
						return err
					}
					eng.ReplaceSheets([]*document.Sheet{sheet})
				}
			} else {
				sheet, err := newTemplateSheet(cfg, template, "")
				if err != nil {
					return err
				}
				eng.ReplaceSheets([]*document.Sheet{sheet})
			}

			watchEnabled := cfg.GetEditorConfig().Watch || watch
			if noWatch {
				watchEnabled = false
			}

			model := tui.New(tui.Options{
				Engine:   eng,
				FilePath: filePath,
				Watch:    watchEnabled,
				Logger:   logger,
			})

			p := tea.NewProgram(model, tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("editor failed: %w", err)
			}

			if eng.Dirty() {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Warning: unsaved changes were discarded")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&template, "template", "", "Template for new sheets (blank, items, enemies, levels)")
	cmd.Flags().BoolVar(&watch, "watch", false, "Reload when the file changes on disk")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "Disable file watching even if configured")

	return cmd
}

func newTemplateSheet(cfg *config.Config, template, filePath string) (*document.Sheet, error) {
	if template == "" {
		template = cfg.Template
	}
	name := "Sheet1"
	if filePath != "" {
		name = sheetNameForPath(filePath)
	}
	return document.NewSheetFromTemplate(name, template)
}
