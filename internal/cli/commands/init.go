package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gridforge-labs/gridforge/internal/config"
	"github.com/gridforge-labs/gridforge/internal/convert"
	"github.com/gridforge-labs/gridforge/internal/document"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool
	var example bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new gridforge project",
		Long: `Initialize a new gridforge project with a default configuration file.

This creates:
  - gridforge.yaml configuration file
  - .gridforge/ directory for the session database

Use --example to also create sample data sheets built from the item,
enemy, and level templates.`,
		Example: `  # Initialize in current directory
  gridforge init

  # Initialize with sample game-design sheets
  gridforge init --example

  # Initialize in a new directory
  gridforge init my-game --example`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runInit(cmd, dir, force, example)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")
	cmd.Flags().BoolVar(&example, "example", false, "Create sample sheets from the built-in templates")

	return cmd
}

// initConfig is the scaffolded gridforge.yaml content.
type initConfig struct {
	SessionPath  string `yaml:"session_path"`
	Template     string `yaml:"template"`
	HistoryLimit int    `yaml:"history_limit"`
	Import       struct {
		HasHeader bool   `yaml:"has_header"`
		Delimiter string `yaml:"delimiter"`
	} `yaml:"import"`
	Export struct {
		WriteHeader bool   `yaml:"write_header"`
		Delimiter   string `yaml:"delimiter"`
	} `yaml:"export"`
	Editor struct {
		Watch        bool `yaml:"watch"`
		FrozenHeader bool `yaml:"frozen_header"`
	} `yaml:"editor"`
}

func runInit(cmd *cobra.Command, dir string, force, example bool) error {
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	configPath := filepath.Join(dir, config.ConfigFileName)
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("gridforge.yaml already exists. Use --force to overwrite")
	}

	var scaffold initConfig
	scaffold.SessionPath = config.DefaultSessionFile
	scaffold.Template = config.DefaultTemplate
	scaffold.HistoryLimit = config.DefaultHistoryLimit
	scaffold.Import.HasHeader = true
	scaffold.Import.Delimiter = config.DefaultDelimiter
	scaffold.Export.WriteHeader = true
	scaffold.Export.Delimiter = config.DefaultDelimiter
	scaffold.Editor.Watch = false
	scaffold.Editor.FrozenHeader = true

	data, err := yaml.Marshal(&scaffold)
	if err != nil {
		return fmt.Errorf("failed to render config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", configPath, err)
	}

	if err := os.MkdirAll(filepath.Join(dir, ".gridforge"), 0750); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Created %s\n", configPath)

	if example {
		logger := config.GetLogger(cmd.Context())
		for _, name := range []string{"items", "enemies", "levels"} {
			sheet, err := document.NewSheetFromTemplate(name, name)
			if err != nil {
				return err
			}
			path := filepath.Join(dir, name+".csv")
			if _, err := os.Stat(path); err == nil && !force {
				_, _ = fmt.Fprintf(out, "Skipped %s (exists)\n", path)
				continue
			}
			res := convert.ExportFile(path, sheet, convert.ExportOptions{WriteHeader: true}, logger)
			if !res.Success {
				return fmt.Errorf("failed to write sample sheet %s: %s", path, res.Error)
			}
			_, _ = fmt.Fprintf(out, "Created %s\n", path)
		}
	}

	_, _ = fmt.Fprintln(out, "\nNext steps:")
	_, _ = fmt.Fprintln(out, "  gridforge edit items.csv     # open the grid editor")
	_, _ = fmt.Fprintln(out, "  gridforge view items.csv     # print a sheet")
	return nil
}
