package commands

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/gridforge-labs/gridforge/internal/config"
	"github.com/gridforge-labs/gridforge/internal/convert"
	"github.com/gridforge-labs/gridforge/internal/document"
	"github.com/gridforge-labs/gridforge/internal/engine"
	"github.com/gridforge-labs/gridforge/internal/filter"
	"github.com/gridforge-labs/gridforge/internal/search"
	"github.com/gridforge-labs/gridforge/internal/validate"
)

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	var template string

	cmd := &cobra.Command{
		Use:   "repl [file]",
		Short: "Edit a document interactively from a line-based shell",
		Long: `Open a document in a read-eval-print loop. Cells are addressed in
A1 notation; values starting with "=" are stored as formulas.

Type .help inside the REPL for the command list.`,
		Example: `  gridforge repl items.csv
  gridforge repl --template enemies`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfig()
			logger := config.GetLogger(cmd.Context())

			eng := engine.New(engine.Config{Logger: logger, HistoryLimit: cfg.HistoryLimit})

			filePath := ""
			if len(args) > 0 {
				filePath = args[0]
				res := convert.ImportFile(filePath, convert.ImportOptions{
					HasHeader: cfg.GetImportConfig().HasHeader,
					Delimiter: cfg.GetImportConfig().DelimiterRune(),
				}, logger)
				if !res.Success {
					return fmt.Errorf("import failed: %s", res.Error)
				}
				eng.ReplaceSheets(res.Sheets)
			} else {
				sheet, err := newTemplateSheet(cfg, template, "")
				if err != nil {
					return err
				}
				eng.ReplaceSheets([]*document.Sheet{sheet})
			}

			return runREPL(cmd, cfg, eng, filePath)
		},
	}

	cmd.Flags().StringVar(&template, "template", "", "Template for new sheets (blank, items, enemies, levels)")

	return cmd
}

type replSession struct {
	cmd      *cobra.Command
	cfg      *config.Config
	eng      *engine.Engine
	filePath string
	sheetIdx int
}

func runREPL(cmd *cobra.Command, cfg *config.Config, eng *engine.Engine, filePath string) error {
	// Project-local history file next to the session database.
	historyFile := filepath.Join(filepath.Dir(cfg.SessionPath), "repl_history")

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "gridforge> ",
		HistoryFile:     historyFile,
		AutoComplete:    replCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out, "gridforge REPL")
	_, _ = fmt.Fprintln(out, "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(out)

	s := &replSession{cmd: cmd, cfg: cfg, eng: eng, filePath: filePath}

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == ".quit" || line == ".exit" {
			break
		}

		if err := s.eval(line); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
	}

	if eng.Dirty() {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Warning: unsaved changes were discarded")
	}
	return nil
}

func replCompleter() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem("set"),
		readline.PcItem("get"),
		readline.PcItem("show"),
		readline.PcItem("undo"),
		readline.PcItem("redo"),
		readline.PcItem("addrow"),
		readline.PcItem("delrow"),
		readline.PcItem("duprow"),
		readline.PcItem("addcol"),
		readline.PcItem("delcol"),
		readline.PcItem("filter"),
		readline.PcItem("clearfilter"),
		readline.PcItem("search"),
		readline.PcItem("validate"),
		readline.PcItem("save"),
		readline.PcItem(".sheets"),
		readline.PcItem(".sheet"),
		readline.PcItem(".help"),
		readline.PcItem(".quit"),
	)
}

func (s *replSession) sheet() (*document.Sheet, error) {
	sheets := s.eng.Sheets()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets")
	}
	if s.sheetIdx >= len(sheets) {
		s.sheetIdx = 0
	}
	return sheets[s.sheetIdx], nil
}

func (s *replSession) eval(line string) error {
	out := s.cmd.OutOrStdout()
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])
	args := parts[1:]

	switch command {
	case ".help":
		printREPLHelp(out)
		return nil

	case ".sheets":
		for i, sh := range s.eng.Sheets() {
			marker := " "
			if i == s.sheetIdx {
				marker = "*"
			}
			_, _ = fmt.Fprintf(out, "%s %s (%d columns, %d rows)\n",
				marker, sh.Name, len(sh.Columns), len(sh.Rows))
		}
		return nil

	case ".sheet":
		if len(args) != 1 {
			return fmt.Errorf("usage: .sheet <name>")
		}
		for i, sh := range s.eng.Sheets() {
			if strings.EqualFold(sh.Name, args[0]) {
				s.sheetIdx = i
				return nil
			}
		}
		return fmt.Errorf("sheet %q not found", args[0])
	}

	sheet, err := s.sheet()
	if err != nil {
		return err
	}

	switch command {
	case "show":
		return renderSheet(out, sheet, s.cfg.OutputFormat)

	case "get":
		if len(args) != 1 {
			return fmt.Errorf("usage: get <ref>")
		}
		row, col, err := resolveRef(sheet, args[0])
		if err != nil {
			return err
		}
		cell := row.Cells[col.ID]
		if cell == nil || (cell.Value == nil && cell.Formula == "") {
			_, _ = fmt.Fprintln(out, "(empty)")
			return nil
		}
		if cell.Formula != "" {
			_, _ = fmt.Fprintf(out, "%s  (%s)\n", document.FormatValue(cell.Value), cell.Formula)
		} else {
			_, _ = fmt.Fprintln(out, document.FormatValue(document.CoerceToType(cell.Value, col.Type)))
		}
		return nil

	case "set":
		if len(args) < 1 {
			return fmt.Errorf("usage: set <ref> <value>")
		}
		row, col, err := resolveRef(sheet, args[0])
		if err != nil {
			return err
		}
		rest := strings.TrimSpace(line[len(parts[0]):])
		value := strings.TrimSpace(rest[len(args[0]):])
		s.eng.UpdateCell(sheet.ID, row.ID, col.ID, value)
		return nil

	case "undo":
		if !s.eng.Undo() {
			_, _ = fmt.Fprintln(out, "nothing to undo")
		}
		return nil

	case "redo":
		if !s.eng.Redo() {
			_, _ = fmt.Fprintln(out, "nothing to redo")
		}
		return nil

	case "addrow":
		afterID := ""
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("usage: addrow [row-number]")
			}
			r := sheet.RowAt(n - 1)
			if r == nil {
				return fmt.Errorf("no row %d", n)
			}
			afterID = r.ID
		}
		s.eng.AddRow(sheet.ID, afterID)
		return nil

	case "delrow", "duprow":
		if len(args) != 1 {
			return fmt.Errorf("usage: %s <row-number>", command)
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("usage: %s <row-number>", command)
		}
		r := sheet.RowAt(n - 1)
		if r == nil {
			return fmt.Errorf("no row %d", n)
		}
		if command == "delrow" {
			s.eng.DeleteRow(sheet.ID, r.ID)
		} else {
			s.eng.DuplicateRow(sheet.ID, r.ID)
		}
		return nil

	case "addcol":
		afterID := ""
		if len(args) == 1 {
			idx := document.LetterToIndex(strings.ToUpper(args[0]))
			c := sheet.ColumnAt(idx)
			if c == nil {
				return fmt.Errorf("no column %s", args[0])
			}
			afterID = c.ID
		}
		s.eng.AddColumn(sheet.ID, afterID)
		return nil

	case "delcol":
		if len(args) != 1 {
			return fmt.Errorf("usage: delcol <letter>")
		}
		idx := document.LetterToIndex(strings.ToUpper(args[0]))
		c := sheet.ColumnAt(idx)
		if c == nil {
			return fmt.Errorf("no column %s", args[0])
		}
		s.eng.DeleteColumn(sheet.ID, c.ID)
		return nil

	case "filter":
		if len(args) == 0 {
			return fmt.Errorf("usage: filter <column op value>")
		}
		configs, err := filter.ParseExprList(sheet, strings.Join(args, " "))
		if err != nil {
			return err
		}
		s.eng.FilterSheet(sheet.ID, configs)
		visible := 0
		for _, r := range sheet.Rows {
			if !r.Hidden {
				visible++
			}
		}
		_, _ = fmt.Fprintf(out, "%d row(s) visible\n", visible)
		return nil

	case "clearfilter":
		s.eng.ClearFilters(sheet.ID)
		return nil

	case "search":
		if len(args) == 0 {
			return fmt.Errorf("usage: search <text>")
		}
		matches := search.InSheet(sheet, strings.Join(args, " "), search.Options{})
		return renderMatches(out, matches, s.cfg.OutputFormat)

	case "validate":
		return renderIssues(out, sheet, validate.Sheet(sheet), s.cfg.OutputFormat)

	case "save":
		path := s.filePath
		if len(args) == 1 {
			path = args[0]
		}
		if path == "" {
			return fmt.Errorf("usage: save <file> (no backing file)")
		}
		exp := s.cfg.GetExportConfig()
		res := convert.ExportFile(path, sheet, convert.ExportOptions{
			WriteHeader: exp.WriteHeader,
			Delimiter:   exp.DelimiterRune(),
		}, config.GetLogger(s.cmd.Context()))
		if !res.Success {
			return fmt.Errorf("save failed: %s", res.Error)
		}
		s.eng.MarkSaved()
		_, _ = fmt.Fprintf(out, "saved %s\n", path)
		return nil
	}

	return fmt.Errorf("unknown command %q (try .help)", command)
}

// resolveRef maps an A1-style reference to its row and column.
func resolveRef(sheet *document.Sheet, ref string) (*document.Row, *document.Column, error) {
	ref = strings.ToUpper(strings.TrimSpace(ref))
	split := 0
	for split < len(ref) && unicode.IsLetter(rune(ref[split])) {
		split++
	}
	if split == 0 || split == len(ref) {
		return nil, nil, fmt.Errorf("bad cell reference %q", ref)
	}
	colIdx := document.LetterToIndex(ref[:split])
	rowNum, err := strconv.Atoi(ref[split:])
	if err != nil || rowNum < 1 {
		return nil, nil, fmt.Errorf("bad cell reference %q", ref)
	}
	col := sheet.ColumnAt(colIdx)
	if col == nil {
		return nil, nil, fmt.Errorf("no column %s", ref[:split])
	}
	row := sheet.RowAt(rowNum - 1)
	if row == nil {
		return nil, nil, fmt.Errorf("no row %d", rowNum)
	}
	return row, col, nil
}

func printREPLHelp(w io.Writer) {
	help := `Commands:
  set <ref> <value>   Set a cell ("=B2*2" stores a formula)
  get <ref>           Print a cell's value (and formula)
  show                Print the active sheet
  undo / redo         Step through edit history
  addrow [n]          Insert a row (after row n)
  delrow <n>          Delete row n
  duprow <n>          Duplicate row n
  addcol [letter]     Insert a column (after the given column)
  delcol <letter>     Delete a column
  filter <expr>       Filter rows, e.g. "Rarity=epic, Value>10"
  clearfilter         Show all rows again
  search <text>       Find matching cells
  validate            Run validation over the sheet
  save [file]         Write the sheet back to disk

  .sheets             List sheets (* marks the active one)
  .sheet <name>       Switch the active sheet
  .help               Show this help
  .quit               Exit`
	_, _ = fmt.Fprintln(w, help)
}
