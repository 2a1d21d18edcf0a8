package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// NewSessionCommand creates the session command group.
func NewSessionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage documents stored in the session database",
	}
	cmd.AddCommand(newSessionListCommand())
	cmd.AddCommand(newSessionDeleteCommand())
	return cmd
}

func newSessionListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openSessionStore(cmd, getConfig())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			docs, err := store.ListDocuments()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(docs) == 0 {
				_, _ = fmt.Fprintln(out, "No stored documents.")
				return nil
			}

			t := table.NewWriter()
			t.SetOutputMirror(out)
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"ID", "Name", "Sheets", "Updated"})
			for _, d := range docs {
				t.AppendRow(table.Row{d.ID, d.Name, d.Sheets, d.UpdatedAt.Format("2006-01-02 15:04")})
			}
			t.Render()
			return nil
		},
	}
}

func newSessionDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <document-id>",
		Short: "Delete a stored document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openSessionStore(cmd, getConfig())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteDocument(args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted document %s\n", args[0])
			return nil
		},
	}
}
