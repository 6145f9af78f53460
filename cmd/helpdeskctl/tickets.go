package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagExportWorkspace string
	flagExportOutput    string
	flagImportFile      string
)

var ticketsCmd = &cobra.Command{
	Use:   "tickets",
	Short: "Exchange tickets with the external system as CSV",
}

var ticketsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a workspace's PENDING tickets as CSV",
	Long: `Export writes every PENDING ticket of the workspace as CSV, to stdout
or to the file given by --out. Nothing is written when there are no
pending tickets.

Examples:
  helpdeskctl tickets export --workspace 6f1c...   # to stdout
  helpdeskctl tickets export --workspace 6f1c... --out pending.csv`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.Close()

		result, err := rt.ticketService().ExportPendingTickets(cmd.Context(), flagExportWorkspace)
		if err != nil {
			return err
		}
		if result.Data == "" {
			fmt.Fprintln(cmd.ErrOrStderr(), result.Message)
			return nil
		}

		if flagExportOutput == "" {
			fmt.Fprintln(cmd.OutOrStdout(), result.Data)
			return nil
		}
		if err := os.WriteFile(flagExportOutput, []byte(result.Data+"\n"), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", flagExportOutput, err)
		}
		fmt.Fprintln(cmd.ErrOrStderr(), result.Message)
		return nil
	},
}

var ticketsImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Apply ticket statuses from a CSV file",
	Long: `Import reads a CSV with at least uuid and status columns and moves each
listed ticket to the given status. Rows naming unknown tickets, invalid
statuses or the ticket's current status are skipped.

Use --file - to read from stdin.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := readImportFile(cmd.InOrStdin(), flagImportFile)
		if err != nil {
			return err
		}

		rt, err := openRuntime(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.Close()

		result, err := rt.ticketService().ImportTicketStatuses(cmd.Context(), content)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	},
}

func readImportFile(stdin io.Reader, path string) (string, error) {
	if path == "-" {
		raw, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(raw), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(raw), nil
}

func init() {
	ticketsExportCmd.Flags().StringVar(&flagExportWorkspace, "workspace", "", "workspace UUID")
	ticketsExportCmd.Flags().StringVarP(&flagExportOutput, "out", "o", "", "output file (default stdout)")
	_ = ticketsExportCmd.MarkFlagRequired("workspace")

	ticketsImportCmd.Flags().StringVarP(&flagImportFile, "file", "f", "", "CSV file to import, or - for stdin")
	_ = ticketsImportCmd.MarkFlagRequired("file")

	ticketsCmd.AddCommand(ticketsExportCmd, ticketsImportCmd)
}
