package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/clinical-calculator-mcp-server/internal/history"
	"github.com/clinical-calculator-mcp-server/internal/service"
)

func (a *app) historyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect, export and import recorded evaluations",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.init(cmd, args); err != nil {
				return err
			}
			if a.v.GetString(keyHistoryDB) == "" {
				return errors.New("history commands need --history-db")
			}
			return nil
		},
	}
	cmd.AddCommand(a.historyListCommand(), a.historyExportCommand(), a.historyImportCommand())
	return cmd
}

func (a *app) historyListCommand() *cobra.Command {
	var filter history.Filter

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded evaluations, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.calc()
			if err != nil {
				return err
			}
			entries, total, err := svc.History(cmd.Context(), filter)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			page := map[string]any{"entries": entries, "total": total}
			return a.render(out, page, func() error {
				rows := make([][]string, len(entries))
				for i, e := range entries {
					rows[i] = []string{
						e.CreatedAt.Local().Format(time.DateTime),
						e.CalculatorID,
						fmt.Sprintf("%g", e.Score),
						string(e.Interpretation.Risk),
						e.PatientID,
						e.ID,
					}
				}
				newStyles(a.v.GetBool(keyNoColor)).table(out, []string{"WHEN", "CALCULATOR", "SCORE", "RISK", "PATIENT", "ID"}, rows)
				fmt.Fprintf(out, "%d of %d\n", len(entries), total)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&filter.CalculatorID, "calculator", "", "only this calculator")
	cmd.Flags().StringVar(&filter.PatientID, "patient", "", "only this patient")
	cmd.Flags().IntVar(&filter.Limit, "limit", history.DefaultListLimit, "maximum entries")
	cmd.Flags().IntVar(&filter.Offset, "offset", 0, "entries to skip")
	return cmd
}

func (a *app) historyExportCommand() *cobra.Command {
	var (
		format string
		path   string
		filter history.Filter
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export recorded evaluations as JSON or Parquet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != service.FormatJSON && format != service.FormatParquet {
				return fmt.Errorf("unsupported format %q", format)
			}
			if path == "" {
				path = fmt.Sprintf("history_export_%s.%s", time.Now().Format("20060102_150405"), format)
			}
			svc, err := a.calc()
			if err != nil {
				return err
			}

			file, err := os.Create(path)
			if err != nil {
				return err
			}
			n, err := svc.ExportHistory(cmd.Context(), format, filter, file)
			if cerr := file.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				_ = os.Remove(path)
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "exported %d evaluations to %s\n", n, path)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", service.FormatJSON, "json or parquet")
	cmd.Flags().StringVar(&path, "out", "", "output file (default: history_export_<time>.<format>)")
	cmd.Flags().StringVar(&filter.CalculatorID, "calculator", "", "parquet only: restrict to one calculator")
	return cmd
}

func (a *app) historyImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import a JSON history export, skipping evaluations already recorded",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.calc()
			if err != nil {
				return err
			}
			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()

			imported, skipped, err := svc.ImportHistory(cmd.Context(), file)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d evaluations, skipped %d\n", imported, skipped)
			return nil
		},
	}
}
