package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/contestlab/essay-intake/internal/common"
	"github.com/contestlab/essay-intake/internal/export"
	"github.com/contestlab/essay-intake/internal/ingest"
	"github.com/contestlab/essay-intake/internal/ledger"
	"github.com/contestlab/essay-intake/internal/pipeline"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	_ = godotenv.Load()
	cfg := common.LoadConfig()

	root := &cobra.Command{
		Use:           "essayctl",
		Short:         "Operate the essay intake pipeline from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newProcessCmd(cfg, logger))
	root.AddCommand(newStatsCmd(cfg, logger))
	root.AddCommand(newExportCmd(cfg, logger))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newProcessCmd(cfg *common.Config, logger *slog.Logger) *cobra.Command {
	var providerName string
	var appendLedger bool

	cmd := &cobra.Command{
		Use:   "process <file>",
		Short: "Run the full pipeline on a local upload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read upload: %w", err)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()

			ingestor := ingest.NewFSIngestor(cfg.Storage.ArtifactBaseDir, logger)
			ing, err := ingestor.Ingest(ctx, content, filepath.Base(args[0]))
			if err != nil {
				return err
			}

			runner := pipeline.NewRunner(logger)
			rec, report, err := runner.Process(ctx, pipeline.Request{
				SubmissionID: ing.SubmissionID,
				ArtifactDir:  ing.ArtifactDir,
				ImagePath:    ing.SavedPath,
				ProviderName: providerName,
			})
			if err != nil {
				return err
			}

			out := map[string]any{"record": rec, "report": report}
			if appendLedger {
				csvLedger := ledger.NewCSVLedger(cfg.Storage.LedgerDir, logger)
				path, err := csvLedger.Append(rec)
				if err != nil {
					return err
				}
				out["ledger_path"] = path
			}
			return printJSON(out)
		},
	}
	cmd.Flags().StringVar(&providerName, "provider", cfg.OCR.Provider, "OCR provider name")
	cmd.Flags().BoolVar(&appendLedger, "append", false, "append the record to the ledger")
	return cmd
}

func newStatsCmd(cfg *common.Config, logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print ledger record counts",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			stats, err := ledger.NewCSVLedger(cfg.Storage.LedgerDir, logger).Stats()
			if err != nil {
				return err
			}
			return printJSON(stats)
		},
	}
}

func newExportCmd(cfg *common.Config, logger *slog.Logger) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export both ledgers as an XLSX workbook",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			csvLedger := ledger.NewCSVLedger(cfg.Storage.LedgerDir, logger)
			b, err := export.NewService(csvLedger, logger).ExportXLSX()
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, b, 0o644); err != nil {
				return fmt.Errorf("write workbook: %w", err)
			}
			fmt.Println(out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "submissions.xlsx", "output workbook path")
	return cmd
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
