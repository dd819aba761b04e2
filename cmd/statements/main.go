// Command statements is a development shell around the ingestion engine:
// parse a statement PDF to JSON, inspect document metadata, or list the
// supported banks. The production surface is the library, not this binary.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gastosgo/statement-engine/internal/domain/statement/service"
	"github.com/gastosgo/statement-engine/pkg/config"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

type app struct {
	cfg    *config.Config
	logger *slog.Logger
	svc    *service.ImportService
}

func newRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:          "statements",
		Short:        "Parse credit-card statement PDFs into structured data",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			level, err := cfg.SlogLevel()
			if err != nil {
				return err
			}

			var handler slog.Handler
			if cfg.Log.Format == "json" {
				handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
			} else {
				handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
			}

			a.cfg = cfg
			a.logger = slog.New(handler)
			a.svc = service.NewImportService(a.logger).
				WithBatchWorkers(cfg.Import.BatchWorkers)
			return nil
		},
	}

	rootCmd.AddCommand(newParseCommand(a))
	rootCmd.AddCommand(newInspectCommand(a))
	rootCmd.AddCommand(newBanksCommand(a))

	return rootCmd
}

func readStatementFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read statement file: %w", err)
	}
	return data, nil
}
