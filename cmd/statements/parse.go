package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gastosgo/statement-engine/internal/domain/statement/service"
)

func newParseCommand(a *app) *cobra.Command {
	var bank string

	cmd := &cobra.Command{
		Use:   "parse <file.pdf>",
		Short: "Parse a statement PDF and print the result as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readStatementFile(args[0])
			if err != nil {
				return err
			}

			hint := bank
			if hint == "" {
				hint = a.cfg.Import.DefaultBank
			}

			output, err := a.svc.ParseStatement(cmd.Context(), service.ParseInput{
				Data:     data,
				FileName: filepath.Base(args[0]),
				BankHint: hint,
			})
			if err != nil {
				return err
			}

			encoded, err := json.MarshalIndent(output.Statement, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
			return nil
		},
	}

	cmd.Flags().StringVar(&bank, "bank", "", "bank code hint (skips auto-detection)")

	return cmd
}
