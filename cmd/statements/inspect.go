package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gastosgo/statement-engine/internal/domain/statement/extractor"
)

func newInspectCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file.pdf>",
		Short: "Print PDF document metadata (page count, info dictionary)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readStatementFile(args[0])
			if err != nil {
				return err
			}

			meta, err := extractor.New().ExtractMetadata(data)
			if err != nil {
				return err
			}

			encoded, err := json.MarshalIndent(meta, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
			return nil
		},
	}
}
