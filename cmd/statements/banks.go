package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newBanksCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "banks",
		Short: "List supported bank codes",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, code := range a.svc.SupportedBanks() {
				fmt.Fprintln(cmd.OutOrStdout(), code)
			}
			return nil
		},
	}
}
