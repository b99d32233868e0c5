package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"containerbase/internal/pdpa"
)

func newMaskEmailCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mask-email [address]",
		Short: "Print the masked form of an email address",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), pdpa.MaskEmail(args[0]))
		},
	}
}
