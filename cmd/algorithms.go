package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cmmoran/checksum"
)

func init() {
	cmd := &cobra.Command{
		Use:   "algorithms",
		Short: "List available digest algorithms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, a := range checksum.Algorithms() {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), a)
			}
			return nil
		},
	}
	rootCmd.AddCommand(cmd)
}
