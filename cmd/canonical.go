package cmd

import (
	"github.com/spf13/cobra"

	"github.com/cmmoran/checksum"
)

func init() {
	cmd := &cobra.Command{
		Use:   "canonical <file>",
		Short: "Write the canonical byte stream a document is hashed from",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			doc, err := loadDocument(cmd, args[0])
			if err != nil {
				return err
			}
			b, err := checksum.Canonical(doc, s.opts...)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	}
	rootCmd.AddCommand(cmd)
}
