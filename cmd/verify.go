package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cmmoran/checksum"
	"github.com/cmmoran/checksum/internal/util"
)

var ErrMismatch = errors.New("digest mismatch")

func init() {
	cmd := &cobra.Command{
		Use:   "verify <digest> <file>",
		Short: "Check a document against an expected digest",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			want, file := args[0], args[1]
			doc, err := loadDocument(cmd, file)
			if err != nil {
				return err
			}
			got, err := checksum.Hash(doc, s.algorithm, s.opts...)
			if err != nil {
				return err
			}
			if !util.Equal(want, got) {
				return fmt.Errorf("%w: %s: want %s, got %s", ErrMismatch, file, want, got)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: OK\n", file)
			return nil
		},
	}
	rootCmd.AddCommand(cmd)
}
