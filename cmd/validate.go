package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cmmoran/checksum/internal/render"
)

func init() {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the settings file",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			// execute against a sample so unknown fields fail here, not mid-run
			sample := render.Result{Algorithm: string(s.algorithm), Digest: strings.Repeat("0", 64), File: "-"}
			if _, err = engine.RenderString("format", s.format, sample); err != nil {
				return fmt.Errorf("format: %w", err)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "settings OK")
			return nil
		},
	}
	rootCmd.AddCommand(cmd)
}
