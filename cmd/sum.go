package cmd

import (
	"fmt"
	"runtime"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/cmmoran/checksum"
	"github.com/cmmoran/checksum/internal/manifest"
	"github.com/cmmoran/checksum/internal/render"
)

var engine = render.NewEngine()

func init() {
	cmd := &cobra.Command{
		Use:   "sum [file...]",
		Short: "Print the content digest of each document",
		Long: "Decode each YAML, JSON or TOML document (\"-\" reads YAML from stdin) and print\n" +
			"the digest of its content. Key order and formatting do not affect the result.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			tpl, err := engine.Compile("format", s.format)
			if err != nil {
				return fmt.Errorf("format: %w", err)
			}
			results, err := sumAll(cmd, s, args)
			if err != nil {
				return err
			}
			for _, r := range results {
				if err := tpl.Execute(cmd.OutOrStdout(), r); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout())
			}
			return nil
		},
	}
	rootCmd.AddCommand(cmd)
}

// sumAll hashes every file concurrently; results keep the argument order.
func sumAll(cmd *cobra.Command, s *settings, files []string) ([]render.Result, error) {
	results := make([]render.Result, len(files))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, f := range files {
		g.Go(func() error {
			doc, err := loadDocument(cmd, f)
			if err != nil {
				return err
			}
			d, err := checksum.Hash(doc, s.algorithm, s.opts...)
			if err != nil {
				return fmt.Errorf("%s: %w", f, err)
			}
			results[i] = render.Result{Algorithm: string(s.algorithm), Digest: d, File: f}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func loadDocument(cmd *cobra.Command, name string) (any, error) {
	doc, err := manifest.LoadDocument(name, cmd.InOrStdin())
	if err != nil {
		return nil, err
	}
	if debug {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "--- %s\n%s", name, spew.Sdump(doc))
	}
	return doc, nil
}
