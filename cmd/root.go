package cmd

import (
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cmmoran/checksum"
	"github.com/cmmoran/checksum/internal/manifest"
)

// rootCmd represents the base command when called without any subcommands
var (
	configPath string
	algorithm  string
	excludes   []string
	markCycles bool
	format     string
	verbosity  int
	debug      bool

	log     = logr.Discard()
	rootCmd = &cobra.Command{
		Use:          "checksum",
		Short:        "deterministic content digests of structured documents",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLogger(verbosity)
			if err != nil {
				return err
			}
			log = l
			return nil
		},
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", manifest.DefaultConfigFile, "Path to settings file")
	rootCmd.PersistentFlags().StringVarP(&algorithm, "algorithm", "a", "", "Digest algorithm (default SHA-256)")
	rootCmd.PersistentFlags().StringArrayVar(&excludes, "exclude", nil, "Dotted member path pattern to leave out (repeatable)")
	rootCmd.PersistentFlags().BoolVar(&markCycles, "mark-cycles", false, "Write a marker where a reference is met again")
	rootCmd.PersistentFlags().StringVar(&format, "format", "", "Go template for each result (fields .Algorithm .Digest .File)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log verbosity")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Dump decoded documents to stderr")
}

func newLogger(v int) (logr.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.Level(-v))
	cfg.DisableStacktrace = true
	z, err := cfg.Build()
	if err != nil {
		return logr.Discard(), err
	}
	return zapr.NewLogger(z), nil
}

// settings merges the settings file with the command line; flags win.
type settings struct {
	algorithm checksum.Algorithm
	format    string
	opts      []checksum.Option
}

func loadSettings(cmd *cobra.Command) (*settings, error) {
	cfg, err := manifest.LoadConfig(configPath, cmd.Flags().Changed("config"))
	if err != nil {
		return nil, err
	}
	name := cfg.Spec.Algorithm
	if cmd.Flags().Changed("algorithm") || name == "" {
		name = algorithm
	}
	alg := checksum.SHA256
	if name != "" {
		if alg, err = checksum.ParseAlgorithm(name); err != nil {
			return nil, err
		}
	}

	s := &settings{algorithm: alg, format: cfg.Spec.Format}
	if cmd.Flags().Changed("format") {
		s.format = format
	}
	s.opts = append(s.opts, checksum.WithLogger(log))
	if ex := manifest.Excluder(append(cfg.Spec.Exclude, excludes...)); ex != nil {
		s.opts = append(s.opts, checksum.WithExclude(ex))
	}
	if markCycles || cfg.Spec.MarkCycles {
		s.opts = append(s.opts, checksum.WithCycleMarker())
	}
	log.V(1).Info("settings loaded", "config", cfg.Path, "algorithm", s.algorithm, "excludes", len(cfg.Spec.Exclude)+len(excludes))
	return s, nil
}
