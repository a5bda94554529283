package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/syssam/graphgen"
	"github.com/syssam/graphgen/compiler/gen"
	"github.com/syssam/graphgen/internal/config"
)

// app holds the state shared by all commands.
type app struct {
	configFile string
	verbose    bool
	noColor    bool

	log *zap.Logger
	cfg *config.Config

	// runner replaces the database connection when set.
	runner graphgen.Runner
}

func newApp() *app {
	return &app{log: zap.NewNop()}
}

func (a *app) command() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "graphgen",
		Short:         "Generate Go client modules from a Neo4j schema",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if a.noColor {
				color.NoColor = true
			}
			if err := a.setupLogger(); err != nil {
				return err
			}
			cfg, err := config.Load(a.configFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&a.configFile, "config", "", "config file (default ./graphgen.yaml)")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable colored output")
	cmd.AddCommand(a.generateCommand(), a.watchCommand(), a.versionCommand())
	cobra.OnFinalize(func() { _ = a.log.Sync() })
	return cmd
}

func (a *app) setupLogger() error {
	var (
		l   *zap.Logger
		err error
	)
	if a.verbose {
		l, err = zap.NewDevelopment()
	} else {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
		l, err = cfg.Build()
	}
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	a.log = l
	return nil
}

func (a *app) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the generator version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "graphgen %s\n", gen.Version)
			return nil
		},
	}
}

var (
	successColor = color.New(color.FgGreen, color.Bold)
	failureColor = color.New(color.FgRed, color.Bold)
	noticeColor  = color.New(color.FgYellow)
)

func success(w io.Writer, format string, args ...any) {
	successColor.Fprint(w, "✓ ")
	fmt.Fprintf(w, format+"\n", args...)
}

func failure(w io.Writer, err error) {
	failureColor.Fprint(w, "✗ ")
	fmt.Fprintln(w, err)
}

func notice(w io.Writer, format string, args ...any) {
	noticeColor.Fprintf(w, format+"\n", args...)
}

// passwordFromEnv returns the password given by the environment.
func passwordFromEnv() string {
	return os.Getenv(gen.PasswordEnv)
}
