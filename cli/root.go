// Package cli provides the esologs_check commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"esologs_check/config"
	"esologs_check/parse"
	"esologs_check/share"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// exitCode is set by commands that succeed with a degraded result.
var exitCode = 0

type rootOptions struct {
	ConfigPath string
}

// Execute runs the root command and returns the exit code.
func Execute() int {
	return run(os.Args[1:], os.Stdout, os.Stderr)
}

func run(args []string, stdout, stderr io.Writer) int {
	exitCode = 0

	rootCmd := NewRootCommand()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	return exitCode
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	ro := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "esologs_check",
		Short: "Parse analysis for ESO Logs reports",
		Long: `esologs_check reads one player of one fight from an ESO Logs report and reports
casts per minute, DPS, weaving, buff uptimes, food, rotation, bar swaps, ultimates
and damage over time uptime.

Settings come from an optional config file and ESOCHECK_* environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&ro.ConfigPath, "config", "c", "", "Config file (yaml, json or toml)")

	rootCmd.AddCommand(NewServeCommand(ro))
	rootCmd.AddCommand(NewAnalyzeCommand(ro))

	return rootCmd
}

// setup loads the config and installs the global logger. The returned func flushes it.
func setup(ro *rootOptions, override func(cfg *config.Config)) (*config.Config, func(), error) {
	cfg, err := config.Load(ro.ConfigPath)
	if err != nil {
		return nil, nil, err
	}
	if override != nil {
		override(cfg)
	}

	logger, err := share.NewLogger(cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	undo := zap.ReplaceGlobals(logger)

	if cfg.Sentry.DSN != "" {
		if err := share.InitSentry(cfg.Sentry.DSN); err != nil {
			logger.Warn("sentry disabled", zap.Error(err))
		}
	}

	return cfg, func() {
		share.FlushSentry()
		logger.Sync()
		undo()
	}, nil
}

func analysisOptions(cfg *config.Config) parse.Options {
	return parse.Options{
		WeaveGapMs:   cfg.Analysis.WeaveGap.Milliseconds(),
		OpenerLength: cfg.Analysis.OpenerLength,
		Workers:      cfg.Analysis.Workers,
	}
}
