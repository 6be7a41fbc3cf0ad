package cli

import (
	"context"
	"fmt"
	"io"

	"esologs_check/analysispool"
	"esologs_check/config"
	"esologs_check/esologs"
	"esologs_check/parse"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// AnalyzeOptions holds command-line options for the analyze command.
type AnalyzeOptions struct {
	FightID  int
	SourceID int
	Output   string
	Verbose  bool
}

var newCollector = func(cfg *config.Config) (analysispool.Collector, error) {
	if err := cfg.RequireCredentials(); err != nil {
		return nil, err
	}
	return esologs.New(cfg.ESOLogs, cfg.Cache)
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand(ro *rootOptions) *cobra.Command {
	opts := &AnalyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze <report-url|report-code>",
		Short: "Analyze one player of one fight",
		Long: `Analyze one player of one fight of an ESO Logs report and print the report.

The fight comes from --fight, then from the url, then defaults to the last fight.
The player comes from --source or defaults to the first friendly player.

Exit codes:
  0 - Report complete
  1 - Report printed but some sections failed
  2 - Configuration, input or log source error`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args, ro, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.FightID, "fight", "f", 0, "Fight id (0 picks the last fight)")
	cmd.Flags().IntVarP(&opts.SourceID, "source", "s", 0, "Player actor id (0 picks the first friendly player)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json|yaml)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Log progress to stderr")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string, ro *rootOptions, opts *AnalyzeOptions) error {
	format, err := formatterOf(opts.Output)
	if err != nil {
		return err
	}

	rd := analysispool.RequestData{
		URL: args[0],
		Request: parse.Request{
			FightID:  opts.FightID,
			SourceID: opts.SourceID,
		},
	}
	if err := rd.Normalize(); err != nil {
		return err
	}

	// stdout carries the report, so only errors are logged unless asked
	cfg, done, err := setup(ro, func(cfg *config.Config) {
		if !opts.Verbose {
			cfg.Log.Level = "error"
		}
	})
	if err != nil {
		return err
	}
	defer done()

	collector, err := newCollector(cfg)
	if err != nil {
		return err
	}

	var progress func(string)
	if opts.Verbose {
		progress = func(s string) { fmt.Fprintln(cmd.ErrOrStderr(), s) }
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	r, err := parse.Analyze(ctx, analysispool.WithProgress(collector, progress), rd.Request, analysisOptions(cfg))
	if err != nil {
		return err
	}

	if err := format(cmd.OutOrStdout(), r); err != nil {
		return errors.Wrap(err, "formatting output")
	}

	if r.Partial() {
		exitCode = 1
	}
	return nil
}

type formatter func(w io.Writer, r *parse.Report) error

func formatterOf(output string) (formatter, error) {
	switch output {
	case "text":
		return formatText, nil
	case "json":
		return formatJSON, nil
	case "yaml":
		return formatYAML, nil
	default:
		return nil, errors.Errorf("unknown output format %q (use text, json or yaml)", output)
	}
}

func formatJSON(w io.Writer, r *parse.Report) error {
	enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// formatYAML goes through the json form so keys keep their json names and order.
func formatYAML(w io.Writer, r *parse.Report) error {
	data, err := jsoniter.Marshal(r)
	if err != nil {
		return errors.WithStack(err)
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return errors.WithStack(err)
	}
	blockStyle(&node)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return errors.WithStack(err)
	}
	return enc.Close()
}

func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}
