package cli

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/matzehuels/hanoi/pkg/errors"
	pkgio "github.com/matzehuels/hanoi/pkg/io"
	"github.com/matzehuels/hanoi/pkg/observability"
	"github.com/matzehuels/hanoi/pkg/pipeline"
)

// solveFlags holds the flags shared by the root command and "solve".
type solveFlags struct {
	format     string
	output     string
	debug      bool
	verify     bool
	noCache    bool
	metricsOut string
}

func (f *solveFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "output format: text, csv, json, yaml, toml, table (default from config)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "write the trace to a file instead of stdout")
	cmd.Flags().BoolVar(&f.debug, "debug", false, "log every move and the resulting board")
	cmd.Flags().BoolVar(&f.verify, "verify", false, "check the stacking invariant after every move")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the trace cache")
	cmd.Flags().StringVar(&f.metricsOut, "metrics-out", "", "write Prometheus metrics for this run to a textfile")
}

// solveCommand creates the "solve" command.
func (c *CLI) solveCommand() *cobra.Command {
	var flags solveFlags

	cmd := &cobra.Command{
		Use:   "solve [flags] n",
		Short: "Solve n disks and print the per-peg load trace",
		Long: `Solve moves n disks off peg 0 and prints three lines, one per peg. Each line
holds 2^n loads: the total size of the disks on that peg before the first
move and after every move.

n is read from the last argument.`,
		Example: `  hanoi solve 3
  hanoi solve -f csv -o trace.csv 10
  hanoi solve --debug -v 4`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSolve(cmd, args, flags)
		},
	}
	flags.register(cmd)

	return cmd
}

func (c *CLI) runSolve(cmd *cobra.Command, args []string, flags solveFlags) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	n, err := diskArg(args, c.Config.MaxDisks)
	if err != nil {
		return err
	}
	format, err := c.outputFormat(cmd, flags.format)
	if err != nil {
		return err
	}

	opts := c.pipelineOptions(n)
	if cmd.Flags().Changed("debug") {
		opts.Debug = flags.debug
	}
	if cmd.Flags().Changed("verify") {
		opts.Verify = flags.verify
	}
	if opts.Debug && logger.GetLevel() > log.DebugLevel {
		logger.SetLevel(log.DebugLevel)
	}
	opts.Logger = logger

	metricsPath := flags.metricsOut
	if metricsPath == "" {
		metricsPath = c.Config.Metrics.Textfile
	}
	var reg *prometheus.Registry
	if metricsPath != "" {
		reg = prometheus.NewRegistry()
		observability.NewPrometheus(reg).Install()
		defer observability.Reset()
	}

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		return err
	}

	if err := writeResult(cmd, result, format, flags.output); err != nil {
		return err
	}

	if reg != nil {
		if err := observability.WriteTextfile(metricsPath, reg); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
		logger.Debug("wrote metrics", "path", metricsPath)
	}
	return nil
}

// writeResult prints the trace to stdout, or writes it to path and reports
// the file.
func writeResult(cmd *cobra.Command, result *pipeline.Result, format pkgio.Format, path string) error {
	doc := result.Document()
	if path == "" {
		return pkgio.Write(cmd.OutOrStdout(), format, doc)
	}

	if err := pkgio.Export(path, format, doc); err != nil {
		return err
	}
	printSuccess("Solved %d disks", result.Disks)
	printFile(path)
	printStats(result.Disks, result.Stats.Moves, result.CacheHit)
	return nil
}

// diskArg reads n from the last positional argument.
func diskArg(args []string, limit int) (int, error) {
	if len(args) == 0 {
		return 0, errors.New(errors.ErrCodeInvalidArgument, "missing disk count: usage: %s [flags] n", appName)
	}
	return errors.ParseDiskCount(args[len(args)-1], limit)
}

// outputFormat resolves the format flag, falling back to the config file.
func (c *CLI) outputFormat(cmd *cobra.Command, flag string) (pkgio.Format, error) {
	if cmd.Flags().Changed("format") {
		return pkgio.ParseFormat(flag)
	}
	return pkgio.ParseFormat(c.Config.Format)
}
