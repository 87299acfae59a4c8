package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/hanoi/pkg/errors"
	"github.com/matzehuels/hanoi/pkg/pipeline"
	"github.com/matzehuels/hanoi/pkg/render/nodelink"
)

const (
	renderFormatDOT = "dot"
	renderFormatSVG = "svg"
	renderFormatPDF = "pdf"
	renderFormatPNG = "png"

	// renderMaxDisks keeps diagrams to at most 1024 states.
	renderMaxDisks = 10
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string  // output file path; stdout when empty
	format   string  // dot, svg, pdf or png
	detailed bool    // add per-peg loads to node labels
	scale    float64 // PNG scale factor
}

// renderCommand creates the render command, which draws the board states of
// a solve as a node-link diagram.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{format: renderFormatSVG, scale: 2}

	cmd := &cobra.Command{
		Use:   "render [flags] n",
		Short: "Render the board states of a solve as a diagram",
		Example: `  hanoi render 3 -o hanoi3.svg
  hanoi render -f dot 2 | dot -Tpng > hanoi2.png`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: dot, svg (default), pdf, png")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show peg loads in every state")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, args []string, opts renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	limit := min(c.Config.MaxDisks, renderMaxDisks)
	n, err := diskArg(args, limit)
	if err != nil {
		return err
	}
	format := strings.ToLower(opts.format)
	if err := validateRenderFormat(format); err != nil {
		return err
	}

	prog := newProgress(logger)
	runner, err := c.newRunner(ctx, true)
	if err != nil {
		return err
	}
	defer runner.Close()

	po := c.pipelineOptions(n)
	po.MaxDisks = limit
	po.Snapshots = true
	po.Logger = logger
	result, err := runner.Execute(ctx, po)
	if err != nil {
		return err
	}

	spin := newSpinner(ctx, fmt.Sprintf("Rendering %d states...", len(result.Snapshots)))
	spin.Start()
	data, err := renderStates(result, format, opts)
	spin.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d states", len(result.Snapshots)))

	if opts.output == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	printSuccess("Rendered %d disks", n)
	printFile(opts.output)
	return nil
}

func renderStates(result *pipeline.Result, format string, opts renderOpts) ([]byte, error) {
	dot := nodelink.ToDOT(result.Snapshots, result.Moves, nodelink.Options{Detailed: opts.detailed})
	switch format {
	case renderFormatDOT:
		return []byte(dot), nil
	case renderFormatPDF:
		return nodelink.RenderPDF(dot)
	case renderFormatPNG:
		return nodelink.RenderPNG(dot, opts.scale)
	default:
		return nodelink.RenderSVG(dot)
	}
}

func validateRenderFormat(f string) error {
	switch f {
	case renderFormatDOT, renderFormatSVG, renderFormatPDF, renderFormatPNG:
		return nil
	}
	return errors.New(errors.ErrCodeInvalidFormat,
		"unknown render format %q (want dot, svg, pdf or png)", f)
}
