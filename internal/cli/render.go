package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/timsueberkrueb/lsp-graph-poc/pkg/graph"
	"github.com/timsueberkrueb/lsp-graph-poc/pkg/layout"
	"github.com/timsueberkrueb/lsp-graph-poc/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string   // output file path (or base path for multiple formats)
	layoutFile string   // precomputed layout.json, computed on the fly if empty
	formats    []string // output formats: svg, dot, png, json
	noCache    bool     // disable caching
}

// renderCommand creates the render command for generating visualizations.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts
	var formatsStr string
	layoutOpts := pipeline.Options{}
	layoutOpts.SetLayoutDefaults()

	cmd := &cobra.Command{
		Use:   "render [graph.json]",
		Short: "Render a structural graph to SVG and other formats",
		Long: `Render a structural graph to SVG and other formats.

The svg and json formats use the force-directed layout, either loaded
from --layout or computed on the fly. The dot and png formats go through
Graphviz, which applies its own layout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			applyLayoutConfig(cmd, &layoutOpts, cfg.Layout)
			return c.runRender(cmd.Context(), args[0], opts, layoutOpts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, png, json (comma-separated)")
	cmd.Flags().StringVar(&opts.layoutFile, "layout", "", "precomputed layout.json (computed on the fly if omitted)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	cmd.Flags().Float64Var(&layoutOpts.SpringLength, "spring-length", layoutOpts.SpringLength, "ideal spring length between connected nodes")
	cmd.Flags().Float64Var(&layoutOpts.Threshold, "threshold", layoutOpts.Threshold, "convergence threshold for the largest force")
	cmd.Flags().IntVar(&layoutOpts.MaxIterations, "max-iterations", layoutOpts.MaxIterations, "iteration budget for the force simulation")

	return cmd
}

// runRender loads the graph and layout, renders the requested formats,
// and writes one file per format.
func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts, layoutOpts pipeline.Options) error {
	g, err := graph.ReadGraphFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	layoutOpts.Logger = c.Logger
	layoutOpts.Formats = opts.formats

	var l layout.Layout
	cacheHit := false
	if opts.layoutFile != "" {
		wire, err := graph.ReadLayoutFile(opts.layoutFile)
		if err != nil {
			return fmt.Errorf("load layout %s: %w", opts.layoutFile, err)
		}
		l = layout.Parse(wire)
	} else {
		spinner := newSpinnerWithContext(ctx, "Computing layout...")
		spinner.Start()
		l, cacheHit, err = runner.ComputeLayoutWithCacheInfo(ctx, g, layoutOpts)
		if err != nil {
			spinner.StopWithError("Layout failed")
			return fmt.Errorf("compute layout: %w", err)
		}
		spinner.Stop()
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}

	artifacts, _, err := runner.RenderWithCacheInfo(ctx, g, l, layoutOpts)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	printSuccess("Render complete")
	for _, format := range opts.formats {
		path := outputPathFor(opts.output, input, format, len(opts.formats) > 1)
		if err := os.WriteFile(path, artifacts[format], 0644); err != nil {
			return fmt.Errorf("write output %s: %w", path, err)
		}
		printFile(path)
	}
	printStats(g.NodeCount(), g.EdgeCount(), cacheHit)

	return nil
}

// outputPathFor derives the output file path for one format. With a
// single format the --output flag is used verbatim when given; with
// multiple formats it acts as a base path.
func outputPathFor(output, input, format string, multiple bool) string {
	if output != "" && !multiple {
		return output
	}
	base := output
	if base == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input))
	} else if ext := filepath.Ext(base); pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		base = strings.TrimSuffix(base, ext)
	}
	return base + "." + format
}
