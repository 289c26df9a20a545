package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphfile/internal/config"
	"github.com/matzehuels/graphfile/pkg/cache"
	gferrors "github.com/matzehuels/graphfile/pkg/errors"
	"github.com/matzehuels/graphfile/pkg/project"
	"github.com/matzehuels/graphfile/pkg/render"
	"github.com/matzehuels/graphfile/pkg/render/nodelink"
)

const (
	formatDOT = "dot"
	formatSVG = "svg"
	formatPDF = "pdf"
	formatPNG = "png"

	defaultScale = 2.0

	// renderTTL bounds how long a rendered artifact stays cached.
	renderTTL = 30 * 24 * time.Hour
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string  // output file path, "-" for stdout
	graphID  string  // project graph to draw, default the main graph
	format   string  // dot, svg, pdf or png
	detailed bool    // show node types, IDs, data and port names
	scale    float64 // PNG resolution multiplier
	noCache  bool    // skip the render cache
}

// renderCommand creates the render command, which draws one graph as a
// node-link diagram.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{scale: defaultScale}

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Draw a graph as DOT, SVG, PDF or PNG",
		Long: `Render draws a standalone graph, or one graph of a project, as a
left-to-right node-link diagram. Projects render their main graph unless
--graph names another. PDF and PNG output require rsvg-convert.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("format") {
				opts.format = c.Config.Render.Format
			}
			if !cmd.Flags().Changed("detailed") {
				opts.detailed = c.Config.Render.Detailed
			}
			if err := validateFormat(opts.format); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", `output file ("-" for stdout, default: derived from input)`)
	cmd.Flags().StringVarP(&opts.graphID, "graph", "g", "", "project graph ID (default: main graph)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatSVG, "output format: "+strings.Join(config.Formats, ", "))
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show node types, data and port names")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")

	return cmd
}

func validateFormat(f string) error {
	if !slices.Contains(config.Formats, f) {
		return gferrors.New(gferrors.ErrCodeInvalidInput, "invalid format: %s (must be one of %s)", f, strings.Join(config.Formats, ", "))
	}
	return nil
}

// outputPath derives the output file from the input file when none is
// given, e.g. project.yaml renders to project.svg.
func outputPath(output, input, format string) string {
	if output != "" {
		return output
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + "." + format
}

func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	logger := loggerFromContext(ctx)

	doc, err := c.loadDocument(input)
	if err != nil {
		return err
	}
	g, err := doc.graph(opts.graphID)
	if err != nil {
		return err
	}
	logger.Infof("Rendering graph %s: %d nodes, %d connections", g.Metadata.ID, len(g.Nodes), len(g.Connections))

	data, err := c.renderGraph(ctx, g, opts)
	if err != nil {
		return err
	}

	path := outputPath(opts.output, input, opts.format)
	out, err := c.openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	if path != stdoutPath {
		printSuccess(c.out, "Rendered %s as %s", StyleValue.Render(g.Metadata.ID), opts.format)
		printFile(c.out, path)
	}
	return nil
}

func (c *CLI) renderGraph(ctx context.Context, g *project.NodeGraph, opts renderOpts) ([]byte, error) {
	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: opts.detailed})
	if opts.format == formatDOT {
		return []byte(dot), nil
	}
	if (opts.format == formatPDF || opts.format == formatPNG) && !render.Available() {
		return nil, gferrors.New(gferrors.ErrCodeUnsupported, "%s output requires rsvg-convert on PATH", opts.format)
	}

	rc, err := newCache(opts.noCache)
	if err != nil {
		loggerFromContext(ctx).Warn("render cache unavailable", "error", err)
		rc = cache.NewNullCache()
	}
	defer rc.Close()

	req := cache.Request{DOT: dot, Format: opts.format}
	if opts.format == formatPNG {
		req.Scale = opts.scale
	}
	return renderCached(ctx, rc, req, func() ([]byte, error) {
		spinner := newSpinnerWithContext(ctx, os.Stderr, "Running graphviz...")
		spinner.Start()
		defer spinner.Stop()

		switch opts.format {
		case formatPDF:
			return nodelink.RenderPDF(ctx, dot)
		case formatPNG:
			return nodelink.RenderPNG(ctx, dot, opts.scale)
		default:
			return nodelink.RenderSVG(ctx, dot)
		}
	})
}

// renderCached returns the cached artifact for req, or calls draw and
// stores its result. Cache failures only cost a re-render.
func renderCached(ctx context.Context, rc cache.Cache, req cache.Request, draw func() ([]byte, error)) ([]byte, error) {
	logger := loggerFromContext(ctx)

	if a, ok, err := rc.Get(ctx, req); err != nil {
		logger.Warn("render cache read failed", "error", err)
	} else if ok {
		logger.Debug("render cache hit", "format", a.Format, "bytes", a.Size, "age", time.Since(a.CreatedAt).Round(time.Second))
		return a.Data, nil
	}

	data, err := draw()
	if err != nil {
		return nil, err
	}
	if err := rc.Put(ctx, req, data, renderTTL); err != nil {
		logger.Warn("render cache write failed", "error", err)
	}
	return data, nil
}

// nopCloser wraps an io.Writer with a no-op Close method.
type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput returns the CLI output for "-" and creates the file at path
// otherwise, overwriting it if it exists.
func (c *CLI) openOutput(path string) (io.WriteCloser, error) {
	if path == stdoutPath {
		return nopCloser{c.out}, nil
	}
	if err := gferrors.ValidatePath(path); err != nil {
		return nil, err
	}
	return os.Create(path)
}
