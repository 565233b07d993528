package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bicolour/pkg/cache"
	"github.com/matzehuels/bicolour/pkg/colouring"
	"github.com/matzehuels/bicolour/pkg/errors"
	pkgio "github.com/matzehuels/bicolour/pkg/io"
	"github.com/matzehuels/bicolour/pkg/render/nodelink"
)

const (
	formatSVG = "svg"
	formatDOT = "dot"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string // output file path; derived from the input when empty
	format  string // "svg" or "dot"
	engine  string // Graphviz layout engine
	labels  bool   // draw vertex IDs
	noCache bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <file|->",
		Short: "Render a document as a node-link diagram",
		Long: `Render a document as a node-link diagram with Graphviz.

Black vertices are drawn filled, white vertices hollow. Vertices that carry
coordinates are pinned; the layout engine places the rest.

SVG results are cached locally, keyed by the document and the options.
Pass - to read the document from stdin; the drawing then goes to stdout
unless -o is given.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeDocuments,
		PreRun: func(cmd *cobra.Command, args []string) {
			// Config values only fill flags the user did not set.
			if !cmd.Flags().Changed("engine") {
				opts.engine = c.Config.Render.Engine
			}
			if !cmd.Flags().Changed("labels") {
				opts.labels = c.Config.Render.Labels
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateRenderFormat(opts.format); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: input with the format's extension)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatSVG, "output format: svg, dot")
	cmd.Flags().StringVarP(&opts.engine, "engine", "e", "", "layout engine: neato, dot, circo, fdp")
	cmd.Flags().BoolVar(&opts.labels, "labels", true, "draw vertex IDs")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func validateRenderFormat(f string) error {
	if f != formatSVG && f != formatDOT {
		return fmt.Errorf("invalid format: %s (must be 'svg' or 'dot')", f)
	}
	return nil
}

// renderOutputPath derives the output path from the input when none is given.
// An empty result means stdout.
func renderOutputPath(output, input, format string) string {
	if output != "" {
		return output
	}
	if input == stdio {
		return ""
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + "." + format
}

func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	logger := loggerFromContext(ctx)
	logger.Infof("Rendering %s", displayName(input))

	engine, err := nodelink.ParseEngine(opts.engine)
	if err != nil {
		return err
	}
	col, _, err := c.readDocument(ctx, input)
	if err != nil {
		return err
	}
	nlOpts := nodelink.Options{Labels: opts.labels, Engine: engine}

	var (
		data   []byte
		cached bool
	)
	if opts.format == formatDOT {
		data = []byte(nodelink.ToDOT(col, nlOpts))
	} else {
		data, cached, err = c.renderCached(ctx, col, nlOpts, opts.noCache)
		if err != nil {
			return err
		}
	}

	path := renderOutputPath(opts.output, input, opts.format)
	out, err := c.openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := out.Write(data); err != nil {
		return errors.IOFailure(err, "write %s", opts.format)
	}
	if toStdout(path) {
		logger.Debug("rendered to stdout", "format", opts.format, "cached", cached)
		return nil
	}

	st := c.status()
	st.success("Rendered %s", opts.format)
	st.census(col, cached)
	st.file(path)
	return nil
}

// renderCached renders col to SVG through the render cache.
func (c *CLI) renderCached(ctx context.Context, col colouring.Colouring, opts nodelink.Options, noCache bool) ([]byte, bool, error) {
	store, err := c.newCache(noCache)
	if err != nil {
		return nil, false, fmt.Errorf("open cache: %w", err)
	}
	defer store.Close()

	doc, err := pkgio.Marshal(col)
	if err != nil {
		return nil, false, err
	}
	key := cache.NewDefaultKeyer().RenderKey(cache.Hash(doc), cache.RenderKeyOpts{
		Engine: string(opts.Engine),
		Format: formatSVG,
		Labels: opts.Labels,
	})

	spin := startSpinner(ctx, c.Err, fmt.Sprintf("Rendering with %s...", opts.Engine))
	data, hit, err := cache.Fetch(ctx, store, "render", key, c.Config.Render.CacheTTL, func() ([]byte, error) {
		return nodelink.Render(ctx, col, opts)
	})
	spin.stop()
	if err != nil {
		if spin.interrupted() {
			loggerFromContext(ctx).Warn("Render interrupted", "engine", opts.Engine)
		}
		return nil, false, fmt.Errorf("render: %w", err)
	}
	return data, hit, nil
}
