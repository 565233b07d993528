package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bicolour/pkg/colouring"
	"github.com/matzehuels/bicolour/pkg/reconcile"
)

type relaxOpts struct {
	passes      int
	untilStable bool
	output      string
}

// relaxCommand creates the relax command.
func (c *CLI) relaxCommand() *cobra.Command {
	opts := relaxOpts{passes: 1}

	cmd := &cobra.Command{
		Use:   "relax <file|->",
		Short: "Apply majority relaxation to a document",
		Long: `Apply synchronous majority relaxation to a document.

Each pass recolours every vertex at once: a vertex keeps its colour with
weight 1.5 and each neighbour votes for its own colour with weight 1. Ties
go to black. With --until-stable, passes repeat until nothing changes.

Pass - to read the document from stdin. The result is written to stdout
unless -o is given.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeDocuments,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.passes < 0 {
				return fmt.Errorf("--passes must not be negative")
			}
			return c.runRelax(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().IntVarP(&opts.passes, "passes", "n", opts.passes, "number of relaxation passes")
	cmd.Flags().BoolVar(&opts.untilStable, "until-stable", false, "relax until no colour changes")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")

	return cmd
}

func (c *CLI) runRelax(ctx context.Context, input string, opts relaxOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	start, format, err := c.readDocument(ctx, input)
	if err != nil {
		return err
	}

	result, passes, stable := relax(start, opts)
	if opts.untilStable && !stable {
		logger.Warnf("Not stable after %d passes; the colouring may oscillate", passes)
	}

	s := reconcile.Summarize(reconcile.Diff(start, result))
	prog.done("Relaxed", "vertices", result.Graph().VertexCount(), "passes", passes, "recoloured", s.Recoloured)

	return c.writeDocument(ctx, opts.output, result, outputFormat(opts.output, format))
}

// relax runs the requested passes and reports how many ran and whether the
// result is stable.
func relax(c colouring.Colouring, opts relaxOpts) (colouring.Colouring, int, bool) {
	if !opts.untilStable {
		for i := 0; i < opts.passes; i++ {
			c = c.Update()
		}
		return c, opts.passes, c.Stable()
	}
	for i := 0; i < maxRelaxPasses; i++ {
		if c.Stable() {
			return c, i, true
		}
		c = c.Update()
	}
	return c, maxRelaxPasses, c.Stable()
}
