package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bicolour/pkg/colouring"
)

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file|->",
		Short: "Check a document and print a summary",
		Long: `Check that a document decodes to a valid colouring.

Every vertex must have exactly one colour, every coloured ID must be a
vertex, edges must join two distinct existing vertices, and no pair may be
joined twice. Pass - to check a document read from stdin.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeDocuments,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runValidate(cmd.Context(), args[0])
		},
	}
}

func (c *CLI) runValidate(ctx context.Context, input string) error {
	col, _, err := c.readDocument(ctx, input)
	if err != nil {
		c.status().failure("%s is not a valid document", displayName(input))
		return err
	}

	st := c.status()
	st.success("%s is valid", displayName(input))
	for _, kv := range summarize(col) {
		st.field(kv[0], kv[1])
	}
	if input != stdio {
		st.nextStep("Render it", fmt.Sprintf("%s render %s", appName, input))
	}
	return nil
}

// summarize returns the key/value lines printed by validate.
func summarize(col colouring.Colouring) [][2]string {
	g := col.Graph()
	stable := "no"
	if col.Stable() {
		stable = "yes"
	}
	return [][2]string{
		{"Vertices", fmt.Sprint(g.VertexCount())},
		{"Edges", fmt.Sprint(g.EdgeCount())},
		{"Black", fmt.Sprint(col.CountColour(colouring.Black))},
		{"White", fmt.Sprint(col.CountColour(colouring.White))},
		{"Stable", stable},
	}
}
