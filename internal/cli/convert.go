package cli

import (
	"context"

	"github.com/spf13/cobra"

	pkgio "github.com/matzehuels/bicolour/pkg/io"
)

// convertCommand creates the convert command.
func (c *CLI) convertCommand() *cobra.Command {
	var (
		to     string
		output string
	)

	cmd := &cobra.Command{
		Use:   "convert <file|->",
		Short: "Convert a document between JSON and TOML",
		Long: `Convert a document between JSON and TOML.

Pass - to read the document from stdin; its format is detected from the
content. The result is written to stdout unless -o is given.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeDocuments,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := pkgio.ParseFormat(to)
			if err != nil {
				return err
			}
			return c.runConvert(cmd.Context(), args[0], output, f)
		},
	}

	cmd.Flags().StringVarP(&to, "to", "t", "json", "target format: json, toml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	return cmd
}

func (c *CLI) runConvert(ctx context.Context, input, output string, f pkgio.Format) error {
	logger := loggerFromContext(ctx)

	col, _, err := c.readDocument(ctx, input)
	if err != nil {
		return err
	}
	if err := c.writeDocument(ctx, output, col, f); err != nil {
		return err
	}
	if !toStdout(output) {
		logger.Infof("Converted %s to %s", displayName(input), output)
	}
	return nil
}
