package cli

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/matzehuels/bicolour/pkg/colouring"
	"github.com/matzehuels/bicolour/pkg/errors"
	pkgio "github.com/matzehuels/bicolour/pkg/io"
	"github.com/matzehuels/bicolour/pkg/textio"
)

// stdio is the file argument naming stdin (as input) or stdout (as output).
const stdio = "-"

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// toStdout reports whether path names standard output.
func toStdout(path string) bool { return path == "" || path == stdio }

// displayName is how messages refer to a file argument.
func displayName(path string) string {
	if path == stdio {
		return "stdin"
	}
	return path
}

// readDocument decodes the document named by input. For "-" the document is
// read from c.In through a text stream and its format is detected from the
// content. The returned format is the one the document was written in.
func (c *CLI) readDocument(ctx context.Context, input string) (colouring.Colouring, pkgio.Format, error) {
	if input != stdio {
		col, err := pkgio.ImportFile(input)
		return col, pkgio.FormatFromPath(input), err
	}
	text, err := textio.NewStream(c.In, nil).ReadText(ctx)
	if err != nil {
		return colouring.Colouring{}, "", err
	}
	f := sniffFormat(text)
	col, err := pkgio.Decode([]byte(text), f)
	return col, f, err
}

// sniffFormat treats anything that does not open a JSON object as TOML.
// Empty input is JSON so that it fails to decode.
func sniffFormat(text string) pkgio.Format {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || strings.HasPrefix(trimmed, "{") {
		return pkgio.FormatJSON
	}
	return pkgio.FormatTOML
}

// openOutput opens path for writing, or c.Out when path is empty or "-".
func (c *CLI) openOutput(path string) (io.WriteCloser, error) {
	if toStdout(path) {
		return nopCloser{c.Out}, nil
	}
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.IOFailure(err, "create %s", path)
	}
	return f, nil
}

// writeDocument encodes col in format f to path, or to c.Out through a text
// stream when path is empty or "-".
func (c *CLI) writeDocument(ctx context.Context, path string, col colouring.Colouring, f pkgio.Format) error {
	if toStdout(path) {
		data, err := pkgio.Encode(col, nil, f)
		if err != nil {
			return err
		}
		return textio.NewStream(nil, c.Out).WriteText(ctx, string(data))
	}
	out, err := c.openOutput(path)
	if err != nil {
		return err
	}
	if err := pkgio.Write(out, col, nil, f); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// outputFormat picks the format for an output path, falling back to the
// input's format when writing to stdout.
func outputFormat(output string, input pkgio.Format) pkgio.Format {
	if !toStdout(output) {
		return pkgio.FormatFromPath(output)
	}
	return input
}
