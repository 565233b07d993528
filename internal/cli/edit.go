package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bicolour/pkg/colouring"
	"github.com/matzehuels/bicolour/pkg/editor"
	"github.com/matzehuels/bicolour/pkg/errors"
	"github.com/matzehuels/bicolour/pkg/graph"
	pkgio "github.com/matzehuels/bicolour/pkg/io"
	"github.com/matzehuels/bicolour/pkg/reconcile"
)

// editCommand creates the interactive edit command.
func (c *CLI) editCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "edit [file]",
		Short: "Edit a colouring interactively",
		Long: `Edit a colouring interactively in the terminal.

With a file, the document is loaded from it (if it exists) and 's' saves
back to it. Without a file the editor starts from a small demo colouring
and saves to the store configured in [store].`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeDocuments,
		RunE: func(cmd *cobra.Command, args []string) error {
			var file string
			if len(args) == 1 {
				file = args[0]
			}
			return c.runEdit(cmd.Context(), file)
		},
	}
}

func (c *CLI) runEdit(ctx context.Context, file string) error {
	if file == stdio {
		return errors.New(errors.ErrCodeInvalidInput, "edit reads keys from the terminal; it cannot take a document from stdin")
	}
	store, err := c.openStore(ctx, file)
	if err != nil {
		return err
	}
	defer store.Close()

	format := pkgio.FormatJSON
	if file != "" {
		format = pkgio.FormatFromPath(file)
	}

	scene := reconcile.NewScene()
	ed := editor.New(scene,
		editor.WithLogger(c.Logger),
		editor.WithStore(store),
		editor.WithFormat(format),
	)

	if err := startSession(ctx, ed, file); err != nil {
		return err
	}

	final, err := tea.NewProgram(NewEditModel(ctx, scene, ed), tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("editor: %w", err)
	}
	if m, ok := final.(EditModel); ok && m.Failed {
		c.Logger.Warn(m.Status)
	}
	return nil
}

// startSession fills the editor: from file when it exists, from the demo
// colouring when no file is given. A named file that does not exist yet
// starts empty.
func startSession(ctx context.Context, ed *editor.Editor, file string) error {
	if file == "" {
		_, err := ed.Mutate(ctx, editor.ActionLoad, func(colouring.Colouring) (colouring.Colouring, error) {
			return demoColouring()
		})
		return err
	}
	if _, err := os.Stat(file); os.IsNotExist(err) {
		return nil
	}
	_, err := ed.Import(ctx)
	return err
}

// demoColouring is the starting point without a file: u, v, w and x with
// edges u-v, u-w, u-x and w-x.
func demoColouring() (colouring.Colouring, error) {
	u, v, w, x := graph.NewVertex("u"), graph.NewVertex("v"), graph.NewVertex("w"), graph.NewVertex("x")
	g, err := graph.New([]graph.Vertex{u, v, w, x}, nil)
	if err != nil {
		return colouring.Colouring{}, err
	}
	c, err := colouring.New(g, map[string]colouring.Colour{
		"u": colouring.White,
		"v": colouring.Black,
		"w": colouring.White,
		"x": colouring.Black,
	})
	if err != nil {
		return colouring.Colouring{}, err
	}
	for _, pair := range [][2]graph.Vertex{{u, v}, {u, w}, {u, x}, {w, x}} {
		if c, err = c.Connect(pair[0], pair[1]); err != nil {
			return colouring.Colouring{}, err
		}
	}
	return c, nil
}
