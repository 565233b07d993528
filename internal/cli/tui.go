package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/bicolour/pkg/colouring"
	"github.com/matzehuels/bicolour/pkg/editor"
	"github.com/matzehuels/bicolour/pkg/errors"
	"github.com/matzehuels/bicolour/pkg/reconcile"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorInk)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	paneStyle         = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
	activePaneStyle   = paneStyle.BorderForeground(colorAccent)
)

type pane int

const (
	paneVertices pane = iota
	paneEdges
)

// =============================================================================
// EditModel - Interactive colouring editor
// =============================================================================

// EditModel is the bubbletea model for the interactive editor. The scene is
// the view the editor reconciles; the model only reads it and toggles its
// selection.
type EditModel struct {
	ctx    context.Context
	scene  *reconcile.Scene
	editor *editor.Editor

	Pane    pane
	Cursor  int // vertex pane cursor
	ECursor int // edge pane cursor
	Status  string
	Failed  bool
	Height  int
}

// NewEditModel creates an editor model over scene, driven by ed.
func NewEditModel(ctx context.Context, scene *reconcile.Scene, ed *editor.Editor) EditModel {
	return EditModel{
		ctx:    ctx,
		scene:  scene,
		editor: ed,
		Height: 15,
		Status: "ready",
	}
}

func (m EditModel) Init() tea.Cmd {
	return nil
}

func (m EditModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg.String())
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 10
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m EditModel) handleKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "down", "j":
		m.move(1)
	case "up", "k":
		m.move(-1)
	case "tab":
		if m.Pane == paneVertices {
			m.Pane = paneEdges
		} else {
			m.Pane = paneVertices
		}
	case " ", "space":
		m.toggle()
	case "a":
		m = m.add(colouring.White)
	case "A":
		m = m.add(colouring.Black)
	case "w":
		m = m.report(m.editor.SetColourOnSelection(m.ctx, colouring.White))
	case "b":
		m = m.report(m.editor.SetColourOnSelection(m.ctx, colouring.Black))
	case "c":
		m = m.report(m.editor.ConnectSelection(m.ctx))
	case "n":
		m = m.report(m.editor.BiconnectSelection(m.ctx))
	case "u":
		m = m.report(m.editor.Relax(m.ctx))
	case "d", "backspace", "delete":
		m = m.report(m.editor.DeleteSelection(m.ctx))
	case "s":
		if err := m.editor.Export(m.ctx); err != nil {
			m.Status, m.Failed = errors.UserMessage(err), true
		} else {
			m.Status, m.Failed = "saved", false
		}
	case "l":
		m = m.report(m.editor.Import(m.ctx))
	}
	return m, nil
}

func (m *EditModel) move(delta int) {
	if m.Pane == paneVertices {
		m.Cursor = clamp(m.Cursor+delta, len(m.scene.Vertices()))
	} else {
		m.ECursor = clamp(m.ECursor+delta, len(m.scene.Edges()))
	}
}

func (m *EditModel) toggle() {
	if m.Pane == paneVertices {
		vs := m.scene.Vertices()
		if m.Cursor < len(vs) {
			v := vs[m.Cursor]
			_ = m.scene.Select(v.ID, !v.Selected)
		}
		return
	}
	es := m.scene.Edges()
	if m.ECursor < len(es) {
		e := es[m.ECursor]
		_ = m.scene.SelectEdge(e.ID, !e.Selected)
	}
}

// add places the new vertex on the first free grid slot of the scene.
func (m EditModel) add(col colouring.Colour) EditModel {
	p := m.scene.FreeSlot()
	return m.report(m.editor.AddVertex(m.ctx, col, p.X, p.Y))
}

// report records the outcome of a mutation in the status line and keeps the
// cursors inside the lists.
func (m EditModel) report(res editor.Result, err error) EditModel {
	if err != nil {
		m.Status, m.Failed = errors.UserMessage(err), true
	} else {
		m.Status, m.Failed = res.Summary().String(), false
	}
	m.Cursor = clamp(m.Cursor, len(m.scene.Vertices()))
	m.ECursor = clamp(m.ECursor, len(m.scene.Edges()))
	return m
}

func clamp(i, n int) int {
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

func (m EditModel) View() string {
	var b strings.Builder

	snap := m.scene.Snapshot()
	b.WriteString(StyleTitle.Render("Bicolour"))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("%d vertices · %d edges · %d black · %d white",
		snap.Graph().VertexCount(), snap.Graph().EdgeCount(),
		snap.CountColour(colouring.Black), snap.CountColour(colouring.White))))
	b.WriteString("\n\n")

	vertices := m.vertexPane()
	edges := m.edgePane()
	if m.Pane == paneVertices {
		vertices, edges = activePaneStyle.Render(vertices), paneStyle.Render(edges)
	} else {
		vertices, edges = paneStyle.Render(vertices), activePaneStyle.Render(edges)
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, vertices, " ", edges))
	b.WriteString("\n")

	if m.Failed {
		b.WriteString(styleIconError.Render(iconError) + " " + m.Status)
	} else {
		b.WriteString(styleIconInfo.Render(iconInfo) + " " + listDimStyle.Render(m.Status))
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("j/k move  space select  tab pane  a/A add  w/b colour  c connect  n biconnect  u relax  d delete  s save  l load  q quit"))

	return b.String()
}

func (m EditModel) vertexPane() string {
	vs := m.scene.Vertices()
	lines := []string{StyleHighlight.Render("Vertices")}
	if len(vs) == 0 {
		lines = append(lines, listDimStyle.Render("(none)"))
	}
	from, to := window(m.Cursor, len(vs), m.Height)
	for i := from; i < to; i++ {
		v := vs[i]
		line := fmt.Sprintf("%s%s %s %-8s %s", cursorMark(m.Pane == paneVertices && i == m.Cursor),
			selectMark(v.Selected), swatch(v.Class), v.ID,
			listDimStyle.Render(fmt.Sprintf("(%g, %g)", v.Pos.X, v.Pos.Y)))
		lines = append(lines, styleLine(line, m.Pane == paneVertices && i == m.Cursor))
	}
	return strings.Join(lines, "\n")
}

func (m EditModel) edgePane() string {
	es := m.scene.Edges()
	lines := []string{StyleHighlight.Render("Edges")}
	if len(es) == 0 {
		lines = append(lines, listDimStyle.Render("(none)"))
	}
	from, to := window(m.ECursor, len(es), m.Height)
	for i := from; i < to; i++ {
		e := es[i]
		line := fmt.Sprintf("%s%s %s %s", cursorMark(m.Pane == paneEdges && i == m.ECursor),
			selectMark(e.Selected), e.ID, listDimStyle.Render(e.Source+"-"+e.Target))
		lines = append(lines, styleLine(line, m.Pane == paneEdges && i == m.ECursor))
	}
	return strings.Join(lines, "\n")
}

// window returns the visible index range that keeps cursor on screen.
func window(cursor, n, height int) (int, int) {
	from := 0
	if cursor >= height {
		from = cursor - height + 1
	}
	to := from + height
	if to > n {
		to = n
	}
	return from, to
}

func cursorMark(on bool) string {
	if on {
		return "▸ "
	}
	return "  "
}

func selectMark(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}

func styleLine(line string, current bool) string {
	if current {
		return listSelectedStyle.Render(line)
	}
	return listNormalStyle.Render(line)
}
