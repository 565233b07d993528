package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/bicolour/pkg/colouring"
	"github.com/matzehuels/bicolour/pkg/errors"
	"github.com/matzehuels/bicolour/pkg/graph"
	pkgio "github.com/matzehuels/bicolour/pkg/io"
	"github.com/matzehuels/bicolour/pkg/observability"
)

const (
	darkFill       = "#303030"
	pointsPerInch  = 72.0
	edgeColour     = "#606060"
	vertexDiameter = 0.45 // inches
)

// Engine is a Graphviz layout engine.
type Engine string

const (
	EngineNeato Engine = "neato"
	EngineDot   Engine = "dot"
	EngineCirco Engine = "circo"
	EngineFDP   Engine = "fdp"
)

var layouts = map[Engine]graphviz.Layout{
	EngineNeato: graphviz.NEATO,
	EngineDot:   graphviz.DOT,
	EngineCirco: graphviz.CIRCO,
	EngineFDP:   graphviz.FDP,
}

// ParseEngine parses an engine name. The empty string means neato.
func ParseEngine(s string) (Engine, error) {
	if s == "" {
		return EngineNeato, nil
	}
	e := Engine(strings.ToLower(s))
	if _, ok := layouts[e]; !ok {
		return "", errors.New(errors.ErrCodeInvalidInput, "unknown layout engine %q (want neato, dot, circo or fdp)", s)
	}
	return e, nil
}

// Options configures node-link diagram rendering.
type Options struct {
	// Labels draws vertex IDs inside the circles.
	Labels bool

	// Locator supplies live positions. May be nil.
	Locator pkgio.Locator

	// Engine is used by [Render]. Defaults to neato.
	Engine Engine
}

// ToDOT converts a colouring to Graphviz DOT source.
func ToDOT(c colouring.Colouring, opts Options) string {
	g := c.Graph()

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  outputorder=edgesfirst;\n")
	fmt.Fprintf(&buf, "  node [shape=circle, style=filled, fixedsize=true, width=%.2f, fontsize=10, penwidth=1.5, color=%q];\n",
		vertexDiameter, darkFill)
	fmt.Fprintf(&buf, "  edge [penwidth=1.5, color=%q];\n", edgeColour)
	buf.WriteString("\n")

	for _, v := range g.Vertices() {
		col, _ := c.Colour(v)
		fmt.Fprintf(&buf, "  %q [%s];\n", v.ID, strings.Join(fmtAttrs(v, col, opts), ", "))
	}

	if g.EdgeCount() > 0 {
		buf.WriteString("\n")
	}
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %q -- %q [id=%q];\n", e.Source.ID, e.Target.ID, e.ID)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtAttrs(v graph.Vertex, col colouring.Colour, opts Options) []string {
	label := ""
	if opts.Labels {
		label = v.ID
	}
	fill, font := "white", darkFill
	if col == colouring.Black {
		fill, font = darkFill, "white"
	}

	attrs := []string{
		fmt.Sprintf("label=%q", label),
		fmt.Sprintf("fillcolor=%q", fill),
		fmt.Sprintf("fontcolor=%q", font),
	}
	if p, ok := position(v, opts.Locator); ok {
		attrs = append(attrs, fmt.Sprintf("pos=\"%s,%s!\"", inches(p.X), inches(-p.Y)))
	}
	return attrs
}

func position(v graph.Vertex, loc pkgio.Locator) (graph.Point, bool) {
	if loc != nil {
		if p, ok := loc.Position(v.ID); ok {
			return p, true
		}
	}
	return v.Position()
}

func inches(points float64) string {
	v := points / pointsPerInch
	if v == 0 {
		v = 0 // drop the sign of -0
	}
	return strconv.FormatFloat(v, 'f', 3, 64)
}

// RenderSVG renders DOT source to SVG with the given layout engine.
func RenderSVG(ctx context.Context, dot string, engine Engine) ([]byte, error) {
	layout, ok := layouts[engine]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown layout engine %q", engine)
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(layout)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

// Render converts c to DOT and renders it to SVG, reporting to the render
// hooks.
func Render(ctx context.Context, c colouring.Colouring, opts Options) ([]byte, error) {
	engine := opts.Engine
	if engine == "" {
		engine = EngineNeato
	}

	hooks := observability.Render()
	hooks.OnRenderStart(ctx, string(engine), c.Graph().VertexCount())
	start := time.Now()

	svg, err := RenderSVG(ctx, ToDOT(c, opts), engine)
	hooks.OnRenderComplete(ctx, string(engine), time.Since(start), err)
	return svg, err
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
