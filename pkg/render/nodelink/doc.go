// Package nodelink renders colourings as node-link diagrams.
//
// # Overview
//
// Each vertex becomes a filled circle: white vertices are white with dark
// text, black vertices are dark with white text. Edges are undirected lines.
//
// # Usage
//
// Convert a colouring to DOT, then render to SVG:
//
//	dot := nodelink.ToDOT(c, nodelink.Options{Labels: true, Locator: scene})
//	svg, err := nodelink.RenderSVG(ctx, dot, nodelink.EngineNeato)
//
// [Render] does both and reports to the render hooks.
//
// # Positions
//
// Positions come from the optional [pkgio.Locator] first, then from the
// vertices themselves. Known positions are pinned (pos="x,y!") so the neato
// and fdp engines keep them; editor coordinates grow downwards, so y is
// flipped, and points are converted to inches. Vertices without a position
// are placed by the engine.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process rendering.
//
// [pkgio.Locator]: github.com/matzehuels/bicolour/pkg/io.Locator
package nodelink
