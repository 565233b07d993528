// Package render groups the renderers for colourings.
//
// The [nodelink] subpackage draws a colouring as a node-link diagram with
// Graphviz: vertices are filled circles in their colour, edges are plain
// lines, and known positions are pinned so the picture matches the editor.
//
//	dot := nodelink.ToDOT(c, nodelink.Options{Labels: true})
//	svg, err := nodelink.RenderSVG(ctx, dot, nodelink.EngineNeato)
//
// [nodelink]: github.com/matzehuels/bicolour/pkg/render/nodelink
package render
