// Package render turns solve results into pictures.
//
// # Overview
//
// The [nodelink] subpackage draws the path of board states a solve walks
// through as a Graphviz diagram: each state is a node, each move an arrow.
// This package holds the format conversion shared by renderers.
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert an SVG to other formats using the external
// rsvg-convert tool (from librsvg):
//
//	svg, err := nodelink.RenderSVG(dot)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// [nodelink]: github.com/matzehuels/hanoi/pkg/render/nodelink
package render
