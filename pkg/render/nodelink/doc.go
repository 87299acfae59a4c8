// Package nodelink renders a solve as a node-link diagram of board states.
//
// # Overview
//
// Every board a solve passes through becomes a box listing the three pegs;
// every move becomes an arrow labelled with the disk and the pegs it moved
// between. For n disks the diagram is a single chain of 2^n boxes, so it is
// only readable for small n.
//
// # Usage
//
// Collect snapshots with [hanoi.WithObserver] (or from a pipeline result),
// convert them to DOT, then render:
//
//	dot := nodelink.ToDOT(states, moves, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(dot)
//	png, err := nodelink.RenderPNG(dot, 2.0)  // 2x scale
//
// # Options
//
//   - Detailed: node labels also carry the per-peg loads
//
// The generated DOT uses left-to-right layout (rankdir=LR) with rounded
// record nodes. The first state is drawn bold and the last one filled.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
