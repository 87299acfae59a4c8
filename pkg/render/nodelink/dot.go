package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/hanoi/pkg/hanoi"
	"github.com/matzehuels/hanoi/pkg/render"
)

// Options configures state diagram rendering.
type Options struct {
	// Detailed adds the load of every peg to each node label.
	Detailed bool
}

// ToDOT converts a sequence of board states into Graphviz DOT. states[0] is
// the starting board and states[i] the board after moves[i-1]. Extra moves
// without a matching state are ignored.
func ToDOT(states []*hanoi.Board, moves []hanoi.Move, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"monospace\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=12];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for i, b := range states {
		attrs := fmtAttrs(i, len(states), fmtLabel(i, b, opts.Detailed))
		fmt.Fprintf(&buf, "  %q [%s];\n", nodeID(i), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for i, m := range moves {
		if i+1 >= len(states) {
			break
		}
		label := fmt.Sprintf("%d: %d→%d", m.Disk, m.From, m.To)
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", nodeID(i), nodeID(i+1), label)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(step int) string {
	return "s" + strconv.Itoa(step)
}

func fmtLabel(step int, b *hanoi.Board, detailed bool) string {
	lines := []string{fmt.Sprintf("step %d", step)}
	for i := 0; i < hanoi.NumPegs; i++ {
		line := fmt.Sprintf("%d| %s", i, fmtPeg(b.Peg(i)))
		if detailed {
			line += fmt.Sprintf("  (%d)", b.Load(i))
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// fmtPeg lists disks bottom to top, the way they are stacked.
func fmtPeg(topFirst []int) string {
	if len(topFirst) == 0 {
		return "-"
	}
	parts := make([]string, len(topFirst))
	for i, d := range topFirst {
		parts[len(topFirst)-1-i] = strconv.Itoa(d)
	}
	return strings.Join(parts, " ")
}

func fmtAttrs(step, total int, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch {
	case step == 0:
		attrs = append(attrs, "penwidth=2")
	case step == total-1:
		attrs = append(attrs, "fillcolor=lightgrey")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

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

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-based svg tag with a plain
// viewBox so the image scales in browsers.
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

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(dot string) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
