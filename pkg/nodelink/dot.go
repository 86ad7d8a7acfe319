package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/net2mat/pkg/canonical"
	"github.com/matzehuels/net2mat/pkg/errors"
	"github.com/matzehuels/net2mat/pkg/network"
)

// Format constants for rendered outputs.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
	FormatDOT = "dot"
)

// ParseFormat derives the output format from a file name extension.
func ParseFormat(path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case FormatSVG, FormatPNG, FormatDOT:
		return ext, nil
	case "gv":
		return FormatDOT, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidArgument, "invalid format: %q (must be one of: svg, png, dot)", ext)
	}
}

// Options configures diagram generation.
type Options struct {
	// Detailed adds the physical attributes to node and edge labels.
	// When false, only ids are shown.
	Detailed bool
}

// ToDOT converts a canonicalized network to Graphviz DOT format.
func ToDOT(res *canonical.Result, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=10];\n")
	buf.WriteString("\n")

	for i := range res.Nodes.Len() {
		n := res.Node(i)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(n, opts.Detailed), ", "))
	}

	missing := map[string]bool{}
	for i := range res.Connections.Len() {
		c := res.Connection(i)
		for _, id := range []string{c.From, c.To} {
			if _, ok := res.Nodes.Lookup(id); !ok && !missing[id] {
				missing[id] = true
				fmt.Fprintf(&buf, "  %q [label=%q, color=red, fontcolor=red, style=\"rounded,dashed\"];\n", id, id+"\n(missing)")
			}
		}
	}

	buf.WriteString("\n")
	for i := range res.Connections.Len() {
		c := res.Connection(i)
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", c.From, c.To, strings.Join(edgeAttrs(c, opts.Detailed), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n network.NodeRecord, detailed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", nodeLabel(n, detailed))}
	if n.IsSource() {
		attrs = append(attrs, "fillcolor=lightblue")
	}
	return attrs
}

func nodeLabel(n network.NodeRecord, detailed bool) string {
	if !detailed {
		return n.ID
	}
	parts := []string{
		n.Element,
		fmt.Sprintf("p: %g..%g", n.PressureMin, n.PressureMax),
		fmt.Sprintf("h: %g", n.Height),
	}
	if n.IsSource() {
		parts = append(parts, fmt.Sprintf("T: %g", n.Temperature))
	}
	return n.ID + "\n" + strings.Join(parts, "\n")
}

func edgeAttrs(c network.ConnectionRecord, detailed bool) []string {
	label := c.ID
	if detailed && c.IsPipe() {
		label += fmt.Sprintf("\nL=%g D=%g k=%g", c.Length, c.Diameter, c.Roughness)
	} else if detailed && c.Element != "" {
		label += "\n" + c.Element
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if !c.IsPipe() {
		attrs = append(attrs, "style=dashed")
	}
	return attrs
}

// Render renders a DOT graph in the given format. FormatDOT returns the
// DOT text unchanged.
func Render(dot, format string) ([]byte, error) {
	switch format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		return RenderSVG(dot)
	case FormatPNG:
		return RenderPNG(dot)
	default:
		return nil, errors.New(errors.ErrCodeInvalidArgument, "invalid format: %q (must be one of: svg, png, dot)", format)
	}
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	out, err := render(dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	return render(dot, graphviz.PNG)
}

func render(dot string, format graphviz.Format) ([]byte, error) {
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
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root svg tag so the picture scales with
// its container.
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
