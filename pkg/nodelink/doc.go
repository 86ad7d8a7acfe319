// Package nodelink renders a pipe network as a node-link diagram.
//
// # Overview
//
// This package produces a directed graph picture of the network topology
// using Graphviz: nodes appear as boxes, connections as arrows from their
// from node to their to node. It is a preview of what the incidence matrix
// encodes and is useful to spot disconnected parts or reversed pipes before
// converting.
//
// # Usage
//
// Convert a canonicalized network to DOT, then render it:
//
//	dot := nodelink.ToDOT(res, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//	png, err := nodelink.RenderPNG(dot)
//
// # Styling
//
// Source nodes are filled light blue. Pipes are solid arrows, every other
// connection kind (valves, compressors, resistors, ...) is dashed. Arrows
// whose endpoint does not name a node point to a red placeholder so
// dangling references are visible.
//
// Nodes and connections are emitted in canonical order, so the DOT text is
// deterministic for a given document.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process
// rendering. No system Graphviz installation is needed.
package nodelink
