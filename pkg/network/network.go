// Package network defines the raw records extracted from a pipe network
// description.
//
// Records are plain values in document order. They are created once by the
// extraction step and never modified; the canonicalizer and matrix builder
// read them without copying behaviour back into this package.
package network

// NodeKind distinguishes supply nodes from every other kind of node.
// Only sources carry a gas temperature.
type NodeKind int

const (
	// NodeKindOther is any node that is not a source (sinks, inner nodes, ...).
	NodeKindOther NodeKind = iota
	// NodeKindSource is a supply node; its Temperature field is meaningful.
	NodeKindSource
)

// String returns "source" or "other".
func (k NodeKind) String() string {
	if k == NodeKindSource {
		return "source"
	}
	return "other"
}

// ConnectionKind distinguishes pipes from every other kind of connection.
// Only pipes carry roughness, diameter and length.
type ConnectionKind int

const (
	// ConnectionKindOther is any connection that is not a pipe (valves,
	// compressors, short pipes, ...). Its physical attributes are zero.
	ConnectionKindOther ConnectionKind = iota
	// ConnectionKindPipe is a pipe with roughness, diameter and length.
	ConnectionKindPipe
)

// String returns "pipe" or "other".
func (k ConnectionKind) String() string {
	if k == ConnectionKindPipe {
		return "pipe"
	}
	return "other"
}

// NodeRecord is one node element as found in the document.
type NodeRecord struct {
	ID          string
	Kind        NodeKind
	Element     string // element name as written in the document, e.g. "sink"
	PressureMin float64
	PressureMax float64
	Height      float64
	Temperature float64 // only meaningful when Kind == NodeKindSource
}

// IsSource reports whether the node supplies gas.
func (n NodeRecord) IsSource() bool { return n.Kind == NodeKindSource }

// ConnectionRecord is one connection element as found in the document.
type ConnectionRecord struct {
	ID        string
	Kind      ConnectionKind
	Element   string // element name as written in the document, e.g. "valve"
	From      string // id of the node the connection leaves
	To        string // id of the node the connection enters
	Roughness float64
	Diameter  float64
	Length    float64
}

// IsPipe reports whether the connection is a pipe.
func (c ConnectionRecord) IsPipe() bool { return c.Kind == ConnectionKindPipe }

// Network holds every record of one document in the order it was found.
// Duplicate ids are kept as separate records; resolving them is the
// canonicalizer's job.
type Network struct {
	Nodes       []NodeRecord
	Connections []ConnectionRecord
}

// SourceCount returns the number of source node records, duplicates included.
// This is the length of the temperature vector.
func (n *Network) SourceCount() int {
	count := 0
	for _, nd := range n.Nodes {
		if nd.IsSource() {
			count++
		}
	}
	return count
}
