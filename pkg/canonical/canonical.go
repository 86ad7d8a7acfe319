// Package canonical assigns dense, zero-based indices to node and connection
// ids.
//
// Each category is indexed independently: all distinct ids are sorted
// ascending by byte-wise string comparison and an id's index is its position
// in that order. The assignment depends only on the set of ids present, never
// on document order, so identical id sets always produce identical indices.
//
// When an id occurs more than once the last record wins. This matches the
// behaviour downstream tooling was built against; [Options.RejectDuplicates]
// turns duplicates into an error instead.
package canonical

import (
	"slices"

	"github.com/matzehuels/net2mat/pkg/errors"
	"github.com/matzehuels/net2mat/pkg/network"
)

// Index is a bijection between the distinct ids of one category and
// [0, Len()). The zero value is an empty index.
type Index struct {
	ids    []string
	lookup map[string]int
	maxLen int
}

// NewIndex builds an index over ids. Duplicates collapse to a single entry.
func NewIndex(ids []string) Index {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	idx := Index{
		ids:    sorted,
		lookup: make(map[string]int, len(sorted)),
	}
	for i, id := range sorted {
		idx.lookup[id] = i
		idx.maxLen = max(idx.maxLen, len(id))
	}
	return idx
}

// Len returns the number of distinct ids.
func (x Index) Len() int { return len(x.ids) }

// Lookup returns the canonical index of id and whether id is present.
func (x Index) Lookup(id string) (int, bool) {
	i, ok := x.lookup[id]
	return i, ok
}

// ID returns the id at canonical index i. It panics if i is out of range.
func (x Index) ID(i int) string { return x.ids[i] }

// IDs returns the ids in canonical order. The caller must not modify the
// returned slice.
func (x Index) IDs() []string { return x.ids }

// MaxLen returns the byte length of the longest id, or 0 for an empty index.
func (x Index) MaxLen() int { return x.maxLen }

// Options controls duplicate handling.
type Options struct {
	// RejectDuplicates makes Canonicalize fail with [errors.ErrCodeDuplicateID]
	// instead of letting the last occurrence of an id win.
	RejectDuplicates bool
}

// Duplicate records an id that appeared more than once.
type Duplicate struct {
	Category string // "node" or "connection"
	ID       string
	Count    int // number of occurrences in the document
}

// Result is the canonical view of a network.
type Result struct {
	Nodes       Index
	Connections Index

	// Duplicates lists ids that occurred more than once, nodes first, each
	// category in canonical order.
	Duplicates []Duplicate

	// Network is the raw input, kept for consumers that need document order.
	Network *network.Network

	nodes       []network.NodeRecord       // winning record per canonical node index
	connections []network.ConnectionRecord // winning record per canonical connection index
}

// Node returns the winning record for canonical node index i.
func (r *Result) Node(i int) network.NodeRecord { return r.nodes[i] }

// Connection returns the winning record for canonical connection index i.
func (r *Result) Connection(i int) network.ConnectionRecord { return r.connections[i] }

// Canonicalize indexes the nodes and connections of net.
func Canonicalize(net *network.Network, opts Options) (*Result, error) {
	if net == nil {
		net = &network.Network{}
	}

	nodeIDs := make([]string, len(net.Nodes))
	for i, n := range net.Nodes {
		nodeIDs[i] = n.ID
	}
	connIDs := make([]string, len(net.Connections))
	for i, c := range net.Connections {
		connIDs[i] = c.ID
	}
	for _, id := range slices.Concat(nodeIDs, connIDs) {
		if err := errors.ValidateIdentifier(id); err != nil {
			return nil, err
		}
	}

	res := &Result{
		Nodes:       NewIndex(nodeIDs),
		Connections: NewIndex(connIDs),
		Network:     net,
	}

	var nodeCounts, connCounts []int
	res.nodes, nodeCounts = winners(res.Nodes, net.Nodes, func(n network.NodeRecord) string { return n.ID })
	res.connections, connCounts = winners(res.Connections, net.Connections, func(c network.ConnectionRecord) string { return c.ID })

	res.Duplicates = append(duplicates("node", res.Nodes, nodeCounts), duplicates("connection", res.Connections, connCounts)...)
	if opts.RejectDuplicates && len(res.Duplicates) > 0 {
		d := res.Duplicates[0]
		return nil, errors.New(errors.ErrCodeDuplicateID, "%s id %q occurs %d times (%d duplicated ids in total)",
			d.Category, d.ID, d.Count, len(res.Duplicates))
	}
	return res, nil
}

// winners places each record at its id's canonical index. Later records
// overwrite earlier ones, so the slot ends up holding the last occurrence.
func winners[T any](idx Index, records []T, id func(T) string) ([]T, []int) {
	out := make([]T, idx.Len())
	counts := make([]int, idx.Len())
	for _, rec := range records {
		i, _ := idx.Lookup(id(rec))
		out[i] = rec
		counts[i]++
	}
	return out, counts
}

func duplicates(category string, idx Index, counts []int) []Duplicate {
	var out []Duplicate
	for i, n := range counts {
		if n > 1 {
			out = append(out, Duplicate{Category: category, ID: idx.ID(i), Count: n})
		}
	}
	return out
}
