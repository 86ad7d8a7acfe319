// Package incidence turns a canonicalized network into the numeric arrays
// consumed by matrix tooling: a signed node × connection incidence matrix
// and one attribute vector per physical quantity.
//
// Column j of the incidence matrix describes the connection with canonical
// index j: −1 in the row of its "from" node and +1 in the row of its "to"
// node, so every column sums to zero. A self-loop leaves its column zero.
//
// Attribute vectors are ordered by canonical index. The temperature vector is
// the exception: by default it lists source temperatures in the order the
// source nodes appear in the document (see [TemperatureOrder]).
package incidence

import (
	"fmt"

	"github.com/matzehuels/net2mat/pkg/canonical"
	"github.com/matzehuels/net2mat/pkg/errors"
)

// TemperatureOrder selects how the temperature vector is ordered.
type TemperatureOrder int

const (
	// TemperatureEncounter lists the temperature of every source node
	// element in document order. Existing consumers expect this order.
	TemperatureEncounter TemperatureOrder = iota
	// TemperatureCanonical lists the temperatures of the de-duplicated
	// source nodes in canonical node order.
	TemperatureCanonical
)

// String returns "encounter" or "canonical".
func (o TemperatureOrder) String() string {
	if o == TemperatureCanonical {
		return "canonical"
	}
	return "encounter"
}

// ParseTemperatureOrder parses "encounter" or "canonical". The empty string
// selects the default, encounter order.
func ParseTemperatureOrder(s string) (TemperatureOrder, error) {
	switch s {
	case "", "encounter":
		return TemperatureEncounter, nil
	case "canonical":
		return TemperatureCanonical, nil
	default:
		return 0, fmt.Errorf("unknown temperature order %q (must be 'encounter' or 'canonical')", s)
	}
}

// Options configures Build.
type Options struct {
	TemperatureOrder TemperatureOrder
}

// Arrays holds every numeric array derived from a network.
type Arrays struct {
	// Incidence is nb_nodes × nb_connections.
	Incidence *Matrix

	// Connection attributes, indexed by canonical connection index.
	// Non-pipe connections hold zeros.
	Roughness []float64
	Diameter  []float64
	Length    []float64

	// Node attributes, indexed by canonical node index.
	PressureMin []float64
	PressureMax []float64
	Height      []float64

	// Temperature has one entry per source node; see [TemperatureOrder].
	Temperature []float64
}

// Build computes the incidence matrix and attribute vectors for res.
//
// A connection whose endpoint does not resolve to a node returns an
// *errors.DanglingReferenceError naming the connection and the missing id.
// Connections are checked in canonical order, "from" before "to".
func Build(res *canonical.Result, opts Options) (*Arrays, error) {
	nbNodes := res.Nodes.Len()
	nbConns := res.Connections.Len()

	a := &Arrays{
		Incidence:   NewMatrix(nbNodes, nbConns),
		Roughness:   make([]float64, nbConns),
		Diameter:    make([]float64, nbConns),
		Length:      make([]float64, nbConns),
		PressureMin: make([]float64, nbNodes),
		PressureMax: make([]float64, nbNodes),
		Height:      make([]float64, nbNodes),
	}

	for j := range nbConns {
		c := res.Connection(j)
		from, ok := res.Nodes.Lookup(c.From)
		if !ok {
			return nil, &errors.DanglingReferenceError{ConnectionID: c.ID, Endpoint: "from", NodeID: c.From}
		}
		to, ok := res.Nodes.Lookup(c.To)
		if !ok {
			return nil, &errors.DanglingReferenceError{ConnectionID: c.ID, Endpoint: "to", NodeID: c.To}
		}
		a.Incidence.add(from, j, srcMark)
		a.Incidence.add(to, j, dstMark)

		if c.IsPipe() {
			a.Roughness[j] = c.Roughness
			a.Diameter[j] = c.Diameter
			a.Length[j] = c.Length
		}
	}

	for i := range nbNodes {
		n := res.Node(i)
		a.PressureMin[i] = n.PressureMin
		a.PressureMax[i] = n.PressureMax
		a.Height[i] = n.Height
	}

	a.Temperature = temperatures(res, opts.TemperatureOrder)
	return a, nil
}

func temperatures(res *canonical.Result, order TemperatureOrder) []float64 {
	out := []float64{}
	if order == TemperatureCanonical {
		for i := range res.Nodes.Len() {
			if n := res.Node(i); n.IsSource() {
				out = append(out, n.Temperature)
			}
		}
		return out
	}
	if res.Network == nil {
		return out
	}
	for _, n := range res.Network.Nodes {
		if n.IsSource() {
			out = append(out, n.Temperature)
		}
	}
	return out
}
