package gaslib

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/matzehuels/net2mat/pkg/errors"
	"github.com/matzehuels/net2mat/pkg/network"
)

// Element and attribute names used by GasLib network files.
const (
	elemNetwork        = "network"
	elemNodes          = "nodes"
	elemConnections    = "connections"
	elemSource         = "source"
	elemPipe           = "pipe"
	elemPressureMin    = "pressureMin"
	elemPressureMax    = "pressureMax"
	elemHeight         = "height"
	elemGasTemperature = "gasTemperature"
	elemRoughness      = "roughness"
	elemDiameter       = "diameter"
	elemLength         = "length"

	attrID    = "id"
	attrFrom  = "from"
	attrTo    = "to"
	attrValue = "value"
)

// element is a generic XML element: its name, attributes and element
// children. Character data and comments are dropped.
type element struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []element  `xml:",any"`
}

// attr returns the value of the attribute with the given local name.
func (e *element) attr(name string) string {
	for _, a := range e.Attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// child returns the first element child with the given local name.
func (e *element) child(name string) *element {
	for i := range e.Children {
		if e.Children[i].XMLName.Local == name {
			return &e.Children[i]
		}
	}
	return nil
}

// value reads the "value" attribute of the named child as a float64.
// A missing child or an unparsable value yields 0.
func (e *element) value(name string) float64 {
	c := e.child(name)
	if c == nil {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(c.attr(attrValue)), 64)
	if err != nil {
		return 0
	}
	return v
}

// ReadXML decodes a GasLib network document from r.
//
// A document whose root is not "network", or that has no "nodes" or
// "connections" collection, decodes to a network with the corresponding
// records missing. Only malformed XML is an error, reported with code
// [errors.ErrCodeDocumentParse].
//
// ReadXML does not close r.
func ReadXML(r io.Reader) (*network.Network, error) {
	var root element
	if err := xml.NewDecoder(r).Decode(&root); err != nil {
		return nil, errors.Wrap(errors.ErrCodeDocumentParse, err, "decode network document")
	}

	net := &network.Network{}
	if root.XMLName.Local != elemNetwork {
		return net, nil
	}

	if nodes := root.child(elemNodes); nodes != nil {
		net.Nodes = make([]network.NodeRecord, 0, len(nodes.Children))
		for i := range nodes.Children {
			net.Nodes = append(net.Nodes, nodeRecord(&nodes.Children[i]))
		}
	}
	if conns := root.child(elemConnections); conns != nil {
		net.Connections = make([]network.ConnectionRecord, 0, len(conns.Children))
		for i := range conns.Children {
			net.Connections = append(net.Connections, connectionRecord(&conns.Children[i]))
		}
	}
	return net, nil
}

// ImportXML reads the network file at path.
//
// Failure to open the file and malformed XML are both reported with code
// [errors.ErrCodeDocumentParse].
func ImportXML(path string) (*network.Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDocumentParse, err, "open %s", path)
	}
	defer f.Close()

	net, err := ReadXML(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return net, nil
}

func nodeRecord(e *element) network.NodeRecord {
	n := network.NodeRecord{
		ID:          e.attr(attrID),
		Element:     e.XMLName.Local,
		PressureMin: e.value(elemPressureMin),
		PressureMax: e.value(elemPressureMax),
		Height:      e.value(elemHeight),
	}
	if e.XMLName.Local == elemSource {
		n.Kind = network.NodeKindSource
		n.Temperature = e.value(elemGasTemperature)
	}
	return n
}

func connectionRecord(e *element) network.ConnectionRecord {
	c := network.ConnectionRecord{
		ID:      e.attr(attrID),
		Element: e.XMLName.Local,
		From:    e.attr(attrFrom),
		To:      e.attr(attrTo),
	}
	if e.XMLName.Local == elemPipe {
		c.Kind = network.ConnectionKindPipe
		c.Roughness = e.value(elemRoughness)
		c.Diameter = e.value(elemDiameter)
		c.Length = e.value(elemLength)
	}
	return c
}
