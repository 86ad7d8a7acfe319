// Package gaslib extracts node and connection records from GasLib network
// files (.net).
//
// # Document Shape
//
// A network file is an XML tree whose root element is "network". Its
// "nodes" child holds one element per node and its "connections" child one
// element per connection:
//
//	<network xmlns:framework="http://gaslib.zib.de/Framework" ...>
//	  <framework:nodes>
//	    <source id="entry01">
//	      <height value="0"/>
//	      <pressureMin value="1"/>
//	      <pressureMax value="70"/>
//	      <gasTemperature value="15"/>
//	    </source>
//	    <sink id="exit01"> ... </sink>
//	  </framework:nodes>
//	  <framework:connections>
//	    <pipe id="pipe01" from="entry01" to="exit01">
//	      <length value="10"/>
//	      <diameter value="500"/>
//	      <roughness value="0.1"/>
//	    </pipe>
//	    <valve id="valve01" from="exit01" to="entry01"/>
//	  </framework:connections>
//	</network>
//
// Elements are matched by local name, so namespace prefixes do not matter.
// The element name of a node selects its kind ("source" or anything else);
// the element name of a connection selects its kind ("pipe" or anything
// else). Numeric attributes are read from the "value" attribute of the
// named child; a missing or unparsable value reads as 0.
//
// # Usage
//
//	net, err := gaslib.ImportXML("GasLib-11.net")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(len(net.Nodes), len(net.Connections))
//
// Records are returned in document order, duplicates included.
package gaslib
