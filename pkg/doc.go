// Package pkg provides the core libraries for net2mat.
//
// # Overview
//
// net2mat converts a GasLib network description (an XML document listing
// nodes and the pipes, valves and compressors connecting them) into a
// MAT-file holding the node-connection incidence matrix and per-connection
// and per-node attribute arrays, ready for numerical tooling.
//
// # Architecture
//
// The data flow through net2mat:
//
//	GasLib .net document
//	         ↓
//	    [gaslib] package (decode records in document order)
//	         ↓
//	    [canonical] package (unique ids, lexicographic indices)
//	         ↓
//	    [incidence] package (incidence matrix + attribute arrays)
//	         ↓
//	    [strtable] package (fixed-width identifier tables)
//	         ↓
//	    [matfile] package (level 5 MAT-file, atomic write)
//
// # Quick Start
//
//	net, _ := gaslib.ImportXML("GasLib-11.net")
//	res, _ := canonical.Canonicalize(net, canonical.Options{})
//	arrays, _ := incidence.Build(res, incidence.Options{})
//	vars, _ := pipeline.Variables(arrays,
//	    strtable.Encode(res.Connections), strtable.Encode(res.Nodes))
//	_ = matfile.WriteFile("GasLib-11.mat", vars, matfile.Options{})
//
// [pipeline.Runner] performs the same steps with logging, cancellation and
// run statistics, and is what the CLI uses.
//
// # Main Packages
//
// [network] - Data model: node and connection records as read from the
// document.
//
// [gaslib] - Record extraction from GasLib XML.
//
// [canonical] - Deduplication and lexicographic index assignment.
//
// [incidence] - Dense column-major incidence matrix and attribute vectors.
//
// [strtable] - Identifier lists as zero-padded character matrices.
//
// [matfile] - MAT-file level 5 writer and reader.
//
// [pipeline] - Orchestration used by the CLI.
//
// [nodelink] - Topology previews rendered with Graphviz.
//
// [config] - TOML configuration.
//
// [errors] - Coded errors shared by all packages.
//
// # Testing
//
//	go test ./...
//
// [network]: https://pkg.go.dev/github.com/matzehuels/net2mat/pkg/network
// [gaslib]: https://pkg.go.dev/github.com/matzehuels/net2mat/pkg/gaslib
// [canonical]: https://pkg.go.dev/github.com/matzehuels/net2mat/pkg/canonical
// [incidence]: https://pkg.go.dev/github.com/matzehuels/net2mat/pkg/incidence
// [strtable]: https://pkg.go.dev/github.com/matzehuels/net2mat/pkg/strtable
// [matfile]: https://pkg.go.dev/github.com/matzehuels/net2mat/pkg/matfile
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/net2mat/pkg/pipeline
// [pipeline.Runner]: https://pkg.go.dev/github.com/matzehuels/net2mat/pkg/pipeline#Runner
// [nodelink]: https://pkg.go.dev/github.com/matzehuels/net2mat/pkg/nodelink
// [config]: https://pkg.go.dev/github.com/matzehuels/net2mat/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/net2mat/pkg/errors
package pkg
