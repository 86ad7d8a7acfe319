package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/net2mat/pkg/canonical"
	"github.com/matzehuels/net2mat/pkg/errors"
	"github.com/matzehuels/net2mat/pkg/gaslib"
	"github.com/matzehuels/net2mat/pkg/nodelink"
)

// graphOpts holds the command-line flags for the graph command.
type graphOpts struct {
	output   string // output file; format follows the extension
	detailed bool   // show attributes in labels
}

// graphCommand creates the graph command for drawing the network topology.
func (c *CLI) graphCommand() *cobra.Command {
	opts := graphOpts{}

	cmd := &cobra.Command{
		Use:   "graph <input>",
		Short: "Draw the network topology",
		Long: `Draw the network as a node-link diagram.

Source nodes are highlighted, pipes are solid arrows and all other connection
kinds are dashed. Connections to unknown nodes point to a red placeholder.
The output format follows the extension of --output: .svg (default), .png or
.dot.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeArgs(networkExts),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGraph(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: input name with .svg)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show node and pipe attributes")
	_ = cmd.RegisterFlagCompletionFunc("output", completeFlagExts(graphExts))

	return cmd
}

func (c *CLI) runGraph(cmd *cobra.Command, input string, opts graphOpts) error {
	out := opts.output
	if out == "" {
		out = replaceExt(input, "."+nodelink.FormatSVG)
	}
	format, err := nodelink.ParseFormat(out)
	if err != nil {
		return err
	}

	logger := loggerFromContext(cmd.Context())
	prog := newProgress(logger)

	net, err := gaslib.ImportXML(input)
	if err != nil {
		return err
	}
	res, err := canonical.Canonicalize(net, canonical.Options{})
	if err != nil {
		return err
	}

	data, err := nodelink.Render(nodelink.ToDOT(res, nodelink.Options{Detailed: opts.detailed}), format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeArtifactCreation, err, "write %s", out)
	}
	prog.done("Rendered topology", "format", format, "nodes", res.Nodes.Len(), "connections", res.Connections.Len())

	w := cmd.OutOrStdout()
	printSuccess(w, "Rendered %s", input)
	printFile(w, out)
	return nil
}
