package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/net2mat/pkg/pipeline"
)

// convertFlags holds the command-line flags shared by convert and the root
// shorthand. Empty values fall back to the config file, then to the
// pipeline defaults.
type convertFlags struct {
	duplicates       string // "replace" or "error"
	temperatureOrder string // "encounter" or "canonical"
}

func (f *convertFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.duplicates, "duplicates", "", "duplicate id policy: replace (default, last one wins), error")
	cmd.Flags().StringVar(&f.temperatureOrder, "temperature-order", "", "temperature vector order: encounter (default, document order), canonical")
}

// convertCommand creates the convert command.
func (c *CLI) convertCommand() *cobra.Command {
	flags := convertFlags{}

	cmd := &cobra.Command{
		Use:   "convert <input> [output]",
		Short: "Convert a network file to a MAT-file",
		Long: `Convert a GasLib network file to a MAT-file.

The output path is derived from the optional second argument:
  (none)            input path with the extension replaced by .mat
  out/name.mat      used as is
  out/              input name with .mat, written into out/
  out               treated as a directory, same as out/

The MAT-file holds these variables:
  incidence_matrix   int32   nodes x connections, -1 at from, +1 at to
  roughness          double  1 x connections (0 for non-pipes)
  diameter           double  1 x connections (0 for non-pipes)
  length             double  1 x connections (0 for non-pipes)
  pressure_min       double  1 x nodes
  pressure_max       double  1 x nodes
  height             double  1 x nodes
  temperature        double  1 x sources
  connections_order  char    connections x longest connection id
  nodes_order        char    nodes x longest node id

Rows and columns follow the ids sorted byte-wise.`,
		Args:              convertArgs,
		ValidArgsFunction: completeArgs(networkExts, matExts),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConvert(cmd, args, flags)
		},
	}

	flags.register(cmd)
	return cmd
}

// runConvert resolves the paths, merges flags with the config file and runs
// the pipeline.
func (c *CLI) runConvert(cmd *cobra.Command, args []string, flags convertFlags) error {
	input := args[0]
	var output string
	if len(args) == 2 {
		output = args[1]
	}
	out, err := resolveOutputPath(input, output)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	opts := pipeline.Options{
		Input:            input,
		Output:           out,
		Duplicates:       c.config.Convert.Duplicates,
		TemperatureOrder: c.config.Convert.TemperatureOrder,
		Header:           c.config.Convert.Header,
		Logger:           logger,
	}
	if flags.duplicates != "" {
		opts.Duplicates = flags.duplicates
	}
	if flags.temperatureOrder != "" {
		opts.TemperatureOrder = flags.temperatureOrder
	}

	prog := newProgress(logger)
	result, err := c.newRunner(logger).Execute(ctx, opts)
	if err != nil {
		return err
	}
	prog.done("Conversion complete", "output", result.Output)

	w := cmd.OutOrStdout()
	printSuccess(w, "Converted %s", input)
	printFile(w, result.Output)
	printStats(w, result.Stats)
	printKeyValue(w, "sha256", result.Hash)
	if result.Stats.DuplicateCount > 0 {
		printWarning(w, "%d duplicate ids, last occurrence kept", result.Stats.DuplicateCount)
	}
	return nil
}

// formatShape renders array dimensions as "rows x cols".
func formatShape(rows, cols int) string {
	return fmt.Sprintf("%d x %d", rows, cols)
}
