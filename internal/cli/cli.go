package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/net2mat/pkg/buildinfo"
	"github.com/matzehuels/net2mat/pkg/config"
	"github.com/matzehuels/net2mat/pkg/errors"
	"github.com/matzehuels/net2mat/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "net2mat"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// usage is printed when the program is called with the wrong arguments.
const usage = `the call syntax is one of the following:
    net2mat /path/to/load/network_name.net
    net2mat /path/to/load/network_name.net /path/to/output/
    net2mat /path/to/load/network_name.net /path/to/output/output_name.mat
In the first case the output is written next to the input with the same name
but .mat extension. In the second case it is written to the target directory
with the same name. In the third case it is written to the given path.`

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	verbose    bool
	configPath string
	config     *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
//
// The root command itself accepts the same arguments as convert, so
// "net2mat network.net" works without naming the subcommand.
func (c *CLI) RootCommand() *cobra.Command {
	convert := convertFlags{}

	root := &cobra.Command{
		Use:   "net2mat <input> [output]",
		Short: "net2mat converts gas network files to MAT-files",
		Long: `net2mat converts a GasLib network description (.net XML) into a MAT-file
holding the incidence matrix of the network, its pipe and node attributes and
the node and connection ids in matrix order.`,
		Version:           buildinfo.Get().Version,
		Args:              convertArgs,
		ValidArgsFunction: completeArgs(networkExts, matExts),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConvert(cmd, args, convert)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/net2mat/config.toml)")
	convert.register(root)

	// Register all subcommands
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration, applies the log level and attaches the
// logger to the command context.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.config = cfg

	level := cfg.LogLevel(LogInfo)
	if c.verbose {
		level = LogDebug
	}
	c.SetLogLevel(level)

	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(logger *log.Logger) *pipeline.Runner {
	return pipeline.NewRunner(logger)
}

// =============================================================================
// Arguments
// =============================================================================

// convertArgs accepts an input path and an optional output path.
func convertArgs(_ *cobra.Command, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return errors.New(errors.ErrCodeInvalidArgument, "wrong number of arguments, %s", usage)
	}
	return nil
}
