package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/net2mat/pkg/canonical"
	"github.com/matzehuels/net2mat/pkg/gaslib"
	"github.com/matzehuels/net2mat/pkg/incidence"
	"github.com/matzehuels/net2mat/pkg/matfile"
	"github.com/matzehuels/net2mat/pkg/observability"
	"github.com/matzehuels/net2mat/pkg/strtable"
)

// Runner executes conversions.
//
// The Runner is stateless except for the logger. Multiple goroutines can
// safely use the same Runner with different options.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. If logger is nil, log.Default() is used.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Execute runs the complete parse → index → build → write pipeline.
// Nothing is written unless every earlier stage succeeds. Stage events are
// reported to the registered [observability.PipelineHooks].
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	hooks := observability.Pipeline()
	result := &Result{Output: opts.Output}

	// Stage 1+2: Parse and index
	hooks.OnParseStart(ctx, opts.Input)
	parseStart := time.Now()
	res, err := r.Parse(ctx, opts)
	result.Stats.ParseTime = time.Since(parseStart)
	if err != nil {
		hooks.OnParseComplete(ctx, opts.Input, 0, 0, result.Stats.ParseTime, err)
		return nil, fmt.Errorf("parse: %w", err)
	}
	hooks.OnParseComplete(ctx, opts.Input, res.Nodes.Len(), res.Connections.Len(), result.Stats.ParseTime, nil)
	result.Canonical = res
	result.Stats.NodeCount = res.Nodes.Len()
	result.Stats.ConnectionCount = res.Connections.Len()
	result.Stats.DuplicateCount = len(res.Duplicates)

	opts.Logger.Info("parsed network",
		"nodes", res.Nodes.Len(),
		"connections", res.Connections.Len(),
		"duration", result.Stats.ParseTime)

	// Stage 3: Build
	hooks.OnBuildStart(ctx, res.Nodes.Len(), res.Connections.Len())
	buildStart := time.Now()
	vars, arrays, err := r.Build(ctx, res, opts)
	result.Stats.BuildTime = time.Since(buildStart)
	hooks.OnBuildComplete(ctx, result.Stats.BuildTime, err)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Arrays = arrays
	result.Variables = vars
	result.Stats.SourceCount = len(arrays.Temperature)

	opts.Logger.Info("built arrays",
		"sources", len(arrays.Temperature),
		"duration", result.Stats.BuildTime)

	// Stage 4: Write
	hooks.OnWriteStart(ctx, opts.Output)
	writeStart := time.Now()
	hash, size, err := r.Write(ctx, vars, opts)
	result.Stats.WriteTime = time.Since(writeStart)
	hooks.OnWriteComplete(ctx, opts.Output, size, result.Stats.WriteTime, err)
	if err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}
	result.Hash = hash
	result.Stats.Bytes = size

	opts.Logger.Info("wrote artifact",
		"path", opts.Output,
		"bytes", size,
		"duration", result.Stats.WriteTime)

	return result, nil
}

// Parse decodes the input document and assigns canonical indices.
func (r *Runner) Parse(ctx context.Context, opts Options) (*canonical.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)
	opts.SetDefaults()

	net, err := gaslib.ImportXML(opts.Input)
	if err != nil {
		return nil, err
	}
	opts.Logger.Debug("read records",
		"nodes", len(net.Nodes),
		"connections", len(net.Connections))

	res, err := canonical.Canonicalize(net, opts.canonicalOptions())
	if err != nil {
		return nil, err
	}
	for _, d := range res.Duplicates {
		opts.Logger.Debug("duplicate id, keeping last occurrence",
			"category", d.Category,
			"id", d.ID,
			"count", d.Count)
	}
	if len(res.Duplicates) > 0 {
		opts.Logger.Warn("duplicate ids replaced", "count", len(res.Duplicates))
	}
	return res, nil
}

// Build computes the arrays for res and wraps them as named variables in
// file order.
func (r *Runner) Build(ctx context.Context, res *canonical.Result, opts Options) ([]*matfile.Variable, *incidence.Arrays, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	opts.SetDefaults()

	arrays, err := incidence.Build(res, opts.incidenceOptions())
	if err != nil {
		return nil, nil, err
	}
	vars, err := Variables(arrays, strtable.Encode(res.Connections), strtable.Encode(res.Nodes))
	if err != nil {
		return nil, nil, err
	}
	return vars, arrays, nil
}

// Variables wraps the arrays and identifier tables as the ten named
// variables of the artifact, in file order and with their final shapes.
func Variables(a *incidence.Arrays, connections, nodes *strtable.Table) ([]*matfile.Variable, error) {
	type entry struct {
		name  string
		class matfile.Class
		rows  int
		cols  int
		data  any
	}
	entries := []entry{
		{VarIncidence, matfile.ClassInt32, a.Incidence.Rows(), a.Incidence.Cols(), a.Incidence.Data()},
		{VarRoughness, matfile.ClassDouble, 1, len(a.Roughness), a.Roughness},
		{VarDiameter, matfile.ClassDouble, 1, len(a.Diameter), a.Diameter},
		{VarLength, matfile.ClassDouble, 1, len(a.Length), a.Length},
		{VarPressureMin, matfile.ClassDouble, 1, len(a.PressureMin), a.PressureMin},
		{VarPressureMax, matfile.ClassDouble, 1, len(a.PressureMax), a.PressureMax},
		{VarHeight, matfile.ClassDouble, 1, len(a.Height), a.Height},
		{VarTemperature, matfile.ClassDouble, 1, len(a.Temperature), a.Temperature},
		{VarConnectionsOrder, matfile.ClassChar, connections.Rows(), connections.Cols(), connections.Data()},
		{VarNodesOrder, matfile.ClassChar, nodes.Rows(), nodes.Cols(), nodes.Data()},
	}

	vars := make([]*matfile.Variable, 0, len(entries))
	for _, e := range entries {
		v, err := matfile.NewVariable(e.name, e.class, e.rows, e.cols, e.data)
		if err != nil {
			return nil, err
		}
		vars = append(vars, v)
	}
	return vars, nil
}

// Write encodes vars and stores them at opts.Output. It returns the
// SHA-256 of the artifact and its size in bytes.
func (r *Runner) Write(ctx context.Context, vars []*matfile.Variable, opts Options) (string, int, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	data, err := matfile.Marshal(vars, matfile.Options{Header: opts.Header})
	if err != nil {
		return "", 0, err
	}
	if err := matfile.WriteBytes(opts.Output, data); err != nil {
		return "", 0, err
	}
	return Hash(data), len(data), nil
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
