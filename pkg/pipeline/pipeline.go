// Package pipeline provides the conversion pipeline for net2mat.
//
// This package wires the stages that turn a network document into a
// MAT-file so the CLI and tests share one code path.
//
// # Architecture
//
// The pipeline consists of four stages, run strictly in order:
//
//  1. Parse: decode the document into node and connection records
//  2. Index: assign canonical indices to node and connection ids
//  3. Build: compute the incidence matrix, attribute vectors and id tables
//  4. Write: encode the named arrays and store them atomically
//
// No stage revisits the output of an earlier one.
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input:  "GasLib-11.net",
//	    Output: "GasLib-11.mat",
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Hash)
//
// Run individual stages:
//
//	res, err := runner.Parse(ctx, opts)
//	vars, arrays, err := runner.Build(ctx, res, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/net2mat/pkg/canonical"
	"github.com/matzehuels/net2mat/pkg/errors"
	"github.com/matzehuels/net2mat/pkg/incidence"
	"github.com/matzehuels/net2mat/pkg/matfile"
)

// Duplicate id policies.
const (
	// DuplicatesReplace keeps the last record for an id that occurs more
	// than once.
	DuplicatesReplace = "replace"

	// DuplicatesError fails the run when any id occurs more than once.
	DuplicatesError = "error"
)

// Defaults applied by ValidateAndSetDefaults.
const (
	DefaultDuplicates       = DuplicatesReplace
	DefaultTemperatureOrder = "encounter"
)

// Extension is the file extension of the output artifact.
const Extension = ".mat"

// Variable names in the order they are written.
const (
	VarIncidence        = "incidence_matrix"
	VarRoughness        = "roughness"
	VarDiameter         = "diameter"
	VarLength           = "length"
	VarPressureMin      = "pressure_min"
	VarPressureMax      = "pressure_max"
	VarHeight           = "height"
	VarTemperature      = "temperature"
	VarConnectionsOrder = "connections_order"
	VarNodesOrder       = "nodes_order"
)

// VariableNames lists every variable of the output artifact in file order.
var VariableNames = []string{
	VarIncidence,
	VarRoughness,
	VarDiameter,
	VarLength,
	VarPressureMin,
	VarPressureMax,
	VarHeight,
	VarTemperature,
	VarConnectionsOrder,
	VarNodesOrder,
}

// Options contains all configuration for one conversion.
type Options struct {
	Input  string // path of the network document
	Output string // path of the MAT-file to create

	Duplicates       string // DuplicatesReplace or DuplicatesError
	TemperatureOrder string // "encounter" or "canonical"
	Header           string // MAT-file header text, empty for the default

	// Runtime options
	Logger *log.Logger

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Canonical holds the parsed network and its canonical indices.
	Canonical *canonical.Result

	// Arrays holds the incidence matrix and attribute vectors.
	Arrays *incidence.Arrays

	// Variables are the named arrays in file order.
	Variables []*matfile.Variable

	// Output is the path the artifact was written to.
	Output string

	// Hash is the SHA-256 of the written artifact, hex encoded.
	Hash string

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount       int
	ConnectionCount int
	SourceCount     int
	DuplicateCount  int
	Bytes           int
	ParseTime       time.Duration
	BuildTime       time.Duration
	WriteTime       time.Duration
}

// ValidateDuplicates checks that a duplicate policy is valid.
func ValidateDuplicates(policy string) error {
	switch policy {
	case DuplicatesReplace, DuplicatesError:
		return nil
	default:
		return errors.New(errors.ErrCodeInvalidArgument, "invalid duplicates policy: %q (must be one of: replace, error)", policy)
	}
}

// ValidateTemperatureOrder checks that a temperature order is valid.
func ValidateTemperatureOrder(order string) error {
	if _, err := incidence.ParseTemperatureOrder(order); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidArgument, err, "invalid temperature order")
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Input == "" {
		return errors.New(errors.ErrCodeInvalidArgument, "input path is required")
	}
	if o.Output == "" {
		return errors.New(errors.ErrCodeInvalidArgument, "output path is required")
	}
	o.SetDefaults()
	if err := ValidateDuplicates(o.Duplicates); err != nil {
		return err
	}
	if err := ValidateTemperatureOrder(o.TemperatureOrder); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetDefaults fills in empty fields.
func (o *Options) SetDefaults() {
	if o.Duplicates == "" {
		o.Duplicates = DefaultDuplicates
	}
	if o.TemperatureOrder == "" {
		o.TemperatureOrder = DefaultTemperatureOrder
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// canonicalOptions returns the canonicalizer options for o.
func (o *Options) canonicalOptions() canonical.Options {
	return canonical.Options{RejectDuplicates: o.Duplicates == DuplicatesError}
}

// incidenceOptions returns the matrix builder options for o.
// The order was validated by ValidateAndSetDefaults.
func (o *Options) incidenceOptions() incidence.Options {
	order, _ := incidence.ParseTemperatureOrder(o.TemperatureOrder)
	return incidence.Options{TemperatureOrder: order}
}
