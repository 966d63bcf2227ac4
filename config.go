package cspcore

import (
	"github.com/xDarkicex/cspcore/encoder"
	"github.com/xDarkicex/cspcore/normalizer"
	"github.com/xDarkicex/cspcore/normcsp"
)

// GraphDivisionMode re-exports normcsp's mode so callers never need to
// import the normcsp package directly for configuration.
type GraphDivisionMode = normcsp.GraphDivisionMode

const (
	RegionSizeMode = normcsp.RegionSizeMode
	EdgeMode       = normcsp.EdgeMode
)

// Config gathers every optional knob this pipeline exposes, each defaulted
// to its documented default. At first encode the facade projects the
// normalizer- and encoder-facing fields onto normalizer.Options and
// encoder.Config (normalizerOptions, encoderConfig); the constant-folding,
// constant-propagation, domain-refinement, OptimizePolarity and Seed fields
// are read by the facade itself, and Backend is not consulted.
type Config struct {
	// Normalizer-facing.
	UseConstantFolding       bool
	UseConstantPropagation   bool
	UseNormDomainRefinement  bool
	MergeEquivalentVariables bool

	// Encoder-facing.
	UseDirectEncoding           bool
	DirectEncodingForBinaryVars bool
	UseLogEncoding              bool
	ForceUseLogEncoding         bool
	DomainProductThreshold      int
	NativeLinearEncodingTerms   int
	UseNativeExtensionSupports  bool

	// Global-constraint-facing.
	AllDifferentBijectionConstraints bool
	GraphDivisionMode                GraphDivisionMode

	// Query-facing.
	OptimizePolarity bool

	// Backend selection is a placeholder ("backend" option): this
	// implementation ships exactly one sat.Backend (*sat.CDCLSolver), so
	// the field exists for interface completeness but is not consulted.
	Backend string

	// Seed perturbs the backend's initial VSIDS activities so tied decision
	// variables break differently run to run. Zero keeps the default
	// all-equal ordering.
	Seed int64
}

// DefaultConfig returns the configuration with every option set to its
// documented default.
func DefaultConfig() Config {
	enc := encoder.DefaultConfig()
	norm := normalizer.DefaultOptions()
	return Config{
		UseConstantFolding:       true,
		UseConstantPropagation:   true,
		UseNormDomainRefinement:  true,
		MergeEquivalentVariables: norm.MergeEquivalentVariables,

		UseDirectEncoding:           enc.UseDirectEncoding,
		DirectEncodingForBinaryVars: enc.DirectEncodingForBinaryVars,
		UseLogEncoding:              enc.UseLogEncoding,
		ForceUseLogEncoding:         enc.ForceUseLogEncoding,
		DomainProductThreshold:      enc.DomainProductThreshold,
		NativeLinearEncodingTerms:   enc.NativeLinearEncodingTerms,
		UseNativeExtensionSupports:  enc.UseNativeExtensionSupports,

		AllDifferentBijectionConstraints: norm.AllDifferentBijectionConstraints,
		GraphDivisionMode:                norm.GraphDivisionMode,

		OptimizePolarity: true,
		Backend:          "cdcl",
	}
}

func (c Config) normalizerOptions() normalizer.Options {
	return normalizer.Options{
		MergeEquivalentVariables:         c.MergeEquivalentVariables,
		AllDifferentBijectionConstraints: c.AllDifferentBijectionConstraints,
		UseNativeExtensionSupports:       c.UseNativeExtensionSupports,
		GraphDivisionMode:                c.GraphDivisionMode,
	}
}

func (c Config) encoderConfig() encoder.Config {
	return encoder.Config{
		UseDirectEncoding:           c.UseDirectEncoding,
		DirectEncodingForBinaryVars: c.DirectEncodingForBinaryVars,
		UseLogEncoding:              c.UseLogEncoding,
		ForceUseLogEncoding:         c.ForceUseLogEncoding,
		DomainProductThreshold:      c.DomainProductThreshold,
		NativeLinearEncodingTerms:   c.NativeLinearEncodingTerms,
		UseNativeExtensionSupports:  c.UseNativeExtensionSupports,
	}
}
