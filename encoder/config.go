// Package encoder compiles a normcsp.NormCSP into clauses over a
// sat.Backend: it chooses per-variable order/direct/log encoding,
// decomposes oversized linear literals through auxiliary variables, and
// dispatches global constraints to custom propagators.
package encoder

// Config is the subset of the facade's Config the encoder
// consults when choosing and constructing variable encodings.
type Config struct {
	UseDirectEncoding           bool
	DirectEncodingForBinaryVars bool
	UseLogEncoding              bool
	ForceUseLogEncoding         bool
	DomainProductThreshold      int
	NativeLinearEncodingTerms   int
	UseNativeExtensionSupports  bool
}

func DefaultConfig() Config {
	return Config{
		UseDirectEncoding:           true,
		DirectEncodingForBinaryVars: false,
		UseLogEncoding:              true,
		ForceUseLogEncoding:         false,
		DomainProductThreshold:      1000,
		NativeLinearEncodingTerms:   4,
		UseNativeExtensionSupports:  true,
	}
}

// directEncodingMaxCandidates bounds a variable's eligibility for direct
// encoding.
const directEncodingMaxCandidates = 500

// logEncodingMinCandidates is the domain size a variable must exceed
// before log encoding is even considered for a variable that co-occurs in a
// wide linear literal or multiplication.
const logEncodingMinCandidates = 500
