package encoder

import (
	"github.com/xDarkicex/cspcore/core"
	"github.com/xDarkicex/cspcore/normcsp"
)

// Scheme is the encoding a NormCSP integer variable is compiled with.
type Scheme int

const (
	SchemeOrder Scheme = iota
	SchemeDirect
	SchemeLog
)

// selectSchemes assigns one Scheme to every NormCSP integer variable, in
// this selection order: forced log, then log by size and usage plus
// co-occurrence closure, then direct for small "simple-position" variables,
// then order as the default.
func selectSchemes(norm *normcsp.NormCSP, cfg Config) []Scheme {
	n := norm.NumIntVars()
	schemes := make([]Scheme, n)

	if cfg.ForceUseLogEncoding {
		for v := range schemes {
			schemes[v] = SchemeLog
		}
		return schemes
	}

	if cfg.UseLogEncoding {
		markLogCandidates(norm, schemes)
		closeLogCooccurrence(norm, schemes)
	}

	if cfg.UseDirectEncoding {
		markDirectCandidates(norm, cfg, schemes)
	}

	return schemes
}

// markLogCandidates flags variables directly: domain
// size > 500 appearing in a linear literal with >= 3 terms, or in a
// multiplication (as either factor or the product).
func markLogCandidates(norm *normcsp.NormCSP, schemes []Scheme) {
	for v := 0; v < norm.NumIntVars(); v++ {
		if norm.IntVarRepresentationOf(normcsp.NIntVar(v)).EffectiveDomain().Size() <= logEncodingMinCandidates {
			continue
		}
		if usedInWideLinearLit(norm, normcsp.NIntVar(v)) || usedInMultiplication(norm, normcsp.NIntVar(v)) {
			schemes[v] = SchemeLog
		}
	}
}

func usedInWideLinearLit(norm *normcsp.NormCSP, v normcsp.NIntVar) bool {
	for _, c := range norm.Constraints() {
		for _, ll := range c.LinearLits {
			if len(ll.Sum.Terms) >= 3 {
				if _, ok := ll.Sum.Terms[v]; ok {
					return true
				}
			}
		}
	}
	return false
}

func usedInMultiplication(norm *normcsp.NormCSP, v normcsp.NIntVar) bool {
	for _, ec := range norm.ExtraConstraints() {
		if ec.Kind == normcsp.ExtraMul && (ec.Mul.Left == v || ec.Mul.Right == v || ec.Mul.Result == v) {
			return true
		}
	}
	return false
}

// closeLogCooccurrence repeatedly promotes any non-log variable that shares
// a linear literal with an already-log variable, to a fixed point.
func closeLogCooccurrence(norm *normcsp.NormCSP, schemes []Scheme) {
	for {
		changed := false
		for _, c := range norm.Constraints() {
			for _, ll := range c.LinearLits {
				hasLog := false
				for v := range ll.Sum.Terms {
					if schemes[v] == SchemeLog {
						hasLog = true
						break
					}
				}
				if !hasLog {
					continue
				}
				for v := range ll.Sum.Terms {
					if schemes[v] != SchemeLog {
						schemes[v] = SchemeLog
						changed = true
					}
				}
			}
		}
		if !changed {
			return
		}
	}
}

// markDirectCandidates flags variables eligible for direct encoding: small
// domain, used only in Eq/Ne literals of size <= 2, never a GraphDivision
// region-size variable, and not already assigned Log.
func markDirectCandidates(norm *normcsp.NormCSP, cfg Config, schemes []Scheme) {
	sizeVars := make(map[normcsp.NIntVar]bool)
	for _, ec := range norm.ExtraConstraints() {
		if ec.Kind == normcsp.ExtraGraphDivision {
			for _, v := range ec.RegionSizeVars {
				sizeVars[v] = true
			}
		}
	}

	eligible := make([]bool, len(schemes))
	for v := range eligible {
		eligible[v] = true
	}
	for v := 0; v < len(schemes); v++ {
		nv := normcsp.NIntVar(v)
		if schemes[v] == SchemeLog || sizeVars[nv] {
			eligible[v] = false
			continue
		}
		rep := norm.IntVarRepresentationOf(nv)
		if rep.Kind == normcsp.RepBinary && !cfg.DirectEncodingForBinaryVars {
			eligible[v] = false
			continue
		}
		if rep.EffectiveDomain().Size() > directEncodingMaxCandidates {
			eligible[v] = false
		}
	}

	for _, c := range norm.Constraints() {
		for _, ll := range c.LinearLits {
			simple := len(ll.Sum.Terms) <= 2 && (ll.Op == core.Eq || ll.Op == core.Ne)
			for v := range ll.Sum.Terms {
				if !simple {
					eligible[v] = false
				}
			}
		}
	}
	for _, ec := range norm.ExtraConstraints() {
		for _, v := range extraConstraintIntVars(ec) {
			eligible[v] = false
		}
	}

	for v, ok := range eligible {
		if ok {
			schemes[v] = SchemeDirect
		}
	}
}

func extraConstraintIntVars(ec normcsp.ExtraConstraint) []normcsp.NIntVar {
	switch ec.Kind {
	case normcsp.ExtraMul:
		return []normcsp.NIntVar{ec.Mul.Left, ec.Mul.Right, ec.Mul.Result}
	case normcsp.ExtraExtensionSupports:
		return ec.ExtVars
	case normcsp.ExtraGraphDivision:
		return ec.RegionSizeVars
	default:
		return nil
	}
}
