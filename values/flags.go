/*
Package values defines the per-level quantity flags and the static
activation tables that propagate a requested flag set downward through the
evaluation pipeline: basis and function quantities sit on top of domain
quantities, which sit on top of grid-function derivatives, which sit on the
raw grid quantities.

The tables are built once during package initialization and never mutated,
so they may be read concurrently without synchronization.
*/
package values

import "strings"

// GridFlags name the raw grid-level quantities.
type GridFlags uint16

const (
	GridPoint GridFlags = 1 << iota
	GridWeight

	GridNone GridFlags = 0
)

// GridCacheFlags select the grid-level cache storage.
type GridCacheFlags = GridFlags

// GridFuncFlags name the grid-function (mapping) derivative orders.
type GridFuncFlags uint16

const (
	GridFuncD0 GridFuncFlags = 1 << iota
	GridFuncD1
	GridFuncD2

	GridFuncNone GridFuncFlags = 0
)

type GridFuncCacheFlags = GridFuncFlags

// DomainFlags name the physical-domain quantities.
type DomainFlags uint16

const (
	DomainPoint DomainFlags = 1 << iota
	DomainMeasure
	DomainWMeasure
	DomainJacobian
	DomainInvJacobian
	DomainHessian
	DomainInvHessian
	DomainBoundaryNormal
	DomainExtNormal

	DomainNone DomainFlags = 0
)

type DomainCacheFlags = DomainFlags

// FuncFlags name the quantities of a field (function) over a domain.
type FuncFlags uint16

const (
	FuncValue FuncFlags = 1 << iota
	FuncGradient
	FuncD2

	FuncNone FuncFlags = 0
)

type FuncCacheFlags = FuncFlags

// BasisFlags name the basis (space element) quantities.
type BasisFlags uint16

const (
	BasisValue BasisFlags = 1 << iota
	BasisGradient
	BasisHessian
	BasisDivergence
	BasisPoint
	BasisWMeasure

	BasisNone BasisFlags = 0
)

type BasisCacheFlags = BasisFlags

// Contains reports whether every bit of sub is set in f.
func (f GridFlags) Contains(sub GridFlags) bool     { return f&sub == sub }
func (f GridFuncFlags) Contains(sub GridFuncFlags) bool { return f&sub == sub }
func (f DomainFlags) Contains(sub DomainFlags) bool { return f&sub == sub }
func (f FuncFlags) Contains(sub FuncFlags) bool     { return f&sub == sub }
func (f BasisFlags) Contains(sub BasisFlags) bool   { return f&sub == sub }

var gridFlagNames = map[GridFlags]string{
	GridPoint:  "Element Quadrature Points",
	GridWeight: "Element Quadrature Weights",
}

var gridFuncFlagNames = map[GridFuncFlags]string{
	GridFuncD0: "Grid Function D0",
	GridFuncD1: "Grid Function D1",
	GridFuncD2: "Grid Function D2",
}

var domainFlagNames = map[DomainFlags]string{
	DomainPoint:          "Element point",
	DomainMeasure:        "Element measure",
	DomainWMeasure:       "Element weighted measure",
	DomainJacobian:       "Element jacobian",
	DomainInvJacobian:    "Element inverse jacobian",
	DomainHessian:        "Element hessian",
	DomainInvHessian:     "Element inverse hessian",
	DomainBoundaryNormal: "Element boundary normal",
	DomainExtNormal:      "Element exterior normal",
}

var funcFlagNames = map[FuncFlags]string{
	FuncValue:    "Function values",
	FuncGradient: "Function gradients",
	FuncD2:       "Function D2",
}

var basisFlagNames = map[BasisFlags]string{
	BasisValue:      "Basis function values",
	BasisGradient:   "Basis function gradients",
	BasisHessian:    "Basis function hessians",
	BasisDivergence: "Basis function divergences",
	BasisPoint:      "Basis evaluation points",
	BasisWMeasure:   "Basis weighted measure",
}

func (f GridFlags) String() string {
	return flagString(uint16(f), func(bit uint16) string { return gridFlagNames[GridFlags(bit)] })
}
func (f GridFuncFlags) String() string {
	return flagString(uint16(f), func(bit uint16) string { return gridFuncFlagNames[GridFuncFlags(bit)] })
}
func (f DomainFlags) String() string {
	return flagString(uint16(f), func(bit uint16) string { return domainFlagNames[DomainFlags(bit)] })
}
func (f FuncFlags) String() string {
	return flagString(uint16(f), func(bit uint16) string { return funcFlagNames[FuncFlags(bit)] })
}
func (f BasisFlags) String() string {
	return flagString(uint16(f), func(bit uint16) string { return basisFlagNames[BasisFlags(bit)] })
}

func flagString(f uint16, name func(bit uint16) string) string {
	if f == 0 {
		return "none"
	}
	var parts []string
	for bit := uint16(1); bit != 0; bit <<= 1 {
		if f&bit != 0 {
			if n := name(bit); n != "" {
				parts = append(parts, n)
			} else {
				parts = append(parts, "unknown flag")
			}
		}
	}
	return strings.Join(parts, " | ")
}
