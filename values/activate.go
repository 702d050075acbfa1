package values

import "fmt"

// Activation tables: one row per requested flag, giving the cache storage
// the owning level must allocate and the flags it must request from the
// level below. Adding a quantity is adding a row, not new control flow.

type gridRow struct {
	cache GridCacheFlags
}

type gridFuncRow struct {
	cache GridFuncCacheFlags
	grid  GridFlags
}

type domainRow struct {
	cache    DomainCacheFlags
	gridFunc GridFuncFlags
	grid     GridFlags
}

type funcRow struct {
	cache  FuncCacheFlags
	domain DomainFlags
}

type basisRow struct {
	cache  BasisCacheFlags
	domain DomainFlags
}

var activateGrid = map[GridFlags]gridRow{
	GridPoint:  {cache: GridPoint},
	GridWeight: {cache: GridWeight},
}

var activateGridFunc = map[GridFuncFlags]gridFuncRow{
	GridFuncD0: {cache: GridFuncD0, grid: GridNone},
	GridFuncD1: {cache: GridFuncD1, grid: GridNone},
	GridFuncD2: {cache: GridFuncD2, grid: GridNone},
}

var activateDomain = map[DomainFlags]domainRow{
	DomainPoint:       {cache: DomainNone, gridFunc: GridFuncD0, grid: GridNone},
	DomainMeasure:     {cache: DomainMeasure, gridFunc: GridFuncD1, grid: GridNone},
	DomainWMeasure:    {cache: DomainMeasure, gridFunc: GridFuncD1, grid: GridWeight},
	DomainJacobian:    {cache: DomainNone, gridFunc: GridFuncD1, grid: GridNone},
	DomainInvJacobian: {cache: DomainInvJacobian, gridFunc: GridFuncD1, grid: GridNone},
	DomainHessian:     {cache: DomainNone, gridFunc: GridFuncD2, grid: GridNone},
	DomainInvHessian: {
		cache:    DomainInvHessian | DomainInvJacobian,
		gridFunc: GridFuncD2,
		grid:     GridNone,
	},
	DomainBoundaryNormal: {
		cache:    DomainBoundaryNormal | DomainInvJacobian,
		gridFunc: GridFuncNone,
		grid:     GridNone,
	},
	DomainExtNormal: {cache: DomainExtNormal, gridFunc: GridFuncD1, grid: GridNone},
}

var activateFunc = map[FuncFlags]funcRow{
	FuncValue:    {cache: FuncValue, domain: DomainNone},
	FuncGradient: {cache: FuncGradient, domain: DomainNone},
	FuncD2:       {cache: FuncD2, domain: DomainNone},
}

var activateBasis = map[BasisFlags]basisRow{
	BasisValue:      {cache: BasisValue, domain: DomainNone},
	BasisGradient:   {cache: BasisGradient, domain: DomainNone},
	BasisHessian:    {cache: BasisHessian, domain: DomainNone},
	BasisDivergence: {cache: BasisDivergence, domain: DomainNone},
	BasisPoint:      {cache: BasisNone, domain: DomainPoint},
	BasisWMeasure:   {cache: BasisNone, domain: DomainWMeasure},
}

// GridActivate returns the grid-level cache storage implied by flags.
func GridActivate(flags GridFlags) (cache GridCacheFlags) {
	for bit := GridFlags(1); bit != 0; bit <<= 1 {
		if flags&bit == 0 {
			continue
		}
		row, ok := activateGrid[bit]
		if !ok {
			panic(fmt.Errorf("unsupported grid flag: %v", bit))
		}
		cache |= row.cache
	}
	return
}

// GridFuncActivate returns the grid-function cache storage and the grid
// flags required below.
func GridFuncActivate(flags GridFuncFlags) (cache GridFuncCacheFlags, grid GridFlags) {
	for bit := GridFuncFlags(1); bit != 0; bit <<= 1 {
		if flags&bit == 0 {
			continue
		}
		row, ok := activateGridFunc[bit]
		if !ok {
			panic(fmt.Errorf("unsupported grid function flag: %v", bit))
		}
		cache |= row.cache
		grid |= row.grid
	}
	return
}

// DomainActivate returns the domain cache storage plus the grid-function
// and grid flags required below. Cache flags implied by one row (e.g. the
// inverse jacobian pulled in by the boundary normal) contribute their own
// downstream requirements, so the result is transitively closed.
func DomainActivate(flags DomainFlags) (cache DomainCacheFlags, gridFunc GridFuncFlags, grid GridFlags) {
	pending := flags
	seen := DomainNone
	for pending != 0 {
		next := DomainNone
		for bit := DomainFlags(1); bit != 0; bit <<= 1 {
			if pending&bit == 0 {
				continue
			}
			row, ok := activateDomain[bit]
			if !ok {
				panic(fmt.Errorf("unsupported domain flag: %v", bit))
			}
			cache |= row.cache
			gridFunc |= row.gridFunc
			grid |= row.grid
			next |= row.cache
		}
		seen |= pending
		pending = next &^ seen
	}
	return
}

// FuncActivate returns the function-level cache storage and domain flags.
func FuncActivate(flags FuncFlags) (cache FuncCacheFlags, domain DomainFlags) {
	for bit := FuncFlags(1); bit != 0; bit <<= 1 {
		if flags&bit == 0 {
			continue
		}
		row, ok := activateFunc[bit]
		if !ok {
			panic(fmt.Errorf("unsupported function flag: %v", bit))
		}
		cache |= row.cache
		domain |= row.domain
	}
	return
}

// BasisActivate returns the basis cache storage and domain flags. Flags
// that cache nothing at the basis level (point, weighted measure) are pure
// pass-throughs to the domain.
func BasisActivate(flags BasisFlags) (cache BasisCacheFlags, domain DomainFlags) {
	for bit := BasisFlags(1); bit != 0; bit <<= 1 {
		if flags&bit == 0 {
			continue
		}
		row, ok := activateBasis[bit]
		if !ok {
			panic(fmt.Errorf("unsupported basis flag: %v", bit))
		}
		cache |= row.cache
		domain |= row.domain
	}
	return
}
