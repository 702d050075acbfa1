package cache

import (
	"fmt"
)

// State tracks a ValuesCache through its lifecycle. Empty has no storage;
// Allocated has storage sized for the active flags and point set but holds
// no valid values; Filled holds values valid for the current element.
type State uint8

const (
	Empty State = iota
	Allocated
	Filled
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Allocated:
		return "allocated"
	case Filled:
		return "filled"
	}
	return "unknown"
}

// TableSizer reports the table shape for one active flag bit.
type TableSizer func(bit uint64) (nFuncs, nComps int)

// ValuesCache stores the ValueTables of one (element, sub-topology,
// point-set) triple, keyed by quantity flag bit.
type ValuesCache struct {
	state      State
	active     uint64
	pointSetID uint64
	numPoints  int
	tables     map[uint64]*ValueTable
	namer      func(bit uint64) string
}

// NewValuesCache builds an empty cache. namer translates flag bits into the
// quantity names used in failure messages; it may be nil.
func NewValuesCache(namer func(bit uint64) string) (c *ValuesCache) {
	c = &ValuesCache{namer: namer}
	return
}

func (c *ValuesCache) State() State       { return c.state }
func (c *ValuesCache) ActiveFlags() uint64 { return c.active }
func (c *ValuesCache) NumPoints() int     { return c.numPoints }
func (c *ValuesCache) PointSetID() uint64 { return c.pointSetID }

// Allocate moves the cache to Allocated for the given active flag set and
// point set. Storage is reused when neither changed (the iterator advanced
// to a new element); otherwise all tables are reallocated.
func (c *ValuesCache) Allocate(active, pointSetID uint64, numPoints int, sizer TableSizer) {
	if active == 0 {
		err := fmt.Errorf("cache allocation with no active flags")
		panic(err)
	}
	if c.state != Empty && active == c.active && pointSetID == c.pointSetID && numPoints == c.numPoints {
		c.state = Allocated
		return
	}
	c.tables = make(map[uint64]*ValueTable)
	for bit := uint64(1); bit != 0; bit <<= 1 {
		if active&bit == 0 {
			continue
		}
		nFuncs, nComps := sizer(bit)
		c.tables[bit] = NewValueTable(nFuncs, numPoints, nComps)
	}
	c.active = active
	c.pointSetID = pointSetID
	c.numPoints = numPoints
	c.state = Allocated
}

// Invalidate drops back to Allocated, keeping storage. Called when the
// element iterator advances.
func (c *ValuesCache) Invalidate() {
	if c.state == Filled {
		c.state = Allocated
	}
}

// Clear releases all storage.
func (c *ValuesCache) Clear() {
	c.tables = nil
	c.active = 0
	c.pointSetID = 0
	c.numPoints = 0
	c.state = Empty
}

// MutableTable hands the handler the table to fill. The cache must be at
// least Allocated and the bit active.
func (c *ValuesCache) MutableTable(bit uint64) (vt *ValueTable) {
	if c.state == Empty {
		err := fmt.Errorf("cache access before init: quantity %s requested from an empty cache", c.name(bit))
		panic(err)
	}
	vt, ok := c.tables[bit]
	if !ok {
		err := fmt.Errorf("quantity %s is not active in this cache (active: %s)", c.name(bit), c.activeNames())
		panic(err)
	}
	return
}

// MarkFilled records that all active tables hold values for the current
// element.
func (c *ValuesCache) MarkFilled() {
	if c.state == Empty {
		err := fmt.Errorf("fill of an uninitialized cache")
		panic(err)
	}
	c.state = Filled
}

// Table returns a read-only view of a filled quantity. Reading before fill,
// or after the iterator moved without a re-fill, fails fast.
func (c *ValuesCache) Table(bit uint64) (vt *ValueTable) {
	if c.state != Filled {
		err := fmt.Errorf("stale cache read: quantity %s requested while the cache is %s; call FillCache first",
			c.name(bit), c.state)
		panic(err)
	}
	return c.MutableTable(bit)
}

func (c *ValuesCache) name(bit uint64) string {
	if c.namer != nil {
		return fmt.Sprintf("%q", c.namer(bit))
	}
	return fmt.Sprintf("bit %#x", bit)
}

func (c *ValuesCache) activeNames() string {
	if c.namer != nil {
		return c.namer(c.active)
	}
	return fmt.Sprintf("%#x", c.active)
}

func (c *ValuesCache) copyFrom(src *ValuesCache) {
	*c = *src
	c.tables = make(map[uint64]*ValueTable, len(src.tables))
	for bit, vt := range src.tables {
		c.tables[bit] = vt.Copy()
	}
}
