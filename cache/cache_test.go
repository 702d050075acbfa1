package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testValue uint64 = 1 << iota
	testGradient
)

func testSizer(bit uint64) (nFuncs, nComps int) {
	switch bit {
	case testValue:
		return 4, 1
	case testGradient:
		return 4, 2
	}
	return 1, 1
}

func TestValueTable(t *testing.T) {
	vt := NewValueTable(3, 2, 2)
	require.Equal(t, 3, vt.NumFuncs())
	require.Equal(t, 2, vt.NumPoints())
	require.Equal(t, 2, vt.NumComps())

	vt.Set(2, 1, 1, 42)
	assert.Equal(t, 42., vt.At(2, 1, 1))
	assert.Equal(t, []float64{0, 42}, vt.Components(2, 1))

	assert.Panics(t, func() { vt.At(3, 0, 0) })
	assert.Panics(t, func() { vt.At(0, 2, 0) })
	assert.Panics(t, func() { vt.Set(0, 0, 2, 1) })
	assert.Panics(t, func() { NewValueTable(0, 1, 1) })
}

func TestCacheStateMachine(t *testing.T) {
	c := NewValuesCache(nil)
	require.Equal(t, Empty, c.State())

	// reading an empty cache fails fast
	assert.Panics(t, func() { c.Table(testValue) })
	assert.Panics(t, func() { c.MarkFilled() })

	c.Allocate(testValue|testGradient, 7, 5, testSizer)
	require.Equal(t, Allocated, c.State())
	require.Equal(t, 5, c.NumPoints())

	// allocated but not filled: reads still fail fast
	assert.Panics(t, func() { c.Table(testValue) })

	// the handler may obtain tables for filling
	vt := c.MutableTable(testGradient)
	require.Equal(t, 2, vt.NumComps())
	vt.Set(0, 0, 0, 3)

	c.MarkFilled()
	require.Equal(t, Filled, c.State())
	assert.Equal(t, 3., c.Table(testGradient).At(0, 0, 0))

	// an inactive quantity is rejected even when filled
	assert.Panics(t, func() { c.Table(1 << 60) })

	// iterator advance: storage is reused, values invalidated
	c.Invalidate()
	require.Equal(t, Allocated, c.State())
	assert.Panics(t, func() { c.Table(testGradient) })
	assert.Equal(t, 3., c.MutableTable(testGradient).At(0, 0, 0)) // same storage

	// re-allocation with the same flags and point set keeps storage
	c.Allocate(testValue|testGradient, 7, 5, testSizer)
	assert.Equal(t, 3., c.MutableTable(testGradient).At(0, 0, 0))

	// a different point set forces a full reallocation
	c.Allocate(testValue|testGradient, 8, 5, testSizer)
	assert.Equal(t, 0., c.MutableTable(testGradient).At(0, 0, 0))

	c.Clear()
	require.Equal(t, Empty, c.State())
	assert.Panics(t, func() { c.MutableTable(testValue) })
}

func TestLocalCacheTopologies(t *testing.T) {
	lc := NewLocalCache(nil)

	elem := lc.Cache(2, 0)
	face := lc.Cache(1, 3)
	require.NotSame(t, elem, face)
	require.Same(t, elem, lc.Cache(2, 0))

	elem.Allocate(testValue, 1, 2, testSizer)
	elem.MarkFilled()
	face.Allocate(testValue, 2, 1, testSizer)
	face.MarkFilled()

	lc.Invalidate()
	assert.Equal(t, Allocated, elem.State())
	assert.Equal(t, Allocated, face.State())

	lc.Clear()
	assert.Equal(t, Empty, lc.Cache(2, 0).State())
}

func TestLocalCacheCopyPolicy(t *testing.T) {
	lc := NewLocalCache(nil)
	c := lc.Cache(1, 0)
	c.Allocate(testValue, 1, 2, testSizer)
	c.MutableTable(testValue).Set(0, 0, 0, 5)
	c.MarkFilled()

	shallow := lc.Copy(ShallowCopy)
	shallow.Cache(1, 0).MutableTable(testValue).Set(0, 0, 0, 9)
	assert.Equal(t, 9., c.Table(testValue).At(0, 0, 0)) // shared storage

	deep := lc.Copy(DeepCopy)
	deep.Cache(1, 0).MutableTable(testValue).Set(0, 0, 0, 1)
	assert.Equal(t, 9., c.Table(testValue).At(0, 0, 0)) // independent storage
}
