package cache

import (
	"fmt"
)

// CopyPolicy selects how element accessors duplicate their caches. A deep
// copy allocates fresh storage so two iterators can fill independently; a
// shallow copy shares the underlying tables.
type CopyPolicy uint8

const (
	DeepCopy CopyPolicy = iota
	ShallowCopy
)

type topologyKey struct {
	subDim, subID int
}

// LocalCache groups the ValuesCaches of one element, one per sub-element
// topology (the full element, each face, ...).
type LocalCache struct {
	caches map[topologyKey]*ValuesCache
	namer  func(bit uint64) string
}

func NewLocalCache(namer func(bit uint64) string) (lc *LocalCache) {
	lc = &LocalCache{
		caches: make(map[topologyKey]*ValuesCache),
		namer:  namer,
	}
	return
}

// Cache returns the ValuesCache of the (subDim, subID) topology, creating
// an empty one on first access.
func (lc *LocalCache) Cache(subDim, subID int) (c *ValuesCache) {
	if subDim < 0 || subID < 0 {
		err := fmt.Errorf("invalid sub-element topology: subDim,subID = %v,%v", subDim, subID)
		panic(err)
	}
	key := topologyKey{subDim, subID}
	c, ok := lc.caches[key]
	if !ok {
		c = NewValuesCache(lc.namer)
		lc.caches[key] = c
	}
	return
}

// Invalidate marks every filled sub-cache Allocated. Called when the owning
// element accessor moves to another element.
func (lc *LocalCache) Invalidate() {
	for _, c := range lc.caches {
		c.Invalidate()
	}
}

// Clear releases every sub-cache. Called when the handler is reset with new
// flags or a new point set.
func (lc *LocalCache) Clear() {
	lc.caches = make(map[topologyKey]*ValuesCache)
}

// Copy duplicates the local cache under the given policy.
func (lc *LocalCache) Copy(policy CopyPolicy) (R *LocalCache) {
	R = NewLocalCache(lc.namer)
	switch policy {
	case ShallowCopy:
		for key, c := range lc.caches {
			R.caches[key] = c
		}
	case DeepCopy:
		for key, c := range lc.caches {
			dst := NewValuesCache(lc.namer)
			dst.copyFrom(c)
			R.caches[key] = dst
		}
	default:
		err := fmt.Errorf("unknown copy policy: %v", policy)
		panic(err)
	}
	return
}
