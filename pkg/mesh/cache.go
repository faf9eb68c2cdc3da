package mesh

import (
	"sync"

	"github.com/OCharnyshevich/voxelcore/pkg/voxel"
)

// entry is one cached mesh result plus the versions it was built from: the
// chunk's own mutation counter and each present neighbor's mutation
// counter, so a neighbor edit invalidates the cache without the chunk
// needing any awareness of meshing (spec §9 Design Notes: re-architected as
// a separate mesh cache keyed by coordinate, invalidated by a version
// counter rather than mutable-through-const state on the chunk itself).
type entry struct {
	quads    []Quad
	chunkVer uint64
	northVer uint64
	southVer uint64
	eastVer  uint64
	westVer  uint64
	hasNorth bool
	hasSouth bool
	hasEast  bool
	hasWest  bool
}

// Cache holds one mesh per chunk coordinate, rebuilding lazily on demand.
type Cache struct {
	mu      sync.Mutex
	entries map[voxel.ChunkCoord]entry
}

// NewCache returns an empty mesh cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[voxel.ChunkCoord]entry)}
}

// Get returns the cached mesh for c if it is still valid given n, rebuilding
// it otherwise. A mesh is valid only if the chunk's version and every
// present neighbor's version are unchanged since the cached build.
func (mc *Cache) Get(c *voxel.Chunk, n Neighbors) []Quad {
	if c == nil {
		return nil
	}

	mc.mu.Lock()
	defer mc.mu.Unlock()

	want := versionsOf(c, n)
	if e, ok := mc.entries[c.Coord]; ok && e.sameVersions(want) {
		return e.quads
	}

	quads := Build(c, n)
	want.quads = quads
	mc.entries[c.Coord] = want
	return quads
}

// Invalidate drops any cached mesh for coord, forcing a rebuild on next Get.
func (mc *Cache) Invalidate(coord voxel.ChunkCoord) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	delete(mc.entries, coord)
}

func versionsOf(c *voxel.Chunk, n Neighbors) entry {
	e := entry{chunkVer: c.Version()}
	if n.North != nil {
		e.hasNorth = true
		e.northVer = n.North.Version()
	}
	if n.South != nil {
		e.hasSouth = true
		e.southVer = n.South.Version()
	}
	if n.East != nil {
		e.hasEast = true
		e.eastVer = n.East.Version()
	}
	if n.West != nil {
		e.hasWest = true
		e.westVer = n.West.Version()
	}
	return e
}

func (e entry) sameVersions(want entry) bool {
	return e.chunkVer == want.chunkVer &&
		e.hasNorth == want.hasNorth && e.northVer == want.northVer &&
		e.hasSouth == want.hasSouth && e.southVer == want.southVer &&
		e.hasEast == want.hasEast && e.eastVer == want.eastVer &&
		e.hasWest == want.hasWest && e.westVer == want.westVer
}
