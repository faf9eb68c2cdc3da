package voxel

import (
	"encoding/binary"
	"errors"
)

// magic is the 4-byte identifier every serialized chunk body begins with.
var magic = [4]byte{'C', 'H', 'K', 0x01}

const cellCount = S * H * S

// ErrSerializationMismatch is returned by Deserialize when the persisted
// coordinate doesn't match the grid being loaded into, or the buffer is
// short. The grid is left untouched in either case.
var ErrSerializationMismatch = errors.New("voxel: serialization mismatch")

// Chunk is the packed S×H×S block grid plus its lifecycle flags.
type Chunk struct {
	Coord ChunkCoord

	cells [cellCount]BlockID

	Generated bool
	Dirty     bool
	Loaded    bool

	// version is bumped by Set (when the id changes), Fill and Deserialize;
	// SetRaw leaves it unchanged. The mesh cache (pkg/mesh) uses it to detect
	// staleness without the
	// chunk needing to know anything about meshing (spec §9 Design Notes).
	version uint64
}

// New returns an unloaded, ungenerated chunk at coord. Every cell is AIR.
func New(coord ChunkCoord) *Chunk {
	return &Chunk{Coord: coord}
}

func index(x, y, z int) int {
	return x + z*S + y*S*S
}

func inBounds(x, y, z int) bool {
	return x >= 0 && x < S && y >= 0 && y < H && z >= 0 && z < S
}

// Get returns the block id at the local coordinate, or AIR out of bounds.
func (c *Chunk) Get(x, y, z int) BlockID {
	if !inBounds(x, y, z) {
		return BlockAir
	}
	return c.cells[index(x, y, z)]
}

// Set writes id at the local coordinate. Out-of-bounds writes are ignored.
// Dirty and the mesh-invalidating version counter are only touched if the
// id actually changed.
func (c *Chunk) Set(x, y, z int, id BlockID) {
	if !inBounds(x, y, z) {
		return
	}
	i := index(x, y, z)
	if c.cells[i] == id {
		return
	}
	c.cells[i] = id
	c.Dirty = true
	c.version++
}

// SetRaw writes id at the local coordinate without touching Dirty or the
// version counter. Terrain generation uses this to fill a fresh chunk;
// Dirty only tracks edits made after generation, per the "modified since
// last save" definition (spec §3) -- a freshly generated, never-edited
// chunk must not be considered dirty.
func (c *Chunk) SetRaw(x, y, z int, id BlockID) {
	if !inBounds(x, y, z) {
		return
	}
	c.cells[index(x, y, z)] = id
}

// Fill sets every cell to id and bumps the version counter.
func (c *Chunk) Fill(id BlockID) {
	for i := range c.cells {
		c.cells[i] = id
	}
	c.version++
}

// HighestNonAir returns the highest y with a non-AIR block in column (x,z),
// or -1 if the column is entirely air.
func (c *Chunk) HighestNonAir(x, z int) int {
	if x < 0 || x >= S || z < 0 || z >= S {
		return -1
	}
	for y := H - 1; y >= 0; y-- {
		if c.cells[index(x, y, z)] != BlockAir {
			return y
		}
	}
	return -1
}

// Version returns the mutation counter the mesh cache keys invalidation on.
func (c *Chunk) Version() uint64 {
	return c.version
}

// ForEachColumn invokes fn for every (x, z) pair in the chunk's footprint.
func (c *Chunk) ForEachColumn(fn func(x, z int)) {
	for x := 0; x < S; x++ {
		for z := 0; z < S; z++ {
			fn(x, z)
		}
	}
}

// EdgeColumn returns the S block ids along one horizontal edge row of the
// chunk at height y. The mesher and the mesh cache do not call it.
// side selects which edge: 0=north(z=0) 1=south(z=S-1) 2=east(x=S-1) 3=west(x=0).
func (c *Chunk) EdgeColumn(side int, y int) (out [S]BlockID) {
	switch side {
	case 0:
		for x := 0; x < S; x++ {
			out[x] = c.Get(x, y, 0)
		}
	case 1:
		for x := 0; x < S; x++ {
			out[x] = c.Get(x, y, S-1)
		}
	case 2:
		for z := 0; z < S; z++ {
			out[z] = c.Get(S-1, y, z)
		}
	case 3:
		for z := 0; z < S; z++ {
			out[z] = c.Get(0, y, z)
		}
	}
	return out
}

// Serialize encodes the chunk body: the CHK\x01 magic, the little-endian
// (x, z) coordinate, then S*H*S id bytes in index order.
func (c *Chunk) Serialize() []byte {
	buf := make([]byte, 4+4+4+cellCount)
	copy(buf[0:4], magic[:])
	binary.LittleEndian.PutUint32(buf[4:8], uint32(c.Coord.X))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(c.Coord.Z))
	for i, id := range c.cells {
		buf[12+i] = byte(id)
	}
	return buf
}

// Deserialize decodes buf into the chunk's cell data, validating the magic
// and that the persisted coordinate matches c.Coord. On any failure the
// grid is left completely untouched.
func (c *Chunk) Deserialize(buf []byte) error {
	if len(buf) < 12+cellCount {
		return ErrSerializationMismatch
	}
	if buf[0] != magic[0] || buf[1] != magic[1] || buf[2] != magic[2] || buf[3] != magic[3] {
		return ErrSerializationMismatch
	}
	x := int32(binary.LittleEndian.Uint32(buf[4:8]))
	z := int32(binary.LittleEndian.Uint32(buf[8:12]))
	if x != c.Coord.X || z != c.Coord.Z {
		return ErrSerializationMismatch
	}

	for i := 0; i < cellCount; i++ {
		c.cells[i] = BlockID(buf[12+i])
	}
	c.Generated = true
	c.version++
	return nil
}

// BodySize is the exact byte length Serialize always produces.
func BodySize() int {
	return 12 + cellCount
}
