package terrain

import "github.com/OCharnyshevich/voxelcore/pkg/voxel"

type oreConfig struct {
	block    voxel.BlockID
	minY     int
	maxY     int
	veinSize int
	attempts int
}

// ores mirrors the corpus's ore table, clamped to the spec's "below y=64"
// ceiling and kept sparse ("coarser grid" — few attempts per chunk).
var ores = []oreConfig{
	{CoalOre, 0, 64, 10, 6},
	{IronOre, 0, 64, 8, 6},
	{GoldOre, 0, 32, 8, 2},
	{DiamondOre, 0, 16, 6, 1},
	{RedstoneOre, 0, 16, 6, 4},
	{LapisOre, 0, 32, 6, 1},
}

// placeOres scatters ore veins into stone, below y=64, using a deterministic
// per-chunk RNG so the same seed always yields the same veins.
func (g *Generator) placeOres(c *voxel.Chunk, coord voxel.ChunkCoord, heights *[voxel.S][voxel.S]int) {
	rng := newChunkRNG(g.seed, coord.X, coord.Z, 500)

	for _, ore := range ores {
		for i := 0; i < ore.attempts; i++ {
			x := rng.nextN(voxel.S)
			z := rng.nextN(voxel.S)
			span := ore.maxY - ore.minY
			if span <= 0 {
				continue
			}
			y := ore.minY + rng.nextN(span)

			if y >= heights[x][z] {
				continue
			}
			g.placeVein(c, x, y, z, ore.block, ore.veinSize, heights, rng)
		}
	}
}

func (g *Generator) placeVein(c *voxel.Chunk, cx, cy, cz int, block voxel.BlockID, size int, heights *[voxel.S][voxel.S]int, rng *chunkRNG) {
	const oreCeiling = 64
	for i := 0; i < size; i++ {
		if cx >= 0 && cx < voxel.S && cz >= 0 && cz < voxel.S && cy >= 1 && cy < oreCeiling && cy < heights[cx][cz] {
			if c.Get(cx, cy, cz) == Stone {
				c.SetRaw(cx, cy, cz, block)
			}
		}

		switch rng.nextN(6) {
		case 0:
			cx++
		case 1:
			cx--
		case 2:
			cy++
		case 3:
			cy--
		case 4:
			cz++
		case 5:
			cz--
		}
	}
}
