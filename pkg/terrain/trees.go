package terrain

import "github.com/OCharnyshevich/voxelcore/pkg/voxel"

const treeGridStep = 4
const treeChancePercent = 10

// placeTrees places single-column trees on a 4-block sub-grid in
// non-forbidden biomes with a 10% chance per site; a tree is a 4-6 tall
// column of wood blocks above the current surface. This is the full extent
// of structure placement in scope (spec Non-goals exclude structure
// templates beyond single-column trees).
func (g *Generator) placeTrees(c *voxel.Chunk, coord voxel.ChunkCoord, heights *[voxel.S][voxel.S]int, biomes *[voxel.S][voxel.S]Biome) {
	rng := newChunkRNG(g.seed, coord.X, coord.Z, 700)

	for gx := 0; gx < voxel.S; gx += treeGridStep {
		for gz := 0; gz < voxel.S; gz += treeGridStep {
			biome := biomes[gx][gz]
			if forbidsTrees(biome) {
				continue
			}
			if rng.nextN(100) >= treeChancePercent {
				continue
			}

			height := heights[gx][gz]
			if height <= 0 || height >= voxel.H-8 {
				continue
			}
			top := c.Get(gx, height, gz)
			if top != Grass && top != Dirt {
				continue
			}

			trunk := 4 + rng.nextN(3) // 4..6
			for dy := 1; dy <= trunk; dy++ {
				y := height + dy
				if y >= voxel.H {
					break
				}
				c.SetRaw(gx, y, gz, Log)
			}
		}
	}
}
