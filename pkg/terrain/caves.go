package terrain

import "github.com/OCharnyshevich/voxelcore/pkg/voxel"

// carveCaves replaces solids with AIR where both ridged noise fields exceed
// their thresholds, restricted to 2 <= y < 80 (spec §4.4, §9 numeric
// tolerances); y=1 is never carved, so the stone layer above bedrock stays.
func (g *Generator) carveCaves(c *voxel.Chunk, coord voxel.ChunkCoord, heights *[voxel.S][voxel.S]int) {
	const caveCeiling = 80

	p := g.params
	for x := 0; x < voxel.S; x++ {
		for z := 0; z < voxel.S; z++ {
			wx := float64(int(coord.X)*voxel.S + x)
			wz := float64(int(coord.Z)*voxel.S + z)

			top := heights[x][z]
			if top > caveCeiling {
				top = caveCeiling
			}

			for y := 2; y < top; y++ {
				wy := float64(y)

				r1 := g.cave1.Ridged3D(wx*p.CaveFreq1[0], wy*p.CaveFreq1[1], wz*p.CaveFreq1[2])
				if r1 <= p.CaveThreshold1 {
					continue
				}
				r2 := g.cave2.Ridged3D(wx*p.CaveFreq2[0], wy*p.CaveFreq2[1], wz*p.CaveFreq2[2])
				if r2 <= p.CaveThreshold2 {
					continue
				}

				if c.Get(x, y, z) != Air {
					c.SetRaw(x, y, z, Air)
				}
			}
		}
	}
}
