package terrain

import "github.com/OCharnyshevich/voxelcore/pkg/voxel"

// Biome is one of the decision table's outcomes.
type Biome int

const (
	Ocean Biome = iota
	FrozenPeaks
	Mountains
	Desert
	Plains
	Swamp
	Forest
	Hills
)

// SelectBiome implements the spec's literal decision table: temperature T
// and humidity M are read by sign, height is read absolutely. Order matters
// — the first matching row wins.
func SelectBiome(t, m float64, height, seaLevel int) Biome {
	switch {
	case height < seaLevel-5:
		return Ocean
	case height > seaLevel+60 && t < -0.3:
		return FrozenPeaks
	case height > seaLevel+60:
		return Mountains
	case t < -0.5:
		return FrozenPeaks
	case t > 0.5 && m < -0.3:
		return Desert
	case t > 0.5:
		return Plains
	case m > 0.3:
		return Swamp
	case m > -0.2:
		return Forest
	default:
		return Hills
	}
}

// SurfaceBlock is the block placed at depth 0 below the column's surface.
func SurfaceBlock(b Biome) voxel.BlockID {
	switch b {
	case Desert:
		return Sand
	case Ocean:
		return Gravel
	case Mountains, FrozenPeaks:
		return Stone
	default:
		return Grass
	}
}

// SubsurfaceBlock is the block placed at depths 1..3 below the surface.
func SubsurfaceBlock(b Biome) voxel.BlockID {
	switch b {
	case Desert:
		return Sandstone
	case Mountains, FrozenPeaks:
		return Stone
	default:
		return Dirt
	}
}

// forbidsTrees reports whether a biome never receives tree placement.
func forbidsTrees(b Biome) bool {
	switch b {
	case Ocean, Desert, FrozenPeaks, Mountains:
		return true
	default:
		return false
	}
}

// terrainAmplitude scales the 3D density noise in the column fill per biome,
// grounded on the same per-biome amplitude-scaling idea the corpus's
// DefaultGenerator.biomeTerrainParams uses. It does not change the
// spline-summed base height.
func terrainAmplitude(b Biome) float64 {
	switch b {
	case Mountains, FrozenPeaks:
		return 1.4
	case Hills:
		return 1.2
	case Ocean:
		return 0.6
	default:
		return 1.0
	}
}
