package terrain

import "github.com/OCharnyshevich/voxelcore/pkg/voxel"

// Well-known block ids the generator itself needs to reference directly.
// These follow the same low-id-for-common-blocks numbering the default
// catalog document ships with; the catalog is still the source of truth for
// properties, this is only the small fixed vocabulary terrain placement
// logic must name by id.
const (
	Air         voxel.BlockID = voxel.BlockAir
	Stone       voxel.BlockID = 1
	Grass       voxel.BlockID = 2
	Dirt        voxel.BlockID = 3
	Cobblestone voxel.BlockID = 4
	Bedrock     voxel.BlockID = 7
	Water       voxel.BlockID = 9
	Sand        voxel.BlockID = 12
	Gravel      voxel.BlockID = 13
	Log         voxel.BlockID = 17
	Leaves      voxel.BlockID = 18
	Sandstone   voxel.BlockID = 24

	CoalOre     voxel.BlockID = 16
	IronOre     voxel.BlockID = 15
	GoldOre     voxel.BlockID = 14
	DiamondOre  voxel.BlockID = 56
	RedstoneOre voxel.BlockID = 73
	LapisOre    voxel.BlockID = 21
)

// SeaLevel is the y coordinate water fills up to.
const SeaLevel = 62
