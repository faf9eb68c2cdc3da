// Package terrain implements the Terrain Generator: layered noise and
// spline-shaped terrain height, biome selection, caves, ores, and single
// column trees, all as a deterministic function of a 32-bit world seed.
package terrain

import "github.com/OCharnyshevich/voxelcore/pkg/voxel"

// Params holds the load-bearing numeric tolerances called out by the spec
// (§9 Design Notes): frequencies and the cave threshold, centralized in one
// value so reproducibility tests can pin them down.
type Params struct {
	ContinentalFreq  float64
	ErosionFreq      float64
	PeaksValleysFreq float64
	TemperatureFreq  float64
	HumidityFreq     float64
	DensityFreq      float64

	CaveFreq1 [3]float64 // x, y, z frequencies for the first ridged field
	CaveFreq2 [3]float64 // x, y, z frequencies for the second ridged field

	CaveThreshold1 float64
	CaveThreshold2 float64

	SeaLevel int
}

// DefaultParams returns the spec's literal numeric tolerances.
func DefaultParams() Params {
	return Params{
		ContinentalFreq:  0.0025,
		ErosionFreq:      0.005,
		PeaksValleysFreq: 0.01,
		TemperatureFreq:  1.0 / 512.0,
		HumidityFreq:     1.0 / 512.0,
		DensityFreq:      0.02,
		CaveFreq1:        [3]float64{0.02, 0.02, 0.02},
		CaveFreq2:        [3]float64{0.01, 0.03, 0.01},
		CaveThreshold1:   0.6,
		CaveThreshold2:   0.48,
		SeaLevel:         SeaLevel,
	}
}

// Generator is a deterministic function of a 32-bit seed.
type Generator struct {
	seed int32

	continental  *Source
	erosion      *Source
	peaksValleys *Source
	temperature  *Source
	humidity     *Source
	density      *Source
	cave1        *Source
	cave2        *Source

	continentalSpline  Spline
	erosionSpline      Spline
	peaksValleysSpline Spline

	params Params
}

// NewGenerator constructs a Generator for seed using default terrain
// splines and numeric parameters. Each noise source shares the seed with a
// fixed salt offset, mirroring the corpus's per-concern noise generators
// (seed+1/+2 for erosion and peaks/valleys, seed+100/+200 for biome axes,
// seed+300 for density, seed+400/+401 for caves) so that changing one
// concern's octave count never perturbs another.
func NewGenerator(seed int32) *Generator {
	return NewGeneratorWithParams(seed, DefaultParams())
}

// NewGeneratorWithParams is NewGenerator with overridable tolerances.
func NewGeneratorWithParams(seed int32, params Params) *Generator {
	s := int64(seed)
	return &Generator{
		seed:         seed,
		continental:  NewSource(s),
		erosion:      NewSource(s + 1),
		peaksValleys: NewSource(s + 2),
		temperature:  NewSource(s + 100),
		humidity:     NewSource(s + 200),
		density:      NewSource(s + 300),
		cave1:        NewSource(s + 400),
		cave2:        NewSource(s + 401),

		continentalSpline: NewSpline(
			Knot{In: -1.0, Out: 30},
			Knot{In: -0.3, Out: 45},
			Knot{In: 0.2, Out: 68},
			Knot{In: 0.6, Out: 95},
			Knot{In: 1.0, Out: 120},
		),
		erosionSpline: NewSpline(
			Knot{In: -1.0, Out: -40},
			Knot{In: -0.2, Out: -10},
			Knot{In: 0.3, Out: 10},
			Knot{In: 1.0, Out: 40},
		),
		peaksValleysSpline: NewSpline(
			Knot{In: -1.0, Out: -30},
			Knot{In: 0.0, Out: 0},
			Knot{In: 1.0, Out: 30},
		),

		params: params,
	}
}

// HeightAt returns the base surface height at a world column, clamped to
// [1, H-10].
func (g *Generator) HeightAt(wx, wz int) int {
	return g.baseHeight(wx, wz)
}

func (g *Generator) baseHeight(wx, wz int) int {
	p := g.params
	cx, cz := float64(wx)*p.ContinentalFreq, float64(wz)*p.ContinentalFreq
	ex, ez := float64(wx)*p.ErosionFreq, float64(wz)*p.ErosionFreq
	pvx, pvz := float64(wx)*p.PeaksValleysFreq, float64(wz)*p.PeaksValleysFreq

	continental := g.continental.Octave2D(cx, cz, 4, 0.5)
	erosion := g.erosion.Octave2D(ex, ez, 4, 0.5)
	peaksValleys := g.peaksValleys.Octave2D(pvx, pvz, 4, 0.5)

	height := g.continentalSpline.Evaluate(continental) +
		g.erosionSpline.Evaluate(erosion) +
		g.peaksValleysSpline.Evaluate(peaksValleys)

	h := int(height)
	if h < 1 {
		h = 1
	}
	if h > voxel.H-10 {
		h = voxel.H - 10
	}
	return h
}

// biomeAt samples temperature/humidity and applies the decision table.
func (g *Generator) biomeAt(wx, wz, height int) Biome {
	p := g.params
	tx, tz := float64(wx)*p.TemperatureFreq, float64(wz)*p.TemperatureFreq
	mx, mz := float64(wx)*p.HumidityFreq, float64(wz)*p.HumidityFreq

	t := g.temperature.Octave2D(tx, tz, 4, 0.5)
	m := g.humidity.Octave2D(mx, mz, 4, 0.5)

	return SelectBiome(t, m, height, p.SeaLevel)
}

// Generate runs the full pipeline for one chunk: column pass, caves, ores,
// trees, surface finalization.
func (g *Generator) Generate(coord voxel.ChunkCoord) *voxel.Chunk {
	c := voxel.New(coord)

	var heights [voxel.S][voxel.S]int
	var biomes [voxel.S][voxel.S]Biome

	for x := 0; x < voxel.S; x++ {
		for z := 0; z < voxel.S; z++ {
			wx := int(coord.X)*voxel.S + x
			wz := int(coord.Z)*voxel.S + z

			height := g.baseHeight(wx, wz)
			biome := g.biomeAt(wx, wz, height)
			heights[x][z] = height
			biomes[x][z] = biome

			g.fillColumn(c, x, z, wx, wz, height, biome)
		}
	}

	g.carveCaves(c, coord, &heights)
	g.placeOres(c, coord, &heights)
	g.placeTrees(c, coord, &heights, &biomes)
	g.finalizeSurface(c, &heights, &biomes)

	c.Generated = true
	c.Dirty = false // generation output is not an edit (spec §3: dirty == modified since last save)
	return c
}

// fillColumn implements the density-field column fill: a window around the
// surface is evaluated with a 3D density field biased strongly positive
// below the surface and negative above it; blocks below the window are
// solid stone down to bedrock, blocks above are air.
func (g *Generator) fillColumn(c *voxel.Chunk, x, z, wx, wz, height int, biome Biome) {
	const windowMargin = 20

	top := height + windowMargin
	if top > voxel.H-1 {
		top = voxel.H - 1
	}
	bottom := height - windowMargin
	if bottom < 1 {
		bottom = 1
	}

	freq := g.params.DensityFreq
	amp := terrainAmplitude(biome)

	for y := bottom; y <= top; y++ {
		depth := height - y
		var density float64
		if depth >= 2 {
			density = 1 // forced solid well below the surface
		} else {
			noise := g.density.Octave3D(float64(wx)*freq, float64(y)*freq, float64(wz)*freq, 3, 0.5)
			var bias float64
			if depth >= 0 {
				bias = 0.6 + float64(depth)*0.5
			} else {
				bias = 0.6 + float64(depth)*1.2
			}
			density = noise*amp + bias
		}
		if density <= 0 {
			continue
		}

		var id voxel.BlockID
		switch {
		case depth <= 0:
			id = SurfaceBlock(biome)
		case depth <= 3:
			id = SubsurfaceBlock(biome)
		default:
			id = Stone
		}
		c.SetRaw(x, y, z, id)
	}

	for y := 1; y < bottom; y++ {
		c.SetRaw(x, y, z, Stone)
	}
	c.SetRaw(x, 0, z, Bedrock)

	if height < g.params.SeaLevel {
		for y := height + 1; y <= g.params.SeaLevel; y++ {
			if c.Get(x, y, z) == Air {
				c.SetRaw(x, y, z, Water)
			}
		}
	}
}

// finalizeSurface upgrades exposed DIRT to GRASS except in DESERT.
func (g *Generator) finalizeSurface(c *voxel.Chunk, heights *[voxel.S][voxel.S]int, biomes *[voxel.S][voxel.S]Biome) {
	c.ForEachColumn(func(x, z int) {
		if biomes[x][z] == Desert {
			return
		}
		y := c.HighestNonAir(x, z)
		if y < 0 {
			return
		}
		if c.Get(x, y, z) == Dirt {
			c.SetRaw(x, y, z, Grass)
		}
	})
}
