// Package mesh implements the Greedy Mesher: neighbor-aware face-visibility
// testing and per-face rectangle merging over a chunk grid, producing a
// quad list with UV tiling. Grounded on the corpus's own per-direction
// greedy-meshing algorithm (mask build, scanline rectangle growth, mask
// zero-out), adapted from a triangle-vertex-buffer output to the spec's
// Quad list and from a single "treat missing neighbor as solid" axis rule
// to the spec's explicit four-neighbor-pointer boundary rule.
package mesh

import "github.com/OCharnyshevich/voxelcore/pkg/voxel"

// Face is an outward-facing direction a quad belongs to.
type Face int

const (
	FaceTop Face = iota
	FaceBottom
	FaceNorth // z-1
	FaceSouth // z+1
	FaceEast  // x+1
	FaceWest  // x-1
)

// Vec3 is a plain float triple; used for quad centers and sizes only, never
// for game-logic coordinates.
type Vec3 struct {
	X, Y, Z float64
}

// Quad is one emitted, possibly-merged face: world-space center, size along
// the two in-plane axes (SizeU, SizeV in that face's own (u,v) frame),
// the block id it was built from, and its outward face direction.
type Quad struct {
	Center  Vec3
	SizeU   float64
	SizeV   float64
	BlockID voxel.BlockID
	Face    Face
}

// Neighbors are the four planar chunks surrounding the one being meshed.
// Any may be nil; a nil neighbor means "render the boundary face" (spec
// §4.5: chunk edges never drop geometry when a neighbor is absent).
type Neighbors struct {
	North *voxel.Chunk // z-1
	South *voxel.Chunk // z+1
	East  *voxel.Chunk // x+1
	West  *voxel.Chunk // x-1
}

// Build runs the full greedy-meshing pipeline over c, consulting n for
// cross-chunk face visibility, and returns the ordered quad list.
func Build(c *voxel.Chunk, n Neighbors) []Quad {
	if c == nil {
		return nil
	}
	var quads []Quad
	quads = append(quads, buildTopBottom(c, FaceTop)...)
	quads = append(quads, buildTopBottom(c, FaceBottom)...)
	quads = append(quads, buildSide(c, n, FaceNorth)...)
	quads = append(quads, buildSide(c, n, FaceSouth)...)
	quads = append(quads, buildSide(c, n, FaceEast)...)
	quads = append(quads, buildSide(c, n, FaceWest)...)
	return quads
}

// faceNormal returns the unit step (dx, dy, dz) a face direction steps
// toward from the cell it belongs to.
func faceNormal(f Face) (dx, dy, dz int) {
	switch f {
	case FaceTop:
		return 0, 1, 0
	case FaceBottom:
		return 0, -1, 0
	case FaceNorth:
		return 0, 0, -1
	case FaceSouth:
		return 0, 0, 1
	case FaceEast:
		return 1, 0, 0
	case FaceWest:
		return -1, 0, 0
	}
	return 0, 0, 0
}

// visible implements the spec's literal face-visibility test for cell
// (x,y,z) with id and face direction f, consulting neighbors n for
// cross-boundary cells.
func visible(c *voxel.Chunk, n Neighbors, x, y, z int, id voxel.BlockID, f Face) bool {
	if id == voxel.BlockAir {
		return false
	}
	dx, dy, dz := faceNormal(f)
	ax, ay, az := x+dx, y+dy, z+dz

	if ay >= voxel.H {
		return true
	}
	if ay < 0 {
		return false
	}

	if ax >= 0 && ax < voxel.S && az >= 0 && az < voxel.S {
		adj := c.Get(ax, ay, az)
		return adj == voxel.BlockAir || adj != id
	}

	// Crosses a horizontal chunk boundary.
	neighbor, nx, nz := mirroredNeighbor(n, ax, az)
	if neighbor == nil {
		return true
	}
	adj := neighbor.Get(nx, ay, nz)
	return adj == voxel.BlockAir || adj != id
}

// mirroredNeighbor maps an out-of-range (ax, az) local coordinate to the
// neighbor chunk that owns it and the mirrored in-range local coordinate
// within that neighbor (e.g. x = S resolves to x' = 0 of the east neighbor).
func mirroredNeighbor(n Neighbors, ax, az int) (neighbor *voxel.Chunk, nx, nz int) {
	switch {
	case az < 0:
		return n.North, ax, voxel.S - 1
	case az >= voxel.S:
		return n.South, ax, 0
	case ax >= voxel.S:
		return n.East, 0, az
	case ax < 0:
		return n.West, voxel.S - 1, az
	}
	return nil, 0, 0
}

// buildTopBottom implements the spec's top/bottom merging rule: per (x,z)
// column, find the renderable y for the direction (highest for TOP, lowest
// for BOTTOM), then grow a rectangle in +x then +z over matching,
// renderable, same-id columns.
func buildTopBottom(c *voxel.Chunk, f Face) []Quad {
	type cell struct {
		y    int
		id   voxel.BlockID
		ok   bool
		done bool
	}
	var grid [voxel.S][voxel.S]cell

	for x := 0; x < voxel.S; x++ {
		for z := 0; z < voxel.S; z++ {
			y, id, ok := renderableVertical(c, x, z, f)
			grid[x][z] = cell{y: y, id: id, ok: ok}
		}
	}

	var quads []Quad
	for x := 0; x < voxel.S; x++ {
		for z := 0; z < voxel.S; z++ {
			g := grid[x][z]
			if !g.ok || g.done {
				continue
			}

			width := 1
			for x2 := x + 1; x2 < voxel.S; x2++ {
				g2 := grid[x2][z]
				if !g2.ok || g2.done || g2.y != g.y || g2.id != g.id {
					break
				}
				width++
			}

			depth := 1
		grow:
			for z2 := z + 1; z2 < voxel.S; z2++ {
				for x2 := x; x2 < x+width; x2++ {
					g2 := grid[x2][z2]
					if !g2.ok || g2.done || g2.y != g.y || g2.id != g.id {
						break grow
					}
				}
				depth++
			}

			for x2 := x; x2 < x+width; x2++ {
				for z2 := z; z2 < z+depth; z2++ {
					grid[x2][z2].done = true
				}
			}

			quads = append(quads, Quad{
				Center: Vec3{
					X: float64(x) + float64(width)/2,
					Y: float64(g.y) + topBottomOffset(f),
					Z: float64(z) + float64(depth)/2,
				},
				SizeU:   float64(width),
				SizeV:   float64(depth),
				BlockID: g.id,
				Face:    f,
			})
		}
	}
	return quads
}

func topBottomOffset(f Face) float64 {
	if f == FaceTop {
		return 1
	}
	return 0
}

// renderableVertical finds the extreme renderable y in column (x,z) for
// face f: highest for TOP, lowest for BOTTOM. Top/bottom faces never cross
// a horizontal chunk boundary, so no neighbor lookup is needed.
func renderableVertical(c *voxel.Chunk, x, z int, f Face) (y int, id voxel.BlockID, ok bool) {
	if f == FaceTop {
		for y := voxel.H - 1; y >= 0; y-- {
			id := c.Get(x, y, z)
			if visible(c, Neighbors{}, x, y, z, id, f) {
				return y, id, true
			}
		}
		return 0, voxel.BlockAir, false
	}
	for y := 0; y < voxel.H; y++ {
		id := c.Get(x, y, z)
		if visible(c, Neighbors{}, x, y, z, id, f) {
			return y, id, true
		}
	}
	return 0, voxel.BlockAir, false
}

// buildSide implements the spec's side-face merging rule: fix the boundary
// slice, index (u, v) as (in-plane horizontal, height), grow only along u
// per height row. Vertical merging is intentionally not performed — the
// spec preserves this as an open question rather than a defect.
func buildSide(c *voxel.Chunk, n Neighbors, f Face) []Quad {
	var quads []Quad
	for y := 0; y < voxel.H; y++ {
		var row [voxel.S]struct {
			id voxel.BlockID
			ok bool
		}
		for u := 0; u < voxel.S; u++ {
			x, z := sideCell(f, u)
			id := c.Get(x, y, z)
			row[u].id = id
			row[u].ok = visible(c, n, x, y, z, id, f)
		}

		u := 0
		for u < voxel.S {
			if !row[u].ok {
				u++
				continue
			}
			width := 1
			for u+width < voxel.S && row[u+width].ok && row[u+width].id == row[u].id {
				width++
			}

			quads = append(quads, sideQuad(f, u, width, y, row[u].id))
			u += width
		}
	}
	return quads
}

// sideCell maps a u coordinate along the fixed boundary slice back to the
// chunk's local (x, z) for face f.
func sideCell(f Face, u int) (x, z int) {
	switch f {
	case FaceNorth:
		return u, 0
	case FaceSouth:
		return u, voxel.S - 1
	case FaceEast:
		return voxel.S - 1, u
	case FaceWest:
		return 0, u
	}
	return 0, 0
}

func sideQuad(f Face, u, width, y int, id voxel.BlockID) Quad {
	center := Vec3{Y: float64(y) + 0.5}
	switch f {
	case FaceNorth:
		center.X = float64(u) + float64(width)/2
		center.Z = 0
	case FaceSouth:
		center.X = float64(u) + float64(width)/2
		center.Z = voxel.S
	case FaceEast:
		center.X = voxel.S
		center.Z = float64(u) + float64(width)/2
	case FaceWest:
		center.X = 0
		center.Z = float64(u) + float64(width)/2
	}
	return Quad{Center: center, SizeU: float64(width), SizeV: 1, BlockID: id, Face: f}
}
