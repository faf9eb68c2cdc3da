package mesh

import (
	"testing"

	"github.com/OCharnyshevich/voxelcore/pkg/voxel"
)

func solidChunk(coord voxel.ChunkCoord, id voxel.BlockID, topY int) *voxel.Chunk {
	c := voxel.New(coord)
	for x := 0; x < voxel.S; x++ {
		for z := 0; z < voxel.S; z++ {
			for y := 0; y <= topY; y++ {
				c.Set(x, y, z, id)
			}
		}
	}
	return c
}

func quadsOfFace(quads []Quad, f Face) []Quad {
	var out []Quad
	for _, q := range quads {
		if q.Face == f {
			out = append(out, q)
		}
	}
	return out
}

func TestMergedTopFaceIsSingle16x16Quad(t *testing.T) {
	c := solidChunk(voxel.ChunkCoord{}, 2, 64)
	quads := Build(c, Neighbors{})

	top := quadsOfFace(quads, FaceTop)
	if len(top) != 1 {
		t.Fatalf("expected exactly 1 TOP quad, got %d: %+v", len(top), top)
	}
	if top[0].SizeU != 16 || top[0].SizeV != 16 {
		t.Errorf("expected 16x16 merged quad, got %vx%v", top[0].SizeU, top[0].SizeV)
	}
}

func TestMeshingIdempotence(t *testing.T) {
	c := solidChunk(voxel.ChunkCoord{X: 1, Z: -1}, 5, 30)
	n := Neighbors{}

	a := Build(c, n)
	b := Build(c, n)

	if len(a) != len(b) {
		t.Fatalf("quad count changed across identical builds: %d vs %d", len(a), len(b))
	}
	countA := map[Quad]int{}
	for _, q := range a {
		countA[q]++
	}
	for _, q := range b {
		countA[q]--
	}
	for q, diff := range countA {
		if diff != 0 {
			t.Fatalf("quad multiset differs: %+v off by %d", q, diff)
		}
	}
}

func TestMeshingSoundness(t *testing.T) {
	c := voxel.New(voxel.ChunkCoord{})
	// A few scattered solid blocks surrounded by air.
	c.Set(3, 10, 3, 1)
	c.Set(8, 10, 8, 1)
	c.Set(8, 11, 8, 1)

	quads := Build(c, Neighbors{})
	if len(quads) == 0 {
		t.Fatal("expected at least one quad for isolated solid blocks")
	}
	for _, q := range quads {
		if q.BlockID == voxel.BlockAir {
			t.Errorf("emitted quad for AIR: %+v", q)
		}
	}
}

func TestBottomFaceNeverRendersAtWorldFloor(t *testing.T) {
	c := solidChunk(voxel.ChunkCoord{}, 1, 5)
	quads := Build(c, Neighbors{})
	for _, q := range quadsOfFace(quads, FaceBottom) {
		if q.Center.Y <= 0 {
			t.Errorf("bottom quad rendered at y<=0: %+v", q)
		}
	}
}

func TestMissingNeighborRendersBoundaryFace(t *testing.T) {
	c := solidChunk(voxel.ChunkCoord{}, 3, 5)
	quads := Build(c, Neighbors{}) // no neighbors at all

	for _, f := range []Face{FaceNorth, FaceSouth, FaceEast, FaceWest} {
		if len(quadsOfFace(quads, f)) == 0 {
			t.Errorf("expected boundary face %v to render with no neighbor present", f)
		}
	}
}

func TestPresentNeighborSuppressesSharedFace(t *testing.T) {
	east := solidChunk(voxel.ChunkCoord{X: 1, Z: 0}, 3, 5)
	c := solidChunk(voxel.ChunkCoord{X: 0, Z: 0}, 3, 5)

	withNeighbor := Build(c, Neighbors{East: east})
	without := Build(c, Neighbors{})

	if len(quadsOfFace(withNeighbor, FaceEast)) >= len(quadsOfFace(without, FaceEast)) {
		t.Error("expected a solid east neighbor to suppress east-face quads at the shared boundary")
	}
}

func TestCacheReturnsSameMeshUntilMutation(t *testing.T) {
	c := solidChunk(voxel.ChunkCoord{}, 4, 10)
	cache := NewCache()

	first := cache.Get(c, Neighbors{})
	second := cache.Get(c, Neighbors{})
	if len(first) != len(second) {
		t.Fatalf("cache rebuilt an unchanged chunk: %d vs %d quads", len(first), len(second))
	}

	c.Set(0, 0, 0, 9)
	third := cache.Get(c, Neighbors{})
	if len(third) == 0 {
		t.Fatal("expected a rebuilt mesh after mutation, got none")
	}
}
