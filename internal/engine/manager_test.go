package engine

import (
	"os"
	"testing"
	"time"

	"github.com/OCharnyshevich/voxelcore/pkg/terrain"
	"github.com/OCharnyshevich/voxelcore/pkg/voxel"
)

func newTestManager(t *testing.T, worldRoot string, seed int32) *Manager {
	t.Helper()
	m, err := New(Options{
		WorldRoot:      worldRoot,
		RenderDistance: 4,
		LoadDistance:   6,
		WorkerCount:    2,
		Seed:           seed,
		TerrainParams:  terrain.DefaultParams(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m
}

// Scenario 1: Fresh spawn.
func TestFreshSpawnScenario(t *testing.T) {
	dir := t.TempDir()
	m := newTestManager(t, dir, 1)
	defer m.Shutdown()

	m.PregenerateSpawn(voxel.ChunkCoord{}, 2)

	if got := m.GetBlock(0, 0, 0); got != terrain.Bedrock {
		t.Errorf("get_block(0,0,0) = %v, want Bedrock", got)
	}
	if got := m.GetBlock(0, 1, 0); got != terrain.Stone {
		t.Errorf("get_block(0,1,0) = %v, want Stone", got)
	}
	if got := m.GetBlock(0, 255, 0); got != voxel.BlockAir {
		t.Errorf("get_block(0,255,0) = %v, want Air", got)
	}
}

// Scenario 2: Edit then save, restart with same seed.
func TestEditThenSaveScenario(t *testing.T) {
	dir := t.TempDir()
	const cobblestone = terrain.Cobblestone

	m1 := newTestManager(t, dir, 42)
	m1.PregenerateSpawn(voxel.ChunkCoord{}, 2)
	m1.SetBlock(5, 70, 5, cobblestone)
	m1.SaveAll()
	m1.Shutdown()

	m2 := newTestManager(t, dir, 42)
	defer m2.Shutdown()
	m2.PregenerateSpawn(voxel.ChunkCoord{}, 2)

	if got := m2.GetBlock(5, 70, 5); got != cobblestone {
		t.Errorf("after restart, get_block(5,70,5) = %v, want Cobblestone", got)
	}
}

// Scenario 3: Out-of-range write is a no-op.
func TestOutOfRangeWriteScenario(t *testing.T) {
	dir := t.TempDir()
	m := newTestManager(t, dir, 7)
	defer m.Shutdown()
	m.PregenerateSpawn(voxel.ChunkCoord{}, 2)

	m.SetBlock(5, 300, 5, terrain.Stone)
	if got := m.GetBlock(5, 300, 5); got != voxel.BlockAir {
		t.Errorf("get_block(5,300,5) = %v, want Air", got)
	}

	coord := voxel.WorldToChunk(5, 5)
	m.mu.Lock()
	c := m.live[coord]
	m.mu.Unlock()
	if c.Dirty {
		t.Error("out-of-range write marked its chunk dirty")
	}
}

// Scenario 4: Observer motion — chunks ahead of travel get lower priority
// (higher precedence) than chunks behind or perpendicular.
func TestObserverMotionPriorityOrdering(t *testing.T) {
	observer := voxel.ChunkCoord{X: 62, Z: 0}
	ahead := voxel.ChunkCoord{X: 63, Z: 0}
	perpendicular := voxel.ChunkCoord{X: 62, Z: 8}
	behind := voxel.ChunkCoord{X: 61, Z: 0}

	pAhead := computePriority(ahead, observer, 1, 0)
	pPerp := computePriority(perpendicular, observer, 1, 0)
	pBehind := computePriority(behind, observer, 1, 0)

	if !(pAhead < pPerp) {
		t.Errorf("expected ahead priority (%v) < perpendicular priority (%v)", pAhead, pPerp)
	}
	if !(pAhead < pBehind) {
		t.Errorf("expected ahead priority (%v) < behind priority (%v)", pAhead, pBehind)
	}
}

func TestUpdateObserverEvictsFarChunks(t *testing.T) {
	dir := t.TempDir()
	m := newTestManager(t, dir, 3)
	defer m.Shutdown()

	m.PregenerateSpawn(voxel.ChunkCoord{}, 1)
	m.UpdateObserver(0, 0, 0, 0)

	// Move far away; the origin chunk should eventually be evicted.
	farX := int32(m.loadDistance+2) * voxel.S
	m.UpdateObserver(farX, 0, 1, 0)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		m.mu.Lock()
		_, stillLive := m.live[voxel.ChunkCoord{}]
		m.mu.Unlock()
		if !stillLive {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Error("expected origin chunk to be evicted after observer moved far away")
}

// Scenario 6: Corrupt region file is demoted to "missing" on load; save_all
// restores the magic.
func TestCorruptRegionRegeneratesAndRepairsOnSave(t *testing.T) {
	dir := t.TempDir()
	m := newTestManager(t, dir, 9)
	m.PregenerateSpawn(voxel.ChunkCoord{}, 1)
	// A freshly generated, never-edited chunk isn't dirty (spec §4.6 state
	// machine: Generating -> Loaded, not Loaded+Dirty); edit one so the
	// first save_all has something to write and a region file exists.
	m.SetBlock(0, 70, 0, terrain.Cobblestone)
	m.SaveAll()
	m.Shutdown()

	regionPath := dir + "/region/r.0.0.rgn"
	data, err := os.ReadFile(regionPath)
	if err != nil {
		t.Fatalf("read region file: %v", err)
	}
	for i := 0; i < 4; i++ {
		data[i] = 0
	}
	if err := os.WriteFile(regionPath, data, 0o644); err != nil {
		t.Fatalf("corrupt region file: %v", err)
	}

	m2 := newTestManager(t, dir, 9)
	m2.PregenerateSpawn(voxel.ChunkCoord{}, 1)
	m2.SetBlock(0, 70, 0, terrain.Cobblestone)
	m2.SaveAll()
	m2.Shutdown()

	repaired, err := os.ReadFile(regionPath)
	if err != nil {
		t.Fatalf("read repaired region file: %v", err)
	}
	if repaired[0] != 'R' || repaired[1] != 'E' || repaired[2] != 'G' || repaired[3] != 'I' {
		t.Error("expected region magic to be restored after save_all")
	}
}
