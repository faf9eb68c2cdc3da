// Package engine implements the Chunk Manager: the observer-centric
// load/unload ring around a priority queue and a worker pool, owning every
// live chunk grid. The worker-pool lifecycle (spawn N goroutines, a
// WaitGroup, a cooperative shutdown signal) is grounded on the corpus's own
// region-manager worker loop, adapted from that file's channel-blocking
// wait to the spec's explicit pop-or-sleep(10ms) polling loop and from its
// per-region sharded locking to a single Manager-wide mutex (spec §9 Design
// Notes: "avoid a lock-free design -- throughput is bounded by terrain
// generation, not queue contention").
package engine

import (
	"container/heap"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/OCharnyshevich/voxelcore/internal/telemetry"
	"github.com/OCharnyshevich/voxelcore/internal/worldmeta"
	"github.com/OCharnyshevich/voxelcore/pkg/region"
	"github.com/OCharnyshevich/voxelcore/pkg/terrain"
	"github.com/OCharnyshevich/voxelcore/pkg/voxel"
)

// idlePollInterval is how long a worker sleeps when both the generation and
// save queues are empty (spec §4.6 Worker loop).
const idlePollInterval = 10 * time.Millisecond

// Manager owns every live chunk grid and drives its lifecycle:
// Absent -> Queued -> Generating -> Loaded <-> Loaded+Dirty -> Evicting ->
// Saved -> Absent (spec §4.6).
type Manager struct {
	mu sync.Mutex

	live    map[voxel.ChunkCoord]*voxel.Chunk
	queue   priorityHeap
	queued  membershipSet
	// saveSet maps a coordinate pending save to whether it should be
	// evicted from live once that save completes (true for chunks queued
	// by evictBeyond, false for chunks dirtied by an in-range edit).
	saveSet map[voxel.ChunkCoord]bool

	observer voxel.ChunkCoord
	hasObs   bool

	renderDistance int
	loadDistance   int
	workerCount    int

	generator *terrain.Generator
	store     *region.Store
	metrics   *telemetry.Metrics
	log       *slog.Logger

	shutdown atomic.Bool
	wg       sync.WaitGroup

	saveFailures atomic.Int64
}

// Options configures a Manager at construction time.
type Options struct {
	WorldRoot      string
	RenderDistance int
	LoadDistance   int
	WorkerCount    int
	Seed           int32
	TerrainParams  terrain.Params
	Metrics        *telemetry.Metrics
	Log            *slog.Logger
}

// New constructs a Manager per Initialize's contract: it creates the
// terrain generator and region store, loads or creates world metadata, and
// spawns the worker pool. Callers must still call PregenerateSpawn before
// any observer-driven API (spec §4.6).
func New(opts Options) (*Manager, error) {
	if opts.RenderDistance <= 0 {
		opts.RenderDistance = 8
	}
	if opts.LoadDistance <= 0 {
		opts.LoadDistance = opts.RenderDistance + 2
	}
	if opts.WorkerCount <= 0 {
		opts.WorkerCount = 4
	}
	if opts.Log == nil {
		opts.Log = slog.Default()
	}

	meta, err := worldmeta.LoadOrCreate(opts.WorldRoot, opts.Seed)
	if err != nil {
		return nil, err
	}

	m := &Manager{
		live:           make(map[voxel.ChunkCoord]*voxel.Chunk),
		queued:         make(membershipSet),
		saveSet:        make(map[voxel.ChunkCoord]bool),
		renderDistance: opts.RenderDistance,
		loadDistance:   opts.LoadDistance,
		workerCount:    opts.WorkerCount,
		generator:      terrain.NewGeneratorWithParams(meta.Seed, opts.TerrainParams),
		store:          region.New(opts.WorldRoot),
		metrics:        opts.Metrics,
		log:            opts.Log,
	}
	heap.Init(&m.queue)

	for i := 0; i < m.workerCount; i++ {
		m.wg.Add(1)
		go m.worker(i)
	}

	return m, nil
}

// PregenerateSpawn synchronously populates a (2*radius+1)^2 square around
// origin, loading from store when present, generating otherwise. It must
// complete before observer-driven APIs are used (spec §4.6).
func (m *Manager) PregenerateSpawn(origin voxel.ChunkCoord, radius int) {
	for dx := -radius; dx <= radius; dx++ {
		for dz := -radius; dz <= radius; dz++ {
			coord := voxel.ChunkCoord{X: origin.X + int32(dx), Z: origin.Z + int32(dz)}
			m.loadOrGenerateSync(coord)
		}
	}
}

// loadOrGenerateSync materializes coord on the caller's thread: region
// store first, terrain generator on miss, then inserts under the lock.
func (m *Manager) loadOrGenerateSync(coord voxel.ChunkCoord) *voxel.Chunk {
	m.mu.Lock()
	if c, ok := m.live[coord]; ok {
		m.mu.Unlock()
		return c
	}
	m.mu.Unlock()

	c := voxel.New(coord)
	if err := m.store.Load(coord, c); err != nil {
		if err != region.ErrNotPresent {
			m.log.Warn("region load failed, regenerating", "coord", coord, "err", err)
		}
		start := time.Now()
		c = m.generator.Generate(coord)
		m.metrics.ObserveGenerationDuration(time.Since(start).Seconds())
		m.metrics.IncChunksGenerated()
	}
	c.Loaded = true

	m.mu.Lock()
	m.live[coord] = c
	m.mu.Unlock()

	return c
}

// UpdateObserver computes the observer's chunk. If changed, it immediately
// generates the chunk under the observer and its four cardinal neighbors on
// the caller's thread, then asynchronously enqueues the remaining ring up
// to load distance and schedules eviction beyond load distance + 1
// Chebyshev (spec §4.6).
func (m *Manager) UpdateObserver(wx, wz int32, vx, vz float64) {
	obs := voxel.WorldToChunk(wx, wz)

	m.mu.Lock()
	unchanged := m.hasObs && obs == m.observer
	m.observer = obs
	m.hasObs = true
	m.mu.Unlock()

	if unchanged {
		m.enqueueRing(obs, vx, vz)
		m.evictBeyond(obs)
		return
	}

	m.loadOrGenerateSync(obs)
	for _, d := range [4]voxel.ChunkCoord{{X: 0, Z: -1}, {X: 0, Z: 1}, {X: 1, Z: 0}, {X: -1, Z: 0}} {
		m.loadOrGenerateSync(voxel.ChunkCoord{X: obs.X + d.X, Z: obs.Z + d.Z})
	}

	m.enqueueRing(obs, vx, vz)
	m.evictBeyond(obs)
}

// enqueueRing enqueues every not-yet-loaded, not-yet-queued coordinate
// within load distance, prioritized by computePriority.
func (m *Manager) enqueueRing(obs voxel.ChunkCoord, vx, vz float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for dx := -m.loadDistance; dx <= m.loadDistance; dx++ {
		for dz := -m.loadDistance; dz <= m.loadDistance; dz++ {
			c := voxel.ChunkCoord{X: obs.X + int32(dx), Z: obs.Z + int32(dz)}
			if _, loaded := m.live[c]; loaded {
				continue
			}
			if m.queued.has(c) {
				continue
			}
			e := &queueEntry{coord: c, priority: computePriority(c, obs, vx, vz)}
			heap.Push(&m.queue, e)
			m.queued.add(c)
		}
	}
	m.metrics.SetQueueDepth(m.queue.Len())
}

// evictBeyond schedules chunks farther than load distance + 1 in Chebyshev
// distance for eviction: dirty chunks are queued for save, clean ones are
// dropped immediately.
func (m *Manager) evictBeyond(obs voxel.ChunkCoord) {
	m.mu.Lock()
	defer m.mu.Unlock()

	limit := int32(m.loadDistance + 1)
	for coord, c := range m.live {
		if chebyshev(coord, obs) <= limit {
			continue
		}
		if c.Dirty {
			m.saveSet[coord] = true
			continue
		}
		delete(m.live, coord)
		m.metrics.IncChunksEvicted()
	}
}

func chebyshev(a, b voxel.ChunkCoord) int32 {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dz := a.Z - b.Z
	if dz < 0 {
		dz = -dz
	}
	if dx > dz {
		return dx
	}
	return dz
}

// GetBlock routes to the owning chunk. Reads return AIR when y is out of
// [0, H) or the chunk is not loaded (spec §4.6).
func (m *Manager) GetBlock(wx, wy, wz int32) voxel.BlockID {
	if wy < 0 || int(wy) >= voxel.H {
		return voxel.BlockAir
	}
	coord := voxel.WorldToChunk(wx, wz)

	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.live[coord]
	if !ok {
		return voxel.BlockAir
	}
	lx, lz := localOf(wx), localOf(wz)
	return c.Get(lx, int(wy), lz)
}

// SetBlock routes to the owning chunk. Writes into unloaded chunks are
// dropped (spec §4.6).
func (m *Manager) SetBlock(wx, wy, wz int32, id voxel.BlockID) {
	if wy < 0 || int(wy) >= voxel.H {
		return
	}
	coord := voxel.WorldToChunk(wx, wz)

	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.live[coord]
	if !ok {
		return
	}
	lx, lz := localOf(wx), localOf(wz)
	c.Set(lx, int(wy), lz, id)
	if c.Dirty {
		if _, queued := m.saveSet[coord]; !queued {
			m.saveSet[coord] = false
		}
	}
}

func localOf(w int32) int {
	v := w % voxel.S
	if v < 0 {
		v += voxel.S
	}
	return int(v)
}

// Neighbors returns the four planar chunks around coord, currently loaded
// (may be nil), for use by the mesher.
func (m *Manager) Neighbors(coord voxel.ChunkCoord) (north, south, east, west *voxel.Chunk) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.live[voxel.ChunkCoord{X: coord.X, Z: coord.Z - 1}],
		m.live[voxel.ChunkCoord{X: coord.X, Z: coord.Z + 1}],
		m.live[voxel.ChunkCoord{X: coord.X + 1, Z: coord.Z}],
		m.live[voxel.ChunkCoord{X: coord.X - 1, Z: coord.Z}]
}

// RenderChunks gathers every loaded chunk within render distance of
// observer and invokes fn with each chunk and its four planar neighbors.
// It holds the Manager's lock for its duration; it never generates or
// evicts (spec §4.6).
func (m *Manager) RenderChunks(observer voxel.ChunkCoord, fn func(c *voxel.Chunk, north, south, east, west *voxel.Chunk)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for coord, c := range m.live {
		if chebyshev(coord, observer) > int32(m.renderDistance) {
			continue
		}
		north := m.live[voxel.ChunkCoord{X: coord.X, Z: coord.Z - 1}]
		south := m.live[voxel.ChunkCoord{X: coord.X, Z: coord.Z + 1}]
		east := m.live[voxel.ChunkCoord{X: coord.X + 1, Z: coord.Z}]
		west := m.live[voxel.ChunkCoord{X: coord.X - 1, Z: coord.Z}]
		fn(c, north, south, east, west)
	}
}

// SaveAll serializes every dirty chunk via the region store, whether or not
// it was already queued for eviction (spec §4.6: "serializes every dirty
// chunk"). Failures are logged, the chunk is left dirty, and the failure is
// counted for the shutdown summary (spec §7).
func (m *Manager) SaveAll() {
	m.mu.Lock()
	for coord, c := range m.live {
		if !c.Dirty {
			continue
		}
		if _, queued := m.saveSet[coord]; !queued {
			m.saveSet[coord] = false
		}
	}
	coords := make([]voxel.ChunkCoord, 0, len(m.saveSet))
	for c := range m.saveSet {
		coords = append(coords, c)
	}
	m.mu.Unlock()

	for _, coord := range coords {
		m.saveOne(coord)
	}
}

// saveOne saves coord if it is live and dirty, then -- if it was queued by
// evictBeyond rather than by an in-range edit -- removes it from live. An
// eviction of a dirty chunk only completes once its pending save has
// finished (spec §5).
func (m *Manager) saveOne(coord voxel.ChunkCoord) {
	m.mu.Lock()
	c, ok := m.live[coord]
	evict := ok && m.saveSet[coord]
	m.mu.Unlock()

	if !ok {
		m.mu.Lock()
		delete(m.saveSet, coord)
		m.mu.Unlock()
		return
	}

	if !c.Dirty {
		m.mu.Lock()
		delete(m.saveSet, coord)
		if evict {
			delete(m.live, coord)
			m.metrics.IncChunksEvicted()
		}
		m.mu.Unlock()
		return
	}

	if err := m.store.Save(c); err != nil {
		m.log.Warn("chunk save failed, will retry", "coord", coord, "err", err)
		m.saveFailures.Add(1)
		m.metrics.IncSaveFailures()
		return
	}

	m.mu.Lock()
	c.Dirty = false
	delete(m.saveSet, coord)
	if evict {
		delete(m.live, coord)
		m.metrics.IncChunksEvicted()
	}
	m.mu.Unlock()
	m.metrics.IncChunksSaved()
}

// Shutdown signals workers to stop, joins them, then drains the save queue
// synchronously and reports a failure summary (spec §4.6, §5 Cancellation).
func (m *Manager) Shutdown() {
	m.shutdown.Store(true)
	m.wg.Wait()
	m.SaveAll()

	if n := m.saveFailures.Load(); n > 0 {
		m.log.Warn("shutdown completed with save failures", "count", n)
	}
}

// worker repeatedly pops one generation entry; if absent, pops one save
// entry; if both absent, sleeps 10ms (spec §4.6 Worker loop).
func (m *Manager) worker(id int) {
	defer m.wg.Done()

	for !m.shutdown.Load() {
		if m.popAndGenerate() {
			continue
		}
		if m.popAndSave() {
			continue
		}
		time.Sleep(idlePollInterval)
	}
}

func (m *Manager) popAndGenerate() bool {
	m.mu.Lock()
	if m.queue.Len() == 0 {
		m.mu.Unlock()
		return false
	}
	e := heap.Pop(&m.queue).(*queueEntry)
	m.queued.remove(e.coord)
	already := false
	if _, ok := m.live[e.coord]; ok {
		already = true
	}
	m.metrics.SetQueueDepth(m.queue.Len())
	m.mu.Unlock()

	if already {
		return true
	}

	c := voxel.New(e.coord)
	if err := m.store.Load(e.coord, c); err != nil {
		if err != region.ErrNotPresent {
			m.log.Warn("region load failed, regenerating", "coord", e.coord, "err", err)
		}
		start := time.Now()
		c = m.generator.Generate(e.coord)
		m.metrics.ObserveGenerationDuration(time.Since(start).Seconds())
		m.metrics.IncChunksGenerated()
	}
	c.Loaded = true

	m.mu.Lock()
	m.live[e.coord] = c
	m.mu.Unlock()
	return true
}

func (m *Manager) popAndSave() bool {
	m.mu.Lock()
	var coord voxel.ChunkCoord
	found := false
	for c := range m.saveSet {
		coord = c
		found = true
		break
	}
	m.mu.Unlock()
	if !found {
		return false
	}

	m.saveOne(coord)
	return true
}
