package engine

import (
	"container/heap"
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/OCharnyshevich/voxelcore/pkg/voxel"
)

// queueEntry is a (chunk coordinate, priority) pair; lower priority
// dequeues first (spec §3 Generation queue entry / §4.6 Priority formula).
type queueEntry struct {
	coord    voxel.ChunkCoord
	priority float64
	index    int // heap.Interface bookkeeping
}

// priorityHeap is a min-heap of queueEntry ordered by priority, implementing
// container/heap.Interface per the corpus's own bounded-priority-heap idiom
// (spec §9 Design Notes: "worker threads + a bounded priority heap + a
// membership set guarded by one mutex").
type priorityHeap []*queueEntry

func (h priorityHeap) Len() int            { return len(h) }
func (h priorityHeap) Less(i, j int) bool  { return h[i].priority < h[j].priority }
func (h priorityHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }
func (h *priorityHeap) Push(x interface{}) {
	e := x.(*queueEntry)
	e.index = len(*h)
	*h = append(*h, e)
}
func (h *priorityHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}

// membershipSet guards against duplicate enqueues, keyed by a fast hash of
// the chunk coordinate (spec §3: "A membership set guards duplicate
// enqueues"). Hashing with xxhash rather than using the coordinate struct
// directly as a map key mirrors the corpus's own use of xxhash for
// high-churn lookup keys elsewhere in the retrieved pack.
type membershipSet map[uint64]struct{}

func coordHash(c voxel.ChunkCoord) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint32(buf[0:4], uint32(c.X))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(c.Z))
	return xxhash.Sum64(buf[:])
}

func (s membershipSet) has(c voxel.ChunkCoord) bool {
	_, ok := s[coordHash(c)]
	return ok
}

func (s membershipSet) add(c voxel.ChunkCoord) {
	s[coordHash(c)] = struct{}{}
}

func (s membershipSet) remove(c voxel.ChunkCoord) {
	delete(s, coordHash(c))
}

// computePriority implements the spec's literal priority formula: Manhattan
// distance, discounted up to 50% when the candidate lies in the direction
// of travel.
func computePriority(c, observer voxel.ChunkCoord, vx, vz float64) float64 {
	dx := float64(c.X - observer.X)
	dz := float64(c.Z - observer.Z)
	base := math.Abs(dx) + math.Abs(dz)

	speedSq := vx*vx + vz*vz
	if speedSq <= 0.01 {
		return base
	}

	dist := math.Sqrt(dx*dx + dz*dz)
	if dist == 0 {
		return base
	}
	speed := math.Sqrt(speedSq)
	align := (dx*vx + dz*vz) / (speed * dist)
	if align > 0 {
		return base * (1 - 0.5*align)
	}
	return base
}

var _ heap.Interface = &priorityHeap{}
