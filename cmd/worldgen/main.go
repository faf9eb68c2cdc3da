// Command worldgen demonstrates the storage+generation+meshing core: it
// initializes a world, pregenerates the spawn area, then drives an observer
// walking outward, logging the observer's world x at each step. It follows
// the corpus's own flag + slog main shape (cmd/server/main.go), adapted from
// a long-running, signal-handled network server to a one-shot demo of the
// Chunk Manager's lifecycle with no signal handling.
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/OCharnyshevich/voxelcore/internal/config"
	"github.com/OCharnyshevich/voxelcore/internal/engine"
	"github.com/OCharnyshevich/voxelcore/internal/telemetry"
	"github.com/OCharnyshevich/voxelcore/pkg/voxel"
)

func main() {
	cfg := config.DefaultConfig()

	flag.StringVar(&cfg.WorldRoot, "world-root", cfg.WorldRoot, "world directory")
	flag.IntVar(&cfg.RenderDistance, "render-distance", cfg.RenderDistance, "render distance in chunks")
	flag.IntVar(&cfg.LoadDistance, "load-distance", cfg.LoadDistance, "load distance in chunks")
	flag.IntVar(&cfg.WorkerCount, "workers", cfg.WorkerCount, "generation/save worker count")
	var seed int64
	flag.Int64Var(&seed, "seed", int64(cfg.Seed), "world seed")
	var steps int
	flag.IntVar(&steps, "steps", 8, "number of observer-movement steps to simulate")
	flag.Parse()
	cfg.Seed = int32(seed)

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	metrics := telemetry.New(prometheus.NewRegistry())

	mgr, err := engine.New(engine.Options{
		WorldRoot:      cfg.WorldRoot,
		RenderDistance: cfg.RenderDistance,
		LoadDistance:   cfg.LoadDistance,
		WorkerCount:    cfg.WorkerCount,
		Seed:           cfg.Seed,
		TerrainParams:  cfg.Terrain,
		Metrics:        metrics,
		Log:            log,
	})
	if err != nil {
		log.Error("initialize chunk manager", "error", err)
		os.Exit(1)
	}
	defer mgr.Shutdown()

	log.Info("pregenerating spawn", "radius", 2)
	mgr.PregenerateSpawn(voxel.ChunkCoord{}, 2)

	var wx int32
	for i := 0; i < steps; i++ {
		wx += int32(voxel.S)
		mgr.UpdateObserver(wx, 0, 1.0, 0)
		log.Info("observer step", "world_x", wx)
	}

	mgr.SaveAll()
	log.Info("done")
}
