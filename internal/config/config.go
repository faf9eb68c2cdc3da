// Package config holds the Chunk Manager's tunable parameters: render and
// load distances, worker count, world seed, and terrain tolerances. The
// struct shape and the explicit-flags merge pattern mirror the corpus's own
// server configuration (internal/server/config), adapted from network/server
// settings to world-generation settings.
package config

import "github.com/OCharnyshevich/voxelcore/pkg/terrain"

// Config holds every setting the spec calls out as settable before or
// during initialization (render distance, load distance, worker count,
// seed, terrain parameters).
type Config struct {
	WorldRoot string `json:"world_root"`

	RenderDistance int `json:"render_distance"`
	LoadDistance   int `json:"load_distance"`
	WorkerCount    int `json:"worker_count"`

	Seed int32 `json:"seed"`

	Terrain terrain.Params `json:"terrain"`
}

// DefaultConfig returns the spec's literal defaults: render distance 8,
// load distance = render distance + 2, 4 workers.
func DefaultConfig() *Config {
	return &Config{
		WorldRoot:      "world",
		RenderDistance: 8,
		LoadDistance:   10,
		WorkerCount:    4,
		Terrain:        terrain.DefaultParams(),
	}
}

// Merge applies file-loaded values into cfg, but only for fields not
// explicitly set via CLI flags. explicitFlags holds the flag names given on
// the command line, matching the corpus's own Merge(cfg, fromFile, flags)
// shape. Only WorldRoot, RenderDistance, LoadDistance, WorkerCount and Seed
// are merged; cfg.Terrain is left as it is.
func Merge(cfg *Config, fromFile *Config, explicitFlags map[string]bool) {
	if fromFile == nil {
		return
	}
	if !explicitFlags["world-root"] {
		cfg.WorldRoot = fromFile.WorldRoot
	}
	if !explicitFlags["render-distance"] {
		cfg.RenderDistance = fromFile.RenderDistance
	}
	if !explicitFlags["load-distance"] {
		cfg.LoadDistance = fromFile.LoadDistance
	}
	if !explicitFlags["workers"] {
		cfg.WorkerCount = fromFile.WorkerCount
	}
	if !explicitFlags["seed"] {
		cfg.Seed = fromFile.Seed
	}
}
