// Package catalog implements the Block Catalog: a read-only registry mapping
// block ids to their immutable properties, loaded once from an external
// definition source.
package catalog

import "github.com/OCharnyshevich/voxelcore/pkg/voxel"

// Face identifies one of the six faces a block can expose a distinct texture for.
type Face int

const (
	FaceTop Face = iota
	FaceBottom
	FaceNorth
	FaceSouth
	FaceEast
	FaceWest
)

const textureKeyAll = "all"

// Properties holds the immutable, per-id data the rest of the engine reads:
// opacity, break time, per-face texture key, and tint.
type Properties struct {
	ID          voxel.BlockID
	Name        string
	DisplayName string
	Transparent bool
	Liquid      bool
	Breakable   bool
	Hardness    float64
	LightLevel  int
	Tint        [4]byte

	// textures maps a face key ("top", "bottom", ..., "all") to a texture
	// identifier. Lookup falls back to "all", then to Name.
	textures map[string]string
}

// unbreakableHardness is the sentinel hardness value denoting a block that
// cannot be broken (spec: "sentinel value >= 1e6 denotes unbreakable").
const unbreakableHardness = 1e6

// defaultProperties is returned for any id the catalog has never seen.
var defaultProperties = Properties{
	Name:        "unknown",
	DisplayName: "Unknown Block",
	Transparent: false,
	Breakable:   true,
	Hardness:    1,
	Tint:        [4]byte{255, 255, 255, 255},
	textures:    map[string]string{textureKeyAll: "default"},
}

// airProperties is the one id guaranteed transparent and non-solid.
var airProperties = Properties{
	Name:        "air",
	DisplayName: "Air",
	Transparent: true,
	Breakable:   false,
	Hardness:    0,
	Tint:        [4]byte{255, 255, 255, 255},
	textures:    map[string]string{textureKeyAll: ""},
}

// Unbreakable reports whether the block cannot be broken by hand.
func (p Properties) Unbreakable() bool {
	return p.Hardness >= unbreakableHardness
}

// Catalog is the process-wide, read-only block registry. Once returned by
// Load it is never mutated; concurrent reads require no synchronization.
type Catalog struct {
	byID     map[voxel.BlockID]Properties
	byName   map[string]voxel.BlockID
	all      []Properties
	biomes   map[string]any
	recipes  map[string]any
}

// PropertiesOf returns the properties for id, or the stable default record
// if id is unknown. Never fails.
func (c *Catalog) PropertiesOf(id voxel.BlockID) Properties {
	if id == voxel.BlockAir {
		return airProperties
	}
	if c != nil {
		if p, ok := c.byID[id]; ok {
			return p
		}
	}
	return defaultProperties
}

// IDByName resolves a block's internal name to its id.
func (c *Catalog) IDByName(name string) (voxel.BlockID, bool) {
	if name == "air" {
		return voxel.BlockAir, true
	}
	if c == nil {
		return 0, false
	}
	id, ok := c.byName[name]
	return id, ok
}

// TextureKey resolves the texture key for (id, face): a face-specific entry,
// falling back to "all", falling back to the block's own name.
func (c *Catalog) TextureKey(id voxel.BlockID, face Face) string {
	p := c.PropertiesOf(id)
	if key, ok := p.textures[faceKey(face)]; ok && key != "" {
		return key
	}
	if key, ok := p.textures[textureKeyAll]; ok && key != "" {
		return key
	}
	return p.Name
}

// All returns every known block's properties, excluding the synthetic
// AIR and default-unknown records.
func (c *Catalog) All() []Properties {
	if c == nil {
		return nil
	}
	out := make([]Properties, len(c.all))
	copy(out, c.all)
	return out
}

// Biomes exposes the optional biome document verbatim, absence-tolerant
// per the spec's open question — no typed schema is invented for it.
func (c *Catalog) Biomes() map[string]any {
	if c == nil {
		return nil
	}
	return c.biomes
}

// Recipes exposes the optional recipe document verbatim.
func (c *Catalog) Recipes() map[string]any {
	if c == nil {
		return nil
	}
	return c.recipes
}

func faceKey(f Face) string {
	switch f {
	case FaceTop:
		return "top"
	case FaceBottom:
		return "bottom"
	case FaceNorth:
		return "north"
	case FaceSouth:
		return "south"
	case FaceEast:
		return "east"
	case FaceWest:
		return "west"
	default:
		return textureKeyAll
	}
}
