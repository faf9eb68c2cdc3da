package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	getter "github.com/hashicorp/go-getter"

	"github.com/OCharnyshevich/voxelcore/pkg/voxel"
)

// blockDoc mirrors the external block-catalog source document schema (spec §6).
type blockDoc struct {
	ID           int                `json:"id"`
	Name         string             `json:"name"`
	DisplayName  string             `json:"displayName"`
	Transparent  bool               `json:"transparent"`
	Liquid       bool               `json:"liquid"`
	Flammable    bool               `json:"flammable"`
	Breakable    bool               `json:"breakable"`
	EmitsLight   bool               `json:"emitsLight"`
	Hardness     float64            `json:"hardness"`
	LightLevel   int                `json:"lightLevel"`
	SoundGroup   string             `json:"soundGroup"`
	ToolRequired string             `json:"toolRequired"`
	Textures     map[string]string  `json:"textures"`
	TintColor    []int              `json:"tintColor"`
}

// Load stages source (a local path, file:// URL, http(s):// URL, or git::
// URL) via go-getter into a temp directory, then parses blocks.json (and the
// optional sibling biomes.json / recipes.json) into a fresh Catalog.
//
// Construction is atomic: a parse failure never touches an existing Catalog
// the caller may still be using, since a brand new value is built up before
// being returned.
func Load(source string) (*Catalog, error) {
	dir, err := os.MkdirTemp("", "voxelcore-catalog-*")
	if err != nil {
		return nil, fmt.Errorf("catalog: stage temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	if err := getter.Get(dir, source); err != nil {
		return nil, fmt.Errorf("catalog: fetch source %q: %w", source, err)
	}
	return LoadDir(dir)
}

// LoadDir parses an already-materialized catalog document directory. It is
// split out from Load so tests can bypass go-getter staging.
func LoadDir(dir string) (*Catalog, error) {
	blockPath := filepath.Join(dir, "blocks.json")
	data, err := os.ReadFile(blockPath)
	if err != nil {
		return nil, fmt.Errorf("catalog: read blocks document: %w", err)
	}

	var docs []blockDoc
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("catalog: parse blocks document: %w", err)
	}

	c := &Catalog{
		byID:   make(map[voxel.BlockID]Properties, len(docs)),
		byName: make(map[string]voxel.BlockID, len(docs)),
		all:    make([]Properties, 0, len(docs)),
	}

	for _, d := range docs {
		p := Properties{
			ID:          voxel.BlockID(d.ID),
			Name:        d.Name,
			DisplayName: d.DisplayName,
			Transparent: d.Transparent,
			Liquid:      d.Liquid,
			Breakable:   d.Breakable,
			Hardness:    d.Hardness,
			LightLevel:  d.LightLevel,
			Tint:        tintOf(d.TintColor),
			textures:    expandTextures(d.Textures),
		}
		c.byID[p.ID] = p
		c.byName[p.Name] = p.ID
		c.all = append(c.all, p)
	}

	c.biomes = loadOptionalDoc(filepath.Join(dir, "biomes.json"))
	c.recipes = loadOptionalDoc(filepath.Join(dir, "recipes.json"))

	return c, nil
}

// loadOptionalDoc best-effort parses a sibling document. Its absence or a
// parse failure is never an error — per the spec's open question, these
// documents are absence-tolerant and their schema is not ours to invent.
func loadOptionalDoc(path string) map[string]any {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}

func tintOf(rgba []int) [4]byte {
	t := [4]byte{255, 255, 255, 255}
	for i := 0; i < len(rgba) && i < 4; i++ {
		t[i] = byte(rgba[i])
	}
	return t
}

// expandTextures fills north/south/east/west from "side" where the document
// did not specify them individually, mirroring the distinguished "all" and
// "side" fallback keys described in the source document schema.
func expandTextures(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	if side, ok := out["side"]; ok {
		for _, f := range []string{"north", "south", "east", "west"} {
			if _, ok := out[f]; !ok {
				out[f] = side
			}
		}
	}
	return out
}
