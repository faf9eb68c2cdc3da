// Package worldmeta reads and writes a world's top-level metadata file
// (world.dat): a fixed 5-byte magic, a version, and the world seed. The
// fixed-header layout and read/write shape follow the corpus's own
// small-binary-header files (the region header in pkg/region, itself
// grounded on the teacher's pkg/world/anvil/region.go).
package worldmeta

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var magic = [5]byte{'W', 'O', 'R', 'L', 'D'}

const version = 1
const fileSize = 5 + 4 + 4

// ErrCorrupt is returned when world.dat exists but fails magic or version
// validation.
var ErrCorrupt = errors.New("worldmeta: corrupt world.dat")

// Meta is a world's top-level metadata.
type Meta struct {
	Seed int32
}

func path(worldRoot string) string {
	return filepath.Join(worldRoot, "world.dat")
}

// LoadOrCreate reads <worldRoot>/world.dat if present and validates it,
// or creates it with seed and returns that instead.
func LoadOrCreate(worldRoot string, seed int32) (Meta, error) {
	p := path(worldRoot)
	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			m := Meta{Seed: seed}
			if err := Save(worldRoot, m); err != nil {
				return Meta{}, err
			}
			return m, nil
		}
		return Meta{}, fmt.Errorf("worldmeta: read %s: %w", p, err)
	}
	return decode(data)
}

func decode(data []byte) (Meta, error) {
	if len(data) < fileSize {
		return Meta{}, ErrCorrupt
	}
	for i := range magic {
		if data[i] != magic[i] {
			return Meta{}, ErrCorrupt
		}
	}
	v := binary.LittleEndian.Uint32(data[5:9])
	if v != version {
		return Meta{}, ErrCorrupt
	}
	seed := int32(binary.LittleEndian.Uint32(data[9:13]))
	return Meta{Seed: seed}, nil
}

// Save atomically writes world.dat under worldRoot via a temp file + rename,
// matching the corpus's own atomic-write idiom.
func Save(worldRoot string, m Meta) error {
	if err := os.MkdirAll(worldRoot, 0o755); err != nil {
		return fmt.Errorf("worldmeta: mkdir %s: %w", worldRoot, err)
	}

	buf := make([]byte, fileSize)
	copy(buf[0:5], magic[:])
	binary.LittleEndian.PutUint32(buf[5:9], version)
	binary.LittleEndian.PutUint32(buf[9:13], uint32(m.Seed))

	p := path(worldRoot)
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, buf, 0o644); err != nil {
		return fmt.Errorf("worldmeta: write temp file: %w", err)
	}
	if err := os.Rename(tmp, p); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("worldmeta: rename temp file: %w", err)
	}
	return nil
}
