package worldmeta

import (
	"os"
	"testing"
)

func TestLoadOrCreateCreatesOnFirstCall(t *testing.T) {
	dir := t.TempDir()
	m, err := LoadOrCreate(dir, 12345)
	if err != nil {
		t.Fatalf("LoadOrCreate: %v", err)
	}
	if m.Seed != 12345 {
		t.Errorf("Seed = %d, want 12345", m.Seed)
	}
}

func TestLoadOrCreateReloadsSameSeed(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadOrCreate(dir, 777); err != nil {
		t.Fatalf("first LoadOrCreate: %v", err)
	}
	m, err := LoadOrCreate(dir, 999) // seed ignored on reload
	if err != nil {
		t.Fatalf("second LoadOrCreate: %v", err)
	}
	if m.Seed != 777 {
		t.Errorf("Seed = %d, want 777 (reloaded, not recreated)", m.Seed)
	}
}

func TestLoadOrCreateNegativeSeedRoundTrips(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadOrCreate(dir, -42); err != nil {
		t.Fatalf("LoadOrCreate: %v", err)
	}
	m, err := LoadOrCreate(dir, 0)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if m.Seed != -42 {
		t.Errorf("Seed = %d, want -42", m.Seed)
	}
}

func TestCorruptMagicIsRejected(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadOrCreate(dir, 1); err != nil {
		t.Fatalf("LoadOrCreate: %v", err)
	}

	p := path(dir)
	data := []byte{0, 0, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatalf("os.WriteFile: %v", err)
	}

	if _, err := LoadOrCreate(dir, 1); err != ErrCorrupt {
		t.Errorf("got err=%v, want ErrCorrupt", err)
	}
}
