package cache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	if _, hit, _ := c.Get(ctx, "points:abc"); hit {
		t.Error("empty cache should miss")
	}

	if err := c.Set(ctx, "points:abc", []byte("column,latitude,longitude\n"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "points:abc")
	if err != nil || !hit {
		t.Fatalf("Get after Set: hit=%v err=%v", hit, err)
	}
	if string(data) != "column,latitude,longitude\n" {
		t.Errorf("Get returned %q", data)
	}

	if err := c.Delete(ctx, "points:abc"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "points:abc"); hit {
		t.Error("deleted entry should miss")
	}
	if err := c.Delete(ctx, "points:abc"); err != nil {
		t.Errorf("Delete of missing key should not fail: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(c.path("k"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry should be a clean miss: hit=%v err=%v", hit, err)
	}
}

func TestHashFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.shp")
	b := filepath.Join(dir, "a.dbf")
	if err := os.WriteFile(a, []byte("shapes"), 0o644); err != nil {
		t.Fatal(err)
	}

	h1, err := HashFiles(a, b)
	if err != nil {
		t.Fatalf("HashFiles error: %v", err)
	}
	h2, _ := HashFiles(a, b)
	if h1 != h2 {
		t.Error("HashFiles should be deterministic")
	}

	if err := os.WriteFile(b, []byte("attrs"), 0o644); err != nil {
		t.Fatal(err)
	}
	h3, _ := HashFiles(a, b)
	if h1 == h3 {
		t.Error("adding a sidecar should change the hash")
	}
}

func TestPointsKey(t *testing.T) {
	base := PointsKeyOpts{Columns: []string{"Total: German"}, Labels: []string{"German"}, Seed: 42, Divisor: 15}

	k1 := PointsKey("a", "g", base)
	if k1 != PointsKey("a", "g", base) {
		t.Error("PointsKey should be deterministic")
	}
	if !strings.HasPrefix(k1, "points:") {
		t.Errorf("PointsKey = %q, want points: prefix", k1)
	}

	other := base
	other.Seed = 7
	if k1 == PointsKey("a", "g", other) {
		t.Error("different seeds should produce different keys")
	}
	if k1 == PointsKey("b", "g", base) {
		t.Error("different inputs should produce different keys")
	}
}
