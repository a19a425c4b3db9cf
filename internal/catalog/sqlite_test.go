package catalog

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"terragen/internal/terrain"
)

func openTemp(t *testing.T) *Catalog {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "db", "runs.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestRecordAndLookup(t *testing.T) {
	ctx := context.Background()
	c := openTemp(t)

	stamp := time.Date(2024, 3, 1, 12, 0, 0, 500, time.UTC)
	want := Run{
		CreatedAt:       stamp,
		Width:           100,
		Height:          80,
		HeightVariation: 5,
		Ruggedness:      0.5,
		Seed:            7,
		Noise:           "perlin",
		Digest:          "abc",
		MinElevation:    -3.5,
		MaxElevation:    4.25,
		Trees:           100,
		Dir:             "out",
		Mesh:            "terrain.obj.zst",
		Heightmap:       "heightmap.tiff",
		Plan:            "scene.yaml",
	}
	id, err := c.Record(ctx, want)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if id <= 0 {
		t.Fatalf("expected positive id, got %d", id)
	}
	if _, err := c.Record(ctx, Run{Digest: "other", Noise: "simplex"}); err != nil {
		t.Fatalf("Record second: %v", err)
	}

	got, err := c.Lookup(ctx, "abc")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 run, got %d", len(got))
	}
	want.ID = id
	if !got[0].CreatedAt.Equal(stamp) {
		t.Errorf("CreatedAt = %v, want %v", got[0].CreatedAt, stamp)
	}
	got[0].CreatedAt = want.CreatedAt
	if got[0] != want {
		t.Errorf("Lookup = %+v\nwant %+v", got[0], want)
	}

	none, err := c.Lookup(ctx, "missing")
	if err != nil || len(none) != 0 {
		t.Errorf("Lookup(missing) = %v, %v", none, err)
	}
}

func TestListNewestFirst(t *testing.T) {
	ctx := context.Background()
	c := openTemp(t)
	for seed := int64(1); seed <= 5; seed++ {
		if _, err := c.Record(ctx, Run{Seed: seed, Digest: "d"}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	runs, err := c.List(ctx, 3)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	for i, seed := range []int64{5, 4, 3} {
		if runs[i].Seed != seed {
			t.Errorf("runs[%d].Seed = %d, want %d", i, runs[i].Seed, seed)
		}
	}
	if runs[0].CreatedAt.IsZero() {
		t.Error("Record should stamp CreatedAt")
	}

	all, err := c.List(ctx, 0)
	if err != nil || len(all) != 5 {
		t.Errorf("List(0) = %d runs, %v", len(all), err)
	}
}

func TestReopenKeepsRuns(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "runs.db")
	c, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Record(ctx, Run{Digest: "persist"}); err != nil {
		t.Fatal(err)
	}
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := c.List(ctx, 1); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed after Close, got %v", err)
	}

	c, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	runs, err := c.Lookup(ctx, "persist")
	if err != nil || len(runs) != 1 {
		t.Errorf("reopened Lookup = %v, %v", runs, err)
	}
}

func TestOpenEmptyPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestDigest(t *testing.T) {
	a, err := terrain.GenerateTerrain(17, 13, 5, 0.5, 3)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := terrain.GenerateTerrain(17, 13, 5, 0.5, 3)
	c, _ := terrain.GenerateTerrain(17, 13, 5, 0.5, 4)

	if Digest(a) != Digest(b) {
		t.Error("identical fields should share a digest")
	}
	if Digest(a) == Digest(c) {
		t.Error("different seeds should change the digest")
	}
	if len(Digest(a)) != 64 {
		t.Errorf("digest length = %d, want 64", len(Digest(a)))
	}

	// Same values, different shape.
	wide, _ := terrain.NewHeightField(3, 2)
	tall, _ := terrain.NewHeightField(2, 3)
	if Digest(wide) == Digest(tall) {
		t.Error("grid shape should be part of the digest")
	}
}
