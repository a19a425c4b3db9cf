package catalog

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"terragen/internal/terrain"
)

var ErrClosed = errors.New("catalog: closed")

// Run is one recorded generation.
type Run struct {
	ID              int64
	CreatedAt       time.Time
	Width           int
	Height          int
	HeightVariation float64
	Ruggedness      float64
	Seed            int64
	Noise           string
	Digest          string
	MinElevation    float64
	MaxElevation    float64
	Trees           int
	Dir             string
	Mesh            string
	Heightmap       string
	Plan            string
}

// Catalog indexes generation runs in a SQLite file.
type Catalog struct {
	db *sql.DB
}

func Open(path string) (*Catalog, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Catalog{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			created_at TEXT NOT NULL,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			height_variation REAL NOT NULL,
			ruggedness REAL NOT NULL,
			seed INTEGER NOT NULL,
			noise TEXT NOT NULL,
			digest TEXT NOT NULL,
			min_elevation REAL NOT NULL,
			max_elevation REAL NOT NULL,
			trees INTEGER NOT NULL,
			dir TEXT NOT NULL,
			mesh TEXT NOT NULL,
			heightmap TEXT NOT NULL,
			plan TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS runs_digest ON runs(digest);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// Record inserts r and returns its row id. A zero CreatedAt is stamped with
// the current time.
func (c *Catalog) Record(ctx context.Context, r Run) (int64, error) {
	if c == nil || c.db == nil {
		return 0, ErrClosed
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	res, err := c.db.ExecContext(ctx,
		`INSERT INTO runs (created_at, width, height, height_variation, ruggedness, seed, noise, digest,
			min_elevation, max_elevation, trees, dir, mesh, heightmap, plan)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.CreatedAt.UTC().Format(time.RFC3339Nano), r.Width, r.Height, r.HeightVariation, r.Ruggedness,
		r.Seed, r.Noise, r.Digest, r.MinElevation, r.MaxElevation, r.Trees, r.Dir, r.Mesh, r.Heightmap, r.Plan,
	)
	if err != nil {
		return 0, fmt.Errorf("record run: %w", err)
	}
	return res.LastInsertId()
}

const selectRuns = `SELECT id, created_at, width, height, height_variation, ruggedness, seed, noise, digest,
	min_elevation, max_elevation, trees, dir, mesh, heightmap, plan FROM runs`

// Lookup returns every run whose heightfield hashed to digest, oldest first.
func (c *Catalog) Lookup(ctx context.Context, digest string) ([]Run, error) {
	if c == nil || c.db == nil {
		return nil, ErrClosed
	}
	rows, err := c.db.QueryContext(ctx, selectRuns+` WHERE digest = ? ORDER BY id ASC`, digest)
	if err != nil {
		return nil, fmt.Errorf("lookup runs: %w", err)
	}
	return scanRuns(rows)
}

// List returns the most recent runs, newest first. limit <= 0 means all.
func (c *Catalog) List(ctx context.Context, limit int) ([]Run, error) {
	if c == nil || c.db == nil {
		return nil, ErrClosed
	}
	if limit <= 0 {
		limit = -1
	}
	rows, err := c.db.QueryContext(ctx, selectRuns+` ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return scanRuns(rows)
}

func scanRuns(rows *sql.Rows) ([]Run, error) {
	defer rows.Close()
	var out []Run
	for rows.Next() {
		var r Run
		var created string
		if err := rows.Scan(&r.ID, &created, &r.Width, &r.Height, &r.HeightVariation, &r.Ruggedness,
			&r.Seed, &r.Noise, &r.Digest, &r.MinElevation, &r.MaxElevation, &r.Trees,
			&r.Dir, &r.Mesh, &r.Heightmap, &r.Plan); err != nil {
			return nil, err
		}
		t, err := time.Parse(time.RFC3339Nano, created)
		if err != nil {
			return nil, fmt.Errorf("run %d: bad timestamp %q: %w", r.ID, created, err)
		}
		r.CreatedAt = t
		out = append(out, r)
	}
	return out, rows.Err()
}

func (c *Catalog) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}

// Digest is the hex sha256 of the grid size followed by every elevation's
// IEEE-754 bits in row-major order. Identical fields share a digest.
func Digest(f terrain.HeightField) string {
	h := sha256.New()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(f.Width())<<32|uint64(f.Height()))
	h.Write(buf[:])
	for _, row := range f {
		for _, v := range row {
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
			h.Write(buf[:])
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
