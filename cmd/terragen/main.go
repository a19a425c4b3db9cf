package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"terragen/internal/catalog"
	"terragen/internal/config"
	"terragen/internal/export"
	"terragen/internal/pipeline"
	"terragen/internal/profiling"

	"github.com/xlab/closer"
)

const usage = `usage: terragen <command> [flags]

commands:
  generate   synthesize one terrain scene
  batch      synthesize one scene per seed (-seeds 1,2,3)
  inspect    summarize an exported OBJ (plain or .zst)
  runs       list runs recorded in the catalog
`

func main() {
	defer closer.Close()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		closer.Exit(2)
	}

	ctx, cancel := context.WithCancel(context.Background())
	closer.Bind(cancel)

	cmd, args := os.Args[1], os.Args[2:]
	logger := log.New(os.Stdout, "["+cmd+"] ", log.LstdFlags|log.Lmicroseconds)

	var run func(context.Context, []string, *log.Logger) error
	switch cmd {
	case "generate":
		run = generateCmd
	case "batch":
		run = batchCmd
	case "inspect":
		run = inspectCmd
	case "runs":
		run = runsCmd
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		closer.Exit(2)
	}

	closer.Checked(func() error { return run(ctx, args, logger) }, false)
}

func generateCmd(ctx context.Context, args []string, logger *log.Logger) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	o := bindOverrides(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := o.resolve(fs)
	if err != nil {
		return err
	}

	res, err := pipeline.Run(ctx, cfg, logger)
	if err != nil {
		return err
	}
	lo, hi := res.Field.Range()
	logger.Printf("digest %s, elevation [%.3f, %.3f], %d trees, plan %s", res.Digest[:12], lo, hi, len(res.Trees), res.PlanPath)
	return nil
}

func batchCmd(ctx context.Context, args []string, logger *log.Logger) error {
	fs := flag.NewFlagSet("batch", flag.ExitOnError)
	o := bindOverrides(fs)
	seedList := fs.String("seeds", "", "comma separated seeds, e.g. 1,2,3")
	workers := fs.Int("workers", 0, "concurrent runs (default from config)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	seeds, err := parseSeeds(*seedList)
	if err != nil {
		return err
	}
	if len(seeds) == 0 {
		return errors.New("batch: -seeds is required")
	}
	cfg, err := o.resolve(fs)
	if err != nil {
		return err
	}
	if *workers > 0 {
		cfg.Batch.Workers = *workers
	}

	results, err := pipeline.RunBatch(ctx, cfg, seeds, logger)
	for _, r := range results {
		logger.Printf("seed %d -> %s (%s)", r.Seed, r.Dir, r.Digest[:12])
	}
	return err
}

func inspectCmd(ctx context.Context, args []string, logger *log.Logger) error {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("inspect: want exactly one OBJ path")
	}
	path := fs.Arg(0)

	stop := profiling.Track("cli.inspect")
	mesh, normals, err := export.OpenOBJ(path)
	stop()
	if err != nil {
		return fmt.Errorf("inspect %s: %w", path, err)
	}

	lo, hi := 0.0, 0.0
	for i, v := range mesh.Vertices {
		if i == 0 || v.Z() < lo {
			lo = v.Z()
		}
		if i == 0 || v.Z() > hi {
			hi = v.Z()
		}
	}
	fmt.Printf("file:      %s\n", path)
	fmt.Printf("grid:      %dx%d\n", mesh.Width, mesh.Height)
	fmt.Printf("vertices:  %d\n", len(mesh.Vertices))
	fmt.Printf("faces:     %d\n", len(mesh.Faces))
	fmt.Printf("normals:   %d\n", len(normals))
	fmt.Printf("elevation: [%.4f, %.4f]\n", lo, hi)
	logger.Printf("read in %s", profiling.TopN(1))
	return nil
}

func runsCmd(ctx context.Context, args []string, logger *log.Logger) error {
	fs := flag.NewFlagSet("runs", flag.ExitOnError)
	path := fs.String("catalog", "", "catalog database path (default from config)")
	cfgPath := fs.String("config", "", "YAML config file")
	limit := fs.Int("limit", 20, "maximum runs to list (0 for all)")
	digest := fs.String("digest", "", "only runs with this heightfield digest")
	if err := fs.Parse(args); err != nil {
		return err
	}

	dbPath := *path
	if dbPath == "" && *cfgPath != "" {
		cfg, err := config.Load(*cfgPath)
		if err != nil {
			return err
		}
		dbPath = cfg.Catalog.Path
	}
	if dbPath == "" {
		return errors.New("runs: no catalog configured (use -catalog or -config)")
	}

	cat, err := catalog.Open(dbPath)
	if err != nil {
		return err
	}
	closer.Bind(func() { _ = cat.Close() })

	var runs []catalog.Run
	if *digest != "" {
		runs, err = cat.Lookup(ctx, *digest)
	} else {
		runs, err = cat.List(ctx, *limit)
	}
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tSIZE\tSEED\tNOISE\tVAR\tRUG\tTREES\tDIGEST\tDIR")
	for _, r := range runs {
		fmt.Fprintf(tw, "%d\t%s\t%dx%d\t%d\t%s\t%g\t%g\t%d\t%s\t%s\n",
			r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04:05"), r.Width, r.Height, r.Seed, r.Noise,
			r.HeightVariation, r.Ruggedness, r.Trees, short(r.Digest), r.Dir)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	logger.Printf("%d runs in %s", len(runs), dbPath)
	return nil
}

func parseSeeds(s string) ([]int64, error) {
	var seeds []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad seed %q: %w", part, err)
		}
		seeds = append(seeds, n)
	}
	return seeds, nil
}

func short(digest string) string {
	if len(digest) > 12 {
		return digest[:12]
	}
	return digest
}
