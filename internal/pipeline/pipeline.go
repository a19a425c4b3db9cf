package pipeline

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"terragen/internal/camerapath"
	"terragen/internal/catalog"
	"terragen/internal/config"
	"terragen/internal/export"
	"terragen/internal/meshing"
	"terragen/internal/profiling"
	"terragen/internal/scatter"
	"terragen/internal/terrain"
	"terragen/pkg/sceneplan"

	"github.com/go-gl/mathgl/mgl64"
)

// Result is everything one run produced, in memory and on disk.
type Result struct {
	Seed    int64
	Dir     string
	Field   terrain.HeightField
	Mesh    meshing.MeshGrid
	Normals []mgl64.Vec3
	Blends  []meshing.Blend
	Trees   []scatter.Tree
	Camera  camerapath.Path
	Digest  string

	MeshPath      string
	HeightmapPath string
	PlanPath      string
	RunID         int64 // 0 when no catalog is configured

	Timings map[string]time.Duration
}

// Run generates one scene from cfg and writes its outputs under
// cfg.Output.Dir.
func Run(ctx context.Context, cfg config.Config, logger *log.Logger) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	cat, err := openCatalog(cfg)
	if err != nil {
		return Result{}, err
	}
	if cat != nil {
		defer cat.Close()
	}
	return generate(ctx, cfg, cat, logger)
}

func openCatalog(cfg config.Config) (*catalog.Catalog, error) {
	if cfg.Catalog.Path == "" {
		return nil, nil
	}
	cat, err := catalog.Open(cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	return cat, nil
}

func generate(ctx context.Context, cfg config.Config, cat *catalog.Catalog, logger *log.Logger) (Result, error) {
	rec := profiling.NewRecorder()
	res := Result{Seed: cfg.Terrain.Seed, Dir: cfg.Output.Dir}
	tc := cfg.Terrain

	kind, err := terrain.ParseNoiseKind(tc.Noise)
	if err != nil {
		return res, err
	}

	stage := func(name string, fn func() error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		defer rec.Track(name)()
		if err := fn(); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		return nil
	}

	err = stage("terrain.Synthesize", func() error {
		res.Field, err = terrain.Synthesize(tc.Width, tc.Height, tc.Spec(), tc.Seed, kind)
		if err == nil {
			res.Digest = catalog.Digest(res.Field)
		}
		return err
	})
	if err != nil {
		return res, err
	}
	lo, hi := res.Field.Range()
	logger.Printf("terrain %dx%d seed=%d noise=%s elevation=[%.3f, %.3f]", tc.Width, tc.Height, tc.Seed, kind, lo, hi)

	err = stage("meshing.Grid", func() error {
		res.Mesh = meshing.HeightfieldToMesh(res.Field)
		return nil
	})
	if err != nil {
		return res, err
	}

	err = stage("meshing.Shade", func() error {
		res.Normals = meshing.VertexNormals(res.Mesh)
		res.Blends, err = meshing.Shade(res.Mesh, res.Normals, cfg.Shading)
		return err
	})
	if err != nil {
		return res, err
	}

	err = stage("scatter.Place", func() error {
		res.Trees, err = scatter.Place(res.Field, cfg.Scatter)
		return err
	})
	if err != nil {
		return res, err
	}

	var samples []mgl64.Vec3
	err = stage("camerapath.Generate", func() error {
		res.Camera, err = camerapath.Generate(camerapath.BoundsOf(res.Mesh), cfg.Camera)
		samples = res.Camera.Sample(cfg.Camera.Samples)
		return err
	})
	if err != nil {
		return res, err
	}
	logger.Printf("placed %d trees, camera path %.1f units over %d control points",
		len(res.Trees), res.Camera.Length(256), len(res.Camera.Control))

	out := cfg.Output
	if err := os.MkdirAll(out.Dir, 0o755); err != nil {
		return res, err
	}

	err = stage("export.SaveOBJ", func() error {
		var normals []mgl64.Vec3
		if out.Normals {
			normals = res.Normals
		}
		res.MeshPath, err = export.SaveOBJ(filepath.Join(out.Dir, out.Mesh), res.Mesh, normals, out.Compress)
		return err
	})
	if err != nil {
		return res, err
	}

	if out.Heightmap != "" {
		err = stage("export.SaveHeightmapTIFF", func() error {
			res.HeightmapPath = filepath.Join(out.Dir, out.Heightmap)
			return export.SaveHeightmapTIFF(res.HeightmapPath, res.Field)
		})
		if err != nil {
			return res, err
		}
	}

	res.PlanPath = filepath.Join(out.Dir, out.Plan)
	err = stage("sceneplan.Save", func() error {
		return sceneplan.Save(res.PlanPath, buildPlan(cfg, &res, samples, lo, hi))
	})
	if err != nil {
		return res, err
	}

	if cat != nil {
		err = stage("catalog.Record", func() error {
			res.RunID, err = cat.Record(ctx, catalog.Run{
				Width:           tc.Width,
				Height:          tc.Height,
				HeightVariation: tc.HeightVariation,
				Ruggedness:      tc.Ruggedness,
				Seed:            tc.Seed,
				Noise:           string(kind),
				Digest:          res.Digest,
				MinElevation:    lo,
				MaxElevation:    hi,
				Trees:           len(res.Trees),
				Dir:             out.Dir,
				Mesh:            res.MeshPath,
				Heightmap:       res.HeightmapPath,
				Plan:            res.PlanPath,
			})
			return err
		})
		if err != nil {
			return res, err
		}
	}

	res.Timings = rec.Snapshot()
	var total time.Duration
	for _, d := range res.Timings {
		total += d
	}
	logger.Printf("wrote %s in %s (%s)", res.PlanPath, profiling.FormatMs(total), rec.TopN(3))
	return res, nil
}

func buildPlan(cfg config.Config, res *Result, samples []mgl64.Vec3, lo, hi float64) *sceneplan.Plan {
	tc := cfg.Terrain
	plan := &sceneplan.Plan{
		Terrain: sceneplan.Terrain{
			Width:           tc.Width,
			Height:          tc.Height,
			HeightVariation: tc.HeightVariation,
			Ruggedness:      tc.Ruggedness,
			Seed:            tc.Seed,
			Noise:           tc.Noise,
			MinElevation:    lo,
			MaxElevation:    hi,
			Digest:          res.Digest,
			Mesh:            sceneplan.Rel(res.PlanPath, res.MeshPath),
		},
		Shading: sceneplan.Shading{
			RockSlopeStart: cfg.Shading.RockSlopeStart,
			RockSlopeFull:  cfg.Shading.RockSlopeFull,
			SnowLine:       cfg.Shading.SnowLine,
			SnowBand:       cfg.Shading.SnowBand,
		},
		Camera: sceneplan.Camera{
			Control: toArrays(res.Camera.Control),
			Samples: toArrays(samples),
		},
		Light: sceneplan.Light{
			Type:     cfg.Light.Type,
			Location: cfg.Light.Location,
			Strength: cfg.Light.Strength,
			Color:    cfg.Light.Color,
		},
		Render: sceneplan.Render{
			CameraLocation: cfg.Render.CameraLocation,
			CameraRotation: cfg.Render.CameraRotation,
			FOV:            cfg.Render.FOV,
			Resolution:     cfg.Render.Resolution,
			Frames:         cfg.Render.Frames,
		},
	}
	if res.HeightmapPath != "" {
		plan.Terrain.Heightmap = sceneplan.Rel(res.PlanPath, res.HeightmapPath)
	}
	if tc.Texture != "" {
		plan.Terrain.Texture = tc.Texture
	}

	plan.Trees = make([]sceneplan.Tree, len(res.Trees))
	for i, t := range res.Trees {
		plan.Trees[i] = sceneplan.Tree{Position: t.Position, Yaw: t.Yaw, OnFire: t.OnFire}
		if t.OnFire {
			plan.Fire = &sceneplan.Fire{Tree: i, Position: t.Position}
		}
	}

	plan.Outputs = append(plan.Outputs, plan.Terrain.Mesh)
	if plan.Terrain.Heightmap != "" {
		plan.Outputs = append(plan.Outputs, plan.Terrain.Heightmap)
	}
	return plan
}

func toArrays(vs []mgl64.Vec3) [][3]float64 {
	if len(vs) == 0 {
		return nil
	}
	out := make([][3]float64, len(vs))
	for i, v := range vs {
		out[i] = v
	}
	return out
}
