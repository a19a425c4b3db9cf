package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"

	"terragen/internal/camerapath"
	"terragen/internal/meshing"
	"terragen/internal/scatter"
	"terragen/internal/terrain"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed config.schema.json
var schemaJSON string

var schema = jsonschema.MustCompileString("config.schema.json", schemaJSON)

// Config captures every tunable of a generation run.
type Config struct {
	Terrain TerrainConfig       `yaml:"terrain"`
	Scatter scatter.Params      `yaml:"scatter"`
	Camera  camerapath.Params   `yaml:"camera"`
	Shading meshing.ShadeParams `yaml:"shading"`
	Light   LightConfig         `yaml:"light"`
	Render  RenderConfig        `yaml:"render"`
	Output  OutputConfig        `yaml:"output"`
	Catalog CatalogConfig       `yaml:"catalog"`
	Batch   BatchConfig         `yaml:"batch"`
}

type TerrainConfig struct {
	Width           int     `yaml:"width"`
	Height          int     `yaml:"height"`
	HeightVariation float64 `yaml:"height_variation"`
	Ruggedness      float64 `yaml:"ruggedness"`
	Seed            int64   `yaml:"seed"`
	Noise           string  `yaml:"noise"`
	Texture         string  `yaml:"texture"`
	// Octaves replaces the default four-layer spec when non-empty.
	Octaves terrain.OctaveSpec `yaml:"octaves,omitempty"`
}

// Spec returns the octave layers this config synthesizes.
func (t TerrainConfig) Spec() terrain.OctaveSpec {
	if len(t.Octaves) > 0 {
		return t.Octaves
	}
	return terrain.DefaultOctaves(t.HeightVariation, t.Ruggedness)
}

// LightTypes lists the light kinds a scene script can create.
var LightTypes = []string{"SUN", "POINT", "SPOT", "AREA"}

// LightConfig is the single key light of the scene.
type LightConfig struct {
	Type     string     `yaml:"type"`
	Location mgl64.Vec3 `yaml:"location"`
	Strength float64    `yaml:"strength"`
	Color    mgl64.Vec3 `yaml:"color"`
}

// RenderConfig is the camera rig and animation length. Rotation is Euler
// degrees; Frames is how long the camera takes to travel the path.
type RenderConfig struct {
	CameraLocation mgl64.Vec3 `yaml:"camera_location"`
	CameraRotation mgl64.Vec3 `yaml:"camera_rotation"`
	FOV            float64    `yaml:"fov"`
	Resolution     [2]int     `yaml:"resolution"`
	Frames         int        `yaml:"frames"`
}

type OutputConfig struct {
	Dir       string `yaml:"dir"`
	Mesh      string `yaml:"mesh"`
	Compress  bool   `yaml:"compress"`
	Normals   bool   `yaml:"normals"`
	Heightmap string `yaml:"heightmap"` // empty disables the TIFF
	Plan      string `yaml:"plan"`
}

type CatalogConfig struct {
	Path string `yaml:"path"` // empty disables the run catalog
}

type BatchConfig struct {
	Workers   int `yaml:"workers"`
	QueueSize int `yaml:"queue_size"`
}

// Default mirrors the original scene: a 100x100 terrain with variation 5,
// ruggedness 0.5 and a hundred trees, one of them burning.
func Default() Config {
	return Config{
		Terrain: TerrainConfig{
			Width:           100,
			Height:          100,
			HeightVariation: 5.0,
			Ruggedness:      0.5,
			Noise:           string(terrain.NoisePerlin),
		},
		Scatter: scatter.Params{
			Count:     100,
			FireIndex: 0,
		},
		Camera: camerapath.Params{
			Points:  6,
			Offset:  mgl64.Vec3{0, 0, 20},
			Scale:   5,
			Samples: 240,
		},
		Shading: meshing.DefaultShadeParams(),
		Light: LightConfig{
			Type:     "SUN",
			Location: mgl64.Vec3{0, 0, 100},
			Strength: 10,
			Color:    mgl64.Vec3{1, 1, 1},
		},
		Render: RenderConfig{
			CameraLocation: mgl64.Vec3{0, 0, 10},
			FOV:            20,
			Resolution:     [2]int{128, 128},
			Frames:         200,
		},
		Output: OutputConfig{
			Dir:       "out",
			Mesh:      "terrain.obj",
			Compress:  true,
			Normals:   true,
			Heightmap: "heightmap.tiff",
			Plan:      "scene.yaml",
		},
		Batch: BatchConfig{
			Workers:   4,
			QueueSize: 16,
		},
	}
}

// Load reads a YAML config, checks it against the embedded schema and
// layers it over Default.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Parse(raw)
}

// Parse is Load for an in-memory document.
func Parse(raw []byte) (Config, error) {
	cfg := Default()

	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	if err := validateSchema(doc); err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// validateSchema runs the document through JSON so the validator sees plain
// JSON types (float64, map[string]any).
func validateSchema(doc any) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("config: schema: %w", err)
	}
	return nil
}

// Validate checks cross-field constraints the schema cannot express.
func (c Config) Validate() error {
	var errs []error
	if c.Terrain.Width <= 0 || c.Terrain.Height <= 0 {
		errs = append(errs, fmt.Errorf("%w: %dx%d", terrain.ErrInvalidDimensions, c.Terrain.Width, c.Terrain.Height))
	}
	if _, err := terrain.ParseNoiseKind(c.Terrain.Noise); err != nil {
		errs = append(errs, err)
	}
	if err := c.Terrain.Spec().Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Scatter.Count < 0 || c.Scatter.Density < 0 || c.Scatter.MinSpacing < 0 {
		errs = append(errs, fmt.Errorf("%w: negative count, density or spacing", scatter.ErrInvalidParams))
	}
	if c.Scatter.FireIndex < scatter.NoFire {
		errs = append(errs, fmt.Errorf("%w: fire index %d", scatter.ErrInvalidParams, c.Scatter.FireIndex))
	}
	if c.Scatter.FireIndex >= 0 && c.Scatter.Count == 0 && c.Scatter.Density == 0 {
		errs = append(errs, fmt.Errorf("%w: fire index %d but no trees are placed (use %d)", scatter.ErrInvalidParams, c.Scatter.FireIndex, scatter.NoFire))
	}
	if c.Camera.Points < camerapath.MinPoints {
		errs = append(errs, fmt.Errorf("%w: %d", camerapath.ErrTooFewPoints, c.Camera.Points))
	}
	if c.Camera.Samples < 0 {
		errs = append(errs, fmt.Errorf("config: negative camera samples %d", c.Camera.Samples))
	}
	if err := c.Shading.Validate(); err != nil {
		errs = append(errs, err)
	}
	if !slices.Contains(LightTypes, c.Light.Type) {
		errs = append(errs, fmt.Errorf("config: unknown light type %q", c.Light.Type))
	}
	if c.Light.Strength < 0 || c.Light.Color.X() < 0 || c.Light.Color.Y() < 0 || c.Light.Color.Z() < 0 {
		errs = append(errs, errors.New("config: light strength and color must be non-negative"))
	}
	if c.Render.FOV <= 0 || c.Render.FOV >= 180 {
		errs = append(errs, fmt.Errorf("config: camera fov %v outside (0, 180)", c.Render.FOV))
	}
	if c.Render.Resolution[0] < 1 || c.Render.Resolution[1] < 1 || c.Render.Frames < 1 {
		errs = append(errs, fmt.Errorf("config: render needs a positive resolution and frame count, got %v/%d", c.Render.Resolution, c.Render.Frames))
	}
	if c.Output.Dir == "" || c.Output.Mesh == "" || c.Output.Plan == "" {
		errs = append(errs, errors.New("config: output dir, mesh and plan must be set"))
	}
	if c.Batch.Workers < 1 || c.Batch.QueueSize < 1 {
		errs = append(errs, fmt.Errorf("config: batch needs at least one worker and queue slot, got %d/%d", c.Batch.Workers, c.Batch.QueueSize))
	}
	return errors.Join(errs...)
}
