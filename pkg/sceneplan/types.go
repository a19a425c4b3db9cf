package sceneplan

// Version is written into every plan produced by this package.
const Version = 1

// Plan describes everything a host-side scene script needs to assemble the
// terrain scene: which files to import, where to put trees and the fire,
// and the camera path to animate along.
type Plan struct {
	Version int      `yaml:"version"`
	Terrain Terrain  `yaml:"terrain"`
	Shading Shading  `yaml:"shading"`
	Trees   []Tree   `yaml:"trees"`
	Fire    *Fire    `yaml:"fire,omitempty"`
	Camera  Camera   `yaml:"camera"`
	Light   Light    `yaml:"light"`
	Render  Render   `yaml:"render"`
	Outputs []string `yaml:"outputs,omitempty"`
}

type Terrain struct {
	Width           int     `yaml:"width"`
	Height          int     `yaml:"height"`
	HeightVariation float64 `yaml:"height_variation"`
	Ruggedness      float64 `yaml:"ruggedness"`
	Seed            int64   `yaml:"seed"`
	Noise           string  `yaml:"noise"`
	MinElevation    float64 `yaml:"min_elevation"`
	MaxElevation    float64 `yaml:"max_elevation"`
	Digest          string  `yaml:"digest"`

	// File names are relative to the plan file.
	Mesh      string `yaml:"mesh"`
	Heightmap string `yaml:"heightmap,omitempty"`
	Texture   string `yaml:"texture,omitempty"`
}

// Shading carries the slope/elevation thresholds used for the material blend.
type Shading struct {
	RockSlopeStart float64 `yaml:"rock_slope_start"`
	RockSlopeFull  float64 `yaml:"rock_slope_full"`
	SnowLine       float64 `yaml:"snow_line"`
	SnowBand       float64 `yaml:"snow_band"`
}

type Tree struct {
	Position [3]float64 `yaml:"position,flow"`
	Yaw      float64    `yaml:"yaw"`
	OnFire   bool       `yaml:"on_fire,omitempty"`
}

// Fire marks the burning tree for the smoke/fire setup.
type Fire struct {
	Tree     int        `yaml:"tree"`
	Position [3]float64 `yaml:"position,flow"`
}

type Camera struct {
	Control [][3]float64 `yaml:"control,flow"`
	Samples [][3]float64 `yaml:"samples,flow"`
}

// Light is the scene's key light. Type is a host light kind such as SUN.
type Light struct {
	Type     string     `yaml:"type"`
	Location [3]float64 `yaml:"location,flow"`
	Strength float64    `yaml:"strength"`
	Color    [3]float64 `yaml:"color,flow"`
}

// Render sets up the camera object and the animation that drives it along
// Camera.Samples over Frames frames.
type Render struct {
	CameraLocation [3]float64 `yaml:"camera_location,flow"`
	CameraRotation [3]float64 `yaml:"camera_rotation,flow"`
	FOV            float64    `yaml:"fov"`
	Resolution     [2]int     `yaml:"resolution,flow"`
	Frames         int        `yaml:"frames"`
}
