package main

import (
	"flag"

	"terragen/internal/config"
)

// overrides are command-line values layered over the YAML config. Only
// flags the user actually set are applied.
type overrides struct {
	config     *string
	out        *string
	width      *int
	height     *int
	variation  *float64
	ruggedness *float64
	seed       *int64
	noise      *string
	texture    *string
	trees      *int
	fire       *int
	catalog    *string
	noCompress *bool
}

func bindOverrides(fs *flag.FlagSet) *overrides {
	def := config.Default()
	return &overrides{
		config:     fs.String("config", "", "YAML config file"),
		out:        fs.String("out", def.Output.Dir, "output directory"),
		width:      fs.Int("width", def.Terrain.Width, "terrain width in cells"),
		height:     fs.Int("height", def.Terrain.Height, "terrain height in cells"),
		variation:  fs.Float64("variation", def.Terrain.HeightVariation, "amplitude of the low octaves"),
		ruggedness: fs.Float64("ruggedness", def.Terrain.Ruggedness, "amplitude of the high octaves"),
		seed:       fs.Int64("seed", def.Terrain.Seed, "seed for terrain, tree scatter and camera path"),
		noise:      fs.String("noise", def.Terrain.Noise, "noise backend: perlin, simplex or value"),
		texture:    fs.String("texture", "", "texture image recorded in the scene plan"),
		trees:      fs.Int("trees", def.Scatter.Count, "number of trees to scatter"),
		fire:       fs.Int("fire", def.Scatter.FireIndex, "index of the burning tree, -1 for none"),
		catalog:    fs.String("catalog", "", "SQLite run catalog path"),
		noCompress: fs.Bool("no-compress", false, "write a plain OBJ instead of .obj.zst"),
	}
}

func (o *overrides) resolve(fs *flag.FlagSet) (config.Config, error) {
	cfg := config.Default()
	if *o.config != "" {
		var err error
		if cfg, err = config.Load(*o.config); err != nil {
			return cfg, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "out":
			cfg.Output.Dir = *o.out
		case "width":
			cfg.Terrain.Width = *o.width
		case "height":
			cfg.Terrain.Height = *o.height
		case "variation":
			cfg.Terrain.HeightVariation = *o.variation
		case "ruggedness":
			cfg.Terrain.Ruggedness = *o.ruggedness
		case "seed":
			cfg.Terrain.Seed = *o.seed
			cfg.Scatter.Seed = *o.seed
			cfg.Camera.Seed = *o.seed
		case "noise":
			cfg.Terrain.Noise = *o.noise
		case "texture":
			cfg.Terrain.Texture = *o.texture
		case "trees":
			cfg.Scatter.Count = *o.trees
		case "fire":
			cfg.Scatter.FireIndex = *o.fire
		case "catalog":
			cfg.Catalog.Path = *o.catalog
		case "no-compress":
			cfg.Output.Compress = !*o.noCompress
		}
	})
	return cfg, cfg.Validate()
}
