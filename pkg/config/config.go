package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"rbfnet/pkg/model"
)

type Config struct {
	Model ModelConfig `yaml:"model"`
	Data  DataConfig  `yaml:"data"`
	Plot  PlotConfig  `yaml:"plot"`
}

type ModelConfig struct {
	InputDim   int     `yaml:"input_dim"`
	NumCenters int     `yaml:"num_centers"`
	OutputDim  int     `yaml:"output_dim"`
	Method     string  `yaml:"method"` // pinv | normal-equations (or 0 | 1)
	Seed       int64   `yaml:"seed"`
	Restarts   int     `yaml:"restarts"`
	MaxIter    int     `yaml:"max_iter"`
	Tolerance  float64 `yaml:"tolerance"`
	Workers    int     `yaml:"workers"` // 0 = GOMAXPROCS
}

type DataConfig struct {
	Path      string  `yaml:"path"` // CSV: input columns followed by target columns
	TestRatio float64 `yaml:"test_ratio"`
	SplitSeed int64   `yaml:"split_seed"`
}

type PlotConfig struct {
	Output string  `yaml:"output"`
	Width  float64 `yaml:"width"`  // inches
	Height float64 `yaml:"height"` // inches
}

// Load reads configPath, or the first of configs/rbf.yaml and rbf.yaml that
// exists when configPath is empty. Missing or zero fields take defaults.
func Load(configPath string) (*Config, error) {
	cfg := &Config{
		Model: ModelConfig{
			InputDim:   2,
			NumCenters: 16,
			OutputDim:  2,
			Method:     "pinv",
			Seed:       1,
			Restarts:   10,
			MaxIter:    100,
			Tolerance:  0.01,
		},
		Data: DataConfig{
			TestRatio: 0.2,
			SplitSeed: 1,
		},
		Plot: PlotConfig{
			Output: "rbf_warp_field.png",
			Width:  6,
			Height: 6,
		},
	}

	if configPath == "" {
		for _, p := range []string{"configs/rbf.yaml", "rbf.yaml"} {
			data, err := os.ReadFile(p)
			if err == nil {
				if err := yaml.Unmarshal(data, cfg); err != nil {
					return cfg, err
				}
				applyDefaults(cfg)
				return cfg, nil
			}
		}
		applyDefaults(cfg)
		return cfg, nil // no file found: use defaults
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return cfg, err
	}

	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Model.Restarts <= 0 {
		cfg.Model.Restarts = 10
	}
	if cfg.Model.MaxIter <= 0 {
		cfg.Model.MaxIter = 100
	}
	if cfg.Model.Tolerance <= 0 {
		cfg.Model.Tolerance = 0.01
	}
	if cfg.Data.TestRatio < 0 || cfg.Data.TestRatio >= 1 {
		cfg.Data.TestRatio = 0.2
	}
	if cfg.Plot.Width <= 0 {
		cfg.Plot.Width = 6
	}
	if cfg.Plot.Height <= 0 {
		cfg.Plot.Height = 6
	}
}

// RBFConfig converts the model section into a validated model configuration.
func (c ModelConfig) RBFConfig() (model.RBFConfig, error) {
	method, err := model.ParseSolveMethod(c.Method)
	if err != nil {
		return model.RBFConfig{}, err
	}
	cfg := model.RBFConfig{
		InputDim:   c.InputDim,
		NumCenters: c.NumCenters,
		OutputDim:  c.OutputDim,
		Method:     method,
		Seed:       c.Seed,
		Restarts:   c.Restarts,
		MaxIter:    c.MaxIter,
		Tolerance:  c.Tolerance,
		Workers:    c.Workers,
	}
	return cfg, cfg.Validate()
}
