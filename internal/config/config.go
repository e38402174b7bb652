package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	maze "github.com/yalue/replan_maze"
)

// Config holds the settings for a run of the maze tool.
type Config struct {
	Rows             int   `yaml:"rows"`              // Number of grid rows
	Cols             int   `yaml:"cols"`              // Number of grid columns
	InitialObstacles int   `yaml:"initial_obstacles"` // Random obstacles placed at generation
	ReplanObstacles  int   `yaml:"replan_obstacles"`  // Obstacles placed along the first path
	MaxAttempts      int   `yaml:"max_attempts"`      // 0 means retry forever
	RandomSeed       int64 `yaml:"random_seed"`       // <= 0 means time-based
}

// Environment variables that override values from the config file.
const (
	EnvRows             = "MAZE_ROWS"
	EnvCols             = "MAZE_COLS"
	EnvInitialObstacles = "MAZE_INITIAL_OBSTACLES"
	EnvReplanObstacles  = "MAZE_REPLAN_OBSTACLES"
	EnvMaxAttempts      = "MAZE_MAX_ATTEMPTS"
	EnvRandomSeed       = "MAZE_RANDOM_SEED"
)

// Default returns the settings used when nothing else is configured.
func Default() Config {
	d := maze.DefaultConfig()
	return Config{
		Rows:             d.Rows,
		Cols:             d.Cols,
		InitialObstacles: d.InitialObstacles,
		ReplanObstacles:  d.ReplanObstacles,
		MaxAttempts:      d.MaxAttempts,
		RandomSeed:       -1,
	}
}

// Load builds a Config from the defaults, then the YAML file at path (if path
// is not empty), then environment variables. A .env file in the working
// directory is loaded first if one exists.
func Load(path string, logger *slog.Logger) (Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug(".env file not found or could not be loaded", "error", err)
	}
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overrides fields with any of the MAZE_* environment variables that
// are set.
func applyEnv(cfg *Config) error {
	ints := []struct {
		key string
		dst *int
	}{
		{EnvRows, &cfg.Rows},
		{EnvCols, &cfg.Cols},
		{EnvInitialObstacles, &cfg.InitialObstacles},
		{EnvReplanObstacles, &cfg.ReplanObstacles},
		{EnvMaxAttempts, &cfg.MaxAttempts},
	}
	for _, v := range ints {
		valueStr, exists := os.LookupEnv(v.key)
		if !exists {
			continue
		}
		value, err := strconv.Atoi(valueStr)
		if err != nil {
			return fmt.Errorf("environment variable %s must be an integer: %w",
				v.key, err)
		}
		*v.dst = value
	}
	if valueStr, exists := os.LookupEnv(EnvRandomSeed); exists {
		value, err := strconv.ParseInt(valueStr, 10, 64)
		if err != nil {
			return fmt.Errorf("environment variable %s must be an integer: %w",
				EnvRandomSeed, err)
		}
		cfg.RandomSeed = value
	}
	return nil
}

// Maze returns the maze settings, without the seed.
func (c Config) Maze() maze.Config {
	return maze.Config{
		Rows:             c.Rows,
		Cols:             c.Cols,
		InitialObstacles: c.InitialObstacles,
		ReplanObstacles:  c.ReplanObstacles,
		MaxAttempts:      c.MaxAttempts,
	}
}

// Validate reports whether a maze can be attempted with these settings.
func (c Config) Validate() error {
	m := c.Maze()
	return m.Validate()
}
