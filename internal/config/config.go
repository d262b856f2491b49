// Package config loads mines settings from TOML files and the environment.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/ship-commander/mines/internal/logging"
	"github.com/ship-commander/mines/internal/minefield"
)

const (
	defaultDifficulty = "easy"
	defaultLogLevel   = "info"
	defaultEndpoint   = "http://localhost:4318"
)

// ErrUnknownDifficulty is returned for a preset name that is not configured.
var ErrUnknownDifficulty = errors.New("unknown difficulty")

// Difficulty is one board preset.
type Difficulty struct {
	Name  string
	Rows  int
	Cols  int
	Mines int
}

// Config stores runtime settings.
type Config struct {
	DefaultDifficulty string
	// Seed fixes mine placement; zero draws a fresh seed per game.
	Seed         uint64
	LogLevel     string
	Telemetry    bool
	OTELEndpoint string
	Difficulties map[string]Difficulty
}

type fileConfig struct {
	DefaultDifficulty *string                   `toml:"default_difficulty"`
	Seed              *uint64                   `toml:"seed"`
	LogLevel          *string                   `toml:"log_level"`
	Telemetry         *bool                     `toml:"telemetry"`
	OTEL              *otelConfig               `toml:"otel"`
	Difficulties      map[string]fileDifficulty `toml:"difficulties"`
}

type otelConfig struct {
	Endpoint *string `toml:"endpoint"`
}

type fileDifficulty struct {
	Rows  *int `toml:"rows"`
	Cols  *int `toml:"cols"`
	Mines *int `toml:"mines"`
}

type envConfig struct {
	Difficulty   *string `env:"MINES_DIFFICULTY"`
	Seed         *uint64 `env:"MINES_SEED"`
	LogLevel     *string `env:"MINES_LOG_LEVEL"`
	OTELEndpoint *string `env:"MINES_OTEL_ENDPOINT"`
	Telemetry    *bool   `env:"MINES_TELEMETRY"`
}

// Load reads ~/.mines/config.toml, overlays a project-local .mines/config.toml,
// then applies MINES_* environment variables.
func Load(ctx context.Context) (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	workingDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	return LoadFiles(ctx,
		filepath.Join(homeDir, ".mines", "config.toml"),
		filepath.Join(workingDir, ".mines", "config.toml"),
	)
}

// LoadFiles overlays the given TOML files in order, then the environment.
// Missing files are skipped.
func LoadFiles(ctx context.Context, paths ...string) (*Config, error) {
	cfg := defaults()
	for _, path := range paths {
		if err := overlayFromFile(&cfg, path); err != nil {
			return nil, err
		}
	}
	if err := overlayFromEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	_ = ctx
	return &cfg, nil
}

func defaults() Config {
	return Config{
		DefaultDifficulty: defaultDifficulty,
		LogLevel:          defaultLogLevel,
		OTELEndpoint:      defaultEndpoint,
		Difficulties: map[string]Difficulty{
			"easy":   {Name: "easy", Rows: 10, Cols: 7, Mines: 7},
			"medium": {Name: "medium", Rows: 12, Cols: 9, Mines: 10},
			"hard":   {Name: "hard", Rows: 15, Cols: 10, Mines: 20},
		},
	}
}

func overlayFromFile(cfg *Config, path string) error {
	if cfg == nil {
		return errors.New("config must not be nil")
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat config file %q: %w", path, err)
	}

	var decoded fileConfig
	meta, err := toml.DecodeFile(path, &decoded)
	if err != nil {
		return fmt.Errorf("decode config file %q: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return fmt.Errorf("decode config file %q: unsupported keys %s", path, strings.Join(keys, ", "))
	}

	if decoded.DefaultDifficulty != nil {
		cfg.DefaultDifficulty = normalizeKey(*decoded.DefaultDifficulty)
	}
	if decoded.Seed != nil {
		cfg.Seed = *decoded.Seed
	}
	if decoded.LogLevel != nil {
		cfg.LogLevel = normalizeKey(*decoded.LogLevel)
	}
	if decoded.Telemetry != nil {
		cfg.Telemetry = *decoded.Telemetry
	}
	if decoded.OTEL != nil && decoded.OTEL.Endpoint != nil {
		cfg.OTELEndpoint = strings.TrimSpace(*decoded.OTEL.Endpoint)
	}
	for name, override := range decoded.Difficulties {
		if err := overlayDifficulty(cfg, name, override, path); err != nil {
			return err
		}
	}
	return nil
}

func overlayDifficulty(cfg *Config, name string, override fileDifficulty, path string) error {
	key := normalizeKey(name)
	if key == "" {
		return fmt.Errorf("parse difficulties in %q: empty preset name", path)
	}
	if cfg.Difficulties == nil {
		cfg.Difficulties = map[string]Difficulty{}
	}

	preset, exists := cfg.Difficulties[key]
	if !exists && (override.Rows == nil || override.Cols == nil || override.Mines == nil) {
		return fmt.Errorf("parse difficulties.%s in %q: new presets need rows, cols and mines", name, path)
	}
	preset.Name = key
	if override.Rows != nil {
		preset.Rows = *override.Rows
	}
	if override.Cols != nil {
		preset.Cols = *override.Cols
	}
	if override.Mines != nil {
		preset.Mines = *override.Mines
	}
	cfg.Difficulties[key] = preset
	return nil
}

func overlayFromEnv(cfg *Config) error {
	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	if raw.Difficulty != nil {
		cfg.DefaultDifficulty = normalizeKey(*raw.Difficulty)
	}
	if raw.Seed != nil {
		cfg.Seed = *raw.Seed
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = normalizeKey(*raw.LogLevel)
	}
	if raw.OTELEndpoint != nil {
		cfg.OTELEndpoint = strings.TrimSpace(*raw.OTELEndpoint)
	}
	if raw.Telemetry != nil {
		cfg.Telemetry = *raw.Telemetry
	}
	return nil
}

// Validate checks every preset and the selected defaults.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config must not be nil")
	}
	for _, name := range c.DifficultyNames() {
		preset := c.Difficulties[name]
		dims := minefield.Dimensions{Rows: preset.Rows, Cols: preset.Cols}
		if err := minefield.Validate(dims, preset.Mines); err != nil {
			return fmt.Errorf("difficulty %q: %w", name, err)
		}
	}
	if _, err := c.Difficulty(c.DefaultDifficulty); err != nil {
		return fmt.Errorf("default_difficulty: %w", err)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

// Difficulty resolves a preset by name, ignoring case. An empty name selects
// the default difficulty.
func (c *Config) Difficulty(name string) (Difficulty, error) {
	key := normalizeKey(name)
	if key == "" {
		key = normalizeKey(c.DefaultDifficulty)
	}
	preset, ok := c.Difficulties[key]
	if !ok {
		return Difficulty{}, fmt.Errorf("%w %q (known: %s)", ErrUnknownDifficulty, name, strings.Join(c.DifficultyNames(), ", "))
	}
	return preset, nil
}

// DifficultyNames lists presets from smallest to largest board.
func (c *Config) DifficultyNames() []string {
	names := make([]string, 0, len(c.Difficulties))
	for name := range c.Difficulties {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := c.Difficulties[names[i]], c.Difficulties[names[j]]
		if a.Rows*a.Cols != b.Rows*b.Cols {
			return a.Rows*a.Cols < b.Rows*b.Cols
		}
		if a.Mines != b.Mines {
			return a.Mines < b.Mines
		}
		return names[i] < names[j]
	})
	return names
}

func normalizeKey(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
