package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ship-commander/mines/internal/minefield"
)

var envKeys = []string{"MINES_DIFFICULTY", "MINES_SEED", "MINES_LOG_LEVEL", "MINES_OTEL_ENDPOINT", "MINES_TELEMETRY"}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("unset %s: %v", key, err)
		}
	}
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ".mines", "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	t.Cleanup(func() {
		if chdirErr := os.Chdir(cwd); chdirErr != nil {
			t.Fatalf("restore cwd: %v", chdirErr)
		}
	})
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOME", t.TempDir())
	chdir(t, t.TempDir())

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.DefaultDifficulty != defaultDifficulty {
		t.Fatalf("default_difficulty = %q, want %q", cfg.DefaultDifficulty, defaultDifficulty)
	}
	if cfg.Seed != 0 {
		t.Fatalf("seed = %d, want 0", cfg.Seed)
	}
	if cfg.LogLevel != defaultLogLevel {
		t.Fatalf("log_level = %q, want %q", cfg.LogLevel, defaultLogLevel)
	}
	if cfg.Telemetry {
		t.Fatal("telemetry must default to off")
	}
	if cfg.OTELEndpoint != defaultEndpoint {
		t.Fatalf("otel endpoint = %q, want %q", cfg.OTELEndpoint, defaultEndpoint)
	}

	want := map[string]Difficulty{
		"easy":   {Name: "easy", Rows: 10, Cols: 7, Mines: 7},
		"medium": {Name: "medium", Rows: 12, Cols: 9, Mines: 10},
		"hard":   {Name: "hard", Rows: 15, Cols: 10, Mines: 20},
	}
	for name, preset := range want {
		got, err := cfg.Difficulty(name)
		if err != nil {
			t.Fatalf("difficulty %s: %v", name, err)
		}
		if got != preset {
			t.Fatalf("difficulty %s = %+v, want %+v", name, got, preset)
		}
	}
}

func TestLoadProjectOverridesHome(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	work := t.TempDir()
	t.Setenv("HOME", home)
	chdir(t, work)

	writeConfig(t, home, `
default_difficulty = "medium"
seed = 7
log_level = "debug"
[otel]
endpoint = "http://home:4318"
`)
	writeConfig(t, work, `
seed = 99
telemetry = true
[difficulties.easy]
mines = 8
[difficulties.tiny]
rows = 3
cols = 3
mines = 1
`)

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.DefaultDifficulty != "medium" {
		t.Fatalf("default_difficulty = %q, want medium", cfg.DefaultDifficulty)
	}
	if cfg.Seed != 99 {
		t.Fatalf("seed = %d, want 99", cfg.Seed)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("log_level = %q, want debug", cfg.LogLevel)
	}
	if !cfg.Telemetry {
		t.Fatal("telemetry = false, want true")
	}
	if cfg.OTELEndpoint != "http://home:4318" {
		t.Fatalf("otel endpoint = %q", cfg.OTELEndpoint)
	}

	easy, err := cfg.Difficulty("EASY")
	if err != nil {
		t.Fatalf("difficulty easy: %v", err)
	}
	if easy != (Difficulty{Name: "easy", Rows: 10, Cols: 7, Mines: 8}) {
		t.Fatalf("easy = %+v", easy)
	}
	tiny, err := cfg.Difficulty(" Tiny ")
	if err != nil {
		t.Fatalf("difficulty tiny: %v", err)
	}
	if tiny != (Difficulty{Name: "tiny", Rows: 3, Cols: 3, Mines: 1}) {
		t.Fatalf("tiny = %+v", tiny)
	}

	if got := strings.Join(cfg.DifficultyNames(), ","); got != "tiny,easy,medium,hard" {
		t.Fatalf("difficulty names = %s", got)
	}
}

func TestEnvironmentOverridesFiles(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := writeConfig(t, dir, `
default_difficulty = "medium"
seed = 7
`)
	t.Setenv("MINES_DIFFICULTY", "Hard")
	t.Setenv("MINES_SEED", "0")
	t.Setenv("MINES_LOG_LEVEL", "WARN")
	t.Setenv("MINES_OTEL_ENDPOINT", " http://env:4318 ")
	t.Setenv("MINES_TELEMETRY", "true")

	cfg, err := LoadFiles(context.Background(), path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.DefaultDifficulty != "hard" {
		t.Fatalf("default_difficulty = %q, want hard", cfg.DefaultDifficulty)
	}
	if cfg.Seed != 0 {
		t.Fatalf("seed = %d, want env override 0", cfg.Seed)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("log_level = %q, want warn", cfg.LogLevel)
	}
	if cfg.OTELEndpoint != "http://env:4318" {
		t.Fatalf("otel endpoint = %q", cfg.OTELEndpoint)
	}
	if !cfg.Telemetry {
		t.Fatal("telemetry = false, want true")
	}
}

func TestEnvironmentRejectsMalformedValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("MINES_SEED", "many")

	if _, err := LoadFiles(context.Background()); err == nil {
		t.Fatal("expected error for malformed MINES_SEED")
	}
}

func TestLoadRejectsInvalidFiles(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "bad toml", content: "seed = [", want: "decode config file"},
		{name: "unknown key", content: "colour = \"red\"", want: "unsupported keys colour"},
		{name: "unknown preset key", content: "[difficulties.easy]\nwidth = 3", want: "unsupported keys"},
		{name: "partial new preset", content: "[difficulties.huge]\nrows = 30", want: "new presets need rows, cols and mines"},
		{name: "unknown default", content: "default_difficulty = \"insane\"", want: "unknown difficulty"},
		{name: "bad log level", content: "log_level = \"chatty\"", want: "log_level"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			path := writeConfig(t, t.TempDir(), tt.content)
			_, err := LoadFiles(context.Background(), path)
			if err == nil {
				t.Fatalf("expected error containing %q", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error = %v, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestLoadRejectsUnplayablePresets(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, t.TempDir(), "[difficulties.easy]\nmines = 70")

	_, err := LoadFiles(context.Background(), path)
	if !errors.Is(err, minefield.ErrTooManyMines) {
		t.Fatalf("error = %v, want ErrTooManyMines", err)
	}
}

func TestLoadRejectsOversizedPresets(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, t.TempDir(), "[difficulties.easy]\nrows = 4611686018427387905\ncols = 4")

	_, err := LoadFiles(context.Background(), path)
	if !errors.Is(err, minefield.ErrInvalidDimensions) {
		t.Fatalf("error = %v, want ErrInvalidDimensions", err)
	}
}

func TestDifficultyUnknown(t *testing.T) {
	cfg := defaults()

	_, err := cfg.Difficulty("nightmare")
	if !errors.Is(err, ErrUnknownDifficulty) {
		t.Fatalf("error = %v, want ErrUnknownDifficulty", err)
	}
	if !strings.Contains(err.Error(), "easy, medium, hard") {
		t.Fatalf("error should list known presets: %v", err)
	}

	preset, err := cfg.Difficulty("")
	if err != nil {
		t.Fatalf("default difficulty: %v", err)
	}
	if preset.Name != "easy" {
		t.Fatalf("default difficulty = %q, want easy", preset.Name)
	}
}
