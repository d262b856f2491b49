package main

import (
	"archive/tar"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	bugreportLogLimit = 3
)

var (
	bugreportNowFn = func() time.Time {
		return time.Now().UTC()
	}
	bugreportHomeDirFn = os.UserHomeDir
	bugreportGetwdFn   = os.Getwd
)

func newBugreportCommand(logger *log.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "bugreport",
		Short: "Bundle recent game logs and config for a bug report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if logger != nil {
				logger.With("command", "bugreport").Info("collecting diagnostic bundle")
			}
			return runBugReport(cmd.OutOrStdout())
		},
	}
}

func runBugReport(out io.Writer) error {
	homeDir, err := bugreportHomeDirFn()
	if err != nil {
		return fmt.Errorf("resolve home directory: %w", err)
	}
	homeDir = filepath.Clean(homeDir)
	if strings.TrimSpace(homeDir) == "" || homeDir == "." {
		return fmt.Errorf("home directory is not valid")
	}

	cwd, err := bugreportGetwdFn()
	if err != nil {
		return fmt.Errorf("resolve current directory: %w", err)
	}
	cwd = filepath.Clean(cwd)

	timestamp := bugreportNowFn().Format("20060102-150405")
	bundlePath := filepath.Join(cwd, fmt.Sprintf(".mines-bugreport-%s.tar.gz", timestamp))

	stagingDir, err := os.MkdirTemp("", "mines-bugreport-*")
	if err != nil {
		return fmt.Errorf("create staging directory: %w", err)
	}
	defer func() {
		_ = os.RemoveAll(stagingDir)
	}()

	report, err := collectBugreportArtifacts(homeDir, cwd, stagingDir)
	if err != nil {
		return err
	}
	if err := writeBugreportREADME(stagingDir, report); err != nil {
		return err
	}
	if err := writeManifest(stagingDir, report); err != nil {
		return err
	}
	if err := archiveBugreport(stagingDir, bundlePath); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(out, "Bug report written to: %s\n", bundlePath); err != nil {
		return fmt.Errorf("write bugreport output: %w", err)
	}
	return nil
}

type bugreportSummary struct {
	Timestamp string
	Version   string
	LogFiles  []string
	Game      lastGame
	Warnings  []string
}

// lastGame is the newest "game created" record found in the logs.
type lastGame struct {
	SessionID string
	Seed      string
	Rows      string
	Cols      string
	Mines     string
}

// replay returns a script command rebuilding the same board, or "" when the
// game was not seeded.
func (g lastGame) replay() string {
	if g.Seed == "" || g.Seed == "0" {
		return ""
	}
	args := []string{"mines", "script", "--seed", g.Seed}
	for _, flag := range []struct{ name, value string }{
		{"rows", g.Rows},
		{"cols", g.Cols},
		{"mines", g.Mines},
	} {
		if flag.value != "" {
			args = append(args, "--"+flag.name, flag.value)
		}
	}
	return strings.Join(append(args, "ACTION..."), " ")
}

func collectBugreportArtifacts(homeDir, cwd, stagingDir string) (bugreportSummary, error) {
	summary := bugreportSummary{
		Timestamp: bugreportNowFn().Format(time.RFC3339),
		Version:   Version,
		Warnings:  make([]string, 0),
	}

	logFiles, warnings := copyRecentLogs(homeDir, stagingDir, bugreportLogLimit)
	summary.LogFiles = logFiles
	summary.Warnings = append(summary.Warnings, warnings...)

	summary.Game = extractLastGame(logFiles)
	if summary.Game.SessionID == "" {
		summary.Warnings = append(summary.Warnings, "no game session found in copied logs")
	}

	if err := writeVersionFile(stagingDir, summary.Version); err != nil {
		return bugreportSummary{}, err
	}
	configs := map[string]string{
		"config.toml":         filepath.Join(homeDir, ".mines", "config.toml"),
		"project-config.toml": filepath.Join(cwd, ".mines", "config.toml"),
	}
	for _, name := range []string{"config.toml", "project-config.toml"} {
		if err := copyRedactedConfig(configs[name], filepath.Join(stagingDir, name), &summary); err != nil {
			return bugreportSummary{}, err
		}
	}

	return summary, nil
}

func copyRecentLogs(homeDir string, stagingDir string, limit int) ([]string, []string) {
	logsDir := filepath.Join(homeDir, ".mines", "logs")
	files, err := newestFiles(logsDir, limit)
	if err != nil {
		return nil, []string{fmt.Sprintf("unable to read logs directory: %v", err)}
	}

	destDir := filepath.Join(stagingDir, "logs")
	if err := os.MkdirAll(destDir, 0o750); err != nil {
		return nil, []string{fmt.Sprintf("unable to create logs staging directory: %v", err)}
	}

	warnings := make([]string, 0)
	copiedPaths := make([]string, 0, len(files))
	for _, file := range files {
		// #nosec G304 -- source path comes from ~/.mines/logs enumeration.
		data, readErr := os.ReadFile(file.path)
		if readErr != nil {
			warnings = append(warnings, fmt.Sprintf("unable to read log %s: %v", file.path, readErr))
			continue
		}
		dstPath := filepath.Join(destDir, filepath.Base(file.path))
		if writeErr := os.WriteFile(dstPath, data, 0o600); writeErr != nil {
			warnings = append(warnings, fmt.Sprintf("unable to stage log %s: %v", file.path, writeErr))
			continue
		}
		copiedPaths = append(copiedPaths, file.path)
	}
	return copiedPaths, warnings
}

// extractLastGame returns the newest logged game: its session id and, when a
// "game created" record carries them, the seed and board shape.
func extractLastGame(logPaths []string) lastGame {
	for _, logPath := range logPaths {
		// #nosec G304 -- log paths are selected from ~/.mines/logs files.
		data, err := os.ReadFile(logPath)
		if err != nil {
			continue
		}
		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		found := lastGame{}
		for i := len(lines) - 1; i >= 0; i-- {
			record := map[string]any{}
			decoder := json.NewDecoder(strings.NewReader(lines[i]))
			decoder.UseNumber()
			if err := decoder.Decode(&record); err != nil {
				continue
			}
			id := asString(record["session_id"])
			if id == "" || (found.SessionID != "" && id != found.SessionID) {
				continue
			}
			found.SessionID = id
			if seed := asString(record["seed"]); seed != "" {
				found.Seed = seed
				found.Rows = asString(record["rows"])
				found.Cols = asString(record["cols"])
				found.Mines = asString(record["mines"])
				return found
			}
		}
		if found.SessionID != "" {
			return found
		}
	}
	return lastGame{}
}

type bugreportManifest struct {
	Version   string   `yaml:"version"`
	Generated string   `yaml:"generated"`
	SessionID string   `yaml:"session_id,omitempty"`
	Seed      string   `yaml:"seed,omitempty"`
	Replay    string   `yaml:"replay,omitempty"`
	LogFiles  []string `yaml:"log_files"`
	Warnings  []string `yaml:"warnings,omitempty"`
}

// writeManifest records what the bundle holds, plus a command that replays
// the last seeded game.
func writeManifest(stagingDir string, summary bugreportSummary) error {
	manifest := bugreportManifest{
		Version:   summary.Version,
		Generated: summary.Timestamp,
		SessionID: summary.Game.SessionID,
		Seed:      summary.Game.Seed,
		Replay:    summary.Game.replay(),
		LogFiles:  make([]string, 0, len(summary.LogFiles)),
		Warnings:  summary.Warnings,
	}
	for _, path := range summary.LogFiles {
		manifest.LogFiles = append(manifest.LogFiles, filepath.ToSlash(filepath.Join("logs", filepath.Base(path))))
	}

	data, err := yaml.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(stagingDir, "manifest.yaml"), data, 0o600); err != nil {
		return fmt.Errorf("write manifest.yaml: %w", err)
	}
	return nil
}

func writeVersionFile(stagingDir, version string) error {
	content := fmt.Sprintf("mines version: %s\n", strings.TrimSpace(version))
	if err := os.WriteFile(filepath.Join(stagingDir, "version.txt"), []byte(content), 0o600); err != nil {
		return fmt.Errorf("write version.txt: %w", err)
	}
	return nil
}

func copyRedactedConfig(source, destination string, summary *bugreportSummary) error {
	// #nosec G304 -- config paths are fixed locations under ~/.mines and ./.mines.
	configData, err := os.ReadFile(source)
	if err != nil {
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("unable to read config %s: %v", source, err))
		configData = []byte("# config unavailable\n")
	}
	redacted := redactSensitiveConfig(string(configData))
	if err := os.WriteFile(destination, []byte(redacted), 0o600); err != nil {
		return fmt.Errorf("write redacted config: %w", err)
	}
	return nil
}

// redactSensitiveConfig masks TOML values whose key looks like a credential.
func redactSensitiveConfig(configText string) string {
	lines := strings.Split(configText, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "[") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		if !isSensitiveToken(strings.ToLower(strings.TrimSpace(parts[0]))) {
			continue
		}
		lines[i] = parts[0] + "= \"***REDACTED***\""
	}
	return strings.Join(lines, "\n")
}

func isSensitiveToken(value string) bool {
	for _, candidate := range []string{"token", "password", "passwd", "secret", "api-key", "apikey", "api_key", "auth", "bearer", "header"} {
		if strings.Contains(value, candidate) {
			return true
		}
	}
	return false
}

func writeBugreportREADME(stagingDir string, summary bugreportSummary) error {
	builder := strings.Builder{}
	builder.WriteString("mines Bug Report\n")
	builder.WriteString("================\n\n")
	builder.WriteString(fmt.Sprintf("Generated: %s\n", summary.Timestamp))
	builder.WriteString(fmt.Sprintf("Version: %s\n", summary.Version))
	builder.WriteString(fmt.Sprintf("session_id: %s\n", summary.Game.SessionID))
	builder.WriteString(fmt.Sprintf("seed: %s\n\n", summary.Game.Seed))
	builder.WriteString("Included artifacts:\n")
	builder.WriteString(fmt.Sprintf("- logs/ (up to last %d log files)\n", bugreportLogLimit))
	builder.WriteString("- config.toml and project-config.toml (redacted)\n")
	builder.WriteString("- version.txt\n")
	builder.WriteString("- manifest.yaml\n")
	if len(summary.Warnings) > 0 {
		builder.WriteString("\nWarnings:\n")
		for _, warning := range summary.Warnings {
			builder.WriteString("- " + warning + "\n")
		}
	}

	if err := os.WriteFile(filepath.Join(stagingDir, "README.txt"), []byte(builder.String()), 0o600); err != nil {
		return fmt.Errorf("write README.txt: %w", err)
	}
	return nil
}

func archiveBugreport(stagingDir, destination string) (err error) {
	// #nosec G304 -- destination is generated in the current directory with a fixed name pattern.
	archiveFile, err := os.OpenFile(destination, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("create archive %s: %w", destination, err)
	}
	gzipWriter := gzip.NewWriter(archiveFile)
	tarWriter := tar.NewWriter(gzipWriter)
	defer func() {
		for _, closer := range []io.Closer{tarWriter, gzipWriter, archiveFile} {
			if closeErr := closer.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("close archive: %w", closeErr)
			}
		}
	}()

	walkErr := filepath.WalkDir(stagingDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("read file info for %s: %w", path, err)
		}
		relPath, err := filepath.Rel(stagingDir, path)
		if err != nil {
			return fmt.Errorf("compute archive path for %s: %w", path, err)
		}
		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return fmt.Errorf("create tar header for %s: %w", path, err)
		}
		header.Name = filepath.ToSlash(relPath)
		if err := tarWriter.WriteHeader(header); err != nil {
			return fmt.Errorf("write tar header for %s: %w", path, err)
		}

		// #nosec G304 -- walk paths originate from the staging directory.
		file, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open %s for archive: %w", path, err)
		}
		defer file.Close()
		if _, err := io.Copy(tarWriter, file); err != nil {
			return fmt.Errorf("copy %s into archive: %w", path, err)
		}
		return nil
	})
	if walkErr != nil {
		return fmt.Errorf("archive bugreport: %w", walkErr)
	}
	return nil
}

type datedFile struct {
	path    string
	modTime time.Time
}

func newestFiles(dir string, limit int) ([]datedFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	files := make([]datedFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, datedFile{
			path:    filepath.Join(dir, entry.Name()),
			modTime: info.ModTime(),
		})
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].modTime.After(files[j].modTime)
	})
	if limit > 0 && len(files) > limit {
		files = files[:limit]
	}
	return files, nil
}

func asString(value any) string {
	switch typed := value.(type) {
	case string:
		return strings.TrimSpace(typed)
	case json.Number:
		return typed.String()
	default:
		return ""
	}
}
