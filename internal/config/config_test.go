package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg == nil {
		t.Fatal("DefaultConfig returned nil")
	}

	if cfg.Theme.SourceDir != "gifteez-wp-theme" {
		t.Errorf("Theme.SourceDir = %q, expected %q", cfg.Theme.SourceDir, "gifteez-wp-theme")
	}
	if cfg.Theme.Output != "gifteez-wp-theme.zip" {
		t.Errorf("Theme.Output = %q, expected %q", cfg.Theme.Output, "gifteez-wp-theme.zip")
	}
	if !reflect.DeepEqual(cfg.Theme.Exclude, []string{"node_modules"}) {
		t.Errorf("Theme.Exclude = %v, expected [node_modules]", cfg.Theme.Exclude)
	}
	if cfg.Theme.Manifest {
		t.Error("Theme.Manifest should default to false")
	}
	if cfg.Curate.Label != "Leeslampje" {
		t.Errorf("Curate.Label = %q, expected %q", cfg.Curate.Label, "Leeslampje")
	}
	if !filepath.IsAbs(cfg.Curate.CSVPath) || !strings.HasSuffix(cfg.Curate.CSVPath, ".csv") {
		t.Errorf("Curate.CSVPath = %q, expected an absolute .csv path", cfg.Curate.CSVPath)
	}
}

func TestDefaultConfigExcludeIsCopied(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Theme.Exclude[0] = "vendor"

	if DefaultConfig().Theme.Exclude[0] != "node_modules" {
		t.Error("mutating one config's exclusions must not leak into the defaults")
	}
}

func TestLoadFromMissingConfig(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom failed for missing config: %v", err)
	}
	if cfg.Theme.SourceDir != DefaultThemeDir {
		t.Errorf("Expected default source dir, got %q", cfg.Theme.SourceDir)
	}
}

func TestLoadFromValidConfig(t *testing.T) {
	t.Chdir(t.TempDir())

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	configContent := `
theme:
  source_dir: themes/gifteez
  output: dist/gifteez.zip
  exclude:
    - node_modules
    - .cache
  manifest: true
curate:
  csv_path: /data/lampjes.csv
  label: Bureaulamp
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	if cfg.Theme.SourceDir != "themes/gifteez" {
		t.Errorf("Theme.SourceDir = %q", cfg.Theme.SourceDir)
	}
	if cfg.Theme.Output != "dist/gifteez.zip" {
		t.Errorf("Theme.Output = %q", cfg.Theme.Output)
	}
	if !reflect.DeepEqual(cfg.Theme.Exclude, []string{"node_modules", ".cache"}) {
		t.Errorf("Theme.Exclude = %v", cfg.Theme.Exclude)
	}
	if !cfg.Theme.Manifest {
		t.Error("Theme.Manifest should be true")
	}
	if cfg.Curate.CSVPath != "/data/lampjes.csv" {
		t.Errorf("Curate.CSVPath = %q", cfg.Curate.CSVPath)
	}
	if cfg.Curate.Label != "Bureaulamp" {
		t.Errorf("Curate.Label = %q", cfg.Curate.Label)
	}
}

func TestLoadFromPartialConfigKeepsDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("curate:\n  label: Wekker\n"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.Curate.Label != "Wekker" {
		t.Errorf("Curate.Label = %q, expected Wekker", cfg.Curate.Label)
	}
	if cfg.Curate.CSVPath != DefaultCSVPath {
		t.Errorf("Curate.CSVPath = %q, expected default", cfg.Curate.CSVPath)
	}
	if cfg.Theme.Output != DefaultThemeZip {
		t.Errorf("Theme.Output = %q, expected default", cfg.Theme.Output)
	}
}

func TestLoadFromInvalidYAML(t *testing.T) {
	t.Chdir(t.TempDir())

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("theme: [unclosed"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	_, err := LoadFrom(configPath)
	if err == nil {
		t.Fatal("LoadFrom should fail on invalid YAML")
	}
	if !strings.Contains(err.Error(), "parsing") {
		t.Errorf("error should mention parsing, got: %v", err)
	}
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(EnvThemeDir, "/srv/theme")
	t.Setenv(EnvThemeZip, "/srv/theme.zip")
	t.Setenv(EnvCSVPath, "/srv/products.csv")
	t.Setenv(EnvTitleLabel, "Nachtlampje")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	if cfg.Theme.SourceDir != "/srv/theme" {
		t.Errorf("Theme.SourceDir = %q", cfg.Theme.SourceDir)
	}
	if cfg.Theme.Output != "/srv/theme.zip" {
		t.Errorf("Theme.Output = %q", cfg.Theme.Output)
	}
	if cfg.Curate.CSVPath != "/srv/products.csv" {
		t.Errorf("Curate.CSVPath = %q", cfg.Curate.CSVPath)
	}
	if cfg.Curate.Label != "Nachtlampje" {
		t.Errorf("Curate.Label = %q", cfg.Curate.Label)
	}
}

func TestLoadFromDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	// Registers cleanup so the variable loaded from .env does not leak
	t.Setenv(EnvCSVPath, "")
	if err := os.Unsetenv(EnvCSVPath); err != nil {
		t.Fatalf("unsetenv failed: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(EnvCSVPath+"=/from/dotenv.csv\n"), 0644); err != nil {
		t.Fatalf("Failed to write .env: %v", err)
	}

	cfg, err := LoadFrom(filepath.Join(dir, "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.Curate.CSVPath != "/from/dotenv.csv" {
		t.Errorf("Curate.CSVPath = %q, expected value from .env", cfg.Curate.CSVPath)
	}
}

func TestLoadFromDotEnvDoesNotOverrideProcessEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv(EnvTitleLabel, "FromProcess")

	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(EnvTitleLabel+"=FromFile\n"), 0644); err != nil {
		t.Fatalf("Failed to write .env: %v", err)
	}

	cfg, err := LoadFrom(filepath.Join(dir, "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.Curate.Label != "FromProcess" {
		t.Errorf("Curate.Label = %q, expected process env to win", cfg.Curate.Label)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	t.Chdir(t.TempDir())

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Theme.Manifest = true
	cfg.Curate.Label = "Wekker"

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if !reflect.DeepEqual(loaded, cfg) {
		t.Errorf("loaded = %+v, expected %+v", loaded, cfg)
	}
}

func TestConfigPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path, err := ConfigPath()
	if err != nil {
		t.Fatalf("ConfigPath failed: %v", err)
	}
	if path != filepath.Join(home, ".giftkit", "config.yaml") {
		t.Errorf("ConfigPath = %q", path)
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		input    string
		expected string
	}{
		{"~/themes", filepath.Join(home, "themes")},
		{"~", home},
		{"/abs/path", "/abs/path"},
		{"relative", "relative"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := ExpandPath(tt.input); got != tt.expected {
			t.Errorf("ExpandPath(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}
