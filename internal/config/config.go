package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/jmcdonald/giftkit/internal/pathfilter"
)

// Defaults used when no config file or override is present.
const (
	DefaultThemeDir   = "gifteez-wp-theme"
	DefaultThemeZip   = "gifteez-wp-theme.zip"
	DefaultCSVPath    = "/home/kevin/Gifteez website/gifteez overzicht/producten sheets/Nacht_leeslampjes_gifteez_amazon_products_template - Sheet1.csv"
	DefaultTitleLabel = "Leeslampje"
)

// Environment variables that override the config file.
const (
	EnvThemeDir   = "GIFTKIT_THEME_DIR"
	EnvThemeZip   = "GIFTKIT_THEME_ZIP"
	EnvCSVPath    = "GIFTKIT_CSV"
	EnvTitleLabel = "GIFTKIT_TITLE_LABEL"
)

// ThemeConfig configures the theme archiver.
type ThemeConfig struct {
	SourceDir string   `yaml:"source_dir"`
	Output    string   `yaml:"output"`
	Exclude   []string `yaml:"exclude"`
	Manifest  bool     `yaml:"manifest"`
}

// CurateConfig configures the catalog converter.
type CurateConfig struct {
	CSVPath string `yaml:"csv_path"`
	Label   string `yaml:"label"`
}

type Config struct {
	Theme  ThemeConfig  `yaml:"theme"`
	Curate CurateConfig `yaml:"curate"`
}

func DefaultConfig() *Config {
	return &Config{
		Theme: ThemeConfig{
			SourceDir: DefaultThemeDir,
			Output:    DefaultThemeZip,
			Exclude:   append([]string(nil), pathfilter.DefaultExclude...),
		},
		Curate: CurateConfig{
			CSVPath: DefaultCSVPath,
			Label:   DefaultTitleLabel,
		},
	}
}

// ConfigPath returns ~/.giftkit/config.yaml.
func ConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".giftkit", "config.yaml"), nil
}

// Load reads the config from the default path.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the config at path, falling back to defaults when the file
// is missing, then applies environment overrides. A .env file in the working
// directory is loaded first; variables already set in the process win.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// Use defaults
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	cfg.applyEnv()

	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvThemeDir); v != "" {
		c.Theme.SourceDir = v
	}
	if v := os.Getenv(EnvThemeZip); v != "" {
		c.Theme.Output = v
	}
	if v := os.Getenv(EnvCSVPath); v != "" {
		c.Curate.CSVPath = v
	}
	if v := os.Getenv(EnvTitleLabel); v != "" {
		c.Curate.Label = v
	}
}

// SaveTo writes the config as YAML, creating parent directories.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ExpandPath expands ~ to home directory
func ExpandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return path // Return unexpanded if home unavailable
		}
		return filepath.Join(home, path[1:])
	}
	return path
}
