// Package cli provides the command-line interface with injectable io.Writer for testing.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jmcdonald/giftkit/internal/catalog"
	"github.com/jmcdonald/giftkit/internal/config"
	"github.com/jmcdonald/giftkit/internal/logging"
	"github.com/jmcdonald/giftkit/internal/themezip"
	"github.com/jmcdonald/giftkit/internal/tui"
)

// ConfigService provides configuration loading for the CLI.
type ConfigService interface {
	// Load reads the config at path, or the default location when path is empty.
	Load(path string) (*config.Config, error)
}

// ThemeService provides theme archive operations for the CLI.
type ThemeService interface {
	Build(opts themezip.Options) (*themezip.Result, error)
	Verify(opts themezip.Options, withDiff bool) (*themezip.Report, error)
	List(opts themezip.Options) ([]themezip.Entry, error)
}

// CatalogService provides product sheet conversion for the CLI.
type CatalogService interface {
	Convert(csvPath, label string, out, errOut io.Writer) (catalog.Summary, error)
	Collect(csvPath, label string) (*catalog.Collection, error)
}

// CLI represents the command-line interface with injectable dependencies.
type CLI struct {
	Out     io.Writer // Standard output
	Err     io.Writer // Standard error
	Version string    // Application version

	// Injectable dependencies (nil means use defaults)
	ConfigSvc  ConfigService
	ThemeSvc   ThemeService
	CatalogSvc CatalogService

	// Preview runs the interactive product preview (defaults to tui.Run)
	Preview func(source tui.Source, csvPath, label string) error

	// Set while a command runs
	configPath string
	verbose    bool
	cfg        *config.Config
	logger     *zap.Logger

	// Color functions (can be disabled for testing)
	green  func(a ...interface{}) string
	yellow func(a ...interface{}) string
	cyan   func(a ...interface{}) string
	gray   func(a ...interface{}) string
	red    func(a ...interface{}) string
}

// New creates a new CLI with default settings.
func New(version string) *CLI {
	return &CLI{
		Out:     os.Stdout,
		Err:     os.Stderr,
		Version: version,
		Preview: tui.Run,
		logger:  zap.NewNop(),
		green:   color.New(color.FgGreen, color.Bold).SprintFunc(),
		yellow:  color.New(color.FgYellow).SprintFunc(),
		cyan:    color.New(color.FgCyan).SprintFunc(),
		gray:    color.New(color.FgHiBlack).SprintFunc(),
		red:     color.New(color.FgRed).SprintFunc(),
	}
}

// NewForTesting creates a CLI configured for testing (no colors, captured output).
func NewForTesting(out, errOut io.Writer) *CLI {
	noColor := func(a ...interface{}) string { return fmt.Sprint(a...) }
	return &CLI{
		Out:     out,
		Err:     errOut,
		Version: "test",
		logger:  zap.NewNop(),
		green:   noColor,
		yellow:  noColor,
		cyan:    noColor,
		gray:    noColor,
		red:     noColor,
	}
}

// defaultConfigService wraps the config package functions.
type defaultConfigService struct{}

func (d *defaultConfigService) Load(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFrom(config.ExpandPath(path))
}

// Helper methods to get the service or default
func (c *CLI) configSvc() ConfigService {
	if c.ConfigSvc != nil {
		return c.ConfigSvc
	}
	return &defaultConfigService{}
}

func (c *CLI) themeSvc() ThemeService {
	if c.ThemeSvc != nil {
		return c.ThemeSvc
	}
	return themezip.NewDefaultService(c.logger)
}

func (c *CLI) catalogSvc() CatalogService {
	if c.CatalogSvc != nil {
		return c.CatalogSvc
	}
	return catalog.NewDefaultService(c.logger)
}

// Execute runs cmd with args and returns the process exit code.
// Errors are reported on Err as "Error: <msg>".
func (c *CLI) Execute(cmd *cobra.Command, args []string) int {
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(c.Err, "Error: %v\n", err)
		return 1
	}
	return 0
}

// newRoot returns a root command with the flags and hooks both tools share.
func (c *CLI) newRoot(use, short, long string) *cobra.Command {
	root := &cobra.Command{
		Use:               use,
		Short:             short,
		Long:              long,
		Version:           c.Version,
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = c.logger.Sync()
		},
	}
	root.SetOut(c.Out)
	root.SetErr(c.Err)

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.giftkit/config.yaml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "debug logging on stderr")
	return root
}

// setup initializes the logger and loads the configuration.
func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	logger, err := logging.New(c.verbose)
	if err != nil {
		return err
	}
	c.logger = logger

	cfg, err := c.configSvc().Load(c.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	c.cfg = cfg

	c.logger.Debug("loaded config",
		zap.String("command", cmd.CommandPath()),
		zap.String("config", c.configPath))
	return nil
}
