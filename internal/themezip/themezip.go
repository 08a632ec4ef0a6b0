// Package themezip packages a WordPress theme directory into a zip archive and
// checks existing archives against the tree they were built from.
package themezip

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/jmcdonald/giftkit/internal/adapters/execgit"
	"github.com/jmcdonald/giftkit/internal/adapters/osfs"
	"github.com/jmcdonald/giftkit/internal/adapters/ziparchiver"
	"github.com/jmcdonald/giftkit/internal/config"
	"github.com/jmcdonald/giftkit/internal/manifest"
	"github.com/jmcdonald/giftkit/internal/ports"
)

var (
	// ErrSourceNotFound is returned when the theme directory is missing or is not a directory.
	ErrSourceNotFound = errors.New("source directory not found")
	// ErrMismatch is returned by Report.Err when an archive no longer matches its source.
	ErrMismatch = errors.New("archive does not match source")
)

// Options configures a build, verify or list run.
type Options struct {
	SourceDir string
	Output    string
	Exclude   []string
	Manifest  bool
}

// OptionsFrom builds Options from the theme section of cfg, expanding ~.
func OptionsFrom(cfg *config.Config) Options {
	return Options{
		SourceDir: config.ExpandPath(cfg.Theme.SourceDir),
		Output:    config.ExpandPath(cfg.Theme.Output),
		Exclude:   cfg.Theme.Exclude,
		Manifest:  cfg.Theme.Manifest,
	}
}

// Result describes a finished build.
type Result struct {
	Output    string
	FileCount int
	Size      int64
	Manifest  string // empty when no manifest was written
	GitHead   string
}

// Entry is one file stored in an archive.
type Entry struct {
	Name string
	Size int64
}

// Service provides archive operations with injected dependencies.
type Service struct {
	fs       ports.FileSystem
	archiver ports.Archiver
	git      ports.GitClient
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates a new service with the given dependencies.
// A nil logger discards debug output.
func NewService(fs ports.FileSystem, archiver ports.Archiver, git ports.GitClient, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		fs:       fs,
		archiver: archiver,
		git:      git,
		logger:   logger,
		now:      time.Now,
	}
}

// NewDefaultService creates a service with real production dependencies.
func NewDefaultService(logger *zap.Logger) *Service {
	return NewService(
		osfs.New(),
		ziparchiver.New(logger),
		execgit.New(),
		logger,
	)
}

// Build replaces opts.Output with a fresh archive of opts.SourceDir.
// The stale archive and its manifest are removed before the source is checked,
// so a failed run never leaves either behind.
func (s *Service) Build(opts Options) (*Result, error) {
	if err := s.fs.Remove(opts.Output); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("removing old archive: %w", err)
	}
	if err := s.fs.Remove(manifest.PathFor(opts.Output)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("removing old manifest: %w", err)
	}

	if err := s.checkSource(opts.SourceDir); err != nil {
		return nil, err
	}

	fileCount, err := s.archiver.Create(opts.Output, opts.SourceDir, opts.Exclude)
	if err != nil {
		return nil, fmt.Errorf("creating archive: %w", err)
	}

	info, err := s.fs.Stat(opts.Output)
	if err != nil {
		return nil, fmt.Errorf("stat archive: %w", err)
	}

	result := &Result{
		Output:    opts.Output,
		FileCount: fileCount,
		Size:      info.Size(),
	}

	if opts.Manifest {
		if err := s.writeManifest(opts, result); err != nil {
			return nil, err
		}
	}

	s.logger.Debug("built archive",
		zap.String("output", result.Output),
		zap.Int("files", result.FileCount),
		zap.String("size", FormatSize(result.Size)),
		zap.String("manifest", result.Manifest))

	return result, nil
}

func (s *Service) checkSource(dir string) error {
	info, err := s.fs.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrSourceNotFound, dir)
	}
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrSourceNotFound, dir)
	}
	return nil
}

func (s *Service) checksum(path string) (string, error) {
	f, err := s.fs.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	return manifest.ComputeSHA256(f)
}

func (s *Service) writeManifest(opts Options, result *Result) error {
	sum, err := s.checksum(opts.Output)
	if err != nil {
		return fmt.Errorf("computing checksum: %w", err)
	}

	head, err := s.git.Head(opts.SourceDir)
	switch {
	case errors.Is(err, ports.ErrNotWorkTree):
		// unversioned theme
	case err != nil:
		s.logger.Debug("git head unavailable", zap.Error(err))
	default:
		result.GitHead = head
	}

	m := &manifest.Manifest{
		Archive:   opts.Output,
		Source:    opts.SourceDir,
		SHA256:    sum,
		SizeBytes: result.Size,
		FileCount: result.FileCount,
		Excluded:  opts.Exclude,
		GitHead:   result.GitHead,
		CreatedAt: s.now().UTC(),
	}

	data, err := m.Marshal()
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}

	path := manifest.PathFor(opts.Output)
	if err := s.fs.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	result.Manifest = path
	return nil
}

// List returns the files stored in opts.Output sorted by name.
func (s *Service) List(opts Options) ([]Entry, error) {
	files, err := s.archiver.List(opts.Output)
	if err != nil {
		return nil, fmt.Errorf("reading archive: %w", err)
	}

	entries := make([]Entry, 0, len(files))
	for name, info := range files {
		entries = append(entries, Entry{Name: name, Size: info.Size})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return entries, nil
}

// FormatSize formats bytes as human-readable
func FormatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
