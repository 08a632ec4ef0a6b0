package themezip

import (
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"io/fs"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/jmcdonald/giftkit/internal/manifest"
	"github.com/jmcdonald/giftkit/internal/pathfilter"
	"github.com/jmcdonald/giftkit/internal/ports"
)

// Change statuses, as seen from the archive.
const (
	Added    = 'A' // in the source, missing from the archive
	Modified = 'M'
	Deleted  = 'D' // in the archive, gone from the source
)

// FileChange is one path that differs between the archive and the source.
type FileChange struct {
	Path        string
	Status      rune
	ArchiveSize int64
	SourceSize  int64
}

// ManifestCheck compares the recorded build checksum with the archive on disk.
type ManifestCheck struct {
	Path     string
	Expected string
	Actual   string
}

// OK reports whether the checksums match.
func (m ManifestCheck) OK() bool {
	return m.Expected == m.Actual
}

// Report is the outcome of Verify.
type Report struct {
	Archive  string
	Source   string
	Entries  int // files in the archive
	Files    int // files the source would contribute
	Changes  []FileChange
	Added    int
	Modified int
	Deleted  int
	Manifest *ManifestCheck // nil when no manifest exists
	Diffs    []FileDiff     // only filled when requested
}

// Err returns ErrMismatch when the archive is out of date or its checksum is wrong.
func (r *Report) Err() error {
	if len(r.Changes) > 0 {
		return fmt.Errorf("%w: %d added, %d modified, %d deleted", ErrMismatch, r.Added, r.Modified, r.Deleted)
	}
	if r.Manifest != nil && !r.Manifest.OK() {
		return fmt.Errorf("%w: checksum %s, manifest records %s", ErrMismatch, r.Manifest.Actual, r.Manifest.Expected)
	}
	return nil
}

// Verify walks opts.SourceDir with the same rules Build uses and compares the
// result with the archive at opts.Output by size and CRC32. With withDiff set,
// a line diff is attached for every modified entry.
func (s *Service) Verify(opts Options, withDiff bool) (*Report, error) {
	if err := s.checkSource(opts.SourceDir); err != nil {
		return nil, err
	}

	archived, err := s.archiver.List(opts.Output)
	if err != nil {
		return nil, fmt.Errorf("reading archive: %w", err)
	}

	source, err := s.scanSource(opts)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Archive: opts.Output,
		Source:  opts.SourceDir,
		Entries: len(archived),
		Files:   len(source),
	}
	report.Changes = compare(archived, source)
	for _, c := range report.Changes {
		switch c.Status {
		case Added:
			report.Added++
		case Modified:
			report.Modified++
		case Deleted:
			report.Deleted++
		}
	}

	if err := s.checkManifest(opts, report); err != nil {
		return nil, err
	}

	if withDiff {
		for _, c := range report.Changes {
			if c.Status != Modified {
				continue
			}
			report.Diffs = append(report.Diffs, s.fileDiff(opts, c.Path))
		}
	}

	s.logger.Debug("verified archive",
		zap.String("archive", report.Archive),
		zap.Int("entries", report.Entries),
		zap.Int("files", report.Files),
		zap.Int("changes", len(report.Changes)))

	return report, nil
}

// scanSource returns size and CRC32 for every file Build would archive.
func (s *Service) scanSource(opts Options) (map[string]ports.FileInfo, error) {
	absOutput, err := filepath.Abs(opts.Output)
	if err != nil {
		return nil, fmt.Errorf("resolving archive path: %w", err)
	}

	files := make(map[string]ports.FileInfo)
	err = s.fs.WalkDir(opts.SourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != opts.SourceDir && pathfilter.Excluded(d.Name(), opts.Exclude) {
				return fs.SkipDir
			}
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			info, err := s.fs.Stat(path)
			if err != nil {
				return err
			}
			if !info.Mode().IsRegular() {
				return nil
			}
		} else if !d.Type().IsRegular() {
			return nil
		}

		if abs, err := filepath.Abs(path); err == nil && abs == absOutput {
			return nil
		}

		rel, err := filepath.Rel(opts.SourceDir, path)
		if err != nil {
			return err
		}

		info, err := s.fileCRC(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", rel, err)
		}
		files[filepath.ToSlash(rel)] = info
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning source: %w", err)
	}
	return files, nil
}

func (s *Service) fileCRC(path string) (ports.FileInfo, error) {
	f, err := s.fs.Open(path)
	if err != nil {
		return ports.FileInfo{}, err
	}
	defer func() { _ = f.Close() }()

	h := crc32.NewIEEE()
	n, err := io.Copy(h, f)
	if err != nil {
		return ports.FileInfo{}, err
	}
	return ports.FileInfo{Size: n, CRC32: h.Sum32()}, nil
}

// compare lists every path whose presence or content differs, ordered M, A, D then by path.
func compare(archived, source map[string]ports.FileInfo) []FileChange {
	var changes []FileChange

	for path, a := range archived {
		src, ok := source[path]
		switch {
		case !ok:
			changes = append(changes, FileChange{Path: path, Status: Deleted, ArchiveSize: a.Size})
		case a.CRC32 != src.CRC32 || a.Size != src.Size:
			changes = append(changes, FileChange{Path: path, Status: Modified, ArchiveSize: a.Size, SourceSize: src.Size})
		}
	}
	for path, src := range source {
		if _, ok := archived[path]; !ok {
			changes = append(changes, FileChange{Path: path, Status: Added, SourceSize: src.Size})
		}
	}

	order := map[rune]int{Modified: 0, Added: 1, Deleted: 2}
	sort.Slice(changes, func(i, j int) bool {
		if changes[i].Status != changes[j].Status {
			return order[changes[i].Status] < order[changes[j].Status]
		}
		return changes[i].Path < changes[j].Path
	})
	return changes
}

func (s *Service) checkManifest(opts Options, report *Report) error {
	path := manifest.PathFor(opts.Output)
	data, err := s.fs.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading manifest: %w", err)
	}

	m, err := manifest.Parse(data)
	if err != nil {
		return fmt.Errorf("parsing manifest %s: %w", path, err)
	}

	sum, err := s.checksum(opts.Output)
	if err != nil {
		return fmt.Errorf("computing checksum: %w", err)
	}

	report.Manifest = &ManifestCheck{Path: path, Expected: m.SHA256, Actual: sum}
	return nil
}

// fileDiff diffs the archived copy of name against the file in the source.
// Read failures are recorded on the result rather than aborting the report.
func (s *Service) fileDiff(opts Options, name string) FileDiff {
	result := FileDiff{Path: name}

	archived, err := s.archiver.ReadFile(opts.Output, name)
	if err != nil {
		result.Error = fmt.Sprintf("reading archive copy: %v", err)
		return result
	}

	current, err := s.fs.ReadFile(filepath.Join(opts.SourceDir, filepath.FromSlash(name)))
	if err != nil {
		result.Error = fmt.Sprintf("reading source copy: %v", err)
		return result
	}

	if IsBinaryContent(archived) || IsBinaryContent(string(current)) {
		result.IsBinary = true
		return result
	}

	result.Lines = LineDiff(archived, string(current))
	return result
}
