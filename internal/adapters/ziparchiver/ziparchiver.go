// Package ziparchiver provides an archiver adapter using the archive/zip package.
package ziparchiver

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/jmcdonald/giftkit/internal/pathfilter"
	"github.com/jmcdonald/giftkit/internal/ports"
)

// ZipArchiver implements ports.Archiver using archive/zip.
type ZipArchiver struct {
	logger *zap.Logger
}

// New creates a new ZipArchiver adapter. A nil logger discards debug output.
func New(logger *zap.Logger) *ZipArchiver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZipArchiver{logger: logger}
}

// Create creates a zip archive of sourceDir at destPath.
// Entry names are relative to sourceDir, so the archive has the directory's
// contents at its root. Excluded directories are pruned before descending.
// Any read or write failure aborts the walk; the partial archive is left on disk.
func (a *ZipArchiver) Create(destPath, sourceDir string, exclude []string) (int, error) {
	zipFile, err := os.Create(destPath)
	if err != nil {
		return 0, err
	}

	// The archive must not swallow itself when written inside the source tree.
	absDest, err := filepath.Abs(destPath)
	if err != nil {
		_ = zipFile.Close()
		return 0, fmt.Errorf("resolving archive path: %w", err)
	}

	w := zip.NewWriter(zipFile)
	fileCount := 0

	walkErr := filepath.WalkDir(sourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != sourceDir && pathfilter.Excluded(d.Name(), exclude) {
				a.logger.Debug("pruned directory", zap.String("path", path))
				return filepath.SkipDir
			}
			return nil // Directories are created implicitly
		}

		info, err := d.Info()
		if d.Type()&fs.ModeSymlink != 0 {
			info, err = os.Stat(path)
		}
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil // Symlinked directories are not followed
		}

		if absPath, err := filepath.Abs(path); err == nil && absPath == absDest {
			return nil
		}

		relPath, err := filepath.Rel(sourceDir, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(relPath)

		if err := addFile(w, path, name, info); err != nil {
			return fmt.Errorf("adding %s: %w", name, err)
		}

		fileCount++
		a.logger.Debug("archived file", zap.String("name", name), zap.Int64("size", info.Size()))
		return nil
	})

	// Close zip writer first to flush data
	if closeErr := w.Close(); closeErr != nil {
		_ = zipFile.Close() // Best effort cleanup on error path
		return 0, fmt.Errorf("closing zip writer: %w", closeErr)
	}

	// Then close the file
	if closeErr := zipFile.Close(); closeErr != nil {
		return 0, fmt.Errorf("closing zip file: %w", closeErr)
	}

	return fileCount, walkErr
}

// addFile writes one deflated entry for the file at path.
func addFile(w *zip.Writer, path, name string, info fs.FileInfo) error {
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = name
	header.Method = zip.Deflate

	writer, err := w.CreateHeader(header)
	if err != nil {
		return err
	}

	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	_, err = io.Copy(writer, file)
	return err
}

// List returns a map of archive-relative paths to their info.
func (a *ZipArchiver) List(zipPath string) (map[string]ports.FileInfo, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	files := make(map[string]ports.FileInfo)
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}

		// Safe conversion: check for overflow before uint64 -> int64
		size := int64(0)
		if f.UncompressedSize64 <= math.MaxInt64 {
			size = int64(f.UncompressedSize64)
		}
		files[f.Name] = ports.FileInfo{
			Size:  size,
			CRC32: f.CRC32,
		}
	}

	return files, nil
}

// ReadFile reads the contents of a file from inside a zip archive.
func (a *ZipArchiver) ReadFile(zipPath, filePath string) (string, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return "", err
	}
	defer func() { _ = r.Close() }()

	for _, f := range r.File {
		if f.Name != filePath {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		defer func() { _ = rc.Close() }()

		content, err := io.ReadAll(rc)
		if err != nil {
			return "", err
		}
		return string(content), nil
	}

	return "", fmt.Errorf("file not found in archive: %s", filePath)
}

// Compile-time check that ZipArchiver implements ports.Archiver.
var _ ports.Archiver = (*ZipArchiver)(nil)
