// Package mocks provides mock implementations for testing.
package mocks

import (
	"bytes"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jmcdonald/giftkit/internal/ports"
)

// MockFileSystem implements ports.FileSystem for testing.
// Paths are slash-separated and treated literally; no cleaning is applied.
type MockFileSystem struct {
	// Files maps paths to file contents
	Files map[string][]byte
	// Dirs marks paths that exist as directories
	Dirs map[string]bool
	// Errors maps paths to errors (for simulating failures)
	Errors map[string]error
	// Removed records paths passed to Remove that existed
	Removed []string
	// Written records paths passed to WriteFile
	Written []string
}

// NewMockFileSystem creates a new mock filesystem.
func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{
		Files:  make(map[string][]byte),
		Dirs:   make(map[string]bool),
		Errors: make(map[string]error),
	}
}

// AddFile stores content at path and marks every parent as a directory.
func (m *MockFileSystem) AddFile(path string, content []byte) {
	m.Files[path] = content
	for dir := filepath.Dir(path); dir != "." && dir != "/" && !m.Dirs[dir]; dir = filepath.Dir(dir) {
		m.Dirs[dir] = true
	}
}

// AddDir marks path (and its parents) as directories.
func (m *MockFileSystem) AddDir(path string) {
	for dir := path; dir != "." && dir != "/" && !m.Dirs[dir]; dir = filepath.Dir(dir) {
		m.Dirs[dir] = true
	}
}

func notExist(op, path string) error {
	return &fs.PathError{Op: op, Path: path, Err: fs.ErrNotExist}
}

// Stat returns file info for the named file.
func (m *MockFileSystem) Stat(name string) (os.FileInfo, error) {
	if err, ok := m.Errors[name]; ok {
		return nil, err
	}
	if m.Dirs[name] {
		return &mockFileInfo{name: filepath.Base(name), isDir: true, mode: fs.ModeDir | 0755}, nil
	}
	if content, ok := m.Files[name]; ok {
		return &mockFileInfo{name: filepath.Base(name), size: int64(len(content)), mode: 0644}, nil
	}
	return nil, notExist("stat", name)
}

// WriteFile writes data to the named file, creating it if necessary.
func (m *MockFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	if err, ok := m.Errors[name]; ok {
		return err
	}
	m.Files[name] = data
	m.Written = append(m.Written, name)
	return nil
}

// ReadFile reads the named file and returns the contents.
func (m *MockFileSystem) ReadFile(name string) ([]byte, error) {
	if err, ok := m.Errors[name]; ok {
		return nil, err
	}
	if content, ok := m.Files[name]; ok {
		return content, nil
	}
	return nil, notExist("open", name)
}

// Remove removes the named file or empty directory.
func (m *MockFileSystem) Remove(name string) error {
	if err, ok := m.Errors[name]; ok {
		return err
	}
	if _, ok := m.Files[name]; ok {
		delete(m.Files, name)
		m.Removed = append(m.Removed, name)
		return nil
	}
	if m.Dirs[name] {
		delete(m.Dirs, name)
		m.Removed = append(m.Removed, name)
		return nil
	}
	return notExist("remove", name)
}

// Open opens the named file for reading.
func (m *MockFileSystem) Open(name string) (fs.File, error) {
	if err, ok := m.Errors[name]; ok {
		return nil, err
	}
	content, ok := m.Files[name]
	if !ok {
		return nil, notExist("open", name)
	}
	return &mockFile{name: filepath.Base(name), reader: bytes.NewReader(content), size: int64(len(content))}, nil
}

// WalkDir walks the stored tree rooted at root in lexical order,
// honouring fs.SkipDir and fs.SkipAll like filepath.WalkDir.
func (m *MockFileSystem) WalkDir(root string, fn fs.WalkDirFunc) error {
	info, err := m.Stat(root)
	if err != nil {
		err = fn(root, nil, err)
		if err == fs.SkipDir || err == fs.SkipAll {
			return nil
		}
		return err
	}

	var paths []string
	prefix := strings.TrimSuffix(root, "/") + "/"
	for p := range m.Files {
		if strings.HasPrefix(p, prefix) {
			paths = append(paths, p)
		}
	}
	for p := range m.Dirs {
		if strings.HasPrefix(p, prefix) {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)

	if err := fn(root, fs.FileInfoToDirEntry(info), nil); err != nil {
		if err == fs.SkipDir || err == fs.SkipAll {
			return nil
		}
		return err
	}

	var skipped []string
	for _, p := range paths {
		if hasAnyPrefix(p, skipped) {
			continue
		}
		entryInfo, statErr := m.Stat(p)
		var entry fs.DirEntry
		if statErr == nil {
			entry = fs.FileInfoToDirEntry(entryInfo)
		}
		if err := fn(p, entry, statErr); err != nil {
			switch {
			case err == fs.SkipAll:
				return nil
			case err == fs.SkipDir && entry != nil && entry.IsDir():
				skipped = append(skipped, p+"/")
			case err == fs.SkipDir:
				// SkipDir on a file skips the rest of its parent directory
				skipped = append(skipped, filepath.Dir(p)+"/")
			default:
				return err
			}
		}
	}
	return nil
}

func hasAnyPrefix(p string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}

// mockFileInfo implements os.FileInfo for testing.
type mockFileInfo struct {
	name    string
	size    int64
	mode    os.FileMode
	modTime time.Time
	isDir   bool
}

func (fi *mockFileInfo) Name() string       { return fi.name }
func (fi *mockFileInfo) Size() int64        { return fi.size }
func (fi *mockFileInfo) Mode() os.FileMode  { return fi.mode }
func (fi *mockFileInfo) ModTime() time.Time { return fi.modTime }
func (fi *mockFileInfo) IsDir() bool        { return fi.isDir }
func (fi *mockFileInfo) Sys() interface{}   { return nil }

// mockFile implements fs.File for testing.
type mockFile struct {
	name   string
	reader *bytes.Reader
	size   int64
}

func (f *mockFile) Stat() (fs.FileInfo, error) {
	return &mockFileInfo{name: f.name, size: f.size, mode: 0644}, nil
}

func (f *mockFile) Read(p []byte) (int, error) {
	return f.reader.Read(p)
}

func (f *mockFile) Close() error { return nil }

// Compile-time checks.
var (
	_ ports.FileSystem = (*MockFileSystem)(nil)
	_ io.Reader        = (*mockFile)(nil)
)
