package mocks

import (
	"fmt"

	"github.com/jmcdonald/giftkit/internal/ports"
)

// MockArchiver implements ports.Archiver for testing.
type MockArchiver struct {
	// CreateCalls records calls to Create
	CreateCalls []CreateCall
	// ListResults maps zip paths to file listings
	ListResults map[string]map[string]ports.FileInfo
	// ReadResults maps "zipPath:filePath" to content
	ReadResults map[string]string
	// Errors maps method calls to errors
	Errors map[string]error
	// CreateResult is the default file count to return
	CreateResult int
	// FS, when set, receives a placeholder archive on Create
	FS *MockFileSystem
}

// CreateCall records parameters of a Create call.
type CreateCall struct {
	DestPath  string
	SourceDir string
	Exclude   []string
}

// NewMockArchiver creates a new mock archiver.
func NewMockArchiver() *MockArchiver {
	return &MockArchiver{
		ListResults:  make(map[string]map[string]ports.FileInfo),
		ReadResults:  make(map[string]string),
		Errors:       make(map[string]error),
		CreateResult: 1, // Default to 1 file
	}
}

// Create records the call and returns CreateResult.
func (m *MockArchiver) Create(destPath, sourceDir string, exclude []string) (int, error) {
	m.CreateCalls = append(m.CreateCalls, CreateCall{
		DestPath:  destPath,
		SourceDir: sourceDir,
		Exclude:   exclude,
	})
	if err, ok := m.Errors["Create"]; ok {
		return 0, err
	}
	if m.FS != nil {
		m.FS.AddFile(destPath, []byte(fmt.Sprintf("zip:%s", sourceDir)))
	}
	return m.CreateResult, nil
}

// List returns the listing registered for zipPath.
func (m *MockArchiver) List(zipPath string) (map[string]ports.FileInfo, error) {
	if err, ok := m.Errors["List"]; ok {
		return nil, err
	}
	if result, ok := m.ListResults[zipPath]; ok {
		return result, nil
	}
	return make(map[string]ports.FileInfo), nil
}

// ReadFile returns the content registered for "zipPath:filePath".
func (m *MockArchiver) ReadFile(zipPath, filePath string) (string, error) {
	key := zipPath + ":" + filePath
	if err, ok := m.Errors["ReadFile"]; ok {
		return "", err
	}
	if content, ok := m.ReadResults[key]; ok {
		return content, nil
	}
	return "", fmt.Errorf("file not found in archive: %s", filePath)
}

// Compile-time check that MockArchiver implements ports.Archiver.
var _ ports.Archiver = (*MockArchiver)(nil)
