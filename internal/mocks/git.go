package mocks

import (
	"github.com/jmcdonald/giftkit/internal/ports"
)

// MockGitClient implements ports.GitClient for testing.
type MockGitClient struct {
	// Heads maps work tree directories to their checked out commit
	Heads map[string]string
	// Errors maps directories to the error Head should return
	Errors map[string]error
	// Calls records every directory passed to Head
	Calls []string
}

// NewMockGitClient creates a mock with no work trees.
func NewMockGitClient() *MockGitClient {
	return &MockGitClient{
		Heads:  make(map[string]string),
		Errors: make(map[string]error),
	}
}

// Head returns the configured commit, or ports.ErrNotWorkTree for unknown dirs.
func (m *MockGitClient) Head(dir string) (string, error) {
	m.Calls = append(m.Calls, dir)
	if err, ok := m.Errors[dir]; ok {
		return "", err
	}
	if head, ok := m.Heads[dir]; ok {
		return head, nil
	}
	return "", ports.ErrNotWorkTree
}

// Compile-time check that MockGitClient implements ports.GitClient.
var _ ports.GitClient = (*MockGitClient)(nil)
