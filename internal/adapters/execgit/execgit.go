// Package execgit provides a git client adapter using exec.Command.
package execgit

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/jmcdonald/giftkit/internal/ports"
)

// Client implements ports.GitClient by shelling out to git.
type Client struct{}

// New creates a new git client adapter.
func New() *Client {
	return &Client{}
}

// Head runs git rev-parse in dir. Directories outside a work tree give
// ports.ErrNotWorkTree; a missing git binary or an unborn branch is an error.
func (g *Client) Head(dir string) (string, error) {
	cmd := exec.Command("git", "rev-parse", "--verify", "HEAD")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && bytes.Contains(exitErr.Stderr, []byte("not a git repository")) {
			return "", ports.ErrNotWorkTree
		}
		return "", fmt.Errorf("git rev-parse in %s: %w", dir, err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Compile-time check that Client implements ports.GitClient.
var _ ports.GitClient = (*Client)(nil)
