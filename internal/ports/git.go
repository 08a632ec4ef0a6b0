package ports

import "errors"

// ErrNotWorkTree is returned by GitClient.Head for directories outside any git work tree.
var ErrNotWorkTree = errors.New("not a git work tree")

// GitClient reads revision info for the directory a theme is built from.
type GitClient interface {
	// Head returns the commit checked out in the work tree containing dir.
	Head(dir string) (string, error)
}
