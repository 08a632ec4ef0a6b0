package ports

// Archiver abstracts zip archive operations for testability.
// Production code uses ZipArchiver adapter; tests use MockArchiver.
type Archiver interface {
	// Create creates a zip archive of sourceDir at destPath.
	// Returns the number of files archived.
	// exclude lists directory names (or glob patterns) that are never descended into.
	Create(destPath, sourceDir string, exclude []string) (fileCount int, err error)

	// List returns a map of archive-relative paths to their info.
	List(zipPath string) (map[string]FileInfo, error)

	// ReadFile reads the contents of a file from inside a zip archive.
	ReadFile(zipPath, filePath string) (string, error)
}

// FileInfo contains metadata about a file in an archive.
type FileInfo struct {
	Size  int64
	CRC32 uint32
}
