package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"time"
)

// Manifest describes one theme archive build. It is written next to the
// archive as <archive>.manifest.json when manifests are enabled.
type Manifest struct {
	Archive   string    `json:"archive"`
	Source    string    `json:"source"`
	SHA256    string    `json:"sha256"`
	SizeBytes int64     `json:"size_bytes"`
	FileCount int       `json:"file_count"`
	Excluded  []string  `json:"excluded"`
	GitHead   string    `json:"git_head,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// PathFor returns the manifest path for an archive.
func PathFor(archivePath string) string {
	return archivePath + ".manifest.json"
}

// Parse decodes a manifest.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Marshal encodes the manifest as indented JSON with a trailing newline.
func (m *Manifest) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// ComputeSHA256 calculates the SHA256 hash of everything read from r.
func ComputeSHA256(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
