// Package filestore stores uploaded slip images and hands back a URL the
// API can embed in transactions.
package filestore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store persists an uploaded file under bucket/name and returns its URL.
type Store interface {
	Upload(data []byte, bucket, name string) (string, error)
}

// Local writes files under a root directory and serves them from baseURL.
type Local struct {
	root    string
	baseURL string
}

// NewLocal builds a disk-backed store. Files land under root/<bucket>/ and
// resolve as baseURL/<bucket>/<file>.
func NewLocal(root, baseURL string) (*Local, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload root: %w", err)
	}
	return &Local{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Upload writes data to a fresh file. The stored name keeps the original
// extension but not the original name, so uploads cannot collide or traverse.
func (l *Local) Upload(data []byte, bucket, name string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty upload")
	}
	dir := filepath.Join(l.root, filepath.Base(bucket))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create bucket dir: %w", err)
	}
	ext := filepath.Ext(filepath.Base(name))
	stored := uuid.New().String() + ext
	if err := os.WriteFile(filepath.Join(dir, stored), data, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return l.baseURL + "/" + filepath.Base(bucket) + "/" + stored, nil
}
