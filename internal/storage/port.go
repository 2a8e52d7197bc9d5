package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DocumentName is the fixed logical name of the configuration document.
const DocumentName = "dowel.json"

// Port reads and writes one logical text document.
type Port interface {
	Exists(ctx context.Context) (bool, error)
	ReadText(ctx context.Context) (string, error)
	WriteText(ctx context.Context, text string) error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Open returns the port for the named backend rooted at dir.
// An empty dir means the user's home directory.
func Open(backend, dir string) (Port, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		dir = home
	}

	switch backend {
	case "", BackendFile:
		return NewFile(dir), nil
	case BackendSQLite:
		return OpenSQLite(filepath.Join(dir, "dowel.db"))
	case BackendMemory:
		return NewMemory(""), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", backend)
	}
}
