package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Archive copies the current document into dir/archive with a timestamped
// name and returns the path written. Nothing is archived when the document
// does not exist yet; the returned path is then empty.
func Archive(ctx context.Context, port Port, dir string) (string, error) {
	exists, err := port.Exists(ctx)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", nil
	}

	text, err := port.ReadText(ctx)
	if err != nil {
		return "", err
	}

	archiveDir := filepath.Join(dir, "archive")
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	base := strings.TrimSuffix(DocumentName, filepath.Ext(DocumentName))
	archivePath := filepath.Join(archiveDir, fmt.Sprintf("%s-%s.json", base, time.Now().Format("20060102-150405")))

	// Same second twice: fall back to microseconds.
	if _, err := os.Stat(archivePath); err == nil {
		archivePath = filepath.Join(archiveDir, fmt.Sprintf("%s-%s.json", base, time.Now().Format("20060102-150405.000000")))
	}

	if err := os.WriteFile(archivePath, []byte(text), 0600); err != nil {
		return "", fmt.Errorf("failed to archive document: %w", err)
	}
	return archivePath, nil
}
