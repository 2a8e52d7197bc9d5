package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// File stores the document as DocumentName inside a base directory.
type File struct {
	dir string
}

// NewFile returns a file-backed port under dir.
func NewFile(dir string) *File {
	return &File{dir: dir}
}

// Path returns the absolute location of the document.
func (f *File) Path() string {
	return filepath.Join(f.dir, DocumentName)
}

// Exists reports whether the document file is present.
func (f *File) Exists(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	_, err := os.Stat(f.Path())
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat %s: %w", f.Path(), err)
}

// ReadText returns the full document text.
func (f *File) ReadText(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(f.Path())
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", f.Path(), err)
	}
	return string(data), nil
}

// WriteText replaces the document. The write goes to a temp file in the
// same directory first so readers never observe a partial document.
func (f *File) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(f.dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", f.dir, err)
	}

	tmp, err := os.CreateTemp(f.dir, DocumentName+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0600); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpName, f.Path()); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", f.Path(), err)
	}
	return nil
}
