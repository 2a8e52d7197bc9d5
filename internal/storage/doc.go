// Package storage persists the single logical configuration document.
// Callers only see the Port interface; the file, SQLite and in-memory
// backends are interchangeable.
package storage
