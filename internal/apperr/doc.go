// Package apperr defines the error taxonomy shared by the translation,
// AI and configuration layers. Every caller-facing failure carries a Kind
// so the UI can pick the right message without parsing free text.
package apperr
