// Package batch reads batch translation files for dowel translate --batch.
package batch

import (
	"fmt"
	"os"
	"strings"
)

// Entry is one text to translate
type Entry struct {
	Text string
	// Target overrides the command's target language when set
	Target string
}

// ReadBatchFile reads one text per line. Supported formats:
//   - plain text: "good morning" (translated into the default target)
//   - with target: "good morning = de" (translated into German)
//
// Empty lines and lines starting with '#' are skipped. The part after the
// last '=' is only taken as a target when it looks like a language code,
// so texts that contain '=' themselves stay intact.
func ReadBatchFile(filename string) ([]Entry, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}

	var entries []Entry
	for _, line := range splitLines(string(content)) {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entries = append(entries, parseLine(line))
	}

	return entries, nil
}

func parseLine(line string) Entry {
	i := strings.LastIndex(line, "=")
	if i < 0 {
		return Entry{Text: line}
	}

	text := strings.TrimSpace(line[:i])
	target := strings.TrimSpace(line[i+1:])
	if text == "" || !isLanguageCode(target) {
		return Entry{Text: line}
	}
	return Entry{Text: text, Target: target}
}

// isLanguageCode accepts codes like "en", "zh", "zh-TW" or "auto".
func isLanguageCode(s string) bool {
	if len(s) < 2 || len(s) > 7 {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r == '-' && i > 0 && i < len(s)-1:
		default:
			return false
		}
	}
	return true
}

// splitLines splits a string by newlines, dropping carriage returns
func splitLines(s string) []string {
	var lines []string
	var current strings.Builder
	for _, r := range s {
		if r == '\n' {
			lines = append(lines, current.String())
			current.Reset()
		} else if r != '\r' {
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}
