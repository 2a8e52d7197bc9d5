package hotkey

import (
	"fmt"
	"io"

	"github.com/atotto/clipboard"
)

// SystemClipboard uses the desktop clipboard.
type SystemClipboard struct{}

// ReadText returns the clipboard contents.
func (SystemClipboard) ReadText() (string, error) {
	if clipboard.Unsupported {
		return "", fmt.Errorf("no clipboard utility available")
	}
	return clipboard.ReadAll()
}

// WriteText replaces the clipboard contents.
func (SystemClipboard) WriteText(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("no clipboard utility available")
	}
	return clipboard.WriteAll(text)
}

// WriterNotifier prints progress lines to w, usually stderr.
type WriterNotifier struct {
	W io.Writer
}

// Start reports that a translation began.
func (n WriterNotifier) Start(source string) {
	fmt.Fprintf(n.W, "Translating clipboard (%d characters)...\n", len([]rune(source)))
}

// Done reports the result.
func (n WriterNotifier) Done(result string) {
	fmt.Fprintf(n.W, "Clipboard translated: %s\n", result)
}

// Failed reports an error.
func (n WriterNotifier) Failed(err error) {
	fmt.Fprintf(n.W, "Clipboard translation failed: %v\n", err)
}
