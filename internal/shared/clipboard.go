package shared

import (
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"
)

// Clipboard copies text using the platform clipboard, falling back to an OSC 52
// escape sequence written to the terminal when no clipboard utility is present.
type Clipboard struct {
	terminal  io.Writer
	native    func(string) error
	hasNative func() bool
}

// NewClipboard creates a [Clipboard] whose fallback writes to w (default [os.Stderr]).
func NewClipboard(w io.Writer) *Clipboard {
	if w == nil {
		w = os.Stderr
	}
	return &Clipboard{
		terminal:  w,
		native:    clipboard.WriteAll,
		hasNative: func() bool { return !clipboard.Unsupported },
	}
}

// Copy writes text to the clipboard.
//
// The fallback cannot confirm the terminal honoured the sequence, so a nil error
// only means the sequence was written.
func (c *Clipboard) Copy(text string) error {
	if c.hasNative() {
		if err := c.native(text); err == nil {
			return nil
		}
	}

	if _, err := osc52.New(text).WriteTo(c.terminal); err != nil {
		return fmt.Errorf("%w: %v", ErrClipboardUnavailable, err)
	}
	return nil
}
