// Package clipboard publishes exported captures and colour readouts.
package clipboard

import (
	"fmt"

	textclip "github.com/atotto/clipboard"
)

var writeTextFn = textclip.WriteAll

// WriteText places text on the clipboard through the platform helper
// (xclip, xsel or wl-copy on unix).
func WriteText(text string) error {
	if textclip.Unsupported {
		return fmt.Errorf("clipboard text: no clipboard utility installed")
	}
	if err := writeTextFn(text); err != nil {
		return fmt.Errorf("clipboard text: %w", err)
	}
	return nil
}
