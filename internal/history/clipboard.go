package history

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

// SystemClipboard writes through the platform clipboard utilities
// (pbcopy, xclip/xsel/wl-copy, or the Windows API).
type SystemClipboard struct{}

func (SystemClipboard) WriteText(text string) error {
	if clipboard.Unsupported {
		return errors.New("clipboard is not supported on this system")
	}

	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}

	return nil
}
