package clipboard

import (
	"fmt"
	"github.com/atotto/clipboard"
)

// nativeClipboard implements IClipboard using the operating system clipboard
type nativeClipboard struct{}

// NewNativeClipboard returns the clipboard of the machine the process runs on.
// On linux this needs xclip, xsel or wl-clipboard in the PATH; an error with
// code ErrCUnavailable is returned if none of them is present.
func NewNativeClipboard() (IClipboard, error) {
	if clipboard.Unsupported {
		return nil, NewError(ErrCUnavailable, "no clipboard utility found on this system")
	}
	return &nativeClipboard{}, nil
}

// --------------------------------------------------------------------------
// Interface Methods (docu see clipboard.IClipboard)
// --------------------------------------------------------------------------

func (c *nativeClipboard) GetText() (string, error) {
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", NewError(ErrCRead, fmt.Sprintf("failed to read system clipboard: %v", err))
	}
	return text, nil
}

func (c *nativeClipboard) SetText(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return NewError(ErrCWrite, fmt.Sprintf("failed to write system clipboard: %v", err))
	}
	return nil
}
