package clipboard

// memoryClipboard is a clipboard that only lives inside the process.
// It is used on headless hosts and in tests.
type memoryClipboard struct {
	text string
}

// NewMemoryClipboard creates an empty in-process clipboard.
// Like every IClipboard it is meant to be accessed through a Guard.
func NewMemoryClipboard() IClipboard {
	return &memoryClipboard{}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see clipboard.IClipboard)
// --------------------------------------------------------------------------

func (c *memoryClipboard) GetText() (string, error) {
	return c.text, nil
}

func (c *memoryClipboard) SetText(text string) error {
	c.text = text
	return nil
}
