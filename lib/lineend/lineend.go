package lineend

import (
	"strings"
)

const (
	// LF is the unix line ending
	LF = "\n"
	// CRLF is the windows line ending
	CRLF = "\r\n"
	// CR is the classic mac line ending
	CR = "\r"
)

// Lines splits text into its lines. Recognized separators are "\r\n", "\n" and
// a lone "\r". A terminator at the very end of the text does not start a new
// (empty) line, so "a\n" yields ["a"] and "" yields no lines at all.
func Lines(text string) []string {
	lines := make([]string, 0, strings.Count(text, LF)+1)

	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
			lines = append(lines, text[start:i])
			start = i + 1
		case '\r':
			lines = append(lines, text[start:i])
			// treat \r\n as a single separator
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			start = i + 1
		}
	}

	// remaining text after the last separator
	if start < len(text) {
		lines = append(lines, text[start:])
	}

	return lines
}

// Normalize rewrites all line separators in text to ending. A terminator at
// the end of text is kept (and rewritten as well), so Lines(Normalize(t, e))
// always equals Lines(t).
func Normalize(text, ending string) string {
	normalized := strings.Join(Lines(text), ending)
	if hasTerminator(text) {
		normalized += ending
	}
	return normalized
}

// ToPlatform rewrites all line separators in text to the line ending of the
// platform the binary was built for.
func ToPlatform(text string) string {
	return Normalize(text, Platform)
}

// hasTerminator reports whether text ends with a line separator
func hasTerminator(text string) bool {
	return strings.HasSuffix(text, LF) || strings.HasSuffix(text, CR)
}

// Join joins lines with "\n", the line ending used on the wire.
func Join(lines []string) string {
	return strings.Join(lines, LF)
}
