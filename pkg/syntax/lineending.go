package syntax

import "strings"

// LineEnding is the newline convention of a source unit.
type LineEnding string

// Supported line endings.
const (
	LF   LineEnding = "\n"
	CRLF LineEnding = "\r\n"
)

// DetectLineEnding returns CRLF when the text uses Windows line endings, LF otherwise.
func DetectLineEnding(text string) LineEnding {
	if strings.Contains(text, "\r\n") {
		return CRLF
	}
	return LF
}

// Normalize converts text to LF line endings. Trees always hold LF text.
func Normalize(text string) string {
	return strings.ReplaceAll(text, "\r\n", "\n")
}

// Apply converts LF text back to the given convention.
func (le LineEnding) Apply(text string) string {
	if le != CRLF {
		return text
	}
	return strings.ReplaceAll(text, "\n", "\r\n")
}

// String names the convention.
func (le LineEnding) String() string {
	if le == CRLF {
		return "crlf"
	}
	return "lf"
}
