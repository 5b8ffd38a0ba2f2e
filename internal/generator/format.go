package generator

import "strings"

// readableGroupSize is the chunk width used by FormatReadable.
const readableGroupSize = 4

// readableSeparator joins the chunks. A space is used because it belongs to
// no character class, which keeps the formatting invertible.
const readableSeparator = " "

// FormatReadable groups a password into fixed-width chunks for easier
// transcription. Purely cosmetic: character content is never altered and
// Unformat(FormatReadable(p)) == p.
func FormatReadable(password string) string {
	if password == "" {
		return ""
	}
	var groups []string
	for i := 0; i < len(password); i += readableGroupSize {
		end := i + readableGroupSize
		if end > len(password) {
			end = len(password)
		}
		groups = append(groups, password[i:end])
	}
	return strings.Join(groups, readableSeparator)
}

// Unformat strips the readable-format separators.
func Unformat(formatted string) string {
	return strings.ReplaceAll(formatted, readableSeparator, "")
}
