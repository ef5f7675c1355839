// Package sanitize normalizes rendered feature text for the export surfaces.
// Emphasis markup becomes neutral [[BOLD:...]] and [[ITALIC:...]] markers, other
// markup is dropped, and only characters Windows-1252 can encode survive.
package sanitize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/encoding/charmap"
)

// Style marker delimiters
const (
	BoldPrefix   = "[[BOLD:"
	ItalicPrefix = "[[ITALIC:"
	MarkerSuffix = "]]"
)

var (
	lineBreakRegex = regexp.MustCompile(`(?i)<br\s*/?>`)
	listOpenRegex  = regexp.MustCompile(`(?i)<li(\s[^>]*)?>`)
	listCloseRegex = regexp.MustCompile(`(?i)</li\s*>`)
	boldRegex      = regexp.MustCompile(`(?is)<(strong|b)(\s[^>]*)?>(.*?)</(strong|b)\s*>`)
	italicRegex    = regexp.MustCompile(`(?is)<(em|i)(\s[^>]*)?>(.*?)</(em|i)\s*>`)
	tagRegex       = regexp.MustCompile(`</?[A-Za-z][^>]*>`)
	spacesRegex    = regexp.MustCompile(` {2,}`)
	newlinesRegex  = regexp.MustCompile(`\n{3,}`)
)

// Sanitize converts text for the constrained output encoding. It is idempotent.
func Sanitize(text string) string {
	text = filterRunes(text)

	text = lineBreakRegex.ReplaceAllString(text, "\n")
	text = listOpenRegex.ReplaceAllString(text, "")
	text = listCloseRegex.ReplaceAllString(text, "\n")

	text = untilStable(text, func(s string) string {
		s = boldRegex.ReplaceAllString(s, BoldPrefix+"$3"+MarkerSuffix)
		return italicRegex.ReplaceAllString(s, ItalicPrefix+"$3"+MarkerSuffix)
	})
	text = untilStable(text, func(s string) string {
		return tagRegex.ReplaceAllString(s, "")
	})

	text = spacesRegex.ReplaceAllString(text, " ")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text = strings.Join(lines, "\n")

	return newlinesRegex.ReplaceAllString(text, "\n\n")
}

// filterRunes normalizes line endings, turns tabs into spaces, and deletes control
// characters and anything Windows-1252 cannot represent
func filterRunes(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r == '\n':
			b.WriteRune(r)
		case r == '\t':
			b.WriteByte(' ')
		case r == '\r':
			b.WriteByte('\n')
		case unicode.IsControl(r):
			// dropped
		case encodable(r):
			b.WriteRune(r)
		}
	}
	return b.String()
}

func encodable(r rune) bool {
	if r < 0x80 {
		return true
	}
	_, ok := charmap.Windows1252.EncodeRune(r)
	return ok
}

func untilStable(text string, step func(string) string) string {
	for {
		next := step(text)
		if next == text {
			return text
		}
		text = next
	}
}
