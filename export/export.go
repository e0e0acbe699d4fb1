// Package export writes generated notes to disk as Markdown files.
package export

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode/utf16"

	"github.com/vinayprograms/vogsphere/errors"
)

// DefaultTitle is used when the note has no level-one heading.
const DefaultTitle = "vogsphere_note"

// headingRe only matches a heading at the very start of the note. The space
// class and the line class follow ECMAScript \s and '.' so that existing
// filenames stay stable.
var headingRe = regexp.MustCompile(
	`\A#[\t\n\v\f\r \x{a0}\x{1680}\x{2000}-\x{200a}\x{2028}\x{2029}\x{202f}\x{205f}\x{3000}\x{feff}]+` +
		`([^\n\r\x{2028}\x{2029}]+)`)

// TitleFromMarkdown returns the text of a level-one heading opening the
// note, untrimmed. Notes starting with anything else get DefaultTitle.
func TitleFromMarkdown(md string) string {
	m := headingRe.FindStringSubmatch(md)
	if m == nil {
		return DefaultTitle
	}
	return m[1]
}

// SanitizeFilename maps every character outside [A-Za-z0-9] to '_', one per
// UTF-16 code unit, lower-cases the result and appends ".md".
func SanitizeFilename(title string) string {
	var b strings.Builder
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		default:
			n := utf16.RuneLen(r)
			if n < 1 {
				n = 1
			}
			b.WriteString(strings.Repeat("_", n))
		}
	}
	return b.String() + ".md"
}

// Filename derives the note's filename from its first heading.
func Filename(md string) string {
	return SanitizeFilename(TitleFromMarkdown(md))
}

// Write saves md under dir using Filename and returns the written path.
// An existing file with the same name is replaced.
func Write(dir, md string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrap(err, "creating output directory")
	}

	path := filepath.Join(dir, Filename(md))
	if err := os.WriteFile(path, []byte(md), 0644); err != nil {
		return "", errors.Wrap(err, "writing note")
	}
	return path, nil
}

// Today returns the current local date as YYYY-MM-DD.
func Today() string {
	return FormatDate(time.Now())
}

// FormatDate returns t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
