package archive

import (
	"regexp"
	"strings"
	"time"

	"github.com/vinayprograms/vogsphere/export"
)

var (
	tagsLineRe   = regexp.MustCompile(`(?m)^\s*-?\s*\*\*Tags:\*\*(.*)$`)
	tagRe        = regexp.MustCompile(`#([\p{L}\p{N}_-]+)`)
	sourceLineRe = regexp.MustCompile(`(?m)^\s*-?\s*\*\*Source:\*\*\s*\[[^\]]*\]\(([^)\s]+)\)`)
)

// NoteFromMarkdown builds a Note from a generated document. Tags come from
// the Metadata "Tags:" line, lower-cased without the leading '#'; the
// source is the URL of the Metadata "Source:" link.
func NoteFromMarkdown(md, filename string) Note {
	n := Note{
		Title:     export.TitleFromMarkdown(md),
		Filename:  filename,
		Body:      md,
		CreatedAt: time.Now().UTC(),
	}

	if m := sourceLineRe.FindStringSubmatch(md); m != nil {
		n.Source = m[1]
	}

	if m := tagsLineRe.FindStringSubmatch(md); m != nil {
		seen := make(map[string]bool)
		for _, t := range tagRe.FindAllStringSubmatch(m[1], -1) {
			tag := strings.ToLower(t[1])
			if !seen[tag] {
				seen[tag] = true
				n.Tags = append(n.Tags, tag)
			}
		}
	}
	return n
}
