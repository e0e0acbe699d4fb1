package agents

import (
	"fmt"
	"strings"

	"github.com/vinayprograms/vogsphere/extract"
)

const (
	// MaxContentRunes caps the page content embedded in the prompt.
	MaxContentRunes = 15000

	// TruncationMarker follows the embedded content.
	TruncationMarker = " ... [truncated]"

	// DefaultLanguage is used when a profile leaves the language empty.
	DefaultLanguage = "English"
)

// Options tunes prompt assembly.
type Options struct {
	// SkipResearch drops the research specialist directive and its section.
	SkipResearch bool
}

// Roles returns the directive order for the given options.
func (o Options) Roles() []Role {
	roles := []Role{RoleSummarizer, RoleInsight}
	if !o.SkipResearch {
		roles = append(roles, RoleResearchSpecialist)
	}
	return append(roles, RoleZettelkasten, RoleLibrarian)
}

// Assemble builds the user prompt: source material, then every directive in
// order, then the Markdown skeleton the model is asked to fill in.
func Assemble(content *extract.Content, language string, opts Options) string {
	if language == "" {
		language = DefaultLanguage
	}

	var b strings.Builder

	b.WriteString("SOURCE MATERIAL:\n")
	fmt.Fprintf(&b, "Title: %s\n", content.Title)
	fmt.Fprintf(&b, "URL: %s\n", content.URL)
	fmt.Fprintf(&b, "Content: %s%s\n", truncateRunes(content.Content, MaxContentRunes), TruncationMarker)

	b.WriteString("\n---\n\nEXECUTE AGENT DIRECTIVES:\n")
	for _, role := range opts.Roles() {
		b.WriteString("\n")
		b.WriteString(Directives[role](language))
		b.WriteString("\n")
	}

	b.WriteString("\n---\n\n")
	b.WriteString(outputFormat(content, opts))

	return b.String()
}

func outputFormat(content *extract.Content, opts Options) string {
	var b strings.Builder
	b.WriteString("FINAL OUTPUT FORMAT (STRICT MARKDOWN):\n\n")
	b.WriteString("# {Title Suggested by Librarian Agent}\n\n")
	b.WriteString("> **Canonical Insight:** {Output from Insight Agent}\n\n")
	b.WriteString("## Executive Summary\n{Output from Summarizer Agent}\n\n")
	if !opts.SkipResearch {
		b.WriteString("## Comprehensive Research Analysis\n{Output from Research Specialist Agent}\n\n")
	}
	b.WriteString("## Atomic Concepts (Zettelkasten)\n{Output from Zettelkasten Agent}\n\n")
	b.WriteString("## Metadata\n")
	fmt.Fprintf(&b, "- **Source:** [%s](%s)\n", content.Title, content.URL)
	b.WriteString("- **Date:** {Date from Librarian}\n")
	b.WriteString("- **Tags:** {Tags from Librarian}\n")
	return b.String()
}

func truncateRunes(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
