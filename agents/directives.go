// Package agents holds the role-based prompt templates and assembles them,
// together with the page content, into a single provider call.
package agents

import "fmt"

// Role names one cognitive sub-agent.
type Role string

const (
	RoleSummarizer         Role = "summarizer"
	RoleInsight            Role = "insight"
	RoleResearchSpecialist Role = "research_specialist"
	RoleZettelkasten       Role = "zettelkasten"
	RoleLibrarian          Role = "librarian"
)

// Directive yields the instruction block for one role in the given output
// language.
type Directive func(language string) string

// Directives maps every role to its template.
var Directives = map[Role]Directive{
	RoleSummarizer: func(language string) string {
		return fmt.Sprintf(`[AGENT: SUMMARIZER]
Task: Create a summary that is academic in tone yet accessible to a general audience.
Constraint: Strictly limit the summary to a maximum of 3 sentences.
Output Language: %s.`, language)
	},

	RoleInsight: func(language string) string {
		return fmt.Sprintf(`[AGENT: INSIGHT]
Task: Identify the "Canonical Insight" — the single most critical, novel, or useful idea in the text.
Sub-task: Identify 2 nuances or variations of this insight.
Formatting: You MUST use **bold** for key terms and concepts within the text.
Output Language: %s.`, language)
	},

	RoleResearchSpecialist: func(language string) string {
		return fmt.Sprintf(`[AGENT: RESEARCH SPECIALIST]
Task: Act as an academic research specialist. Prepare an article that synthesizes the main ideas and findings, raises questions, presents evidence, methodologies, results, and implications of the study.
Requirement: Include key terms and concepts, as well as provide the necessary context or background information.
Constraint: The article should function as a standalone text, offering readers a comprehensive understanding of the study's importance without requiring them to read the full document.
Output Language: %s.`, language)
	},

	RoleZettelkasten: func(language string) string {
		return fmt.Sprintf(`[AGENT: ZETTELKASTEN]
Task: Extract "Atomic Ideas" from the content.
Definition: An atomic idea is a single, self-contained concept that can be understood without the rest of the text.
Format: A bulleted list.
Output Language: %s.`, language)
	},

	RoleLibrarian: func(language string) string {
		return fmt.Sprintf(`[AGENT: LIBRARIAN]
Task 1: Generate 3-5 relevant hashtags (starting with #vogsphere).
Task 2: Suggest a concise filename for this note (no spaces, use underscores).
Task 3: Identify the publication date (or use today's date if not found).
Output Language: %s (except for filename, which should be safe-string).`, language)
	},
}

// SystemPrompt establishes the persona. It is sent as the system message, or
// the system field for Anthropic-style bodies, on every call.
const SystemPrompt = `You are Vogsphere, a distributed bureaucratic intelligence running inside a browser.
You manage a team of cognitive sub-agents (Summarizer, Insight, Zettelkasten, Librarian, Research Specialist).
Your goal is to orchestrate their outputs into a single, perfectly formatted Markdown document.
Do not add conversational filler. Output ONLY the final Markdown.`
