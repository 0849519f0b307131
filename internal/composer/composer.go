// Package composer renders annotated units into a single Markdown document.
package composer

import (
	"strings"

	"github.com/leefowlercu/codedoc/internal/narrator"
)

const (
	// EmptyPlaceholder is returned when there is nothing to compose.
	EmptyPlaceholder = "No documentation was generated."

	// MissingExplanation stands in for an empty explanation.
	MissingExplanation = "No documentation available."

	// Title is the document's top-level heading.
	Title = "# AI-Generated Code Documentation"

	// ContentType is the MIME type of the composed document.
	ContentType = "text/markdown; charset=utf-8"
)

// Compose renders units, in the order given, as Markdown.
func Compose(units []narrator.AnnotatedUnit) string {
	if len(units) == 0 {
		return EmptyPlaceholder
	}

	var b strings.Builder
	b.WriteString(Title)
	b.WriteString("\n\n")

	for _, u := range units {
		b.WriteString(Heading(u))
		b.WriteString("\n\n")

		explanation := u.Explanation
		if explanation == "" {
			explanation = MissingExplanation
		}
		b.WriteString(explanation)
		b.WriteString("\n\n")

		b.WriteString("---\n\n")
	}

	return b.String()
}

// Heading returns the second-level heading for one unit. Whole-file units are
// headed "File: <label>"; named units use their kind.
func Heading(u narrator.AnnotatedUnit) string {
	if u.IsFile() {
		return "## File: `" + u.SourceLabel + "`"
	}

	kind := u.Kind.Title()
	if kind == "" {
		kind = "Code block"
	}
	return "## " + kind + ": `" + u.Name + "`"
}
