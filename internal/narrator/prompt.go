package narrator

import (
	"fmt"
	"strings"

	"github.com/leefowlercu/codedoc/internal/segmenter"
)

// DefaultStyle is used when a request does not name an explanation style.
const DefaultStyle = "simple"

// BuildPrompt returns the instruction sent to the provider for one unit.
// The style label is passed through as given; an empty style becomes DefaultStyle.
func BuildPrompt(unit segmenter.Unit, style string) string {
	if style == "" {
		style = DefaultStyle
	}

	var b strings.Builder
	b.WriteString("You are an experienced technical writer who makes code easy to understand.\n")
	b.WriteString("Write a clear, concise explanation of the code below for a student or junior developer.\n\n")
	fmt.Fprintf(&b, "The requested documentation style is: **%s Style**.\n\n", style)
	b.WriteString("For a simple explanation, provide:\n")
	b.WriteString("1. A one-sentence summary of what the code does.\n")
	b.WriteString("2. A short paragraph on its purpose and how it works.\n")
	b.WriteString("3. A brief breakdown of its inputs (arguments) and its main output (return value).\n\n")
	b.WriteString("IMPORTANT: Do NOT repeat the code in your answer. Output only the documentation.\n\n")
	fmt.Fprintf(&b, "Here is the code for '%s':\n", unit.Name)
	fence := codeFence(unit.Code)
	b.WriteString(fence + "\n")
	b.WriteString(unit.Code)
	b.WriteString("\n" + fence + "\n")

	return b.String()
}

// codeFence returns a backtick fence longer than any backtick run in code,
// and never shorter than three.
func codeFence(code string) string {
	longest, run := 0, 0
	for i := 0; i < len(code); i++ {
		if code[i] != '`' {
			run = 0
			continue
		}
		run++
		longest = max(longest, run)
	}
	return strings.Repeat("`", max(3, longest+1))
}
