package api

import (
	"fmt"
	"strings"
)

// FormatResults renders search results as the text block returned by the
// resolve tool: one stanza per candidate with the metadata a client
// needs to choose a library ID.
func FormatResults(results []SearchResult) string {
	var b strings.Builder
	b.WriteString("Available Libraries (top matches):\n\n")
	b.WriteString("Each result includes:\n")
	b.WriteString("- Library ID: Context7-compatible identifier (format: /org/project)\n")
	b.WriteString("- Name: Library or package name\n")
	b.WriteString("- Description: Short summary\n")
	b.WriteString("- Code Snippets: Number of available code examples\n")
	b.WriteString("- Trust Score: Authority indicator\n")
	b.WriteString("\n----------\n\n")

	for _, r := range results {
		b.WriteString(formatResult(r))
		b.WriteString("\n----------\n\n")
	}
	return strings.TrimSuffix(b.String(), "\n\n")
}

func formatResult(r SearchResult) string {
	lines := []string{
		fmt.Sprintf("- Title: %s", r.Title),
		fmt.Sprintf("- Context7-compatible library ID: %s", r.ID),
		fmt.Sprintf("- Description: %s", r.Description),
	}
	if r.TotalSnippets >= 0 {
		lines = append(lines, fmt.Sprintf("- Code Snippets: %d", r.TotalSnippets))
	}
	if r.TrustScore > 0 {
		lines = append(lines, fmt.Sprintf("- Trust Score: %.1f", r.TrustScore))
	}
	if r.Stars > 0 {
		lines = append(lines, fmt.Sprintf("- GitHub Stars: %d", r.Stars))
	}
	return strings.Join(lines, "\n")
}
