package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatResults(t *testing.T) {
	results := []SearchResult{
		{
			ID:            "/vercel/next.js",
			Title:         "Next.js",
			Description:   "The React framework",
			TotalSnippets: 3200,
			TrustScore:    9.5,
			Stars:         120000,
		},
		{
			ID:          "/npm/left-pad",
			Title:       "left-pad",
			Description: "String padding",
		},
	}

	out := FormatResults(results)

	assert.Contains(t, out, "- Context7-compatible library ID: /vercel/next.js")
	assert.Contains(t, out, "- Title: Next.js")
	assert.Contains(t, out, "- Trust Score: 9.5")
	assert.Contains(t, out, "- GitHub Stars: 120000")
	assert.Contains(t, out, "- Context7-compatible library ID: /npm/left-pad")
}
