package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"ctxdocs.ai/mcp/internal/config"
)

var (
	bannerTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("205"))

	bannerInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// banner renders the startup line written to stderr for the network
// transports. stdio mode stays silent so the pipe carries protocol
// traffic only.
func banner(transport config.Transport, port int) string {
	title := bannerTitleStyle.Render("ctxdocs MCP server")
	info := bannerInfoStyle.Render(fmt.Sprintf("transport=%s port=%d", transport, port))
	return fmt.Sprintf("%s  %s", title, info)
}
