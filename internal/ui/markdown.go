package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// RenderMarkdown converts untrusted assistant markdown into styled terminal
// text. glamour parses the markdown and emits only escaped, styled output,
// so nothing in the input can inject terminal control content. On any
// rendering failure the raw text is returned as-is, treated as plain text.
func RenderMarkdown(content string, width int) string {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content
	}
	out, err := r.Render(content)
	if err != nil {
		return content
	}
	return strings.Trim(out, "\n")
}
