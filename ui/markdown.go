package ui

import (
	markdown "github.com/MichaelMure/go-term-markdown"
	tea "github.com/charmbracelet/bubbletea"
	gomarkdown "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"
)

// renderMarkdownText renders markdown for terminal display at the given
// width. Autolink stays disabled so plain URLs survive for the terminal
// emulator to detect.
func renderMarkdownText(content string, width int) string {
	if width < 20 {
		width = 80
	}

	defaultExt := markdown.Extensions()
	customExt := defaultExt &^ parser.Autolink
	p := parser.NewWithExtensions(customExt)
	r := markdown.NewRenderer(width-4, 0)
	doc := p.Parse([]byte(content))
	return string(gomarkdown.Render(doc, r))
}

// renderMarkdownCmd renders a transcript message off the update loop and
// reports back with the message index, so a reflow can never block input.
func renderMarkdownCmd(messageIndex int, content string, width int) tea.Cmd {
	return func() tea.Msg {
		return markdownRenderedMsg{
			MessageIndex: messageIndex,
			Rendered:     renderMarkdownText(content, width),
		}
	}
}
