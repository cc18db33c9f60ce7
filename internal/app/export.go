package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vannoppenjarno/automatic-reporting/internal/store"
)

// saveTranscriptCmd writes the session's chat history to a markdown file in
// the working directory.
func saveTranscriptCmd(history *store.Store) tea.Cmd {
	return func() tea.Msg {
		entries, err := history.Transcript()
		if err != nil {
			return TranscriptSaveErrorMsg{Err: err}
		}
		name := fmt.Sprintf("chat-transcript-%s.md", time.Now().Format("20060102-150405"))
		if err := os.WriteFile(name, []byte(transcriptMarkdown(entries)), 0o644); err != nil {
			return TranscriptSaveErrorMsg{Err: err}
		}
		return TranscriptSavedMsg{Path: name}
	}
}

func transcriptMarkdown(entries []store.TranscriptEntry) string {
	var b strings.Builder
	b.WriteString("# Chat transcript\n\n")
	for _, e := range entries {
		if e.Role == "user" {
			b.WriteString("## You\n\n")
		} else {
			b.WriteString("## Assistant\n\n")
		}
		b.WriteString(e.Content)
		b.WriteString("\n\n")
		if e.Sources != "" {
			b.WriteString("_" + e.Sources + "_\n\n")
		}
	}
	return b.String()
}
