package app

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/wordwrap"

	"github.com/vannoppenjarno/automatic-reporting/internal/api"
	"github.com/vannoppenjarno/automatic-reporting/internal/chat"
	"github.com/vannoppenjarno/automatic-reporting/internal/report"
	"github.com/vannoppenjarno/automatic-reporting/internal/ui"
)

// View renders the active view. Rendering never mutates the model; every
// helper works off the snapshot it is called on.
func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}
	switch m.view {
	case ViewLogin:
		return m.renderLogin()
	case ViewNoAccess:
		return m.renderNoAccess()
	case ViewChat:
		return m.renderChat()
	default:
		return m.renderHome()
	}
}

func (m Model) renderLogin() string {
	var lines []string
	lines = append(lines, ui.TitleStyle.Render("REPORTS"))
	lines = append(lines, "")
	lines = append(lines, ui.DimStyle.Render("Sign in with your backend token."))
	lines = append(lines, "")
	lines = append(lines, m.tokenInput.View())
	lines = append(lines, "")
	if m.loggingIn {
		lines = append(lines, m.spin.View()+" Signing in...")
	} else if m.loginNotice != "" {
		lines = append(lines, ui.ErrorStyle.Render(m.loginNotice))
	}
	lines = append(lines, "")
	lines = append(lines, footerHint("Enter", "Sign in")+"  "+footerHint("Ctrl+C", "Quit"))
	return strings.Join(lines, "\n")
}

func (m Model) renderNoAccess() string {
	var lines []string
	lines = append(lines, ui.TitleStyle.Render("REPORTS"))
	lines = append(lines, "")
	lines = append(lines, "Your account is not linked to any product yet.")
	lines = append(lines, ui.DimStyle.Render("Ask your administrator for access, then sign in again."))
	lines = append(lines, "")
	lines = append(lines, footerHint(KeyQuit, "Quit"))
	return strings.Join(lines, "\n")
}

func (m Model) renderHome() string {
	var sections []string
	sections = append(sections, m.renderHomeHeader())
	sections = append(sections, m.renderTabs())
	sections = append(sections, m.renderControls())
	sections = append(sections, ui.DividerStyle.Render(strings.Repeat("─", m.width)))
	sections = append(sections, m.renderReportPanel())
	sections = append(sections, ui.DividerStyle.Render(strings.Repeat("─", m.width)))
	sections = append(sections, m.renderHomeFooter())
	return strings.Join(sections, "\n")
}

func (m Model) renderHomeHeader() string {
	title := ui.TitleStyle.Render("REPORTS")
	if name := m.activeProductName(); name != "" {
		return title + ui.DimStyle.Render(" — "+name)
	}
	return title
}

func (m Model) renderTabs() string {
	var tabs []string
	for i, t := range report.Types {
		label := fmt.Sprintf("%d %s", i+1, t)
		if t == m.reportType {
			tabs = append(tabs, ui.TabActiveStyle.Render(label))
		} else {
			tabs = append(tabs, ui.TabStyle.Render(label))
		}
	}
	return strings.Join(tabs, "   ")
}

func (m Model) renderControls() string {
	var product string
	switch {
	case len(m.products) == 0:
		product = ui.MutedStyle.Render("no products")
	case len(m.products) == 1:
		product = m.activeProductName()
	default:
		product = "◂ " + m.activeProductName() + " ▸"
	}

	date := m.dateInput.View()
	if !m.editingDate {
		if m.reportDate != "" {
			date = m.reportDate
		} else {
			date = ui.MutedStyle.Render("latest")
		}
	}

	return ui.FieldLabelStyle.Render("Product: ") + product +
		"    " + ui.FieldLabelStyle.Render("Date: ") + date
}

func (m Model) renderReportPanel() string {
	if m.reportBusy {
		return m.spin.View() + " Loading report..."
	}
	if m.reportNotice != "" {
		return ui.MutedStyle.Render(m.reportNotice)
	}
	return renderReportDoc(m.reportDoc, m.width)
}

// renderReportDoc maps a report document to its display text. Each section
// degrades to its own placeholder; a missing document degrades to a single
// one. Absent nested fields render as blanks, never as a failure.
func renderReportDoc(doc *api.ReportDocument, width int) string {
	if doc == nil {
		return ui.MutedStyle.Render(placeholderNoDoc)
	}

	var lines []string

	lines = append(lines, ui.SectionHeadingStyle.Render("THEMES"))
	if len(doc.Topics) == 0 {
		lines = append(lines, ui.MutedStyle.Render(placeholderThemes))
	} else {
		for _, t := range doc.Topics {
			lines = append(lines, renderTopic(t, width)...)
		}
	}

	lines = append(lines, "", ui.SectionHeadingStyle.Render("EXECUTIVE SUMMARY"))
	if len(doc.ExecutiveSummary) == 0 {
		lines = append(lines, ui.MutedStyle.Render(placeholderSummary))
	} else {
		for _, item := range doc.ExecutiveSummary {
			lines = append(lines, renderSummaryItem(item)...)
		}
	}

	lines = append(lines, "", ui.SectionHeadingStyle.Render("OVERALL TAKEAWAY"))
	if strings.TrimSpace(doc.OverallTakeaway) == "" {
		lines = append(lines, ui.MutedStyle.Render(placeholderOverall))
	} else {
		lines = append(lines, wrapText(doc.OverallTakeaway, contentWidth(width))...)
	}

	return strings.Join(lines, "\n")
}

func renderTopic(t api.Topic, width int) []string {
	w := contentWidth(width) - 4

	lines := []string{"▸ " + ui.TopicTitleStyle.Render(t.Topic)}
	fields := []struct{ label, value string }{
		{"Observation", t.Observation},
		{"Implication", t.Implication},
		{"Strategic alignment", joinAlignment(t.StrategicAlignment)},
		{"Recommendation", t.Recommendation.Action},
		{"Decision required", t.DecisionRequired},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			continue
		}
		wrapped := wrapText(f.value, w)
		lines = append(lines, "    "+ui.FieldLabelStyle.Render(f.label+": ")+wrapped[0])
		for _, wl := range wrapped[1:] {
			lines = append(lines, "    "+wl)
		}
	}
	return lines
}

func joinAlignment(a api.StrategicAlignment) string {
	switch {
	case a.Objective == "" && a.Status == "":
		return ""
	case a.Status == "":
		return a.Objective
	case a.Objective == "":
		return a.Status
	}
	return a.Objective + " - " + a.Status
}

func renderSummaryItem(item api.ExecutiveSummaryItem) []string {
	var lines []string
	if item.Objective != "" {
		lines = append(lines, "  "+ui.FieldLabelStyle.Render("Objective: ")+item.Objective)
	}
	if item.Status != "" {
		lines = append(lines, "  "+ui.FieldLabelStyle.Render("Status: ")+ui.StatusBadgeStyle.Render("● "+item.Status))
	}
	if item.KeyDecisionNeeded != "" {
		lines = append(lines, "  "+ui.FieldLabelStyle.Render("Key decision needed: ")+item.KeyDecisionNeeded)
	}
	if len(lines) > 0 {
		lines = append(lines, "")
	}
	return lines
}

func (m Model) renderHomeFooter() string {
	parts := []string{
		footerHint(KeyOpenChat, "Chat"),
		footerHint("◂ ▸", "Product"),
		footerHint("Tab/1-4", "Type"),
		footerHint(KeyEditDate, "Date"),
		footerHint(KeyRefresh, "Latest"),
		footerHint(KeyQuit, "Quit"),
	}
	line := strings.Join(parts, "  ")
	if m.statusText != "" {
		line += "  " + ui.DimStyle.Render(m.statusText)
	}
	return line
}

func (m Model) renderChat() string {
	var sections []string

	header := ui.TitleStyle.Render("ASSISTANT")
	if name := m.activeProductName(); name != "" {
		header += ui.DimStyle.Render(" — " + name)
	}
	sections = append(sections, header)
	sections = append(sections, ui.DividerStyle.Render(strings.Repeat("─", m.width)))

	sections = append(sections, m.renderChatWindow())

	sections = append(sections, ui.DividerStyle.Render(strings.Repeat("─", m.width)))
	sections = append(sections, m.chatInput.View())
	sections = append(sections, m.renderChatFooter())

	return strings.Join(sections, "\n")
}

func (m Model) renderChatWindow() string {
	var lines []string
	if m.chatLog.Len() == 0 {
		lines = append(lines, ui.MutedStyle.Render("Ask a question about the selected product's reports."))
	}
	for _, msg := range m.chatLog.Messages() {
		lines = append(lines, renderChatMessage(msg, m.width)...)
	}
	if m.asking {
		lines = append(lines, m.spin.View()+ui.DimStyle.Render(" Thinking..."))
	}

	// Pin the newest turns to the bottom of the window, like a chat pane
	// that is always scrolled to the end.
	visible := m.chatVisibleLines()
	if len(lines) > visible {
		lines = lines[len(lines)-visible:]
	}
	for len(lines) < visible {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// renderChatMessage lays out one conversation turn. Assistant turns go
// through the markdown renderer; user turns are always inert text.
func renderChatMessage(msg chat.Message, width int) []string {
	var lines []string
	if msg.Role == chat.RoleUser {
		lines = append(lines, ui.UserLabelStyle.Render("You"))
		lines = append(lines, wrapText(msg.Content, contentWidth(width))...)
	} else {
		lines = append(lines, ui.AssistantLabelStyle.Render("Assistant"))
		rendered := ui.RenderMarkdown(msg.Content, contentWidth(width))
		lines = append(lines, strings.Split(rendered, "\n")...)
	}
	if len(msg.Citations) > 0 {
		lines = append(lines, ui.SourceStyle.Render(sourcesLine(msg.Citations)))
	}
	lines = append(lines, "")
	return lines
}

func sourcesLine(citations []api.Citation) string {
	labels := make([]string, 0, len(citations))
	for _, c := range citations {
		labels = append(labels, c.Label())
	}
	return "Sources: " + strings.Join(labels, ", ")
}

func (m Model) renderChatFooter() string {
	parts := []string{
		footerHint("Enter", "Send"),
		footerHint("Ctrl+S", "Save transcript"),
		footerHint("Esc", "Back"),
		footerHint("Ctrl+C", "Quit"),
	}
	line := strings.Join(parts, "  ")
	if m.statusText != "" {
		line += "  " + ui.DimStyle.Render(m.statusText)
	}
	return line
}

func (m Model) chatVisibleLines() int {
	if m.height == 0 {
		return 20
	}
	// Reserve: header(1) + dividers(2) + input(1) + footer(1) + padding
	return max(5, m.height-6)
}

// Helpers

func footerHint(key, desc string) string {
	return ui.FooterKeyStyle.Render(key) + ui.FooterDescStyle.Render(" "+desc)
}

func contentWidth(width int) int {
	if width <= 0 {
		return 80
	}
	return max(20, width-2)
}

func wrapText(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}
	return strings.Split(wordwrap.String(text, width), "\n")
}
