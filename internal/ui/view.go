package ui

import (
	"fmt"
	"sort"
	"strings"

	"CivicAsk/internal/querysession"
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("CivicAsk — incident Q&A"))
	b.WriteString("  ")
	b.WriteString(m.styles.Header.Render("model: " + m.model))
	if m.recording {
		b.WriteString("  ")
		b.WriteString(m.styles.Recording.Render("● REC"))
	}
	b.WriteString("\n")
	if overview := m.renderOverview(); overview != "" {
		b.WriteString(m.styles.Header.Render(overview))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(m.viewport.View())
	b.WriteString("\n\n")

	b.WriteString(m.renderSuggestions())

	b.WriteString(m.textinput.View())
	b.WriteString("\n")

	b.WriteString(m.renderStatusBar())

	return b.String()
}

// renderOverview summarizes the dataset when /stats was reachable. On
// failure the panel is simply omitted.
func (m Model) renderOverview() string {
	if m.stats == nil {
		return ""
	}

	type typeCount struct {
		name  string
		count int
	}
	types := make([]typeCount, 0, len(m.stats.IncidentTypes))
	for name, count := range m.stats.IncidentTypes {
		types = append(types, typeCount{name, count})
	}
	sort.Slice(types, func(i, j int) bool {
		if types[i].count != types[j].count {
			return types[i].count > types[j].count
		}
		return types[i].name < types[j].name
	})

	parts := make([]string, 0, 3)
	for i, tc := range types {
		if i == 3 {
			break
		}
		parts = append(parts, fmt.Sprintf("%s %d", tc.name, tc.count))
	}

	line := fmt.Sprintf("%d incidents", m.stats.TotalIncidents)
	if len(parts) > 0 {
		line += " · " + strings.Join(parts, " · ")
	}
	return line
}

func (m Model) renderResult() string {
	sess := m.controller.Session()

	switch sess.Status {
	case querysession.StatusIdle:
		return m.styles.Meta.Render("Ask a free-text question about the incident dataset.\n" +
			"Answers cite the source excerpts they were generated from (Ctrl+T to view).")

	case querysession.StatusPending:
		return m.spinner.View() + " querying..."

	case querysession.StatusFailed:
		return m.styles.ErrorPanel.Render("query failed\n" + sess.ErrorMessage)

	case querysession.StatusResolved:
		if m.viewMode == ModeSources {
			return m.renderSources(sess)
		}
		return m.renderAnswer(sess)
	}
	return ""
}

func (m Model) renderAnswer(sess querysession.Session) string {
	answer := sess.Result.Answer
	if m.renderer != nil {
		if rendered, err := m.renderer.Render(answer); err == nil {
			answer = rendered
		}
	}

	meta := fmt.Sprintf("%s · %.0f ms · %d chunks retrieved",
		m.model, sess.Result.ProcessingTimeMS, sess.Result.NumChunksRetrieved)

	return strings.TrimRight(answer, "\n") + "\n\n" + m.styles.Meta.Render(meta)
}

func (m Model) renderSources(sess querysession.Session) string {
	chunks := sess.Result.RelevantChunks
	if len(chunks) == 0 {
		return m.styles.Meta.Render("no source excerpts were retrieved for this answer")
	}

	var b strings.Builder
	for i, chunk := range chunks {
		b.WriteString(m.styles.SourceID.Render(fmt.Sprintf("[%d] %s", i+1, chunk.Metadata.Source)))
		b.WriteString("\n")
		b.WriteString(m.styles.SourceText.Render(chunk.Text))
		if i < len(chunks)-1 {
			b.WriteString("\n\n")
		}
	}
	return b.String()
}

func (m Model) renderSuggestions() string {
	if len(m.suggestions) == 0 {
		return "\n"
	}

	var b strings.Builder
	for i, s := range m.suggestions {
		if i == m.selected {
			b.WriteString(m.styles.Selected.Render("→ " + s))
		} else {
			b.WriteString(m.styles.Suggestion.Render("  " + s))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderStatusBar() string {
	if m.notice != "" {
		return m.styles.Notice.Render(m.notice)
	}

	mode := "text"
	if m.viewMode == ModeSources {
		mode = "sources"
	}
	help := fmt.Sprintf("view: %s · ^T sources · ^P model · ^V voice · ↑/↓ history · /help", mode)
	return m.styles.StatusBar.Render(help)
}
