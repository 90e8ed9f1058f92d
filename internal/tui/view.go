package tui

import (
	"fmt"
	"strings"

	"github.com/runoshun/taskdag/internal/usecase"
)

// View renders the board.
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var content string
	switch m.mode {
	case ModeHelp:
		content = m.viewHelp()
	case ModeDetail:
		content = m.viewDetail()
	case ModeNormal:
		content = m.viewMain()
	}

	return m.styles.App.Render(content)
}

func (m *Model) viewMain() string {
	var b strings.Builder

	b.WriteString(m.viewHeader())
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(m.styles.ErrorMsg.Render("Error: "+m.err.Error()) + "\n\n")
	}

	switch {
	case m.board == nil:
		b.WriteString("Loading...")
	case len(m.taskList.Items()) == 0 && m.criticalOnly:
		b.WriteString(m.styles.Footer.Render("No critical path."))
	case len(m.taskList.Items()) == 0:
		b.WriteString(m.styles.Footer.Render("No tasks."))
	default:
		b.WriteString(m.taskList.View())
	}

	b.WriteString("\n\n")
	b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	return b.String()
}

func (m *Model) viewHeader() string {
	if m.board == nil {
		return m.styles.Header.Render("taskdag")
	}
	p := m.board.Progress
	meta := fmt.Sprintf("%d/%d done (%.0f%%)  critical path: %d tasks",
		p.CompletedTasks, p.TotalTasks, p.Completion, len(m.board.Path))
	if m.criticalOnly {
		meta += "  [critical only]"
	}
	header := m.styles.Header.Render(m.board.Project.Name) + "  " + m.styles.HeaderMeta.Render(meta)
	if m.board.Anomaly != nil {
		header += "\n" + m.styles.Warning.Render("Warning: "+m.board.Anomaly.String())
	}
	return header
}

func (m *Model) viewDetail() string {
	return m.detailViewport.View() + "\n\n" + m.styles.Footer.Render("esc: back")
}

// detailContent renders the selected task with its prerequisites and dependents.
func (m *Model) detailContent() string {
	if m.detail == nil {
		return ""
	}
	t := m.detail.Task
	s := m.styles

	var b strings.Builder
	b.WriteString(s.DetailTitle.Render(t.Title) + " " + s.TaskID.Render("("+t.ID+")") + "\n\n")
	row := func(label, value string) {
		b.WriteString(s.DetailLabel.Render(label) + s.DetailValue.Render(value) + "\n")
	}
	row("Status", string(t.Status))
	row("Priority", string(t.Priority))
	if t.AssigneeID != "" {
		row("Assignee", t.AssigneeID)
	}
	if t.EstimatedHours != nil {
		row("Estimate", fmt.Sprintf("%gh", *t.EstimatedHours))
	}
	if t.Description != "" {
		b.WriteString("\n" + t.Description + "\n")
	}

	b.WriteString("\n" + s.DetailLabel.Render("Depends on") + "\n")
	writeViews(&b, s, m.detail.Prerequisites)
	b.WriteString("\n" + s.DetailLabel.Render("Required by") + "\n")
	writeViews(&b, s, m.detail.Dependents)

	if len(m.detail.Blocking) > 0 {
		b.WriteString("\n" + s.ErrorMsg.Render("Blocked by: "+strings.Join(m.detail.Blocking, ", ")) + "\n")
	}
	return b.String()
}

func writeViews(b *strings.Builder, s Styles, views []usecase.DependencyView) {
	if len(views) == 0 {
		b.WriteString("  (none)\n")
		return
	}
	for _, v := range views {
		if v.Task == nil {
			b.WriteString("  " + s.Footer.Render("(missing task)") + "\n")
			continue
		}
		b.WriteString("  " + s.StatusStyle(v.Task.Status).Render(StatusIcon(v.Task.Status)) + " " +
			s.TaskID.Render(v.Task.ID) + " " + v.Task.Title + "\n")
	}
}

func (m *Model) viewHelp() string {
	return m.styles.Header.Render("Keys") + "\n\n" + m.help.FullHelpView(m.keys.FullHelp())
}
