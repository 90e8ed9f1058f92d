package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/runoshun/taskdag/internal/domain"
)

type taskItem struct {
	task     *domain.Task
	critical bool // on the project's critical path
	ready    bool // every prerequisite is done
}

func (t taskItem) FilterValue() string {
	return t.task.Title
}

type taskDelegate struct {
	styles Styles
}

func newTaskDelegate(styles Styles) taskDelegate {
	return taskDelegate{styles: styles}
}

func (d taskDelegate) Height() int {
	return 1
}

func (d taskDelegate) Spacing() int {
	return 0
}

func (d taskDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws one line: cursor, status, id, title and the critical/ready marks.
func (d taskDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(taskItem)
	if !ok {
		return
	}
	task := ti.task
	selected := index == m.Index()

	indicator := " "
	titleStyle := d.styles.TaskTitle
	if selected {
		indicator = ">"
		titleStyle = d.styles.TaskTitleSelected
	}

	status := d.styles.StatusStyle(task.Status).Render(StatusIcon(task.Status) + " " + fmt.Sprintf("%-5s", StatusText(task.Status)))

	var marks string
	if ti.critical {
		marks += " " + d.styles.CriticalMark.Render("◆")
	}
	if ti.ready {
		marks += " " + d.styles.ReadyMark.Render("ready")
	}

	prefix := d.styles.SelectionIndicator.Render(indicator) + " " + status + "  " + d.styles.TaskID.Render(task.ID) + "  "
	maxTitle := m.Width() - runewidth.StringWidth(indicator+task.ID) - 20
	if maxTitle < 10 {
		maxTitle = 10
	}
	title := task.Title
	if runewidth.StringWidth(title) > maxTitle {
		title = runewidth.Truncate(title, maxTitle, "...")
	}

	_, _ = fmt.Fprint(w, prefix+titleStyle.Render(title)+marks)
}
