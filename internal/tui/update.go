package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.updateLayoutSizes()
		return m, nil

	case MsgBoardLoaded:
		m.board = msg.Board
		m.updateTaskList()
		return m, nil

	case MsgDetailLoaded:
		m.detail = msg.Detail
		m.mode = ModeDetail
		m.detailViewport.SetContent(m.detailContent())
		m.detailViewport.GotoTop()
		return m, nil

	case MsgStatusUpdated:
		m.err = nil
		return m, m.loadBoard()

	case MsgError:
		m.err = msg.Err
		return m, nil
	}

	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	switch m.mode {
	case ModeHelp:
		if key.Matches(msg, m.keys.Help, m.keys.Escape) {
			m.mode = ModeNormal
		}
		return m, nil

	case ModeDetail:
		if key.Matches(msg, m.keys.Escape, m.keys.Detail) {
			m.mode = ModeNormal
			m.detail = nil
			return m, nil
		}
		var cmd tea.Cmd
		m.detailViewport, cmd = m.detailViewport.Update(msg)
		return m, cmd

	case ModeNormal:
	}

	m.err = nil

	switch {
	case key.Matches(msg, m.keys.Up):
		m.taskList.CursorUp()
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.taskList.CursorDown()
		return m, nil
	case key.Matches(msg, m.keys.Detail):
		if task := m.SelectedTask(); task != nil {
			return m, m.loadDetail(task.ID)
		}
		return m, nil
	case key.Matches(msg, m.keys.CriticalOnly):
		m.criticalOnly = !m.criticalOnly
		m.updateTaskList()
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		return m, m.loadBoard()
	case key.Matches(msg, m.keys.Help):
		m.mode = ModeHelp
		return m, nil
	}

	for _, sk := range m.keys.statusKeys() {
		if key.Matches(msg, sk.binding) {
			if task := m.SelectedTask(); task != nil && task.Status != sk.status {
				return m, m.updateStatus(task.ID, sk.status)
			}
			return m, nil
		}
	}

	return m, nil
}
