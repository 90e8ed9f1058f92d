package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/runoshun/taskdag/internal/app"
	"github.com/runoshun/taskdag/internal/domain"
	"github.com/runoshun/taskdag/internal/usecase"
)

// Model is the bubbletea model of the project board.
type Model struct {
	// Dependencies
	container *app.Container

	// State
	board  *Board
	detail *usecase.ShowTaskOutput
	err    error

	// Components
	keys           KeyMap
	styles         Styles
	help           help.Model
	taskList       list.Model
	detailViewport viewport.Model

	projectID    string
	mode         Mode
	width        int
	height       int
	criticalOnly bool
}

// New creates a board for the project.
func New(c *app.Container, projectID string) *Model {
	styles := DefaultStyles()
	taskList := list.New([]list.Item{}, newTaskDelegate(styles), 0, 0)
	taskList.SetShowTitle(false)
	taskList.SetShowStatusBar(false)
	taskList.SetShowHelp(false)
	taskList.SetShowPagination(false)
	taskList.SetFilteringEnabled(false)
	taskList.DisableQuitKeybindings()

	return &Model{
		container: c,
		projectID: projectID,
		mode:      ModeNormal,
		keys:      DefaultKeyMap(),
		styles:    styles,
		help:      help.New(),
		taskList:  taskList,
	}
}

// Init loads the board.
func (m *Model) Init() tea.Cmd {
	return m.loadBoard()
}

func (m *Model) loadBoard() tea.Cmd {
	return func() tea.Msg {
		board, err := LoadBoard(context.Background(), m.container, m.projectID)
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgBoardLoaded{Board: board}
	}
}

func (m *Model) loadDetail(taskID string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.container.ShowTaskUseCase().Execute(context.Background(), usecase.ShowTaskInput{TaskID: taskID})
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgDetailLoaded{Detail: out}
	}
}

// updateStatus moves a task through UpdateTaskStatus so the done guard applies.
func (m *Model) updateStatus(taskID string, status domain.Status) tea.Cmd {
	return func() tea.Msg {
		out, err := m.container.UpdateTaskStatusUseCase().Execute(context.Background(), usecase.UpdateTaskStatusInput{
			TaskID: taskID,
			Status: string(status),
		})
		if err != nil {
			var blocked *usecase.TransitionBlockedError
			if errors.As(err, &blocked) {
				return MsgError{Err: fmt.Errorf("%s: %w (blocked by %s)", taskID, err, strings.Join(blocked.Blocking, ", "))}
			}
			return MsgError{Err: err}
		}
		return MsgStatusUpdated{TaskID: out.Task.ID, Previous: out.Previous, Status: out.Task.Status}
	}
}

// SelectedTask returns the currently selected task, or nil if none.
func (m *Model) SelectedTask() *domain.Task {
	if ti, ok := m.taskList.SelectedItem().(taskItem); ok {
		return ti.task
	}
	return nil
}

// updateTaskList rebuilds the list items from the board, keeping the selection.
func (m *Model) updateTaskList() {
	if m.board == nil {
		return
	}
	var selectedID string
	if t := m.SelectedTask(); t != nil {
		selectedID = t.ID
	}

	items := make([]list.Item, 0, len(m.board.Tasks))
	cursor := 0
	for _, t := range m.board.Tasks {
		if m.criticalOnly && !m.board.Critical[t.ID] {
			continue
		}
		if t.ID == selectedID {
			cursor = len(items)
		}
		items = append(items, taskItem{task: t, critical: m.board.Critical[t.ID], ready: m.board.Ready[t.ID]})
	}
	m.taskList.SetItems(items)
	m.taskList.Select(cursor)
}

func (m *Model) updateLayoutSizes() {
	listHeight := m.height - 8
	if listHeight < 3 {
		listHeight = 3
	}
	m.taskList.SetSize(m.width-4, listHeight)

	width := m.width - 8
	if width < 40 {
		width = 40
	}
	m.detailViewport = viewport.New(width, listHeight)
	m.detailViewport.SetContent(m.detailContent())
}
