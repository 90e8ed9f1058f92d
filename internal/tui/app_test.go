package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskdag/internal/app"
	"github.com/runoshun/taskdag/internal/domain"
	"github.com/runoshun/taskdag/internal/infra/memstore"
	"github.com/runoshun/taskdag/internal/testutil"
)

// newTestModel seeds project p1 with the chain a -> b -> c (a depends on b,
// b depends on c) and an unrelated task d, then loads the board.
func newTestModel(t *testing.T) (*Model, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	testutil.SeedProject(t, store, "p1", "a", "b", "c", "d")
	testutil.Link(t, store, "e1", "a", "b")
	testutil.Link(t, store, "e2", "b", "c")

	c := app.NewWithDeps(app.Config{DataDir: t.TempDir()}, store,
		testutil.FixedClock(), testutil.NewSequenceIDs("x"), nil, nil)
	m := New(c, "p1")
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	run(t, m, m.Init())
	return m, store
}

// run executes cmd synchronously and feeds its message back into the model.
func run(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)
	_, next := m.Update(cmd())
	if next != nil {
		_, _ = m.Update(next())
	}
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *Model, s string) tea.Cmd {
	_, cmd := m.Update(keyMsg(s))
	return cmd
}

func itemIDs(m *Model) []string {
	var ids []string
	for _, it := range m.taskList.Items() {
		ids = append(ids, it.(taskItem).task.ID)
	}
	return ids
}

func TestLoadBoard_PrerequisitesFirst(t *testing.T) {
	m, _ := newTestModel(t)

	require.NotNil(t, m.board)
	assert.Equal(t, []string{"c", "b", "a"}, m.board.Path)
	assert.True(t, m.board.Critical["b"])
	assert.False(t, m.board.Critical["d"])
	assert.True(t, m.board.Ready["c"])
	assert.False(t, m.board.Ready["a"])

	ids := itemIDs(m)
	require.Len(t, ids, 4)
	assert.Less(t, indexOf(ids, "c"), indexOf(ids, "b"))
	assert.Less(t, indexOf(ids, "b"), indexOf(ids, "a"))
	assert.Equal(t, 4, m.board.Progress.TotalTasks)
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

func TestUpdate_DoneBlockedByPrerequisites(t *testing.T) {
	m, store := newTestModel(t)
	for m.SelectedTask().ID != "a" {
		press(m, "down")
	}

	run(t, m, press(m, "d"))

	require.Error(t, m.err)
	assert.Contains(t, m.err.Error(), "blocked by b")
	assert.Contains(t, m.View(), "incomplete dependencies")
	task, err := store.GetTask(t.Context(), "a")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusTodo, task.Status)
}

func TestUpdate_DoneReloadsBoard(t *testing.T) {
	m, store := newTestModel(t)
	require.Equal(t, "c", itemIDs(m)[0])
	m.taskList.Select(0)

	run(t, m, press(m, "d"))

	assert.NoError(t, m.err)
	task, err := store.GetTask(t.Context(), "c")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDone, task.Status)
	assert.Equal(t, 1, m.board.Progress.CompletedTasks)
	assert.True(t, m.board.Ready["b"])
	assert.Equal(t, "c", m.SelectedTask().ID, "selection survives reload")
}

func TestUpdate_CriticalOnly(t *testing.T) {
	m, _ := newTestModel(t)

	assert.Nil(t, press(m, "c"))
	assert.ElementsMatch(t, []string{"a", "b", "c"}, itemIDs(m))
	assert.Contains(t, m.View(), "[critical only]")

	press(m, "c")
	assert.Len(t, itemIDs(m), 4)
}

func TestUpdate_Detail(t *testing.T) {
	m, _ := newTestModel(t)
	for m.SelectedTask().ID != "b" {
		press(m, "down")
	}

	run(t, m, press(m, "enter"))

	assert.Equal(t, ModeDetail, m.mode)
	content := m.detailContent()
	assert.Contains(t, content, "Depends on")
	assert.Contains(t, content, "c Task c")
	assert.Contains(t, content, "a Task a")
	assert.Contains(t, content, "Blocked by: c")

	press(m, "esc")
	assert.Equal(t, ModeNormal, m.mode)
	assert.Nil(t, m.detail)
}

func TestUpdate_HelpAndQuit(t *testing.T) {
	m, _ := newTestModel(t)

	press(m, "?")
	assert.Equal(t, ModeHelp, m.mode)
	assert.Contains(t, m.View(), "critical path only")
	press(m, "?")
	assert.Equal(t, ModeNormal, m.mode)

	cmd := press(m, "q")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestUpdate_UnknownProject(t *testing.T) {
	c := app.NewWithDeps(app.Config{DataDir: t.TempDir()}, memstore.New(),
		testutil.FixedClock(), testutil.NewSequenceIDs("x"), nil, nil)
	m := New(c, "nope")
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})

	_, _ = m.Update(m.Init()())

	assert.ErrorIs(t, m.err, domain.ErrProjectNotFound)
	assert.Contains(t, m.View(), "project not found")
}

func TestView_LoadingBeforeResize(t *testing.T) {
	m := New(nil, "p1")
	assert.Equal(t, "Loading...", m.View())
}
