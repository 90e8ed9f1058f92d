package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func hours(h float64) *float64 { return &h }

func validTask() *Task {
	return &Task{
		ID:        "t1",
		ProjectID: "p1",
		Title:     "Design",
		Status:    StatusTodo,
		Priority:  PriorityMedium,
	}
}

func TestTask_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Task)
		want   error
	}{
		{"valid", func(*Task) {}, nil},
		{"blank title", func(t *Task) { t.Title = "  " }, ErrEmptyTitle},
		{"no project", func(t *Task) { t.ProjectID = "" }, ErrProjectRequired},
		{"bad status", func(t *Task) { t.Status = "closed" }, ErrInvalidStatus},
		{"bad priority", func(t *Task) { t.Priority = "" }, ErrInvalidPriority},
		{"negative estimate", func(t *Task) { t.EstimatedHours = hours(-1) }, ErrNegativeEstimate},
		{"zero estimate", func(t *Task) { t.EstimatedHours = hours(0) }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := validTask()
			tt.mutate(task)
			err := task.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestTask_Estimate(t *testing.T) {
	task := validTask()
	assert.Zero(t, task.Estimate())

	task.EstimatedHours = hours(2.5)
	assert.InDelta(t, 2.5, task.Estimate(), 0.0001)
}

func TestTask_CloneDoesNotShareEstimate(t *testing.T) {
	task := validTask()
	task.EstimatedHours = hours(3)

	clone := task.Clone()
	*clone.EstimatedHours = 8
	clone.Title = "Changed"

	assert.InDelta(t, 3.0, *task.EstimatedHours, 0.0001)
	assert.Equal(t, "Design", task.Title)
}

func TestSortTasks(t *testing.T) {
	tasks := []*Task{{ID: "c"}, {ID: "a"}, {ID: "b"}}
	SortTasks(tasks)
	assert.Equal(t, "a", tasks[0].ID)
	assert.Equal(t, "b", tasks[1].ID)
	assert.Equal(t, "c", tasks[2].ID)
}

func TestComputeProgress(t *testing.T) {
	tests := []struct {
		name     string
		statuses []Status
		want     Progress
	}{
		{"empty project", nil, Progress{}},
		{"none done", []Status{StatusTodo, StatusBlocked}, Progress{TotalTasks: 2}},
		{
			"some done",
			[]Status{StatusDone, StatusTodo, StatusInProgress, StatusDone},
			Progress{TotalTasks: 4, CompletedTasks: 2, Completion: 50},
		},
		{"all done", []Status{StatusDone}, Progress{TotalTasks: 1, CompletedTasks: 1, Completion: 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks := make([]*Task, 0, len(tt.statuses))
			for _, s := range tt.statuses {
				tasks = append(tasks, &Task{Status: s})
			}
			assert.Equal(t, tt.want, ComputeProgress(tasks))
		})
	}
}

func TestProject_Validate(t *testing.T) {
	p := &Project{Name: "Launch", Status: ProjectActive}
	assert.NoError(t, p.Validate())

	p.Name = ""
	assert.ErrorIs(t, p.Validate(), ErrEmptyName)

	p.Name = "Launch"
	p.Status = "archived"
	assert.ErrorIs(t, p.Validate(), ErrInvalidStatus)
}

func TestDependency_Touches(t *testing.T) {
	d := &Dependency{ID: "e1", TaskID: "b", DependsOnID: "a"}
	assert.True(t, d.Touches("a"))
	assert.True(t, d.Touches("b"))
	assert.False(t, d.Touches("c"))
}
