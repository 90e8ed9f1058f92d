package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePlan(t *testing.T) {
	plan, err := ParsePlan([]byte(`
project:
  name: Launch
  owner: alice
  deadline: 2025-03-01
tasks:
  - key: design
    title: Design API
    estimated_hours: 4
  - key: build
    title: Build API
    priority: high
    depends_on: [design]
`))
	require.NoError(t, err)

	assert.Equal(t, "Launch", plan.Project.Name)
	assert.Equal(t, "alice", plan.Project.Owner)
	require.Len(t, plan.Tasks, 2)
	assert.Equal(t, []string{"design"}, plan.Tasks[1].DependsOn)
	require.NotNil(t, plan.Tasks[0].EstimatedHours)
	assert.InDelta(t, 4.0, *plan.Tasks[0].EstimatedHours, 0.0001)

	deadline, err := plan.Project.ParseDeadline()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), deadline)
}

func TestParsePlan_SelfReferenceIsLeftToTheEngine(t *testing.T) {
	plan, err := ParsePlan([]byte("project:\n  name: P\ntasks:\n  - key: a\n    title: A\n    depends_on: [a]\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, plan.Tasks[0].DependsOn)
}

func TestParsePlan_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
		wantMsg string
	}{
		{name: "empty", content: "  \n", wantErr: ErrEmptyFile},
		{name: "not yaml", content: "project: [", wantMsg: "parse plan"},
		{name: "no name", content: "project: {}\ntasks:\n  - {key: a, title: A}\n", wantErr: ErrEmptyName},
		{name: "no tasks", content: "project: {name: P}\n", wantErr: ErrNoTasksInFile},
		{name: "bad deadline", content: "project: {name: P, deadline: soon}\ntasks:\n  - {key: a, title: A}\n", wantMsg: "deadline"},
		{name: "missing key", content: "project: {name: P}\ntasks:\n  - {title: A}\n", wantMsg: "key is required"},
		{name: "duplicate key", content: "project: {name: P}\ntasks:\n  - {key: a, title: A}\n  - {key: a, title: B}\n", wantMsg: `duplicate key "a"`},
		{name: "empty title", content: "project: {name: P}\ntasks:\n  - {key: a}\n", wantErr: ErrEmptyTitle},
		{name: "bad priority", content: "project: {name: P}\ntasks:\n  - {key: a, title: A, priority: asap}\n", wantErr: ErrInvalidPriority},
		{name: "negative estimate", content: "project: {name: P}\ntasks:\n  - {key: a, title: A, estimated_hours: -2}\n", wantErr: ErrNegativeEstimate},
		{name: "unknown key", content: "project: {name: P}\ntasks:\n  - {key: a, title: A, depends_on: [z]}\n", wantMsg: `unknown key "z"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePlan([]byte(tt.content))
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}
