package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Plan describes a project and its tasks for bulk import.
// Tasks reference each other by Key, which is local to the file.
//
// Format:
//
//	project:
//	  name: Launch
//	  deadline: 2025-03-01
//	tasks:
//	  - key: design
//	    title: Design API
//	  - key: build
//	    title: Build API
//	    depends_on: [design]
type Plan struct {
	Project PlanProject `yaml:"project"`
	Tasks   []PlanTask  `yaml:"tasks"`
}

// PlanProject is the project header of a plan.
type PlanProject struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Owner       string `yaml:"owner"`
	Deadline    string `yaml:"deadline"` // YYYY-MM-DD or RFC 3339
}

// PlanTask is a single task entry of a plan.
// Fields are ordered to minimize memory padding.
type PlanTask struct {
	EstimatedHours *float64 `yaml:"estimated_hours"`
	Key            string   `yaml:"key"`
	Title          string   `yaml:"title"`
	Description    string   `yaml:"description"`
	Priority       string   `yaml:"priority"`
	Assignee       string   `yaml:"assignee"`
	DependsOn      []string `yaml:"depends_on"`
}

// ParsePlan decodes and validates a YAML plan.
// It rejects missing or duplicate keys and references to unknown keys.
// Cycles are left to the dependency engine.
func ParsePlan(content []byte) (*Plan, error) {
	if len(strings.TrimSpace(string(content))) == 0 {
		return nil, ErrEmptyFile
	}

	var plan Plan
	if err := yaml.Unmarshal(content, &plan); err != nil {
		return nil, fmt.Errorf("parse plan: %w", err)
	}
	if strings.TrimSpace(plan.Project.Name) == "" {
		return nil, fmt.Errorf("project: %w", ErrEmptyName)
	}
	if len(plan.Tasks) == 0 {
		return nil, ErrNoTasksInFile
	}
	if _, err := plan.Project.ParseDeadline(); err != nil {
		return nil, err
	}

	keys := make(map[string]bool, len(plan.Tasks))
	for i, t := range plan.Tasks {
		if t.Key == "" {
			return nil, fmt.Errorf("task %d: key is required", i+1)
		}
		if keys[t.Key] {
			return nil, fmt.Errorf("task %d: duplicate key %q", i+1, t.Key)
		}
		keys[t.Key] = true
		if strings.TrimSpace(t.Title) == "" {
			return nil, fmt.Errorf("task %q: %w", t.Key, ErrEmptyTitle)
		}
		if _, err := ParsePriority(t.Priority); err != nil {
			return nil, fmt.Errorf("task %q: %w", t.Key, err)
		}
		if t.EstimatedHours != nil && *t.EstimatedHours < 0 {
			return nil, fmt.Errorf("task %q: %w", t.Key, ErrNegativeEstimate)
		}
	}
	for _, t := range plan.Tasks {
		for _, dep := range t.DependsOn {
			if !keys[dep] {
				return nil, fmt.Errorf("task %q: depends on unknown key %q", t.Key, dep)
			}
		}
	}

	return &plan, nil
}

// ParseDeadline parses the deadline field. An empty deadline yields the zero time.
func (p PlanProject) ParseDeadline() (time.Time, error) {
	if p.Deadline == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.DateOnly, p.Deadline); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, p.Deadline)
	if err != nil {
		return time.Time{}, errors.New("project: deadline must be YYYY-MM-DD or RFC 3339")
	}
	return t, nil
}
