package domain

import (
	"errors"
	"testing"
)

func TestStatus_IsValid(t *testing.T) {
	tests := []struct {
		status Status
		want   bool
	}{
		{StatusTodo, true},
		{StatusInProgress, true},
		{StatusDone, true},
		{StatusBlocked, true},
		{"closed", false},
		{"", false},
		{"TODO", false},
	}
	for _, tt := range tests {
		if got := tt.status.IsValid(); got != tt.want {
			t.Errorf("Status(%q).IsValid() = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	for _, s := range AllStatuses() {
		want := s == StatusDone
		if got := s.IsTerminal(); got != want {
			t.Errorf("Status(%q).IsTerminal() = %v, want %v", s, got, want)
		}
	}
}

func TestStatus_Display(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusTodo, "To Do"},
		{StatusInProgress, "In Progress"},
		{StatusDone, "Done"},
		{StatusBlocked, "Blocked"},
		{"weird", "weird"},
	}
	for _, tt := range tests {
		if got := tt.status.Display(); got != tt.want {
			t.Errorf("Status(%q).Display() = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range AllStatuses() {
		got, err := ParseStatus(string(s))
		if err != nil || got != s {
			t.Errorf("ParseStatus(%q) = %q, %v", s, got, err)
		}
	}
	for _, in := range []string{"", "finished", "Done"} {
		if _, err := ParseStatus(in); !errors.Is(err, ErrInvalidStatus) {
			t.Errorf("ParseStatus(%q) error = %v, want ErrInvalidStatus", in, err)
		}
	}
}

func TestParsePriority(t *testing.T) {
	tests := []struct {
		in      string
		want    Priority
		wantErr bool
	}{
		{"", PriorityMedium, false},
		{"low", PriorityLow, false},
		{"medium", PriorityMedium, false},
		{"high", PriorityHigh, false},
		{"urgent", PriorityUrgent, false},
		{"critical", "", true},
	}
	for _, tt := range tests {
		got, err := ParsePriority(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidPriority) {
				t.Errorf("ParsePriority(%q) error = %v, want ErrInvalidPriority", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParsePriority(%q) = %q, %v, want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestParseProjectStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    ProjectStatus
		wantErr bool
	}{
		{"", ProjectPlanning, false},
		{"active", ProjectActive, false},
		{"on_hold", ProjectOnHold, false},
		{"completed", ProjectCompleted, false},
		{"cancelled", ProjectCancelled, false},
		{"archived", "", true},
	}
	for _, tt := range tests {
		got, err := ParseProjectStatus(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidStatus) {
				t.Errorf("ParseProjectStatus(%q) error = %v, want ErrInvalidStatus", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseProjectStatus(%q) = %q, %v, want %q", tt.in, got, err, tt.want)
		}
	}
}
