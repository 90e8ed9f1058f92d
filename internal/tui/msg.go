package tui

import (
	"github.com/runoshun/taskdag/internal/domain"
	"github.com/runoshun/taskdag/internal/usecase"
)

// Msg is the sealed interface for all board messages.
//
// go-sumtype:decl Msg
type Msg interface {
	sealed()
}

// MsgBoardLoaded is sent when the project, its tasks and its critical path are loaded.
type MsgBoardLoaded struct {
	Board *Board
}

func (MsgBoardLoaded) sealed() {}

// MsgDetailLoaded is sent when the selected task's edges are loaded.
type MsgDetailLoaded struct {
	Detail *usecase.ShowTaskOutput
}

func (MsgDetailLoaded) sealed() {}

// MsgStatusUpdated is sent when a task changed status.
type MsgStatusUpdated struct {
	TaskID   string
	Previous domain.Status
	Status   domain.Status
}

func (MsgStatusUpdated) sealed() {}

// MsgError is sent when an error occurs.
type MsgError struct {
	Err error
}

func (MsgError) sealed() {}
