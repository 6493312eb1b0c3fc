package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/ytmap/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgHeadersWritten MsgKind = iota
	MsgProgressUpdate
	MsgBuildComplete
)

// headersWrittenMsg is the constructor for [MsgHeadersWritten]
func headersWrittenMsg(err error) Msg {
	return Msg{kind: MsgHeadersWritten, data: err}
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

type buildOutcome struct {
	result *tasks.BuildResult
	err    error
}

// buildCompleteMsg is the constructor for [MsgBuildComplete]
func buildCompleteMsg(result *tasks.BuildResult, err error) Msg {
	return Msg{kind: MsgBuildComplete, data: buildOutcome{result: result, err: err}}
}
