package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/songle/internal/formatter"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the console (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgReply MsgKind = iota
)

// replyMsg is the constructor for [MsgReply]
func replyMsg(line string, embed formatter.Embed) Msg {
	return Msg{
		kind: MsgReply,
		data: struct {
			line  string
			embed formatter.Embed
		}{line, embed},
	}
}
