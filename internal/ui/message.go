package ui

import (
	tea "github.com/charmbracelet/bubbletea"
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
	MsgDocumentChanged MsgKind = iota
	MsgHandlerDone
)

// DocumentChangedMsg is the constructor for [MsgDocumentChanged]. Send it from
// [page.Document.OnChange] to re-render as soon as any handler patches the page.
func DocumentChangedMsg() Msg {
	return Msg{kind: MsgDocumentChanged}
}

// handlerDoneMsg is the constructor for [MsgHandlerDone]
func handlerDoneMsg(op string) Msg {
	return Msg{kind: MsgHandlerDone, data: op}
}

func (m Msg) op() string {
	op, _ := m.data.(string)
	return op
}
