package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/morningcharge/internal/game"
	"github.com/desertthunder/morningcharge/internal/shared"
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
	MsgTick MsgKind = iota
	MsgSessionEvent
	MsgFeedbackExpired
	MsgConfigReloaded
)

// tickMsg is the constructor for [MsgTick]
func tickMsg(t time.Time) Msg {
	return Msg{kind: MsgTick, data: t}
}

// sessionEventMsg is the constructor for [MsgSessionEvent]
func sessionEventMsg(ev game.Event) Msg {
	return Msg{kind: MsgSessionEvent, data: ev}
}

// feedbackExpiredMsg is the constructor for [MsgFeedbackExpired]; seq
// identifies which feedback panel the timer belongs to.
func feedbackExpiredMsg(seq int) Msg {
	return Msg{kind: MsgFeedbackExpired, data: seq}
}

// configReloadedMsg is the constructor for [MsgConfigReloaded]
func configReloadedMsg(cfg *shared.Config) Msg {
	return Msg{kind: MsgConfigReloaded, data: cfg}
}
