package tui

import (
	"toolpanel/internal/stream"
	"toolpanel/internal/toolstatus"
)

// StreamEventMsg carries one event read from the source.
type StreamEventMsg struct {
	Event stream.Event
}

// StreamClosedMsg signals that the source stopped. Err is nil on a clean end.
type StreamClosedMsg struct {
	Err error
}

// ActionResultMsg reports the outcome of an action request.
type ActionResultMsg struct {
	Tool   string
	Action toolstatus.Action
	Err    error
}
