package tui

import (
	"context"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"toolpanel/internal/stream"
)

// RunPanel creates a bubbletea program, streams src into it from a
// goroutine, and blocks until the program exits. Events reach the
// reconciler only through the program's update loop.
func RunPanel(ctx context.Context, out io.Writer, model PanelModel, src stream.Source) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(model, tea.WithOutput(out), tea.WithContext(ctx))

	go func() {
		// Let bubbletea start its event loop and render the initial frame.
		time.Sleep(50 * time.Millisecond)

		err := src.Stream(ctx, func(ev stream.Event) {
			p.Send(StreamEventMsg{Event: ev})
		})
		p.Send(StreamClosedMsg{Err: err})
	}()

	finalModel, err := p.Run()
	if m, ok := finalModel.(PanelModel); ok && m.Err() != nil {
		return m.Err()
	}
	if err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
