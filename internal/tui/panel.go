package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"toolpanel/internal/actions"
	"toolpanel/internal/confirm"
	"toolpanel/internal/toolstatus"
)

const (
	tickInterval  = 150 * time.Millisecond
	actionTimeout = 45 * time.Second

	titleWidth  = 18
	statusWidth = 14
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// tickMsg drives the spinner.
type tickMsg time.Time

// ActionRunner sends action requests to the control panel.
type ActionRunner interface {
	Do(ctx context.Context, req actions.Request) error
}

// Counts tallies how stream events were handled.
type Counts struct {
	Applied   int `json:"applied"`
	Ignored   int `json:"ignored"`
	Dropped   int `json:"dropped"`
	Unmatched int `json:"unmatched"`
}

// Add records one outcome.
func (c *Counts) Add(o toolstatus.Outcome) {
	switch o {
	case toolstatus.OutcomeApplied:
		c.Applied++
	case toolstatus.OutcomeDropped:
		c.Dropped++
	case toolstatus.OutcomeUnmatched:
		c.Unmatched++
	default:
		c.Ignored++
	}
}

// PanelOptions configures a PanelModel.
type PanelOptions struct {
	Source          string
	InstalledSuffix string
	Policy          confirm.Policy
	Runner          ActionRunner
}

// PanelModel is a bubbletea model that renders one row per tool widget and
// feeds stream events into the reconciler. The model is the reconciler's
// only owner while the program runs.
type PanelModel struct {
	rec    *toolstatus.Reconciler
	opts   PanelOptions
	cursor int

	confirming *actions.Request
	prompt     confirm.Prompt
	inFlight   map[string]toolstatus.Action

	notice    string
	streamErr error
	streaming bool
	counts    Counts

	help help.Model
	done bool
	err  error

	tick int
}

// NewPanelModel creates a panel over the reconciler's registry.
func NewPanelModel(rec *toolstatus.Reconciler, opts PanelOptions) PanelModel {
	if opts.InstalledSuffix == "" {
		opts.InstalledSuffix = toolstatus.DefaultInstalledSuffix
	}
	return PanelModel{
		rec:       rec,
		opts:      opts,
		inFlight:  make(map[string]toolstatus.Action),
		streaming: true,
		help:      help.New(),
	}
}

func scheduleTick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init satisfies the tea.Model interface.
func (m PanelModel) Init() tea.Cmd {
	return scheduleTick()
}

// Update satisfies the tea.Model interface.
func (m PanelModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.tick++
		if m.done {
			return m, nil
		}
		return m, scheduleTick()

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case StreamEventMsg:
		res, err := m.rec.Handle(msg.Event.Name, msg.Event.Data)
		m.counts.Add(res.Outcome)
		if err != nil {
			m.err = err
			m.done = true
			return m, tea.Quit
		}
		return m, nil

	case StreamClosedMsg:
		m.streaming = false
		m.streamErr = msg.Err
		return m, nil

	case ActionResultMsg:
		delete(m.inFlight, msg.Tool)
		if msg.Err != nil {
			m.notice = fmt.Sprintf("%s %s failed: %v", msg.Action, msg.Tool, msg.Err)
		} else {
			m.notice = fmt.Sprintf("%s %s requested", msg.Action, msg.Tool)
		}
		return m, nil

	case tea.KeyMsg:
		if m.confirming != nil {
			return m.updateConfirm(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m PanelModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Yes):
		req := *m.confirming
		m.confirming = nil
		return m, m.run(req)
	case key.Matches(msg, keys.No):
		m.notice = fmt.Sprintf("%s %s cancelled", m.confirming.Action, m.confirming.Tool)
		m.confirming = nil
	case msg.String() == "ctrl+c":
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m PanelModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		m.done = true
		return m, tea.Quit
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < m.rec.Registry().Len()-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Prev):
		return m.step(-1)
	case key.Matches(msg, keys.Next):
		return m.step(1)
	case key.Matches(msg, keys.Deploy):
		return m.trigger(toolstatus.ActionDeploy)
	case key.Matches(msg, keys.Open):
		return m.trigger(toolstatus.ActionOpen)
	case key.Matches(msg, keys.Restart):
		return m.trigger(toolstatus.ActionRestart)
	case key.Matches(msg, keys.Remove):
		return m.trigger(toolstatus.ActionRemove)
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m PanelModel) current() (*toolstatus.Widget, bool) {
	widgets := m.rec.Registry().Widgets()
	if m.cursor < 0 || m.cursor >= len(widgets) {
		return nil, false
	}
	return widgets[m.cursor], true
}

func (m PanelModel) step(delta int) (tea.Model, tea.Cmd) {
	w, ok := m.current()
	if !ok || w.Selector == nil {
		return m, nil
	}
	if _, err := m.rec.StepVersion(w.Tool, delta); err != nil {
		m.err = err
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m PanelModel) trigger(action toolstatus.Action) (tea.Model, tea.Cmd) {
	w, ok := m.current()
	if !ok {
		return m, nil
	}
	if !w.Enabled(action) {
		m.notice = fmt.Sprintf("%s is not available for %s", action, w.Title)
		return m, nil
	}
	if action == toolstatus.ActionOpen {
		m.notice = fmt.Sprintf("open %s", NonEmptyOrDash(w.URL))
		return m, nil
	}
	if pending, busy := m.inFlight[w.Tool]; busy {
		m.notice = fmt.Sprintf("%s %s still in progress", pending, w.Tool)
		return m, nil
	}

	req := actions.Request{Tool: w.Tool, Action: action}
	if action == toolstatus.ActionDeploy && w.Selector != nil {
		if opt, ok := w.Selector.SelectedOption(); ok {
			req.Version = opt.Value
		}
	}

	if prompt, needed := m.opts.Policy.Prompt(w.Title, action); needed {
		m.confirming = &req
		m.prompt = prompt
		return m, nil
	}
	return m, m.run(req)
}

func (m PanelModel) run(req actions.Request) tea.Cmd {
	runner := m.opts.Runner
	if runner == nil {
		return func() tea.Msg {
			return ActionResultMsg{Tool: req.Tool, Action: req.Action, Err: actions.ErrNoEndpoint}
		}
	}
	m.inFlight[req.Tool] = req.Action
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		err := runner.Do(ctx, req)
		return ActionResultMsg{Tool: req.Tool, Action: req.Action, Err: err}
	}
}

// View satisfies the tea.Model interface.
func (m PanelModel) View() string {
	if m.done && m.err != nil {
		return fmt.Sprintf("Error: %v\n", m.err)
	}

	var b strings.Builder

	header := []string{
		HeaderStyle.Render(pad("  TOOL", titleWidth+2)),
		HeaderStyle.Render(pad("STATUS", statusWidth)),
		HeaderStyle.Render(pad("ACTIONS", 34)),
		HeaderStyle.Render("VERSION"),
	}
	b.WriteString(strings.Join(header, "  "))
	b.WriteByte('\n')

	for i, w := range m.rec.Registry().Widgets() {
		b.WriteString(m.renderRow(w, i == m.cursor))
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	b.WriteString(m.footer())

	if m.confirming != nil {
		fmt.Fprintf(&b, "\n%s %s [y/n]\n", confirmStyle.Render(m.prompt.Title), m.prompt.Message)
	} else if m.notice != "" {
		fmt.Fprintf(&b, "\n%s\n", noticeStyle.Render(m.notice))
	}

	b.WriteByte('\n')
	b.WriteString(m.help.View(keys))
	b.WriteByte('\n')
	return b.String()
}

func (m PanelModel) renderRow(w *toolstatus.Widget, selected bool) string {
	marker := "  "
	if selected {
		marker = cursorStyle.Render("> ")
	}

	title := TruncateWithEllipsis(w.Title, titleWidth)
	label := TruncateWithEllipsis(NonEmptyOrDash(w.Label), statusWidth)

	buttons := make([]string, len(w.Buttons))
	for i, btn := range w.Buttons {
		text := "[" + string(btn.Action) + "]"
		if btn.Disabled {
			buttons[i] = disabledStyle.Render(text)
		} else {
			buttons[i] = enabledStyle.Render(text)
		}
	}
	plain := 0
	for _, btn := range w.Buttons {
		plain += len(btn.Action) + 3
	}

	parts := []string{
		marker + pad(title, titleWidth),
		StatusStyle(w.Label).Render(pad(label, statusWidth)),
		strings.Join(buttons, " ") + strings.Repeat(" ", max(0, 34-plain)),
		m.renderSelector(w.Selector, selected),
	}
	return strings.Join(parts, "  ")
}

func (m PanelModel) renderSelector(sel *toolstatus.Selector, focused bool) string {
	if sel == nil {
		return "-"
	}
	opt, ok := sel.SelectedOption()
	if !ok {
		return disabledStyle.Render("(no versions)")
	}
	text := opt.Text(m.opts.InstalledSuffix)
	if !focused {
		return text
	}
	left, right := " ", " "
	if sel.Selected > 0 {
		left = "‹"
	}
	if sel.Selected < len(sel.Options)-1 {
		right = "›"
	}
	return left + " " + text + " " + right
}

func (m PanelModel) footer() string {
	source := NonEmptyOrDash(m.opts.Source)
	counts := fmt.Sprintf("%d applied, %d dropped, %d unmatched", m.counts.Applied, m.counts.Dropped, m.counts.Unmatched)
	switch {
	case m.streaming:
		spinner := spinnerFrames[m.tick%len(spinnerFrames)]
		return fmt.Sprintf("%s listening on %s (%s)", spinner, source, counts)
	case m.streamErr != nil:
		return errorStyle.Render(fmt.Sprintf("stream from %s ended: %v", source, m.streamErr)) + " (" + counts + ")"
	default:
		return fmt.Sprintf("stream from %s closed (%s)", source, counts)
	}
}

// Done returns whether the model has finished.
func (m PanelModel) Done() bool {
	return m.done
}

// Err returns any fatal error that occurred.
func (m PanelModel) Err() error {
	return m.err
}

// Counts returns how many events were handled per outcome.
func (m PanelModel) Counts() Counts {
	return m.counts
}
