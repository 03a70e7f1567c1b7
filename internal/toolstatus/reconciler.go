package toolstatus

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// Outcome classifies what Handle did with an event.
type Outcome int

const (
	// OutcomeIgnored: the event name is not the status event type.
	OutcomeIgnored Outcome = iota
	// OutcomeDropped: the payload could not be decoded.
	OutcomeDropped
	// OutcomeUnmatched: no widget is registered for the event's tool.
	OutcomeUnmatched
	// OutcomeApplied: the event was projected onto its widget.
	OutcomeApplied
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDropped:
		return "dropped"
	case OutcomeUnmatched:
		return "unmatched"
	case OutcomeApplied:
		return "applied"
	default:
		return "ignored"
	}
}

// Result describes the effect of one event.
type Result struct {
	Outcome Outcome
	Event   Event
	Status  Status
}

// Options configures a Reconciler.
type Options struct {
	// EventType is the stream event name to consume. Defaults to DefaultEventType.
	EventType string
	Logger    *slog.Logger
}

// Reconciler projects status events onto the widgets of a registry.
// It is not safe for concurrent use; a single owner must feed it events
// in arrival order.
type Reconciler struct {
	registry  *Registry
	eventType string
	logger    *slog.Logger
	handlers  map[string]func(Event) error
}

// NewReconciler subscribes one handler per registered widget.
func NewReconciler(reg *Registry, opts Options) *Reconciler {
	if opts.EventType == "" {
		opts.EventType = DefaultEventType
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	r := &Reconciler{
		registry:  reg,
		eventType: opts.EventType,
		logger:    opts.Logger,
		handlers:  make(map[string]func(Event) error, reg.Len()),
	}
	for _, w := range reg.Widgets() {
		w := w
		r.handlers[w.Tool] = func(ev Event) error {
			return r.project(w, ev)
		}
	}
	return r
}

// Registry returns the registry the reconciler mutates.
func (r *Reconciler) Registry() *Registry {
	return r.registry
}

// EventType returns the event name the reconciler consumes.
func (r *Reconciler) EventType() string {
	return r.eventType
}

// Handle decodes and applies one named stream event. Malformed, foreign
// and unmatched events are reported through the Result and never produce
// an error; the only error is a missing deploy button.
func (r *Reconciler) Handle(name string, data []byte) (Result, error) {
	if name != r.eventType {
		return Result{Outcome: OutcomeIgnored}, nil
	}
	ev, err := DecodeEvent(data)
	if err != nil {
		r.logger.Debug("dropping status event", "error", err)
		return Result{Outcome: OutcomeDropped}, nil
	}
	return r.Apply(ev)
}

// Apply routes a decoded event to the widget subscribed for its tool.
func (r *Reconciler) Apply(ev Event) (Result, error) {
	handler, ok := r.handlers[ev.ToolName]
	if !ok {
		return Result{Outcome: OutcomeUnmatched, Event: ev}, nil
	}
	res := Result{Outcome: OutcomeApplied, Event: ev, Status: ParseStatus(ev.Status)}
	if err := handler(ev); err != nil {
		return res, err
	}
	r.logger.Debug("status applied", "tool", ev.ToolName, "status", ev.Status, "version", ev.Version)
	return res, nil
}

func (r *Reconciler) project(w *Widget, ev Event) error {
	w.Label = ev.Status

	status := ParseStatus(ev.Status)
	set, ok := status.Actions()
	if !ok {
		return nil
	}
	w.showActions(set)

	if status.ReportsVersion() {
		return r.ReconcileVersion(w, ev.Version)
	}
	return nil
}

// ReconcileVersion records version as the installed version of w: the
// not-installed sentinel goes away, the installed marker moves to the
// matching option and deploy enablement is recomputed. An empty version
// leaves the options alone but still recomputes deploy enablement. A widget
// without a selector is a no-op.
func (r *Reconciler) ReconcileVersion(w *Widget, version string) error {
	sel := w.Selector
	if sel == nil {
		return nil
	}

	if version != "" {
		sel.removeNotInstalled()
		if !sel.markInstalled(version) {
			r.logger.Warn("reported version not offered by selector", "tool", w.Tool, "version", version)
		}
	}
	return r.SelectionChanged(sel)
}

// SelectionChanged disables the target's deploy button when the selected
// option is the installed version or the not-installed sentinel.
func (r *Reconciler) SelectionChanged(sel *Selector) error {
	deploy, err := r.registry.DeployButton(sel.Target)
	if err != nil {
		return err
	}
	opt, ok := sel.SelectedOption()
	if !ok {
		deploy.Disabled = true
		return nil
	}
	deploy.Disabled = opt.State != OptionPlain
	return nil
}

// SelectVersion is the user-driven selector change for tool.
func (r *Reconciler) SelectVersion(tool, value string) error {
	sel, err := r.selector(tool)
	if err != nil {
		return err
	}
	if err := sel.Select(value); err != nil {
		return err
	}
	return r.SelectionChanged(sel)
}

// StepVersion moves the selection of tool's selector by delta and
// recomputes deploy enablement when it moved.
func (r *Reconciler) StepVersion(tool string, delta int) (bool, error) {
	sel, err := r.selector(tool)
	if err != nil {
		return false, err
	}
	if !sel.Step(delta) {
		return false, nil
	}
	return true, r.SelectionChanged(sel)
}

// Prime brings every widget's buttons in line with its initial label and
// selector, the way server-rendered markup arrives consistent. A widget
// whose selector cannot find its deploy button fails here, at startup.
func (r *Reconciler) Prime() error {
	var errs []error
	for _, w := range r.registry.Widgets() {
		if set, ok := ParseStatus(w.Label).Actions(); ok {
			w.showActions(set)
		}
		if w.Selector != nil {
			if err := r.SelectionChanged(w.Selector); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", w.Tool, err))
			}
		}
	}
	return errors.Join(errs...)
}

func (r *Reconciler) selector(tool string) (*Selector, error) {
	w, ok := r.registry.Widget(tool)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, tool)
	}
	if w.Selector == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoSelector, tool)
	}
	return w.Selector, nil
}
